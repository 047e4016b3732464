// Package graph materializes an in-memory entity/relationship graph from a
// stream of RDF-shaped triples and exposes read-only access for analytics.
//
// Nodes and edges live in an arena: both are stored in indexable slices and
// adjacency is expressed as index sets rather than pointers, which keeps
// analytics (k-core, betweenness, PPR, Leiden) cache-friendly and avoids the
// cyclic-pointer graph that a naive Node{Edges []*Edge} / Edge{From, To
// *Node} representation would require.
//
// A Graph is immutable after Build: any number of analytics calls may share
// one instance without additional synchronization. Building a graph is a
// one-shot, two-pass operation over a TripleIterator; it is not safe to
// mutate a Graph incrementally after Build returns.
package graph
