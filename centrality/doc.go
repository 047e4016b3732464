// Package centrality computes betweenness centrality over a graph.Graph
// using Brandes' algorithm: one BFS per source node computing shortest-path
// counts and predecessor sets, then a reverse-order dependency-accumulation
// pass. Large graphs are sharded across source nodes with
// golang.org/x/sync/errgroup rather than walked serially.
package centrality
