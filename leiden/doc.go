// Package leiden detects communities in a graph.Graph via modularity
// optimisation with a well-connectedness refinement phase: local moving
// of nodes in a seeded pseudo-random order, a
// refinement pass that splits any community whose induced subgraph turns
// out disconnected, and aggregation into a meta-graph before the next
// outer iteration. Randomness is supplied exclusively by rng.LCG, one
// instance per Run call, so a seeded run reproduces byte-identical
// assignments.
package leiden
