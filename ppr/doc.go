// Package ppr computes personalized PageRank over a graph.Graph: a
// power-iteration random walk with teleportation restricted to a caller-
// supplied set of entry-point nodes. The transition matrix is built from
// the mirrored/symmetric adjacency regardless of the source graph's
// directedness, unless the caller opts out via WithSymmetricWalk(false).
package ppr
