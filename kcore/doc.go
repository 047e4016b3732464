// Package kcore implements k-core decomposition over a graph.Graph by
// iterative degree peeling.
//
// At each round the minimum current degree d among remaining nodes is
// found; the running core number k is raised to max(k, d); every node whose
// current degree is <= k is removed and assigned core number k, and the
// degrees of its still-present neighbours are decremented. The process
// terminates when every node has been removed.
package kcore
