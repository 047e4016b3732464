// Package components computes connected components over a graph.Graph via
// iterative (non-recursive) depth-first search, keeping an explicit stack
// rather than recursing.
package components
