package graph

import "errors"

// Sentinel errors for the graph package. Callers should use errors.Is.
var (
	// ErrEmptyNodeID is returned when a node identifier is the empty string.
	ErrEmptyNodeID = errors.New("graph: node id is empty")

	// ErrNodeNotFound is returned when an operation references a node id
	// that was never inserted into the graph.
	ErrNodeNotFound = errors.New("graph: node not found")

	// ErrNilIterator is returned when Build is called with a nil
	// TripleIterator.
	ErrNilIterator = errors.New("graph: triple iterator is nil")
)
