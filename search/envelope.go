package search

import "github.com/danja/semem-sub012/graph"

// Source names the closed set of strategies a result may have been
// contributed by.
type Source string

const (
	SourceExactMatch       Source = "exact_match"
	SourceVectorSimilarity Source = "vector_similarity"
	SourcePPRTraversal     Source = "ppr_traversal"
)

// Result is one fused, ranked search hit.
type Result struct {
	URI           string
	Type          graph.NodeType
	Content       string
	Score         float64
	CombinedScore float64
	Sources       []Source
	Rank          int
}

// Diagnostic records a non-fatal failure in one Phase B retrieval; the
// query still returns whatever other sources succeeded.
type Diagnostic struct {
	Source  Source
	Kind    Kind
	Message string
}

// Envelope is the user-visible outcome of one Query call, returned on
// success, partial failure, and complete failure alike. A completely
// failed query carries Success false plus the error kind and message,
// alongside the same *Error as Query's error return.
type Envelope struct {
	QueryID     string
	Success     bool
	Results     []Result
	Confidence  float64
	Diagnostics []Diagnostic

	// ErrorKind and ErrorMessage are set only when Success is false.
	ErrorKind    string
	ErrorMessage string
}
