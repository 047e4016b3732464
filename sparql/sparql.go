package sparql

import "github.com/danja/semem-sub012/graph"

// LabelMatch describes how a label filter is applied.
type LabelMatch int

const (
	// CaseInsensitiveOrSubstring matches when the stored label equals the
	// filter value case-insensitively, or contains it as a substring.
	CaseInsensitiveOrSubstring LabelMatch = iota
	// CaseInsensitiveEquality matches only on case-insensitive equality.
	CaseInsensitiveEquality
)

// Query describes one parameterised SELECT shape: its projected
// variables, predicate and type filters, and an optional label match and
// row limit. It renders the query shape, not a SPARQL string.
type Query struct {
	Name        string
	Projections []string
	Predicates  []string
	TypeFilter  []string
	EntryPoints []string
	LabelFilter string
	LabelMatch  LabelMatch
	Limit       int
	Aggregate   bool
	GroupBy     string
}

// graphBuildPredicates are the predicates the graph.Build two-pass
// assembly recognises.
var graphBuildPredicates = []string{
	graph.PredType,
	graph.PredHasSourceEntity,
	graph.PredHasTargetEntity,
	graph.PredHasWeight,
}

// GraphBuildQuery assembles the fetch used to populate a graph.Graph:
// ?subject ?predicate ?object, filtered to rows whose subject or object
// falls within entryPoints.
func GraphBuildQuery(entryPoints []string) Query {
	return Query{
		Name:        "GraphBuild",
		Projections: []string{"subject", "predicate", "object"},
		Predicates:  graphBuildPredicates,
		EntryPoints: entryPoints,
	}
}

// ExactLabelQuery assembles the exact-match lookup: ?uri ?type ?label
// ?content, restricted to types and matched case-insensitively or by
// substring containment against label.
func ExactLabelQuery(types []string, label string) Query {
	return Query{
		Name:        "ExactLabel",
		Projections: []string{"uri", "type", "label", "content"},
		TypeFilter:  types,
		LabelFilter: label,
		LabelMatch:  CaseInsensitiveOrSubstring,
	}
}

// EntityResolutionQuery assembles the name-to-uri resolution lookup:
// ?uri ?label, same label filter as ExactLabelQuery (case-insensitive
// equality OR substring containment), limited to 5 rows per name.
func EntityResolutionQuery(label string) Query {
	return Query{
		Name:        "EntityResolution",
		Projections: []string{"uri", "label"},
		LabelFilter: label,
		LabelMatch:  CaseInsensitiveOrSubstring,
		Limit:       5,
	}
}

// StatsQuery assembles the aggregate per-type count query.
func StatsQuery() Query {
	return Query{
		Name:      "Stats",
		Aggregate: true,
		GroupBy:   "type",
	}
}
