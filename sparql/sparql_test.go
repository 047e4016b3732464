package sparql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGraphBuildQueryProjections(t *testing.T) {
	q := GraphBuildQuery([]string{"urn:a", "urn:b"})
	require.Equal(t, []string{"subject", "predicate", "object"}, q.Projections)
	require.Len(t, q.EntryPoints, 2)
	require.Contains(t, q.Predicates, "rdf:type")
}

func TestEntityResolutionQueryLimitsFive(t *testing.T) {
	q := EntityResolutionQuery("Alpha")
	require.Equal(t, 5, q.Limit, "entity resolution is capped at 5 rows per name")
	require.Equal(t, CaseInsensitiveOrSubstring, q.LabelMatch)
	require.Equal(t, []string{"uri", "label"}, q.Projections)
}

func TestExactLabelQueryUsesSubstringOrEquality(t *testing.T) {
	q := ExactLabelQuery([]string{"Entity", "Attribute"}, "alpha")
	require.Equal(t, CaseInsensitiveOrSubstring, q.LabelMatch)
	require.Equal(t, []string{"Entity", "Attribute"}, q.TypeFilter)
	require.Equal(t, "alpha", q.LabelFilter)
}

func TestStatsQueryIsAggregate(t *testing.T) {
	q := StatsQuery()
	require.True(t, q.Aggregate)
	require.Equal(t, "type", q.GroupBy)
}
