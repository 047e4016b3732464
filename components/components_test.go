package components

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danja/semem-sub012/graph"
)

func entity(uri string) graph.Triple {
	return graph.Triple{Subject: uri, Predicate: graph.PredType, Object: graph.RagnoNamespace + "Entity"}
}

func rel(id, src, tgt string) []graph.Triple {
	return []graph.Triple{
		{Subject: id, Predicate: graph.PredHasSourceEntity, Object: src},
		{Subject: id, Predicate: graph.PredHasTargetEntity, Object: tgt},
	}
}

func TestConnectedTwoTriangles(t *testing.T) {
	var ts []graph.Triple
	for _, v := range []string{"a1", "a2", "a3", "b1", "b2", "b3"} {
		ts = append(ts, entity(v))
	}
	ts = append(ts, rel("r1", "a1", "a2")...)
	ts = append(ts, rel("r2", "a2", "a3")...)
	ts = append(ts, rel("r3", "a3", "a1")...)
	ts = append(ts, rel("r4", "b1", "b2")...)
	ts = append(ts, rel("r5", "b2", "b3")...)
	ts = append(ts, rel("r6", "b3", "b1")...)

	g, err := graph.Build(graph.NewSliceIterator(ts))
	require.NoError(t, err)

	res := Connected(g)
	require.Len(t, res.Components, 2)
	require.Len(t, res.Components[0], 3)
	require.Len(t, res.Components[1], 3)

	a1, _ := g.NodeByURI("a1")
	b1, _ := g.NodeByURI("b1")
	require.NotEqual(t, res.Membership[a1], res.Membership[b1], "a1 and b1 should not share a component")
	require.Equal(t, 0, res.Largest)
}

func TestConnectedSortsBySizeDescending(t *testing.T) {
	var ts []graph.Triple
	for _, v := range []string{"a1", "a2", "a3", "lone"} {
		ts = append(ts, entity(v))
	}
	ts = append(ts, rel("r1", "a1", "a2")...)
	ts = append(ts, rel("r2", "a2", "a3")...)

	g, err := graph.Build(graph.NewSliceIterator(ts))
	require.NoError(t, err)

	res := Connected(g)
	require.Len(t, res.Components, 2)
	require.Len(t, res.Components[0], 3, "largest component must sort first")
	require.Len(t, res.Components[1], 1)
}

func TestConnectedEmptyGraph(t *testing.T) {
	g, err := graph.Build(graph.NewSliceIterator(nil))
	require.NoError(t, err)

	res := Connected(g)
	require.Empty(t, res.Components)
	require.Equal(t, -1, res.Largest)
}
