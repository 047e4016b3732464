package centrality

import (
	"fmt"
	"math"
	"testing"

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

// buildPath builds a 5-node path a-b-c-d-e, where c is the sole
// cut-vertex between the two halves and should have the highest score.
func buildPath(t *testing.T) (*graph.Graph, map[string]graph.NodeID) {
	t.Helper()
	var ts []graph.Triple
	verts := []string{"a", "b", "c", "d", "e"}
	for _, v := range verts {
		ts = append(ts, entity(v))
	}
	pairs := [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "e"}}
	for i, p := range pairs {
		ts = append(ts, rel(fmt.Sprintf("r%d", i), p[0], p[1])...)
	}
	g, err := graph.Build(graph.NewSliceIterator(ts))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ids := make(map[string]graph.NodeID, len(verts))
	for _, v := range verts {
		id, _ := g.NodeByURI(v)
		ids[v] = id
	}

	return g, ids
}

func TestBetweennessPathCenterHighest(t *testing.T) {
	g, ids := buildPath(t)
	res := Betweenness(g)
	if res.Skipped {
		t.Fatal("unexpected skip")
	}
	center := res.Scores[ids["c"]]
	for _, v := range []string{"a", "b", "d", "e"} {
		if res.Scores[ids[v]] > center {
			t.Fatalf("node %s score %f exceeds center score %f", v, res.Scores[ids[v]], center)
		}
	}
	if res.Scores[ids["a"]] != 0 || res.Scores[ids["e"]] != 0 {
		t.Fatalf("endpoints should have zero betweenness, got a=%f e=%f", res.Scores[ids["a"]], res.Scores[ids["e"]])
	}
}

func TestBetweennessSkipThreshold(t *testing.T) {
	g, _ := buildPath(t)
	res := Betweenness(g, WithSkipThreshold(1))
	if !res.Skipped {
		t.Fatal("expected Skipped true")
	}
	if len(res.Scores) != 0 {
		t.Fatalf("expected empty scores, got %v", res.Scores)
	}
}

func TestBetweennessParallelMatchesSerial(t *testing.T) {
	g, _ := buildPath(t)
	serial := Betweenness(g, WithParallelThreshold(0))
	parallel := Betweenness(g, WithParallelThreshold(1))
	for id, v := range serial.Scores {
		if math.Abs(v-parallel.Scores[id]) > 1e-9 {
			t.Fatalf("node %v: serial=%f parallel=%f", id, v, parallel.Scores[id])
		}
	}
}

func TestBetweennessEmptyGraph(t *testing.T) {
	g, _ := graph.Build(graph.NewSliceIterator(nil))
	res := Betweenness(g)
	if res.Skipped || len(res.Scores) != 0 {
		t.Fatalf("expected empty unskipped result, got %+v", res)
	}
}
