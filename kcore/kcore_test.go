package kcore

import (
	"context"
	"errors"
	"testing"

	"github.com/danja/semem-sub012/graph"
)

func entityTriple(uri string) graph.Triple {
	return graph.Triple{Subject: uri, Predicate: graph.PredType, Object: graph.RagnoNamespace + "Entity"}
}

func relTriple(id, src, tgt string) []graph.Triple {
	return []graph.Triple{
		{Subject: id, Predicate: graph.PredHasSourceEntity, Object: src},
		{Subject: id, Predicate: graph.PredHasTargetEntity, Object: tgt},
	}
}

func buildK4(t *testing.T) *graph.Graph {
	t.Helper()
	var ts []graph.Triple
	verts := []string{"a", "b", "c", "d"}
	for _, v := range verts {
		ts = append(ts, entityTriple(v))
	}
	pairs := [][2]string{{"a", "b"}, {"a", "c"}, {"a", "d"}, {"b", "c"}, {"b", "d"}, {"c", "d"}}
	for i, p := range pairs {
		ts = append(ts, relTriple(relID(i), p[0], p[1])...)
	}
	g, err := graph.Build(graph.NewSliceIterator(ts))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	return g
}

func relID(i int) string { return "r" + string(rune('0'+i)) }

func TestDecomposeK4(t *testing.T) {
	g := buildK4(t)
	res, err := Decompose(g)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if res.MaxCore != 3 {
		t.Fatalf("MaxCore = %d, want 3", res.MaxCore)
	}
	for _, id := range g.Nodes() {
		if res.CoreNumbers[id] != 3 {
			t.Fatalf("CoreNumbers[%v] = %d, want 3", id, res.CoreNumbers[id])
		}
	}
}

func TestDecomposeK4MinusOneEdge(t *testing.T) {
	// Remove edge c-d by rebuilding without it: a,b have degree 3; c,d have degree 2.
	var ts []graph.Triple
	for _, v := range []string{"a", "b", "c", "d"} {
		ts = append(ts, entityTriple(v))
	}
	pairs := [][2]string{{"a", "b"}, {"a", "c"}, {"a", "d"}, {"b", "c"}, {"b", "d"}}
	for i, p := range pairs {
		ts = append(ts, relTriple(relID(i), p[0], p[1])...)
	}
	g, err := graph.Build(graph.NewSliceIterator(ts))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res, err := Decompose(g)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	a, _ := g.NodeByURI("a")
	b, _ := g.NodeByURI("b")
	c, _ := g.NodeByURI("c")
	d, _ := g.NodeByURI("d")
	if res.CoreNumbers[a] != 2 || res.CoreNumbers[b] != 2 {
		t.Fatalf("expected a,b at core 2 for K4-minus-edge with this degree sequence, got a=%d b=%d", res.CoreNumbers[a], res.CoreNumbers[b])
	}
	if res.CoreNumbers[c] != 2 || res.CoreNumbers[d] != 2 {
		t.Fatalf("expected c,d at core 2, got c=%d d=%d", res.CoreNumbers[c], res.CoreNumbers[d])
	}
}

func TestDecomposeEmptyGraph(t *testing.T) {
	g, _ := graph.Build(graph.NewSliceIterator(nil))
	res, err := Decompose(g)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if len(res.CoreNumbers) != 0 || res.MaxCore != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestDecomposeSingleNode(t *testing.T) {
	g, _ := graph.Build(graph.NewSliceIterator([]graph.Triple{entityTriple("solo")}))
	res, err := Decompose(g)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	solo, _ := g.NodeByURI("solo")
	if res.CoreNumbers[solo] != 0 {
		t.Fatalf("single node core = %d, want 0", res.CoreNumbers[solo])
	}
}

func TestDecomposeCancelledContext(t *testing.T) {
	g := buildK4(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Decompose(g, WithContext(ctx)); !errors.Is(err, context.Canceled) {
		t.Fatalf("Decompose with cancelled context: err = %v, want context.Canceled", err)
	}
}
