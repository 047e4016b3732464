package ppr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/danja/semem-sub012/graph"
)

func entity(uri string, typ string) graph.Triple {
	return graph.Triple{Subject: uri, Predicate: graph.PredType, Object: graph.RagnoNamespace + typ}
}

func rel(id, src, tgt string) []graph.Triple {
	return []graph.Triple{
		{Subject: id, Predicate: graph.PredHasSourceEntity, Object: src},
		{Subject: id, Predicate: graph.PredHasTargetEntity, Object: tgt},
	}
}

func TestRunExcludesEntryPointAndSumsUnderOne(t *testing.T) {
	var ts []graph.Triple
	for _, v := range []string{"a", "b", "c", "d"} {
		ts = append(ts, entity(v, "Entity"))
	}
	pairs := [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "a"}}
	for i, p := range pairs {
		ts = append(ts, rel(fmt.Sprintf("r%d", i), p[0], p[1])...)
	}
	g, err := graph.Build(graph.NewSliceIterator(ts))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	a, _ := g.NodeByURI("a")

	res, err := Run(g, []graph.NodeID{a})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var sum float64
	for _, s := range res.Ranked {
		if s.Node == a {
			t.Fatalf("entry point a should be excluded from Ranked")
		}
		sum += s.Score
	}
	if sum <= 0 || sum > 1.0+1e-9 {
		t.Fatalf("scores sum to %f, want in (0, 1]", sum)
	}
}

func TestRunEmptyEntryPoints(t *testing.T) {
	g, _ := graph.Build(graph.NewSliceIterator([]graph.Triple{entity("solo", "Entity")}))
	res, err := Run(g, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Ranked) != 0 {
		t.Fatalf("expected empty result for no entry points, got %+v", res)
	}
}

func TestRunDisconnectedAssignsZero(t *testing.T) {
	var ts []graph.Triple
	ts = append(ts, entity("a", "Entity"), entity("b", "Entity"), entity("isolated", "Entity"))
	ts = append(ts, rel("r0", "a", "b")...)
	g, err := graph.Build(graph.NewSliceIterator(ts))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	a, _ := g.NodeByURI("a")
	isolated, _ := g.NodeByURI("isolated")

	res, err := Run(g, []graph.NodeID{a})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, s := range res.Ranked {
		if s.Node == isolated && s.Score != 0 {
			t.Fatalf("isolated node score = %f, want 0", s.Score)
		}
	}
}

func TestRunBridgeDetection(t *testing.T) {
	var ts []graph.Triple
	for _, v := range []string{"a1", "a2", "a3", "a4", "a5"} {
		ts = append(ts, entity(v, "Entity"))
	}
	for _, v := range []string{"b1", "b2", "b3", "b4", "b5"} {
		ts = append(ts, entity(v, "Unit"))
	}
	ts = append(ts, entity("x", "Entity"))

	i := 0
	clique := func(verts []string) {
		for j := 0; j < len(verts); j++ {
			for k := j + 1; k < len(verts); k++ {
				ts = append(ts, rel(fmt.Sprintf("r%d", i), verts[j], verts[k])...)
				i++
			}
		}
	}
	clique([]string{"a1", "a2", "a3", "a4", "a5", "x"})
	clique([]string{"b1", "b2", "b3", "b4", "b5"})
	ts = append(ts, rel(fmt.Sprintf("r%d", i), "x", "b1")...)

	g, err := graph.Build(graph.NewSliceIterator(ts))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	a1, _ := g.NodeByURI("a1")

	res, err := Run(g, []graph.NodeID{a1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	found := false
	for _, b := range res.CrossType {
		if node, ok := g.Node(b.Node); ok && node.URI == "x" {
			found = true
			if len(b.ConnectedTypes) < 2 {
				t.Fatalf("bridge node x should connect >=2 types, got %v", b.ConnectedTypes)
			}
		}
	}
	if !found {
		t.Fatal("expected x to be detected as a cross-type bridge node")
	}

	scores := make(map[string]float64, len(res.Ranked))
	for _, s := range res.Ranked {
		if node, ok := g.Node(s.Node); ok {
			scores[node.URI] = s.Score
		}
	}
	for _, b := range []string{"b1", "b2", "b3", "b4", "b5"} {
		if scores["x"] <= scores[b] {
			t.Fatalf("bridge x score %f should exceed far-clique node %s score %f", scores["x"], b, scores[b])
		}
	}
}

func TestRunCancelledContext(t *testing.T) {
	var ts []graph.Triple
	ts = append(ts, entity("a", "Entity"), entity("b", "Entity"))
	ts = append(ts, rel("r0", "a", "b")...)
	g, err := graph.Build(graph.NewSliceIterator(ts))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	a, _ := g.NodeByURI("a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(g, []graph.NodeID{a}, WithContext(ctx)); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run with cancelled context: err = %v, want context.Canceled", err)
	}
}

func TestCombineAveragesUniformly(t *testing.T) {
	n := graph.NodeID(0)
	r1 := Result{Ranked: []Score{{Node: n, Score: 0.4}}}
	r2 := Result{Ranked: []Score{{Node: n, Score: 0.2}}}

	combined := Combine([]Result{r1, r2}, nil)
	if len(combined.Ranked) != 1 {
		t.Fatalf("Ranked = %v, want 1 entry", combined.Ranked)
	}
	got := combined.Ranked[0].Score
	if got < 0.3-1e-12 || got > 0.3+1e-12 {
		t.Fatalf("uniform combine score = %f, want 0.3", got)
	}

	weighted := Combine([]Result{r1, r2}, []float64{1, 0})
	if got := weighted.Ranked[0].Score; got != 0.4 {
		t.Fatalf("weighted combine score = %f, want 0.4", got)
	}
}
