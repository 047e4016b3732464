package leiden

import (
	"context"
	"errors"
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

func buildTwoTriangles(t *testing.T) *graph.Graph {
	t.Helper()
	var ts []graph.Triple
	for _, v := range []string{"a1", "a2", "a3", "b1", "b2", "b3"} {
		ts = append(ts, entity(v))
	}
	triangles := [][3]string{{"a1", "a2", "a3"}, {"b1", "b2", "b3"}}
	i := 0
	for _, tri := range triangles {
		pairs := [][2]string{{tri[0], tri[1]}, {tri[1], tri[2]}, {tri[2], tri[0]}}
		for _, p := range pairs {
			ts = append(ts, rel(fmt.Sprintf("r%d", i), p[0], p[1])...)
			i++
		}
	}
	g, err := graph.Build(graph.NewSliceIterator(ts))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	return g
}

func TestRunTwoTrianglesDeterministic(t *testing.T) {
	g := buildTwoTriangles(t)

	res1, err := Run(g, WithSeed(42), WithMinCommunitySize(1))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	res2, err := Run(g, WithSeed(42), WithMinCommunitySize(1))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res1.Communities) != 2 {
		t.Fatalf("got %d communities, want 2", len(res1.Communities))
	}
	for _, c := range res1.Communities {
		if len(c.Members) != 3 {
			t.Fatalf("community %d has %d members, want 3", c.ID, len(c.Members))
		}
	}
	if math.Abs(res1.Modularity-0.5) > 0.05 {
		t.Fatalf("modularity = %f, want ~0.5", res1.Modularity)
	}

	if len(res1.Communities) != len(res2.Communities) {
		t.Fatalf("non-deterministic community count across runs with the same seed")
	}
	for i := range res1.Communities {
		if fmt.Sprint(res1.Communities[i].Members) != fmt.Sprint(res2.Communities[i].Members) {
			t.Fatalf("non-deterministic membership across runs with the same seed")
		}
	}
}

func TestRunMinCommunitySizeDropsSingletons(t *testing.T) {
	g := buildTwoTriangles(t)
	res, err := Run(g, WithSeed(1), WithMinCommunitySize(3))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, c := range res.Communities {
		if len(c.Members) < 3 {
			t.Fatalf("community %d has %d members, below MinCommunitySize", c.ID, len(c.Members))
		}
	}
}

func TestRunEmptyGraph(t *testing.T) {
	g, _ := graph.Build(graph.NewSliceIterator(nil))
	res, err := Run(g)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Communities) != 0 {
		t.Fatalf("expected no communities, got %d", len(res.Communities))
	}
}

func TestRunCancelledContext(t *testing.T) {
	g := buildTwoTriangles(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(g, WithContext(ctx)); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run with cancelled context: err = %v, want context.Canceled", err)
	}
}
