package vectorindex

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/danja/semem-sub012/graph"
	"github.com/danja/semem-sub012/rng"
)

func TestAddNodeIdempotentOnURI(t *testing.T) {
	idx := New(3)
	id1, err := idx.AddNode("urn:a", []float32{1, 0, 0}, Metadata{Type: graph.Entity})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	id2, err := idx.AddNode("urn:a", []float32{0, 1, 0}, Metadata{Type: graph.Entity})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("re-inserting the same uri returned a new id: %d != %d", id1, id2)
	}
}

func TestAddNodeDimensionMismatch(t *testing.T) {
	idx := New(3)
	if _, err := idx.AddNode("urn:a", []float32{1, 0}, Metadata{Type: graph.Entity}); err != ErrDimensionMismatch {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSearchFindsNearest(t *testing.T) {
	idx := New(2, WithM(4), WithEfConstruction(32), WithEfSearch(16))
	must := func(_ int, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	must(idx.AddNode("urn:close", []float32{1, 0}, Metadata{Type: graph.Entity}))
	must(idx.AddNode("urn:far", []float32{0, 1}, Metadata{Type: graph.Entity}))
	for i := 0; i < 10; i++ {
		must(idx.AddNode("urn:filler"+string(rune('a'+i)), []float32{0.9, 0.1}, Metadata{Type: graph.Entity}))
	}

	res, err := idx.Search([]float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 1 || res[0].URI != "urn:close" {
		t.Fatalf("expected urn:close as nearest, got %+v", res)
	}
}

func TestRemoveTombstonesResults(t *testing.T) {
	idx := New(2)
	if _, err := idx.AddNode("urn:a", []float32{1, 0}, Metadata{Type: graph.Entity}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if ok := idx.Remove("urn:a"); !ok {
		t.Fatal("Remove returned false for a known uri")
	}
	res, err := idx.Search([]float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, r := range res {
		if r.URI == "urn:a" {
			t.Fatal("tombstoned node reappeared in search results")
		}
	}
}

func TestSearchByTypesFiltersPerType(t *testing.T) {
	idx := New(2)
	if _, err := idx.AddNode("urn:e", []float32{1, 0}, Metadata{Type: graph.Entity}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := idx.AddNode("urn:u", []float32{0.9, 0.1}, Metadata{Type: graph.Unit}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	out, err := idx.SearchByTypes([]float32{1, 0}, []graph.NodeType{graph.Entity, graph.Unit}, 5)
	if err != nil {
		t.Fatalf("SearchByTypes: %v", err)
	}
	if len(out[graph.Entity]) != 1 || out[graph.Entity][0].URI != "urn:e" {
		t.Fatalf("expected only urn:e for Entity filter, got %+v", out[graph.Entity])
	}
	if len(out[graph.Unit]) != 1 || out[graph.Unit][0].URI != "urn:u" {
		t.Fatalf("expected only urn:u for Unit filter, got %+v", out[graph.Unit])
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	idx := New(2, WithSeed(7))
	if _, err := idx.AddNode("urn:a", []float32{1, 0}, Metadata{Type: graph.Entity, Content: "alpha"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := idx.AddNode("urn:b", []float32{0, 1}, Metadata{Type: graph.Unit}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	indexPath := filepath.Join(dir, "graph.bin")
	metaPath := filepath.Join(dir, "meta.yaml")
	if err := idx.Save(indexPath, metaPath); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(indexPath, metaPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	res, err := loaded.Search([]float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("Search on loaded index: %v", err)
	}
	if len(res) != 1 || res[0].URI != "urn:a" {
		t.Fatalf("expected urn:a after round trip, got %+v", res)
	}
}

func TestLoadCorruptIndexFile(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "graph.bin")
	metaPath := filepath.Join(dir, "meta.yaml")
	if err := os.WriteFile(indexPath, []byte("not a real index file"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(metaPath, []byte("options: {dimension: 2}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(indexPath, metaPath); err != ErrIndexCorrupt {
		t.Fatalf("expected ErrIndexCorrupt, got %v", err)
	}
}

func TestSaveLoadRoundTripLarge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 1000-vector round trip in -short mode")
	}
	const (
		dim   = 128
		count = 1000
	)
	dir := t.TempDir()
	gen := rng.NewLCG(13)
	idx := New(dim, WithM(8), WithEfConstruction(64), WithEfSearch(32))

	vectors := make([][]float32, count)
	for i := 0; i < count; i++ {
		vec := make([]float32, dim)
		for d := range vec {
			vec[d] = float32(gen.Float64()*2 - 1)
		}
		vectors[i] = vec
		if _, err := idx.AddNode(fmt.Sprintf("urn:v%03d", i), vec, Metadata{Type: graph.Entity}); err != nil {
			t.Fatalf("AddNode %d: %v", i, err)
		}
	}

	before, err := idx.Search(vectors[0], 10)
	if err != nil {
		t.Fatalf("Search before save: %v", err)
	}

	indexPath := filepath.Join(dir, "graph.bin")
	metaPath := filepath.Join(dir, "meta.yaml")
	if err := idx.Save(indexPath, metaPath); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(indexPath, metaPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	after, err := loaded.Search(vectors[0], 10)
	if err != nil {
		t.Fatalf("Search after load: %v", err)
	}
	if len(after) == 0 || after[0].URI != "urn:v000" {
		t.Fatalf("first result after load = %+v, want urn:v000", after)
	}
	if after[0].Score < 0.999 {
		t.Fatalf("self-similarity after load = %f, want > 0.999", after[0].Score)
	}
	if len(before) != len(after) {
		t.Fatalf("result count changed across round trip: %d != %d", len(before), len(after))
	}
	for i := range before {
		if before[i].URI != after[i].URI {
			t.Fatalf("result %d: uri %q before save, %q after load", i, before[i].URI, after[i].URI)
		}
		if math.Abs(before[i].Score-after[i].Score) > 1e-6 {
			t.Fatalf("result %d: score drifted across round trip: %f != %f", i, before[i].Score, after[i].Score)
		}
	}
}
