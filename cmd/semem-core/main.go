// Command semem-core wires every package in this module together into a
// single running example: build a graph from a fixed set of triples, run
// the analytics suite over it, build a vector index from the same
// entities, and answer one query through the dual-search orchestrator.
// It is a demonstration of how a real service would assemble these
// pieces; it is not itself part of the core's public API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/danja/semem-sub012/centrality"
	"github.com/danja/semem-sub012/components"
	"github.com/danja/semem-sub012/graph"
	"github.com/danja/semem-sub012/kcore"
	"github.com/danja/semem-sub012/leiden"
	"github.com/danja/semem-sub012/ports"
	"github.com/danja/semem-sub012/ports/openaiadapter"
	"github.com/danja/semem-sub012/search"
	"github.com/danja/semem-sub012/sparql"
	"github.com/danja/semem-sub012/telemetry"
	"github.com/danja/semem-sub012/vectorindex"
)

func main() {
	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("semem-core: build logger: %v", err)
	}
	defer zlog.Sync()
	logger := telemetry.New(zlog)

	g, err := buildDemoGraph()
	if err != nil {
		log.Fatalf("semem-core: build graph: %v", err)
	}
	logger.Info("graph built", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	runAnalytics(g, logger)

	idx := buildDemoIndex(g)
	logger.Info("vector index built", "stats", fmt.Sprintf("%+v", idx.Stats()))

	ts := &demoTripleStore{g: g}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Warn("OPENAI_API_KEY not set, skipping orchestrator demo")

		return
	}
	adapter := openaiadapter.New(apiKey, openaiadapter.WithLogger(logger))

	orch, err := search.NewOrchestrator(search.Config{
		TripleStore:  ts,
		Embedder:     adapter,
		LLM:          adapter,
		VectorIndex:  idx,
		ExactWeight:  1.0,
		VectorWeight: 1.0,
		PPRWeight:    1.0,
		Logger:       logger,
	})
	if err != nil {
		log.Fatalf("semem-core: build orchestrator: %v", err)
	}

	env, err := orch.Query(context.Background(), "tell me about alpha and beta")
	if err != nil {
		log.Fatalf("semem-core: query: %v", err)
	}
	for _, r := range env.Results {
		fmt.Printf("#%d %s (%s) combined=%.4f sources=%v\n", r.Rank, r.URI, r.Type, r.CombinedScore, r.Sources)
	}
}

func buildDemoGraph() (*graph.Graph, error) {
	triples := []graph.Triple{
		{Subject: "urn:alpha", Predicate: graph.PredType, Object: graph.RagnoNamespace + "Entity"},
		{Subject: "urn:beta", Predicate: graph.PredType, Object: graph.RagnoNamespace + "Entity"},
		{Subject: "urn:gamma", Predicate: graph.PredType, Object: graph.RagnoNamespace + "Entity"},
		{Subject: "urn:rel1", Predicate: graph.PredHasSourceEntity, Object: "urn:alpha"},
		{Subject: "urn:rel1", Predicate: graph.PredHasTargetEntity, Object: "urn:beta"},
		{Subject: "urn:rel1", Predicate: graph.PredHasWeight, Object: "1.0"},
		{Subject: "urn:rel2", Predicate: graph.PredHasSourceEntity, Object: "urn:beta"},
		{Subject: "urn:rel2", Predicate: graph.PredHasTargetEntity, Object: "urn:gamma"},
		{Subject: "urn:rel2", Predicate: graph.PredHasWeight, Object: "1.0"},
	}

	return graph.Build(graph.NewSliceIterator(triples))
}

func runAnalytics(g *graph.Graph, logger *telemetry.Logger) {
	cores, err := kcore.Decompose(g)
	if err != nil {
		log.Fatalf("semem-core: kcore: %v", err)
	}
	logger.Info("kcore computed", "maxCore", cores.MaxCore)

	cc := components.Connected(g)
	logger.Info("components computed", "count", len(cc.Components))

	bc := centrality.Betweenness(g)
	logger.Info("centrality computed", "skipped", bc.Skipped)

	lr, err := leiden.Run(g)
	if err != nil {
		log.Fatalf("semem-core: leiden: %v", err)
	}
	logger.Info("leiden computed", "communities", len(lr.Communities), "modularity", lr.Modularity)
}

func buildDemoIndex(g *graph.Graph) *vectorindex.Index {
	idx := vectorindex.New(4)
	for _, id := range g.Nodes() {
		node, _ := g.Node(id)
		vec := []float32{float32(id) + 1, 0, 0, 0}
		idx.AddNode(node.URI, vec, vectorindex.Metadata{Type: node.Type, Content: node.Content})
	}

	return idx
}

// demoTripleStore answers the core's query shapes directly from an
// in-memory Graph, standing in for a real RDF store.
type demoTripleStore struct {
	g *graph.Graph
}

func (d *demoTripleStore) Select(ctx context.Context, q sparql.Query) (ports.RowIter, error) {
	switch q.Name {
	case "ExactLabel":
		return d.exactLabel(q), nil
	case "EntityResolution":
		return d.entityResolution(q), nil
	case "GraphBuild":
		return d.graphBuild(q), nil
	default:
		return &sliceRowIter{pos: -1}, nil
	}
}

func (d *demoTripleStore) exactLabel(q sparql.Query) *sliceRowIter {
	var rows []ports.Row
	for _, id := range d.g.Nodes() {
		node, _ := d.g.Node(id)
		if containsFold(node.URI, q.LabelFilter) {
			rows = append(rows, ports.Row{"uri": node.URI, "type": node.Type.String(), "label": node.URI, "content": node.Content})
		}
	}

	return &sliceRowIter{rows: rows, pos: -1}
}

func (d *demoTripleStore) entityResolution(q sparql.Query) *sliceRowIter {
	var rows []ports.Row
	for _, id := range d.g.Nodes() {
		node, _ := d.g.Node(id)
		if containsFold(node.URI, q.LabelFilter) {
			rows = append(rows, ports.Row{"uri": node.URI, "label": node.URI})
		}
	}

	return &sliceRowIter{rows: rows, pos: -1}
}

func (d *demoTripleStore) graphBuild(q sparql.Query) *sliceRowIter {
	entry := make(map[string]bool, len(q.EntryPoints))
	for _, e := range q.EntryPoints {
		entry[e] = true
	}

	var rows []ports.Row
	for _, id := range d.g.Nodes() {
		node, _ := d.g.Node(id)
		if !entry[node.URI] {
			continue
		}
		for _, eid := range d.g.OutEdges(id) {
			e := d.g.Edge(eid)
			target, _ := d.g.Node(e.To)
			rows = append(rows,
				ports.Row{"subject": node.URI, "predicate": graph.PredType, "object": graph.RagnoNamespace + node.Type.String()},
				ports.Row{"subject": target.URI, "predicate": graph.PredType, "object": graph.RagnoNamespace + target.Type.String()},
				ports.Row{"subject": fmt.Sprintf("urn:edge-%d-%d", id, e.To), "predicate": graph.PredHasSourceEntity, "object": node.URI},
				ports.Row{"subject": fmt.Sprintf("urn:edge-%d-%d", id, e.To), "predicate": graph.PredHasTargetEntity, "object": target.URI},
			)
		}
	}

	return &sliceRowIter{rows: rows, pos: -1}
}

func containsFold(s, substr string) bool {
	if substr == "" {
		return false
	}

	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

type sliceRowIter struct {
	rows []ports.Row
	pos  int
}

func (s *sliceRowIter) Next() bool     { s.pos++; return s.pos < len(s.rows) }
func (s *sliceRowIter) Row() ports.Row { return s.rows[s.pos] }
func (s *sliceRowIter) Err() error     { return nil }
