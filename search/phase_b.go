package search

import (
	"context"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/danja/semem-sub012/graph"
	"github.com/danja/semem-sub012/ports"
	"github.com/danja/semem-sub012/ppr"
	"github.com/danja/semem-sub012/sparql"
	"github.com/danja/semem-sub012/vectorindex"
)

// scored is one candidate result before fusion: a uri with the
// information needed to populate a Result, plus its raw per-source
// score.
type scored struct {
	URI     string
	Type    graph.NodeType
	Content string
	Score   float64
}

func typeNames(types []graph.NodeType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}

	return out
}

func parseNodeType(s string) graph.NodeType {
	switch s {
	case "Entity":
		return graph.Entity
	case "Relationship":
		return graph.Relationship
	case "Unit":
		return graph.Unit
	case "Attribute":
		return graph.Attribute
	case "CommunityElement":
		return graph.CommunityElement
	case "TextElement":
		return graph.TextElement
	case "Meta":
		return graph.Meta
	default:
		return graph.Unknown
	}
}

func drainRows(iter ports.RowIter) ([]ports.Row, error) {
	var rows []ports.Row
	for iter.Next() {
		rows = append(rows, iter.Row())
	}

	return rows, iter.Err()
}

// labelScore ranks an exact-match row by how close the stored label
// actually is to the query entity, since the store's own filter is a
// substring match and can return several rows of varying relevance for
// the same entity. A missing label falls back to a perfect score
// rather than penalizing a store that doesn't project one.
func labelScore(entity, label string) float64 {
	if label == "" {
		return 1.0
	}

	return matchr.JaroWinkler(strings.ToLower(entity), strings.ToLower(label), false)
}

// exactMatch issues one label-match SELECT per entity and merges the
// rows into deduplicated candidates, scored by label similarity.
func exactMatch(ctx context.Context, ts ports.TripleStore, types []graph.NodeType, entities []string) ([]scored, error) {
	names := typeNames(types)
	seen := make(map[string]bool)
	var out []scored

	for _, entity := range entities {
		iter, err := ts.Select(ctx, sparql.ExactLabelQuery(names, entity))
		if err != nil {
			return out, err
		}
		rows, err := drainRows(iter)
		if err != nil {
			return out, err
		}
		for _, row := range rows {
			uri := row["uri"]
			if uri == "" || seen[uri] {
				continue
			}
			seen[uri] = true
			out = append(out, scored{
				URI:     uri,
				Type:    parseNodeType(row["type"]),
				Content: row["content"],
				Score:   labelScore(entity, row["label"]),
			})
		}
	}

	return out, nil
}

// vectorSimilarity calls VectorIndex.SearchByTypes on the query
// embedding, drops hits below threshold, and flattens/sorts the result
// by descending similarity.
// A nil embedding (Phase A embedding failure) is not an error — it
// simply contributes nothing.
func vectorSimilarity(idx *vectorindex.Index, embedding []float32, types []graph.NodeType, k int, threshold float64) ([]scored, error) {
	if embedding == nil {
		return nil, nil
	}

	byType, err := idx.SearchByTypes(embedding, types, k)
	if err != nil {
		return nil, err
	}

	var out []scored
	for _, results := range byType {
		for _, r := range results {
			if r.Score < threshold {
				continue
			}
			out = append(out, scored{URI: r.URI, Type: r.Type, Content: r.Content, Score: r.Score})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}

		return out[i].URI < out[j].URI
	})

	return out, nil
}

// pprTraversal resolves each entity to candidate URIs, fetches the
// subgraph around those entry points, builds a Graph from it, and runs a
// shallow personalized PageRank to rank the resulting neighbourhood.
func pprTraversal(ctx context.Context, ts ports.TripleStore, entities []string) ([]scored, error) {
	entryURISet := make(map[string]bool)
	for _, entity := range entities {
		iter, err := ts.Select(ctx, sparql.EntityResolutionQuery(entity))
		if err != nil {
			return nil, err
		}
		rows, err := drainRows(iter)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if uri := row["uri"]; uri != "" {
				entryURISet[uri] = true
			}
		}
	}
	if len(entryURISet) == 0 {
		return nil, nil
	}

	entryURIs := make([]string, 0, len(entryURISet))
	for uri := range entryURISet {
		entryURIs = append(entryURIs, uri)
	}
	sort.Strings(entryURIs)

	iter, err := ts.Select(ctx, sparql.GraphBuildQuery(entryURIs))
	if err != nil {
		return nil, err
	}
	rows, err := drainRows(iter)
	if err != nil {
		return nil, err
	}

	triples := make([]graph.Triple, 0, len(rows))
	for _, row := range rows {
		triples = append(triples, graph.Triple{
			Subject:   row["subject"],
			Predicate: row["predicate"],
			Object:    row["object"],
		})
	}

	g, err := graph.Build(graph.NewSliceIterator(triples))
	if err != nil {
		return nil, err
	}

	var entryIDs []graph.NodeID
	for _, uri := range entryURIs {
		if id, ok := g.NodeByURI(uri); ok {
			entryIDs = append(entryIDs, id)
		}
	}
	if len(entryIDs) == 0 {
		return nil, nil
	}

	res, err := ppr.Run(g, entryIDs, ppr.Shallow(), ppr.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	out := make([]scored, 0, len(res.Ranked))
	for _, s := range res.Ranked {
		node, ok := g.Node(s.Node)
		if !ok {
			continue
		}
		out = append(out, scored{URI: node.URI, Type: node.Type, Content: node.Content, Score: s.Score})
	}

	return out, nil
}
