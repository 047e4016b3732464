package search

import (
	"math"
	"sort"

	"github.com/danja/semem-sub012/graph"
)

// tieBreakEpsilon is how close two combined scores must be to be treated
// as tied for ranking purposes.
const tieBreakEpsilon = 1e-9

type fusionAccumulator struct {
	uri      string
	typ      graph.NodeType
	content  string
	score    float64
	combined float64
	sources  map[Source]bool
}

// fuse merges the three Phase B retrievals into ranked Results: a per-uri
// accumulator of combined = Σ score·weight[source], broken ties by
// source-count then lexicographic uri.
func fuse(bySource map[Source][]scored, weight map[Source]float64) []Result {
	acc := make(map[string]*fusionAccumulator)
	order := make([]string, 0)

	for source, list := range bySource {
		w := weight[source]
		for _, s := range list {
			a, ok := acc[s.URI]
			if !ok {
				a = &fusionAccumulator{uri: s.URI, sources: make(map[Source]bool)}
				acc[s.URI] = a
				order = append(order, s.URI)
			}
			a.combined += s.Score * w
			if s.Score > a.score {
				a.score = s.Score
			}
			if a.typ == graph.Unknown {
				a.typ = s.Type
			}
			if a.content == "" {
				a.content = s.Content
			}
			a.sources[source] = true
		}
	}

	results := make([]Result, 0, len(order))
	for _, uri := range order {
		a := acc[uri]
		sources := make([]Source, 0, len(a.sources))
		for _, s := range []Source{SourceExactMatch, SourceVectorSimilarity, SourcePPRTraversal} {
			if a.sources[s] {
				sources = append(sources, s)
			}
		}
		results = append(results, Result{
			URI:           a.uri,
			Type:          a.typ,
			Content:       a.content,
			Score:         a.score,
			CombinedScore: a.combined,
			Sources:       sources,
		})
	}

	sortResults(results)
	for i := range results {
		results[i].Rank = i + 1
	}

	return results
}

// sortResults orders by descending combined score; scores within
// tieBreakEpsilon are broken by source count (more contributing sources
// wins), then by ascending lexicographic uri, so a golden-tested result
// list is fully deterministic.
func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if math.Abs(a.CombinedScore-b.CombinedScore) > tieBreakEpsilon {
			return a.CombinedScore > b.CombinedScore
		}
		if len(a.Sources) != len(b.Sources) {
			return len(a.Sources) > len(b.Sources)
		}

		return a.URI < b.URI
	})
}
