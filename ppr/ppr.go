package ppr

import (
	"math"
	"sort"

	"github.com/danja/semem-sub012/graph"
)

// Score pairs a node id with a ranking score.
type Score struct {
	Node  graph.NodeID
	Score float64
}

// BridgeNode is a high-ranking node whose immediate neighbourhood spans
// more than one NodeType, detected among the top 50 overall-ranked nodes.
type BridgeNode struct {
	Node           graph.NodeID
	Score          float64
	ConnectedTypes []graph.NodeType
}

// Result is the outcome of one Run or Combine.
type Result struct {
	Ranked    []Score
	PerType   map[graph.NodeType][]Score
	CrossType []BridgeNode
}

// bridgeScanLimit is how many of the overall top-ranked nodes are examined
// for cross-type bridging.
const bridgeScanLimit = 50

// Run computes personalized PageRank over g, teleporting only to
// entryPoints, via damped power iteration. Returns an empty
// Result immediately if g is empty or entryPoints is empty or contains no
// valid ids. The only error Run can return is the WithContext context's
// Err, observed between iterations.
func Run(g *graph.Graph, entryPoints []graph.NodeID, opts ...Option) (Result, error) {
	n := g.NodeCount()
	if n == 0 {
		return Result{PerType: map[graph.NodeType][]Score{}}, nil
	}

	valid := validEntryPoints(n, entryPoints)
	if len(valid) == 0 {
		return Result{PerType: map[graph.NodeType][]Score{}}, nil
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	adj := buildTransitionAdjacency(g, cfg.symmetricWalk)
	rowSum := make([]float64, n)
	for i := range adj {
		for _, e := range adj[i] {
			rowSum[i] += e.weight
		}
	}

	teleport := make([]float64, n)
	for _, e := range valid {
		teleport[e] = 1.0 / float64(len(valid))
	}
	p := make([]float64, n)
	copy(p, teleport)

	for iter := 0; iter < cfg.maxIterations; iter++ {
		if err := cfg.ctx.Err(); err != nil {
			return Result{}, err
		}
		next := make([]float64, n)
		var dangling float64
		for i := 0; i < n; i++ {
			if rowSum[i] == 0 {
				dangling += p[i]
				continue
			}
			share := p[i] / rowSum[i]
			for _, e := range adj[i] {
				next[int(e.to)] += share * e.weight
			}
		}
		if dangling > 0 {
			add := dangling / float64(n)
			for i := range next {
				next[i] += add
			}
		}

		var delta float64
		for i := 0; i < n; i++ {
			v := (1-cfg.alpha)*next[i] + cfg.alpha*teleport[i]
			if d := math.Abs(v - p[i]); d > delta {
				delta = d
			}
			next[i] = v
		}
		p = next
		if delta < cfg.convergenceThreshold {
			break
		}
	}

	normalize(p)

	entrySet := make(map[graph.NodeID]bool, len(valid))
	for _, e := range valid {
		entrySet[e] = true
	}

	ranked := make([]Score, 0, n)
	for i := 0; i < n; i++ {
		id := graph.NodeID(i)
		if entrySet[id] {
			continue
		}
		ranked = append(ranked, Score{Node: id, Score: p[i]})
	}
	sortScoresDesc(ranked)

	perType := make(map[graph.NodeType][]Score)
	for _, s := range ranked {
		node, ok := g.Node(s.Node)
		if !ok {
			continue
		}
		if len(perType[node.Type]) >= cfg.topKPerType {
			continue
		}
		perType[node.Type] = append(perType[node.Type], s)
	}

	return Result{
		Ranked:    ranked,
		PerType:   perType,
		CrossType: detectBridges(g, ranked),
	}, nil
}

// Combine averages per-node scores across multiple PPR runs, uniformly or
// per caller-supplied weights.
func Combine(results []Result, weights []float64) Result {
	if len(results) == 0 {
		return Result{PerType: map[graph.NodeType][]Score{}}
	}
	if len(weights) != len(results) {
		weights = make([]float64, len(results))
		for i := range weights {
			weights[i] = 1.0 / float64(len(results))
		}
	}

	acc := make(map[graph.NodeID]float64)
	typeOf := make(map[graph.NodeID]graph.NodeType)
	for i, r := range results {
		w := weights[i]
		for _, s := range r.Ranked {
			acc[s.Node] += s.Score * w
		}
		for t, list := range r.PerType {
			for _, s := range list {
				typeOf[s.Node] = t
			}
		}
	}

	ranked := make([]Score, 0, len(acc))
	for id, sc := range acc {
		ranked = append(ranked, Score{Node: id, Score: sc})
	}
	sortScoresDesc(ranked)

	perType := make(map[graph.NodeType][]Score)
	for _, s := range ranked {
		if t, ok := typeOf[s.Node]; ok {
			perType[t] = append(perType[t], s)
		}
	}

	return Result{Ranked: ranked, PerType: perType}
}

func validEntryPoints(n int, entryPoints []graph.NodeID) []graph.NodeID {
	seen := make(map[graph.NodeID]bool, len(entryPoints))
	out := make([]graph.NodeID, 0, len(entryPoints))
	for _, e := range entryPoints {
		if int(e) < 0 || int(e) >= n || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}

	return out
}

func normalize(p []float64) {
	var sum float64
	for _, v := range p {
		sum += v
	}
	if sum == 0 {
		return
	}
	for i := range p {
		p[i] /= sum
	}
}

func sortScoresDesc(s []Score) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}

		return s[i].Node < s[j].Node
	})
}

func detectBridges(g *graph.Graph, ranked []Score) []BridgeNode {
	limit := bridgeScanLimit
	if limit > len(ranked) {
		limit = len(ranked)
	}
	adj := g.UndirectedAdjacency()

	var bridges []BridgeNode
	for _, s := range ranked[:limit] {
		node, ok := g.Node(s.Node)
		if !ok {
			continue
		}
		types := map[graph.NodeType]bool{node.Type: true}
		for _, nb := range adj[s.Node] {
			if nbNode, ok := g.Node(nb); ok {
				types[nbNode.Type] = true
			}
		}
		if len(types) < 2 {
			continue
		}
		ts := make([]graph.NodeType, 0, len(types))
		for t := range types {
			ts = append(ts, t)
		}
		sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })
		bridges = append(bridges, BridgeNode{Node: s.Node, Score: s.Score, ConnectedTypes: ts})
	}

	// Bridges rank by how many distinct types they connect, not by raw
	// PPR mass; equally-connective bridges fall back to score, then id.
	sort.Slice(bridges, func(i, j int) bool {
		a, b := bridges[i], bridges[j]
		if len(a.ConnectedTypes) != len(b.ConnectedTypes) {
			return len(a.ConnectedTypes) > len(b.ConnectedTypes)
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}

		return a.Node < b.Node
	})

	return bridges
}

type tedge struct {
	to     graph.NodeID
	weight float64
}

func buildTransitionAdjacency(g *graph.Graph, symmetric bool) [][]tedge {
	n := g.NodeCount()
	out := make([][]tedge, n)
	if symmetric {
		und := g.UndirectedAdjacency()
		for u := 0; u < n; u++ {
			for _, v := range und[u] {
				out[u] = append(out[u], tedge{to: v, weight: g.EdgeWeight(graph.NodeID(u), v)})
			}
		}

		return out
	}

	for u := 0; u < n; u++ {
		for _, eid := range g.OutEdges(graph.NodeID(u)) {
			e := g.Edge(eid)
			out[u] = append(out[u], tedge{to: e.To, weight: e.Weight})
		}
	}

	return out
}
