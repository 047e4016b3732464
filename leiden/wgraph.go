package leiden

import (
	"sort"

	"github.com/danja/semem-sub012/graph"
)

// wedge is one weighted adjacency entry in a weightedGraph.
type wedge struct {
	to     int
	weight float64
}

// weightedGraph is the working representation leiden optimises over: a
// plain weighted undirected multigraph plus, for coarsened levels, a
// per-node self-loop weight folding in what used to be intra-community
// edges. totalWeight (m in the modularity formula) is invariant across
// aggregation, so it is computed once and carried forward.
type weightedGraph struct {
	n           int
	adj         [][]wedge
	selfLoop    []float64
	totalWeight float64
}

func buildWeightedGraph(g *graph.Graph) *weightedGraph {
	n := g.NodeCount()
	adjUnd := g.UndirectedAdjacency()
	adj := make([][]wedge, n)
	var total float64
	for u := 0; u < n; u++ {
		for _, v := range adjUnd[u] {
			w := g.EdgeWeight(graph.NodeID(u), v)
			adj[u] = append(adj[u], wedge{to: int(v), weight: w})
			if int(v) > u {
				total += w
			}
		}
	}

	return &weightedGraph{n: n, adj: adj, selfLoop: make([]float64, n), totalWeight: total}
}

// aggregate folds wg's nodes into k meta-nodes per denseComm, producing the
// meta-graph that phase 3 re-runs local moving on.
func aggregate(wg *weightedGraph, denseComm []int, k int) *weightedGraph {
	newAdj := make([]map[int]float64, k)
	for i := range newAdj {
		newAdj[i] = make(map[int]float64)
	}
	selfLoop := make([]float64, k)

	for u := 0; u < wg.n; u++ {
		cu := denseComm[u]
		selfLoop[cu] += wg.selfLoop[u]
		for _, e := range wg.adj[u] {
			cv := denseComm[e.to]
			if cv == cu {
				// Each internal edge is visited once from each endpoint;
				// halving per visit folds it into a single self-loop weight.
				selfLoop[cu] += e.weight / 2
			} else {
				newAdj[cu][cv] += e.weight
			}
		}
	}

	adj := make([][]wedge, k)
	for c := 0; c < k; c++ {
		for to, w := range newAdj[c] {
			adj[c] = append(adj[c], wedge{to: to, weight: w})
		}
		sort.Slice(adj[c], func(i, j int) bool { return adj[c][i].to < adj[c][j].to })
	}

	return &weightedGraph{n: k, adj: adj, selfLoop: selfLoop, totalWeight: wg.totalWeight}
}
