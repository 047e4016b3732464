package centrality

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/danja/semem-sub012/graph"
)

// Result is the outcome of one betweenness-centrality pass.
type Result struct {
	// Scores maps each node id to its normalized betweenness centrality in
	// [0, 1]. Empty (not nil) when Skipped is true.
	Scores map[graph.NodeID]float64
	// Skipped is true when the graph exceeded the configured skip
	// threshold and no computation was attempted.
	Skipped bool
}

// Betweenness computes normalized betweenness centrality for every node in
// g via Brandes' algorithm run once per source node over g's undirected
// view. Above WithSkipThreshold nodes it short-circuits and returns
// Skipped: true rather than blocking the caller on an O(V*E) computation.
// Above WithParallelThreshold nodes, source passes are
// sharded across an errgroup.Group.
func Betweenness(g *graph.Graph, opts ...Option) Result {
	n := g.NodeCount()
	if n == 0 {
		return Result{Scores: map[graph.NodeID]float64{}}
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.skipThreshold > 0 && n > cfg.skipThreshold {
		return Result{Scores: map[graph.NodeID]float64{}, Skipped: true}
	}

	adj := g.UndirectedAdjacency()

	var raw []float64
	if cfg.parallelThreshold > 0 && n > cfg.parallelThreshold {
		raw = betweennessParallel(n, adj)
	} else {
		raw = betweennessSerial(n, adj)
	}

	scores := make(map[graph.NodeID]float64, n)
	if n > 2 {
		norm := 2.0 / float64((n-1)*(n-2))
		for i := 0; i < n; i++ {
			// Each unordered pair was counted once from each endpoint as
			// source; halve before scaling to the unit interval.
			scores[graph.NodeID(i)] = (raw[i] / 2) * norm
		}
	} else {
		for i := 0; i < n; i++ {
			scores[graph.NodeID(i)] = 0
		}
	}

	return Result{Scores: scores}
}

func betweennessSerial(n int, adj [][]graph.NodeID) []float64 {
	totals := make([]float64, n)
	for s := 0; s < n; s++ {
		accumulate(s, n, adj, totals)
	}

	return totals
}

func betweennessParallel(n int, adj [][]graph.NodeID) []float64 {
	workers := runtime.GOMAXPROCS(0)
	if workers < 2 {
		workers = 2
	}
	if workers > n {
		workers = n
	}

	partials := make([][]float64, workers)
	g, _ := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			local := make([]float64, n)
			for s := w; s < n; s += workers {
				accumulate(s, n, adj, local)
			}
			partials[w] = local

			return nil
		})
	}
	_ = g.Wait() // accumulate never returns an error

	totals := make([]float64, n)
	for _, local := range partials {
		for i, v := range local {
			totals[i] += v
		}
	}

	return totals
}

// accumulate runs one Brandes source pass from s and adds its dependency
// contributions into totals.
func accumulate(s, n int, adj [][]graph.NodeID, totals []float64) {
	sigma := make([]float64, n)
	dist := make([]int, n)
	for i := range dist {
		dist[i] = -1
	}
	predecessors := make([][]int, n)

	sigma[s] = 1
	dist[s] = 0
	queue := make([]int, 0, n)
	queue = append(queue, s)
	stack := make([]int, 0, n)

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		stack = append(stack, v)
		for _, wid := range adj[v] {
			w := int(wid)
			if dist[w] < 0 {
				dist[w] = dist[v] + 1
				queue = append(queue, w)
			}
			if dist[w] == dist[v]+1 {
				sigma[w] += sigma[v]
				predecessors[w] = append(predecessors[w], v)
			}
		}
	}

	delta := make([]float64, n)
	for i := len(stack) - 1; i >= 0; i-- {
		w := stack[i]
		for _, v := range predecessors[w] {
			delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
		}
		if w != s {
			totals[w] += delta[w]
		}
	}
}
