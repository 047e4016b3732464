package kcore

import (
	"context"

	"github.com/danja/semem-sub012/graph"
)

// Result is the outcome of one k-core decomposition.
type Result struct {
	// CoreNumbers maps each node id to the largest k for which it belongs
	// to the k-core.
	CoreNumbers map[graph.NodeID]int
	// MaxCore is the maximum core number assigned in this run.
	MaxCore int
}

// Option configures a Decompose call via functional arguments.
type Option func(*config)

type config struct {
	ctx context.Context
}

// WithContext attaches a cancellation context checked between peeling
// rounds. A cancelled context aborts the run and Decompose returns
// ctx.Err().
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// Decompose computes the k-core decomposition of g by iterative degree
// peeling. Ties among equal-current-degree nodes are
// broken deterministically by ascending graph.NodeID. The only error
// Decompose can return is the WithContext context's Err.
//
// Complexity: O(V² + E); every peeling pass rescans all nodes, and no
// bucket queue is used.
func Decompose(g *graph.Graph, opts ...Option) (Result, error) {
	cfg := config{ctx: context.Background()}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := g.NodeCount()
	res := Result{CoreNumbers: make(map[graph.NodeID]int, n)}
	if n == 0 {
		return res, nil
	}

	adj := g.UndirectedAdjacency()
	degree := make([]int, n)
	removed := make([]bool, n)
	for i := 0; i < n; i++ {
		degree[i] = len(adj[i])
	}

	k := 0
	remaining := n
	for remaining > 0 {
		if err := cfg.ctx.Err(); err != nil {
			return Result{}, err
		}
		// Find the minimum degree among remaining nodes, deterministic tie
		// break by ascending id.
		minDeg := -1
		for i := 0; i < n; i++ {
			if removed[i] {
				continue
			}
			if minDeg == -1 || degree[i] < minDeg {
				minDeg = degree[i]
			}
		}
		if minDeg > k {
			k = minDeg
		}

		// Peel every node whose current degree is <= k in one round,
		// processed in ascending id order for determinism.
		peeled := true
		for peeled {
			peeled = false
			for i := 0; i < n; i++ {
				if removed[i] || degree[i] > k {
					continue
				}
				removed[i] = true
				res.CoreNumbers[graph.NodeID(i)] = k
				remaining--
				for _, nbr := range adj[i] {
					if !removed[nbr] {
						degree[nbr]--
					}
				}
				peeled = true
			}
		}
	}
	res.MaxCore = k

	return res, nil
}
