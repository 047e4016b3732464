package leiden

import (
	"sort"

	"github.com/danja/semem-sub012/graph"
	"github.com/danja/semem-sub012/rng"
)

// Community is one detected community: a dense id and its member node ids.
type Community struct {
	ID      int
	Members []graph.NodeID
}

// CommunityStats reports per-community structural statistics computed
// against the original graph.
type CommunityStats struct {
	ID            int
	Size          int
	InternalEdges int
	ExternalEdges int
	InternalRatio float64
}

// Result is the outcome of one Run.
type Result struct {
	Communities []Community
	Modularity  float64
	Stats       []CommunityStats
}

// Run detects communities in g by iterating local moving, refinement, and
// aggregation until modularity improvement falls below
// WithConvergenceThreshold or WithMaxIterations outer rounds elapse.
// Communities smaller than WithMinCommunitySize are dropped from the
// result and the remainder densely renumbered. The only error Run can
// return is the WithContext context's Err, observed between outer rounds.
func Run(g *graph.Graph, opts ...Option) (Result, error) {
	n := g.NodeCount()
	if n == 0 {
		return Result{}, nil
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	gen := rng.NewLCG(cfg.seed)
	level0 := buildWeightedGraph(g)

	current := level0
	members := make([][]graph.NodeID, n)
	for i := 0; i < n; i++ {
		members[i] = []graph.NodeID{graph.NodeID(i)}
	}
	origToLevel := make([]int, n)
	for i := range origToLevel {
		origToLevel[i] = i
	}

	prevQ := 0.0
	for outer := 0; outer < cfg.maxIterations; outer++ {
		if err := cfg.ctx.Err(); err != nil {
			return Result{}, err
		}
		comm := localMoving(current, cfg.resolution, gen)
		comm = refinementSplit(current, comm)
		dense, k := densify(comm)
		q := modularity(current, dense, cfg.resolution)

		for i := range origToLevel {
			origToLevel[i] = dense[origToLevel[i]]
		}
		newMembers := make([][]graph.NodeID, k)
		for v, c := range dense {
			newMembers[c] = append(newMembers[c], members[v]...)
		}
		members = newMembers

		noMerge := k == current.n
		converged := outer > 0 && q-prevQ < cfg.convergenceThreshold
		prevQ = q
		if noMerge || converged || outer == cfg.maxIterations-1 {
			break
		}
		current = aggregate(current, dense, k)
	}

	finalQ := modularity(level0, origToLevel, cfg.resolution)

	return buildResult(g, members, finalQ, cfg.minCommunitySize), nil
}

func buildResult(g *graph.Graph, members [][]graph.NodeID, q float64, minSize int) Result {
	kept := make([][]graph.NodeID, 0, len(members))
	for _, m := range members {
		if len(m) >= minSize {
			kept = append(kept, m)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if len(kept[i]) != len(kept[j]) {
			return len(kept[i]) > len(kept[j])
		}

		return minNodeID(kept[i]) < minNodeID(kept[j])
	})

	memberOf := make(map[graph.NodeID]int, g.NodeCount())
	communities := make([]Community, len(kept))
	for idx, m := range kept {
		sort.Slice(m, func(i, j int) bool { return m[i] < m[j] })
		communities[idx] = Community{ID: idx, Members: m}
		for _, id := range m {
			memberOf[id] = idx
		}
	}

	adj := g.UndirectedAdjacency()
	stats := make([]CommunityStats, len(kept))
	for idx, c := range communities {
		internal, external := countEdges(adj, memberOf, idx)
		ratio := 0.0
		if internal+external > 0 {
			ratio = float64(internal) / float64(internal+external)
		}
		stats[idx] = CommunityStats{
			ID:            idx,
			Size:          len(c.Members),
			InternalEdges: internal,
			ExternalEdges: external,
			InternalRatio: ratio,
		}
	}

	return Result{Communities: communities, Modularity: q, Stats: stats}
}

func countEdges(adj [][]graph.NodeID, memberOf map[graph.NodeID]int, community int) (internal, external int) {
	for u := 0; u < len(adj); u++ {
		if c, ok := memberOf[graph.NodeID(u)]; !ok || c != community {
			continue
		}
		for _, v := range adj[u] {
			if c2, ok := memberOf[v]; ok && c2 == community {
				// Both endpoints belong to this community: count the edge
				// once, from its lower-id endpoint.
				if int(v) > u {
					internal++
				}
				continue
			}
			// The other endpoint is outside this community (or in a
			// dropped one); it can only ever be visited from this side.
			external++
		}
	}

	return internal, external
}

func minNodeID(ids []graph.NodeID) graph.NodeID {
	min := ids[0]
	for _, id := range ids[1:] {
		if id < min {
			min = id
		}
	}

	return min
}
