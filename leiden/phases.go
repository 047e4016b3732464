package leiden

import (
	"sort"

	"github.com/danja/semem-sub012/rng"
)

const maxInnerIterations = 50

// nodeWeights returns each node's total incident weight (degree), counting
// self-loops twice as their contribution to community strength demands.
func nodeWeights(wg *weightedGraph) []float64 {
	w := make([]float64, wg.n)
	for i := 0; i < wg.n; i++ {
		s := wg.selfLoop[i] * 2
		for _, e := range wg.adj[i] {
			s += e.weight
		}
		w[i] = s
	}

	return w
}

// localMoving runs phase 1: greedy modularity-gain node reassignment in a
// pseudo-random order drawn from gen, capped at maxInnerIterations full
// passes.
func localMoving(wg *weightedGraph, resolution float64, gen *rng.LCG) []int {
	n := wg.n
	comm := make([]int, n)
	for i := range comm {
		comm[i] = i
	}
	if n == 0 || wg.totalWeight == 0 {
		return comm
	}

	k := nodeWeights(wg)
	sigmaTot := make([]float64, n)
	copy(sigmaTot, k)
	m2 := wg.totalWeight * 2

	order := gen.Perm(n)
	for iter := 0; iter < maxInnerIterations; iter++ {
		moved := false
		for _, i := range order {
			old := comm[i]
			sigmaTot[old] -= k[i]

			kIn := make(map[int]float64, len(wg.adj[i]))
			for _, e := range wg.adj[i] {
				kIn[comm[e.to]] += e.weight
			}

			// Candidate communities are visited in ascending label order so
			// equal-gain ties resolve the same way on every seeded run.
			cands := make([]int, 0, len(kIn))
			for c := range kIn {
				cands = append(cands, c)
			}
			sort.Ints(cands)

			bestC := old
			bestGain := kIn[old] - resolution*sigmaTot[old]*k[i]/m2
			for _, c := range cands {
				if c == old {
					continue
				}
				gain := kIn[c] - resolution*sigmaTot[c]*k[i]/m2
				if gain > bestGain+1e-12 {
					bestGain = gain
					bestC = c
				}
			}

			sigmaTot[bestC] += k[i]
			if bestC != old {
				comm[i] = bestC
				moved = true
			}
		}
		if !moved {
			break
		}
	}

	return comm
}

// refinementSplit is phase 2: any community whose induced subgraph is
// disconnected has every component but the first reassigned a fresh
// community id, guaranteeing every reported community is internally
// connected.
func refinementSplit(wg *weightedGraph, comm []int) []int {
	groups := make(map[int][]int)
	maxLabel := 0
	for i, c := range comm {
		groups[c] = append(groups[c], i)
		if c > maxLabel {
			maxLabel = c
		}
	}

	ids := make([]int, 0, len(groups))
	for c := range groups {
		ids = append(ids, c)
	}
	sort.Ints(ids)

	result := make([]int, len(comm))
	copy(result, comm)
	nextLabel := maxLabel + 1

	for _, c := range ids {
		members := groups[c]
		if len(members) <= 1 {
			continue
		}
		inGroup := make(map[int]bool, len(members))
		for _, v := range members {
			inGroup[v] = true
		}
		visited := make(map[int]bool, len(members))
		first := true
		for _, start := range members {
			if visited[start] {
				continue
			}
			comp := dfsWithin(wg, start, inGroup, visited)
			if first {
				first = false
				continue
			}
			lbl := nextLabel
			nextLabel++
			for _, v := range comp {
				result[v] = lbl
			}
		}
	}

	return result
}

func dfsWithin(wg *weightedGraph, start int, inGroup, visited map[int]bool) []int {
	var comp []int
	stack := []int{start}
	visited[start] = true
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		comp = append(comp, v)
		for _, e := range wg.adj[v] {
			if inGroup[e.to] && !visited[e.to] {
				visited[e.to] = true
				stack = append(stack, e.to)
			}
		}
	}

	return comp
}

// densify renumbers an arbitrary community labelling into a dense
// [0, k) range, preserving the order in which labels first appear.
func densify(comm []int) ([]int, int) {
	mapping := make(map[int]int)
	dense := make([]int, len(comm))
	next := 0
	for i, c := range comm {
		id, ok := mapping[c]
		if !ok {
			id = next
			mapping[c] = id
			next++
		}
		dense[i] = id
	}

	return dense, next
}

// modularity computes Newman's Q over wg for the given community
// assignment: Q = Σ_c (e_c/m − resolution·(d_c/2m)²).
func modularity(wg *weightedGraph, comm []int, resolution float64) float64 {
	if wg.totalWeight == 0 {
		return 0
	}
	m := wg.totalWeight

	ec := make(map[int]float64)
	dc := make(map[int]float64)
	for i := 0; i < wg.n; i++ {
		ci := comm[i]
		deg := wg.selfLoop[i] * 2
		ec[ci] += wg.selfLoop[i]
		for _, e := range wg.adj[i] {
			deg += e.weight
			if comm[e.to] == ci {
				ec[ci] += e.weight / 2
			}
		}
		dc[ci] += deg
	}

	var q float64
	for c, e := range ec {
		d := dc[c] / (2 * m)
		q += e/m - resolution*d*d
	}

	return q
}
