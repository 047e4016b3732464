package components

import (
	"sort"

	"github.com/danja/semem-sub012/graph"
)

// Result is the outcome of one connected-components pass.
type Result struct {
	// Membership maps each node id to the index of the component it
	// belongs to, in Components.
	Membership map[graph.NodeID]int
	// Components lists every component's member ids, sorted by component
	// size descending.
	Components [][]graph.NodeID
	// Largest is the index into Components of the largest component, or -1
	// if the graph is empty.
	Largest int
}

// Connected finds connected components of g's undirected view using
// iterative DFS with an explicit stack.
//
// Complexity: O(V + E).
func Connected(g *graph.Graph) Result {
	n := g.NodeCount()
	res := Result{Membership: make(map[graph.NodeID]int, n), Largest: -1}
	if n == 0 {
		return res
	}

	adj := g.UndirectedAdjacency()
	visited := make([]bool, n)
	var comps [][]graph.NodeID

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		var comp []graph.NodeID
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, graph.NodeID(cur))
			for _, nbr := range adj[cur] {
				if !visited[nbr] {
					visited[nbr] = true
					stack = append(stack, int(nbr))
				}
			}
		}
		comps = append(comps, comp)
	}

	sort.SliceStable(comps, func(i, j int) bool { return len(comps[i]) > len(comps[j]) })
	for idx, comp := range comps {
		for _, id := range comp {
			res.Membership[id] = idx
		}
	}
	res.Components = comps
	if len(comps) > 0 {
		res.Largest = 0
	}

	return res
}
