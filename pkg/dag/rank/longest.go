package rank

import "github.com/matzehuels/layered/pkg/dag"

// longestPath places every node as low as its successors allow: sinks get
// rank 0 and every other node the smallest rank(w) - minlen over its
// out-edges. The result is feasible but not compact, which makes it the
// starting point for the tree-based rankers.
func longestPath(g *dag.Graph) {
	order := topoOrder(g, nil)
	if len(order) != g.NodeCount() {
		panic("rank: longest path on a cyclic graph")
	}
	for i := len(order) - 1; i >= 0; i-- {
		n := g.Node(order[i])
		rank, ok := 0, false
		for _, e := range g.OutEdges(n.ID) {
			if r := g.Node(e.W).Rank - e.Label.Minlen; !ok || r < rank {
				rank, ok = r, true
			}
		}
		n.SetRank(rank)
	}
}

// topoOrder returns the nodes accepted by keep in topological order using
// Kahn's algorithm; ties go to insertion order. Edges count only when both
// ends are kept. A nil keep accepts every node. Nodes on a cycle are left
// out of the result.
func topoOrder(g *dag.Graph, keep func(*dag.Node) bool) []string {
	nodes := g.Nodes()
	kept := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if keep == nil || keep(n) {
			kept[n.ID] = true
		}
	}

	inDegree := make(map[string]int, len(kept))
	queue := make([]string, 0, len(kept))
	for _, n := range nodes {
		if !kept[n.ID] {
			continue
		}
		degree := 0
		for _, e := range g.InEdges(n.ID) {
			if kept[e.V] {
				degree++
			}
		}
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	order := make([]string, 0, len(kept))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		order = append(order, curr)

		for _, e := range g.OutEdges(curr) {
			if !kept[e.W] {
				continue
			}
			inDegree[e.W]--
			if inDegree[e.W] == 0 {
				queue = append(queue, e.W)
			}
		}
	}
	return order
}
