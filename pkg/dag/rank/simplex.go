package rank

import "github.com/matzehuels/layered/pkg/dag"

// networkSimplex finds ranks minimizing the sum of weight * length over all
// edges, following Gansner et al., "A Technique for Drawing Directed Graphs".
//
// It starts from a feasible spanning tree of tight edges and repeatedly
// swaps a tree edge with a negative cut value for the non-tree edge of least
// slack that reconnects the two halves, until no cut value is negative:
//
//  1. Rank with longest path and build a feasible tight tree.
//  2. Number the tree with low/lim postorder values and compute cut values.
//  3. Pick a leaving tree edge with a negative cut value.
//  4. Pick the entering edge crossing the same cut with minimum slack.
//  5. Exchange them, renumber, recompute cut values and re-rank from the root.
//
// g must be connected and free of parallel edges.
func networkSimplex(g *dag.Graph) {
	longestPath(g)
	t := feasibleTree(g)
	initLowLimValues(t)
	initCutValues(t, g)

	for {
		e, ok := leaveEdge(t)
		if !ok {
			return
		}
		f := enterEdge(t, g, e)
		exchangeEdges(t, g, e, f)
	}
}

// initLowLimValues numbers the tree by a depth-first walk from its first
// node: lim is a node's postorder number and low the smallest lim in its
// subtree, so u lies below v exactly when low(v) <= lim(u) <= lim(v). The
// walk also records each node's parent and the pre- and postorder.
func initLowLimValues(t *tree) {
	t.low = make(map[string]int, len(t.nodes))
	t.lim = make(map[string]int, len(t.nodes))
	t.parent = make(map[string]string, len(t.nodes))
	t.pre = t.pre[:0]
	t.post = t.post[:0]
	if len(t.nodes) == 0 {
		return
	}

	visited := make(map[string]bool, len(t.nodes))
	nextLim := 1
	var dfs func(v, parent string)
	dfs = func(v, parent string) {
		low := nextLim
		visited[v] = true
		t.pre = append(t.pre, v)
		for _, w := range t.adj[v] {
			if !visited[w] {
				dfs(w, v)
			}
		}
		t.low[v] = low
		t.lim[v] = nextLim
		nextLim++
		if parent != "" {
			t.parent[v] = parent
		}
		t.post = append(t.post, v)
	}
	dfs(t.nodes[0], "")
}

// initCutValues computes the cut value of every tree edge, children first.
func initCutValues(t *tree, g *dag.Graph) {
	if len(t.post) == 0 {
		return
	}
	for _, v := range t.post[:len(t.post)-1] {
		t.cut[undirected(v, t.parent[v])] = calcCutValue(t, g, v)
	}
}

// calcCutValue returns the cut value of the tree edge between child and its
// parent. Removing that edge splits the tree in two; the cut value is the
// weight of edges from the tail component to the head component minus the
// weight of edges going back. It is derived from the child's own edges and
// the cut values already known for the child's tree edges below it.
func calcCutValue(t *tree, g *dag.Graph, child string) int {
	parent := t.parent[child]
	childIsTail := true
	ge := g.Edge(child, parent, "")
	if ge == nil {
		childIsTail = false
		ge = g.Edge(parent, child, "")
	}

	cut := ge.Label.Weight
	for _, e := range g.NodeEdges(child) {
		isOut := e.V == child
		other := e.V
		if isOut {
			other = e.W
		}
		if other == parent {
			continue
		}

		pointsToHead := isOut == childIsTail
		w := e.Label.Weight
		if pointsToHead {
			cut += w
		} else {
			cut -= w
		}
		if t.hasEdge(child, other) {
			otherCut := t.cut[undirected(child, other)]
			if pointsToHead {
				cut -= otherCut
			} else {
				cut += otherCut
			}
		}
	}
	return cut
}

func leaveEdge(t *tree) (treeEdge, bool) {
	for _, e := range t.edges {
		if t.cut[e] < 0 {
			return e, true
		}
	}
	return treeEdge{}, false
}

// enterEdge picks the replacement for the leaving tree edge e: among the
// graph edges that cross the same cut in the same direction, the one with
// the least slack.
func enterEdge(t *tree, g *dag.Graph, e treeEdge) *dag.Edge {
	v, w := e.v, e.w
	if g.Edge(v, w, "") == nil {
		v, w = w, v
	}

	// The tail is whichever end lies in the subtree cut off by e.
	tail := v
	flip := false
	if t.lim[v] > t.lim[w] {
		tail = w
		flip = true
	}
	below := func(u string) bool {
		return t.low[tail] <= t.lim[u] && t.lim[u] <= t.lim[tail]
	}

	var best *dag.Edge
	bestSlack := 0
	for _, cand := range g.Edges() {
		if flip != below(cand.V) || flip == below(cand.W) {
			continue
		}
		if s := slack(g, cand); best == nil || s < bestSlack {
			best, bestSlack = cand, s
		}
	}
	return best
}

func exchangeEdges(t *tree, g *dag.Graph, e treeEdge, f *dag.Edge) {
	t.removeEdge(e)
	t.addEdge(f.V, f.W)
	initLowLimValues(t)
	initCutValues(t, g)
	updateRanks(t, g)
}

// updateRanks re-derives every rank from the root along tree edges, which
// are all tight.
func updateRanks(t *tree, g *dag.Graph) {
	for _, v := range t.pre[1:] {
		parent := t.parent[v]
		pr := g.Node(parent).Rank
		if e := g.Edge(v, parent, ""); e != nil {
			g.Node(v).Rank = pr - e.Label.Minlen
		} else {
			g.Node(v).Rank = pr + g.Edge(parent, v, "").Label.Minlen
		}
	}
}
