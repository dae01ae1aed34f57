package rank

import (
	"slices"

	"github.com/matzehuels/layered/pkg/dag"
)

// treeEdge is an undirected spanning tree edge with v < w.
type treeEdge struct{ v, w string }

func undirected(v, w string) treeEdge {
	if w < v {
		v, w = w, v
	}
	return treeEdge{v: v, w: w}
}

// tree is a spanning tree of tight edges, together with the bookkeeping the
// network simplex method keeps on it: a low/lim postorder numbering from the
// root, each node's parent, and the cut value of every tree edge.
type tree struct {
	nodes  []string
	has    map[string]bool
	adj    map[string][]string
	edges  []treeEdge
	cut    map[treeEdge]int
	low    map[string]int
	lim    map[string]int
	parent map[string]string
	post   []string
	pre    []string
}

func newTree() *tree {
	return &tree{
		has: make(map[string]bool),
		adj: make(map[string][]string),
		cut: make(map[treeEdge]int),
	}
}

func (t *tree) addNode(v string) {
	if !t.has[v] {
		t.has[v] = true
		t.nodes = append(t.nodes, v)
	}
}

func (t *tree) addEdge(v, w string) {
	t.edges = append(t.edges, undirected(v, w))
	t.adj[v] = append(t.adj[v], w)
	t.adj[w] = append(t.adj[w], v)
}

func (t *tree) removeEdge(e treeEdge) {
	if i := slices.Index(t.edges, e); i >= 0 {
		t.edges = slices.Delete(t.edges, i, i+1)
	}
	t.adj[e.v] = slices.DeleteFunc(t.adj[e.v], func(x string) bool { return x == e.w })
	t.adj[e.w] = slices.DeleteFunc(t.adj[e.w], func(x string) bool { return x == e.v })
	delete(t.cut, e)
}

func (t *tree) hasEdge(v, w string) bool {
	return slices.Contains(t.adj[v], w)
}

// feasibleTree grows a spanning tree of tight edges (slack 0) from the first
// node. Whenever the tree stops growing, the edge with the least slack that
// leaves the tree is made tight by shifting the whole tree towards it. The
// ranks of g stay feasible throughout.
func feasibleTree(g *dag.Graph) *tree {
	t := newTree()
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return t
	}
	t.addNode(ids[0])
	for tightTree(t, g) < len(ids) {
		e := findMinSlackEdge(t, g)
		delta := slack(g, e)
		if !t.has[e.V] {
			delta = -delta
		}
		for _, v := range t.nodes {
			g.Node(v).Rank += delta
		}
	}
	return t
}

// tightTree extends t with every node reachable through tight edges and
// returns the tree's size.
func tightTree(t *tree, g *dag.Graph) int {
	var dfs func(v string)
	dfs = func(v string) {
		for _, e := range g.NodeEdges(v) {
			w := e.V
			if w == v {
				w = e.W
			}
			if !t.has[w] && slack(g, e) == 0 {
				t.addNode(w)
				t.addEdge(v, w)
				dfs(w)
			}
		}
	}
	for _, v := range slices.Clone(t.nodes) {
		dfs(v)
	}
	return len(t.nodes)
}

func findMinSlackEdge(t *tree, g *dag.Graph) *dag.Edge {
	var best *dag.Edge
	bestSlack := 0
	for _, e := range g.Edges() {
		if t.has[e.V] == t.has[e.W] {
			continue
		}
		if s := slack(g, e); best == nil || s < bestSlack {
			best, bestSlack = e, s
		}
	}
	return best
}
