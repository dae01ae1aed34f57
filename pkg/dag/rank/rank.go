package rank

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/layered/pkg/dag"
)

// Ranker names accepted in Settings.Ranker.
const (
	NetworkSimplex = "network-simplex"
	TightTree      = "tight-tree"
	LongestPath    = "longest-path"
)

// ErrUnknownRanker is returned by [Run] for an unsupported Settings.Ranker.
var ErrUnknownRanker = errors.New("unknown ranker")

// Run assigns an integer rank to every non-cluster node so that each edge
// v->w satisfies rank(w) - rank(v) >= minlen. The graph must be acyclic.
//
// Connected components are ranked independently with the configured
// strategy. When a nesting root is present it is pinned at rank 0 and each
// component is shifted so that its tightest edge from the root is exactly
// satisfied; without a root each component starts at rank 0.
func Run(g *dag.Graph) error {
	rankFn, err := strategy(g.Ranker)
	if err != nil {
		return err
	}
	for _, c := range components(g) {
		rankFn(c.graph)
		c.apply(g)
	}
	if g.NestingRoot != "" {
		g.Node(g.NestingRoot).SetRank(0)
	}
	return nil
}

func strategy(name string) (func(*dag.Graph), error) {
	switch name {
	case "", NetworkSimplex:
		return networkSimplex, nil
	case TightTree:
		return tightTreeRanker, nil
	case LongestPath:
		return longestPath, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRanker, name)
	}
}

func tightTreeRanker(g *dag.Graph) {
	longestPath(g)
	feasibleTree(g)
}

// component is one connected piece of the rankable graph, simplified so that
// parallel edges collapse into one with summed weight and maximal minlen.
type component struct {
	graph *dag.Graph
	roots []rootEdge
}

type rootEdge struct {
	target string
	minlen int
}

func (c *component) apply(g *dag.Graph) {
	shift := math.MaxInt
	if len(c.roots) > 0 {
		for _, r := range c.roots {
			shift = min(shift, c.graph.Node(r.target).Rank-r.minlen)
		}
	} else {
		for _, n := range c.graph.Nodes() {
			shift = min(shift, n.Rank)
		}
	}
	for _, n := range c.graph.Nodes() {
		g.Node(n.ID).SetRank(n.Rank - shift)
	}
}

func rankable(g *dag.Graph, n *dag.Node) bool {
	return n.ID != g.NestingRoot && !g.IsCompound(n.ID)
}

// components splits the non-cluster nodes, minus the nesting root, into
// connected components. Components and their nodes and edges keep the
// insertion order of g.
func components(g *dag.Graph) []*component {
	index := make(map[string]int)
	count := 0
	for _, n := range g.Nodes() {
		if !rankable(g, n) {
			continue
		}
		if _, seen := index[n.ID]; seen {
			continue
		}
		stack := []string{n.ID}
		index[n.ID] = count
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, e := range g.NodeEdges(v) {
				w := e.W
				if w == v {
					w = e.V
				}
				if w == g.NestingRoot || g.IsCompound(w) {
					continue
				}
				if _, seen := index[w]; !seen {
					index[w] = count
					stack = append(stack, w)
				}
			}
		}
		count++
	}

	comps := make([]*component, count)
	for i := range comps {
		comps[i] = &component{graph: dag.New(dag.Settings{})}
	}
	for _, n := range g.Nodes() {
		if i, ok := index[n.ID]; ok {
			_ = comps[i].graph.AddNode(&dag.Node{ID: n.ID})
		}
	}
	for _, e := range g.Edges() {
		if e.V == g.NestingRoot {
			c := comps[index[e.W]]
			c.roots = append(c.roots, rootEdge{target: e.W, minlen: e.Label.Minlen})
			continue
		}
		i, ok := index[e.V]
		if !ok {
			continue
		}
		c := comps[i].graph
		if s := c.Edge(e.V, e.W, ""); s != nil {
			s.Label.Weight += e.Label.Weight
			s.Label.Minlen = max(s.Label.Minlen, e.Label.Minlen)
			continue
		}
		c.SetEdge(e.V, e.W, "", &dag.EdgeLabel{Weight: e.Label.Weight, Minlen: e.Label.Minlen})
	}
	return comps
}

// slack is how much longer e is than its minlen allows.
func slack(g *dag.Graph, e *dag.Edge) int {
	return g.Node(e.W).Rank - g.Node(e.V).Rank - e.Label.Minlen
}
