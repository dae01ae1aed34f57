package order

import "github.com/matzehuels/layered/pkg/dag"

// neighbor is a node in the adjacent rank together with the summed weight of
// all edges between it and the node it is attached to.
type neighbor struct {
	id     string
	weight int
}

// layerGraph is the view of one rank that a sweep reorders: the rank's nodes
// arranged in the cluster tree, each with its neighbours in the rank the
// sweep comes from. Clusters spanning the rank take part with the border
// nodes they own on it. The top of the tree is "".
type layerGraph struct {
	rank      int
	children  map[string][]string
	parent    map[string]string
	neighbors map[string][]neighbor
	borders   map[string][2]string
}

// buildLayerGraphs returns one layer graph per rank in ranks. With in set,
// neighbours are taken from in-edges (a downward sweep); otherwise from
// out-edges.
func buildLayerGraphs(g *dag.Graph, ranks []int, in bool) []*layerGraph {
	out := make([]*layerGraph, len(ranks))
	for i, r := range ranks {
		out[i] = buildLayerGraph(g, r, in)
	}
	return out
}

func buildLayerGraph(g *dag.Graph, rank int, in bool) *layerGraph {
	lg := &layerGraph{
		rank:      rank,
		children:  make(map[string][]string),
		parent:    make(map[string]string),
		neighbors: make(map[string][]neighbor),
		borders:   make(map[string][2]string),
	}
	for _, n := range g.Nodes() {
		onRank := n.Ranked && n.Rank == rank
		spans := n.HasRankRange && n.MinRank <= rank && rank <= n.MaxRank
		if !onRank && !spans {
			continue
		}
		p := g.Parent(n.ID)
		lg.parent[n.ID] = p
		lg.children[p] = append(lg.children[p], n.ID)

		edges := g.OutEdges(n.ID)
		if in {
			edges = g.InEdges(n.ID)
		}
		for _, e := range edges {
			u := e.W
			if in {
				u = e.V
			}
			lg.addNeighbor(n.ID, u, e.Label.Weight)
		}

		if spans && rank < len(n.BorderLeft) {
			lg.borders[n.ID] = [2]string{n.BorderLeft[rank], n.BorderRight[rank]}
		}
	}
	return lg
}

func (lg *layerGraph) addNeighbor(v, u string, weight int) {
	ns := lg.neighbors[v]
	for i := range ns {
		if ns[i].id == u {
			ns[i].weight += weight
			return
		}
	}
	lg.neighbors[v] = append(ns, neighbor{id: u, weight: weight})
}

// constraintGraph records, across the ranks of one sweep, which sibling
// clusters must stay left of which.
type constraintGraph struct {
	edges []constraint
	seen  map[constraint]bool
}

type constraint struct{ left, right string }

func newConstraintGraph() *constraintGraph {
	return &constraintGraph{seen: make(map[constraint]bool)}
}

func (cg *constraintGraph) add(left, right string) {
	c := constraint{left, right}
	if !cg.seen[c] {
		cg.seen[c] = true
		cg.edges = append(cg.edges, c)
	}
}

// addSubgraphConstraints walks a sorted rank and, for every pair of sibling
// clusters that appear one after the other, records that the first stays
// left of the second on the ranks still to come.
func addSubgraphConstraints(lg *layerGraph, cg *constraintGraph, vs []string) {
	prev := make(map[string]string)
	rootPrev := ""
	for _, v := range vs {
		child := lg.parent[v]
		for child != "" {
			parent := lg.parent[child]
			var prevChild string
			if parent != "" {
				prevChild = prev[parent]
				prev[parent] = child
			} else {
				prevChild = rootPrev
				rootPrev = child
			}
			if prevChild != "" && prevChild != child {
				cg.add(prevChild, child)
				break
			}
			child = parent
		}
	}
}
