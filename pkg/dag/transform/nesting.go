package transform

import "github.com/matzehuels/layered/pkg/dag"

// RunNesting wraps every cluster in a pair of top and bottom border nodes and
// ties the graph to a single nesting root, so that a flat ranker keeps each
// cluster's descendants strictly between the cluster's first and last rank.
//
// Let height be the depth of the deepest nesting level below the top. Every
// existing minlen is multiplied by nodeSep = 2*height+1, which leaves room
// for one border rank per nesting level on both sides of every node; the
// factor is stored in NodeRankFactor for [RemoveEmptyRanks]. Edges from a
// cluster's top border to its children (and from the children to the bottom
// border) carry a weight larger than all original weights combined, which
// keeps clusters vertically compact. Edges from the root carry weight 0 and
// only serve to connect the graph.
//
// [CleanupNesting] removes the root and the nesting edges after ranking; the
// border nodes survive and later delimit the cluster's box.
func RunNesting(g *dag.Graph) {
	root := g.AddDummy(dag.DummyRoot, "_root", &dag.Node{})
	depths := treeDepths(g)
	height := 0
	for _, d := range depths {
		height = max(height, d)
	}
	height--
	nodeSep := 2*height + 1
	g.NestingRoot = root

	weight := 1
	for _, e := range g.Edges() {
		e.Label.Minlen *= nodeSep
		weight += e.Label.Weight
	}

	n := &nester{g: g, root: root, nodeSep: nodeSep, weight: weight, height: height, depths: depths}
	for _, child := range g.Children("") {
		n.dfs(child)
	}
	g.NodeRankFactor = nodeSep
}

type nester struct {
	g       *dag.Graph
	root    string
	nodeSep int
	weight  int
	height  int
	depths  map[string]int
}

func (n *nester) dfs(v string) {
	g := n.g
	children := g.Children(v)
	if len(children) == 0 {
		if v != n.root {
			g.SetEdge(n.root, v, "", &dag.EdgeLabel{Weight: 0, Minlen: n.nodeSep})
		}
		return
	}

	top := g.AddDummy(dag.DummyBorderTop, "_bt", &dag.Node{})
	bottom := g.AddDummy(dag.DummyBorderBottom, "_bb", &dag.Node{})
	label := g.Node(v)
	g.SetParent(top, v)
	label.BorderTop = top
	g.SetParent(bottom, v)
	label.BorderBottom = bottom

	for _, child := range children {
		n.dfs(child)

		childNode := g.Node(child)
		childTop, childBottom := child, child
		thisWeight := 2 * n.weight
		if childNode.BorderTop != "" {
			childTop, childBottom = childNode.BorderTop, childNode.BorderBottom
			thisWeight = n.weight
		}
		minlen := n.height - n.depths[v] + 1
		if childTop != childBottom {
			minlen = 1
		}
		g.SetEdge(top, childTop, "", &dag.EdgeLabel{Weight: thisWeight, Minlen: minlen, NestingEdge: true})
		g.SetEdge(childBottom, bottom, "", &dag.EdgeLabel{Weight: thisWeight, Minlen: minlen, NestingEdge: true})
	}

	if g.Parent(v) == "" {
		g.SetEdge(n.root, top, "", &dag.EdgeLabel{Weight: 0, Minlen: n.height + n.depths[v]})
	}
}

// treeDepths returns each node's nesting depth; top-level nodes have depth 1.
func treeDepths(g *dag.Graph) map[string]int {
	depths := make(map[string]int)
	var dfs func(v string, depth int)
	dfs = func(v string, depth int) {
		for _, child := range g.Children(v) {
			dfs(child, depth+1)
		}
		depths[v] = depth
	}
	for _, v := range g.Children("") {
		dfs(v, 1)
	}
	return depths
}

// CleanupNesting removes the nesting root and the edges [RunNesting] added
// between border nodes and cluster members.
func CleanupNesting(g *dag.Graph) {
	g.RemoveNode(g.NestingRoot)
	g.NestingRoot = ""
	for _, e := range g.Edges() {
		if e.Label.NestingEdge {
			g.RemoveEdge(e)
		}
	}
}

// AssignRankMinMax records on every cluster the ranks of its top and bottom
// border nodes.
func AssignRankMinMax(g *dag.Graph) {
	for _, n := range g.Nodes() {
		if n.BorderTop == "" {
			continue
		}
		n.MinRank = g.Node(n.BorderTop).Rank
		n.MaxRank = g.Node(n.BorderBottom).Rank
		n.HasRankRange = true
	}
}
