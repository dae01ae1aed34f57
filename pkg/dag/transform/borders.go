package transform

import (
	"math"

	"github.com/matzehuels/layered/pkg/dag"
)

// AddBorderSegments gives every cluster a left and a right border node on
// each rank it spans, chained top to bottom. The orderer keeps a cluster's
// members between its border nodes, and the positioner keeps each chain
// aligned, so the chains end up tracing the cluster's sides.
func AddBorderSegments(g *dag.Graph) {
	var dfs func(v string)
	dfs = func(v string) {
		for _, c := range g.Children(v) {
			dfs(c)
		}
		n := g.Node(v)
		if n == nil || !n.HasRankRange {
			return
		}
		n.BorderLeft = make([]string, n.MaxRank+1)
		n.BorderRight = make([]string, n.MaxRank+1)
		for rank := n.MinRank; rank <= n.MaxRank; rank++ {
			addBorderNode(g, v, n.BorderLeft, dag.DummyBorderLeft, "_bl", rank)
			addBorderNode(g, v, n.BorderRight, dag.DummyBorderRight, "_br", rank)
		}
	}
	for _, v := range g.Children("") {
		dfs(v)
	}
}

func addBorderNode(g *dag.Graph, cluster string, side []string, kind dag.DummyKind, prefix string, rank int) {
	node := &dag.Node{}
	node.SetRank(rank)
	curr := g.AddDummy(kind, prefix, node)
	side[rank] = curr
	g.SetParent(curr, cluster)
	if rank > 0 && side[rank-1] != "" {
		g.SetEdge(side[rank-1], curr, "", &dag.EdgeLabel{Weight: 1, Minlen: 1})
	}
}

// RemoveBorderNodes sizes every cluster from its border nodes and then deletes
// all border nodes. The box spans from the top border to the bottom border and
// between the left and right borders of the cluster's last rank.
func RemoveBorderNodes(g *dag.Graph) {
	for _, n := range g.Nodes() {
		if !g.IsCompound(n.ID) || n.BorderTop == "" {
			continue
		}
		t := g.Node(n.BorderTop)
		b := g.Node(n.BorderBottom)
		l := g.Node(n.BorderLeft[len(n.BorderLeft)-1])
		r := g.Node(n.BorderRight[len(n.BorderRight)-1])

		n.Width = math.Abs(r.X - l.X)
		n.Height = math.Abs(b.Y - t.Y)
		n.X = l.X + n.Width/2
		n.Y = t.Y + n.Height/2
	}

	for _, n := range g.Nodes() {
		if n.Dummy.IsBorder() {
			g.RemoveNode(n.ID)
		}
	}
}
