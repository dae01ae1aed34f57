package transform

import "github.com/matzehuels/layered/pkg/dag"

// Subdivide breaks every edge spanning more than one rank into a chain of
// unit-length edges through dummy nodes, one per intermediate rank:
//
//	Before: a (rank 0) → b (rank 3)
//	After:  a → _d1 (rank 1) → _d2 (rank 2) → b
//
// Every dummy shares the original edge's label, and the dummy sitting on the
// edge's label rank becomes an edge-label dummy sized like the label. The
// first dummy of each chain is recorded in DummyChains so [Unsubdivide] can
// walk the chain back into a polyline.
func Subdivide(g *dag.Graph) {
	g.DummyChains = nil
	for _, e := range g.Edges() {
		subdivideEdge(g, e)
	}
}

func subdivideEdge(g *dag.Graph, e *dag.Edge) {
	vRank, wRank := g.Node(e.V).Rank, g.Node(e.W).Rank
	if wRank == vRank+1 {
		return
	}

	label := e.Label
	ref := e.Ref()
	g.RemoveEdge(e)

	v := e.V
	for i, rank := 0, vRank+1; rank < wRank; i, rank = i+1, rank+1 {
		label.Points = nil
		dummy := &dag.Node{Edge: ref, Label: label}
		dummy.SetRank(rank)
		kind := dag.DummyEdge
		if label.HasLabelRank && rank == label.LabelRank {
			dummy.Width = label.Width
			dummy.Height = label.Height
			dummy.LabelPos = label.LabelPos
			kind = dag.DummyEdgeLabel
		}
		id := g.AddDummy(kind, "_d", dummy)
		g.SetEdge(v, id, ref.Name, &dag.EdgeLabel{Weight: label.Weight, Minlen: 1})
		if i == 0 {
			g.DummyChains = append(g.DummyChains, id)
		}
		v = id
	}
	g.SetEdge(v, e.W, ref.Name, &dag.EdgeLabel{Weight: label.Weight, Minlen: 1})
}

// Unsubdivide restores the edges broken up by [Subdivide]. Each dummy's
// position becomes a bend point of the original edge, and the edge-label
// dummy's position and size become the label's.
func Unsubdivide(g *dag.Graph) {
	for _, v := range g.DummyChains {
		node := g.Node(v)
		label := node.Label
		g.SetEdge(node.Edge.V, node.Edge.W, node.Edge.Name, label)
		for node != nil && node.Dummy.IsDummy() {
			succ := g.Successors(v)
			g.RemoveNode(v)
			label.Points = append(label.Points, dag.Point{X: node.X, Y: node.Y})
			if node.Dummy == dag.DummyEdgeLabel {
				label.X, label.Y = node.X, node.Y
				label.Width, label.Height = node.Width, node.Height
				label.HasPosition = true
			}
			if len(succ) == 0 {
				break
			}
			v = succ[0]
			node = g.Node(v)
		}
	}
	g.DummyChains = nil
}
