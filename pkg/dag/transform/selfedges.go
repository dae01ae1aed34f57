package transform

import "github.com/matzehuels/layered/pkg/dag"

// RemoveSelfEdges detaches every loop and parks it on its node. Loops play no
// part in ranking or ordering.
func RemoveSelfEdges(g *dag.Graph) {
	for _, e := range g.Edges() {
		if e.V != e.W {
			continue
		}
		n := g.Node(e.V)
		n.SelfEdges = append(n.SelfEdges, dag.SelfEdge{Ref: e.Ref(), Label: e.Label})
		g.RemoveEdge(e)
	}
}

// InsertSelfEdges places one dummy per parked loop immediately after its node
// in the node's layer, shifting the rest of the layer right. The dummy is as
// large as the loop's label, which reserves room for the loop beside the node.
func InsertSelfEdges(g *dag.Graph) {
	for _, layer := range g.LayerMatrix() {
		shift := 0
		for i, v := range layer {
			n := g.Node(v)
			n.Order = i + shift
			for _, se := range n.SelfEdges {
				shift++
				dummy := &dag.Node{
					Width:  se.Label.Width,
					Height: se.Label.Height,
					Order:  i + shift,
					Edge:   se.Ref,
					Label:  se.Label,
				}
				dummy.SetRank(n.Rank)
				g.AddDummy(dag.DummySelfEdge, "_se", dummy)
			}
			n.SelfEdges = nil
		}
	}
}

// PositionSelfEdges turns every self-edge dummy back into its loop. The loop
// leaves the node's right side above its centre, bulges out to the dummy's
// position and returns below the centre:
//
//	x = node.x + node.width/2, dx = dummy.x - x, dy = node.height/2
//	(x+2dx/3, y-dy) (x+5dx/6, y-dy) (x+dx, y) (x+5dx/6, y+dy) (x+2dx/3, y+dy)
func PositionSelfEdges(g *dag.Graph) {
	for _, n := range g.Nodes() {
		if n.Dummy != dag.DummySelfEdge {
			continue
		}
		owner := g.Node(n.Edge.V)
		x := owner.X + owner.Width/2
		y := owner.Y
		dx := n.X - x
		dy := owner.Height / 2

		g.SetEdge(n.Edge.V, n.Edge.W, n.Edge.Name, n.Label)
		g.RemoveNode(n.ID)
		n.Label.Points = []dag.Point{
			{X: x + 2*dx/3, Y: y - dy},
			{X: x + 5*dx/6, Y: y - dy},
			{X: x + dx, Y: y},
			{X: x + 5*dx/6, Y: y + dy},
			{X: x + 2*dx/3, Y: y + dy},
		}
		n.Label.X, n.Label.Y = n.X, n.Y
		n.Label.Width, n.Label.Height = n.Width, n.Height
		n.Label.HasPosition = true
	}
}
