package transform

import "github.com/matzehuels/layered/pkg/dag"

// AdjustCoordinateSystem rotates node and label sizes for horizontal rank
// directions, so positioning can always assume ranks advance down the y axis.
func AdjustCoordinateSystem(g *dag.Graph) {
	if g.RankDir.Horizontal() {
		swapWidthHeight(g)
	}
}

// UndoCoordinateSystem maps positions computed top to bottom onto the
// configured rank direction: BT and RL mirror the y axis, and LR and RL swap
// the axes back.
func UndoCoordinateSystem(g *dag.Graph) {
	if g.RankDir == dag.RankDirBT || g.RankDir == dag.RankDirRL {
		reverseY(g)
	}
	if g.RankDir.Horizontal() {
		swapXY(g)
		swapWidthHeight(g)
	}
}

func swapWidthHeight(g *dag.Graph) {
	for _, n := range g.Nodes() {
		n.Width, n.Height = n.Height, n.Width
	}
	for _, e := range g.Edges() {
		e.Label.Width, e.Label.Height = e.Label.Height, e.Label.Width
	}
}

func reverseY(g *dag.Graph) {
	for _, n := range g.Nodes() {
		n.Y = -n.Y
	}
	for _, e := range g.Edges() {
		l := e.Label
		for i := range l.Points {
			l.Points[i].Y = -l.Points[i].Y
		}
		if l.HasPosition {
			l.Y = -l.Y
		}
	}
}

func swapXY(g *dag.Graph) {
	for _, n := range g.Nodes() {
		n.X, n.Y = n.Y, n.X
	}
	for _, e := range g.Edges() {
		l := e.Label
		for i := range l.Points {
			l.Points[i].X, l.Points[i].Y = l.Points[i].Y, l.Points[i].X
		}
		if l.HasPosition {
			l.X, l.Y = l.Y, l.X
		}
	}
}
