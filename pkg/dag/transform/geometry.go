package transform

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/layered/pkg/dag"
)

// ErrNoIntersection is returned when an edge end cannot be clipped to its
// node's boundary because the direction towards the next point is undefined.
// It usually means two connected nodes were placed on top of each other.
var ErrNoIntersection = errors.New("no intersection with node boundary")

// Rect is an axis-aligned rectangle given by its centre and size.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// IntersectRect returns the point where the segment from the centre of r to p
// leaves r. It fails with [ErrNoIntersection] when p is the centre itself.
// A rectangle without extent is left at its centre.
func IntersectRect(r Rect, p dag.Point) (dag.Point, error) {
	dx, dy := p.X-r.X, p.Y-r.Y
	w, h := r.Width/2, r.Height/2
	if dx == 0 && dy == 0 {
		return dag.Point{}, ErrNoIntersection
	}

	if w == 0 && h == 0 {
		return dag.Point{X: r.X, Y: r.Y}, nil
	}

	var sx, sy float64
	if dx == 0 || math.Abs(dy)*w > math.Abs(dx)*h {
		if dy < 0 {
			h = -h
		}
		sx, sy = h*dx/dy, h
	} else {
		if dx < 0 {
			w = -w
		}
		sx, sy = w, w*dy/dx
	}
	return dag.Point{X: r.X + sx, Y: r.Y + sy}, nil
}

func nodeRect(n *dag.Node) Rect {
	return Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// AssignNodeIntersects clips every edge to the boundaries of its endpoints:
// the first point becomes the exit from the source towards the first bend
// point, and the last point the entry into the target from the last bend
// point. Edges without bend points are clipped along the line between the
// two centres.
func AssignNodeIntersects(g *dag.Graph) error {
	for _, e := range g.Edges() {
		l := e.Label
		v, w := g.Node(e.V), g.Node(e.W)
		towardsV := dag.Point{X: w.X, Y: w.Y}
		towardsW := dag.Point{X: v.X, Y: v.Y}
		if len(l.Points) > 0 {
			towardsV = l.Points[0]
			towardsW = l.Points[len(l.Points)-1]
		}

		start, err := IntersectRect(nodeRect(v), towardsV)
		if err != nil {
			return fmt.Errorf("edge %s->%s at node %q: %w", e.V, e.W, e.V, err)
		}
		end, err := IntersectRect(nodeRect(w), towardsW)
		if err != nil {
			return fmt.Errorf("edge %s->%s at node %q: %w", e.V, e.W, e.W, err)
		}

		points := make([]dag.Point, 0, len(l.Points)+2)
		points = append(points, start)
		points = append(points, l.Points...)
		l.Points = append(points, end)
	}
	return nil
}

// extent accumulates the bounding box of a set of boxes.
type extent struct {
	minX, minY, maxX, maxY float64
}

func emptyExtent() extent {
	return extent{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
}

func (b extent) include(x, y, w, h float64) extent {
	return extent{
		minX: math.Min(b.minX, x-w/2),
		minY: math.Min(b.minY, y-h/2),
		maxX: math.Max(b.maxX, x+w/2),
		maxY: math.Max(b.maxY, y+h/2),
	}
}

// Translate shifts the drawing so that the top-left corner of the bounding box
// of all nodes and placed edge labels lands at (marginX, marginY), and sets
// the graph's Width and Height including both margins.
func Translate(g *dag.Graph) {
	b := emptyExtent()
	for _, n := range g.Nodes() {
		b = b.include(n.X, n.Y, n.Width, n.Height)
	}
	for _, e := range g.Edges() {
		if l := e.Label; l.HasPosition {
			b = b.include(l.X, l.Y, l.Width, l.Height)
		}
	}
	if math.IsInf(b.minX, 1) {
		g.Width, g.Height = 0, 0
		return
	}

	dx := b.minX - g.MarginX
	dy := b.minY - g.MarginY
	for _, n := range g.Nodes() {
		n.X -= dx
		n.Y -= dy
	}
	for _, e := range g.Edges() {
		l := e.Label
		for i := range l.Points {
			l.Points[i].X -= dx
			l.Points[i].Y -= dy
		}
		if l.HasPosition {
			l.X -= dx
			l.Y -= dy
		}
	}
	g.Width = b.maxX - dx + g.MarginX
	g.Height = b.maxY - dy + g.MarginY
}
