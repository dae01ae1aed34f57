package layout

import (
	"slices"
	"strings"

	"github.com/matzehuels/layered/pkg/dag"
	"github.com/matzehuels/layered/pkg/errors"
	"github.com/matzehuels/layered/pkg/graph"
)

// validateGraph checks the caller graph for input that no stage can handle.
func validateGraph(g *graph.Graph) error {
	for _, n := range g.Nodes() {
		if err := errors.ValidateNodeSize(n.ID, n.Width, n.Height); err != nil {
			return err
		}
	}
	for _, e := range g.Edges() {
		for _, end := range []string{e.From, e.To} {
			if g.IsCluster(end) {
				return errors.New(errors.ErrCodeConfiguration,
					"edge %s->%s touches cluster %s; edges must connect leaf nodes", e.From, e.To, end)
			}
		}
		if err := errors.ValidateEdgeAttrs(e.From, e.To, e.Weight, e.Minlen); err != nil {
			return err
		}
		if err := errors.ValidateOneOf("labelpos", strings.ToLower(e.LabelPos), true,
			graph.LabelLeft, graph.LabelRight, graph.LabelCenter); err != nil {
			return err
		}
	}
	return nil
}

// snapshot projects the caller graph onto a fresh scratch graph. Nothing in
// the scratch graph aliases caller memory.
func snapshot(g *graph.Graph, opts *Options) *dag.Graph {
	s := dag.New(dag.Settings{
		RankDir:   dag.RankDir(opts.RankDir),
		NodeSep:   opts.NodeSep,
		EdgeSep:   opts.EdgeSep,
		RankSep:   opts.RankSep,
		MarginX:   opts.MarginX,
		MarginY:   opts.MarginY,
		Acyclicer: opts.Acyclicer,
		Ranker:    opts.Ranker,
		Align:     opts.Align,
	})

	for _, n := range g.Nodes() {
		node := &dag.Node{ID: n.ID, Width: n.Width, Height: n.Height}
		if !g.IsCluster(n.ID) {
			node.Layer = copyInt(n.Layer)
			node.FixOrder = copyInt(n.FixOrder)
		}
		// IDs were validated by the caller graph.
		_ = s.AddNode(node)
	}
	for _, n := range g.Nodes() {
		for _, c := range g.Children(n.ID) {
			s.SetParent(c, n.ID)
		}
	}
	for _, e := range g.Edges() {
		pos := dag.LabelPos(strings.ToLower(e.LabelPos))
		if pos == "" {
			pos = dag.LabelRight
		}
		s.SetEdge(e.From, e.To, e.Name, &dag.EdgeLabel{
			Weight:      e.Weight,
			Minlen:      e.Minlen,
			Width:       e.LabelWidth,
			Height:      e.LabelHeight,
			LabelPos:    pos,
			LabelOffset: e.LabelOffset,
		})
	}
	return s
}

// copyBack writes the results of a finished scratch graph onto the caller
// graph. Orders are renumbered over the original nodes of each rank, so
// dummies leave no gaps.
func copyBack(s *dag.Graph, g *graph.Graph) {
	compact := compactOrders(s)
	for _, n := range g.Nodes() {
		sn := s.Node(n.ID)
		n.X, n.Y = sn.X, sn.Y
		if g.IsCluster(n.ID) {
			n.Width, n.Height = sn.Width, sn.Height
			n.Rank, n.Order = -1, -1
			continue
		}
		n.Rank = sn.Rank
		n.Order = compact[n.ID]
	}

	for _, e := range g.Edges() {
		se := s.Edge(e.From, e.To, e.Name)
		if se == nil {
			continue
		}
		l := se.Label
		e.Points = make([]graph.Point, len(l.Points))
		for i, p := range l.Points {
			e.Points[i] = graph.Point{X: p.X, Y: p.Y}
		}
		e.LabelX, e.LabelY, e.HasLabelPos = 0, 0, false
		if l.HasPosition && e.HasLabel() {
			e.LabelX, e.LabelY, e.HasLabelPos = l.X, l.Y, true
		}
	}
	g.Width, g.Height = s.Width, s.Height
}

func compactOrders(s *dag.Graph) map[string]int {
	byRank := make(map[int][]*dag.Node)
	for _, n := range s.Nodes() {
		if n.Ranked && !n.Dummy.IsDummy() && !s.IsCompound(n.ID) {
			byRank[n.Rank] = append(byRank[n.Rank], n)
		}
	}
	out := make(map[string]int)
	for _, nodes := range byRank {
		slices.SortStableFunc(nodes, func(a, b *dag.Node) int { return a.Order - b.Order })
		for i, n := range nodes {
			out[n.ID] = i
		}
	}
	return out
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
