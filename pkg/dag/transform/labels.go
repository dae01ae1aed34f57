package transform

import "github.com/matzehuels/layered/pkg/dag"

// MakeSpaceForEdgeLabels doubles every minlen and halves the rank separation,
// so each edge gets an intermediate rank where its label can sit. Labels that
// are not centred also grow by their offset along the rank axis.
func MakeSpaceForEdgeLabels(g *dag.Graph) {
	g.RankSep /= 2
	for _, e := range g.Edges() {
		l := e.Label
		l.Minlen *= 2
		if l.LabelPos != dag.LabelCenter {
			if g.RankDir.Horizontal() {
				l.Height += l.LabelOffset
			} else {
				l.Width += l.LabelOffset
			}
		}
	}
}

// InjectEdgeLabelProxies adds a proxy node halfway along every labelled edge.
// The proxy keeps the label's rank populated through [RemoveEmptyRanks].
func InjectEdgeLabelProxies(g *dag.Graph) {
	for _, e := range g.Edges() {
		if !e.Label.HasLabel() {
			continue
		}
		v, w := g.Node(e.V), g.Node(e.W)
		proxy := &dag.Node{Edge: e.Ref()}
		proxy.SetRank(v.Rank + (w.Rank-v.Rank)/2)
		g.AddDummy(dag.DummyEdgeProxy, "_ep", proxy)
	}
}

// RemoveEdgeLabelProxies records each proxy's rank as its edge's label rank
// and deletes the proxies.
func RemoveEdgeLabelProxies(g *dag.Graph) {
	for _, n := range g.Nodes() {
		if n.Dummy != dag.DummyEdgeProxy {
			continue
		}
		if e := g.EdgeByRef(n.Edge); e != nil {
			e.Label.LabelRank = n.Rank
			e.Label.HasLabelRank = true
		}
		g.RemoveNode(n.ID)
	}
}

// FixupEdgeLabelCoords moves side labels off their edge. With padded set it
// also strips the offset [MakeSpaceForEdgeLabels] added to their width.
func FixupEdgeLabelCoords(g *dag.Graph, padded bool) {
	for _, e := range g.Edges() {
		l := e.Label
		if !l.HasPosition {
			continue
		}
		if padded && (l.LabelPos == dag.LabelLeft || l.LabelPos == dag.LabelRight) {
			l.Width -= l.LabelOffset
		}
		switch l.LabelPos {
		case dag.LabelLeft:
			l.X -= l.Width/2 + l.LabelOffset
		case dag.LabelRight:
			l.X += l.Width/2 + l.LabelOffset
		}
	}
}
