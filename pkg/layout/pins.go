package layout

import (
	"github.com/matzehuels/layered/pkg/dag"
	"github.com/matzehuels/layered/pkg/graph"
)

// assignPins decides which scratch nodes carry a FixOrder before ordering.
// Exactly one source applies, in this order of precedence:
//
//   - KeepNodeOrder: the position in NodeOrder (or in the input when
//     NodeOrder is empty); unlisted nodes are free.
//   - PrevGraph: the node's Order in the previous layout; nodes the previous
//     layout lacks are free.
//   - Otherwise each node's own FixOrder, already copied by snapshot.
func assignPins(s *dag.Graph, g *graph.Graph, opts *Options) {
	switch {
	case opts.KeepNodeOrder:
		ids := opts.NodeOrder
		if len(ids) == 0 {
			for _, n := range g.Nodes() {
				ids = append(ids, n.ID)
			}
		}
		clearPins(s)
		for i, id := range ids {
			if n := pinnable(s, g, id); n != nil && n.FixOrder == nil {
				idx := i
				n.FixOrder = &idx
			}
		}

	case opts.PrevGraph != nil:
		clearPins(s)
		for _, prev := range opts.PrevGraph.Nodes() {
			if opts.PrevGraph.IsCluster(prev.ID) {
				continue
			}
			if n := pinnable(s, g, prev.ID); n != nil {
				order := prev.Order
				n.FixOrder = &order
			}
		}
	}
}

// pinnable returns the scratch node for an original leaf node, or nil.
func pinnable(s *dag.Graph, g *graph.Graph, id string) *dag.Node {
	if _, ok := g.Node(id); !ok || g.IsCluster(id) {
		return nil
	}
	return s.Node(id)
}

func clearPins(s *dag.Graph) {
	for _, n := range s.Nodes() {
		n.FixOrder = nil
	}
}
