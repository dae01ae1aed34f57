package rank

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/layered/pkg/dag"
)

// ErrLayerConflict is returned by [ApplyLayers] when manual layers cannot be
// honoured without shortening an edge below its minlen.
var ErrLayerConflict = errors.New("manual layer conflicts with edge constraints")

// ApplyLayers moves nodes with a manual Layer onto their layer and re-ranks
// the rest around them. Call it after [Run], before the nesting root is
// removed.
//
// Layer L maps to rank NodeRankFactor + L*unit, with unit = labelFactor *
// NodeRankFactor, which is where an unconstrained top-level source lands.
// Unpinned nodes with a pinned node downstream move as close to it as their
// minlen allows; the others keep their rank unless a predecessor pushes them
// down.
func ApplyLayers(g *dag.Graph, labelFactor int) error {
	factor := max(g.NodeRankFactor, 1)
	unit := max(labelFactor, 1) * factor
	pins := make(map[string]int)
	for _, n := range g.Nodes() {
		if n.Layer != nil && rankable(g, n) {
			pins[n.ID] = factor + *n.Layer*unit
		}
	}
	if len(pins) == 0 {
		return nil
	}

	keep := func(n *dag.Node) bool { return rankable(g, n) }
	order := topoOrder(g, keep)
	inScope := make(map[string]bool, len(order))
	for _, v := range order {
		inScope[v] = true
	}

	// Backward pass: the latest rank each node may take given the pinned
	// nodes below it.
	upper := make(map[string]int, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		if pin, ok := pins[v]; ok {
			upper[v] = pin
			continue
		}
		ub := math.MaxInt
		for _, e := range g.OutEdges(v) {
			if w, ok := upper[e.W]; ok && inScope[e.W] && w != math.MaxInt {
				ub = min(ub, w-e.Label.Minlen)
			}
		}
		upper[v] = ub
	}

	// Forward pass: settle ranks top-down, checking every pin against the
	// earliest rank its predecessors allow.
	for _, v := range order {
		n := g.Node(v)
		lb, ok := math.MinInt, false
		var tightest *dag.Edge
		for _, e := range g.InEdges(v) {
			if !inScope[e.V] {
				continue
			}
			if r := g.Node(e.V).Rank + e.Label.Minlen; !ok || r > lb {
				lb, ok, tightest = r, true, e
			}
		}

		if pin, pinned := pins[v]; pinned {
			if ok && lb > pin {
				return fmt.Errorf("%w: node %q is pinned to layer %d but edge %s->%s needs it at least %d ranks further down",
					ErrLayerConflict, v, *n.Layer, tightest.V, tightest.W, lb-pin)
			}
			n.SetRank(pin)
			continue
		}

		rank := n.Rank
		if upper[v] != math.MaxInt {
			rank = upper[v]
		}
		if ok {
			rank = max(rank, lb)
		}
		n.SetRank(rank)
	}
	return nil
}
