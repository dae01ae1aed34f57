package order

import (
	"slices"

	"github.com/matzehuels/layered/pkg/dag"
)

// entry is a run of nodes that moves as one unit while a rank is sorted,
// along with the value it is sorted by. i is the unit's original index,
// which places entries without a value and breaks ties.
type entry struct {
	vs     []string
	i      int
	value  float64
	weight float64
	valued bool

	// Conflict resolution state.
	indegree int
	in       []*entry
	out      []*entry
	merged   bool
}

// medians computes the sort value of each movable node: the weighted median
// of its neighbours' positions in the adjacent rank. Edge weights act as
// multiplicities and an even count averages the two middle positions. Nodes
// without neighbours get no value and keep their place.
func medians(g *dag.Graph, lg *layerGraph, movable []string) []*entry {
	out := make([]*entry, len(movable))
	for i, v := range movable {
		e := &entry{vs: []string{v}, i: i}
		if m, w, ok := weightedMedian(g, lg.neighbors[v]); ok {
			e.value, e.weight, e.valued = m, float64(w), true
		}
		out[i] = e
	}
	return out
}

type position struct {
	pos    int
	weight int
}

func weightedMedian(g *dag.Graph, ns []neighbor) (float64, int, bool) {
	if len(ns) == 0 {
		return 0, 0, false
	}
	ps := make([]position, len(ns))
	total := 0
	for i, n := range ns {
		ps[i] = position{pos: g.Node(n.id).Order, weight: n.weight}
		total += n.weight
	}
	if total == 0 {
		// Only zero-weight edges: count each once.
		for i := range ps {
			ps[i].weight = 1
		}
		total = len(ps)
	}
	slices.SortStableFunc(ps, func(a, b position) int { return a.pos - b.pos })

	at := func(k int) int {
		for _, p := range ps {
			if k < p.weight {
				return p.pos
			}
			k -= p.weight
		}
		return ps[len(ps)-1].pos
	}
	lo, hi := at((total-1)/2), at(total/2)
	return float64(lo+hi) / 2, total, true
}

// mergeValue folds a sorted subgraph's value into the entry standing for the
// subgraph, as a weighted mean.
func mergeValue(target *entry, other sortResult) {
	if target.valued {
		target.value = (target.value*target.weight + other.value*other.weight) / (target.weight + other.weight)
		target.weight += other.weight
		return
	}
	target.value, target.weight, target.valued = other.value, other.weight, true
}
