package order

import (
	"cmp"
	"slices"

	"github.com/matzehuels/layered/pkg/dag"
)

// pinner keeps nodes with a FixOrder in their requested relative order.
// Within each rank, pinned nodes sharing a parent are redistributed over the
// positions they currently occupy, sorted by FixOrder. Unpinned nodes never
// move, and neither do the slots a cluster's members occupy.
type pinner struct {
	g     *dag.Graph
	input map[string]int
}

func newPinner(g *dag.Graph) *pinner {
	p := &pinner{g: g}
	for i, n := range g.Nodes() {
		if n.FixOrder != nil {
			if p.input == nil {
				p.input = make(map[string]int)
			}
			p.input[n.ID] = i
		}
	}
	return p
}

func (p *pinner) active() bool { return len(p.input) > 0 }

func (p *pinner) pinned(v string) bool {
	_, ok := p.input[v]
	return ok
}

// apply reorders layers in place.
func (p *pinner) apply(layers [][]string) {
	if !p.active() {
		return
	}
	for _, layer := range layers {
		slots := make(map[string][]int)
		var parents []string
		for i, v := range layer {
			if !p.pinned(v) {
				continue
			}
			parent := p.g.Parent(v)
			if _, ok := slots[parent]; !ok {
				parents = append(parents, parent)
			}
			slots[parent] = append(slots[parent], i)
		}
		for _, parent := range parents {
			idx := slots[parent]
			vs := make([]string, len(idx))
			for k, i := range idx {
				vs[k] = layer[i]
			}
			slices.SortStableFunc(vs, func(a, b string) int {
				if c := cmp.Compare(*p.g.Node(a).FixOrder, *p.g.Node(b).FixOrder); c != 0 {
					return c
				}
				return p.input[a] - p.input[b]
			})
			for k, i := range idx {
				layer[i] = vs[k]
			}
		}
	}
}
