package order

import (
	"slices"

	"github.com/matzehuels/layered/pkg/dag"
)

// sortResult is a sorted run of nodes and the weighted value it presents to
// the level above.
type sortResult struct {
	vs     []string
	value  float64
	weight float64
	valued bool
}

// sortEntries orders entries by value. Entries without a value keep their
// original index and the valued ones flow around them. Ties go to the lower
// index, or the higher one with biasRight.
func sortEntries(entries []*entry, biasRight bool) sortResult {
	var sortable, unsortable []*entry
	for _, e := range entries {
		if e.valued {
			sortable = append(sortable, e)
		} else {
			unsortable = append(unsortable, e)
		}
	}
	// Consumed from the back, lowest index first.
	slices.SortStableFunc(unsortable, func(a, b *entry) int { return b.i - a.i })
	slices.SortStableFunc(sortable, func(a, b *entry) int {
		switch {
		case a.value < b.value:
			return -1
		case a.value > b.value:
			return 1
		case biasRight:
			return b.i - a.i
		default:
			return a.i - b.i
		}
	})

	var vs []string
	index := 0
	consume := func() {
		for len(unsortable) > 0 && unsortable[len(unsortable)-1].i <= index {
			last := unsortable[len(unsortable)-1]
			unsortable = unsortable[:len(unsortable)-1]
			vs = append(vs, last.vs...)
			index++
		}
	}

	var sum, weight float64
	consume()
	for _, e := range sortable {
		index += len(e.vs)
		vs = append(vs, e.vs...)
		sum += e.value * e.weight
		weight += e.weight
		consume()
	}
	// Whatever is left has an index past the end.
	for i := len(unsortable) - 1; i >= 0; i-- {
		vs = append(vs, unsortable[i].vs...)
	}

	result := sortResult{vs: vs}
	if weight > 0 {
		result.value, result.weight, result.valued = sum/weight, weight, true
	}
	return result
}

// sortSubgraph sorts the members of cluster v (or the whole rank for "")
// recursively: sub-clusters are sorted first and then move as one block,
// valued by the weighted mean of their members. A cluster's border nodes
// bracket its members and pull the cluster towards where its borders sat on
// the previous rank.
func sortSubgraph(g *dag.Graph, lg *layerGraph, v string, cg *constraintGraph, biasRight bool) sortResult {
	movable := lg.children[v]
	borders, hasBorders := lg.borders[v]
	if hasBorders {
		movable = slices.DeleteFunc(slices.Clone(movable), func(w string) bool {
			return w == borders[0] || w == borders[1]
		})
	}

	entries := medians(g, lg, movable)
	subgraphs := make(map[string]sortResult)
	for _, e := range entries {
		w := e.vs[0]
		if len(lg.children[w]) == 0 {
			continue
		}
		sub := sortSubgraph(g, lg, w, cg, biasRight)
		subgraphs[w] = sub
		if sub.valued {
			mergeValue(e, sub)
		}
	}

	entries = resolveConflicts(entries, cg)
	for _, e := range entries {
		var expanded []string
		for _, w := range e.vs {
			if sub, ok := subgraphs[w]; ok {
				expanded = append(expanded, sub.vs...)
			} else {
				expanded = append(expanded, w)
			}
		}
		e.vs = expanded
	}

	result := sortEntries(entries, biasRight)
	if !hasBorders {
		return result
	}

	bl, br := borders[0], borders[1]
	result.vs = append(append([]string{bl}, result.vs...), br)
	blPreds, brPreds := lg.neighbors[bl], lg.neighbors[br]
	if len(blPreds) > 0 && len(brPreds) > 0 {
		if !result.valued {
			result.value, result.weight = 0, 0
		}
		blOrder := float64(g.Node(blPreds[0].id).Order)
		brOrder := float64(g.Node(brPreds[0].id).Order)
		result.value = (result.value*result.weight + blOrder + brOrder) / (result.weight + 2)
		result.weight += 2
		result.valued = true
	}
	return result
}
