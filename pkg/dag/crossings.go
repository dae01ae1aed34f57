package dag

import "slices"

// CountCrossings returns the weighted number of edge crossings of a layering,
// summed over each pair of consecutive layers.
//
// A crossing between edges of weight w1 and w2 counts w1×w2, so a heavy edge
// is as costly to cross as several parallel light ones.
func CountCrossings(g *Graph, layers [][]string) int {
	crossings := 0
	for i := 1; i < len(layers); i++ {
		crossings += CountLayerCrossings(g, layers[i-1], layers[i])
	}
	return crossings
}

// CountLayerCrossings counts weighted crossings between the out-edges of upper
// and the nodes of lower using a Fenwick tree (binary indexed tree).
//
// Two edges (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// which is the inversion count of target positions when edges are sorted by
// source position. Edges leaving the two layers are ignored.
func CountLayerCrossings(g *Graph, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	lowerPos := PosMap(lower)

	type edge struct{ upper, lower, weight int }
	var edges []edge
	for i, v := range upper {
		start := len(edges)
		for _, e := range g.out[v] {
			if pos, ok := lowerPos[e.W]; ok {
				edges = append(edges, edge{i, pos, e.Label.Weight})
			}
		}
		// Targets of one source never cross each other.
		slices.SortFunc(edges[start:], func(a, b edge) int { return a.lower - b.lower })
	}
	if len(edges) < 2 {
		return 0
	}

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += e.weight * (total - lessOrEqual)

		total += e.weight
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx] += e.weight
		}
	}
	return crossings
}

// CountPairCrossings returns the weighted crossings between the edges of left
// and right, when left sits immediately before right, against an adjacent
// layer whose positions are given by adjPos. With up set, the in-edges of the
// pair are considered; otherwise their out-edges.
//
// Comparing CountPairCrossings(l, r) with CountPairCrossings(r, l) tells a
// transposition heuristic whether swapping the two nodes pays off.
func CountPairCrossings(g *Graph, left, right string, adjPos map[string]int, up bool) int {
	type end struct{ pos, weight int }
	collect := func(v string) []end {
		var ends []end
		edges, other := g.out[v], func(e *Edge) string { return e.W }
		if up {
			edges, other = g.in[v], func(e *Edge) string { return e.V }
		}
		for _, e := range edges {
			if p, ok := adjPos[other(e)]; ok {
				ends = append(ends, end{p, e.Label.Weight})
			}
		}
		return ends
	}

	crossings := 0
	rightEnds := collect(right)
	for _, l := range collect(left) {
		for _, r := range rightEnds {
			if l.pos > r.pos {
				crossings += l.weight * r.weight
			}
		}
	}
	return crossings
}
