package position

import (
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/layered/pkg/dag"
)

// Alignment names one of the four Brandes-Köpf passes: vertical direction
// (u: blocks hang from their upper neighbours, d: from their lower ones)
// followed by horizontal direction (l: compacted leftwards, r: rightwards).
type Alignment string

const (
	AlignUL Alignment = "ul"
	AlignUR Alignment = "ur"
	AlignDL Alignment = "dl"
	AlignDR Alignment = "dr"
)

var alignments = [...]Alignment{AlignUL, AlignUR, AlignDL, AlignDR}

// ParseAlignment accepts an alignment in any case. The empty string is valid
// and selects balancing.
func ParseAlignment(s string) (Alignment, bool) {
	if s == "" {
		return "", true
	}
	a := Alignment(strings.ToLower(s))
	return a, slices.Contains(alignments[:], a)
}

type coords map[string]float64

// conflicts holds unordered node pairs whose segments must not be aligned.
type conflicts map[[2]string]bool

func (c conflicts) add(v, w string) {
	if v > w {
		v, w = w, v
	}
	c[[2]string{v, w}] = true
}

func (c conflicts) has(v, w string) bool {
	if v > w {
		v, w = w, v
	}
	return c[[2]string{v, w}]
}

// positionX computes x coordinates for every node of the layering with the
// method of Brandes and Köpf, "Fast and Simple Horizontal Coordinate
// Assignment". Each of the four alignments packs the nodes into vertical
// blocks and compacts them; the narrowest one anchors the others, and the
// result is either the requested alignment or the mean of the two middle
// candidates per node.
func positionX(g *dag.Graph, layering [][]string) coords {
	c := make(conflicts)
	findType1Conflicts(g, layering, c)
	findType2Conflicts(g, layering, c)

	xss := make(map[Alignment]coords, len(alignments))
	for _, a := range alignments {
		up, right := a[0] == 'u', a[1] == 'r'

		adjusted := layering
		if !up {
			adjusted = slices.Clone(layering)
			slices.Reverse(adjusted)
		}
		if right {
			flipped := make([][]string, len(adjusted))
			for i, layer := range adjusted {
				flipped[i] = slices.Clone(layer)
				slices.Reverse(flipped[i])
			}
			adjusted = flipped
		}

		neighbors := g.Predecessors
		if !up {
			neighbors = g.Successors
		}
		root, align := verticalAlignment(adjusted, c, neighbors)
		xs := horizontalCompaction(g, adjusted, root, align, right)
		if right {
			for v, x := range xs {
				xs[v] = -x
			}
		}
		xss[a] = xs
	}

	smallest := findSmallestWidthAlignment(g, xss)
	alignCoordinates(xss, smallest)
	return balance(xss, Alignment(strings.ToLower(g.Align)))
}

// innerSegmentSource returns the dummy predecessor of dummy v, if any: the
// two form an inner segment of a long edge.
func innerSegmentSource(g *dag.Graph, v string) (string, bool) {
	if !g.Node(v).Dummy.IsDummy() {
		return "", false
	}
	for _, u := range g.Predecessors(v) {
		if g.Node(u).Dummy.IsDummy() {
			return u, true
		}
	}
	return "", false
}

// findType1Conflicts marks non-inner segments that cross an inner segment.
// Inner segments win so long edges stay straight.
func findType1Conflicts(g *dag.Graph, layering [][]string, c conflicts) {
	for r := 1; r < len(layering); r++ {
		prev, layer := layering[r-1], layering[r]
		k0, scanPos := 0, 0
		for i, v := range layer {
			w, inner := innerSegmentSource(g, v)
			k1 := len(prev)
			if inner {
				k1 = g.Node(w).Order
			}
			if !inner && i != len(layer)-1 {
				continue
			}
			for _, scan := range layer[scanPos : i+1] {
				for _, u := range g.Predecessors(scan) {
					uPos := g.Node(u).Order
					bothDummies := g.Node(u).Dummy.IsDummy() && g.Node(scan).Dummy.IsDummy()
					if (uPos < k0 || k1 < uPos) && !bothDummies {
						c.add(u, scan)
					}
				}
			}
			scanPos, k0 = i+1, k1
		}
	}
}

// findType2Conflicts marks inner segments that cross the border chain of a
// cluster, between consecutive border nodes of the lower rank.
func findType2Conflicts(g *dag.Graph, layering [][]string, c conflicts) {
	scan := func(south []string, from, to, prevBorder, nextBorder int) {
		for _, v := range south[from:to] {
			if !g.Node(v).Dummy.IsDummy() {
				continue
			}
			for _, u := range g.Predecessors(v) {
				un := g.Node(u)
				if un.Dummy.IsDummy() && (un.Order < prevBorder || un.Order > nextBorder) {
					c.add(u, v)
				}
			}
		}
	}

	for r := 1; r < len(layering); r++ {
		north, south := layering[r-1], layering[r]
		prevNorth, nextNorth, southPos := -1, -1, 0
		for lookahead, v := range south {
			if !g.Node(v).Dummy.IsBorder() {
				continue
			}
			preds := g.Predecessors(v)
			if len(preds) == 0 {
				continue
			}
			nextNorth = g.Node(preds[0]).Order
			scan(south, southPos, lookahead, prevNorth, nextNorth)
			southPos, prevNorth = lookahead, nextNorth
		}
		scan(south, southPos, len(south), nextNorth, len(north))
	}
}

// verticalAlignment joins every node to the median neighbour in the rank
// before it, unless that would cross an earlier alignment or a marked
// conflict. It returns each node's block root and the cyclic link from each
// node to the next one of its block.
func verticalAlignment(layering [][]string, c conflicts, neighbors func(string) []string) (root, align map[string]string) {
	root = make(map[string]string)
	align = make(map[string]string)
	pos := make(map[string]int)
	for _, layer := range layering {
		for i, v := range layer {
			root[v], align[v], pos[v] = v, v, i
		}
	}

	for _, layer := range layering {
		prevIdx := -1
		for _, v := range layer {
			ws := neighbors(v)
			if len(ws) == 0 {
				continue
			}
			slices.SortStableFunc(ws, func(a, b string) int { return pos[a] - pos[b] })
			mp := float64(len(ws)-1) / 2
			for i := int(math.Floor(mp)); i <= int(math.Ceil(mp)); i++ {
				w := ws[i]
				if align[v] == v && prevIdx < pos[w] && !c.has(v, w) {
					align[w] = v
					root[v] = root[w]
					align[v] = root[v]
					prevIdx = pos[w]
				}
			}
		}
	}
	return root, align
}

// blockGraph has one node per block and an edge from each block to the block
// right of it on some rank, weighted with the separation they need.
type blockGraph struct {
	nodes []string
	seen  map[string]bool
	sep   map[[2]string]float64
	in    map[string][]string
	out   map[string][]string
}

func (b *blockGraph) addNode(v string) {
	if !b.seen[v] {
		b.seen[v] = true
		b.nodes = append(b.nodes, v)
	}
}

func (b *blockGraph) setEdge(u, v string, sep float64) {
	key := [2]string{u, v}
	prev, ok := b.sep[key]
	if !ok {
		b.out[u] = append(b.out[u], v)
		b.in[v] = append(b.in[v], u)
	}
	b.sep[key] = math.Max(sep, prev)
}

func buildBlockGraph(g *dag.Graph, layering [][]string, root map[string]string, reverseSep bool) *blockGraph {
	b := &blockGraph{
		seen: make(map[string]bool),
		sep:  make(map[[2]string]float64),
		in:   make(map[string][]string),
		out:  make(map[string][]string),
	}
	for _, layer := range layering {
		for i, v := range layer {
			b.addNode(root[v])
			if i > 0 {
				u := layer[i-1]
				b.setEdge(root[u], root[v], separation(g, v, u, reverseSep))
			}
		}
	}
	return b
}

// separation is the minimum distance between the centres of neighbours v and
// w, leaving room for their half-widths and for off-centre edge labels.
func separation(g *dag.Graph, v, w string, reverseSep bool) float64 {
	vn, wn := g.Node(v), g.Node(w)
	shift := func(delta float64) float64 {
		if reverseSep {
			return delta
		}
		return -delta
	}

	sum := vn.Width / 2
	switch vn.LabelPos {
	case dag.LabelLeft:
		sum += shift(-vn.Width / 2)
	case dag.LabelRight:
		sum += shift(vn.Width / 2)
	}

	sum += gap(g, vn) / 2
	sum += gap(g, wn) / 2

	sum += wn.Width / 2
	switch wn.LabelPos {
	case dag.LabelLeft:
		sum += shift(wn.Width / 2)
	case dag.LabelRight:
		sum += shift(-wn.Width / 2)
	}
	return sum
}

func gap(g *dag.Graph, n *dag.Node) float64 {
	if n.Dummy.IsDummy() {
		return g.EdgeSep
	}
	return g.NodeSep
}

// horizontalCompaction places each block as far left as its separations
// allow, then pulls blocks right towards their successors where slack
// remains. A cluster's far border is never pulled, so clusters do not widen.
func horizontalCompaction(g *dag.Graph, layering [][]string, root, align map[string]string, reverseSep bool) coords {
	xs := make(coords)
	b := buildBlockGraph(g, layering, root, reverseSep)
	farBorder := dag.DummyBorderRight
	if reverseSep {
		farBorder = dag.DummyBorderLeft
	}

	// iterate visits every block after all blocks reachable through next.
	iterate := func(set func(string), next func(string) []string) {
		stack := slices.Clone(b.nodes)
		visited := make(map[string]bool, len(stack))
		for len(stack) > 0 {
			elem := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[elem] {
				set(elem)
				continue
			}
			visited[elem] = true
			stack = append(stack, elem)
			stack = append(stack, next(elem)...)
		}
	}

	iterate(func(v string) {
		x := 0.0
		for _, u := range b.in[v] {
			x = math.Max(x, xs[u]+b.sep[[2]string{u, v}])
		}
		xs[v] = x
	}, func(v string) []string { return b.in[v] })

	iterate(func(v string) {
		bound := math.Inf(1)
		for _, w := range b.out[v] {
			bound = math.Min(bound, xs[w]-b.sep[[2]string{v, w}])
		}
		if !math.IsInf(bound, 1) && g.Node(v).Dummy != farBorder {
			xs[v] = math.Max(xs[v], bound)
		}
	}, func(v string) []string { return b.out[v] })

	for v := range align {
		xs[v] = xs[root[v]]
	}
	return xs
}

// findSmallestWidthAlignment returns the candidate with the narrowest
// drawing, preferring earlier alignments on ties.
func findSmallestWidthAlignment(g *dag.Graph, xss map[Alignment]coords) Alignment {
	best, bestWidth := alignments[0], math.Inf(1)
	for _, a := range alignments {
		lo, hi := math.Inf(1), math.Inf(-1)
		for v, x := range xss[a] {
			half := g.Node(v).Width / 2
			lo = math.Min(lo, x-half)
			hi = math.Max(hi, x+half)
		}
		if hi-lo < bestWidth {
			best, bestWidth = a, hi-lo
		}
	}
	return best
}

func bounds(xs coords) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}
	return lo, hi
}

// alignCoordinates shifts every left alignment so its minimum matches the
// reference's minimum and every right alignment so its maximum matches the
// reference's maximum.
func alignCoordinates(xss map[Alignment]coords, ref Alignment) {
	refLo, refHi := bounds(xss[ref])
	for _, a := range alignments {
		if a == ref {
			continue
		}
		xs := xss[a]
		lo, hi := bounds(xs)
		delta := refLo - lo
		if a[1] == 'r' {
			delta = refHi - hi
		}
		if delta == 0 {
			continue
		}
		for v := range xs {
			xs[v] += delta
		}
	}
}

// balance picks the requested alignment, or otherwise the mean of the two
// median candidates for each node.
func balance(xss map[Alignment]coords, align Alignment) coords {
	out := make(coords, len(xss[AlignUL]))
	for v := range xss[AlignUL] {
		if align != "" {
			out[v] = xss[align][v]
			continue
		}
		xs := []float64{xss[AlignUL][v], xss[AlignUR][v], xss[AlignDL][v], xss[AlignDR][v]}
		slices.Sort(xs)
		out[v] = (xs[1] + xs[2]) / 2
	}
	return out
}
