package position

import (
	"math"

	"github.com/matzehuels/layered/pkg/dag"
)

// Position assigns X and Y to every ranked leaf node of an ordered graph,
// in the top-to-bottom coordinate system. Clusters are left alone; their
// boxes follow from their border nodes later.
func Position(g *dag.Graph) {
	layering := g.LayerMatrix()
	positionY(g, layering)
	for v, x := range positionX(g, layering) {
		g.Node(v).X = x
	}
}

// positionY stacks the ranks: each rank is as tall as its tallest node,
// nodes are centred vertically within it, and consecutive ranks are RankSep
// apart.
func positionY(g *dag.Graph, layering [][]string) {
	prevY := 0.0
	for _, layer := range layering {
		maxHeight := 0.0
		for _, v := range layer {
			maxHeight = math.Max(maxHeight, g.Node(v).Height)
		}
		for _, v := range layer {
			g.Node(v).Y = prevY + maxHeight/2
		}
		prevY += maxHeight + g.RankSep
	}
}
