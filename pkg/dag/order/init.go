package order

import (
	"slices"

	"github.com/matzehuels/layered/pkg/dag"
)

// initOrder builds a starting layering by a depth-first walk along out-edges,
// starting from the leaf nodes in rank order. Nodes joined by edges end up
// near each other, which gives the sweeps a good start.
func initOrder(g *dag.Graph) [][]string {
	var leaves []*dag.Node
	for _, n := range g.Nodes() {
		if n.Ranked && !g.IsCompound(n.ID) {
			leaves = append(leaves, n)
		}
	}
	slices.SortStableFunc(leaves, func(a, b *dag.Node) int { return a.Rank - b.Rank })

	layers := make([][]string, g.MaxRankValue()+1)
	visited := make(map[string]bool, len(leaves))
	var dfs func(v string)
	dfs = func(v string) {
		if visited[v] {
			return
		}
		visited[v] = true
		n := g.Node(v)
		layers[n.Rank] = append(layers[n.Rank], v)
		for _, w := range g.Successors(v) {
			dfs(w)
		}
	}
	for _, n := range leaves {
		dfs(n.ID)
	}
	return layers
}

func assignOrder(g *dag.Graph, layers [][]string) {
	for _, layer := range layers {
		for i, v := range layer {
			g.Node(v).Order = i
		}
	}
}

func cloneLayers(layers [][]string) [][]string {
	out := make([][]string, len(layers))
	for i, layer := range layers {
		out[i] = slices.Clone(layer)
	}
	return out
}
