package transform

import (
	"math"

	"github.com/matzehuels/layered/pkg/dag"
)

// NormalizeRanks shifts all ranks so the smallest is 0.
func NormalizeRanks(g *dag.Graph) {
	minRank := math.MaxInt
	for _, n := range g.Nodes() {
		if n.Ranked {
			minRank = min(minRank, n.Rank)
		}
	}
	if minRank == math.MaxInt || minRank == 0 {
		return
	}
	for _, n := range g.Nodes() {
		if n.Ranked {
			n.Rank -= minRank
		}
	}
}

// RemoveEmptyRanks closes the gaps left by rank padding. A rank that holds no
// node is dropped unless it is a multiple of NodeRankFactor, since those
// ranks are the ones border nodes of nested clusters may still need.
func RemoveEmptyRanks(g *dag.Graph) {
	offset := math.MaxInt
	maxRank := math.MinInt
	for _, n := range g.Nodes() {
		if n.Ranked {
			offset = min(offset, n.Rank)
			maxRank = max(maxRank, n.Rank)
		}
	}
	if offset == math.MaxInt {
		return
	}

	layers := make([][]*dag.Node, maxRank-offset+1)
	for _, n := range g.Nodes() {
		if n.Ranked {
			layers[n.Rank-offset] = append(layers[n.Rank-offset], n)
		}
	}

	factor := max(g.NodeRankFactor, 1)
	delta := 0
	for i, layer := range layers {
		if len(layer) == 0 && i%factor != 0 {
			delta--
			continue
		}
		if delta != 0 {
			for _, n := range layer {
				n.Rank += delta
			}
		}
	}
}
