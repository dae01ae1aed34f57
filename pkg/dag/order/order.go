package order

import (
	"math"

	"github.com/matzehuels/layered/pkg/dag"
)

const (
	// MaxSweeps caps the number of median sweeps.
	MaxSweeps = 24
	// patience is how many sweeps in a row may fail to improve on the best
	// layering before ordering stops.
	patience = 4
)

// Order assigns each ranked node an Order within its rank so that edge
// crossings between adjacent ranks are few. The graph must be layered: every
// edge joins consecutive ranks.
//
// Ordering starts from a depth-first layering and then sweeps the ranks,
// alternately downwards and upwards. Each sweep sorts a rank by the weighted
// median position of every node's neighbours in the rank it comes from,
// keeping cluster members together, and a transposition pass then swaps
// neighbouring nodes where that removes crossings. The layering with the
// fewest weighted crossings wins. At least one sweep always runs; sweeping
// stops once it is crossing-free, after four sweeps without improvement, or after [MaxSweeps] sweeps.
//
// Nodes with a FixOrder keep their relative order among pinned siblings in
// every layering considered.
func Order(g *dag.Graph) {
	maxRank := g.MaxRankValue()
	if maxRank < 0 {
		return
	}
	downRanks := make([]int, 0, maxRank)
	for r := 1; r <= maxRank; r++ {
		downRanks = append(downRanks, r)
	}
	upRanks := make([]int, 0, maxRank)
	for r := maxRank - 1; r >= 0; r-- {
		upRanks = append(upRanks, r)
	}
	down := buildLayerGraphs(g, downRanks, true)
	up := buildLayerGraphs(g, upRanks, false)

	pins := newPinner(g)
	layering := initOrder(g)
	pins.apply(layering)
	assignOrder(g, layering)

	// The initial layering ignores cluster borders, so it never competes:
	// only swept layerings keep cluster members between their borders.
	var best [][]string
	bestCC := math.MaxInt
	for i, lastBest := 0, 0; lastBest < patience && i < MaxSweeps && bestCC > 0; i, lastBest = i+1, lastBest+1 {
		lgs := up
		if i%2 == 1 {
			lgs = down
		}
		sweep(g, lgs, i%4 >= 2)

		layering = g.LayerMatrix()
		transpose(g, layering, pins)
		pins.apply(layering)
		assignOrder(g, layering)

		if cc := dag.CountCrossings(g, layering); cc < bestCC {
			lastBest = 0
			best = cloneLayers(layering)
			bestCC = cc
		}
	}
	assignOrder(g, best)
}

// sweep sorts each layer graph in turn, writing the new orders to g before
// moving on so that the next rank sees them.
func sweep(g *dag.Graph, lgs []*layerGraph, biasRight bool) {
	cg := newConstraintGraph()
	for _, lg := range lgs {
		sorted := sortSubgraph(g, lg, "", cg, biasRight)
		for i, v := range sorted.vs {
			g.Node(v).Order = i
		}
		addSubgraphConstraints(lg, cg, sorted.vs)
	}
}
