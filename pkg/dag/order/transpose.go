package order

import "github.com/matzehuels/layered/pkg/dag"

// transpose swaps neighbouring nodes of a rank while that strictly lowers
// the weighted crossings with the ranks above and below. Only siblings of
// the same cluster are swapped, never border nodes, and never two pinned
// nodes. It repeats until a full pass changes nothing; since every swap
// removes crossings this always ends.
func transpose(g *dag.Graph, layers [][]string, pins *pinner) {
	for improved := true; improved; {
		improved = false
		for r, layer := range layers {
			var above, below map[string]int
			if r > 0 {
				above = dag.PosMap(layers[r-1])
			}
			if r+1 < len(layers) {
				below = dag.PosMap(layers[r+1])
			}
			for i := 0; i+1 < len(layer); i++ {
				u, w := layer[i], layer[i+1]
				if !swappable(g, pins, u, w) {
					continue
				}
				if pairCost(g, w, u, above, below) < pairCost(g, u, w, above, below) {
					layer[i], layer[i+1] = w, u
					improved = true
				}
			}
		}
	}
}

func swappable(g *dag.Graph, pins *pinner, u, w string) bool {
	if g.Parent(u) != g.Parent(w) {
		return false
	}
	if g.Node(u).Dummy.IsBorder() || g.Node(w).Dummy.IsBorder() {
		return false
	}
	return !(pins.pinned(u) && pins.pinned(w))
}

func pairCost(g *dag.Graph, left, right string, above, below map[string]int) int {
	return dag.CountPairCrossings(g, left, right, above, true) +
		dag.CountPairCrossings(g, left, right, below, false)
}
