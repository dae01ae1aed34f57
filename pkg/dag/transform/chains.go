package transform

import "github.com/matzehuels/layered/pkg/dag"

type lowLim struct{ low, lim int }

// ParentDummyChains moves every dummy of a subdivided edge into the cluster
// it passes through. The chain climbs from the source towards the lowest
// common ancestor of both endpoints while the cluster on the way ends above
// the dummy's rank, then descends towards the target once the dummy reaches
// a rank inside the next cluster down.
func ParentDummyChains(g *dag.Graph) {
	nums := clusterPostorder(g)

	for _, v := range g.DummyChains {
		node := g.Node(v)
		ref := node.Edge
		path, lca := findClusterPath(g, nums, ref.V, ref.W)

		idx := 0
		pathV := path[idx]
		ascending := true
		for v != ref.W {
			node = g.Node(v)
			if ascending {
				for pathV = path[idx]; pathV != lca && g.Node(pathV).MaxRank < node.Rank; pathV = path[idx] {
					idx++
				}
				if pathV == lca {
					ascending = false
				}
			}
			if !ascending {
				for idx < len(path)-1 && g.Node(path[idx+1]).MinRank <= node.Rank {
					idx++
				}
				pathV = path[idx]
			}
			g.SetParent(v, pathV)
			v = g.Successors(v)[0]
		}
	}
}

// findClusterPath returns the clusters from v up to the lowest common
// ancestor of v and w and back down to w, and that ancestor. The root of the
// compound tree is "".
func findClusterPath(g *dag.Graph, nums map[string]lowLim, v, w string) ([]string, string) {
	low := min(nums[v].low, nums[w].low)
	lim := max(nums[v].lim, nums[w].lim)

	var vPath []string
	parent := v
	for {
		parent = g.Parent(parent)
		vPath = append(vPath, parent)
		if parent == "" || (nums[parent].low <= low && lim <= nums[parent].lim) {
			break
		}
	}
	lca := parent

	var wPath []string
	for parent = g.Parent(w); parent != lca; parent = g.Parent(parent) {
		wPath = append(wPath, parent)
	}
	for i := len(wPath) - 1; i >= 0; i-- {
		vPath = append(vPath, wPath[i])
	}
	return vPath, lca
}

func clusterPostorder(g *dag.Graph) map[string]lowLim {
	result := make(map[string]lowLim)
	lim := 0
	var dfs func(v string)
	dfs = func(v string) {
		low := lim
		for _, c := range g.Children(v) {
			dfs(c)
		}
		result[v] = lowLim{low: low, lim: lim}
		lim++
	}
	for _, v := range g.Children("") {
		dfs(v)
	}
	return result
}
