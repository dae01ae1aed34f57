package rank

import (
	"errors"
	"testing"

	"github.com/matzehuels/layered/pkg/dag"
)

type edgeDef struct {
	v, w           string
	weight, minlen int
}

func buildGraph(t *testing.T, ranker string, ids []string, edges []edgeDef) *dag.Graph {
	t.Helper()
	g := dag.New(dag.Settings{Ranker: ranker})
	for _, id := range ids {
		if err := g.AddNode(&dag.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%q): %v", id, err)
		}
	}
	for i, e := range edges {
		weight, minlen := e.weight, e.minlen
		if weight == 0 {
			weight = 1
		}
		if minlen == 0 {
			minlen = 1
		}
		g.SetEdge(e.v, e.w, string(rune('a'+i)), &dag.EdgeLabel{Weight: weight, Minlen: minlen})
	}
	return g
}

func ranks(g *dag.Graph, ids ...string) map[string]int {
	out := make(map[string]int, len(ids))
	for _, id := range ids {
		out[id] = g.Node(id).Rank
	}
	return out
}

func checkFeasible(t *testing.T, g *dag.Graph) {
	t.Helper()
	for _, e := range g.Edges() {
		if d := g.Node(e.W).Rank - g.Node(e.V).Rank; d < e.Label.Minlen {
			t.Errorf("edge %s->%s spans %d ranks, minlen %d", e.V, e.W, d, e.Label.Minlen)
		}
	}
}

func TestRun_Strategies(t *testing.T) {
	// Longest path pushes b down to the sinks; the optimal ranking keeps
	// every edge at length 1.
	ids := []string{"a", "b", "c", "d", "e", "x"}
	edges := []edgeDef{{v: "a", w: "b"}, {v: "a", w: "c"}, {v: "c", w: "d"}, {v: "d", w: "e"}, {v: "x", w: "e"}}
	tests := []struct {
		ranker string
		want   map[string]int
	}{
		{NetworkSimplex, map[string]int{"a": 0, "b": 1, "c": 1, "d": 2, "e": 3, "x": 2}},
		{"", map[string]int{"a": 0, "b": 1, "c": 1, "d": 2, "e": 3, "x": 2}},
		{TightTree, map[string]int{"a": 0, "b": 1, "c": 1, "d": 2, "e": 3, "x": 2}},
		{LongestPath, map[string]int{"a": 0, "b": 3, "c": 1, "d": 2, "e": 3, "x": 2}},
	}
	for _, tt := range tests {
		t.Run(tt.ranker, func(t *testing.T) {
			g := buildGraph(t, tt.ranker, ids, edges)
			if err := Run(g); err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			checkFeasible(t, g)
			got := ranks(g, ids...)
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("rank(%s) = %d, want %d (all: %v)", id, got[id], want, got)
				}
			}
		})
	}
}

func totalLength(g *dag.Graph) int {
	sum := 0
	for _, e := range g.Edges() {
		sum += e.Label.Weight * (g.Node(e.W).Rank - g.Node(e.V).Rank)
	}
	return sum
}

func TestNetworkSimplex_Optimal(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		edges []edgeDef
		want  int
	}{
		{
			name: "diamond with shortcut",
			ids:  []string{"a", "b", "c", "d"},
			edges: []edgeDef{
				{v: "a", w: "b"}, {v: "b", w: "c"}, {v: "c", w: "d"}, {v: "a", w: "d"},
			},
			want: 6,
		},
		{
			name: "heavy edge stays short",
			ids:  []string{"a", "b", "c", "d"},
			edges: []edgeDef{
				{v: "a", w: "b"}, {v: "b", w: "c"}, {v: "d", w: "c", weight: 10},
			},
			want: 12,
		},
		{
			name: "minlen",
			ids:  []string{"a", "b", "c"},
			edges: []edgeDef{
				{v: "a", w: "b", minlen: 3}, {v: "a", w: "c"}, {v: "c", w: "b"},
			},
			want: 6,
		},
		{
			name: "two heads pull a shared tail",
			ids:  []string{"s", "t", "u", "v", "w"},
			edges: []edgeDef{
				{v: "s", w: "t"}, {v: "t", w: "u"}, {v: "u", w: "v"},
				{v: "w", w: "v", weight: 2}, {v: "s", w: "w", weight: 2},
			},
			want: 9,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, NetworkSimplex, tt.ids, tt.edges)
			if err := Run(g); err != nil {
				t.Fatal(err)
			}
			checkFeasible(t, g)
			if got := totalLength(g); got != tt.want {
				t.Errorf("weighted length = %d, want %d (ranks %v)", got, tt.want, ranks(g, tt.ids...))
			}
		})
	}
}

func TestRun_ParallelEdges(t *testing.T) {
	g := buildGraph(t, NetworkSimplex, []string{"a", "b"}, []edgeDef{
		{v: "a", w: "b", minlen: 1},
		{v: "a", w: "b", minlen: 3},
	})
	if err := Run(g); err != nil {
		t.Fatal(err)
	}
	if got := g.Node("b").Rank - g.Node("a").Rank; got != 3 {
		t.Errorf("rank(b) - rank(a) = %d, want 3", got)
	}
}

func TestRun_ComponentsAlignToRoot(t *testing.T) {
	g := buildGraph(t, NetworkSimplex, []string{"a", "b", "c"}, []edgeDef{{v: "a", w: "c"}})
	root := g.AddDummy(dag.DummyRoot, "_root", &dag.Node{})
	g.NestingRoot = root
	for _, v := range []string{"a", "b", "c"} {
		g.SetEdge(root, v, "", &dag.EdgeLabel{Weight: 0, Minlen: 1})
	}

	if err := Run(g); err != nil {
		t.Fatal(err)
	}
	want := map[string]int{root: 0, "a": 1, "b": 1, "c": 2}
	for id, r := range want {
		if got := g.Node(id).Rank; got != r {
			t.Errorf("rank(%s) = %d, want %d", id, got, r)
		}
	}
}

func TestRun_SkipsClusters(t *testing.T) {
	g := buildGraph(t, NetworkSimplex, []string{"sg", "a", "b"}, []edgeDef{{v: "a", w: "b"}})
	g.SetParent("a", "sg")
	if err := Run(g); err != nil {
		t.Fatal(err)
	}
	if g.Node("sg").Ranked {
		t.Error("cluster was ranked")
	}
	if g.Node("b").Rank != 1 {
		t.Errorf("rank(b) = %d, want 1", g.Node("b").Rank)
	}
}

func TestRun_UnknownRanker(t *testing.T) {
	g := buildGraph(t, "magic", []string{"a"}, nil)
	if err := Run(g); !errors.Is(err, ErrUnknownRanker) {
		t.Errorf("Run() error = %v, want %v", err, ErrUnknownRanker)
	}
}

func layer(i int) *int { return &i }

func TestApplyLayers(t *testing.T) {
	t.Run("independent pins", func(t *testing.T) {
		g := buildGraph(t, NetworkSimplex, []string{"a", "b", "c"}, nil)
		g.Node("a").Layer = layer(0)
		g.Node("b").Layer = layer(2)
		if err := Run(g); err != nil {
			t.Fatal(err)
		}
		if err := ApplyLayers(g, 1); err != nil {
			t.Fatal(err)
		}
		want := map[string]int{"a": 1, "b": 3, "c": 0}
		for id, r := range want {
			if got := g.Node(id).Rank; got != r {
				t.Errorf("rank(%s) = %d, want %d", id, got, r)
			}
		}
	})

	t.Run("unpinned nodes follow a pinned sink", func(t *testing.T) {
		g := buildGraph(t, NetworkSimplex, []string{"u", "v", "w"}, []edgeDef{{v: "u", w: "v"}, {v: "v", w: "w"}})
		g.Node("w").Layer = layer(3)
		if err := Run(g); err != nil {
			t.Fatal(err)
		}
		if err := ApplyLayers(g, 1); err != nil {
			t.Fatal(err)
		}
		want := map[string]int{"u": 2, "v": 3, "w": 4}
		for id, r := range want {
			if got := g.Node(id).Rank; got != r {
				t.Errorf("rank(%s) = %d, want %d", id, got, r)
			}
		}
		checkFeasible(t, g)
	})

	t.Run("label factor", func(t *testing.T) {
		g := buildGraph(t, NetworkSimplex, []string{"a"}, nil)
		g.Node("a").Layer = layer(1)
		if err := Run(g); err != nil {
			t.Fatal(err)
		}
		if err := ApplyLayers(g, 2); err != nil {
			t.Fatal(err)
		}
		if got := g.Node("a").Rank; got != 3 {
			t.Errorf("rank(a) = %d, want 3", got)
		}
	})

	t.Run("conflict", func(t *testing.T) {
		g := buildGraph(t, NetworkSimplex, []string{"a", "b"}, []edgeDef{{v: "a", w: "b"}})
		g.Node("a").Layer = layer(2)
		g.Node("b").Layer = layer(1)
		if err := Run(g); err != nil {
			t.Fatal(err)
		}
		if err := ApplyLayers(g, 1); !errors.Is(err, ErrLayerConflict) {
			t.Errorf("ApplyLayers() error = %v, want %v", err, ErrLayerConflict)
		}
	})
}
