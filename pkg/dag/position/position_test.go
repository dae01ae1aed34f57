package position

import (
	"testing"

	"github.com/matzehuels/layered/pkg/dag"
)

type nodeDef struct {
	id          string
	rank, order int
	w, h        float64
	dummy       dag.DummyKind
}

func build(t *testing.T, s dag.Settings, nodes []nodeDef, edges [][2]string) *dag.Graph {
	t.Helper()
	if s.NodeSep == 0 {
		s.NodeSep, s.EdgeSep, s.RankSep = 50, 20, 50
	}
	g := dag.New(s)
	for _, n := range nodes {
		node := &dag.Node{ID: n.id, Width: n.w, Height: n.h, Order: n.order, Dummy: n.dummy}
		node.SetRank(n.rank)
		if err := g.AddNode(node); err != nil {
			t.Fatalf("AddNode(%q): %v", n.id, err)
		}
	}
	for _, e := range edges {
		g.SetEdge(e[0], e[1], "", &dag.EdgeLabel{Weight: 1, Minlen: 1})
	}
	return g
}

func TestPositionY(t *testing.T) {
	g := build(t, dag.Settings{}, []nodeDef{
		{id: "a", rank: 0, order: 0, w: 10, h: 20},
		{id: "b", rank: 0, order: 1, w: 10, h: 40},
		{id: "c", rank: 1, order: 0, w: 10, h: 30},
	}, nil)

	Position(g)

	for v, want := range map[string]float64{"a": 20, "b": 20, "c": 105} {
		if got := g.Node(v).Y; got != want {
			t.Errorf("y(%s) = %v, want %v", v, got, want)
		}
	}
}

func TestPositionX(t *testing.T) {
	tests := []struct {
		name  string
		align string
		nodes []nodeDef
		edges [][2]string
		want  map[string]float64
	}{
		{
			name:  "single node",
			nodes: []nodeDef{{id: "a", w: 100, h: 10}},
			want:  map[string]float64{"a": 0},
		},
		{
			name: "siblings are separated by nodesep",
			nodes: []nodeDef{
				{id: "a", order: 0, w: 50, h: 10},
				{id: "b", order: 1, w: 70, h: 10},
			},
			want: map[string]float64{"a": 0, "b": 110},
		},
		{
			name: "dummies use edgesep",
			nodes: []nodeDef{
				{id: "a", order: 0, w: 50, h: 10},
				{id: "d", order: 1, w: 0, h: 0, dummy: dag.DummyEdge},
			},
			want: map[string]float64{"a": 0, "d": 60},
		},
		{
			name: "chain is straight",
			nodes: []nodeDef{
				{id: "a", rank: 0, w: 50, h: 10},
				{id: "b", rank: 1, w: 30, h: 10},
				{id: "c", rank: 2, w: 70, h: 10},
			},
			edges: [][2]string{{"a", "b"}, {"b", "c"}},
			want:  map[string]float64{"a": 0, "b": 0, "c": 0},
		},
		{
			name: "parent centred over children",
			nodes: []nodeDef{
				{id: "a", rank: 0, w: 50, h: 10},
				{id: "b", rank: 1, order: 0, w: 50, h: 10},
				{id: "c", rank: 1, order: 1, w: 50, h: 10},
			},
			edges: [][2]string{{"a", "b"}, {"a", "c"}},
			want:  map[string]float64{"a": 50, "b": 0, "c": 100},
		},
		{
			name:  "fixed alignment",
			align: "UL",
			nodes: []nodeDef{
				{id: "a", rank: 0, w: 50, h: 10},
				{id: "b", rank: 1, order: 0, w: 50, h: 10},
				{id: "c", rank: 1, order: 1, w: 50, h: 10},
			},
			edges: [][2]string{{"a", "b"}, {"a", "c"}},
			want:  map[string]float64{"a": 0, "b": 0, "c": 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, dag.Settings{Align: tt.align}, tt.nodes, tt.edges)
			Position(g)
			for v, want := range tt.want {
				if got := g.Node(v).X; got != want {
					t.Errorf("x(%s) = %v, want %v", v, got, want)
				}
			}
		})
	}
}

func TestSeparation_LabelPos(t *testing.T) {
	g := build(t, dag.Settings{}, []nodeDef{
		{id: "n", order: 0, w: 40, h: 10},
		{id: "l", order: 1, w: 20, h: 10, dummy: dag.DummyEdgeLabel},
	}, nil)
	g.Node("l").LabelPos = dag.LabelRight

	// 10 + 10 (edgesep/2) + 25 (nodesep/2) + 20; a right label shifts by
	// its half-width against the sweep direction.
	if got := separation(g, "l", "n", false); got != 55 {
		t.Errorf("separation = %v, want 55", got)
	}
	if got := separation(g, "l", "n", true); got != 75 {
		t.Errorf("reversed separation = %v, want 75", got)
	}
}

func TestFindType1Conflicts(t *testing.T) {
	t.Run("plain crossings are not conflicts", func(t *testing.T) {
		g := build(t, dag.Settings{}, []nodeDef{
			{id: "a", rank: 0, order: 0}, {id: "b", rank: 0, order: 1},
			{id: "c", rank: 1, order: 0}, {id: "d", rank: 1, order: 1},
		}, [][2]string{{"a", "d"}, {"b", "c"}})
		c := make(conflicts)
		findType1Conflicts(g, g.LayerMatrix(), c)
		if len(c) != 0 {
			t.Errorf("conflicts = %v, want none", c)
		}
	})

	t.Run("segment crossing an inner segment", func(t *testing.T) {
		g := build(t, dag.Settings{}, []nodeDef{
			{id: "a", rank: 0, order: 0, dummy: dag.DummyEdge}, {id: "b", rank: 0, order: 1},
			{id: "c", rank: 1, order: 0}, {id: "d", rank: 1, order: 1, dummy: dag.DummyEdge},
		}, [][2]string{{"a", "d"}, {"b", "c"}})
		c := make(conflicts)
		findType1Conflicts(g, g.LayerMatrix(), c)
		if !c.has("c", "b") {
			t.Errorf("conflicts = %v, want b-c", c)
		}
		if c.has("a", "d") {
			t.Error("inner segment a-d marked as conflict")
		}
	})
}

func TestParseAlignment(t *testing.T) {
	for in, want := range map[string]bool{"": true, "UL": true, "dr": true, "Ur": true, "up": false, "x": false} {
		if _, ok := ParseAlignment(in); ok != want {
			t.Errorf("ParseAlignment(%q) ok = %v, want %v", in, ok, want)
		}
	}
}
