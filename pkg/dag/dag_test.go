package dag

import (
	"errors"
	"slices"
	"testing"
)

func unit() *EdgeLabel { return &EdgeLabel{Weight: 1, Minlen: 1} }

func newTestGraph(t *testing.T, ids ...string) *Graph {
	t.Helper()
	g := New(Settings{})
	for _, id := range ids {
		if err := g.AddNode(&Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%q) error: %v", id, err)
		}
	}
	return g
}

func TestAddNode_Errors(t *testing.T) {
	g := newTestGraph(t, "a")
	if err := g.AddNode(&Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want %v", err, ErrInvalidNodeID)
	}
	if err := g.AddNode(&Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(dup) = %v, want %v", err, ErrDuplicateNodeID)
	}
}

func TestRemoveNode(t *testing.T) {
	g := newTestGraph(t, "a", "b", "c")
	g.SetEdge("a", "b", "", unit())
	g.SetEdge("b", "c", "", unit())
	g.RemoveNode("b")

	if g.HasNode("b") {
		t.Fatal("node b still present")
	}
	if got := g.EdgeCount(); got != 0 {
		t.Errorf("EdgeCount() = %d, want 0", got)
	}
	if got := g.NodeIDs(); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("NodeIDs() = %v, want [a c]", got)
	}
	if got := g.Successors("a"); len(got) != 0 {
		t.Errorf("Successors(a) = %v, want none", got)
	}
}

func TestRemoveNode_ReparentsChildren(t *testing.T) {
	g := newTestGraph(t, "sg", "a")
	g.SetParent("a", "sg")
	g.RemoveNode("sg")

	if got := g.Parent("a"); got != "" {
		t.Errorf("Parent(a) = %q, want top level", got)
	}
	if got := g.Children(""); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Children(root) = %v, want [a]", got)
	}
}

func TestEdges_InsertionOrderAfterRemoval(t *testing.T) {
	g := newTestGraph(t, "a", "b", "c")
	ab := g.SetEdge("a", "b", "", unit())
	g.SetEdge("b", "c", "", unit())
	g.SetEdge("a", "c", "", unit())
	g.RemoveEdge(ab)
	g.SetEdge("a", "b", "again", unit())

	var got []string
	for _, e := range g.Edges() {
		got = append(got, e.V+e.W+e.Name)
	}
	want := []string{"bc", "ac", "abagain"}
	if !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestSetEdge_ReplacesLabel(t *testing.T) {
	g := newTestGraph(t, "a", "b")
	g.SetEdge("a", "b", "", unit())
	g.SetEdge("a", "b", "", &EdgeLabel{Weight: 7, Minlen: 1})

	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if w := g.Edge("a", "b", "").Label.Weight; w != 7 {
		t.Errorf("weight = %d, want 7", w)
	}
}

func TestPredecessorsDistinct(t *testing.T) {
	g := newTestGraph(t, "a", "b")
	g.SetEdge("a", "b", "1", unit())
	g.SetEdge("a", "b", "2", unit())

	if got := g.Predecessors("b"); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Predecessors(b) = %v, want [a]", got)
	}
	if got := len(g.InEdges("b")); got != 2 {
		t.Errorf("len(InEdges(b)) = %d, want 2", got)
	}
}

func TestUniqueID(t *testing.T) {
	g := newTestGraph(t, "_d1")
	id := g.AddDummy(DummyEdge, "_d", &Node{})
	if id == "_d1" {
		t.Fatalf("AddDummy reused existing id %q", id)
	}
	if n := g.Node(id); n == nil || n.Dummy != DummyEdge {
		t.Errorf("dummy %q not stored with kind edge", id)
	}
}

func TestLayerMatrix(t *testing.T) {
	g := newTestGraph(t, "a", "b", "c", "sg")
	g.SetParent("c", "sg")
	for id, ro := range map[string][2]int{"a": {0, 1}, "b": {0, 0}, "c": {1, 0}} {
		n := g.Node(id)
		n.SetRank(ro[0])
		n.Order = ro[1]
	}

	layers := g.LayerMatrix()
	if len(layers) != 2 {
		t.Fatalf("len(LayerMatrix()) = %d, want 2", len(layers))
	}
	if !slices.Equal(layers[0], []string{"b", "a"}) {
		t.Errorf("layer 0 = %v, want [b a]", layers[0])
	}
	if !slices.Equal(layers[1], []string{"c"}) {
		t.Errorf("layer 1 = %v, want [c]", layers[1])
	}
}

func TestDummyKind(t *testing.T) {
	tests := []struct {
		kind   DummyKind
		dummy  bool
		border bool
	}{
		{DummyNone, false, false},
		{DummyEdge, true, false},
		{DummyBorderLeft, true, true},
		{DummyBorderBottom, true, true},
		{DummyEdgeProxy, true, false},
	}
	for _, tt := range tests {
		if got := tt.kind.IsDummy(); got != tt.dummy {
			t.Errorf("%v.IsDummy() = %v, want %v", tt.kind, got, tt.dummy)
		}
		if got := tt.kind.IsBorder(); got != tt.border {
			t.Errorf("%v.IsBorder() = %v, want %v", tt.kind, got, tt.border)
		}
	}
}
