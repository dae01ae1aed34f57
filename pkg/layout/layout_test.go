package layout

import (
	"context"
	stderrors "errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/layered/pkg/dag"
	"github.com/matzehuels/layered/pkg/dag/rank"
	"github.com/matzehuels/layered/pkg/dag/transform"
	"github.com/matzehuels/layered/pkg/errors"
	"github.com/matzehuels/layered/pkg/graph"
	"github.com/matzehuels/layered/pkg/observability"
)

const eps = 1e-6

func noLabelSpace() *bool {
	v := false
	return &v
}

// build creates a graph of 50x30 nodes connected by default edges.
func build(t *testing.T, nodes []string, edges [][2]string) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, id := range nodes {
		require.NoError(t, g.AddNode(graph.Node{ID: id, Width: 50, Height: 30}))
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(graph.NewEdge(e[0], e[1])))
	}
	return g
}

func node(t *testing.T, g *graph.Graph, id string) *graph.Node {
	t.Helper()
	n, ok := g.Node(id)
	require.True(t, ok, "node %s", id)
	return n
}

func edge(t *testing.T, g *graph.Graph, from, to string) *graph.Edge {
	t.Helper()
	e, ok := g.Edge(from, to, "")
	require.True(t, ok, "edge %s->%s", from, to)
	return e
}

func onBoundary(p graph.Point, n *graph.Node) bool {
	dx, dy := math.Abs(p.X-n.X), math.Abs(p.Y-n.Y)
	w, h := n.Width/2, n.Height/2
	onSide := math.Abs(dx-w) < eps && dy <= h+eps
	onCap := math.Abs(dy-h) < eps && dx <= w+eps
	return onSide || onCap
}

func overlap(a, b *graph.Node) bool {
	return math.Abs(a.X-b.X) < (a.Width+b.Width)/2-eps &&
		math.Abs(a.Y-b.Y) < (a.Height+b.Height)/2-eps
}

func TestLayout_Empty(t *testing.T) {
	g := graph.New()
	require.NoError(t, Layout(context.Background(), g, Options{}))
	assert.Zero(t, g.Width)
	assert.Zero(t, g.Height)
}

func TestLayout_SingleNodeAtMargins(t *testing.T) {
	g := build(t, []string{"a"}, nil)
	require.NoError(t, Layout(context.Background(), g, Options{MarginX: 10, MarginY: 20}))

	a := node(t, g, "a")
	assert.InDelta(t, 35, a.X, eps)
	assert.InDelta(t, 35, a.Y, eps)
	assert.Equal(t, 0, a.Order)
	assert.InDelta(t, 70, g.Width, eps)
	assert.InDelta(t, 70, g.Height, eps)
}

func TestLayout_MinlenHolds(t *testing.T) {
	g := build(t, []string{"a", "b", "c"}, [][2]string{{"a", "c"}})
	e := graph.NewEdge("a", "b")
	e.Minlen = 2
	require.NoError(t, g.AddEdge(e))

	require.NoError(t, Layout(context.Background(), g, Options{EdgeLabelSpace: noLabelSpace()}))

	a, b, c := node(t, g, "a"), node(t, g, "b"), node(t, g, "c")
	assert.GreaterOrEqual(t, b.Rank-a.Rank, 2)
	assert.GreaterOrEqual(t, c.Rank-a.Rank, 1)
	assert.GreaterOrEqual(t, b.Y-a.Y, 2*DefaultRankSep)

	ab := edge(t, g, "a", "b")
	require.Len(t, ab.Points, 3, "one bend point for the dummy")
	assert.True(t, onBoundary(ab.Points[0], a))
	assert.True(t, onBoundary(ab.Points[2], b))
}

func TestLayout_EveryEdgeGoesDown(t *testing.T) {
	g := build(t, []string{"a", "b", "c", "d", "e"},
		[][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}, {"a", "e"}, {"d", "e"}})
	require.NoError(t, Layout(context.Background(), g, Options{}))

	for _, e := range g.Edges() {
		from, to := node(t, g, e.From), node(t, g, e.To)
		assert.Greater(t, to.Rank, from.Rank, "%s->%s", e.From, e.To)
		assert.Greater(t, to.Y, from.Y, "%s->%s", e.From, e.To)
		require.GreaterOrEqual(t, len(e.Points), 2)
		assert.True(t, onBoundary(e.Points[0], from), "%s->%s start", e.From, e.To)
		assert.True(t, onBoundary(e.Points[len(e.Points)-1], to), "%s->%s end", e.From, e.To)
	}
}

func TestLayout_RankDirMirror(t *testing.T) {
	edges := [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}}
	tb := build(t, []string{"a", "b", "c", "d"}, edges)
	bt := build(t, []string{"a", "b", "c", "d"}, edges)
	require.NoError(t, Layout(context.Background(), tb, Options{RankDir: "TB"}))
	require.NoError(t, Layout(context.Background(), bt, Options{RankDir: "bt"}))

	assert.InDelta(t, tb.Width, bt.Width, eps)
	assert.InDelta(t, tb.Height, bt.Height, eps)
	for _, id := range []string{"a", "b", "c", "d"} {
		down, up := node(t, tb, id), node(t, bt, id)
		assert.InDelta(t, down.X, up.X, eps, "x(%s)", id)
		assert.InDelta(t, tb.Height-down.Y, up.Y, eps, "y(%s)", id)
	}
}

func TestLayout_LeftToRight(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	require.NoError(t, Layout(context.Background(), g, Options{RankDir: "LR"}))

	a, b := node(t, g, "a"), node(t, g, "b")
	assert.Greater(t, b.X, a.X)
	assert.InDelta(t, a.Y, b.Y, eps)
	assert.Equal(t, 50.0, a.Width, "sizes are restored after rotation")
	assert.Equal(t, 30.0, a.Height)
}

// assertInside checks that inner's box lies within outer's.
func assertInside(t *testing.T, outer, inner *graph.Node) {
	t.Helper()
	assert.GreaterOrEqual(t, inner.X-inner.Width/2, outer.X-outer.Width/2-eps, "left(%s in %s)", inner.ID, outer.ID)
	assert.LessOrEqual(t, inner.X+inner.Width/2, outer.X+outer.Width/2+eps, "right(%s in %s)", inner.ID, outer.ID)
	assert.GreaterOrEqual(t, inner.Y-inner.Height/2, outer.Y-outer.Height/2-eps, "top(%s in %s)", inner.ID, outer.ID)
	assert.LessOrEqual(t, inner.Y+inner.Height/2, outer.Y+outer.Height/2+eps, "bottom(%s in %s)", inner.ID, outer.ID)
}

func TestLayout_CompoundContainment(t *testing.T) {
	g := build(t, []string{"x", "a", "b", "grp"}, [][2]string{{"x", "a"}, {"x", "b"}})
	require.NoError(t, g.SetParent("a", "grp"))
	require.NoError(t, g.SetParent("b", "grp"))
	require.NoError(t, Layout(context.Background(), g, Options{}))

	grp := node(t, g, "grp")
	assert.Equal(t, -1, grp.Rank)
	assert.Equal(t, -1, grp.Order)
	assert.Greater(t, grp.Width, 0.0)
	assert.Greater(t, grp.Height, 0.0)

	for _, id := range []string{"a", "b"} {
		assertInside(t, grp, node(t, g, id))
	}
	assert.False(t, overlap(node(t, g, "x"), grp))
}

func TestLayout_NestedClusters(t *testing.T) {
	g := build(t, []string{"x", "a", "b", "c", "outer", "inner"},
		[][2]string{{"x", "a"}, {"x", "b"}, {"x", "c"}, {"a", "c"}})
	require.NoError(t, g.SetParent("inner", "outer"))
	require.NoError(t, g.SetParent("a", "inner"))
	require.NoError(t, g.SetParent("b", "inner"))
	require.NoError(t, g.SetParent("c", "outer"))
	require.NoError(t, Layout(context.Background(), g, Options{}))

	outer, inner := node(t, g, "outer"), node(t, g, "inner")
	assertInside(t, outer, inner)
	assertInside(t, inner, node(t, g, "a"))
	assertInside(t, inner, node(t, g, "b"))
	assertInside(t, outer, node(t, g, "c"))
	assert.False(t, overlap(node(t, g, "c"), inner), "c is outside inner")
	assert.False(t, overlap(node(t, g, "x"), outer), "x is outside outer")
}

func TestLayout_SelfEdgeInCluster(t *testing.T) {
	g := build(t, []string{"a", "b", "grp"}, [][2]string{{"a", "a"}, {"a", "b"}})
	require.NoError(t, g.SetParent("a", "grp"))
	require.NoError(t, g.SetParent("b", "grp"))
	require.NoError(t, Layout(context.Background(), g, Options{}))

	grp := node(t, g, "grp")
	assertInside(t, grp, node(t, g, "a"))
	assertInside(t, grp, node(t, g, "b"))

	loop := edge(t, g, "a", "a")
	require.Len(t, loop.Points, 7)
	for _, p := range loop.Points {
		assert.GreaterOrEqual(t, p.X, grp.X-grp.Width/2-eps, "loop point %v left of cluster", p)
		assert.LessOrEqual(t, p.X, grp.X+grp.Width/2+eps, "loop point %v right of cluster", p)
		assert.GreaterOrEqual(t, p.Y, grp.Y-grp.Height/2-eps, "loop point %v above cluster", p)
		assert.LessOrEqual(t, p.Y, grp.Y+grp.Height/2+eps, "loop point %v below cluster", p)
	}
}

func TestLayout_ZeroSizeNodes(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, g.AddNode(graph.Node{ID: id}))
	}
	require.NoError(t, g.AddEdge(graph.NewEdge("a", "b")))
	require.NoError(t, g.AddEdge(graph.NewEdge("a", "c")))
	require.NoError(t, Layout(context.Background(), g, Options{}))

	for _, e := range g.Edges() {
		require.NotEmpty(t, e.Points)
		for _, p := range e.Points {
			assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y), "%s->%s has point %v", e.From, e.To, p)
		}
		assert.Equal(t, graph.Point{X: node(t, g, e.From).X, Y: node(t, g, e.From).Y}, e.Points[0])
		assert.Equal(t, graph.Point{X: node(t, g, e.To).X, Y: node(t, g, e.To).Y}, e.Points[len(e.Points)-1])
	}
}

func TestLayout_NoCrossings(t *testing.T) {
	// Input order a, b over c, d draws a->d across b->c.
	g := build(t, []string{"a", "b", "c", "d"}, [][2]string{{"a", "d"}, {"b", "c"}, {"a", "c"}})
	require.NoError(t, Layout(context.Background(), g, Options{EdgeLabelSpace: noLabelSpace()}))

	for _, e1 := range g.Edges() {
		for _, e2 := range g.Edges() {
			if e1.From == e2.From || e1.To == e2.To {
				continue
			}
			up := node(t, g, e1.From).X - node(t, g, e2.From).X
			down := node(t, g, e1.To).X - node(t, g, e2.To).X
			assert.GreaterOrEqual(t, up*down, 0.0, "%s->%s crosses %s->%s", e1.From, e1.To, e2.From, e2.To)
		}
	}
}

func TestLayout_ComponentsDoNotOverlap(t *testing.T) {
	g := build(t, []string{"a", "b", "c", "d", "e"}, [][2]string{{"a", "b"}, {"c", "d"}})
	require.NoError(t, Layout(context.Background(), g, Options{}))

	nodes := g.Nodes()
	for i, n := range nodes {
		for _, m := range nodes[i+1:] {
			assert.False(t, overlap(n, m), "%s overlaps %s", n.ID, m.ID)
		}
	}
}

func TestLayout_SelfEdge(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "a"}})
	require.NoError(t, Layout(context.Background(), g, Options{}))

	a := node(t, g, "a")
	loop := edge(t, g, "a", "a")
	require.Len(t, loop.Points, 7)
	assert.True(t, onBoundary(loop.Points[0], a))
	assert.True(t, onBoundary(loop.Points[6], a))
	for _, p := range loop.Points[1:6] {
		assert.Greater(t, p.X, a.X+a.Width/2, "loop bulges right")
	}

	b := node(t, g, "b")
	if b.X > a.X {
		for _, p := range loop.Points {
			assert.Less(t, p.X, b.X-b.Width/2, "room is reserved for the loop")
		}
	}
}

func TestLayout_Cycle(t *testing.T) {
	g := build(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})
	require.NoError(t, Layout(context.Background(), g, Options{}))

	for _, e := range g.Edges() {
		require.NotEmpty(t, e.Points)
		assert.True(t, onBoundary(e.Points[0], node(t, g, e.From)), "%s->%s starts at its source", e.From, e.To)
		assert.True(t, onBoundary(e.Points[len(e.Points)-1], node(t, g, e.To)), "%s->%s ends at its target", e.From, e.To)
	}
}

func TestLayout_EdgeLabel(t *testing.T) {
	g := build(t, []string{"a", "b"}, nil)
	e := graph.NewEdge("a", "b")
	e.LabelWidth, e.LabelHeight = 40, 20
	require.NoError(t, g.AddEdge(e))
	require.NoError(t, g.AddEdge(graph.Edge{From: "b", To: "a", Name: "back", Weight: 1, Minlen: 1}))

	require.NoError(t, Layout(context.Background(), g, Options{}))

	a, b := node(t, g, "a"), node(t, g, "b")
	labelled := edge(t, g, "a", "b")
	require.True(t, labelled.HasLabelPos)
	assert.Greater(t, labelled.LabelY, a.Y)
	assert.Less(t, labelled.LabelY, b.Y)

	back, ok := g.Edge("b", "a", "back")
	require.True(t, ok)
	assert.False(t, back.HasLabelPos, "unlabelled edges get no label position")
}

func TestLayout_StableOrder(t *testing.T) {
	nodes := []string{"r", "a", "b", "c"}
	edges := [][2]string{{"r", "a"}, {"r", "b"}, {"r", "c"}}
	first := build(t, nodes, edges)
	require.NoError(t, Layout(context.Background(), first, Options{}))

	second := first.Clone()
	require.NoError(t, second.AddNode(graph.Node{ID: "x", Width: 50, Height: 30}))
	require.NoError(t, second.AddEdge(graph.NewEdge("r", "x")))
	require.NoError(t, Layout(context.Background(), second, Options{PrevGraph: first}))

	before := func(g *graph.Graph, u, v string) bool { return node(t, g, u).Order < node(t, g, v).Order }
	for _, pair := range [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}} {
		assert.Equal(t, before(first, pair[0], pair[1]), before(second, pair[0], pair[1]), "%s vs %s", pair[0], pair[1])
	}
}

func TestLayout_StableOrderRoundTrip(t *testing.T) {
	nodes := []string{"a", "b", "c", "d", "e", "f"}
	edges := [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"a", "d"}, {"a", "c"}, {"e", "d"}, {"f", "b"}, {"e", "b"}}
	first := build(t, nodes, edges)
	require.NoError(t, Layout(context.Background(), first, Options{}))

	second := build(t, nodes, edges)
	require.NoError(t, Layout(context.Background(), second, Options{PrevGraph: first}))

	for _, id := range nodes {
		assert.Equal(t, node(t, first, id).Order, node(t, second, id).Order, "order(%s)", id)
		assert.Equal(t, node(t, first, id).Rank, node(t, second, id).Rank, "rank(%s)", id)
	}
}

func TestLayout_KeepNodeOrder(t *testing.T) {
	g := build(t, []string{"c", "a", "b"}, nil)
	opts := Options{KeepNodeOrder: true, NodeOrder: []string{"b", "c", "a"}}
	require.NoError(t, Layout(context.Background(), g, opts))

	assert.Equal(t, 0, node(t, g, "b").Order)
	assert.Equal(t, 1, node(t, g, "c").Order)
	assert.Equal(t, 2, node(t, g, "a").Order)
	assert.Less(t, node(t, g, "b").X, node(t, g, "c").X)
	assert.Less(t, node(t, g, "c").X, node(t, g, "a").X)
}

func TestLayout_ManualLayer(t *testing.T) {
	g := build(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}})
	layer := 2
	node(t, g, "c").Layer = &layer
	require.NoError(t, Layout(context.Background(), g, Options{EdgeLabelSpace: noLabelSpace()}))

	assert.Greater(t, node(t, g, "c").Y, node(t, g, "b").Y)
}

func TestLayout_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"rankdir", Options{RankDir: "XY"}},
		{"negative nodesep", Options{NodeSep: -1}},
		{"nan ranksep", Options{RankSep: math.NaN()}},
		{"negative margin", Options{MarginY: -5}},
		{"ranker", Options{Ranker: "random"}},
		{"acyclicer", Options{Acyclicer: "none"}},
		{"align", Options{Align: "middle"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
			err := Layout(context.Background(), g, tt.opts)
			require.Error(t, err)
			assert.True(t, errors.IsConfiguration(err), "got %v", err)
			assert.Zero(t, node(t, g, "b").Y, "graph untouched")
		})
	}
}

func TestLayout_EdgeToClusterRejected(t *testing.T) {
	g := build(t, []string{"a", "b", "grp"}, [][2]string{{"a", "grp"}})
	require.NoError(t, g.SetParent("b", "grp"))

	err := Layout(context.Background(), g, Options{})
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestLayout_LayerConflict(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	two, one := 2, 1
	node(t, g, "a").Layer = &two
	node(t, g, "b").Layer = &one

	err := Layout(context.Background(), g, Options{})
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
	assert.True(t, stderrors.Is(err, rank.ErrLayerConflict))
	assert.Nil(t, edge(t, g, "a", "b").Points, "graph untouched")
}

func TestLayout_InvalidNodeSize(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(graph.Node{ID: "a", Width: -1, Height: 10}))

	err := Layout(context.Background(), g, Options{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidGraph, errors.GetCode(err))
}

func TestLayout_GeometryFailureLeavesGraphUntouched(t *testing.T) {
	orig := positionNodes
	t.Cleanup(func() { positionNodes = orig })
	positionNodes = func(s *dag.Graph) {
		orig(s)
		for _, n := range s.Nodes() {
			n.X, n.Y = 0, 0
		}
	}

	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	before := *node(t, g, "b")

	err := Layout(context.Background(), g, Options{EdgeLabelSpace: noLabelSpace()})
	require.Error(t, err)
	assert.True(t, errors.IsGeometry(err), "got %v", err)
	assert.True(t, stderrors.Is(err, transform.ErrNoIntersection))

	after := node(t, g, "b")
	assert.Equal(t, before.X, after.X)
	assert.Equal(t, before.Y, after.Y)
	assert.Equal(t, before.Rank, after.Rank)
	assert.Equal(t, before.Order, after.Order)
	assert.Nil(t, edge(t, g, "a", "b").Points, "graph untouched")
	assert.Zero(t, g.Width)
	assert.Zero(t, g.Height)
}

type recordingHooks struct {
	mu       sync.Mutex
	started  bool
	stages   []string
	finished bool
	err      error
}

func (h *recordingHooks) OnLayoutStart(context.Context, int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = true
}

func (h *recordingHooks) OnStage(_ context.Context, stage string, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stages = append(h.stages, stage)
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finished = true
	h.err = err
}

func TestLayout_Hooks(t *testing.T) {
	hooks := &recordingHooks{}
	ctx := observability.WithLayoutHooks(context.Background(), hooks)

	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	require.NoError(t, Layout(ctx, g, Options{}))

	assert.True(t, hooks.started)
	assert.True(t, hooks.finished)
	assert.NoError(t, hooks.err)
	assert.Contains(t, hooks.stages, "rank")
	assert.Contains(t, hooks.stages, "order")
	assert.Contains(t, hooks.stages, "position")
	assert.Equal(t, "acyclic-undo", hooks.stages[len(hooks.stages)-1])
}

func TestLayout_HooksSeeFailure(t *testing.T) {
	hooks := &recordingHooks{}
	ctx := observability.WithLayoutHooks(context.Background(), hooks)

	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	one, zero := 1, 0
	node(t, g, "a").Layer = &one
	node(t, g, "b").Layer = &zero

	require.Error(t, Layout(ctx, g, Options{}))
	assert.True(t, hooks.finished)
	assert.Error(t, hooks.err)
}

func TestOptions_SetDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()
	assert.Equal(t, "TB", o.RankDir)
	assert.Equal(t, DefaultNodeSep, o.NodeSep)
	assert.Equal(t, DefaultEdgeSep, o.EdgeSep)
	assert.Equal(t, DefaultRankSep, o.RankSep)
	assert.Equal(t, DefaultAcyclicer, o.Acyclicer)
	assert.Equal(t, DefaultRanker, o.Ranker)
	require.NotNil(t, o.EdgeLabelSpace)
	assert.True(t, *o.EdgeLabelSpace)
	assert.NotNil(t, o.Logger)

	o = Options{RankDir: "lr", Ranker: "Longest-Path", Align: "dr"}
	require.NoError(t, o.Validate())
	assert.Equal(t, "LR", o.RankDir)
	assert.Equal(t, "longest-path", o.Ranker)
	assert.Equal(t, "DR", o.Align)
}
