package graph

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. The empty string stands for the top of the cluster tree.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by [Graph.AddEdge] and [Graph.SetParent]
	// when a referenced node does not exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when an edge with the
	// same endpoints and name already exists. Parallel edges need distinct
	// names.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrParentCycle is returned by [Graph.SetParent] when the new parent is
	// the node itself or one of its descendants.
	ErrParentCycle = errors.New("parent would create a cycle")
)

// Edge defaults applied by [NewEdge] and by the readers in pkg/io.
const (
	DefaultWeight      = 1
	DefaultMinlen      = 1
	DefaultLabelPos    = LabelRight
	DefaultLabelOffset = 10
)

// Label positions relative to the edge.
const (
	LabelLeft   = "l"
	LabelRight  = "r"
	LabelCenter = "c"
)

// Metadata stores arbitrary key-value pairs attached to a node. Layout never
// reads it; it travels with the node through serialization.
type Metadata map[string]any

// Point is a coordinate in the drawing plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a vertex of the graph. A node with children is a cluster.
//
// Width, Height, Layer and FixOrder are inputs. X, Y, Rank and Order are
// written by layout. For clusters Width and Height are overwritten with the
// computed box, and Rank and Order are -1.
type Node struct {
	ID     string
	Width  float64
	Height float64

	// Layer pins the node to a relative rank; FixOrder pins its order among
	// pinned siblings. Both are ignored when nil.
	Layer    *int
	FixOrder *int

	Meta Metadata

	X, Y  float64
	Rank  int
	Order int
}

// EdgeKey identifies an edge.
type EdgeKey struct {
	From, To, Name string
}

// Edge is a directed edge. From, To and Name identify it, so parallel edges
// between the same nodes must differ in Name.
type Edge struct {
	From string
	To   string
	Name string

	Weight int // ≥ 0
	Minlen int // ≥ 1

	// Label box reserved along the edge. A zero box means no label.
	LabelWidth  float64
	LabelHeight float64
	LabelPos    string // LabelLeft, LabelRight or LabelCenter
	LabelOffset float64

	// Outputs.
	Points      []Point
	LabelX      float64
	LabelY      float64
	HasLabelPos bool
}

// NewEdge returns an edge between two nodes with default attributes.
func NewEdge(from, to string) Edge {
	return Edge{
		From:        from,
		To:          to,
		Weight:      DefaultWeight,
		Minlen:      DefaultMinlen,
		LabelPos:    DefaultLabelPos,
		LabelOffset: DefaultLabelOffset,
	}
}

// Key returns the identity of e.
func (e *Edge) Key() EdgeKey { return EdgeKey{From: e.From, To: e.To, Name: e.Name} }

// HasLabel reports whether the edge reserves a label box.
func (e *Edge) HasLabel() bool { return e.LabelWidth != 0 && e.LabelHeight != 0 }

// Graph is a directed compound multigraph. Nodes and edges iterate in
// insertion order, which layout uses to break ties.
//
// The zero value is not usable; create graphs with [New]. Graph is not safe
// for concurrent writes.
type Graph struct {
	// Drawing size, written by layout.
	Width, Height float64

	nodes     map[string]*Node
	nodeOrder []*Node
	edges     map[EdgeKey]*Edge
	edgeOrder []*Edge
	parent    map[string]string
	children  map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		edges:    make(map[EdgeKey]*Edge),
		parent:   make(map[string]string),
		children: make(map[string][]string),
	}
}

// AddNode adds a copy of n. Meta is never nil afterwards.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, ok := g.nodes[n.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	g.nodes[n.ID] = node
	g.nodeOrder = append(g.nodeOrder, node)
	return nil
}

// AddEdge adds a copy of e. Both endpoints must exist.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, e.From)
	}
	if _, ok := g.nodes[e.To]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, e.To)
	}
	key := e.Key()
	if _, ok := g.edges[key]; ok {
		return fmt.Errorf("%w: %s->%s %q", ErrDuplicateEdge, e.From, e.To, e.Name)
	}
	edge := &e
	g.edges[key] = edge
	g.edgeOrder = append(g.edgeOrder, edge)
	return nil
}

// SetParent moves child into cluster parent, or to the top level when
// parent is empty.
func (g *Graph) SetParent(child, parent string) error {
	if _, ok := g.nodes[child]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, child)
	}
	if parent != "" {
		if _, ok := g.nodes[parent]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownNode, parent)
		}
		for p := parent; p != ""; p = g.parent[p] {
			if p == child {
				return fmt.Errorf("%w: %s in %s", ErrParentCycle, child, parent)
			}
		}
	}

	if old, ok := g.parent[child]; ok {
		g.children[old] = slices.DeleteFunc(g.children[old], func(c string) bool { return c == child })
		delete(g.parent, child)
	}
	if parent != "" {
		g.parent[child] = parent
		g.children[parent] = append(g.children[parent], child)
	}
	return nil
}

// Parent returns the cluster containing v, or "" at the top level.
func (g *Graph) Parent(v string) string { return g.parent[v] }

// Children returns the direct members of cluster v in insertion order.
func (g *Graph) Children(v string) []string { return slices.Clone(g.children[v]) }

// IsCluster reports whether v has children.
func (g *Graph) IsCluster(v string) bool { return len(g.children[v]) > 0 }

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodeOrder) }

// Edge returns the edge with the given identity.
func (g *Graph) Edge(from, to, name string) (*Edge, bool) {
	e, ok := g.edges[EdgeKey{From: from, To: to, Name: name}]
	return e, ok
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edgeOrder) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Clone returns a deep copy of g, outputs included.
func (g *Graph) Clone() *Graph {
	out := New()
	out.Width, out.Height = g.Width, g.Height
	for _, n := range g.nodeOrder {
		c := *n
		c.Layer = clonePtr(n.Layer)
		c.FixOrder = clonePtr(n.FixOrder)
		c.Meta = make(Metadata, len(n.Meta))
		for k, v := range n.Meta {
			c.Meta[k] = v
		}
		_ = out.AddNode(c)
	}
	for _, n := range g.nodeOrder {
		for _, c := range g.children[n.ID] {
			_ = out.SetParent(c, n.ID)
		}
	}
	for _, e := range g.edgeOrder {
		c := *e
		c.Points = slices.Clone(e.Points)
		_ = out.AddEdge(c)
	}
	return out
}

func clonePtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
