package dag

import (
	"errors"
	"strconv"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. The empty string is reserved for the implicit compound root.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned when an edge or parent link references a
	// node that does not exist.
	ErrUnknownNode = errors.New("unknown node")
)

// DummyKind tags the synthetic nodes the layout pipeline inserts into the
// scratch graph. Original nodes carry [DummyNone].
type DummyKind int

const (
	// DummyNone marks an original node projected from the caller's graph.
	DummyNone DummyKind = iota
	// DummyEdge is an intermediate node of a long edge's chain.
	DummyEdge
	// DummyEdgeLabel is the chain node that reserves space for an edge label.
	DummyEdgeLabel
	// DummySelfEdge reserves horizontal space for a detached self-loop.
	DummySelfEdge
	// DummyBorderLeft marks a cluster's left side on one rank.
	DummyBorderLeft
	// DummyBorderRight marks a cluster's right side on one rank.
	DummyBorderRight
	// DummyBorderTop marks a cluster's first rank.
	DummyBorderTop
	// DummyBorderBottom marks a cluster's last rank.
	DummyBorderBottom
	// DummyEdgeProxy temporarily keeps a labelled edge's midpoint rank alive.
	DummyEdgeProxy
	// DummyRoot is the nesting root that ties every top-level node together
	// while ranking.
	DummyRoot
)

var dummyNames = [...]string{
	DummyNone:         "none",
	DummyEdge:         "edge",
	DummyEdgeLabel:    "edge-label",
	DummySelfEdge:     "selfedge",
	DummyBorderLeft:   "border-left",
	DummyBorderRight:  "border-right",
	DummyBorderTop:    "border-top",
	DummyBorderBottom: "border-bottom",
	DummyEdgeProxy:    "edge-proxy",
	DummyRoot:         "root",
}

func (k DummyKind) String() string {
	if int(k) < len(dummyNames) {
		return dummyNames[k]
	}
	return "dummy(" + strconv.Itoa(int(k)) + ")"
}

// IsDummy reports whether the kind denotes a synthetic node.
func (k DummyKind) IsDummy() bool { return k != DummyNone }

// IsBorder reports whether the kind is one of the four cluster border kinds.
func (k DummyKind) IsBorder() bool {
	return k >= DummyBorderLeft && k <= DummyBorderBottom
}

// RankDir is the direction ranks advance in the final drawing.
type RankDir string

const (
	RankDirTB RankDir = "TB"
	RankDirBT RankDir = "BT"
	RankDirLR RankDir = "LR"
	RankDirRL RankDir = "RL"
)

// Horizontal reports whether ranks advance along the x axis.
func (d RankDir) Horizontal() bool { return d == RankDirLR || d == RankDirRL }

// LabelPos places an edge label relative to its edge.
type LabelPos string

const (
	LabelLeft   LabelPos = "l"
	LabelRight  LabelPos = "r"
	LabelCenter LabelPos = "c"
)

// Point is a coordinate in the drawing plane.
type Point struct {
	X, Y float64
}

// EdgeRef identifies an edge of a multigraph by its endpoints and name.
type EdgeRef struct {
	V, W, Name string
}

// SelfEdge is a loop detached from its node before ranking.
type SelfEdge struct {
	Ref   EdgeRef
	Label *EdgeLabel
}

// Node is a record in the scratch graph. Original nodes and dummies share the
// same record; Dummy tells them apart and decides which of the bookkeeping
// fields are meaningful.
type Node struct {
	ID     string
	Width  float64
	Height float64
	X, Y   float64

	Rank   int
	Ranked bool // false for clusters, which span ranks instead
	Order  int

	Dummy DummyKind

	// Layer pins the node to a rank; FixOrder pins its relative order.
	Layer    *int
	FixOrder *int

	// Cluster bookkeeping.
	BorderTop    string
	BorderBottom string
	BorderLeft   []string // indexed by rank
	BorderRight  []string // indexed by rank
	MinRank      int
	MaxRank      int
	HasRankRange bool

	// Dummy bookkeeping. Edge names the original edge a chain, proxy or
	// self-edge dummy stands for, and Label is that edge's shared label.
	Edge     EdgeRef
	Label    *EdgeLabel
	LabelPos LabelPos

	SelfEdges []SelfEdge
}

// SetRank assigns a rank and marks the node ranked.
func (n *Node) SetRank(r int) {
	n.Rank = r
	n.Ranked = true
}

// EdgeLabel holds an edge's attributes. Chains, reversals and self-edge
// dummies all share one *EdgeLabel so results land on the original edge.
type EdgeLabel struct {
	Weight      int
	Minlen      int
	Width       float64
	Height      float64
	LabelPos    LabelPos
	LabelOffset float64

	LabelRank    int
	HasLabelRank bool

	Points []Point

	// X and Y locate the label once placed.
	X, Y        float64
	HasPosition bool

	Reversed    bool
	ForwardName string
	NestingEdge bool
}

// HasLabel reports whether the edge carries a label with a nonzero box.
func (l *EdgeLabel) HasLabel() bool { return l.Width != 0 && l.Height != 0 }

// Edge is a directed multigraph edge.
type Edge struct {
	V, W  string
	Name  string
	Label *EdgeLabel
}

// Ref returns the identity of e.
func (e *Edge) Ref() EdgeRef { return EdgeRef{V: e.V, W: e.W, Name: e.Name} }

// Settings are the graph-wide layout parameters the stages read.
type Settings struct {
	RankDir   RankDir
	NodeSep   float64
	EdgeSep   float64
	RankSep   float64
	MarginX   float64
	MarginY   float64
	Acyclicer string
	Ranker    string
	Align     string
}

// Graph is the private scratch graph of one layout call: a directed,
// compound multigraph whose nodes and edges iterate in insertion order.
//
// The zero value is not usable; create graphs with [New]. Graph is not safe
// for concurrent use.
type Graph struct {
	Settings

	// Bookkeeping shared between stages.
	NestingRoot    string
	NodeRankFactor int
	DummyChains    []string

	// Drawing extents written by translation.
	Width, Height float64

	nodes     map[string]*Node
	nodeOrder []*Node
	edges     map[EdgeRef]*Edge
	edgeOrder []*Edge
	in        map[string][]*Edge
	out       map[string][]*Edge
	parent    map[string]string
	children  map[string][]string
	nextID    int
}

// New creates an empty scratch graph.
func New(s Settings) *Graph {
	return &Graph{
		Settings:       s,
		NodeRankFactor: 1,
		nodes:          make(map[string]*Node),
		edges:          make(map[EdgeRef]*Edge),
		in:             make(map[string][]*Edge),
		out:            make(map[string][]*Edge),
		parent:         make(map[string]string),
		children:       make(map[string][]string),
	}
}

// AddNode inserts n as a top-level node.
func (g *Graph) AddNode(n *Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, ok := g.nodes[n.ID]; ok {
		return ErrDuplicateNodeID
	}
	g.insert(n)
	return nil
}

func (g *Graph) insert(n *Node) {
	g.nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n)
	g.children[""] = append(g.children[""], n.ID)
}

// AddDummy inserts n under a fresh ID derived from prefix and returns that ID.
func (g *Graph) AddDummy(kind DummyKind, prefix string, n *Node) string {
	n.ID = g.UniqueID(prefix)
	n.Dummy = kind
	g.insert(n)
	return n.ID
}

// UniqueID returns an ID starting with prefix that no node uses.
func (g *Graph) UniqueID(prefix string) string {
	for {
		g.nextID++
		id := prefix + strconv.Itoa(g.nextID)
		if _, ok := g.nodes[id]; !ok {
			return id
		}
	}
}

// HasNode reports whether id names a node.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node named id, or nil.
func (g *Graph) Node(id string) *Node { return g.nodes[id] }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	g.compactNodes()
	out := make([]*Node, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []string {
	g.compactNodes()
	ids := make([]string, len(g.nodeOrder))
	for i, n := range g.nodeOrder {
		ids[i] = n.ID
	}
	return ids
}

func (g *Graph) compactNodes() {
	if len(g.nodeOrder) == len(g.nodes) {
		return
	}
	live := g.nodeOrder[:0]
	for _, n := range g.nodeOrder {
		if g.nodes[n.ID] == n {
			live = append(live, n)
		}
	}
	clear(g.nodeOrder[len(live):])
	g.nodeOrder = live
}

// RemoveNode deletes a node with its incident edges. Children of a removed
// cluster move to the top level.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	for _, e := range g.NodeEdges(id) {
		g.RemoveEdge(e)
	}
	for _, c := range g.Children(id) {
		g.SetParent(c, "")
	}
	g.unlinkParent(id)
	delete(g.children, id)
	delete(g.parent, id)
	delete(g.in, id)
	delete(g.out, id)
	delete(g.nodes, id)
}

// SetParent moves v under parent. An empty parent moves v to the top level.
func (g *Graph) SetParent(v, parent string) {
	g.unlinkParent(v)
	if parent == "" {
		delete(g.parent, v)
	} else {
		g.parent[v] = parent
	}
	g.children[parent] = append(g.children[parent], v)
}

func (g *Graph) unlinkParent(v string) {
	p := g.parent[v]
	siblings := g.children[p]
	for i, c := range siblings {
		if c == v {
			g.children[p] = append(siblings[:i:i], siblings[i+1:]...)
			return
		}
	}
}

// Parent returns v's cluster, or "" for top-level nodes.
func (g *Graph) Parent(v string) string { return g.parent[v] }

// Children returns the nodes directly inside v. Children("") lists the
// top-level nodes.
func (g *Graph) Children(v string) []string {
	c := g.children[v]
	out := make([]string, len(c))
	copy(out, c)
	return out
}

// IsCompound reports whether v contains other nodes.
func (g *Graph) IsCompound(v string) bool { return len(g.children[v]) > 0 }

// SetEdge adds the edge v->w with the given name, or replaces the label of
// an existing one. Both endpoints must exist.
func (g *Graph) SetEdge(v, w, name string, label *EdgeLabel) *Edge {
	ref := EdgeRef{V: v, W: w, Name: name}
	if e, ok := g.edges[ref]; ok {
		e.Label = label
		return e
	}
	if !g.HasNode(v) || !g.HasNode(w) {
		panic("dag: edge " + v + "->" + w + " references " + ErrUnknownNode.Error())
	}
	e := &Edge{V: v, W: w, Name: name, Label: label}
	g.edges[ref] = e
	g.edgeOrder = append(g.edgeOrder, e)
	g.out[v] = append(g.out[v], e)
	g.in[w] = append(g.in[w], e)
	return e
}

// Edge returns the edge v->w with the given name, or nil.
func (g *Graph) Edge(v, w, name string) *Edge {
	return g.edges[EdgeRef{V: v, W: w, Name: name}]
}

// EdgeByRef returns the edge identified by ref, or nil.
func (g *Graph) EdgeByRef(ref EdgeRef) *Edge { return g.edges[ref] }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	if len(g.edgeOrder) != len(g.edges) {
		live := g.edgeOrder[:0]
		for _, e := range g.edgeOrder {
			if g.edges[e.Ref()] == e {
				live = append(live, e)
			}
		}
		clear(g.edgeOrder[len(live):])
		g.edgeOrder = live
	}
	out := make([]*Edge, len(g.edgeOrder))
	copy(out, g.edgeOrder)
	return out
}

// RemoveEdge deletes e from the graph.
func (g *Graph) RemoveEdge(e *Edge) {
	ref := e.Ref()
	if g.edges[ref] != e {
		return
	}
	delete(g.edges, ref)
	g.out[e.V] = dropEdge(g.out[e.V], e)
	g.in[e.W] = dropEdge(g.in[e.W], e)
}

func dropEdge(list []*Edge, e *Edge) []*Edge {
	for i, x := range list {
		if x == e {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// InEdges returns the edges entering v.
func (g *Graph) InEdges(v string) []*Edge { return append([]*Edge(nil), g.in[v]...) }

// OutEdges returns the edges leaving v.
func (g *Graph) OutEdges(v string) []*Edge { return append([]*Edge(nil), g.out[v]...) }

// OutEdgesTo returns every edge from v to w, across all names.
func (g *Graph) OutEdgesTo(v, w string) []*Edge {
	var out []*Edge
	for _, e := range g.out[v] {
		if e.W == w {
			out = append(out, e)
		}
	}
	return out
}

// NodeEdges returns the edges incident to v, incoming first.
func (g *Graph) NodeEdges(v string) []*Edge {
	out := make([]*Edge, 0, len(g.in[v])+len(g.out[v]))
	out = append(out, g.in[v]...)
	for _, e := range g.out[v] {
		if e.V != e.W {
			out = append(out, e)
		}
	}
	return out
}

// Predecessors returns the distinct sources of v's in-edges.
func (g *Graph) Predecessors(v string) []string {
	return distinct(g.in[v], func(e *Edge) string { return e.V })
}

// Successors returns the distinct targets of v's out-edges.
func (g *Graph) Successors(v string) []string {
	return distinct(g.out[v], func(e *Edge) string { return e.W })
}

func distinct(edges []*Edge, end func(*Edge) string) []string {
	if len(edges) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(edges))
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		id := end(e)
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Sources returns the nodes without in-edges in insertion order.
func (g *Graph) Sources() []string {
	var out []string
	for _, n := range g.Nodes() {
		if len(g.in[n.ID]) == 0 {
			out = append(out, n.ID)
		}
	}
	return out
}

// MaxRankValue returns the largest rank among ranked nodes, or -1.
func (g *Graph) MaxRankValue() int {
	maxRank := -1
	for _, n := range g.nodes {
		if n.Ranked && n.Rank > maxRank {
			maxRank = n.Rank
		}
	}
	return maxRank
}

// LayerMatrix groups the ranked leaf nodes by rank, each layer sorted by
// order. Layers are indexed from rank 0 to [Graph.MaxRankValue].
func (g *Graph) LayerMatrix() [][]string {
	layers := make([][]string, g.MaxRankValue()+1)
	for _, n := range g.Nodes() {
		if n.Ranked && !g.IsCompound(n.ID) && n.Rank >= 0 {
			layers[n.Rank] = append(layers[n.Rank], n.ID)
		}
	}
	for _, layer := range layers {
		sortByOrder(g, layer)
	}
	return layers
}

func sortByOrder(g *Graph, ids []string) {
	// Insertion sort keeps equal orders in insertion sequence.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && g.nodes[ids[j]].Order < g.nodes[ids[j-1]].Order; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}

// PosMap maps each ID of a layer to its index.
func PosMap(layer []string) map[string]int {
	pos := make(map[string]int, len(layer))
	for i, id := range layer {
		pos[id] = i
	}
	return pos
}
