// Package dag provides the scratch graph that a single layout call rewrites
// on its way from an arbitrary compound multigraph to a layered drawing.
//
// # Overview
//
// The layout pipeline never touches the caller's graph until it succeeds.
// Instead it projects that graph into a [Graph] and lets every stage add and
// remove synthetic nodes there: dummy chains for long edges, border nodes for
// clusters, proxies for edge labels and placeholders for self-loops. Each of
// those is a [Node] tagged with a [DummyKind], so stages can tell synthetic
// records apart without string-keyed attribute bags.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [Graph.AddNode] and connect them
// with [Graph.SetEdge]. Edges are identified by their endpoints and a name,
// so several edges may join the same pair of nodes:
//
//	g := dag.New(dag.Settings{RankDir: dag.RankDirTB, NodeSep: 50})
//	_ = g.AddNode(&dag.Node{ID: "a", Width: 40, Height: 20})
//	_ = g.AddNode(&dag.Node{ID: "b", Width: 40, Height: 20})
//	g.SetEdge("a", "b", "", &dag.EdgeLabel{Weight: 1, Minlen: 1})
//
// Clusters are expressed through [Graph.SetParent]; a node with children is
// compound and is never ranked itself.
//
// # Iteration Order
//
// Nodes, edges and children iterate in insertion order. Several heuristics
// resolve ties by that order, which keeps layouts deterministic for a given
// input.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count weighted crossings between
// adjacent layers by counting inversions with a Fenwick tree, in
// O(E log V) time per layer pair.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Every layout call owns its
// own graph and discards it when done.
//
// # Related Packages
//
//   - [transform]: cycle breaking, nesting borders, rank and edge normalization, post-processing
//   - [rank]: rank assignment (network simplex, tight tree, longest path)
//   - [order]: crossing minimization
//   - [position]: coordinate assignment
//
// [transform]: github.com/matzehuels/layered/pkg/dag/transform
// [rank]: github.com/matzehuels/layered/pkg/dag/rank
// [order]: github.com/matzehuels/layered/pkg/dag/order
// [position]: github.com/matzehuels/layered/pkg/dag/position
package dag
