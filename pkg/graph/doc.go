// Package graph is the caller-facing model for layered layout: a directed,
// compound multigraph whose nodes carry sizes and whose edges carry weights,
// minimum lengths and optional label boxes.
//
// # Building Graphs
//
//	g := graph.New()
//	_ = g.AddNode(graph.Node{ID: "api", Width: 80, Height: 40})
//	_ = g.AddNode(graph.Node{ID: "db", Width: 80, Height: 40})
//	_ = g.AddEdge(graph.NewEdge("api", "db"))
//
// Use [NewEdge] to start from the default attributes (weight 1, minlen 1,
// label position "r", label offset 10).
//
// # Clusters
//
// Any node can become a cluster by giving it children with
// [Graph.SetParent]. Clusters are drawn as boxes around their members; their
// size is computed, not given. Edges must connect leaf nodes only.
//
// # Layout Results
//
// Layout writes X and Y (node centres), Rank and Order back onto each node,
// Points (and the label centre, for labelled edges) onto each edge, and the
// overall Width and Height onto the graph. Nothing is written when layout
// fails.
//
// # Serialization
//
// JSON and DOT readers and writers live in pkg/io.
//
// # Concurrency
//
// Graph is safe for concurrent reads but not concurrent writes. Use
// [Graph.Clone] to lay out the same input from several goroutines.
package graph
