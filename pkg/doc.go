// Package pkg provides the libraries behind layered, a hierarchical graph
// layout engine.
//
// # Overview
//
// Given a directed graph whose nodes carry sizes, layered computes a layered
// (Sugiyama-style) drawing: a rank per node, an order within each rank that
// keeps edge crossings low, x/y coordinates, routed edge polylines, edge
// label positions and cluster bounding boxes.
//
// # Architecture
//
// The typical data flow:
//
//	JSON / DOT input
//	         ↓
//	    [io] package (decode into a caller graph)
//	         ↓
//	    [layout] package (validate options, run the stage pipeline)
//	         ↓
//	    [dag] packages (rank, order, position on a scratch graph)
//	         ↓
//	    [io] package (encode the laid-out graph)
//
// [pipeline] wraps [layout] with a result cache ([cache]) and option files,
// and is what the CLI and the HTTP server call.
//
// # Quick Start
//
//	g := graph.New()
//	_ = g.AddNode(graph.Node{ID: "a", Width: 40, Height: 20})
//	_ = g.AddNode(graph.Node{ID: "b", Width: 40, Height: 20})
//	_ = g.AddEdge(graph.NewEdge("a", "b"))
//
//	if err := layout.Layout(ctx, g, layout.Options{RankDir: "LR"}); err != nil {
//	    return err
//	}
//	a, _ := g.Node("a")
//	fmt.Println(a.X, a.Y)
//
// # Main Packages
//
//   - [graph]: the caller-facing graph, clusters and layout results
//   - [io]: JSON and Graphviz DOT encoding
//   - [layout]: the entry point and its options
//   - [dag], [dag/transform], [dag/rank], [dag/order], [dag/position]: the stages
//   - [errors]: coded errors (CONFIGURATION, GEOMETRY, ...)
//   - [observability]: hooks for metrics and tracing
//   - [cache], [pipeline]: cached, configurable layout runs
//   - [buildinfo]: version information
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/layered/pkg/graph
// [io]: https://pkg.go.dev/github.com/matzehuels/layered/pkg/io
// [layout]: https://pkg.go.dev/github.com/matzehuels/layered/pkg/layout
// [dag]: https://pkg.go.dev/github.com/matzehuels/layered/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/layered/pkg/dag/transform
// [dag/rank]: https://pkg.go.dev/github.com/matzehuels/layered/pkg/dag/rank
// [dag/order]: https://pkg.go.dev/github.com/matzehuels/layered/pkg/dag/order
// [dag/position]: https://pkg.go.dev/github.com/matzehuels/layered/pkg/dag/position
// [errors]: https://pkg.go.dev/github.com/matzehuels/layered/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/layered/pkg/observability
// [cache]: https://pkg.go.dev/github.com/matzehuels/layered/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/layered/pkg/pipeline
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/layered/pkg/buildinfo
package pkg
