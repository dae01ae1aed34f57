package graph_test

import (
	"fmt"

	"github.com/matzehuels/layered/pkg/graph"
)

func ExampleGraph_SetParent() {
	g := graph.New()
	for _, id := range []string{"backend", "api", "db"} {
		_ = g.AddNode(graph.Node{ID: id, Width: 60, Height: 30})
	}
	_ = g.SetParent("api", "backend")
	_ = g.SetParent("db", "backend")
	_ = g.AddEdge(graph.NewEdge("api", "db"))

	fmt.Println(g.IsCluster("backend"), g.Children("backend"))
	// Output: true [api db]
}
