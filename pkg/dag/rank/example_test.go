package rank_test

import (
	"fmt"

	"github.com/matzehuels/layered/pkg/dag"
	"github.com/matzehuels/layered/pkg/dag/rank"
)

func ExampleRun() {
	g := dag.New(dag.Settings{Ranker: rank.NetworkSimplex})
	for _, id := range []string{"app", "auth", "db", "cache"} {
		_ = g.AddNode(&dag.Node{ID: id})
	}
	g.SetEdge("app", "auth", "", &dag.EdgeLabel{Weight: 1, Minlen: 1})
	g.SetEdge("auth", "db", "", &dag.EdgeLabel{Weight: 1, Minlen: 1})
	g.SetEdge("app", "cache", "", &dag.EdgeLabel{Weight: 1, Minlen: 1})

	if err := rank.Run(g); err != nil {
		fmt.Println(err)
		return
	}
	for _, n := range g.Nodes() {
		fmt.Println(n.ID, n.Rank)
	}
	// Output:
	// app 0
	// auth 1
	// db 2
	// cache 1
}
