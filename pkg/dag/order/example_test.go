package order_test

import (
	"fmt"

	"github.com/matzehuels/layered/pkg/dag"
	"github.com/matzehuels/layered/pkg/dag/order"
)

func ExampleOrder() {
	g := dag.New(dag.Settings{})
	for _, n := range []struct {
		id   string
		rank int
	}{{"a", 0}, {"b", 0}, {"c", 1}, {"d", 1}} {
		node := &dag.Node{ID: n.id}
		node.SetRank(n.rank)
		_ = g.AddNode(node)
	}
	g.SetEdge("a", "c", "", &dag.EdgeLabel{Weight: 1, Minlen: 1})
	g.SetEdge("a", "d", "", &dag.EdgeLabel{Weight: 1, Minlen: 1})
	g.SetEdge("b", "c", "", &dag.EdgeLabel{Weight: 1, Minlen: 1})

	order.Order(g)

	fmt.Println(dag.CountCrossings(g, g.LayerMatrix()))
	// Output: 0
}
