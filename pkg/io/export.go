package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/layered/pkg/graph"
)

// WriteJSON encodes g as indented JSON and writes it to w. The output holds
// every input attribute as well as the layout results, and can be read back
// with [ReadJSON].
func WriteJSON(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toJSON(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// MarshalJSON encodes g as JSON in memory.
func MarshalJSON(g *graph.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toJSON(g *graph.Graph) jsonGraph {
	nodes := g.Nodes()
	edges := g.Edges()
	out := jsonGraph{
		Width:  g.Width,
		Height: g.Height,
		Nodes:  make([]jsonNode, len(nodes)),
		Edges:  make([]jsonEdge, len(edges)),
	}
	for i, n := range nodes {
		var meta graph.Metadata
		if len(n.Meta) > 0 {
			meta = n.Meta
		}
		out.Nodes[i] = jsonNode{
			ID:       n.ID,
			Width:    n.Width,
			Height:   n.Height,
			Parent:   g.Parent(n.ID),
			Layer:    n.Layer,
			FixOrder: n.FixOrder,
			X:        n.X,
			Y:        n.Y,
			Rank:     n.Rank,
			Order:    n.Order,
			Meta:     meta,
		}
	}
	for i, e := range edges {
		weight, minlen, offset := e.Weight, e.Minlen, e.LabelOffset
		je := jsonEdge{
			From:        e.From,
			To:          e.To,
			Name:        e.Name,
			Weight:      &weight,
			Minlen:      &minlen,
			LabelWidth:  e.LabelWidth,
			LabelHeight: e.LabelHeight,
			LabelPos:    e.LabelPos,
			LabelOffset: &offset,
			Points:      e.Points,
		}
		if e.HasLabelPos {
			x, y := e.LabelX, e.LabelY
			je.LabelX, je.LabelY = &x, &y
		}
		out.Edges[i] = je
	}
	return out
}
