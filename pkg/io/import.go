package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/layered/pkg/graph"
)

// ReadJSON decodes a JSON graph from r.
//
// The input must be a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": [{"id": "a", "width": 40, "height": 20}, {"id": "b"}],
//	  "edges": [{"from": "a", "to": "b", "minlen": 2}]
//	}
//
// Each node must have an "id" field. A node's "parent" names the cluster
// containing it and may refer to a node listed later. Edge attributes that
// are omitted take the defaults of [graph.NewEdge].
//
// Errors are wrapped with context describing which node or edge caused the
// problem; use errors.Is with the sentinel errors of pkg/graph to inspect
// them. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var data jsonGraph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fromJSON(data)
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// UnmarshalJSON decodes a JSON graph from memory.
func UnmarshalJSON(data []byte) (*graph.Graph, error) {
	var wire jsonGraph
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fromJSON(wire)
}

func fromJSON(data jsonGraph) (*graph.Graph, error) {
	g := graph.New()
	g.Width, g.Height = data.Width, data.Height
	for _, n := range data.Nodes {
		nd := graph.Node{
			ID:       n.ID,
			Width:    n.Width,
			Height:   n.Height,
			Layer:    n.Layer,
			FixOrder: n.FixOrder,
			Meta:     n.Meta,
			X:        n.X,
			Y:        n.Y,
			Rank:     n.Rank,
			Order:    n.Order,
		}
		if err := g.AddNode(nd); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, n := range data.Nodes {
		if n.Parent == "" {
			continue
		}
		if err := g.SetParent(n.ID, n.Parent); err != nil {
			return nil, fmt.Errorf("node %s: parent %s: %w", n.ID, n.Parent, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(edgeFromJSON(e)); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

func edgeFromJSON(e jsonEdge) graph.Edge {
	out := graph.NewEdge(e.From, e.To)
	out.Name = e.Name
	out.LabelWidth, out.LabelHeight = e.LabelWidth, e.LabelHeight
	out.Points = e.Points
	if e.Weight != nil {
		out.Weight = *e.Weight
	}
	if e.Minlen != nil {
		out.Minlen = *e.Minlen
	}
	if e.LabelPos != "" {
		out.LabelPos = e.LabelPos
	}
	if e.LabelOffset != nil {
		out.LabelOffset = *e.LabelOffset
	}
	if e.LabelX != nil && e.LabelY != nil {
		out.LabelX, out.LabelY, out.HasLabelPos = *e.LabelX, *e.LabelY, true
	}
	return out
}
