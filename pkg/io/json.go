package io

import "github.com/matzehuels/layered/pkg/graph"

// Wire types. Input-only fields use pointers so an absent field can take the
// default; outputs are always written.

type jsonGraph struct {
	Width  float64    `json:"width,omitempty"`
	Height float64    `json:"height,omitempty"`
	Nodes  []jsonNode `json:"nodes"`
	Edges  []jsonEdge `json:"edges"`
}

type jsonNode struct {
	ID       string         `json:"id"`
	Width    float64        `json:"width,omitempty"`
	Height   float64        `json:"height,omitempty"`
	Parent   string         `json:"parent,omitempty"`
	Layer    *int           `json:"layer,omitempty"`
	FixOrder *int           `json:"fixorder,omitempty"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Rank     int            `json:"rank"`
	Order    int            `json:"order"`
	Meta     graph.Metadata `json:"meta,omitempty"`
}

type jsonEdge struct {
	From        string        `json:"from"`
	To          string        `json:"to"`
	Name        string        `json:"name,omitempty"`
	Weight      *int          `json:"weight,omitempty"`
	Minlen      *int          `json:"minlen,omitempty"`
	LabelWidth  float64       `json:"label_width,omitempty"`
	LabelHeight float64       `json:"label_height,omitempty"`
	LabelPos    string        `json:"labelpos,omitempty"`
	LabelOffset *float64      `json:"labeloffset,omitempty"`
	Points      []graph.Point `json:"points,omitempty"`
	LabelX      *float64      `json:"label_x,omitempty"`
	LabelY      *float64      `json:"label_y,omitempty"`
}
