package io

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/awalterschulze/gographviz"

	"github.com/matzehuels/layered/pkg/graph"
)

// Label boxes for DOT edge labels are estimated from the text, since no
// fonts are measured here.
const (
	dotLabelCharWidth = 7
	dotLabelHeight    = 14
)

// Graphviz's default node box, 0.75in by 0.5in.
const (
	dotNodeWidth  = 54
	dotNodeHeight = 36
)

// ReadDOT parses a Graphviz DOT document into a graph.
//
// Subgraphs whose name starts with "cluster" become cluster nodes holding
// their members; other subgraphs are transparent. Node "width" and "height"
// are read as points and default to Graphviz's 54x36. Edge "weight" and
// "minlen" map onto the edge attributes, "label" reserves a label box sized
// from its text, and "labeljust" (l, r or c) places that label. Parallel edges are named "1",
// "2", ... in the order they appear. Undirected graphs are read as if every
// edge pointed from its first to its second node.
func ReadDOT(r io.Reader) (*graph.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	ast, err := gographviz.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse dot: %w", err)
	}
	gv := gographviz.NewGraph()
	if err := gographviz.Analyse(ast, gv); err != nil {
		return nil, fmt.Errorf("analyse dot: %w", err)
	}
	return fromDOT(gv)
}

// ImportDOT reads a DOT file at path and returns the decoded graph.
func ImportDOT(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDOT(f)
}

func fromDOT(gv *gographviz.Graph) (*graph.Graph, error) {
	g := graph.New()

	var clusters []string
	for _, sg := range gv.SubGraphs.Sorted() {
		if isCluster(sg.Name) {
			clusters = append(clusters, sg.Name)
			if err := g.AddNode(graph.Node{ID: unquote(sg.Name)}); err != nil {
				return nil, fmt.Errorf("cluster %s: %w", sg.Name, err)
			}
		}
	}

	for _, n := range gv.Nodes.Nodes {
		nd := graph.Node{ID: unquote(n.Name)}
		var err error
		if nd.Width, err = floatAttr(n.Attrs, "width", dotNodeWidth); err != nil {
			return nil, fmt.Errorf("node %s: %w", nd.ID, err)
		}
		if nd.Height, err = floatAttr(n.Attrs, "height", dotNodeHeight); err != nil {
			return nil, fmt.Errorf("node %s: %w", nd.ID, err)
		}
		if err := g.AddNode(nd); err != nil {
			return nil, fmt.Errorf("node %s: %w", nd.ID, err)
		}
	}

	members := append(slices.Clone(clusters), nodeNames(gv)...)
	for _, name := range members {
		parent := enclosingCluster(gv, name)
		if parent == "" {
			continue
		}
		if err := g.SetParent(unquote(name), unquote(parent)); err != nil {
			return nil, fmt.Errorf("node %s: %w", name, err)
		}
	}

	seen := make(map[[2]string]int)
	for _, e := range gv.Edges.Edges {
		from, to := unquote(e.Src), unquote(e.Dst)
		edge := graph.NewEdge(from, to)
		pair := [2]string{from, to}
		if k := seen[pair]; k > 0 {
			edge.Name = strconv.Itoa(k)
		}
		seen[pair]++

		if err := applyEdgeAttrs(&edge, e.Attrs); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", from, to, err)
		}
		if err := g.AddEdge(edge); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", from, to, err)
		}
	}
	return g, nil
}

func applyEdgeAttrs(e *graph.Edge, attrs gographviz.Attrs) error {
	if v, ok := attrs["weight"]; ok {
		w, err := strconv.Atoi(unquote(v))
		if err != nil {
			return fmt.Errorf("weight %q: %w", v, err)
		}
		e.Weight = w
	}
	if v, ok := attrs["minlen"]; ok {
		m, err := strconv.Atoi(unquote(v))
		if err != nil {
			return fmt.Errorf("minlen %q: %w", v, err)
		}
		e.Minlen = m
	}
	if v, ok := attrs["label"]; ok {
		if text := unquote(v); text != "" {
			e.LabelWidth = float64(utf8.RuneCountInString(text) * dotLabelCharWidth)
			e.LabelHeight = dotLabelHeight
		}
	}
	if v, ok := attrs["labeljust"]; ok {
		switch pos := strings.ToLower(unquote(v)); pos {
		case graph.LabelLeft, graph.LabelRight, graph.LabelCenter:
			e.LabelPos = pos
		default:
			return fmt.Errorf("labeljust %q: want l, r or c", v)
		}
	}
	return nil
}

func floatAttr(attrs gographviz.Attrs, key gographviz.Attr, def float64) (float64, error) {
	v, ok := attrs[key]
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(unquote(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", key, v, err)
	}
	return f, nil
}

func nodeNames(gv *gographviz.Graph) []string {
	out := make([]string, len(gv.Nodes.Nodes))
	for i, n := range gv.Nodes.Nodes {
		out[i] = n.Name
	}
	return out
}

// enclosingCluster walks up the subgraph relations from name to the nearest
// cluster subgraph, or "" when there is none.
func enclosingCluster(gv *gographviz.Graph, name string) string {
	for {
		parents := gv.Relations.ChildToParents[name]
		candidates := make([]string, 0, len(parents))
		for p := range parents {
			if p != gv.Name && p != name {
				candidates = append(candidates, p)
			}
		}
		if len(candidates) == 0 {
			return ""
		}
		// A node listed in several subgraphs belongs to the first by name.
		slices.Sort(candidates)
		name = candidates[0]
		if isCluster(name) {
			return name
		}
	}
}

func isCluster(name string) bool {
	return strings.HasPrefix(unquote(name), "cluster")
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s
}
