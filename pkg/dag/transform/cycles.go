package transform

import (
	"errors"
	"fmt"

	"github.com/matzehuels/layered/pkg/dag"
)

// Acyclicer names accepted by [BreakCycles].
const (
	AcyclicerDFS    = "dfs"
	AcyclicerGreedy = "greedy"
)

// ErrUnknownAcyclicer is returned by [BreakCycles] for an unsupported
// Settings.Acyclicer value.
var ErrUnknownAcyclicer = errors.New("unknown acyclicer")

// BreakCycles makes g acyclic by reversing a feedback arc set and returns the
// number of reversed edges. Self-loops must already be detached.
//
// With the default "dfs" acyclicer, a depth-first search starts from the
// sources and then from any node left unvisited, in insertion order; an edge
// into a node that is still on the DFS stack closes a cycle and is reversed.
// The "greedy" acyclicer uses the Eades-Lin-Smyth heuristic instead, which
// prefers reversing light edges.
//
// Reversed edges keep their label with Reversed set and the original name in
// ForwardName, so [UndoBreakCycles] can restore them exactly.
func BreakCycles(g *dag.Graph) (int, error) {
	var fas []*dag.Edge
	switch g.Acyclicer {
	case "", AcyclicerDFS:
		fas = dfsFAS(g)
	case AcyclicerGreedy:
		fas = greedyFAS(g)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAcyclicer, g.Acyclicer)
	}

	for _, e := range fas {
		label := e.Label
		g.RemoveEdge(e)
		label.ForwardName = e.Name
		label.Reversed = true
		g.SetEdge(e.W, e.V, g.UniqueID("rev"), label)
	}
	return len(fas), nil
}

func dfsFAS(g *dag.Graph) []*dag.Edge {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var fas []*dag.Edge

	var dfs func(v string)
	dfs = func(v string) {
		color[v] = gray
		for _, e := range g.OutEdges(v) {
			switch color[e.W] {
			case white:
				dfs(e.W)
			case gray:
				fas = append(fas, e)
			}
		}
		color[v] = black
	}

	for _, v := range g.Sources() {
		if color[v] == white {
			dfs(v)
		}
	}
	for _, v := range g.NodeIDs() {
		if color[v] == white {
			dfs(v)
		}
	}
	return fas
}

// UndoBreakCycles restores every edge reversed by [BreakCycles] to its
// original direction and name.
func UndoBreakCycles(g *dag.Graph) {
	for _, e := range g.Edges() {
		label := e.Label
		if !label.Reversed {
			continue
		}
		g.RemoveEdge(e)
		name := label.ForwardName
		label.Reversed = false
		label.ForwardName = ""
		g.SetEdge(e.W, e.V, name, label)
	}
}

// ReversePoints flips the polyline of every reversed edge so it runs from
// the original source to the original target. Call it before
// [UndoBreakCycles].
func ReversePoints(g *dag.Graph) {
	for _, e := range g.Edges() {
		if e.Label.Reversed {
			pts := e.Label.Points
			for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
				pts[i], pts[j] = pts[j], pts[i]
			}
		}
	}
}
