// Package position computes coordinates for an ordered, layered graph.
//
// Y coordinates follow directly from the ranks. X coordinates come from the
// Brandes-Köpf heuristic: nodes are grouped into vertical blocks along
// median neighbours, blocks are compacted in four directions, and the
// candidates are aligned and balanced. Long edges, whose dummy chains form
// inner segments, are kept straight wherever possible.
//
// All coordinates assume ranks advance down the y axis; other rank
// directions are mapped by the transform package before and after.
package position
