// Package rank assigns nodes of an acyclic graph to integer ranks.
//
// Every edge v->w must end up at least minlen ranks below its source. Among
// all such rankings, the default [NetworkSimplex] strategy finds one that
// minimizes the total weighted edge length, which keeps drawings short and
// edges straight. [TightTree] and [LongestPath] trade quality for speed.
//
// [ApplyLayers] then honours manual layer pins on top of the computed ranks.
package rank
