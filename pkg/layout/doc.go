// Package layout turns a [graph.Graph] into a layered drawing.
//
// # Overview
//
// [Layout] is the single entry point. It validates the input, projects it
// onto a private scratch graph and runs the layered-drawing pipeline:
//
//  1. Break cycles by reversing a feedback set of edges
//  2. Assign ranks (network simplex, tight tree or longest path)
//  3. Honour manual layers and reserve ranks for edge labels
//  4. Split long edges into chains of dummy nodes and frame clusters with
//     border nodes
//  5. Order each rank to reduce crossings, respecting pinned orders
//  6. Assign coordinates with Brandes-Köpf and place ranks
//  7. Restore edges, clip them to node boundaries and translate the drawing
//     into its margins
//
// Results are written back onto the caller's graph only when every stage
// succeeds.
//
// # Options
//
// [Options] mirrors the familiar dagre/graphviz settings (rankdir, nodesep,
// edgesep, ranksep, margins, acyclicer, ranker, align). Zero values take
// their defaults. Options carry json, toml and yaml tags so they can be read
// from config files by the pipeline package.
//
// # Stability
//
// A previous layout can be fed back through [Options.PrevGraph]: shared
// nodes keep their relative order so that small edits to a graph produce
// small changes to its drawing. [Options.KeepNodeOrder] instead pins every
// rank to input order.
//
// # Errors
//
// Invalid options and inputs are CONFIGURATION errors from pkg/errors. A
// drawing that cannot be clipped, typically caused by manual layers and
// orders that stack connected nodes on top of each other, is a GEOMETRY
// error.
package layout
