// Package io reads and writes graphs for layout.
//
// # JSON Format
//
// The JSON format has two required top-level arrays:
//
//	{
//	  "nodes": [
//	    {"id": "backend"},
//	    {"id": "api", "width": 80, "height": 40, "parent": "backend"},
//	    {"id": "db", "width": 80, "height": 40, "parent": "backend", "layer": 2}
//	  ],
//	  "edges": [
//	    {"from": "api", "to": "db", "minlen": 2, "label_width": 30, "label_height": 12}
//	  ]
//	}
//
// Node fields:
//   - id: Unique string identifier (required)
//   - width, height: Box size
//   - parent: Enclosing cluster
//   - layer: Relative rank pin
//   - fixorder: Order pin among pinned siblings
//   - meta: Freeform object, carried along untouched
//   - x, y, rank, order: Layout results (ignored on input)
//
// Edge fields:
//   - from, to: Endpoint IDs (required)
//   - name: Distinguishes parallel edges
//   - weight, minlen: Ranking attributes (default 1)
//   - label_width, label_height: Label box (none when zero)
//   - labelpos: "l", "r" or "c" (default "r")
//   - labeloffset: Gap between edge and off-centre label (default 10)
//   - points, label_x, label_y: Layout results
//
// Use [ImportJSON] and [ExportJSON] for files, [ReadJSON] and [WriteJSON]
// for streams. Output is written in input order, so a laid-out graph can be
// fed back as the previous layout of a later run.
//
// # DOT Import
//
// [ReadDOT] and [ImportDOT] accept Graphviz DOT. Cluster subgraphs become
// cluster nodes; see [ReadDOT] for the attributes that are read. There is
// no DOT writer.
//
// # Concurrency
//
// All functions create or read independent graphs and are safe to call
// concurrently, as long as no one writes the graph being exported.
package io
