// Package transform provides the graph rewrites that surround ranking,
// ordering and positioning in the layered layout pipeline.
//
// # Overview
//
// The core stages of a layered layout only understand a simple picture: an
// acyclic graph without loops, where every edge connects consecutive ranks
// and ranks advance down the y axis. Real input is messier. This package
// rewrites the scratch graph into that picture before the core stages run,
// and rewrites the results back afterwards. Most functions come in pairs:
//
//	BreakCycles          / UndoBreakCycles, ReversePoints
//	RemoveSelfEdges      / InsertSelfEdges, PositionSelfEdges
//	RunNesting           / CleanupNesting
//	InjectEdgeLabelProxies / RemoveEdgeLabelProxies
//	Subdivide            / Unsubdivide
//	AddBorderSegments    / RemoveBorderNodes
//	AdjustCoordinateSystem / UndoCoordinateSystem
//
// # Cycle Breaking
//
// [BreakCycles] reverses a feedback arc set, either found by depth-first
// search or by the greedy Eades-Lin-Smyth heuristic. Reversed edges remember
// their original name so [UndoBreakCycles] restores them exactly.
//
// # Clusters
//
// Clusters are compound nodes. [RunNesting] brackets each one with top and
// bottom border nodes tied to its members by heavy edges, so a flat ranker
// keeps clusters compact. [AddBorderSegments] later adds a left and right
// border node on every rank a cluster spans, and [RemoveBorderNodes] turns
// their final positions into the cluster's box.
//
// # Long Edges
//
// [Subdivide] breaks each edge spanning several ranks into a chain of dummy
// nodes. The dummies become the edge's bend points in [Unsubdivide]. One
// dummy per labelled edge is sized like the label, which reserves space for
// it in the drawing.
//
// # Geometry
//
// [Translate] moves the drawing to the origin and measures it, and
// [AssignNodeIntersects] clips every polyline to the boundary of its end
// nodes. Clipping fails with [ErrNoIntersection] when two connected nodes
// ended up at the same point.
package transform
