// Package order reduces edge crossings by choosing the left-to-right order
// of nodes within each rank.
//
// Finding the order with the fewest crossings is NP-hard even for two ranks,
// so [Order] uses the layer-by-layer sweep heuristic: fix one rank, sort the
// next by the weighted median of each node's neighbours, and repeat in
// alternating directions while keeping the best layering seen. Cluster
// members stay contiguous between their border nodes, and nodes pinned with
// a FixOrder keep their relative order.
package order
