// Package venn supplies the circle-level collaborators of the bubble-set layout.
//
// The layout core consumes four narrow contracts, each with a default
// implementation here:
//
//   - [Solver] turns region sizes into one circle per set. [Greedy] places
//     circles one at a time at the candidate point that best reproduces the
//     requested pairwise overlaps.
//   - [Scale] fits a solution into a canvas of a given size and padding.
//   - [Centers] finds, for every region, the point deepest inside that region.
//   - [Outline] renders the boundary of the intersection of a set of circles
//     as an SVG path description.
//
// Any of them can be replaced: the layout only depends on the function and
// interface signatures.
package venn
