// Package geom provides the planar geometry shared by the bubble-set layout.
//
// # Overview
//
// Everything in a bubble-set diagram is a circle or a point inside one. This
// package holds the primitive types ([Point], [Circle]), the named circle
// table that every layout stage reads ([Table]), and the handful of circle
// computations the higher layers need:
//
//   - distance, containment and overlap tests
//   - circle-circle intersection points
//   - lens (pairwise overlap) area via [Overlap]
//   - the area and boundary arcs of an n-way intersection via [IntersectionArea]
//   - a bounded root finder, [Bisect], used to invert overlap areas into distances
//
// # Tolerance
//
// Containment tests accept a caller-supplied epsilon. [Small] (1e-10) is the
// tolerance used internally when classifying intersection points.
package geom
