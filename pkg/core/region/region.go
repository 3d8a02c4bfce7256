// Package region derives placement geometry for aggregated regions.
//
// Once circles are solved and each region has a center, the inner radius is
// the largest distance a point may stray from that center without visually
// leaving the region or wandering into a sibling region. It is the tightest
// bound over every solved circle, classified relative to the region:
//
//   - Interior circles (the region is a member) bound by radius − d.
//   - Exterior circles that overlap an interior circle bound by d − radius.
//   - Exterior circles that overlap no interior circle bound by d + radius.
//
// where d is the distance from the region center to the circle center.
package region

import (
	"math"

	"github.com/matzehuels/bubbleset/pkg/core/geom"
	"github.com/matzehuels/bubbleset/pkg/core/sets"
)

// Kind classifies a circle relative to a region.
type Kind int

const (
	Interior Kind = iota
	ExteriorOverlapping
	ExteriorDisjoint
)

func (k Kind) String() string {
	switch k {
	case Interior:
		return "interior"
	case ExteriorOverlapping:
		return "exterior-overlapping"
	case ExteriorDisjoint:
		return "exterior-disjoint"
	}
	return "unknown"
}

// Classification is one circle's relation to a region and the bound it imposes.
type Classification struct {
	Set   string
	Kind  Kind
	Bound float64
}

// Classify relates every circle in circles to r, in table order.
func Classify(r *sets.Region, circles *geom.Table) []Classification {
	var interior []geom.Circle
	circles.Each(func(name string, c geom.Circle) {
		if r.Has(name) {
			interior = append(interior, c)
		}
	})

	out := make([]Classification, 0, circles.Len())
	circles.Each(func(name string, c geom.Circle) {
		d := geom.Distance(r.Center, c.Center())
		cl := Classification{Set: name}
		switch {
		case r.Has(name):
			cl.Kind = Interior
			cl.Bound = c.Radius - d
		case overlapsAny(c, interior):
			cl.Kind = ExteriorOverlapping
			cl.Bound = d - c.Radius
		default:
			cl.Kind = ExteriorDisjoint
			cl.Bound = d + c.Radius
		}
		out = append(out, cl)
	})
	return out
}

// overlapsAny reports whether c's center lies within any interior circle's radius.
func overlapsAny(c geom.Circle, interior []geom.Circle) bool {
	for _, in := range interior {
		if geom.CenterDistance(c, in) < in.Radius {
			return true
		}
	}
	return false
}

// InnerRadius returns the tightest bound over all circles, clamped at zero.
// With no circles, or when the bound is not finite, fallback is returned.
func InnerRadius(r *sets.Region, circles *geom.Table, fallback float64) float64 {
	if circles.Len() == 0 {
		return fallback
	}
	bound := math.Inf(1)
	for _, cl := range Classify(r, circles) {
		bound = min(bound, cl.Bound)
	}
	if !geom.Finite(bound) {
		return fallback
	}
	return max(bound, 0)
}

// Enrich assigns Center and InnerRadius to every region. Regions missing from
// centers keep their current center and receive the fallback radius.
func Enrich(regions *sets.Regions, circles *geom.Table, centers map[string]geom.Point, fallback float64) {
	for _, r := range regions.All() {
		c, ok := centers[r.Key]
		if !ok {
			r.InnerRadius = fallback
			continue
		}
		r.Center = c
		r.InnerRadius = InnerRadius(r, circles, fallback)
	}
}
