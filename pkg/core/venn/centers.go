package venn

import (
	"math"

	"github.com/matzehuels/bubbleset/pkg/core/geom"
	"github.com/matzehuels/bubbleset/pkg/core/sets"
)

// Centers returns, for every region, the point that maximizes its margin:
// the smallest of (r − d) over interior circles and (d − r) over all other
// circles. Regions whose sets have no circle are omitted.
func Centers(circles *geom.Table, regions *sets.Regions) map[string]geom.Point {
	out := make(map[string]geom.Point, regions.Len())
	for _, r := range regions.All() {
		var interior, exterior []geom.Circle
		missing := false
		for _, s := range r.Sets {
			c, ok := circles.Get(s)
			if !ok {
				missing = true
				break
			}
			interior = append(interior, c)
		}
		if missing || len(interior) == 0 {
			continue
		}
		circles.Each(func(name string, c geom.Circle) {
			if !r.Has(name) {
				exterior = append(exterior, c)
			}
		})
		out[r.Key] = Center(interior, exterior)
	}
	return out
}

// Margin is the signed clearance of p: positive inside every interior circle
// and outside every exterior circle.
func Margin(p geom.Point, interior, exterior []geom.Circle) float64 {
	m := math.Inf(1)
	for _, c := range interior {
		m = min(m, c.Radius-geom.Distance(p, c.Center()))
	}
	for _, c := range exterior {
		m = min(m, geom.Distance(p, c.Center())-c.Radius)
	}
	return m
}

// Center locates the deepest point of the area inside all of interior and
// outside all of exterior. When no such point exists it degrades to the
// interior circle's center, the centroid of the intersection boundary, or
// the best point ignoring exterior circles.
func Center(interior, exterior []geom.Circle) geom.Point {
	if len(interior) == 0 {
		return geom.Point{}
	}
	var seeds []geom.Point
	for _, c := range interior {
		h := c.Radius / 2
		seeds = append(seeds,
			geom.Point{X: c.X, Y: c.Y},
			geom.Point{X: c.X + h, Y: c.Y},
			geom.Point{X: c.X - h, Y: c.Y},
			geom.Point{X: c.X, Y: c.Y + h},
			geom.Point{X: c.X, Y: c.Y - h},
		)
	}

	best, bestMargin := seeds[0], Margin(seeds[0], interior, exterior)
	for _, p := range seeds[1:] {
		if m := Margin(p, interior, exterior); m >= bestMargin {
			best, bestMargin = p, m
		}
	}

	step := 0.0
	for _, c := range interior {
		step = max(step, c.Radius/4)
	}
	best = maximize(func(p geom.Point) float64 { return Margin(p, interior, exterior) }, best, step)

	if valid(best, interior, exterior) {
		return best
	}
	if len(interior) == 1 {
		return interior[0].Center()
	}
	_, arcs := geom.IntersectionArea(interior)
	switch {
	case len(arcs) == 0:
		centers := make([]geom.Point, len(interior))
		for i, c := range interior {
			centers[i] = c.Center()
		}
		return geom.Centroid(centers)
	case len(arcs) == 1:
		return arcs[0].Circle.Center()
	case len(exterior) > 0:
		return Center(interior, nil)
	}
	pts := make([]geom.Point, len(arcs))
	for i, a := range arcs {
		pts[i] = a.P1
	}
	return geom.Centroid(pts)
}

func valid(p geom.Point, interior, exterior []geom.Circle) bool {
	for _, c := range interior {
		if geom.Distance(p, c.Center()) > c.Radius {
			return false
		}
	}
	for _, c := range exterior {
		if geom.Distance(p, c.Center()) < c.Radius {
			return false
		}
	}
	return true
}

// maximize runs a compass search: try the eight neighbours at the current
// step, move to any improvement, otherwise halve the step.
func maximize(f func(geom.Point) float64, start geom.Point, step float64) geom.Point {
	const minStep = 1e-6
	best, value := start, f(start)
	dirs := [8][2]float64{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	for iter := 0; step > minStep && iter < 2000; iter++ {
		improved := false
		for _, d := range dirs {
			p := geom.Point{X: best.X + d[0]*step, Y: best.Y + d[1]*step}
			if v := f(p); v > value {
				best, value, improved = p, v, true
			}
		}
		if !improved {
			step /= 2
		}
	}
	return best
}
