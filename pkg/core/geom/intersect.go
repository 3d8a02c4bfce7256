package geom

import (
	"cmp"
	"math"
	"slices"
)

// IntersectionPoint is a crossing of two circle boundaries.
// Parents holds the indices of the two circles that produced it.
type IntersectionPoint struct {
	Point
	Parents [2]int
	angle   float64
}

// Arc is one boundary segment of an intersection region.
// The arc runs along Circle from P2 to P1; Width is the sagitta of the arc,
// which exceeds the radius when the arc spans more than a half circle.
type Arc struct {
	Circle Circle
	P1, P2 Point
	Width  float64
}

// CircleIntersection returns the points where the boundaries of a and b cross.
// Disjoint, contained and coincident circles have no crossings.
func CircleIntersection(a, b Circle) []Point {
	d := CenterDistance(a, b)
	r1, r2 := a.Radius, b.Radius
	if d >= r1+r2 || d <= math.Abs(r1-r2) {
		return nil
	}
	l := (r1*r1 - r2*r2 + d*d) / (2 * d)
	h := math.Sqrt(r1*r1 - l*l)
	x0 := a.X + l*(b.X-a.X)/d
	y0 := a.Y + l*(b.Y-a.Y)/d
	rx := -(b.Y - a.Y) * (h / d)
	ry := -(b.X - a.X) * (h / d)
	return []Point{
		{X: x0 + rx, Y: y0 - ry},
		{X: x0 - rx, Y: y0 + ry},
	}
}

// SegmentArea returns the area of a circular segment of radius r and sagitta width.
func SegmentArea(r, width float64) float64 {
	return r*r*math.Acos(1-width/r) - (r-width)*math.Sqrt(width*(2*r-width))
}

// Overlap returns the area of the lens shared by circles of radii r1 and r2
// whose centers are d apart.
func Overlap(r1, r2, d float64) float64 {
	if d >= r1+r2 {
		return 0
	}
	if d <= math.Abs(r1-r2) {
		m := min(r1, r2)
		return math.Pi * m * m
	}
	w1 := r1 - (d*d-r2*r2+r1*r1)/(2*d)
	w2 := r2 - (d*d-r1*r1+r2*r2)/(2*d)
	return SegmentArea(r1, w1) + SegmentArea(r2, w2)
}

// ContainedInAll reports whether p lies inside every circle, within Small.
func ContainedInAll(p Point, circles []Circle) bool {
	for _, c := range circles {
		if !c.Contains(p, Small) {
			return false
		}
	}
	return true
}

// IntersectionArea returns the area common to all circles together with the
// arcs bounding that area, ordered around its centroid.
func IntersectionArea(circles []Circle) (float64, []Arc) {
	if len(circles) == 0 {
		return 0, nil
	}

	var inner []IntersectionPoint
	for i := range circles {
		for j := i + 1; j < len(circles); j++ {
			for _, p := range CircleIntersection(circles[i], circles[j]) {
				if ContainedInAll(p, circles) {
					inner = append(inner, IntersectionPoint{Point: p, Parents: [2]int{i, j}})
				}
			}
		}
	}

	if len(inner) <= 1 {
		return containedArea(circles)
	}

	pts := make([]Point, len(inner))
	for i, p := range inner {
		pts[i] = p.Point
	}
	center := Centroid(pts)
	for i := range inner {
		inner[i].angle = math.Atan2(inner[i].X-center.X, inner[i].Y-center.Y)
	}
	slices.SortStableFunc(inner, func(a, b IntersectionPoint) int {
		return cmp.Compare(b.angle, a.angle)
	})

	var arcs []Arc
	var arcArea, polygonArea float64
	p2 := inner[len(inner)-1]
	for _, p1 := range inner {
		polygonArea += (p2.X + p1.X) * (p1.Y - p2.Y)
		mid := Point{X: (p1.X + p2.X) / 2, Y: (p1.Y + p2.Y) / 2}

		var best *Arc
		for _, pi := range p1.Parents {
			if pi != p2.Parents[0] && pi != p2.Parents[1] {
				continue
			}
			c := circles[pi]
			a1 := math.Atan2(p1.X-c.X, p1.Y-c.Y)
			a2 := math.Atan2(p2.X-c.X, p2.Y-c.Y)
			diff := a2 - a1
			if diff < 0 {
				diff += 2 * math.Pi
			}
			a := a2 - diff/2
			width := Distance(mid, Point{X: c.X + c.Radius*math.Sin(a), Y: c.Y + c.Radius*math.Cos(a)})
			width = min(width, c.Radius*2)
			if best == nil || best.Width > width {
				best = &Arc{Circle: c, Width: width, P1: p1.Point, P2: p2.Point}
			}
		}
		if best != nil {
			arcs = append(arcs, *best)
			arcArea += SegmentArea(best.Circle.Radius, best.Width)
			p2 = p1
		}
	}
	return arcArea + polygonArea/2, arcs
}

// containedArea handles the case with fewer than two boundary crossings:
// either the smallest circle lies inside all others, or the set is disjoint.
func containedArea(circles []Circle) (float64, []Arc) {
	smallest := circles[0]
	for _, c := range circles[1:] {
		if c.Radius < smallest.Radius {
			smallest = c
		}
	}
	for _, c := range circles {
		if CenterDistance(c, smallest) > math.Abs(smallest.Radius-c.Radius) {
			return 0, nil
		}
	}
	arc := Arc{
		Circle: smallest,
		P1:     Point{X: smallest.X, Y: smallest.Y + smallest.Radius},
		P2:     Point{X: smallest.X - Small, Y: smallest.Y + smallest.Radius},
		Width:  smallest.Radius * 2,
	}
	return smallest.Area(), []Arc{arc}
}

// Bisect finds a root of f in [a, b], where f(a) and f(b) have opposite signs
// (or one of them is zero). It stops after 100 halvings or when the interval
// is narrower than 1e-10. ok is false when the endpoints share a sign.
func Bisect(f func(float64) float64, a, b float64) (root float64, ok bool) {
	fa, fb := f(a), f(b)
	if fa*fb > 0 {
		return 0, false
	}
	if fa == 0 {
		return a, true
	}
	if fb == 0 {
		return b, true
	}
	delta := b - a
	for range 100 {
		delta /= 2
		mid := a + delta
		fm := f(mid)
		if fm*fa >= 0 {
			a = mid
		}
		if math.Abs(delta) < 1e-10 || fm == 0 {
			return mid, true
		}
	}
	return a + delta, true
}
