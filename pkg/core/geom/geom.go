package geom

import "math"

// Small is the tolerance used when testing intersection points against circles.
const Small = 1e-10

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Circle is a disk with center (X, Y).
type Circle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Center returns the circle's center point.
func (c Circle) Center() Point { return Point{X: c.X, Y: c.Y} }

// Area returns the area of the disk.
func (c Circle) Area() float64 { return math.Pi * c.Radius * c.Radius }

// Contains reports whether p lies within the circle, allowing eps of slack.
func (c Circle) Contains(p Point, eps float64) bool {
	return Distance(p, c.Center()) <= c.Radius+eps
}

// Excludes reports whether p lies strictly outside the circle.
func (c Circle) Excludes(p Point) bool {
	return Distance(p, c.Center()) > c.Radius
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// CenterDistance returns the distance between the centers of a and b.
func CenterDistance(a, b Circle) float64 {
	return Distance(a.Center(), b.Center())
}

// Lerp blends a and b with weights (1-t, t) independently for x, y and radius.
func Lerp(a, b Circle, t float64) Circle {
	return Circle{
		X:      a.X*(1-t) + b.X*t,
		Y:      a.Y*(1-t) + b.Y*t,
		Radius: a.Radius*(1-t) + b.Radius*t,
	}
}

// Centroid returns the mean of pts, or the zero point for an empty slice.
func Centroid(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var c Point
	for _, p := range pts {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(pts))
	return Point{X: c.X / n, Y: c.Y / n}
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Bounds returns the axis-aligned bounding box of circles as (minX, minY, maxX, maxY).
// An empty slice yields all zeros.
func Bounds(circles []Circle) (minX, minY, maxX, maxY float64) {
	if len(circles) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, c := range circles {
		minX = min(minX, c.X-c.Radius)
		minY = min(minY, c.Y-c.Radius)
		maxX = max(maxX, c.X+c.Radius)
		maxY = max(maxY, c.Y+c.Radius)
	}
	return minX, minY, maxX, maxY
}
