package venn

import (
	"fmt"
	"strings"

	"github.com/matzehuels/bubbleset/pkg/core/geom"
)

// OutlineFunc renders the boundary of the intersection of circles.
type OutlineFunc func(circles []geom.Circle) string

// Outline returns an SVG path description of the area common to all circles.
// An empty intersection yields "M 0 0"; a boundary made of a single arc is
// drawn as a full circle.
func Outline(circles []geom.Circle) string {
	_, arcs := geom.IntersectionArea(circles)
	switch len(arcs) {
	case 0:
		return "M 0 0"
	case 1:
		c := arcs[0].Circle
		return CirclePath(c.X, c.Y, c.Radius)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\nM %s %s", num(arcs[0].P2.X), num(arcs[0].P2.Y))
	for _, a := range arcs {
		r := a.Circle.Radius
		wide := 0
		if a.Width > r {
			wide = 1
		}
		fmt.Fprintf(&b, " \nA %s %s 0 %d 1 %s %s", num(r), num(r), wide, num(a.P1.X), num(a.P1.Y))
	}
	return b.String()
}

// CirclePath draws a full circle as two relative arcs.
func CirclePath(x, y, r float64) string {
	return fmt.Sprintf("\nM %s %s \nm %s 0 \na %s %s 0 1 0 %s 0 \na %s %s 0 1 0 %s 0",
		num(x), num(y), num(-r), num(r), num(r), num(2*r), num(r), num(r), num(-2*r))
}

func num(v float64) string {
	return fmt.Sprintf("%g", v)
}
