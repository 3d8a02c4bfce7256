package venn

import "github.com/matzehuels/bubbleset/pkg/core/geom"

// Scale fits the solution into a width × height canvas with padding on every
// side, preserving aspect ratio and centering the result. A solution with
// zero horizontal or vertical extent is returned unchanged.
func Scale(solution *geom.Table, width, height, padding float64) *geom.Table {
	circles := solution.Circles()
	minX, minY, maxX, maxY := geom.Bounds(circles)
	if maxX == minX || maxY == minY {
		return solution.Clone()
	}

	width -= 2 * padding
	height -= 2 * padding
	scaling := min(width/(maxX-minX), height/(maxY-minY))
	xOffset := (width - (maxX-minX)*scaling) / 2
	yOffset := (height - (maxY-minY)*scaling) / 2

	out := geom.NewTable()
	solution.Each(func(name string, c geom.Circle) {
		out.Set(name, geom.Circle{
			X:      padding + xOffset + (c.X-minX)*scaling,
			Y:      padding + yOffset + (c.Y-minY)*scaling,
			Radius: c.Radius * scaling,
		})
	})
	return out
}
