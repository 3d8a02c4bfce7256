package venn

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/bubbleset/pkg/core/geom"
)

// Descriptor is one region as seen by a solver.
type Descriptor struct {
	Key  string
	Size float64
	Sets []string

	// Synthetic marks a single-set region that no record matches exactly.
	// Its size repeats records already counted by other descriptors, so it
	// only names the set and adds no area.
	Synthetic bool
}

// Solver computes one circle per distinct set name referenced by the descriptors.
type Solver interface {
	Solve(areas []Descriptor) (*geom.Table, error)
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(areas []Descriptor) (*geom.Table, error)

// Solve calls f.
func (f SolverFunc) Solve(areas []Descriptor) (*geom.Table, error) { return f(areas) }

// Greedy is the default solver.
//
// Each descriptor's size is treated as the area of its exclusive region, so a
// set's circle area is the sum of sizes of every descriptor containing it and
// the overlap of two sets is the sum of sizes of descriptors containing both.
// Synthetic descriptors contribute no area.
// Circles are placed in order of decreasing total overlap; each is put at the
// candidate position with the lowest squared overlap error against the
// circles already placed.
type Greedy struct {
	// Gap separates components that share no overlap. Defaults to 10% of the
	// largest radius when zero.
	Gap float64
}

type pairOverlap struct {
	set    string
	size   float64
	weight float64
}

// Solve implements Solver.
func (g Greedy) Solve(areas []Descriptor) (*geom.Table, error) {
	var names []string
	areaOf := make(map[string]float64)
	for _, a := range areas {
		for _, s := range a.Sets {
			if _, ok := areaOf[s]; !ok {
				names = append(names, s)
			}
			areaOf[s] += exclusiveSize(a)
		}
	}

	circles := make(map[string]*geom.Circle, len(names))
	for _, n := range names {
		circles[n] = &geom.Circle{Radius: math.Sqrt(areaOf[n] / math.Pi)}
	}

	overlaps := make(map[string][]pairOverlap, len(names))
	for i, a := range names {
		for _, b := range names[i+1:] {
			size := sharedSize(areas, a, b)
			w := 1.0
			if size+geom.Small >= min(areaOf[a], areaOf[b]) {
				w = 0
			}
			overlaps[a] = append(overlaps[a], pairOverlap{set: b, size: size, weight: w})
			overlaps[b] = append(overlaps[b], pairOverlap{set: a, size: size, weight: w})
		}
	}

	order := slices.Clone(names)
	weighted := make(map[string]float64, len(names))
	for _, n := range names {
		for _, o := range overlaps[n] {
			weighted[n] += o.size * o.weight
		}
	}
	slices.SortStableFunc(order, func(a, b string) int {
		return cmp.Compare(weighted[b], weighted[a])
	})

	table := geom.NewTable()
	if len(order) == 0 {
		return table, nil
	}

	placed := map[string]bool{order[0]: true}
	for _, name := range order[1:] {
		c := circles[name]
		var touching []pairOverlap
		for _, o := range overlaps[name] {
			if placed[o.set] && o.size > 0 {
				touching = append(touching, o)
			}
		}
		if len(touching) == 0 {
			g.placeBeside(c, circles, placed)
			placed[name] = true
			continue
		}
		slices.SortStableFunc(touching, func(a, b pairOverlap) int { return cmp.Compare(b.size, a.size) })

		best, bestLoss := geom.Point{}, math.Inf(1)
		for _, p := range candidates(c.Radius, touching, circles) {
			c.X, c.Y = p.X, p.Y
			if l := loss(circles, placed, name, overlaps); l < bestLoss {
				best, bestLoss = p, l
			}
		}
		c.X, c.Y = best.X, best.Y
		placed[name] = true
	}

	for _, n := range names {
		table.Set(n, *circles[n])
	}
	return table, nil
}

// sharedSize sums the sizes of descriptors containing both a and b.
func exclusiveSize(d Descriptor) float64 {
	if d.Synthetic {
		return 0
	}
	return max(d.Size, 0)
}

func sharedSize(areas []Descriptor, a, b string) float64 {
	var total float64
	for _, d := range areas {
		if slices.Contains(d.Sets, a) && slices.Contains(d.Sets, b) {
			total += exclusiveSize(d)
		}
	}
	return total
}

// candidates proposes positions for a circle of radius r at the distance
// implied by each requested overlap, plus the crossings of those distance rings.
func candidates(r float64, touching []pairOverlap, circles map[string]*geom.Circle) []geom.Point {
	var pts []geom.Point
	for j, o := range touching {
		p1 := circles[o.set]
		d1 := DistanceForOverlap(r, p1.Radius, o.size)
		pts = append(pts,
			geom.Point{X: p1.X + d1, Y: p1.Y},
			geom.Point{X: p1.X - d1, Y: p1.Y},
			geom.Point{X: p1.X, Y: p1.Y + d1},
			geom.Point{X: p1.X, Y: p1.Y - d1},
		)
		for _, o2 := range touching[j+1:] {
			p2 := circles[o2.set]
			d2 := DistanceForOverlap(r, p2.Radius, o2.size)
			pts = append(pts, geom.CircleIntersection(
				geom.Circle{X: p1.X, Y: p1.Y, Radius: d1},
				geom.Circle{X: p2.X, Y: p2.Y, Radius: d2},
			)...)
		}
	}
	return pts
}

// loss is the weighted squared overlap error between name and every placed circle.
func loss(circles map[string]*geom.Circle, placed map[string]bool, name string, overlaps map[string][]pairOverlap) float64 {
	c := circles[name]
	var total float64
	for _, o := range overlaps[name] {
		if !placed[o.set] {
			continue
		}
		other := circles[o.set]
		got := geom.Overlap(c.Radius, other.Radius, geom.CenterDistance(*c, *other))
		total += o.weight * (got - o.size) * (got - o.size)
	}
	return total
}

// placeBeside puts c to the right of everything placed so far, vertically
// aligned with the first placed circle.
func (g Greedy) placeBeside(c *geom.Circle, circles map[string]*geom.Circle, placed map[string]bool) {
	var placedCircles []geom.Circle
	var maxR float64
	for n := range placed {
		placedCircles = append(placedCircles, *circles[n])
		maxR = max(maxR, circles[n].Radius)
	}
	gap := g.Gap
	if gap <= 0 {
		gap = 0.1 * max(maxR, c.Radius)
	}
	_, minY, maxX, maxY := geom.Bounds(placedCircles)
	c.X = maxX + gap + c.Radius
	c.Y = (minY + maxY) / 2
}

// DistanceForOverlap returns the center distance at which circles of radii
// r1 and r2 share the given area. Requests at or above the smaller circle's
// area return |r1 − r2| (full containment); zero overlap returns r1 + r2.
func DistanceForOverlap(r1, r2, overlap float64) float64 {
	m := min(r1, r2)
	if m*m*math.Pi <= overlap+geom.Small {
		return math.Abs(r1 - r2)
	}
	if overlap <= 0 {
		return r1 + r2
	}
	d, ok := geom.Bisect(func(d float64) float64 {
		return geom.Overlap(r1, r2, d) - overlap
	}, 0, r1+r2)
	if !ok {
		return r1 + r2
	}
	return d
}
