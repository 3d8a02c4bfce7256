package force

import (
	"math"
	"math/rand/v2"
)

// Collide pushes apart nodes whose circles overlap. Larger nodes move less.
type Collide struct {
	// Radius returns the collision radius of a node.
	Radius     func(*Node) float64
	Strength   float64
	Iterations int

	nodes []*Node
	radii []float64
	rng   *rand.Rand
}

// NewCollide returns a collide force with strength 1 and one iteration.
func NewCollide(radius func(*Node) float64) *Collide {
	return &Collide{Radius: radius, Strength: 1, Iterations: 1}
}

func (c *Collide) Initialize(nodes []*Node, rng *rand.Rand) {
	c.nodes, c.rng = nodes, rng
	c.radii = make([]float64, len(nodes))
	for i, n := range nodes {
		c.radii[i] = max(0, c.Radius(n))
	}
}

func (c *Collide) Apply(float64) {
	for range max(1, c.Iterations) {
		for i, a := range c.nodes {
			ri := c.radii[i]
			xi, yi := a.X+a.VX, a.Y+a.VY
			for j := i + 1; j < len(c.nodes); j++ {
				b := c.nodes[j]
				rj := c.radii[j]
				r := ri + rj
				x := xi - b.X - b.VX
				y := yi - b.Y - b.VY
				l := x*x + y*y
				if l >= r*r {
					continue
				}
				if x == 0 {
					x = c.jiggle()
					l += x * x
				}
				if y == 0 {
					y = c.jiggle()
					l += y * y
				}
				l = math.Sqrt(l)
				l = (r - l) / l * c.Strength
				x *= l
				y *= l
				share := rj * rj / (ri*ri + rj*rj)
				a.VX += x * share
				a.VY += y * share
				b.VX -= x * (1 - share)
				b.VY -= y * (1 - share)
			}
		}
	}
}

func (c *Collide) jiggle() float64 {
	return (c.rng.Float64() - 0.5) * 1e-6
}
