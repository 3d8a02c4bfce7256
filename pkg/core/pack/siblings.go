package pack

import (
	"math"
	"math/rand/v2"
)

type circle struct {
	x, y, r float64
}

// chain is a node of the doubly linked front chain.
type chain struct {
	c          *circle
	next, prev *chain
}

// siblings places circles tangent to one another around the origin without
// overlap and returns the radius of their enclosing circle, which is
// centred on the origin. Only the radii of the input are read.
func siblings(circles []*circle, rng *rand.Rand) float64 {
	n := len(circles)
	if n == 0 {
		return 0
	}

	a := circles[0]
	a.x, a.y = 0, 0
	if n == 1 {
		return a.r
	}

	b := circles[1]
	a.x, b.x, b.y = -b.r, a.r, 0
	if n == 2 {
		return a.r + b.r
	}

	place(b, a, circles[2])

	ca, cb, cc := &chain{c: a}, &chain{c: b}, &chain{c: circles[2]}
	ca.next, cc.prev = cb, cb
	cb.next, ca.prev = cc, cc
	cc.next, cb.prev = ca, ca

	for i := 3; i < n; i++ {
		place(ca.c, cb.c, circles[i])
		c := &chain{c: circles[i]}

		// Search the chain outward from a and b for the nearest intersecting circle.
		j, k := cb.next, ca.prev
		sj, sk := cb.c.r, ca.c.r
		blocked := false
		for {
			if sj <= sk {
				if intersects(j.c, c.c) {
					cb = j
					ca.next, cb.prev = cb, ca
					blocked = true
					break
				}
				sj += j.c.r
				j = j.next
			} else {
				if intersects(k.c, c.c) {
					ca = k
					ca.next, cb.prev = cb, ca
					blocked = true
					break
				}
				sk += k.c.r
				k = k.prev
			}
			if j == k.next {
				break
			}
		}
		if blocked {
			i--
			continue
		}

		c.prev, c.next = ca, cb
		ca.next, cb.prev = c, c
		cb = c

		// Pick the chain pair whose weighted midpoint is closest to the origin.
		best := score(ca)
		for c = c.next; c != cb; c = c.next {
			if s := score(c); s < best {
				ca, best = c, s
			}
		}
		cb = ca.next
	}

	front := []*circle{cb.c}
	for c := cb.next; c != cb; c = c.next {
		front = append(front, c.c)
	}
	e := enclose(front, rng)
	for _, c := range circles {
		c.x -= e.x
		c.y -= e.y
	}
	return e.r
}

// place positions c tangent to both a and b.
func place(b, a, c *circle) {
	dx, dy := b.x-a.x, b.y-a.y
	d2 := dx*dx + dy*dy
	if d2 == 0 {
		c.x, c.y = a.x+c.r, a.y
		return
	}
	a2 := (a.r + c.r) * (a.r + c.r)
	b2 := (b.r + c.r) * (b.r + c.r)
	if a2 > b2 {
		x := (d2 + b2 - a2) / (2 * d2)
		y := math.Sqrt(max(0, b2/d2-x*x))
		c.x = b.x - x*dx - y*dy
		c.y = b.y - x*dy + y*dx
	} else {
		x := (d2 + a2 - b2) / (2 * d2)
		y := math.Sqrt(max(0, a2/d2-x*x))
		c.x = a.x + x*dx - y*dy
		c.y = a.y + x*dy + y*dx
	}
}

func intersects(a, b *circle) bool {
	dr := a.r + b.r - 1e-6
	dx, dy := b.x-a.x, b.y-a.y
	return dr > 0 && dr*dr > dx*dx+dy*dy
}

func score(n *chain) float64 {
	a, b := n.c, n.next.c
	ab := a.r + b.r
	dx := (a.x*b.r + b.x*a.r) / ab
	dy := (a.y*b.r + b.y*a.r) / ab
	return dx*dx + dy*dy
}
