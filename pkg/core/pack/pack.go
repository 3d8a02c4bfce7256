package pack

import (
	"math"
	"math/rand/v2"
)

// Node is one circle in the hierarchy. Leaves carry a Value; internal nodes
// are sized by their children. X, Y and R are written by [Layout].
type Node struct {
	Value    float64
	Children []*Node
	Data     any

	X, Y, R float64
}

// Leaf reports whether n has no children.
func (n *Node) Leaf() bool { return len(n.Children) == 0 }

// Leaves returns the leaf nodes under n in depth-first order.
func (n *Node) Leaves() []*Node {
	if n.Leaf() {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// Layout packs root into a width × height rectangle centred at
// (width/2, height/2). padding is the gap between sibling circles in output
// units. A degenerate rectangle or a tree without positive values collapses
// every node onto the center with zero radius.
func Layout(root *Node, width, height, padding float64, rng *rand.Rand) {
	size := min(width, height)
	root.X, root.Y = width/2, height/2

	eachAfter(root, func(n *Node) {
		if n.Leaf() {
			n.R = math.Sqrt(max(0, n.Value))
		}
	})
	eachAfter(root, func(n *Node) { packChildren(n, 0, rng) })
	if size <= 0 || root.R <= 0 || !finite(root.R) {
		collapse(root, root.X, root.Y)
		return
	}
	k := root.R / size
	eachAfter(root, func(n *Node) { packChildren(n, padding*k, rng) })

	scale := size / (2 * root.R)
	eachBefore(root, nil, func(n, parent *Node) {
		n.R *= scale
		if parent != nil {
			n.X = parent.X + scale*n.X
			n.Y = parent.Y + scale*n.Y
		}
	})
}

// packChildren packs the children of n around the origin, inflating each by
// pad, and sets n.R to the enclosing radius.
func packChildren(n *Node, pad float64, rng *rand.Rand) {
	if n.Leaf() {
		return
	}
	circles := make([]*circle, len(n.Children))
	for i, c := range n.Children {
		circles[i] = &circle{r: c.R + pad}
	}
	e := siblings(circles, rng)
	for i, c := range n.Children {
		c.X, c.Y = circles[i].x, circles[i].y
	}
	n.R = e + pad
}

func collapse(n *Node, x, y float64) {
	eachBefore(n, nil, func(c, _ *Node) {
		c.X, c.Y, c.R = x, y, 0
	})
}

func eachAfter(n *Node, fn func(*Node)) {
	for _, c := range n.Children {
		eachAfter(c, fn)
	}
	fn(n)
}

func eachBefore(n, parent *Node, fn func(n, parent *Node)) {
	fn(n, parent)
	for _, c := range n.Children {
		eachBefore(c, n, fn)
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
