// Package pack arranges circles hierarchically so that siblings touch but
// never overlap and every parent is the smallest circle enclosing its
// children.
//
// Sibling packing follows the front-chain method: circles are placed one at
// a time tangent to two circles on the current outer chain, backtracking
// along the chain whenever the new circle would intersect an existing one.
// The enclosing circle of each sibling group is found with Welzl's
// randomized algorithm, shuffled with the caller's seeded generator so
// layouts are reproducible.
//
// Leaves get radius sqrt(Value). [Layout] packs the tree bottom-up twice
// (once to measure, once with padding scaled to output units) and finally
// scales the result to fit the requested rectangle.
package pack
