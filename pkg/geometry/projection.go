// Package geometry maps roof-plan coordinates to the projected display plane.
//
// The projection is a 2:1 pseudo-isometric view:
//
//	px = x - y
//	py = (x + y) / 2
//
// and [FromProjected] is its exact inverse. Display layers draw outlets at
// projected positions; drag edits arrive as projected deltas and are mapped
// back to plan coordinates with [Translate] before they reach the designer.
//
// All functions are pure and total over finite inputs.
package geometry

import "math"

// Point is a position in the roof plan, in metres.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Projected is a position in the projected display plane.
type Projected struct {
	PX float64 `json:"px"`
	PY float64 `json:"py"`
}

// ToProjected maps plan coordinates to projected coordinates.
func ToProjected(x, y float64) (px, py float64) {
	return x - y, (x + y) / 2
}

// FromProjected maps projected coordinates back to plan coordinates.
func FromProjected(px, py float64) (x, y float64) {
	return (px + 2*py) / 2, (2*py - px) / 2
}

// Project is the Point form of [ToProjected].
func (p Point) Project() Projected {
	px, py := ToProjected(p.X, p.Y)
	return Projected{PX: px, PY: py}
}

// Unproject is the Projected form of [FromProjected].
func (p Projected) Unproject() Point {
	x, y := FromProjected(p.PX, p.PY)
	return Point{X: x, Y: y}
}

// Translate moves the plan point (x, y) by a delta expressed in projected
// coordinates and returns the new plan position.
func Translate(x, y, dpx, dpy float64) (float64, float64) {
	px, py := ToProjected(x, y)
	return FromProjected(px+dpx, py+dpy)
}

// Distance returns the Euclidean distance between two plan points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
