// Package vmath provides the small value types shared by the grid and the simulator.
package vmath

import "math"

// Vector2 is a 2-component float64 vector with value semantics.
// Every operation returns a new value; the receiver is never modified.
type Vector2 struct {
	X, Y float64
}

// Vec is shorthand for Vector2{X: x, Y: y}.
func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// LenSquared returns x² + y².
func (v Vector2) LenSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len returns the Euclidean length.
func (v Vector2) Len() float64 {
	return math.Sqrt(v.LenSquared())
}

// Add returns v + o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns k * v.
func (v Vector2) Scale(k float64) Vector2 {
	return Vector2{X: k * v.X, Y: k * v.Y}
}

// Clamp clamps both components into [min, max].
func (v Vector2) Clamp(min, max float64) Vector2 {
	return Vector2{X: Clampf(v.X, min, max), Y: Clampf(v.Y, min, max)}
}

// Clampf clamps x into [min, max]. NaN maps to min.
func Clampf(x, min, max float64) float64 {
	if !(x > min) {
		return min
	}
	if x > max {
		return max
	}
	return x
}
