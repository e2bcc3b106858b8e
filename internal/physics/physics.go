// Package physics provides the 2D vector math and axis-aligned collision
// primitives shared by every game object.
package physics

import "math"

// Vec is a 2D point or direction in playfield units.
type Vec struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec {
	return Vec{v.X + o.X, v.Y + o.Y}
}

// Sub returns v-o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{v.X - o.X, v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{v.X * s, v.Y * s}
}

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns the unit vector pointing along v.
// ok is false for the zero vector, which is returned unchanged.
func (v Vec) Normalize() (n Vec, ok bool) {
	l := v.Len()
	if l == 0 {
		return v, false
	}
	return Vec{v.X / l, v.Y / l}, true
}

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
