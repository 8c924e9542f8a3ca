package math3d

import "math"

// Vec2 represents a 2D vector, used for ground-plane offsets and screen
// coordinates.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// FromAngle returns the unit vector pointing at angle a (radians).
func FromAngle(a float64) Vec2 {
	s, c := math.Sincos(a)
	return Vec2{c, s}
}

// Add returns the vector sum a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale returns the scalar product a * s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Dot returns the dot product a · b.
func (a Vec2) Dot(b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Cross returns the z component of the 3D cross product of a and b.
func (a Vec2) Cross(b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Perp returns a rotated a quarter turn counter-clockwise.
func (a Vec2) Perp() Vec2 {
	return Vec2{-a.Y, a.X}
}

// Rotate returns a rotated by angle (radians).
func (a Vec2) Rotate(angle float64) Vec2 {
	s, c := math.Sincos(angle)
	return Vec2{a.X*c - a.Y*s, a.X*s + a.Y*c}
}

// LenSq returns the squared length.
func (a Vec2) LenSq() float64 {
	return a.X*a.X + a.Y*a.Y
}

// Len returns the length (magnitude) of the vector.
func (a Vec2) Len() float64 {
	return math.Sqrt(a.LenSq())
}
