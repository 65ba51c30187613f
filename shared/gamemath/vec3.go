package gamemath

import "math"

// Epsilon is the smallest magnitude treated as a real direction.
const Epsilon = 1e-6

// Vec3 is a world-space vector. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Len returns the Euclidean length.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalized returns the unit vector, or the zero vector when the length
// is not above Epsilon.
func (v Vec3) Normalized() Vec3 {
	l := v.Len()
	if l <= Epsilon {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Horizontal drops the vertical component.
func (v Vec3) Horizontal() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

// IsZero reports whether the vector is shorter than Epsilon.
func (v Vec3) IsZero() bool {
	return v.Len() <= Epsilon
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Len()
}

// VerticalDiff returns |a.Y - b.Y|.
func VerticalDiff(a, b Vec3) float64 {
	return math.Abs(a.Y - b.Y)
}

// MoveTowards steps from toward to by at most maxStep and reports whether
// any movement happened. Steps shorter than Epsilon are skipped.
func MoveTowards(from, to Vec3, maxStep float64) (Vec3, bool) {
	delta := to.Sub(from)
	dist := delta.Len()
	if dist <= Epsilon || maxStep <= Epsilon {
		return from, false
	}
	if maxStep >= dist {
		return to, true
	}
	return from.Add(delta.Scale(maxStep / dist)), true
}
