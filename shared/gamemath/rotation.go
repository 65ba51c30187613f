package gamemath

import "math"

// Rotation is an Euler orientation in radians.
type Rotation struct {
	Yaw, Pitch, Roll float64
}

// YawOnly discards pitch and roll drift.
func (r Rotation) YawOnly() Rotation {
	return Rotation{Yaw: r.Yaw}
}

// Forward returns the horizontal unit vector the yaw points along.
// Yaw 0 faces +Z.
func (r Rotation) Forward() Vec3 {
	return Vec3{X: math.Sin(r.Yaw), Z: math.Cos(r.Yaw)}
}

// YawTowards returns the yaw that faces to from from. ok is false when the
// two points are horizontally coincident.
func YawTowards(from, to Vec3) (yaw float64, ok bool) {
	d := to.Sub(from).Horizontal()
	if d.IsZero() {
		return 0, false
	}
	return math.Atan2(d.X, d.Z), true
}
