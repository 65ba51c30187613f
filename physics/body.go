package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/automoto/doomerang-bosses/shared/gamemath"
)

// Body is a point mass. It satisfies boss.Body.
type Body struct {
	world        *World
	body         *cp.Body
	z, vz        float64
	gravityScale float64
	grounded     bool
}

func (b *Body) Position() gamemath.Vec3 {
	p := b.body.Position()
	return gamemath.Vec3{X: p.X, Y: p.Y, Z: b.z}
}

// SetPosition teleports the body. Velocity is kept.
func (b *Body) SetPosition(p gamemath.Vec3) {
	b.body.SetPosition(cp.Vector{X: p.X, Y: p.Y})
	b.z = p.Z
}

func (b *Body) Velocity() gamemath.Vec3 {
	v := b.body.Velocity()
	return gamemath.Vec3{X: v.X, Y: v.Y, Z: b.vz}
}

// ApplyImpulse changes velocity by impulse/mass.
func (b *Body) ApplyImpulse(impulse gamemath.Vec3) {
	b.body.ApplyImpulseAtWorldPoint(cp.Vector{X: impulse.X, Y: impulse.Y}, b.body.Position())
	b.vz += impulse.Z / b.body.Mass()
	if impulse.Y > 0 {
		b.grounded = false
	}
}

func (b *Body) GravityScale() float64 { return b.gravityScale }

func (b *Body) SetGravityScale(scale float64) { b.gravityScale = scale }

// Grounded reports whether the body rested on the floor after the last step.
func (b *Body) Grounded() bool { return b.grounded }

// Remove takes the body out of its world. Safe to call twice.
func (b *Body) Remove() {
	b.world.remove(b)
}

// settle clamps the body to the floor and bleeds horizontal speed while
// grounded.
func (b *Body) settle(keep float64) {
	p := b.body.Position()
	v := b.body.Velocity()
	floor := b.world.floor(p.X, b.z)

	b.grounded = false
	if p.Y <= floor {
		p.Y = floor
		if v.Y < 0 {
			v.Y = 0
		}
		b.grounded = true
		b.body.SetPosition(p)
	}
	if b.grounded {
		v.X *= keep
		b.vz *= keep
	}
	b.body.SetVelocityVector(v)
}
