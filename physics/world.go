// Package physics simulates boss and player bodies. Chipmunk integrates the
// vertical plane (world X and Y); Z is carried alongside with the same
// damping, and a floor function keeps bodies on the level.
package physics

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/automoto/doomerang-bosses/shared/gamemath"
)

// FloorFunc reports the floor height under (x, z).
type FloorFunc func(x, z float64) float64

// World owns the cp space and every body in it.
type World struct {
	space    *cp.Space
	floor    FloorFunc
	friction float64
	bodies   map[*Body]struct{}
}

// NewWorld creates a world with gravity pulling along -Y. friction is the
// fraction of horizontal velocity kept per second while grounded.
func NewWorld(gravity, friction float64, floor FloorFunc) *World {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{X: 0, Y: -gravity})
	if floor == nil {
		floor = func(float64, float64) float64 { return 0 }
	}
	return &World{
		space:    space,
		floor:    floor,
		friction: friction,
		bodies:   map[*Body]struct{}{},
	}
}

// NewBody adds a body of the given mass at p.
func (w *World) NewBody(p gamemath.Vec3, mass float64) *Body {
	if mass <= 0 {
		mass = 1
	}
	cb := cp.NewBody(mass, cp.INFINITY)
	cb.SetPosition(cp.Vector{X: p.X, Y: p.Y})
	cb.SetAngularVelocity(0)

	b := &Body{world: w, body: cb, z: p.Z, gravityScale: 1}
	cb.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping, dt float64) {
		cp.BodyUpdateVelocity(body, gravity.Mult(b.gravityScale), damping, dt)
	})

	w.space.AddBody(cb)
	w.bodies[b] = struct{}{}
	return b
}

// Len is the number of live bodies.
func (w *World) Len() int { return len(w.bodies) }

// Step advances every body by dt.
func (w *World) Step(dt time.Duration) {
	secs := dt.Seconds()
	if secs <= 0 {
		return
	}
	w.space.Step(secs)

	keep := math.Pow(w.friction, secs)
	for b := range w.bodies {
		b.z += b.vz * secs
		b.settle(keep)
	}
}

func (w *World) remove(b *Body) {
	if _, ok := w.bodies[b]; !ok {
		return
	}
	delete(w.bodies, b)
	w.space.RemoveBody(b.body)
}
