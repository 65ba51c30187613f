package boss

import "github.com/automoto/doomerang-bosses/shared/gamemath"

// pointBody is used when the host supplies no physics. It holds a position
// and ignores impulses.
type pointBody struct {
	pos     gamemath.Vec3
	gravity float64
}

func newPointBody(p gamemath.Vec3) *pointBody {
	return &pointBody{pos: p, gravity: 1}
}

func (p *pointBody) Position() gamemath.Vec3       { return p.pos }
func (p *pointBody) SetPosition(v gamemath.Vec3)   { p.pos = v }
func (p *pointBody) ApplyImpulse(gamemath.Vec3)    {}
func (p *pointBody) GravityScale() float64         { return p.gravity }
func (p *pointBody) SetGravityScale(scale float64) { p.gravity = scale }
