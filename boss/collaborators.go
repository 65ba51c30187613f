package boss

import (
	"time"

	"github.com/automoto/doomerang-bosses/shared/gamemath"
)

// Target is a candidate for pursuit and attacks.
type Target struct {
	ID       string
	Position gamemath.Vec3
	Alive    bool
}

// TargetProvider lists every known target.
type TargetProvider interface {
	Enumerate() []Target
}

// CombatTarget is a damageable, knockback-able actor.
type CombatTarget interface {
	CanReceiveDamage() bool
	ApplyDamage(amount int, isKnockbackSource bool)
	ApplyKnockback(direction gamemath.Vec3, force float64, isKnockbackSource bool)
}

// CombatTargets resolves the combat collaborator for a target id.
type CombatTargets interface {
	CombatTarget(targetID string) (CombatTarget, bool)
}

// DirectTarget is the bare entity used when no CombatTarget is available.
type DirectTarget interface {
	NotifyDamage(amount int, sourceID string)
	ApplyImpulse(impulse gamemath.Vec3)
}

// DirectTargets resolves the bare entity for a target id.
type DirectTargets interface {
	DirectTarget(targetID string) (DirectTarget, bool)
}

type LootService interface {
	DropItems(itemTypes []string, position gamemath.Vec3)
}

type ProgressionService interface {
	AwardXP(targetID string, amount int) (leveledUp bool)
}

// PathOptions are handed to the mover with each request. Callbacks run on
// the tick goroutine and may fire more than once.
type PathOptions struct {
	MaxFall           float64
	MaxJump           float64
	VerticalPenalty   float64
	WaypointTimeout   time.Duration
	OnComplete        func()
	OnWaypointSkipped func()
	OnWaypointReached func()
}

// Mover plans and walks paths for one boss.
type Mover interface {
	Pathfind(target gamemath.Vec3, stopDistance float64, opts PathOptions) (accepted bool, err error)
	Update(dt time.Duration)
	Stop()
}

// Body is the boss's physical presence. It owns the position.
type Body interface {
	Position() gamemath.Vec3
	SetPosition(p gamemath.Vec3)
	ApplyImpulse(impulse gamemath.Vec3)
	GravityScale() float64
	SetGravityScale(scale float64)
}

// Presenter plays animations and sounds. HasAnimation reports whether the
// named clip exists for this boss.
type Presenter interface {
	PlayAnimation(bossID, name string)
	PlaySound(bossID, name string)
	HasAnimation(bossID, name string) bool
}
