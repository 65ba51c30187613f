package components

import (
	"time"

	"github.com/yohamta/donburi"
)

// AttackPhase is where the boss is in its attack cycle.
type AttackPhase int

const (
	AttackCooldown AttackPhase = iota
	AttackReady
	AttackExecuting
)

func (p AttackPhase) String() string {
	switch p {
	case AttackReady:
		return "ready"
	case AttackExecuting:
		return "executing"
	default:
		return "cooldown"
	}
}

type AttackData struct {
	Phase        AttackPhase
	ActiveID     string
	LastAttackAt time.Duration
	HasAttacked  bool
}

var Attack = donburi.NewComponentType[AttackData]()

// BuffData holds a temporary speed multiplier. PreBuffSpeed is captured
// once on activation and restored verbatim on expiry.
type BuffData struct {
	Active       bool
	SourceID     string
	Multiplier   float64
	PreBuffSpeed float64
	Gen          int
}

var Buff = donburi.NewComponentType[BuffData]()
