// Package netconfig defines lightweight types shared between client and server
// for network serialization. It must have zero dependencies on ebiten or any
// graphics library so the dedicated server binary stays headless.
package netconfig

// BossPhase is a boss's attack phase as sent to clients.
type BossPhase int

const (
	PhaseCooldown BossPhase = iota
	PhaseReady
	PhaseExecuting
)

// PathStateID is what a boss's movement is doing as sent to clients.
type PathStateID int

const (
	PathIdle PathStateID = iota
	PathPathing
	PathDirect
)

var phaseNames = map[BossPhase]string{
	PhaseCooldown:  "cooldown",
	PhaseReady:     "ready",
	PhaseExecuting: "executing",
}

var pathStateNames = map[PathStateID]string{
	PathIdle:    "idle",
	PathPathing: "pathing",
	PathDirect:  "direct",
}

func (p BossPhase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

func (s PathStateID) String() string {
	if name, ok := pathStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// ActionID represents a logical player action.
type ActionID int

const (
	ActionNone ActionID = iota
	ActionAttack
	ActionJump
	ActionCount // Must be last - used for array sizing
)
