package components

import (
	"time"

	"github.com/automoto/doomerang-bosses/shared/gamemath"
	"github.com/yohamta/donburi"
)

// PathfindState tracks what the boss's legs are doing.
type PathfindState int

const (
	PathIdle PathfindState = iota
	PathPathing
	PathDirect // Direct movement after a failed pathfind
)

func (s PathfindState) String() string {
	switch s {
	case PathPathing:
		return "pathing"
	case PathDirect:
		return "direct"
	default:
		return "idle"
	}
}

type MovementData struct {
	MoveSpeed      float64
	DetectionRange float64

	Target    gamemath.Vec3
	HasTarget bool

	State           PathfindState
	LastPathAttempt time.Duration
	HasAttempted    bool
	LastFailWarn    time.Duration
	HasWarned       bool
}

var Movement = donburi.NewComponentType[MovementData]()

// StuckData is set while recovering from a skipped waypoint.
type StuckData struct {
	Stuck bool
	Since time.Duration
	Gen   int // Bumped on every stuck entry so stale timeouts are ignored
}

var Stuck = donburi.NewComponentType[StuckData]()
