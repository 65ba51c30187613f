package boss

import (
	"github.com/yohamta/donburi/features/events"

	"github.com/automoto/doomerang-bosses/shared/gamemath"
)

// HealthChangedEvent is published whenever damage lands.
type HealthChangedEvent struct {
	BossID    string
	Health    int
	MaxHealth int
	Source    string
}

// DiedEvent is published once per boss, at the start of its death sequence.
type DiedEvent struct {
	BossID   string
	TypeName string
	Killer   string
	Position gamemath.Vec3
}

var (
	HealthChanged = events.NewEventType[HealthChangedEvent]()
	Died          = events.NewEventType[DiedEvent]()
)
