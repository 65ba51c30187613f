package components

import "github.com/yohamta/donburi"

// DeathData marks a boss that has started its death sequence.
type DeathData struct {
	Dead   bool
	Killer string
}

var Death = donburi.NewComponentType[DeathData]()
