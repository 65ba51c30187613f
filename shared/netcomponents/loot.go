package netcomponents

import "github.com/yohamta/donburi"

// NetLootData is an item lying on the ground after a boss death.
type NetLootData struct {
	Item string
}

var NetLoot = donburi.NewComponentType[NetLootData]()
