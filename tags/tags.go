package tags

import "github.com/yohamta/donburi"

var (
	Boss    = donburi.NewTag().SetName("Boss")
	Player  = donburi.NewTag().SetName("Player")
	NetBoss = donburi.NewTag().SetName("NetBoss")
	Loot    = donburi.NewTag().SetName("Loot")
)

// Resolv tags for the navigation space
const (
	ResolvSolid    = "solid"
	ResolvObstacle = "obstacle"
	ResolvProbe    = "probe"
)
