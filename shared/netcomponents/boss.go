package netcomponents

import (
	"math"

	"github.com/automoto/doomerang-bosses/shared/netconfig"
	"github.com/yohamta/donburi"
)

type NetBossData struct {
	BossID         string
	TypeName       string
	Yaw            float64
	Phase          netconfig.BossPhase
	PathState      netconfig.PathStateID
	Attack         string // Attack in flight, empty when none
	Health         int    // Written by the throttled health broadcast only
	MaxHealth      int
	Flashing       bool
	FlashIntensity float32
	Buffed         bool
	Dead           bool
	Indicator      string
	Animation      string
	Sound          string
}

var NetBoss = donburi.NewComponentType[NetBossData]()

// LerpNetBoss interpolates yaw along the short way round and the flash
// intensity linearly. Everything else snaps to the newer state.
func LerpNetBoss(from, to NetBossData, t float64) *NetBossData {
	out := to
	d := math.Remainder(to.Yaw-from.Yaw, 2*math.Pi)
	out.Yaw = from.Yaw + d*t
	out.FlashIntensity = from.FlashIntensity + (to.FlashIntensity-from.FlashIntensity)*float32(t)
	return &out
}
