package systems

import (
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-bosses/services"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
	"github.com/automoto/doomerang-bosses/shared/netcomponents"
)

// PlayerView is what a player replica shows.
type PlayerView struct {
	Entity       donburi.Entity
	ID           string
	Name         string
	Position     gamemath.Vec3
	Velocity     gamemath.Vec3
	Health       int
	MaxHealth    int
	Invulnerable bool
	LastSequence uint32
}

// StandingFunc looks up a player's progression.
type StandingFunc func(playerID string) (services.Standing, bool)

// SyncPlayers writes each view onto its replica. Views whose entity is gone
// are skipped.
func SyncPlayers(world donburi.World, views []PlayerView, standing StandingFunc) {
	for _, v := range views {
		if !world.Valid(v.Entity) {
			continue
		}
		entry := world.Entry(v.Entity)

		netcomponents.NetPosition.Set(entry, &netcomponents.NetPositionData{X: v.Position.X, Y: v.Position.Y, Z: v.Position.Z})
		netcomponents.NetVelocity.Set(entry, &netcomponents.NetVelocityData{X: v.Velocity.X, Y: v.Velocity.Y, Z: v.Velocity.Z})

		state := netcomponents.NetPlayerState.Get(entry)
		state.PlayerID = v.ID
		state.Name = v.Name
		state.Health = v.Health
		state.MaxHealth = v.MaxHealth
		state.Invulnerable = v.Invulnerable
		state.LastSequence = v.LastSequence
		state.Level, state.XP = 1, 0
		if standing == nil {
			continue
		}
		if s, ok := standing(v.ID); ok {
			state.Level = s.Level
			state.XP = s.CurrentXP
		}
	}
}
