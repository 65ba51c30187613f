package boss

import (
	"time"

	"github.com/automoto/doomerang-bosses/components"
)

// MoveSpeed returns the current movement speed, buff included.
func (b *Boss) MoveSpeed() float64 {
	if !b.Spawned() {
		return 0
	}
	return components.Movement.Get(b.entry).MoveSpeed
}

// BuffActive reports whether a temporary speed multiplier is applied.
func (b *Boss) BuffActive() bool {
	return b.Spawned() && components.Buff.Get(b.entry).Active
}

// SetTemporarySpeedMultiplier captures the current speed and applies
// speed*multiplier. It is a no-op while any multiplier is active. A positive
// duration schedules the matching clear.
func (b *Boss) SetTemporarySpeedMultiplier(sourceID string, multiplier float64, duration time.Duration) bool {
	if !b.Alive() || multiplier <= 0 {
		return false
	}
	buff := components.Buff.Get(b.entry)
	if buff.Active {
		return false
	}

	mv := components.Movement.Get(b.entry)
	buff.Active = true
	buff.SourceID = sourceID
	buff.Multiplier = multiplier
	buff.PreBuffSpeed = mv.MoveSpeed
	buff.Gen++
	mv.MoveSpeed = buff.PreBuffSpeed * multiplier
	b.log.Info("speed buff on", "source", sourceID, "speed", mv.MoveSpeed)

	if duration > 0 {
		gen := buff.Gen
		b.after("buff-expiry:"+sourceID, duration, func() {
			if components.Buff.Get(b.entry).Gen != gen {
				return
			}
			b.ClearTemporarySpeedMultiplier()
		})
	}
	return true
}

// ClearTemporarySpeedMultiplier restores exactly the captured speed.
func (b *Boss) ClearTemporarySpeedMultiplier() {
	if !b.Spawned() {
		return
	}
	buff := components.Buff.Get(b.entry)
	if !buff.Active {
		return
	}
	components.Movement.Get(b.entry).MoveSpeed = buff.PreBuffSpeed
	buff.Active = false
	buff.SourceID = ""
	buff.Multiplier = 0
	b.log.Info("speed buff off", "speed", buff.PreBuffSpeed)
}
