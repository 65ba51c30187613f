package boss

import (
	"github.com/automoto/doomerang-bosses/components"
	cfg "github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
)

// Stuck reports whether the boss is recovering from a skipped waypoint.
func (b *Boss) Stuck() bool {
	return b.Spawned() && components.Stuck.Get(b.entry).Stuck
}

func (b *Boss) impulseTier() cfg.ImpulseTier {
	if b.def.Size >= cfg.Stuck.LargeSizeThreshold {
		return cfg.Stuck.Large
	}
	return cfg.Stuck.Small
}

func (b *Boss) onWaypointSkipped() {
	if !b.Alive() {
		return
	}
	st := components.Stuck.Get(b.entry)
	if st.Stuck {
		return
	}
	st.Stuck = true
	st.Since = b.now()
	st.Gen++
	gen := st.Gen

	tier := b.impulseTier()
	forward := b.Rotation().Forward().Normalized()
	impulse := forward.Scale(tier.Forward).Add(gamemath.Vec3{Y: tier.Upward})

	b.guard("stuck impulse", func() {
		b.body.ApplyImpulse(impulse)
		b.body.SetGravityScale(cfg.Stuck.BaselineGravityScale * cfg.Stuck.StuckGravityFactor)
	})
	b.log.Debug("stuck, jumping", "forward", tier.Forward, "upward", tier.Upward)

	b.after("stuck-timeout", cfg.Stuck.Timeout, func() {
		if components.Stuck.Get(b.entry).Gen != gen {
			return
		}
		b.clearStuck()
	})
}

// clearStuck is idempotent.
func (b *Boss) clearStuck() {
	if !b.Spawned() {
		return
	}
	st := components.Stuck.Get(b.entry)
	if !st.Stuck {
		return
	}
	st.Stuck = false
	b.guard("restore gravity", func() {
		b.body.SetGravityScale(cfg.Stuck.BaselineGravityScale)
	})
}
