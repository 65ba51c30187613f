package boss

import (
	"github.com/automoto/doomerang-bosses/components"
)

// Dead reports whether the death sequence has started.
func (b *Boss) Dead() bool {
	return b.Spawned() && components.Death.Get(b.entry).Dead
}

// Killer returns the id credited with the kill, if any.
func (b *Boss) Killer() string {
	if !b.Spawned() {
		return ""
	}
	return components.Death.Get(b.entry).Killer
}

// Kill drops health to zero and runs the death sequence with source as the
// fallback credit.
func (b *Boss) Kill(source string) {
	if !b.Alive() {
		return
	}
	h := components.Health.Get(b.entry)
	if h.Current > 0 {
		h.Current = 0
		b.updateIndicator()
		HealthChanged.Publish(b.world, HealthChangedEvent{
			BossID:    b.id,
			Health:    0,
			MaxHealth: h.Max,
			Source:    source,
		})
	}
	b.die(DamageSource{Source: source})
}

// resolveKiller prefers the attacker on the killing blow, then the tracker,
// then the death source.
func (b *Boss) resolveKiller(src DamageSource) string {
	if src.AttackerID != "" {
		return src.AttackerID
	}
	if b.deps.Tracker != nil {
		if id, ok := b.deps.Tracker.LastAttacker(b.id); ok {
			return id
		}
	}
	return src.Source
}

func (b *Boss) die(src DamageSource) {
	d := components.Death.Get(b.entry)
	if d.Dead {
		return
	}
	d.Dead = true

	killer := b.resolveKiller(src)
	d.Killer = killer
	pos := b.Position()

	if b.mover != nil {
		b.guard("mover stop", b.mover.Stop)
	}
	components.Movement.Get(b.entry).State = components.PathIdle

	Died.Publish(b.world, DiedEvent{
		BossID:   b.id,
		TypeName: b.def.Name,
		Killer:   killer,
		Position: pos,
	})
	b.log.Info("died", "killer", killer)

	if b.deps.Loot != nil {
		table := append([]string(nil), b.def.DropTable...)
		b.guard("drop items", func() { b.deps.Loot.DropItems(table, pos) })
	} else if !b.warnedLoot {
		b.warnedLoot = true
		b.log.Warn("no loot service, nothing dropped")
	}

	if killer != "" && b.deps.Progression != nil {
		leveled := false
		b.guard("award xp", func() { leveled = b.deps.Progression.AwardXP(killer, b.def.XPReward) })
		b.log.Info("xp awarded", "killer", killer, "xp", b.def.XPReward, "leveledUp", leveled)
	}

	b.present(b.def.DeathAnimation, b.def.DeathSound)

	if b.hasDeathAnimation() {
		b.after("death-despawn", b.def.DespawnDelay(), b.Despawn)
	} else {
		b.Despawn()
	}

	b.clearTracker()
}

func (b *Boss) hasDeathAnimation() bool {
	if b.def.DeathAnimation == "" || b.deps.Presenter == nil {
		return false
	}
	has := false
	b.guard("has animation", func() { has = b.deps.Presenter.HasAnimation(b.id, b.def.DeathAnimation) })
	return has
}

// clearTracker drops this boss's attacker record once per spawn.
func (b *Boss) clearTracker() {
	if b.trackerCleared {
		return
	}
	b.trackerCleared = true
	if b.deps.Tracker != nil {
		b.deps.Tracker.Clear(b.id)
	}
}
