package boss

import (
	cfg "github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
)

// KnockbackDirection is the unit vector from attacker to target with the
// upward bias folded in. Coincident points give straight up.
func KnockbackDirection(from, to gamemath.Vec3, upwardBias float64) gamemath.Vec3 {
	dir := to.Sub(from).Normalized()
	dir.Y += upwardBias
	return dir.Normalized()
}

// deliverHit applies damage and knockback to t through its CombatTarget,
// or directly to the entity when no CombatTarget resolves.
func (b *Boss) deliverHit(t Target, damage int, force float64, isKnockbackSource bool) {
	dir := KnockbackDirection(b.Position(), t.Position, cfg.Combat.UpwardBias)

	if ct, ok := b.resolveCombatTarget(t.ID); ok {
		allowed := false
		b.guard("can receive damage", func() { allowed = ct.CanReceiveDamage() })
		if !allowed {
			return
		}
		b.guard("apply damage", func() { ct.ApplyDamage(damage, isKnockbackSource) })
		b.guard("apply knockback", func() { ct.ApplyKnockback(dir, force, isKnockbackSource) })
		return
	}

	if !b.warnedCombat {
		b.warnedCombat = true
		b.log.Warn("combat target unavailable, applying hits directly", "target", t.ID)
	}
	if b.deps.Direct == nil {
		return
	}
	var dt DirectTarget
	var ok bool
	b.guard("resolve direct target", func() { dt, ok = b.deps.Direct.DirectTarget(t.ID) })
	if !ok || dt == nil {
		return
	}
	b.guard("notify damage", func() { dt.NotifyDamage(damage, b.id) })
	b.guard("apply impulse", func() { dt.ApplyImpulse(dir.Scale(force)) })
}

func (b *Boss) resolveCombatTarget(id string) (CombatTarget, bool) {
	if b.deps.Combat == nil {
		return nil, false
	}
	var ct CombatTarget
	var ok bool
	b.guard("resolve combat target", func() { ct, ok = b.deps.Combat.CombatTarget(id) })
	return ct, ok && ct != nil
}
