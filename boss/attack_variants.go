package boss

import "github.com/automoto/doomerang-bosses/shared/gamemath"

// meleeAttack hits the passed target only.
type meleeAttack struct {
	attackBase
}

func (m *meleeAttack) CanExecute(b *Boss, target *Target) bool {
	if target == nil || !target.Alive {
		return false
	}
	if gamemath.Distance(b.Position(), target.Position) > m.spec.Range {
		return false
	}
	return m.whenHolds(b, target)
}

func (m *meleeAttack) Execute(b *Boss, target *Target) {
	if !m.CanExecute(b, target) {
		return
	}
	targetID := target.ID
	b.runAttack(&m.spec, func() {
		t, ok := b.targetByID(targetID)
		if !ok || gamemath.Distance(b.Position(), t.Position) > m.spec.Range {
			b.log.Debug("melee whiffed", "attack", m.spec.ID, "target", targetID)
			return
		}
		b.deliverHit(t, m.spec.Damage, m.spec.KnockbackForce, m.spec.KnockbackForce > 0)
	})
}

// areaKnockbackAttack hits every live target in range and ignores the
// passed target.
type areaKnockbackAttack struct {
	attackBase
}

func (a *areaKnockbackAttack) CanExecute(b *Boss, target *Target) bool {
	if len(b.targetsWithin(a.spec.Range)) == 0 {
		return false
	}
	return a.whenHolds(b, target)
}

func (a *areaKnockbackAttack) Execute(b *Boss, target *Target) {
	if !a.CanExecute(b, target) {
		return
	}
	b.runAttack(&a.spec, func() {
		for _, t := range b.targetsWithin(a.spec.Range) {
			b.deliverHit(t, a.spec.Damage, a.spec.KnockbackForce, true)
		}
	})
}

// speedBuffAttack multiplies the boss's move speed for a while once its
// health drops to the threshold.
type speedBuffAttack struct {
	attackBase
}

func (s *speedBuffAttack) CanExecute(b *Boss, target *Target) bool {
	if b.BuffActive() {
		return false
	}
	if b.HealthFraction() > s.spec.HealthThreshold {
		return false
	}
	return s.whenHolds(b, target)
}

func (s *speedBuffAttack) Execute(b *Boss, target *Target) {
	if !s.CanExecute(b, target) {
		return
	}
	b.runAttack(&s.spec, func() {
		b.SetTemporarySpeedMultiplier(s.spec.ID, s.spec.Multiplier, s.spec.Duration())
	})
}
