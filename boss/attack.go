package boss

import (
	"fmt"
	"time"

	"github.com/automoto/doomerang-bosses/components"
	cfg "github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
)

// Attack is one entry in a boss's roster.
type Attack interface {
	Spec() *cfg.AttackSpec
	CanExecute(b *Boss, target *Target) bool
	Execute(b *Boss, target *Target)
	Cooldown() time.Duration
}

// NewAttack builds the strategy for spec.Kind.
func NewAttack(spec cfg.AttackSpec) (Attack, error) {
	base := attackBase{spec: spec}
	if spec.When != "" {
		cond, err := CompileCondition(spec.When)
		if err != nil {
			return nil, fmt.Errorf("attack %s: %w", spec.ID, err)
		}
		base.when = cond
	}

	switch spec.Kind {
	case cfg.AttackMelee:
		return &meleeAttack{base}, nil
	case cfg.AttackAreaKnockback:
		return &areaKnockbackAttack{base}, nil
	case cfg.AttackBuff:
		return &speedBuffAttack{base}, nil
	default:
		return nil, fmt.Errorf("attack %s: unknown kind %q", spec.ID, spec.Kind)
	}
}

type attackBase struct {
	spec cfg.AttackSpec
	when *Condition
}

func (a *attackBase) Spec() *cfg.AttackSpec   { return &a.spec }
func (a *attackBase) Cooldown() time.Duration { return a.spec.Cooldown() }

func (a *attackBase) whenHolds(b *Boss, target *Target) bool {
	if a.when == nil {
		return true
	}
	env := ConditionEnv{
		HealthFraction: b.HealthFraction(),
		BuffActive:     b.BuffActive(),
		TargetsInRange: len(b.targetsWithin(a.spec.Range)),
	}
	if target != nil {
		env.Distance = gamemath.Distance(b.Position(), target.Position)
	}
	ok, err := a.when.Eval(env)
	if err != nil {
		b.log.Warn("attack condition failed", "attack", a.spec.ID, "err", err)
		return false
	}
	return ok
}

// AttackPhase returns where the boss is in its attack cycle.
func (b *Boss) AttackPhase() components.AttackPhase {
	if !b.Spawned() {
		return components.AttackCooldown
	}
	return components.Attack.Get(b.entry).Phase
}

// ActiveAttack returns the id of the attack in flight, if any.
func (b *Boss) ActiveAttack() string {
	if !b.Spawned() {
		return ""
	}
	return components.Attack.Get(b.entry).ActiveID
}

// TryAttack selects and starts an attack against target. It returns false
// when nothing could start, including while another attack is in flight.
func (b *Boss) TryAttack(target *Target) bool {
	if !b.Alive() {
		return false
	}
	at := components.Attack.Get(b.entry)
	if at.Phase == components.AttackExecuting {
		return false
	}

	a := b.selectAttack(target)
	if a == nil {
		if b.anyOffCooldown() {
			at.Phase = components.AttackReady
		}
		return false
	}
	a.Execute(b, target)
	return true
}

func (b *Boss) offCooldown(a Attack) bool {
	at := components.Attack.Get(b.entry)
	return !at.HasAttacked || b.now()-at.LastAttackAt >= a.Cooldown()
}

func (b *Boss) anyOffCooldown() bool {
	for _, a := range b.roster {
		if b.offCooldown(a) {
			return true
		}
	}
	return false
}

// selectAttack picks a buff whose precondition holds first, otherwise a
// uniformly random executable attack. A wanted buff still cooling down holds
// every other attack so they cannot keep resetting its cooldown.
func (b *Boss) selectAttack(target *Target) Attack {
	for _, a := range b.roster {
		if _, isBuff := a.(*speedBuffAttack); !isBuff {
			continue
		}
		if !a.CanExecute(b, target) {
			continue
		}
		if b.offCooldown(a) {
			return a
		}
		return nil
	}

	var candidates []Attack
	for _, a := range b.roster {
		if _, isBuff := a.(*speedBuffAttack); isBuff {
			continue
		}
		if b.offCooldown(a) && a.CanExecute(b, target) {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[b.deps.Rand.Intn(len(candidates))]
}

// runAttack starts the animation now and applies effect after the attack's
// delay, then returns the boss to idle.
func (b *Boss) runAttack(spec *cfg.AttackSpec, effect func()) {
	at := components.Attack.Get(b.entry)
	at.Phase = components.AttackExecuting
	at.ActiveID = spec.ID
	at.LastAttackAt = b.now()
	at.HasAttacked = true

	b.present(spec.Animation, spec.Sound)
	b.log.Debug("attack started", "attack", spec.ID)

	finish := func() {
		effect()
		if !b.Spawned() {
			return
		}
		at := components.Attack.Get(b.entry)
		at.Phase = components.AttackCooldown
		at.ActiveID = ""
		if b.Alive() {
			b.present(b.def.IdleAnimation, "")
		}
	}

	if spec.EffectDelay() <= 0 {
		finish()
		return
	}
	b.after("attack-effect:"+spec.ID, spec.EffectDelay(), func() {
		if !b.Alive() {
			return
		}
		finish()
	})
}

// targetsWithin returns every live target no farther than r.
func (b *Boss) targetsWithin(r float64) []Target {
	pos := b.Position()
	var in []Target
	for _, t := range b.liveTargets() {
		if gamemath.Distance(pos, t.Position) <= r {
			in = append(in, t)
		}
	}
	return in
}
