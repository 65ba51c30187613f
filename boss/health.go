package boss

import (
	"fmt"
	"strings"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/automoto/doomerang-bosses/components"
	cfg "github.com/automoto/doomerang-bosses/config"
)

const indicatorWidth = 10

// DamageSource says who or what dealt damage. AttackerID is a target id and
// gets death credit; Source is a free-form cause such as "lava".
type DamageSource struct {
	AttackerID string
	Source     string
}

func (s DamageSource) label() string {
	if s.AttackerID != "" {
		return s.AttackerID
	}
	return s.Source
}

func (b *Boss) Health() int {
	if b.entry == nil || !b.entry.Valid() {
		return 0
	}
	return components.Health.Get(b.entry).Current
}

func (b *Boss) MaxHealth() int {
	return b.def.Health
}

// HealthFraction is current/max in [0, 1].
func (b *Boss) HealthFraction() float64 {
	if b.def.Health <= 0 {
		return 0
	}
	return float64(b.Health()) / float64(b.def.Health)
}

// LastAttacker returns the attacker recorded by the most recent damage.
func (b *Boss) LastAttacker() string {
	if !b.Spawned() {
		return ""
	}
	return components.Health.Get(b.entry).LastAttacker
}

// Damage lowers health by amount. Non-positive amounts, and damage to a
// dead or despawned boss, are ignored.
func (b *Boss) Damage(amount int, src DamageSource) {
	if amount <= 0 || !b.Alive() {
		return
	}

	h := components.Health.Get(b.entry)
	before := h.Current
	h.Current = max(0, h.Current-amount)

	if src.AttackerID != "" {
		h.LastAttacker = src.AttackerID
		if b.def.RememberAttackers && b.deps.Tracker != nil {
			b.deps.Tracker.Record(b.id, src.AttackerID)
		}
	}

	if h.Current < before {
		b.flash()
	}
	b.updateIndicator()

	HealthChanged.Publish(b.world, HealthChangedEvent{
		BossID:    b.id,
		Health:    h.Current,
		MaxHealth: h.Max,
		Source:    src.label(),
	})

	if h.Current == 0 {
		b.die(src)
	}
}

func (b *Boss) flash() {
	fl := components.Flash.Get(b.entry)
	d := cfg.Combat.FlashDuration
	fl.Active = true
	fl.Intensity = 1
	fl.Tween = gween.New(1, 0, float32(d.Seconds()), ease.OutQuad)
	fl.Gen++
	gen := fl.Gen

	b.after("flash-revert", d, func() {
		fl := components.Flash.Get(b.entry)
		if fl.Gen != gen {
			return
		}
		fl.Active = false
		fl.Intensity = 0
		fl.Tween = nil
	})
}

func (b *Boss) updateFlash(dt time.Duration) {
	fl := components.Flash.Get(b.entry)
	if fl.Tween == nil {
		return
	}
	v, done := fl.Tween.Update(float32(dt.Seconds()))
	fl.Intensity = v
	if done {
		fl.Tween = nil
	}
}

// Flashing reports whether the hit flash is showing.
func (b *Boss) Flashing() bool {
	return b.Spawned() && components.Flash.Get(b.entry).Active
}

// FlashIntensity is the hit flash strength, easing from 1 to 0.
func (b *Boss) FlashIntensity() float32 {
	if !b.Spawned() {
		return 0
	}
	return components.Flash.Get(b.entry).Intensity
}

// Indicator returns the health label text for bosses that carry one.
func (b *Boss) Indicator() (string, bool) {
	if !b.Spawned() || !b.entry.HasComponent(components.HealthIndicator) {
		return "", false
	}
	return components.HealthIndicator.Get(b.entry).Text, true
}

func (b *Boss) updateIndicator() {
	if !b.entry.HasComponent(components.HealthIndicator) {
		return
	}
	h := components.Health.Get(b.entry)
	ind := components.HealthIndicator.Get(b.entry)
	if ind.Label == "" && b.def.Name != "" {
		ind.Label = strings.ToUpper(b.def.Name[:1]) + b.def.Name[1:]
	}
	ind.Text = fmt.Sprintf("%s %s %d/%d", ind.Label, healthBar(h.Current, h.Max), h.Current, h.Max)
}

func healthBar(current, maxHealth int) string {
	filled := 0
	if maxHealth > 0 {
		filled = (current*indicatorWidth + maxHealth - 1) / maxHealth
	}
	filled = max(0, min(indicatorWidth, filled))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", indicatorWidth-filled) + "]"
}
