package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// AttackKind selects the effect an attack applies.
type AttackKind string

const (
	AttackMelee         AttackKind = "melee"
	AttackAreaKnockback AttackKind = "area_knockback"
	AttackBuff          AttackKind = "buff"
)

// AttackSpec is one entry in a boss type's attack roster.
type AttackSpec struct {
	ID             string     `yaml:"id"`
	Name           string     `yaml:"name"`
	Kind           AttackKind `yaml:"kind"`
	CooldownMs     int        `yaml:"cooldown_ms"`
	Range          float64    `yaml:"range"`
	Damage         int        `yaml:"damage"`
	KnockbackForce float64    `yaml:"knockback_force"`
	EffectDelayMs  int        `yaml:"effect_delay_ms"`
	Animation      string     `yaml:"animation"`
	Sound          string     `yaml:"sound"`

	// Optional tengo expression over health_fraction, distance, buff_active
	When string `yaml:"when"`

	// Buff only
	HealthThreshold float64 `yaml:"health_threshold"`
	Multiplier      float64 `yaml:"multiplier"`
	DurationMs      int     `yaml:"duration_ms"`
}

func (a AttackSpec) Cooldown() time.Duration {
	return time.Duration(a.CooldownMs) * time.Millisecond
}

func (a AttackSpec) EffectDelay() time.Duration {
	return time.Duration(a.EffectDelayMs) * time.Millisecond
}

func (a AttackSpec) Duration() time.Duration {
	return time.Duration(a.DurationMs) * time.Millisecond
}

// BossType is the immutable definition shared by every boss of that type.
type BossType struct {
	Name           string   `yaml:"name"`
	Health         int      `yaml:"health"`
	MoveSpeed      float64  `yaml:"move_speed"`
	DetectionRange float64  `yaml:"detection_range"`
	Size           float64  `yaml:"size"`
	XPReward       int      `yaml:"xp_reward"`
	DropTable      []string `yaml:"drop_table"`
	IdleAnimation  string   `yaml:"idle_animation"`
	DeathAnimation string   `yaml:"death_animation"`
	DeathSound     string   `yaml:"death_sound"`
	DespawnDelayMs int      `yaml:"despawn_delay_ms"`

	HealthIndicator   bool `yaml:"health_indicator"`
	RememberAttackers bool `yaml:"remember_attackers"`

	Attacks []AttackSpec `yaml:"attacks"`
}

// DespawnDelay falls back to Combat.DeathDespawnDelay when unset.
func (b BossType) DespawnDelay() time.Duration {
	if b.DespawnDelayMs > 0 {
		return time.Duration(b.DespawnDelayMs) * time.Millisecond
	}
	return Combat.DeathDespawnDelay
}

// Validate reports the first problem with the definition.
func (b BossType) Validate() error {
	if b.Name == "" {
		return errors.New("boss type has no name")
	}
	if b.Health <= 0 {
		return fmt.Errorf("boss type %s: health must be positive", b.Name)
	}
	if b.MoveSpeed < 0 {
		return fmt.Errorf("boss type %s: negative move_speed", b.Name)
	}
	seen := make(map[string]bool, len(b.Attacks))
	for _, a := range b.Attacks {
		if a.ID == "" {
			return fmt.Errorf("boss type %s: attack without id", b.Name)
		}
		if seen[a.ID] {
			return fmt.Errorf("boss type %s: duplicate attack %s", b.Name, a.ID)
		}
		seen[a.ID] = true
		switch a.Kind {
		case AttackMelee, AttackAreaKnockback:
			if a.Range <= 0 {
				return fmt.Errorf("boss type %s: attack %s needs a positive range", b.Name, a.ID)
			}
		case AttackBuff:
			if a.Multiplier <= 0 || a.DurationMs <= 0 {
				return fmt.Errorf("boss type %s: buff %s needs multiplier and duration_ms", b.Name, a.ID)
			}
		default:
			return fmt.Errorf("boss type %s: attack %s has unknown kind %q", b.Name, a.ID, a.Kind)
		}
	}
	return nil
}

// BossTypes maps a type name to its definition.
type BossTypes map[string]BossType

// Names returns the type names in sorted order.
func (t BossTypes) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type bossTypesFile struct {
	Bosses []BossType `yaml:"bosses"`
}

// ParseBossTypes decodes and validates a boss types document.
func ParseBossTypes(data []byte) (BossTypes, error) {
	var file bossTypesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("config: unmarshal boss types: %w", err)
	}
	if len(file.Bosses) == 0 {
		return nil, errors.New("config: no bosses defined")
	}

	types := make(BossTypes, len(file.Bosses))
	for _, b := range file.Bosses {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if _, dup := types[b.Name]; dup {
			return nil, fmt.Errorf("config: duplicate boss type %s", b.Name)
		}
		types[b.Name] = b
	}
	return types, nil
}

// LoadBossTypes reads a YAML boss types file.
func LoadBossTypes(path string) (BossTypes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	types, err := ParseBossTypes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return types, nil
}

// StalkerType is the built-in boss used when no types file is supplied.
func StalkerType() BossType {
	return BossType{
		Name:           "stalker",
		Health:         250,
		MoveSpeed:      4,
		DetectionRange: 25,
		Size:           1.5,
		XPReward:       150,
		DropTable:      []string{"stalker_fang", "health_potion", "gold_pouch"},
		IdleAnimation:  "idle",
		DeathAnimation: "death",
		DeathSound:     "stalker_death",
		DespawnDelayMs: 2000,

		HealthIndicator:   true,
		RememberAttackers: true,

		Attacks: []AttackSpec{
			{
				ID:            "claw",
				Name:          "Claw Swipe",
				Kind:          AttackMelee,
				CooldownMs:    1500,
				Range:         2.5,
				Damage:        15,
				EffectDelayMs: 300,
				Animation:     "attack_claw",
				Sound:         "claw_swipe",
			},
			{
				ID:             "slam",
				Name:           "Ground Slam",
				Kind:           AttackAreaKnockback,
				CooldownMs:     4000,
				Range:          6,
				Damage:         10,
				KnockbackForce: 12,
				EffectDelayMs:  600,
				Animation:      "attack_slam",
				Sound:          "ground_slam",
				When:           "targets_in_range >= 2 || health_fraction < 0.5",
			},
			{
				ID:              "frenzy",
				Name:            "Frenzy",
				Kind:            AttackBuff,
				CooldownMs:      1000,
				EffectDelayMs:   200,
				HealthThreshold: 0.3,
				Multiplier:      1.5,
				DurationMs:      5000,
				Animation:       "roar",
				Sound:           "stalker_roar",
			},
		},
	}
}

// DefaultBossTypes returns the built-in registry.
func DefaultBossTypes() BossTypes {
	s := StalkerType()
	return BossTypes{s.Name: s}
}
