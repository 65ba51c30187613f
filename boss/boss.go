package boss

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-bosses/archetypes"
	"github.com/automoto/doomerang-bosses/components"
	cfg "github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
	"github.com/automoto/doomerang-bosses/timers"
)

var (
	ErrAlreadySpawned = errors.New("boss: already spawned")
	ErrNoScheduler    = errors.New("boss: no timer scheduler")
)

// MoverFactory builds a mover that walks body at the speed reported by speed.
type MoverFactory func(body Body, speed func() float64) Mover

// BodyFactory builds the physical body for a boss of the given size.
type BodyFactory func(position gamemath.Vec3, size float64) Body

// Deps are the collaborators a boss talks to. Only Timers is required.
type Deps struct {
	Targets     TargetProvider
	Combat      CombatTargets
	Direct      DirectTargets
	Loot        LootService
	Progression ProgressionService
	Tracker     *AttackerTracker
	Presenter   Presenter
	NewMover    MoverFactory
	NewBody     BodyFactory
	Timers      *timers.Scheduler
	Rand        *rand.Rand
	Logger      *log.Logger
}

// Boss is a single AI entity. Its state lives in components on a donburi
// entry while spawned; the Boss value is the handle the host holds.
type Boss struct {
	id     string
	def    *cfg.BossType
	deps   Deps
	roster []Attack
	log    *log.Logger

	world donburi.World
	entry *donburi.Entry
	body  Body
	mover Mover

	trackerCleared bool
	warnedCombat   bool
	warnedLoot     bool
}

// New builds a boss of the given type. An empty id gets a random one.
func New(id string, def *cfg.BossType, deps Deps) (*Boss, error) {
	if def == nil {
		return nil, errors.New("boss: nil type")
	}
	if deps.Timers == nil {
		return nil, ErrNoScheduler
	}
	if id == "" {
		id = uuid.NewString()
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "boss"})
	}

	roster := make([]Attack, 0, len(def.Attacks))
	for _, spec := range def.Attacks {
		a, err := NewAttack(spec)
		if err != nil {
			return nil, fmt.Errorf("boss %s: %w", def.Name, err)
		}
		roster = append(roster, a)
	}

	return &Boss{
		id:     id,
		def:    def,
		deps:   deps,
		roster: roster,
		log:    logger.With("boss", id, "type", def.Name),
	}, nil
}

func (b *Boss) ID() string            { return b.id }
func (b *Boss) Type() *cfg.BossType   { return b.def }
func (b *Boss) Entry() *donburi.Entry { return b.entry }
func (b *Boss) Attacks() []Attack     { return b.roster }

// Spawn places the boss into world at position.
func (b *Boss) Spawn(world donburi.World, position gamemath.Vec3) error {
	if b.Spawned() {
		return ErrAlreadySpawned
	}

	var extra []donburi.IComponentType
	if b.def.HealthIndicator {
		extra = append(extra, components.HealthIndicator)
	}
	entry := archetypes.Boss.Spawn(world, extra...)

	components.Boss.SetValue(entry, components.BossData{
		ID:       b.id,
		TypeName: b.def.Name,
		Type:     b.def,
	})
	components.Health.SetValue(entry, components.HealthData{
		Current: b.def.Health,
		Max:     b.def.Health,
	})
	components.Movement.SetValue(entry, components.MovementData{
		MoveSpeed:      b.def.MoveSpeed,
		DetectionRange: b.def.DetectionRange,
	})
	components.Presentation.SetValue(entry, components.PresentationData{
		Animation: b.def.IdleAnimation,
	})

	b.world = world
	b.entry = entry
	b.trackerCleared = false

	if b.deps.NewBody != nil {
		b.body = b.deps.NewBody(position, b.def.Size)
	} else {
		b.body = newPointBody(position)
	}
	b.body.SetGravityScale(cfg.Stuck.BaselineGravityScale)

	b.mover = nil
	if b.deps.NewMover != nil {
		b.mover = b.deps.NewMover(b.body, b.MoveSpeed)
	}

	b.updateIndicator()
	b.log.Info("spawned", "x", position.X, "y", position.Y, "z", position.Z)
	return nil
}

// SetSpawner records which spawn point produced the boss.
func (b *Boss) SetSpawner(spawnerID string) {
	if !b.Spawned() {
		return
	}
	components.Boss.Get(b.entry).SpawnerID = spawnerID
}

// Spawner returns the spawn point id, empty when spawned by hand.
func (b *Boss) Spawner() string {
	if !b.Spawned() {
		return ""
	}
	return components.Boss.Get(b.entry).SpawnerID
}

// Spawned reports whether the boss has a live entity.
func (b *Boss) Spawned() bool {
	return b.entry != nil && b.entry.Valid()
}

// Alive reports whether the boss is spawned and not dead.
func (b *Boss) Alive() bool {
	return b.Spawned() && !components.Death.Get(b.entry).Dead
}

// Despawn removes the boss from its world. Calling it again is a no-op.
func (b *Boss) Despawn() {
	if !b.Spawned() {
		return
	}
	if b.mover != nil {
		b.guard("mover stop", b.mover.Stop)
	}
	if r, ok := b.body.(interface{ Remove() }); ok {
		b.guard("body remove", r.Remove)
	}
	b.clearTracker()

	b.world.Remove(b.entry.Entity())
	b.entry = nil
	b.log.Info("despawned")
}

func (b *Boss) Position() gamemath.Vec3 {
	if b.body == nil {
		return gamemath.Vec3{}
	}
	return b.body.Position()
}

func (b *Boss) Rotation() gamemath.Rotation {
	if !b.Spawned() {
		return gamemath.Rotation{}
	}
	return components.Transform.Get(b.entry).Rotation
}

// SetRotation lets the host apply orientation from its own physics. Pitch
// and roll are dropped on the next tick.
func (b *Boss) SetRotation(r gamemath.Rotation) {
	if !b.Spawned() {
		return
	}
	components.Transform.Get(b.entry).Rotation = r
}

// Update advances the boss by one simulation tick.
func (b *Boss) Update(dt time.Duration) {
	if !b.Alive() {
		return
	}

	tf := components.Transform.Get(b.entry)
	tf.Rotation = tf.Rotation.YawOnly()

	nearest, dist, found := b.nearestTarget()

	b.updateMovement(dt)

	if found && dist <= components.Movement.Get(b.entry).DetectionRange {
		b.face(nearest.Position)
	}

	if found {
		b.TryAttack(&nearest)
	} else {
		b.TryAttack(nil)
	}

	if !b.Alive() {
		return
	}
	b.updateFlash(dt)
	if b.mover != nil {
		b.guard("mover update", func() { b.mover.Update(dt) })
	}
}

func (b *Boss) face(p gamemath.Vec3) {
	if yaw, ok := gamemath.YawTowards(b.Position(), p); ok {
		components.Transform.Get(b.entry).Rotation.Yaw = yaw
	}
}

// nearestTarget returns the closest live target by Euclidean distance.
func (b *Boss) nearestTarget() (Target, float64, bool) {
	targets := b.liveTargets()
	pos := b.Position()

	var best Target
	bestDist := 0.0
	found := false
	for _, t := range targets {
		d := gamemath.Distance(pos, t.Position)
		if !found || d < bestDist {
			best, bestDist, found = t, d, true
		}
	}
	return best, bestDist, found
}

func (b *Boss) liveTargets() []Target {
	if b.deps.Targets == nil {
		return nil
	}
	var all []Target
	b.guard("enumerate targets", func() { all = b.deps.Targets.Enumerate() })

	live := all[:0:0]
	for _, t := range all {
		if t.Alive {
			live = append(live, t)
		}
	}
	return live
}

func (b *Boss) targetByID(id string) (Target, bool) {
	for _, t := range b.liveTargets() {
		if t.ID == id {
			return t, true
		}
	}
	return Target{}, false
}

func (b *Boss) now() time.Duration {
	return b.deps.Timers.Now()
}

// after schedules a named timer that only fires while this spawn of the
// boss still exists.
func (b *Boss) after(name string, d time.Duration, fn func()) {
	entry := b.entry
	b.deps.Timers.After(b.id, name, d, func() {
		if entry == nil || b.entry != entry || !b.Spawned() {
			return
		}
		fn()
	})
}

// guard runs a collaborator call and turns a panic into a logged error.
func (b *Boss) guard(what string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("collaborator panicked", "call", what, "panic", r)
			ok = false
		}
	}()
	fn()
	return true
}

// Presentation returns the animation and sound last requested.
func (b *Boss) Presentation() (animation, sound string) {
	if !b.Spawned() {
		return "", ""
	}
	p := components.Presentation.Get(b.entry)
	return p.Animation, p.Sound
}

func (b *Boss) present(animation, sound string) {
	if !b.Spawned() {
		return
	}
	p := components.Presentation.Get(b.entry)
	if animation != "" {
		p.Animation = animation
	}
	p.Sound = sound
	if b.deps.Presenter == nil {
		return
	}
	if animation != "" {
		b.guard("play animation", func() { b.deps.Presenter.PlayAnimation(b.id, animation) })
	}
	if sound != "" {
		b.guard("play sound", func() { b.deps.Presenter.PlaySound(b.id, sound) })
	}
}
