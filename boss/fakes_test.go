package boss

import (
	"errors"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yohamta/donburi"

	cfg "github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
	"github.com/automoto/doomerang-bosses/timers"
)

type fakeTargets struct {
	targets []Target
}

func (f *fakeTargets) Enumerate() []Target {
	return append([]Target(nil), f.targets...)
}

type hit struct {
	damage    int
	knockback bool
	dir       gamemath.Vec3
	force     float64
}

type fakeCombatTarget struct {
	invulnerable bool
	hits         []hit
}

func (f *fakeCombatTarget) CanReceiveDamage() bool { return !f.invulnerable }

func (f *fakeCombatTarget) ApplyDamage(amount int, isKnockbackSource bool) {
	f.hits = append(f.hits, hit{damage: amount, knockback: isKnockbackSource})
}

func (f *fakeCombatTarget) ApplyKnockback(direction gamemath.Vec3, force float64, isKnockbackSource bool) {
	last := &f.hits[len(f.hits)-1]
	last.dir = direction
	last.force = force
}

type fakeCombat struct {
	targets map[string]*fakeCombatTarget
}

func (f *fakeCombat) CombatTarget(id string) (CombatTarget, bool) {
	ct, ok := f.targets[id]
	return ct, ok
}

func (f *fakeCombat) hits(id string) int {
	if ct, ok := f.targets[id]; ok {
		return len(ct.hits)
	}
	return 0
}

type fakeDirect struct {
	damage   map[string]int
	impulses map[string][]gamemath.Vec3
}

type fakeDirectTarget struct {
	id string
	f  *fakeDirect
}

func (d fakeDirectTarget) NotifyDamage(amount int, sourceID string) { d.f.damage[d.id] += amount }
func (d fakeDirectTarget) ApplyImpulse(impulse gamemath.Vec3) {
	d.f.impulses[d.id] = append(d.f.impulses[d.id], impulse)
}

func (f *fakeDirect) DirectTarget(id string) (DirectTarget, bool) {
	return fakeDirectTarget{id: id, f: f}, true
}

type dropCall struct {
	items    []string
	position gamemath.Vec3
}

type fakeLoot struct {
	calls []dropCall
}

func (f *fakeLoot) DropItems(itemTypes []string, position gamemath.Vec3) {
	f.calls = append(f.calls, dropCall{items: itemTypes, position: position})
}

type xpCall struct {
	target string
	amount int
}

type fakeProgression struct {
	calls []xpCall
}

func (f *fakeProgression) AwardXP(targetID string, amount int) bool {
	f.calls = append(f.calls, xpCall{targetID, amount})
	return false
}

type pathCall struct {
	target gamemath.Vec3
	stop   float64
	opts   PathOptions
}

type fakeMover struct {
	accept bool
	err    error
	panics bool
	calls  []pathCall
	stops  int
}

func (f *fakeMover) Pathfind(target gamemath.Vec3, stopDistance float64, opts PathOptions) (bool, error) {
	f.calls = append(f.calls, pathCall{target, stopDistance, opts})
	if f.panics {
		panic("navmesh exploded")
	}
	return f.accept, f.err
}

func (f *fakeMover) Update(time.Duration) {}
func (f *fakeMover) Stop()                { f.stops++ }

func (f *fakeMover) last() PathOptions {
	return f.calls[len(f.calls)-1].opts
}

type fakeBody struct {
	pos      gamemath.Vec3
	gravity  float64
	impulses []gamemath.Vec3
}

func (f *fakeBody) Position() gamemath.Vec3        { return f.pos }
func (f *fakeBody) SetPosition(p gamemath.Vec3)    { f.pos = p }
func (f *fakeBody) ApplyImpulse(i gamemath.Vec3)   { f.impulses = append(f.impulses, i) }
func (f *fakeBody) GravityScale() float64          { return f.gravity }
func (f *fakeBody) SetGravityScale(scale float64)  { f.gravity = scale }

type fakePresenter struct {
	animations []string
	sounds     []string
	has        map[string]bool
}

func (f *fakePresenter) PlayAnimation(bossID, name string) { f.animations = append(f.animations, name) }
func (f *fakePresenter) PlaySound(bossID, name string)     { f.sounds = append(f.sounds, name) }
func (f *fakePresenter) HasAnimation(bossID, name string) bool {
	return f.has[name]
}

type harness struct {
	world     donburi.World
	sched     *timers.Scheduler
	targets   *fakeTargets
	combat    *fakeCombat
	loot      *fakeLoot
	prog      *fakeProgression
	tracker   *AttackerTracker
	mover     *fakeMover
	body      *fakeBody
	presenter *fakePresenter
	boss      *Boss
}

type harnessOption func(*harness, *Deps)

func withoutCombat() harnessOption {
	return func(h *harness, d *Deps) { d.Combat = nil }
}

func withDirect(f *fakeDirect) harnessOption {
	return func(h *harness, d *Deps) { d.Direct = f }
}

func withLog(w io.Writer) harnessOption {
	return func(h *harness, d *Deps) { d.Logger = log.New(w) }
}

func withPresenter() harnessOption {
	return func(h *harness, d *Deps) {
		h.presenter = &fakePresenter{has: map[string]bool{}}
		d.Presenter = h.presenter
	}
}

func newHarness(t *testing.T, def cfg.BossType, opts ...harnessOption) *harness {
	t.Helper()

	h := &harness{
		world:   donburi.NewWorld(),
		sched:   timers.NewScheduler(),
		targets: &fakeTargets{},
		combat:  &fakeCombat{targets: map[string]*fakeCombatTarget{}},
		loot:    &fakeLoot{},
		prog:    &fakeProgression{},
		tracker: NewAttackerTracker(),
		mover:   &fakeMover{accept: true},
		body:    &fakeBody{},
	}
	deps := Deps{
		Targets:     h.targets,
		Combat:      h.combat,
		Loot:        h.loot,
		Progression: h.prog,
		Tracker:     h.tracker,
		Timers:      h.sched,
		Rand:        rand.New(rand.NewSource(42)),
		Logger:      log.New(io.Discard),
		NewMover: func(Body, func() float64) Mover {
			return h.mover
		},
		NewBody: func(p gamemath.Vec3, _ float64) Body {
			h.body.pos = p
			return h.body
		},
	}
	for _, opt := range opts {
		opt(h, &deps)
	}

	b, err := New("boss-1", &def, deps)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := b.Spawn(h.world, gamemath.Vec3{}); err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	h.boss = b
	return h
}

// addTarget registers a live target with a combat collaborator.
func (h *harness) addTarget(id string, p gamemath.Vec3) *fakeCombatTarget {
	h.targets.targets = append(h.targets.targets, Target{ID: id, Position: p, Alive: true})
	ct := &fakeCombatTarget{}
	h.combat.targets[id] = ct
	return ct
}

func (h *harness) collectDied() *[]DiedEvent {
	var got []DiedEvent
	Died.Subscribe(h.world, func(_ donburi.World, e DiedEvent) {
		got = append(got, e)
	})
	return &got
}

func (h *harness) collectHealth() *[]HealthChangedEvent {
	var got []HealthChangedEvent
	HealthChanged.Subscribe(h.world, func(_ donburi.World, e HealthChangedEvent) {
		got = append(got, e)
	})
	return &got
}

func (h *harness) flushEvents() {
	HealthChanged.ProcessEvents(h.world)
	Died.ProcessEvents(h.world)
}

// plainType is a boss without attacks, death animation, or attacker memory.
func plainType() cfg.BossType {
	return cfg.BossType{
		Name:           "dummy",
		Health:         250,
		MoveSpeed:      4,
		DetectionRange: 25,
		Size:           1,
		XPReward:       100,
		DropTable:      []string{"bone"},
	}
}

func meleeSpec(delayMs int) cfg.AttackSpec {
	return cfg.AttackSpec{
		ID:            "claw",
		Kind:          cfg.AttackMelee,
		CooldownMs:    1500,
		Range:         2.5,
		Damage:        15,
		EffectDelayMs: delayMs,
	}
}

var errNavmesh = errors.New("no navmesh")
