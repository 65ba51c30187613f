package manager

import (
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-bosses/boss"
	cfg "github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
	"github.com/automoto/doomerang-bosses/timers"
)

type fakeTargets struct {
	targets []boss.Target
}

func (f *fakeTargets) Enumerate() []boss.Target {
	return append([]boss.Target(nil), f.targets...)
}

type fakeLoot struct {
	calls [][]string
}

func (f *fakeLoot) DropItems(itemTypes []string, _ gamemath.Vec3) {
	f.calls = append(f.calls, itemTypes)
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

type fakeBroadcaster struct {
	sent [][]HealthUpdate
}

func (f *fakeBroadcaster) BroadcastHealth(updates []HealthUpdate) {
	f.sent = append(f.sent, updates)
}

type fakeBody struct {
	pos     gamemath.Vec3
	gravity float64
	panics  bool
}

func (f *fakeBody) Position() gamemath.Vec3 {
	if f.panics {
		panic("body gone")
	}
	return f.pos
}
func (f *fakeBody) SetPosition(p gamemath.Vec3)   { f.pos = p }
func (f *fakeBody) ApplyImpulse(gamemath.Vec3)    {}
func (f *fakeBody) GravityScale() float64         { return f.gravity }
func (f *fakeBody) SetGravityScale(scale float64) { f.gravity = scale }

type fakeMover struct {
	updates int
}

func (f *fakeMover) Pathfind(gamemath.Vec3, float64, boss.PathOptions) (bool, error) {
	return true, nil
}
func (f *fakeMover) Update(time.Duration) { f.updates++ }
func (f *fakeMover) Stop()                {}

type fixture struct {
	world   donburi.World
	sched   *timers.Scheduler
	targets *fakeTargets
	loot    *fakeLoot
	prog    *fakeProgression
	bcast   *fakeBroadcaster
	bodies  []*fakeBody
	movers  []*fakeMover
	m       *Manager
}

func bruteType() cfg.BossType {
	return cfg.BossType{
		Name:              "brute",
		Health:            250,
		MoveSpeed:         4,
		DetectionRange:    25,
		Size:              1,
		XPReward:          100,
		DropTable:         []string{"bone"},
		RememberAttackers: true,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		world:   donburi.NewWorld(),
		sched:   timers.NewScheduler(),
		targets: &fakeTargets{},
		loot:    &fakeLoot{},
		prog:    &fakeProgression{},
		bcast:   &fakeBroadcaster{},
	}
	f.m = New(f.world, f.sched, cfg.BossTypes{"brute": bruteType()}, Deps{
		Targets:     f.targets,
		Loot:        f.loot,
		Progression: f.prog,
		Broadcaster: f.bcast,
		Rand:        rand.New(rand.NewSource(1)),
		Logger:      log.New(io.Discard),
		NewBody: func(p gamemath.Vec3, _ float64) boss.Body {
			b := &fakeBody{pos: p}
			f.bodies = append(f.bodies, b)
			return b
		},
		NewMover: func(boss.Body, func() float64) boss.Mover {
			mv := &fakeMover{}
			f.movers = append(f.movers, mv)
			return mv
		},
	})
	return f
}

func (f *fixture) spawn(t *testing.T, id string, p gamemath.Vec3) *boss.Boss {
	t.Helper()
	f.m.AddSpawn(SpawnRecord{SpawnerID: id, Position: p, BossType: "brute"})
	b, err := f.m.SpawnBossAt(id)
	if err != nil {
		t.Fatalf("SpawnBossAt(%q) error = %v", id, err)
	}
	return b
}
