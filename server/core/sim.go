package core

import (
	"errors"
	"math"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-bosses/boss"
	cfg "github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/manager"
	"github.com/automoto/doomerang-bosses/nav"
	"github.com/automoto/doomerang-bosses/physics"
	"github.com/automoto/doomerang-bosses/services"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
	"github.com/automoto/doomerang-bosses/systems"
	"github.com/automoto/doomerang-bosses/timers"
)

const simTimerOwner = "server"

// SimOptions configure a Simulation.
type SimOptions struct {
	Level  *ServerLevel
	Types  cfg.BossTypes
	Syncer systems.Syncer
	Seed   int64
	Logger *log.Logger
}

// Simulation is everything that runs on the tick goroutine: players, bosses,
// physics, timers and the replicas. Other goroutines talk to it through
// Enqueue.
type Simulation struct {
	world   donburi.World
	timers  *timers.Scheduler
	physics *physics.World
	level   *ServerLevel
	players *Players
	bosses  *manager.Manager
	loot    *services.LootRecorder
	ledger  *services.Ledger
	log     *log.Logger

	animations *systems.AnimationLibrary
	bossSync   *systems.BossSync
	lootSync   *systems.LootSync

	respawn *timers.Timer
	ticks   uint64

	mu       sync.Mutex
	commands []func()
}

// NewSimulation wires the boss manager to the level and spawns every boss
// the level places.
func NewSimulation(world donburi.World, opts SimOptions) (*Simulation, error) {
	if opts.Level == nil {
		return nil, errors.New("core: simulation needs a level")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "server"})
	}
	types := opts.Types
	if len(types) == 0 {
		types = cfg.DefaultBossTypes()
	}

	sched := timers.NewScheduler()
	phys := physics.NewWorld(cfg.Server.Gravity, cfg.Server.GroundFriction, opts.Level.Floor)
	loot := services.NewLootRecorder(logger.WithPrefix("loot"))

	s := &Simulation{
		world:   world,
		timers:  sched,
		physics: phys,
		level:   opts.Level,
		loot:    loot,
		ledger:  services.NewLedger(logger.WithPrefix("progression")),
		log:     logger,
	}
	s.players = NewPlayers(world, phys, opts.Level, sched, opts.Syncer, logger.WithPrefix("players"))
	s.animations = systems.NewAnimationLibrary(types, s.bossType, logger.WithPrefix("animations"))
	s.bossSync = systems.NewBossSync(world, opts.Syncer, logger.WithPrefix("bosssync"))
	s.lootSync = systems.NewLootSync(world, opts.Syncer, sched, loot, logger.WithPrefix("loot"))

	s.bosses = manager.New(world, sched, types, manager.Deps{
		Targets:     s.players,
		Combat:      s.players,
		Direct:      s.players,
		Loot:        loot,
		Progression: s.ledger,
		Presenter:   s.animations,
		NewMover:    nav.Factory(opts.Level.Grid, logger.WithPrefix("nav")),
		NewBody:     s.newBossBody,
		Broadcaster: s.bossSync,
		Rand:        rand.New(rand.NewSource(opts.Seed)),
		Logger:      logger.WithPrefix("manager"),
	})
	for _, rec := range opts.Level.SpawnRecords() {
		s.bosses.AddSpawn(rec)
	}

	s.spawnBosses()
	s.bosses.Start()
	s.respawn = sched.Every(simTimerOwner, "boss-respawn", cfg.Server.BossRespawnInterval, s.spawnBosses)
	return s, nil
}

func (s *Simulation) Players() *Players           { return s.players }
func (s *Simulation) Bosses() *manager.Manager    { return s.bosses }
func (s *Simulation) Ledger() *services.Ledger    { return s.ledger }
func (s *Simulation) Timers() *timers.Scheduler   { return s.timers }
func (s *Simulation) BossSync() *systems.BossSync { return s.bossSync }
func (s *Simulation) LootSync() *systems.LootSync { return s.lootSync }

// Enqueue runs cmd at the start of the next tick. Safe from any goroutine.
func (s *Simulation) Enqueue(cmd func()) {
	s.mu.Lock()
	s.commands = append(s.commands, cmd)
	s.mu.Unlock()
}

// ProcessCommands runs everything queued since the last tick.
func (s *Simulation) ProcessCommands() {
	s.mu.Lock()
	cmds := s.commands
	s.commands = nil
	s.mu.Unlock()

	for _, cmd := range cmds {
		cmd()
	}
}

// Tick advances the world by dt.
func (s *Simulation) Tick(dt time.Duration) {
	s.ticks++
	s.ProcessCommands()

	for _, in := range s.players.Tick() {
		s.playerAttack(in)
	}

	s.physics.Step(dt)
	s.timers.Advance(dt)
	s.bosses.Update(dt)

	s.bossSync.Update(s.bosses.Bosses(), dt)
	s.lootSync.Update(s.players.Enumerate())
	systems.SyncPlayers(s.world, s.players.Views(), s.ledger.Standing)
}

// SetTypes swaps boss definitions. Live bosses keep the ones they spawned
// with.
func (s *Simulation) SetTypes(types cfg.BossTypes) {
	s.bosses.SetTypes(types)
	s.animations.SetTypes(types)
	s.log.Info("boss types reloaded", "types", types.Names())
}

// Close despawns everything. The simulation must not tick afterwards.
func (s *Simulation) Close() {
	if s.respawn != nil {
		s.respawn.Stop()
	}
	s.bosses.Close()
	s.bossSync.Update(nil, 0)
	s.lootSync.ExpireAll()
	for _, p := range s.players.sorted() {
		s.players.Leave(p.ID)
	}
	s.log.Info("simulation closed", "ticks", s.ticks)
}

func (s *Simulation) spawnBosses() {
	n, err := s.bosses.SpawnAll()
	if err != nil {
		s.log.Warn("some bosses failed to spawn", "err", err)
	}
	if n > 0 {
		s.log.Info("bosses spawned", "count", n, "active", s.bosses.Len())
	}
}

// playerAttack hits the nearest living boss within reach.
func (s *Simulation) playerAttack(in AttackIntent) {
	var (
		target *boss.Boss
		best   = math.Inf(1)
	)
	for _, b := range s.bosses.Bosses() {
		if !b.Alive() {
			continue
		}
		d := gamemath.Distance(in.Position, b.Position())
		if d <= cfg.Server.PlayerAttackRange && d < best {
			target, best = b, d
		}
	}
	if target == nil {
		return
	}
	err := s.bosses.Damage(target.ID(), cfg.Server.PlayerAttackDamage, boss.DamageSource{AttackerID: in.PlayerID})
	if err != nil {
		s.log.Warn("player attack failed", "player", in.PlayerID, "boss", target.ID(), "err", err)
	}
}

func (s *Simulation) bossType(bossID string) (string, bool) {
	b, ok := s.bosses.Boss(bossID)
	if !ok {
		return "", false
	}
	return b.Type().Name, true
}

func (s *Simulation) newBossBody(p gamemath.Vec3, size float64) boss.Body {
	return s.physics.NewBody(p, math.Max(1, size))
}
