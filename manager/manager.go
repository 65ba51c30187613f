// Package manager owns every boss in a world: spawn points, the periodic
// targeting loop, health broadcasts, and teardown.
package manager

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-bosses/boss"
	cfg "github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
	"github.com/automoto/doomerang-bosses/timers"
)

var (
	ErrUnknownBossType = errors.New("manager: unknown boss type")
	ErrSpawnNotFound   = errors.New("manager: spawn point not found")
	ErrSpawnOccupied   = errors.New("manager: spawn point already has a live boss")
	ErrBossNotFound    = errors.New("manager: boss not found")
	ErrClosed          = errors.New("manager: closed")
)

const timerOwner = "boss-manager"

// SpawnOptions override parts of a boss type for one spawn point. Zero
// values keep the type's setting.
type SpawnOptions struct {
	Health         int
	DetectionRange float64
	MoveSpeed      float64
}

// SpawnRecord is a named spawn point.
type SpawnRecord struct {
	SpawnerID string
	Position  gamemath.Vec3
	BossType  string
	Options   SpawnOptions
}

// HealthUpdate is one entry of a health broadcast.
type HealthUpdate struct {
	BossID    string
	Health    int
	MaxHealth int
}

// Broadcaster receives throttled health updates, one entry per boss whose
// health changed since the last broadcast.
type Broadcaster interface {
	BroadcastHealth(updates []HealthUpdate)
}

// Deps are the host collaborators handed to every boss.
type Deps struct {
	Targets     boss.TargetProvider
	Combat      boss.CombatTargets
	Direct      boss.DirectTargets
	Loot        boss.LootService
	Progression boss.ProgressionService
	Presenter   boss.Presenter
	NewMover    boss.MoverFactory
	NewBody     boss.BodyFactory
	Broadcaster Broadcaster
	Rand        *rand.Rand
	Logger      *log.Logger
}

// Manager is single-threaded: call it from the simulation tick only.
type Manager struct {
	world   donburi.World
	timers  *timers.Scheduler
	types   cfg.BossTypes
	deps    Deps
	tracker *boss.AttackerTracker
	log     *log.Logger

	spawns map[string]SpawnRecord
	active map[string]*boss.Boss

	pending       map[string]HealthUpdate
	lastBroadcast time.Duration
	hasBroadcast  bool

	loop   *timers.Timer
	closed bool
}

// New creates a manager for world. Boss timers and the targeting loop run
// on sched.
func New(world donburi.World, sched *timers.Scheduler, types cfg.BossTypes, deps Deps) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "manager"})
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	m := &Manager{
		world:   world,
		timers:  sched,
		types:   types,
		deps:    deps,
		tracker: boss.NewAttackerTracker(),
		log:     logger,
		spawns:  map[string]SpawnRecord{},
		active:  map[string]*boss.Boss{},
		pending: map[string]HealthUpdate{},
	}

	boss.HealthChanged.Subscribe(world, m.onHealthChanged)
	boss.Died.Subscribe(world, m.onDied)
	return m
}

// Tracker is the attacker memory shared by every boss of this manager.
func (m *Manager) Tracker() *boss.AttackerTracker { return m.tracker }

// SetTypes swaps the type registry. Bosses already spawned keep the
// definition they were built from.
func (m *Manager) SetTypes(types cfg.BossTypes) {
	m.types = types
	m.log.Info("boss types replaced", "types", types.Names())
}

// AddSpawn registers or replaces a spawn point.
func (m *Manager) AddSpawn(rec SpawnRecord) {
	m.spawns[rec.SpawnerID] = rec
}

// Spawns returns the spawn points sorted by id.
func (m *Manager) Spawns() []SpawnRecord {
	out := make([]SpawnRecord, 0, len(m.spawns))
	for _, rec := range m.spawns {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SpawnerID < out[j].SpawnerID })
	return out
}

// SpawnBossAt builds the boss for spawnerID, spawns it, and registers it.
func (m *Manager) SpawnBossAt(spawnerID string) (*boss.Boss, error) {
	if m.closed {
		return nil, ErrClosed
	}
	rec, ok := m.spawns[spawnerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSpawnNotFound, spawnerID)
	}
	for _, b := range m.active {
		if b.Spawner() == spawnerID && b.Alive() {
			return nil, fmt.Errorf("%w: %s", ErrSpawnOccupied, spawnerID)
		}
	}

	def, err := m.resolveType(rec)
	if err != nil {
		return nil, err
	}

	b, err := boss.New("", def, boss.Deps{
		Targets:     m.deps.Targets,
		Combat:      m.deps.Combat,
		Direct:      m.deps.Direct,
		Loot:        m.deps.Loot,
		Progression: m.deps.Progression,
		Tracker:     m.tracker,
		Presenter:   m.deps.Presenter,
		NewMover:    m.deps.NewMover,
		NewBody:     m.deps.NewBody,
		Timers:      m.timers,
		Rand:        m.deps.Rand,
		Logger:      m.log,
	})
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", spawnerID, err)
	}
	if err := b.Spawn(m.world, rec.Position); err != nil {
		return nil, fmt.Errorf("spawn %s: %w", spawnerID, err)
	}
	b.SetSpawner(spawnerID)

	m.active[b.ID()] = b
	m.log.Info("boss spawned", "spawner", spawnerID, "boss", b.ID(), "type", def.Name)
	return b, nil
}

// SpawnAll spawns a boss at every free spawn point. Failures are joined;
// successful spawns stay.
func (m *Manager) SpawnAll() (int, error) {
	var errs []error
	n := 0
	for _, rec := range m.Spawns() {
		if _, err := m.SpawnBossAt(rec.SpawnerID); err != nil {
			if errors.Is(err, ErrSpawnOccupied) {
				continue
			}
			errs = append(errs, err)
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}

func (m *Manager) resolveType(rec SpawnRecord) (*cfg.BossType, error) {
	t, ok := m.types[rec.BossType]
	if !ok {
		return nil, fmt.Errorf("%w: %q at %s", ErrUnknownBossType, rec.BossType, rec.SpawnerID)
	}

	def := t
	def.Attacks = append([]cfg.AttackSpec(nil), t.Attacks...)
	def.DropTable = append([]string(nil), t.DropTable...)
	if o := rec.Options; o.Health > 0 {
		def.Health = o.Health
	}
	if o := rec.Options; o.DetectionRange > 0 {
		def.DetectionRange = o.DetectionRange
	}
	if o := rec.Options; o.MoveSpeed > 0 {
		def.MoveSpeed = o.MoveSpeed
	}
	return &def, nil
}

// Boss looks up an active boss.
func (m *Manager) Boss(id string) (*boss.Boss, bool) {
	b, ok := m.active[id]
	return b, ok
}

// Bosses returns the active bosses sorted by id.
func (m *Manager) Bosses() []*boss.Boss {
	ids := m.activeIDs()
	out := make([]*boss.Boss, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.active[id])
	}
	return out
}

// Len is the number of active bosses.
func (m *Manager) Len() int { return len(m.active) }

// Damage routes a hit from the host to a boss.
func (m *Manager) Damage(bossID string, amount int, src boss.DamageSource) error {
	b, ok := m.active[bossID]
	if !ok || !b.Spawned() {
		return fmt.Errorf("%w: %s", ErrBossNotFound, bossID)
	}
	b.Damage(amount, src)
	return nil
}

func (m *Manager) activeIDs() []string {
	ids := make([]string, 0, len(m.active))
	for id := range m.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DespawnAll tears down every active boss and empties the registry.
func (m *Manager) DespawnAll() {
	for _, id := range m.activeIDs() {
		b := m.active[id]
		m.guard(id, "despawn", b.Despawn)
	}
	m.active = map[string]*boss.Boss{}
	m.pending = map[string]HealthUpdate{}
}

// Close despawns everything and stops the loop. Later spawns fail with
// ErrClosed.
func (m *Manager) Close() {
	if m.closed {
		return
	}
	m.Stop()
	m.DespawnAll()
	m.closed = true
	m.log.Info("manager closed")
}

// guard runs fn and turns a panic into a log line so one boss never takes
// the others down with it.
func (m *Manager) guard(bossID, what string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("boss panicked", "boss", bossID, "during", what, "panic", r)
			ok = false
		}
	}()
	fn()
	return true
}
