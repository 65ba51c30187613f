package core

import (
	"errors"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-bosses/boss"
	cfg "github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/physics"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
	"github.com/automoto/doomerang-bosses/shared/messages"
	"github.com/automoto/doomerang-bosses/shared/netcomponents"
	"github.com/automoto/doomerang-bosses/shared/netconfig"
	"github.com/automoto/doomerang-bosses/systems"
	"github.com/automoto/doomerang-bosses/tags"
	"github.com/automoto/doomerang-bosses/timers"
)

var ErrPlayerNotFound = errors.New("core: player not found")

// Player is one connected participant. It is server-only state and is
// never synced directly; systems.SyncPlayers copies what clients need.
type Player struct {
	ID        string
	Name      string
	Entity    donburi.Entity
	Body      *physics.Body
	Health    int
	MaxHealth int

	// Latest input snapshot, read by the tick
	input         messages.PlayerInput
	attackWasHeld bool
	jumpWasHeld   bool

	// Frame counters, counted down once per tick
	invulnFrames   int
	attackCooldown int
	staggerFrames  int

	spawnIndex int
	downs      int // Bumped on every death so stale respawns are ignored
}

func (p *Player) Alive() bool        { return p.Health > 0 }
func (p *Player) Invulnerable() bool { return p.invulnFrames > 0 }

// AttackIntent is a player swinging at whatever boss is in reach.
type AttackIntent struct {
	PlayerID string
	Position gamemath.Vec3
}

// Players is the registry of connected players. It is the boss's view of
// the world: every player is a target, a combat target and a direct
// target. Only the tick goroutine may use it.
type Players struct {
	world   donburi.World
	physics *physics.World
	level   *ServerLevel
	timers  *timers.Scheduler
	syncer  systems.Syncer
	log     *log.Logger

	byID   map[string]*Player
	joined int
}

func NewPlayers(world donburi.World, phys *physics.World, level *ServerLevel, sched *timers.Scheduler, syncer systems.Syncer, logger *log.Logger) *Players {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "players"})
	}
	if syncer == nil {
		syncer = systems.NopSyncer{}
	}
	return &Players{
		world:   world,
		physics: phys,
		level:   level,
		timers:  sched,
		syncer:  syncer,
		log:     logger,
		byID:    map[string]*Player{},
	}
}

// Join creates a player at the next spawn point. Joining twice with the
// same id returns the existing player.
func (ps *Players) Join(id, name string) *Player {
	if p, ok := ps.byID[id]; ok {
		return p
	}

	entity := ps.world.Create(
		tags.Player,
		netcomponents.NetPosition,
		netcomponents.NetVelocity,
		netcomponents.NetPlayerState,
	)
	if err := ps.syncer.SyncPlayer(&entity); err != nil {
		ps.log.Error("failed to set up network sync for player", "player", id, "err", err)
	}

	idx := ps.joined
	ps.joined++
	spawn := ps.level.PlayerSpawn(idx)

	p := &Player{
		ID:         id,
		Name:       name,
		Entity:     entity,
		Body:       ps.physics.NewBody(spawn, cfg.Server.PlayerMass),
		Health:     cfg.Server.PlayerHealth,
		MaxHealth:  cfg.Server.PlayerHealth,
		spawnIndex: idx,
	}
	ps.byID[id] = p
	ps.log.Info("player joined", "player", id, "name", name, "x", spawn.X, "z", spawn.Z)
	return p
}

// Leave removes the player, its body and its replica.
func (ps *Players) Leave(id string) bool {
	p, ok := ps.byID[id]
	if !ok {
		return false
	}
	delete(ps.byID, id)
	p.Body.Remove()
	if ps.world.Valid(p.Entity) {
		ps.world.Remove(p.Entity)
	}
	ps.log.Info("player left", "player", id)
	return true
}

func (ps *Players) Get(id string) (*Player, bool) {
	p, ok := ps.byID[id]
	return p, ok
}

func (ps *Players) Len() int { return len(ps.byID) }

// SetInput stores the latest input. Older sequences are dropped.
func (ps *Players) SetInput(id string, input messages.PlayerInput) error {
	p, ok := ps.byID[id]
	if !ok {
		return ErrPlayerNotFound
	}
	if input.Sequence != 0 && input.Sequence < p.input.Sequence {
		return nil
	}
	p.input = input
	return nil
}

func (ps *Players) Rename(id, name string) error {
	p, ok := ps.byID[id]
	if !ok {
		return ErrPlayerNotFound
	}
	p.Name = name
	return nil
}

// sorted returns players in id order so every tick visits them the same way.
func (ps *Players) sorted() []*Player {
	out := make([]*Player, 0, len(ps.byID))
	for _, p := range ps.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Tick counts down frame timers and turns input into movement. It returns
// the attacks started this tick.
func (ps *Players) Tick() []AttackIntent {
	var intents []AttackIntent
	for _, p := range ps.sorted() {
		if p.invulnFrames > 0 {
			p.invulnFrames--
		}
		if p.attackCooldown > 0 {
			p.attackCooldown--
		}
		if p.staggerFrames > 0 {
			p.staggerFrames--
		}

		attackHeld := p.input.Pressed(netconfig.ActionAttack)
		jumpHeld := p.input.Pressed(netconfig.ActionJump)
		attackEdge := attackHeld && !p.attackWasHeld
		jumpEdge := jumpHeld && !p.jumpWasHeld
		p.attackWasHeld, p.jumpWasHeld = attackHeld, jumpHeld

		if !p.Alive() || p.staggerFrames > 0 {
			continue
		}
		ps.steer(p)

		if jumpEdge && p.Body.Grounded() {
			p.Body.ApplyImpulse(gamemath.Vec3{Y: cfg.Server.PlayerJumpImpulse * cfg.Server.PlayerMass})
		}
		if attackEdge && p.attackCooldown == 0 {
			p.attackCooldown = cfg.Server.PlayerAttackCooldownFrames
			intents = append(intents, AttackIntent{PlayerID: p.ID, Position: p.Body.Position()})
		}
	}
	return intents
}

// steer sets the horizontal velocity to the stick direction.
func (ps *Players) steer(p *Player) {
	dir := gamemath.Vec3{X: p.input.MoveX, Z: p.input.MoveZ}
	if dir.Len() > 1 {
		dir = dir.Normalized()
	}
	want := dir.Scale(cfg.Server.PlayerMoveSpeed)
	v := p.Body.Velocity()
	p.Body.ApplyImpulse(gamemath.Vec3{
		X: (want.X - v.X) * cfg.Server.PlayerMass,
		Z: (want.Z - v.Z) * cfg.Server.PlayerMass,
	})
}

// hurt lowers health and starts the respawn timer on a kill.
func (ps *Players) hurt(p *Player, amount int, source string) {
	if amount <= 0 || !p.Alive() {
		return
	}
	p.Health = max(0, p.Health-amount)
	ps.log.Debug("player hit", "player", p.ID, "damage", amount, "health", p.Health, "source", source)
	if p.Alive() {
		return
	}

	p.downs++
	downs := p.downs
	ps.log.Info("player down", "player", p.ID, "source", source)
	ps.timers.After(p.ID, "respawn", cfg.Server.PlayerRespawnDelay, func() {
		if cur, ok := ps.byID[p.ID]; !ok || cur != p || p.downs != downs {
			return
		}
		ps.respawn(p)
	})
}

func (ps *Players) respawn(p *Player) {
	p.Health = p.MaxHealth
	p.invulnFrames = cfg.Server.PlayerInvulnFrames
	p.staggerFrames = 0
	spawn := ps.level.PlayerSpawn(p.spawnIndex)
	p.Body.SetPosition(spawn)
	ps.log.Info("player respawned", "player", p.ID, "x", spawn.X, "z", spawn.Z)
}

func (ps *Players) knock(p *Player, impulse gamemath.Vec3) {
	p.Body.ApplyImpulse(impulse)
	p.staggerFrames = cfg.Server.PlayerKnockbackFrames
}

// Enumerate implements boss.TargetProvider.
func (ps *Players) Enumerate() []boss.Target {
	players := ps.sorted()
	out := make([]boss.Target, 0, len(players))
	for _, p := range players {
		out = append(out, boss.Target{ID: p.ID, Position: p.Body.Position(), Alive: p.Alive()})
	}
	return out
}

// CombatTarget implements boss.CombatTargets.
func (ps *Players) CombatTarget(targetID string) (boss.CombatTarget, bool) {
	p, ok := ps.byID[targetID]
	if !ok {
		return nil, false
	}
	return &combatTarget{players: ps, p: p}, true
}

// DirectTarget implements boss.DirectTargets.
func (ps *Players) DirectTarget(targetID string) (boss.DirectTarget, bool) {
	p, ok := ps.byID[targetID]
	if !ok {
		return nil, false
	}
	return &directTarget{players: ps, p: p}, true
}

// Views lists what each player's replica should show.
func (ps *Players) Views() []systems.PlayerView {
	players := ps.sorted()
	views := make([]systems.PlayerView, 0, len(players))
	for _, p := range players {
		views = append(views, systems.PlayerView{
			Entity:       p.Entity,
			ID:           p.ID,
			Name:         p.Name,
			Position:     p.Body.Position(),
			Velocity:     p.Body.Velocity(),
			Health:       p.Health,
			MaxHealth:    p.MaxHealth,
			Invulnerable: p.Invulnerable(),
			LastSequence: p.input.Sequence,
		})
	}
	return views
}

// combatTarget gives boss attacks a hit window: every landed hit makes the
// player invulnerable for a few frames.
type combatTarget struct {
	players *Players
	p       *Player
}

func (c *combatTarget) CanReceiveDamage() bool {
	return c.p.Alive() && !c.p.Invulnerable()
}

func (c *combatTarget) ApplyDamage(amount int, isKnockbackSource bool) {
	source := "boss"
	if isKnockbackSource {
		source = "boss knockback"
	}
	c.players.hurt(c.p, amount, source)
	c.p.invulnFrames = cfg.Server.PlayerInvulnFrames
}

func (c *combatTarget) ApplyKnockback(direction gamemath.Vec3, force float64, _ bool) {
	if !c.p.Alive() {
		return
	}
	c.players.knock(c.p, direction.Scale(force*cfg.Server.PlayerMass))
}

// directTarget is the bare player, with no hit window.
type directTarget struct {
	players *Players
	p       *Player
}

func (d *directTarget) NotifyDamage(amount int, sourceID string) {
	d.players.hurt(d.p, amount, sourceID)
}

func (d *directTarget) ApplyImpulse(impulse gamemath.Vec3) {
	if !d.p.Alive() {
		return
	}
	d.players.knock(d.p, impulse)
}
