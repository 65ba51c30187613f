package systems

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-bosses/boss"
	"github.com/automoto/doomerang-bosses/manager"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
	"github.com/automoto/doomerang-bosses/shared/netcomponents"
	"github.com/automoto/doomerang-bosses/shared/netconfig"
	"github.com/automoto/doomerang-bosses/tags"
)

// BossSync mirrors every spawned boss onto a replicated entity. Health on
// the replica only moves when the manager broadcasts it.
type BossSync struct {
	world    donburi.World
	syncer   Syncer
	log      *log.Logger
	entities map[string]donburi.Entity
	last     map[string]gamemath.Vec3
}

func NewBossSync(world donburi.World, syncer Syncer, logger *log.Logger) *BossSync {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "bosssync"})
	}
	if syncer == nil {
		syncer = NopSyncer{}
	}
	return &BossSync{
		world:    world,
		syncer:   syncer,
		log:      logger,
		entities: map[string]donburi.Entity{},
		last:     map[string]gamemath.Vec3{},
	}
}

// Update refreshes replicas for bosses and removes replicas whose boss is gone.
func (s *BossSync) Update(bosses []*boss.Boss, dt time.Duration) {
	seen := make(map[string]bool, len(bosses))
	for _, b := range bosses {
		if !b.Spawned() {
			continue
		}
		seen[b.ID()] = true
		s.refresh(b, s.entry(b), dt)
	}

	for id, entity := range s.entities {
		if seen[id] {
			continue
		}
		if s.world.Valid(entity) {
			s.world.Remove(entity)
		}
		delete(s.entities, id)
		delete(s.last, id)
	}
}

// BroadcastHealth implements manager.Broadcaster.
func (s *BossSync) BroadcastHealth(updates []manager.HealthUpdate) {
	for _, u := range updates {
		entity, ok := s.entities[u.BossID]
		if !ok || !s.world.Valid(entity) {
			continue
		}
		nb := netcomponents.NetBoss.Get(s.world.Entry(entity))
		nb.Health = u.Health
		nb.MaxHealth = u.MaxHealth
	}
	s.log.Debug("health broadcast", "bosses", len(updates))
}

// Replica returns the replicated state of a boss.
func (s *BossSync) Replica(bossID string) (netcomponents.NetBossData, bool) {
	entity, ok := s.entities[bossID]
	if !ok || !s.world.Valid(entity) {
		return netcomponents.NetBossData{}, false
	}
	return *netcomponents.NetBoss.Get(s.world.Entry(entity)), true
}

// Len is the number of live replicas.
func (s *BossSync) Len() int {
	n := 0
	tags.NetBoss.Each(s.world, func(*donburi.Entry) { n++ })
	return n
}

func (s *BossSync) entry(b *boss.Boss) *donburi.Entry {
	if entity, ok := s.entities[b.ID()]; ok && s.world.Valid(entity) {
		return s.world.Entry(entity)
	}

	entity := s.world.Create(
		tags.NetBoss,
		netcomponents.NetPosition,
		netcomponents.NetVelocity,
		netcomponents.NetBoss,
	)
	entry := s.world.Entry(entity)
	netcomponents.NetBoss.Set(entry, &netcomponents.NetBossData{
		BossID:    b.ID(),
		TypeName:  b.Type().Name,
		Health:    b.Health(),
		MaxHealth: b.MaxHealth(),
	})

	if err := s.syncer.SyncBoss(&entity); err != nil {
		s.log.Error("failed to set up network sync", "boss", b.ID(), "err", err)
	}
	s.entities[b.ID()] = entity
	return entry
}

func (s *BossSync) refresh(b *boss.Boss, entry *donburi.Entry, dt time.Duration) {
	pos := b.Position()
	netcomponents.NetPosition.Set(entry, &netcomponents.NetPositionData{X: pos.X, Y: pos.Y, Z: pos.Z})

	vel := gamemath.Vec3{}
	if prev, ok := s.last[b.ID()]; ok && dt > 0 {
		vel = pos.Sub(prev).Scale(1 / dt.Seconds())
	}
	s.last[b.ID()] = pos
	netcomponents.NetVelocity.Set(entry, &netcomponents.NetVelocityData{X: vel.X, Y: vel.Y, Z: vel.Z})

	nb := netcomponents.NetBoss.Get(entry)
	nb.Yaw = b.Rotation().Yaw
	nb.Phase = netconfig.BossPhase(b.AttackPhase())
	nb.PathState = netconfig.PathStateID(b.PathState())
	nb.Attack = b.ActiveAttack()
	nb.Flashing = b.Flashing()
	nb.FlashIntensity = b.FlashIntensity()
	nb.Buffed = b.BuffActive()
	nb.Dead = b.Dead()
	nb.Indicator, _ = b.Indicator()
	nb.Animation, nb.Sound = b.Presentation()
}
