package systems

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-bosses/boss"
	cfg "github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/services"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
	"github.com/automoto/doomerang-bosses/shared/netcomponents"
	"github.com/automoto/doomerang-bosses/tags"
	"github.com/automoto/doomerang-bosses/timers"
)

const lootTimerOwner = "loot"

// DropSource hands over items dropped since the last call.
type DropSource interface {
	Drain() []services.Drop
}

// Pickup is an item collected by a player.
type Pickup struct {
	PlayerID string
	Item     string
}

// LootSync turns boss drops into replicated ground items. Items expire
// after cfg.Server.LootLifetime unless a player walks over them first.
type LootSync struct {
	world  donburi.World
	syncer Syncer
	timers *timers.Scheduler
	source DropSource
	log    *log.Logger
	seq    int
}

func NewLootSync(world donburi.World, syncer Syncer, sched *timers.Scheduler, source DropSource, logger *log.Logger) *LootSync {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "loot"})
	}
	if syncer == nil {
		syncer = NopSyncer{}
	}
	return &LootSync{
		world:  world,
		syncer: syncer,
		timers: sched,
		source: source,
		log:    logger,
	}
}

// Update spawns new drops, then lets every live collector pick up items in
// reach. Each item goes to the first collector in range.
func (l *LootSync) Update(collectors []boss.Target) []Pickup {
	for _, d := range l.source.Drain() {
		l.spawn(d)
	}

	var (
		pickups []Pickup
		taken   []donburi.Entity
	)
	tags.Loot.Each(l.world, func(e *donburi.Entry) {
		p := netcomponents.NetPosition.Get(e)
		at := gamemath.Vec3{X: p.X, Y: p.Y, Z: p.Z}
		for _, c := range collectors {
			if !c.Alive || gamemath.Distance(c.Position, at) > cfg.Server.LootPickupRadius {
				continue
			}
			pickups = append(pickups, Pickup{PlayerID: c.ID, Item: netcomponents.NetLoot.Get(e).Item})
			taken = append(taken, e.Entity())
			return
		}
	})

	for _, entity := range taken {
		l.world.Remove(entity)
	}
	for _, p := range pickups {
		l.log.Info("item picked up", "player", p.PlayerID, "item", p.Item)
	}
	return pickups
}

// Len is the number of items on the ground.
func (l *LootSync) Len() int {
	n := 0
	tags.Loot.Each(l.world, func(*donburi.Entry) { n++ })
	return n
}

func (l *LootSync) spawn(d services.Drop) {
	entity := l.world.Create(tags.Loot, netcomponents.NetPosition, netcomponents.NetLoot)
	entry := l.world.Entry(entity)
	netcomponents.NetPosition.Set(entry, &netcomponents.NetPositionData{X: d.Position.X, Y: d.Position.Y, Z: d.Position.Z})
	netcomponents.NetLoot.Set(entry, &netcomponents.NetLootData{Item: d.Item})

	if err := l.syncer.SyncLoot(&entity); err != nil {
		l.log.Error("failed to set up network sync", "item", d.Item, "err", err)
	}

	l.seq++
	name := strconv.Itoa(l.seq)
	l.timers.After(lootTimerOwner, name, cfg.Server.LootLifetime, func() {
		if l.world.Valid(entity) {
			l.world.Remove(entity)
		}
	})
}

// ExpireAll removes every item at once.
func (l *LootSync) ExpireAll() {
	var all []donburi.Entity
	tags.Loot.Each(l.world, func(e *donburi.Entry) { all = append(all, e.Entity()) })
	for _, entity := range all {
		l.world.Remove(entity)
	}
	l.log.Info("loot cleared", "items", len(all), "at", l.timers.Now())
}
