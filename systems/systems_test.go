package systems

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-bosses/boss"
	cfg "github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/manager"
	"github.com/automoto/doomerang-bosses/services"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
	"github.com/automoto/doomerang-bosses/shared/netcomponents"
	"github.com/automoto/doomerang-bosses/tags"
	"github.com/automoto/doomerang-bosses/timers"
)

type countingSyncer struct {
	bosses, players, loot int
}

func (c *countingSyncer) SyncBoss(*donburi.Entity) error   { c.bosses++; return nil }
func (c *countingSyncer) SyncPlayer(*donburi.Entity) error { c.players++; return nil }
func (c *countingSyncer) SyncLoot(*donburi.Entity) error   { c.loot++; return nil }

func quiet() *log.Logger { return log.New(io.Discard) }

func spawnStalker(t *testing.T, world donburi.World, sched *timers.Scheduler, id string) *boss.Boss {
	t.Helper()
	def := cfg.StalkerType()
	b, err := boss.New(id, &def, boss.Deps{Timers: sched, Logger: quiet()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := b.Spawn(world, gamemath.Vec3{X: 1, Z: 2}); err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	return b
}

func TestBossSyncMirrorsBoss(t *testing.T) {
	world := donburi.NewWorld()
	sched := timers.NewScheduler()
	b := spawnStalker(t, world, sched, "b1")

	syncer := &countingSyncer{}
	s := NewBossSync(world, syncer, quiet())
	s.Update([]*boss.Boss{b}, 100*time.Millisecond)
	s.Update([]*boss.Boss{b}, 100*time.Millisecond)

	if syncer.bosses != 1 {
		t.Errorf("SyncBoss calls = %d; want 1", syncer.bosses)
	}
	rep, ok := s.Replica("b1")
	if !ok {
		t.Fatal("Replica() ok = false; want true")
	}
	if rep.TypeName != "stalker" || rep.Health != 250 || rep.MaxHealth != 250 {
		t.Errorf("Replica() = %+v; want stalker at 250/250", rep)
	}
	if rep.Animation != "idle" {
		t.Errorf("Animation = %q; want idle", rep.Animation)
	}
	if rep.Indicator == "" {
		t.Error("Indicator is empty; want a health label")
	}
	if got := s.Len(); got != 1 {
		t.Errorf("Len() = %d; want 1", got)
	}
}

func TestBossSyncHealthOnlyMovesOnBroadcast(t *testing.T) {
	world := donburi.NewWorld()
	sched := timers.NewScheduler()
	b := spawnStalker(t, world, sched, "b1")
	s := NewBossSync(world, nil, quiet())
	s.Update([]*boss.Boss{b}, 0)

	b.Damage(50, boss.DamageSource{AttackerID: "p1"})
	s.Update([]*boss.Boss{b}, 0)

	rep, _ := s.Replica("b1")
	if rep.Health != 250 {
		t.Errorf("Health before broadcast = %d; want 250", rep.Health)
	}
	if !rep.Flashing {
		t.Error("Flashing = false; want true right after a hit")
	}
	if rep.FlashIntensity != 1 {
		t.Errorf("FlashIntensity = %v; want 1 right after a hit", rep.FlashIntensity)
	}

	b.Update(75 * time.Millisecond)
	s.Update([]*boss.Boss{b}, 0)
	rep, _ = s.Replica("b1")
	if rep.FlashIntensity <= 0 || rep.FlashIntensity >= 1 {
		t.Errorf("FlashIntensity mid-flash = %v; want between 0 and 1", rep.FlashIntensity)
	}

	b.Update(100 * time.Millisecond)
	s.Update([]*boss.Boss{b}, 0)
	rep, _ = s.Replica("b1")
	if rep.FlashIntensity != 0 {
		t.Errorf("FlashIntensity after flash = %v; want 0", rep.FlashIntensity)
	}

	s.BroadcastHealth([]manager.HealthUpdate{{BossID: "b1", Health: 200, MaxHealth: 250}})
	rep, _ = s.Replica("b1")
	if rep.Health != 200 {
		t.Errorf("Health after broadcast = %d; want 200", rep.Health)
	}

	// Unknown ids are ignored
	s.BroadcastHealth([]manager.HealthUpdate{{BossID: "nobody", Health: 1, MaxHealth: 1}})
}

func TestBossSyncRemovesDespawned(t *testing.T) {
	world := donburi.NewWorld()
	sched := timers.NewScheduler()
	b := spawnStalker(t, world, sched, "b1")
	s := NewBossSync(world, nil, quiet())
	s.Update([]*boss.Boss{b}, 0)

	b.Despawn()
	s.Update([]*boss.Boss{b}, 0)

	if _, ok := s.Replica("b1"); ok {
		t.Error("Replica() ok = true after despawn; want false")
	}
	if got := s.Len(); got != 0 {
		t.Errorf("Len() = %d; want 0", got)
	}
}

func TestLootSpawnsAndIsPickedUp(t *testing.T) {
	world := donburi.NewWorld()
	sched := timers.NewScheduler()
	rec := services.NewLootRecorder(quiet())
	syncer := &countingSyncer{}
	l := NewLootSync(world, syncer, sched, rec, quiet())

	rec.DropItems([]string{"fang", "potion"}, gamemath.Vec3{X: 5, Z: 5})
	if got := l.Update(nil); len(got) != 0 {
		t.Fatalf("Update() pickups = %v; want none", got)
	}
	if got := l.Len(); got != 2 {
		t.Fatalf("Len() = %d; want 2", got)
	}
	if syncer.loot != 2 {
		t.Errorf("SyncLoot calls = %d; want 2", syncer.loot)
	}

	far := boss.Target{ID: "far", Position: gamemath.Vec3{X: 20, Z: 20}, Alive: true}
	ghost := boss.Target{ID: "ghost", Position: gamemath.Vec3{X: 5, Z: 5}, Alive: false}
	near := boss.Target{ID: "p1", Position: gamemath.Vec3{X: 5.5, Z: 5}, Alive: true}

	got := l.Update([]boss.Target{far, ghost, near})
	if len(got) != 2 {
		t.Fatalf("Update() pickups = %v; want 2", got)
	}
	for _, p := range got {
		if p.PlayerID != "p1" {
			t.Errorf("pickup by %q; want p1", p.PlayerID)
		}
	}
	if n := l.Len(); n != 0 {
		t.Errorf("Len() after pickup = %d; want 0", n)
	}
}

func TestLootExpires(t *testing.T) {
	world := donburi.NewWorld()
	sched := timers.NewScheduler()
	rec := services.NewLootRecorder(quiet())
	l := NewLootSync(world, nil, sched, rec, quiet())

	rec.DropItems([]string{"gold_pouch"}, gamemath.Vec3{})
	l.Update(nil)

	sched.Advance(cfg.Server.LootLifetime - time.Millisecond)
	if got := l.Len(); got != 1 {
		t.Fatalf("Len() before lifetime = %d; want 1", got)
	}
	sched.Advance(time.Millisecond)
	if got := l.Len(); got != 0 {
		t.Errorf("Len() after lifetime = %d; want 0", got)
	}
}

func TestAnimationLibrary(t *testing.T) {
	lib := NewAnimationLibrary(cfg.DefaultBossTypes(), func(id string) (string, bool) {
		if id == "b1" {
			return "stalker", true
		}
		return "", false
	}, quiet())

	tests := []struct {
		boss, clip string
		want       bool
	}{
		{"b1", "death", true},
		{"b1", "attack_claw", true},
		{"b1", "idle", true},
		{"b1", "dance", false},
		{"b1", "", false},
		{"b2", "death", false},
	}
	for _, tt := range tests {
		if got := lib.HasAnimation(tt.boss, tt.clip); got != tt.want {
			t.Errorf("HasAnimation(%q, %q) = %v; want %v", tt.boss, tt.clip, got, tt.want)
		}
	}

	lib.SetTypes(cfg.BossTypes{})
	if lib.HasAnimation("b1", "death") {
		t.Error("HasAnimation() = true after types were cleared; want false")
	}
}

func TestSyncPlayers(t *testing.T) {
	world := donburi.NewWorld()
	entity := world.Create(tags.Player, netcomponents.NetPosition, netcomponents.NetVelocity, netcomponents.NetPlayerState)
	gone := world.Create(tags.Player, netcomponents.NetPosition, netcomponents.NetVelocity, netcomponents.NetPlayerState)
	world.Remove(gone)

	ledger := services.NewLedger(quiet())
	ledger.AwardXP("p1", 150)

	SyncPlayers(world, []PlayerView{
		{Entity: entity, ID: "p1", Name: "ash", Position: gamemath.Vec3{X: 3, Y: 1, Z: 4}, Health: 80, MaxHealth: 100, LastSequence: 7},
		{Entity: gone, ID: "p2"},
	}, ledger.Standing)

	entry := world.Entry(entity)
	pos := netcomponents.NetPosition.Get(entry)
	if pos.X != 3 || pos.Y != 1 || pos.Z != 4 {
		t.Errorf("NetPosition = %+v; want (3, 1, 4)", *pos)
	}
	state := netcomponents.NetPlayerState.Get(entry)
	if state.Health != 80 || state.Name != "ash" || state.LastSequence != 7 {
		t.Errorf("NetPlayerState = %+v", *state)
	}
	if state.Level != 2 || state.XP != 50 {
		t.Errorf("Level, XP = %d, %d; want 2, 50", state.Level, state.XP)
	}
}
