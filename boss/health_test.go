package boss

import (
	"reflect"
	"testing"
	"time"

	"github.com/automoto/doomerang-bosses/shared/gamemath"
)

func TestDamageKeepsHealthInRange(t *testing.T) {
	tests := []struct {
		name    string
		amounts []int
		want    int
	}{
		{"negative is a no-op", []int{-50}, 250},
		{"zero is a no-op", []int{0}, 250},
		{"partial", []int{40}, 210},
		{"several", []int{40, 60, 100}, 50},
		{"overkill clamps", []int{300}, 0},
		{"after zero", []int{250, 10, -3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, plainType())
			for _, a := range tt.amounts {
				h.boss.Damage(a, DamageSource{AttackerID: "p1"})
				if hp := h.boss.Health(); hp < 0 || hp > h.boss.MaxHealth() {
					t.Fatalf("Health() = %d; out of [0, %d]", hp, h.boss.MaxHealth())
				}
			}
			if got := h.boss.Health(); got != tt.want {
				t.Errorf("Health() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestNonPositiveDamageEmitsNothing(t *testing.T) {
	h := newHarness(t, plainType())
	changes := h.collectHealth()

	h.boss.Damage(0, DamageSource{})
	h.boss.Damage(-10, DamageSource{AttackerID: "p1"})
	h.flushEvents()

	if len(*changes) != 0 {
		t.Errorf("health events = %d; want 0", len(*changes))
	}
	if h.boss.Flashing() {
		t.Error("Flashing() = true; want false")
	}
	if _, ok := h.tracker.LastAttacker("boss-1"); ok {
		t.Error("tracker recorded an attacker for a no-op hit")
	}
}

func TestDamageEmitsHealthChangedAndFlashes(t *testing.T) {
	h := newHarness(t, plainType())
	changes := h.collectHealth()

	h.boss.Damage(50, DamageSource{AttackerID: "p1"})
	h.flushEvents()

	want := []HealthChangedEvent{{BossID: "boss-1", Health: 200, MaxHealth: 250, Source: "p1"}}
	if !reflect.DeepEqual(*changes, want) {
		t.Errorf("events = %+v; want %+v", *changes, want)
	}
	if !h.boss.Flashing() {
		t.Fatal("Flashing() = false right after damage; want true")
	}
	if got := h.boss.FlashIntensity(); got != 1 {
		t.Errorf("FlashIntensity() = %v right after damage; want 1", got)
	}

	h.sched.Advance(time.Second)
	if h.boss.Flashing() {
		t.Error("Flashing() = true after revert; want false")
	}
}

func TestDeathSequenceRunsOnce(t *testing.T) {
	h := newHarness(t, plainType())
	died := h.collectDied()

	h.boss.Damage(300, DamageSource{AttackerID: "p1"})
	h.boss.Damage(300, DamageSource{AttackerID: "p2"})
	h.boss.Kill("lava")
	h.flushEvents()

	if len(*died) != 1 {
		t.Fatalf("died events = %d; want 1", len(*died))
	}
	if len(h.loot.calls) != 1 {
		t.Errorf("DropItems calls = %d; want 1", len(h.loot.calls))
	}
	if len(h.prog.calls) != 1 {
		t.Errorf("AwardXP calls = %d; want 1", len(h.prog.calls))
	}
}

// A 250 hp boss takes a single 300 point hit from P.
func TestKillEndToEnd(t *testing.T) {
	def := plainType()
	def.XPReward = 150
	def.DropTable = []string{"stalker_fang", "gold_pouch"}
	def.RememberAttackers = true

	h := newHarness(t, def)
	h.body.pos = gamemath.Vec3{X: 3, Z: 4}
	died := h.collectDied()

	h.boss.Damage(300, DamageSource{AttackerID: "P"})
	h.flushEvents()

	if got := h.boss.Health(); got != 0 {
		t.Errorf("Health() = %d; want 0", got)
	}
	if len(*died) != 1 || (*died)[0].Killer != "P" {
		t.Fatalf("died = %+v; want one event with killer P", *died)
	}
	if _, ok := h.tracker.LastAttacker("boss-1"); ok {
		t.Error("tracker still holds a record for the dead boss")
	}
	if h.tracker.Len() != 0 {
		t.Errorf("tracker.Len() = %d; want 0", h.tracker.Len())
	}

	wantDrop := []dropCall{{items: def.DropTable, position: gamemath.Vec3{X: 3, Z: 4}}}
	if !reflect.DeepEqual(h.loot.calls, wantDrop) {
		t.Errorf("DropItems calls = %+v; want %+v", h.loot.calls, wantDrop)
	}
	wantXP := []xpCall{{"P", 150}}
	if !reflect.DeepEqual(h.prog.calls, wantXP) {
		t.Errorf("AwardXP calls = %+v; want %+v", h.prog.calls, wantXP)
	}
	if h.boss.Spawned() {
		t.Error("Spawned() = true; want immediate despawn without a death animation")
	}
}

func TestKillerResolution(t *testing.T) {
	tests := []struct {
		name     string
		remember bool
		run      func(b *Boss)
		want     string
	}{
		{
			name:     "attacker on the killing blow",
			remember: true,
			run: func(b *Boss) {
				b.Damage(100, DamageSource{AttackerID: "q"})
				b.Damage(200, DamageSource{AttackerID: "p", Source: "trap"})
			},
			want: "p",
		},
		{
			name:     "tracker beats death source",
			remember: true,
			run: func(b *Boss) {
				b.Damage(100, DamageSource{AttackerID: "q"})
				b.Damage(200, DamageSource{Source: "trap"})
			},
			want: "q",
		},
		{
			name:     "death source when nothing is remembered",
			remember: false,
			run: func(b *Boss) {
				b.Damage(100, DamageSource{AttackerID: "q"})
				b.Kill("lava")
			},
			want: "lava",
		},
		{
			name: "unknown",
			run: func(b *Boss) {
				b.Damage(300, DamageSource{})
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := plainType()
			def.RememberAttackers = tt.remember
			h := newHarness(t, def)
			died := h.collectDied()

			tt.run(h.boss)
			h.flushEvents()

			if len(*died) != 1 {
				t.Fatalf("died events = %d; want 1", len(*died))
			}
			if got := (*died)[0].Killer; got != tt.want {
				t.Errorf("Killer = %q; want %q", got, tt.want)
			}
			if tt.want == "" && len(h.prog.calls) != 0 {
				t.Errorf("AwardXP called %d times with no killer; want 0", len(h.prog.calls))
			}
		})
	}
}

func TestDeathAnimationDelaysDespawn(t *testing.T) {
	def := plainType()
	def.DeathAnimation = "death"
	def.DespawnDelayMs = 1500
	def.RememberAttackers = true

	h := newHarness(t, def, withPresenter())
	h.presenter.has["death"] = true

	h.boss.Damage(300, DamageSource{AttackerID: "p1"})
	if !h.boss.Spawned() {
		t.Fatal("Spawned() = false right after death; want despawn delayed")
	}
	if h.tracker.Len() != 0 {
		t.Error("tracker record survived the death sequence")
	}
	if got := h.presenter.animations; len(got) == 0 || got[len(got)-1] != "death" {
		t.Errorf("animations = %v; want death last", got)
	}

	h.sched.Advance(1400 * time.Millisecond)
	if !h.boss.Spawned() {
		t.Fatal("despawned before the delay elapsed")
	}
	h.sched.Advance(200 * time.Millisecond)
	if h.boss.Spawned() {
		t.Error("Spawned() = true after the delay; want false")
	}
}

func TestDamageAfterDespawnIgnored(t *testing.T) {
	h := newHarness(t, plainType())
	changes := h.collectHealth()

	h.boss.Despawn()
	h.boss.Damage(50, DamageSource{AttackerID: "p1"})
	h.boss.Despawn()
	h.flushEvents()

	if len(*changes) != 0 {
		t.Errorf("health events = %d; want 0", len(*changes))
	}
	if len(h.loot.calls) != 0 {
		t.Errorf("DropItems calls = %d; want 0", len(h.loot.calls))
	}
}

func TestHealthIndicator(t *testing.T) {
	def := plainType()
	def.Name = "stalker"
	def.HealthIndicator = true

	h := newHarness(t, def)
	h.boss.Damage(125, DamageSource{})

	got, ok := h.boss.Indicator()
	if !ok {
		t.Fatal("Indicator() ok = false; want true")
	}
	if want := "Stalker [#####-----] 125/250"; got != want {
		t.Errorf("Indicator() = %q; want %q", got, want)
	}

	plain := newHarness(t, plainType())
	if _, ok := plain.boss.Indicator(); ok {
		t.Error("plain boss has an indicator; want none")
	}
}
