package manager

import (
	"sort"
	"time"

	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-bosses/boss"
	cfg "github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
)

// Start schedules the targeting loop. Calling it twice is a no-op.
func (m *Manager) Start() {
	if m.closed || (m.loop != nil && !m.loop.Stopped()) {
		return
	}
	m.loop = m.timers.Every(timerOwner, "targeting", cfg.Manager.LoopInterval, m.runLoop)
}

// Stop cancels the targeting loop.
func (m *Manager) Stop() {
	if m.loop != nil {
		m.loop.Stop()
	}
}

// Update ticks every boss, drops the ones that despawned, delivers boss
// events, and flushes health if the broadcast window has passed.
func (m *Manager) Update(dt time.Duration) {
	if m.closed {
		return
	}
	for _, id := range m.activeIDs() {
		b := m.active[id]
		if !b.Spawned() {
			continue
		}
		m.guard(id, "update", func() { b.Update(dt) })
	}

	boss.HealthChanged.ProcessEvents(m.world)
	boss.Died.ProcessEvents(m.world)
	m.prune()
	m.maybeBroadcast()
}

// runLoop points each boss at the nearest live target within its detection
// range plus the buffer, and clears the target otherwise.
func (m *Manager) runLoop() {
	if len(m.active) == 0 {
		return
	}

	var targets []boss.Target
	if m.deps.Targets != nil {
		m.guard("", "enumerate targets", func() { targets = m.deps.Targets.Enumerate() })
	}

	for _, id := range m.activeIDs() {
		b := m.active[id]
		if !b.Alive() {
			continue
		}
		m.guard(id, "targeting", func() { m.retarget(b, targets) })
	}
	m.prune()
	m.maybeBroadcast()
}

func (m *Manager) retarget(b *boss.Boss, targets []boss.Target) {
	pos := b.Position()
	gate := b.Type().DetectionRange + cfg.Manager.DetectionBuffer

	best, bestDist, found := boss.Target{}, 0.0, false
	for _, t := range targets {
		if !t.Alive {
			continue
		}
		d := gamemath.Distance(pos, t.Position)
		if !found || d < bestDist {
			best, bestDist, found = t, d, true
		}
	}

	if found && bestDist <= gate {
		b.SetTargetPosition(best.Position)
		return
	}
	if _, has := b.TargetPosition(); has {
		b.ResetTargetPosition()
	}
}

func (m *Manager) prune() {
	for id, b := range m.active {
		if !b.Spawned() {
			delete(m.active, id)
			delete(m.pending, id)
		}
	}
}

func (m *Manager) onHealthChanged(_ donburi.World, e boss.HealthChangedEvent) {
	if m.closed {
		return
	}
	if _, ok := m.active[e.BossID]; !ok {
		return
	}
	m.pending[e.BossID] = HealthUpdate{BossID: e.BossID, Health: e.Health, MaxHealth: e.MaxHealth}
}

func (m *Manager) onDied(_ donburi.World, e boss.DiedEvent) {
	if m.closed {
		return
	}
	m.log.Info("boss died", "boss", e.BossID, "type", e.TypeName, "killer", e.Killer)
}

// maybeBroadcast sends pending health at most once per broadcast interval.
func (m *Manager) maybeBroadcast() {
	if len(m.pending) == 0 || m.deps.Broadcaster == nil {
		return
	}
	now := m.timers.Now()
	if m.hasBroadcast && now-m.lastBroadcast < cfg.Manager.BroadcastInterval {
		return
	}

	updates := make([]HealthUpdate, 0, len(m.pending))
	for _, u := range m.pending {
		updates = append(updates, u)
	}
	sort.Slice(updates, func(i, j int) bool { return updates[i].BossID < updates[j].BossID })
	m.pending = map[string]HealthUpdate{}
	m.lastBroadcast = now
	m.hasBroadcast = true

	m.guard("", "broadcast", func() { m.deps.Broadcaster.BroadcastHealth(updates) })
}
