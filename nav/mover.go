package nav

import (
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/automoto/doomerang-bosses/boss"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
)

// Mover walks a boss body along grid paths. It satisfies boss.Mover.
type Mover struct {
	grid  *Grid
	body  boss.Body
	speed func() float64
	log   *log.Logger

	waypoints []gamemath.Vec3
	next      int
	target    gamemath.Vec3
	stop      float64
	opts      boss.PathOptions
	active    bool
	stalled   time.Duration
}

// NewMover returns a mover for body. speed is read every update so buffs
// apply mid-path.
func NewMover(grid *Grid, body boss.Body, speed func() float64, logger *log.Logger) *Mover {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "nav"})
	}
	return &Mover{grid: grid, body: body, speed: speed, log: logger}
}

// Factory adapts NewMover to boss.MoverFactory.
func Factory(grid *Grid, logger *log.Logger) boss.MoverFactory {
	return func(body boss.Body, speed func() float64) boss.Mover {
		return NewMover(grid, body, speed, logger)
	}
}

// Pathfind replaces the current route. It returns false with ErrNoPath when
// the grid has no route within opts' jump and fall limits.
func (m *Mover) Pathfind(target gamemath.Vec3, stopDistance float64, opts boss.PathOptions) (bool, error) {
	if m.grid == nil {
		return false, ErrNoGrid
	}
	path, err := m.grid.FindPath(m.body.Position(), target, Limits{
		MaxJump:         opts.MaxJump,
		MaxFall:         opts.MaxFall,
		VerticalPenalty: opts.VerticalPenalty,
	})
	if err != nil {
		return false, err
	}

	m.waypoints = path
	m.next = 0
	m.target = target
	m.stop = stopDistance
	m.opts = opts
	m.active = true
	m.stalled = 0
	m.log.Debug("path accepted", "waypoints", len(path), "target", target)
	return true, nil
}

// Active reports whether a route is being walked.
func (m *Mover) Active() bool { return m.active }

// Waypoints returns what is left of the route.
func (m *Mover) Waypoints() []gamemath.Vec3 {
	if !m.active {
		return nil
	}
	return append([]gamemath.Vec3(nil), m.waypoints[m.next:]...)
}

func (m *Mover) Stop() {
	m.active = false
	m.waypoints = nil
	m.next = 0
}

// Update advances the body horizontally toward the next waypoint. Height is
// left to physics.
func (m *Mover) Update(dt time.Duration) {
	if !m.active {
		return
	}

	pos := m.body.Position()
	if m.stop > 0 && gamemath.Distance(pos.Horizontal(), m.target.Horizontal()) <= m.stop {
		m.finish()
		return
	}

	wp := m.waypoints[m.next]
	goal := gamemath.Vec3{X: wp.X, Y: pos.Y, Z: wp.Z}
	moved, ok := gamemath.MoveTowards(pos, goal, m.speed()*dt.Seconds())
	if ok {
		m.body.SetPosition(moved)
		pos = moved
	}

	if gamemath.Distance(pos.Horizontal(), goal.Horizontal()) <= gamemath.Epsilon {
		m.advance(m.opts.OnWaypointReached)
		return
	}

	m.stalled += dt
	if m.opts.WaypointTimeout > 0 && m.stalled >= m.opts.WaypointTimeout {
		m.log.Debug("waypoint skipped", "waypoint", wp)
		m.advance(m.opts.OnWaypointSkipped)
	}
}

func (m *Mover) advance(callback func()) {
	m.next++
	m.stalled = 0
	if callback != nil {
		callback()
	}
	if m.active && m.next >= len(m.waypoints) {
		m.finish()
	}
}

func (m *Mover) finish() {
	onComplete := m.opts.OnComplete
	m.Stop()
	if onComplete != nil {
		onComplete()
	}
}
