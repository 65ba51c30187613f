package nav

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/solarlune/resolv"

	"github.com/automoto/doomerang-bosses/boss"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
)

type testBody struct {
	pos     gamemath.Vec3
	gravity float64
}

func (b *testBody) Position() gamemath.Vec3       { return b.pos }
func (b *testBody) SetPosition(p gamemath.Vec3)   { b.pos = p }
func (b *testBody) ApplyImpulse(gamemath.Vec3)    {}
func (b *testBody) GravityScale() float64         { return b.gravity }
func (b *testBody) SetGravityScale(scale float64) { b.gravity = scale }

type callbacks struct {
	reached, skipped, complete int
}

func (c *callbacks) options(timeout time.Duration) boss.PathOptions {
	return boss.PathOptions{
		MaxJump:           2,
		MaxFall:           6,
		VerticalPenalty:   2,
		WaypointTimeout:   timeout,
		OnComplete:        func() { c.complete++ },
		OnWaypointSkipped: func() { c.skipped++ },
		OnWaypointReached: func() { c.reached++ },
	}
}

func newTestMover(speed *float64) (*Mover, *testBody) {
	body := &testBody{pos: gamemath.Vec3{X: 0.5, Z: 0.5}, gravity: 1}
	m := NewMover(newTestGrid(10, 10, nil), body, func() float64 { return *speed }, log.New(io.Discard))
	return m, body
}

func TestMoverWalksPath(t *testing.T) {
	t.Parallel()

	speed := 1.0
	m, body := newTestMover(&speed)
	var cb callbacks

	ok, err := m.Pathfind(gamemath.Vec3{X: 3.5, Z: 0.5}, 0, cb.options(2*time.Second))
	if !ok || err != nil {
		t.Fatalf("Pathfind() = %v, %v; want true, nil", ok, err)
	}
	if got := len(m.Waypoints()); got != 3 {
		t.Fatalf("len(Waypoints()) = %d; want 3", got)
	}

	for i := 0; i < 12; i++ {
		m.Update(250 * time.Millisecond)
	}

	if got, want := body.pos, (gamemath.Vec3{X: 3.5, Z: 0.5}); got != want {
		t.Errorf("body at %+v; want %+v", got, want)
	}
	if cb.reached != 3 || cb.complete != 1 || cb.skipped != 0 {
		t.Errorf("callbacks = %+v; want 3 reached, 1 complete", cb)
	}
	if m.Active() {
		t.Error("Active() = true after completion")
	}

	m.Update(250 * time.Millisecond)
	if cb.complete != 1 {
		t.Errorf("complete = %d after an idle update; want 1", cb.complete)
	}
}

func TestMoverStopsWithinStopDistance(t *testing.T) {
	t.Parallel()

	speed := 1.0
	m, body := newTestMover(&speed)
	var cb callbacks
	m.Pathfind(gamemath.Vec3{X: 3.5, Z: 0.5}, 1.5, cb.options(0))

	for i := 0; i < 20; i++ {
		m.Update(250 * time.Millisecond)
	}

	if cb.complete != 1 {
		t.Errorf("complete = %d; want 1", cb.complete)
	}
	if got := body.pos.X; got != 2 {
		t.Errorf("body X = %v; want 2", got)
	}
}

func TestMoverSkipsStalledWaypoints(t *testing.T) {
	t.Parallel()

	speed := 0.0
	m, _ := newTestMover(&speed)
	var cb callbacks
	m.Pathfind(gamemath.Vec3{X: 3.5, Z: 0.5}, 0, cb.options(500*time.Millisecond))

	m.Update(250 * time.Millisecond)
	if cb.skipped != 0 {
		t.Fatalf("skipped = %d before the timeout; want 0", cb.skipped)
	}
	for i := 0; i < 5; i++ {
		m.Update(250 * time.Millisecond)
	}

	if cb.skipped != 3 || cb.complete != 1 {
		t.Errorf("callbacks = %+v; want 3 skipped, 1 complete", cb)
	}
}

func TestMoverReadsSpeedEveryUpdate(t *testing.T) {
	t.Parallel()

	speed := 1.0
	m, body := newTestMover(&speed)
	var cb callbacks
	m.Pathfind(gamemath.Vec3{X: 5.5, Z: 0.5}, 0, cb.options(0))

	m.Update(250 * time.Millisecond)
	speed = 2
	m.Update(250 * time.Millisecond)

	if got := body.pos.X; got != 1.25 {
		t.Errorf("body X = %v; want 1.25", got)
	}
}

func TestMoverStop(t *testing.T) {
	t.Parallel()

	speed := 1.0
	m, body := newTestMover(&speed)
	var cb callbacks
	m.Pathfind(gamemath.Vec3{X: 5.5, Z: 0.5}, 0, cb.options(0))

	m.Stop()
	m.Update(time.Second)

	if body.pos.X != 0.5 || cb.complete != 0 {
		t.Errorf("after Stop body X = %v, complete = %d; want 0.5, 0", body.pos.X, cb.complete)
	}
}

func TestMoverRejectsUnreachableTarget(t *testing.T) {
	t.Parallel()

	grid := newTestGrid(10, 4, func(space *resolv.Space) {
		AddObstacle(space, 5, 0, 1, 4, 5, false)
	})
	body := &testBody{pos: gamemath.Vec3{X: 0.5, Z: 0.5}}
	m := NewMover(grid, body, func() float64 { return 1 }, log.New(io.Discard))
	var cb callbacks

	ok, err := m.Pathfind(gamemath.Vec3{X: 8.5, Z: 0.5}, 0, cb.options(0))
	if ok || !errors.Is(err, ErrNoPath) {
		t.Errorf("Pathfind() = %v, %v; want false, ErrNoPath", ok, err)
	}
	if m.Active() {
		t.Error("Active() = true after a rejected request")
	}
}

func TestFactoryBuildsMover(t *testing.T) {
	t.Parallel()

	var _ boss.MoverFactory = Factory(newTestGrid(4, 4, nil), log.New(io.Discard))
}
