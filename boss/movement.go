package boss

import (
	"errors"
	"fmt"
	"time"

	"github.com/automoto/doomerang-bosses/components"
	cfg "github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
)

var (
	errNoMover      = errors.New("no mover")
	errPathRejected = errors.New("pathfind rejected")
)

// InPathBand reports whether a target at dist and vertical gap vdiff may be
// handed to the pathfinder. Both distance bounds are exclusive.
func InPathBand(dist, vdiff float64, c cfg.MovementConfig) bool {
	return dist > c.MinPathDist && dist < c.MaxPathDist && vdiff < c.VerticalThreshold
}

// SetTargetPosition sets the point the boss pursues.
func (b *Boss) SetTargetPosition(p gamemath.Vec3) {
	if !b.Alive() {
		return
	}
	mv := components.Movement.Get(b.entry)
	mv.Target = p
	mv.HasTarget = true
}

// ResetTargetPosition stops pursuit.
func (b *Boss) ResetTargetPosition() {
	if !b.Spawned() {
		return
	}
	mv := components.Movement.Get(b.entry)
	if !mv.HasTarget && mv.State == components.PathIdle {
		return
	}
	mv.HasTarget = false
	mv.State = components.PathIdle
	if b.mover != nil {
		b.guard("mover stop", b.mover.Stop)
	}
}

// TargetPosition returns the pursued point, if any.
func (b *Boss) TargetPosition() (gamemath.Vec3, bool) {
	if !b.Spawned() {
		return gamemath.Vec3{}, false
	}
	mv := components.Movement.Get(b.entry)
	return mv.Target, mv.HasTarget
}

// PathState returns what the boss's legs are currently doing.
func (b *Boss) PathState() components.PathfindState {
	if !b.Spawned() {
		return components.PathIdle
	}
	return components.Movement.Get(b.entry).State
}

func (b *Boss) updateMovement(dt time.Duration) {
	mv := components.Movement.Get(b.entry)
	if !mv.HasTarget {
		return
	}

	c := cfg.Movement
	pos := b.Position()
	dist := gamemath.Distance(pos, mv.Target)
	vdiff := gamemath.VerticalDiff(pos, mv.Target)
	now := b.now()

	cooledDown := !mv.HasAttempted || now-mv.LastPathAttempt >= c.PathfindCooldown
	if cooledDown && InPathBand(dist, vdiff, c) {
		mv.LastPathAttempt = now
		mv.HasAttempted = true

		goal := segmentGoal(pos, mv.Target, dist, c.SegmentCap)
		err := b.requestPath(goal)
		if err == nil {
			mv.State = components.PathPathing
			b.log.Debug("path accepted", "dist", dist, "goalX", goal.X, "goalZ", goal.Z)
			return
		}
		mv.State = components.PathDirect
		if !mv.HasWarned || now-mv.LastFailWarn >= c.PathfindCooldown {
			mv.LastFailWarn = now
			mv.HasWarned = true
			b.log.Warn("pathfind failed, moving directly", "err", err, "dist", dist)
		}
	}

	if mv.State == components.PathPathing {
		return
	}
	if dist <= c.MinPathDist {
		mv.State = components.PathIdle
		return
	}

	mv.State = components.PathDirect
	b.moveDirect(pos, mv.Target, mv.MoveSpeed*c.FallbackSpeedFactor, dt)
}

// segmentGoal caps a request at segmentCap units along the direction to
// target.
func segmentGoal(from, target gamemath.Vec3, dist, segmentCap float64) gamemath.Vec3 {
	if dist <= segmentCap {
		return target
	}
	dir := target.Sub(from).Normalized()
	return from.Add(dir.Scale(segmentCap))
}

func (b *Boss) moveDirect(pos, target gamemath.Vec3, speed float64, dt time.Duration) {
	goal := gamemath.Vec3{X: target.X, Y: pos.Y, Z: target.Z}
	next, moved := gamemath.MoveTowards(pos, goal, speed*dt.Seconds())
	if !moved {
		return
	}
	b.body.SetPosition(next)
}

func (b *Boss) requestPath(goal gamemath.Vec3) (err error) {
	if b.mover == nil {
		return errNoMover
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pathfind panicked: %v", r)
		}
	}()

	accepted, err := b.mover.Pathfind(goal, cfg.Movement.StopDistance, b.pathOptions())
	if err != nil {
		return err
	}
	if !accepted {
		return errPathRejected
	}
	return nil
}

func (b *Boss) pathOptions() PathOptions {
	c := cfg.Movement
	return PathOptions{
		MaxFall:           c.MaxFall,
		MaxJump:           c.MaxJump,
		VerticalPenalty:   c.VerticalPenalty,
		WaypointTimeout:   c.WaypointTimeout,
		OnComplete:        b.onPathComplete,
		OnWaypointSkipped: b.onWaypointSkipped,
		OnWaypointReached: b.onWaypointReached,
	}
}

func (b *Boss) onPathComplete() {
	if !b.Alive() {
		return
	}
	mv := components.Movement.Get(b.entry)
	if mv.State == components.PathPathing {
		mv.State = components.PathIdle
	}
	b.clearStuck()
}

func (b *Boss) onWaypointReached() {
	if !b.Alive() {
		return
	}
	b.clearStuck()
}
