// Package timers runs named, owner-scoped callbacks on the simulation
// clock. Time only moves when Advance is called from the tick goroutine,
// so callbacks run on that goroutine too.
package timers

import (
	"container/heap"
	"time"
)

// Timer is a handle to a scheduled callback.
type Timer struct {
	Owner string
	Name  string

	at       time.Duration
	interval time.Duration
	seq      uint64
	fn       func()
	stopped  bool
	index    int
}

// Stop prevents any further firing. Stopping twice is harmless.
func (t *Timer) Stop() {
	if t != nil {
		t.stopped = true
	}
}

// Stopped reports whether Stop was called.
func (t *Timer) Stopped() bool {
	return t == nil || t.stopped
}

// Scheduler holds pending timers ordered by due time, then insertion.
type Scheduler struct {
	now     time.Duration
	seq     uint64
	pending timerHeap
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the simulation time elapsed since the scheduler was created.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After runs fn once, d from now.
func (s *Scheduler) After(owner, name string, d time.Duration, fn func()) *Timer {
	return s.schedule(owner, name, d, 0, fn)
}

// Every runs fn each interval until the timer is stopped.
func (s *Scheduler) Every(owner, name string, interval time.Duration, fn func()) *Timer {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return s.schedule(owner, name, interval, interval, fn)
}

func (s *Scheduler) schedule(owner, name string, d, interval time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Timer{
		Owner:    owner,
		Name:     name,
		at:       s.now + d,
		interval: interval,
		seq:      s.seq,
		fn:       fn,
	}
	heap.Push(&s.pending, t)
	return t
}

// Advance moves the clock forward by dt and fires everything that came due,
// in due order. Timers scheduled by a firing callback fire in the same call
// if they are already due.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt

	for s.pending.Len() > 0 {
		next := s.pending[0]
		if next.at > target {
			break
		}
		heap.Pop(&s.pending)
		if next.stopped {
			continue
		}
		s.now = next.at
		next.fn()
		if next.interval > 0 && !next.stopped {
			s.seq++
			next.at += next.interval
			next.seq = s.seq
			heap.Push(&s.pending, next)
		}
	}
	s.now = target
}

// Pending returns the names of live timers belonging to owner.
func (s *Scheduler) Pending(owner string) []string {
	var names []string
	for _, t := range s.pending {
		if t.Owner == owner && !t.stopped {
			names = append(names, t.Name)
		}
	}
	return names
}

// Len returns the number of timers still queued, stopped ones included.
func (s *Scheduler) Len() int {
	return s.pending.Len()
}

type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].at == h[j].at {
		return h[i].seq < h[j].seq
	}
	return h[i].at < h[j].at
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
