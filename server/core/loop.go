package core

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/leap-fish/necs/esync/srvsync"
)

type GameLoop struct {
	sim      *Simulation
	tickRate int
	log      *log.Logger
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
}

func NewGameLoop(sim *Simulation, tickRate int, logger *log.Logger) *GameLoop {
	if tickRate <= 0 {
		tickRate = 20
	}
	return &GameLoop{
		sim:      sim,
		tickRate: tickRate,
		log:      logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the loop on its own goroutine.
func (g *GameLoop) Start() {
	g.started.Store(true)
	go g.Run()
}

func (g *GameLoop) Run() {
	defer close(g.done)
	ticker := time.NewTicker(g.interval())
	defer ticker.Stop()

	g.log.Info("game loop started", "tickRate", g.tickRate)

	for {
		select {
		case <-g.stopChan:
			g.log.Info("game loop stopped")
			return
		case <-ticker.C:
			g.tick()
		}
	}
}

// Stop ends Run and waits for the tick in progress to finish.
func (g *GameLoop) Stop() {
	g.stopOnce.Do(func() { close(g.stopChan) })
	if g.started.Load() {
		<-g.done
	}
}

func (g *GameLoop) interval() time.Duration {
	return time.Second / time.Duration(g.tickRate)
}

func (g *GameLoop) tick() {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("tick panicked", "panic", r)
		}
	}()

	g.sim.Tick(g.interval())

	if err := srvsync.DoSync(); err != nil {
		g.log.Error("sync error", "err", err)
	}
}
