package services

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/automoto/doomerang-bosses/shared/gamemath"
)

// Drop is one item left on the ground.
type Drop struct {
	Item     string
	Position gamemath.Vec3
}

// LootRecorder stands in for a real loot system. It remembers every drop
// so the server can report them and tests can inspect them.
type LootRecorder struct {
	mu    sync.Mutex
	drops []Drop
	log   *log.Logger
}

func NewLootRecorder(logger *log.Logger) *LootRecorder {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "loot"})
	}
	return &LootRecorder{log: logger}
}

// DropItems implements boss.LootService.
func (l *LootRecorder) DropItems(itemTypes []string, position gamemath.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, item := range itemTypes {
		l.drops = append(l.drops, Drop{Item: item, Position: position})
	}
	l.log.Info("items dropped", "items", itemTypes, "x", position.X, "y", position.Y, "z", position.Z)
}

// Drain returns and forgets everything dropped so far.
func (l *LootRecorder) Drain() []Drop {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.drops
	l.drops = nil
	return out
}
