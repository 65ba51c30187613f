package services

import (
	"math"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	cfg "github.com/automoto/doomerang-bosses/config"
)

// Standing is one participant's progression.
type Standing struct {
	Level         int
	CurrentXP     int
	XPToNextLevel int
}

// Ledger is an in-memory ProgressionService.
type Ledger struct {
	mu       sync.Mutex
	standing map[string]*Standing
	log      *log.Logger
}

func NewLedger(logger *log.Logger) *Ledger {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "progression"})
	}
	return &Ledger{standing: map[string]*Standing{}, log: logger}
}

// XPForNextLevel is the XP needed to go from level to level+1.
func XPForNextLevel(level int) int {
	c := cfg.Progression
	return int(math.Round(float64(c.BaseXP) * math.Pow(c.GrowthRatio, float64(level-1))))
}

// AwardXP implements boss.ProgressionService. Large awards can cross
// several levels; the result reports whether any were gained.
func (l *Ledger) AwardXP(targetID string, amount int) bool {
	if targetID == "" || amount <= 0 {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.standing[targetID]
	if !ok {
		s = &Standing{Level: 1, XPToNextLevel: XPForNextLevel(1)}
		l.standing[targetID] = s
	}

	s.CurrentXP += amount
	leveled := false
	for s.CurrentXP >= s.XPToNextLevel {
		s.CurrentXP -= s.XPToNextLevel
		s.Level++
		s.XPToNextLevel = XPForNextLevel(s.Level)
		leveled = true
	}
	if leveled {
		l.log.Info("level up", "target", targetID, "level", s.Level)
	}
	return leveled
}

// Standing returns a copy of targetID's progression.
func (l *Ledger) Standing(targetID string) (Standing, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.standing[targetID]
	if !ok {
		return Standing{}, false
	}
	return *s, true
}
