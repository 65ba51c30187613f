package systems

import (
	"os"

	"github.com/charmbracelet/log"

	cfg "github.com/automoto/doomerang-bosses/config"
)

// AnimationLibrary is the server's boss.Presenter. It knows which clips
// every boss type ships with and logs playback requests. Clients pick the
// actual clip up from the replicated boss state.
type AnimationLibrary struct {
	clips  map[string]map[string]bool // type name -> clip names
	typeOf func(bossID string) (string, bool)
	log    *log.Logger
}

// NewAnimationLibrary indexes the clips of types. typeOf maps a boss id to
// its type name.
func NewAnimationLibrary(types cfg.BossTypes, typeOf func(bossID string) (string, bool), logger *log.Logger) *AnimationLibrary {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "animations"})
	}
	lib := &AnimationLibrary{typeOf: typeOf, log: logger}
	lib.SetTypes(types)
	return lib
}

// SetTypes re-indexes clips after a boss types reload.
func (l *AnimationLibrary) SetTypes(types cfg.BossTypes) {
	clips := make(map[string]map[string]bool, len(types))
	for name, def := range types {
		set := map[string]bool{}
		for _, clip := range []string{def.IdleAnimation, def.DeathAnimation} {
			if clip != "" {
				set[clip] = true
			}
		}
		for _, a := range def.Attacks {
			if a.Animation != "" {
				set[a.Animation] = true
			}
		}
		clips[name] = set
	}
	l.clips = clips
}

func (l *AnimationLibrary) PlayAnimation(bossID, name string) {
	l.log.Debug("play animation", "boss", bossID, "clip", name)
}

func (l *AnimationLibrary) PlaySound(bossID, name string) {
	l.log.Debug("play sound", "boss", bossID, "sound", name)
}

// HasAnimation reports whether the boss's type ships the clip.
func (l *AnimationLibrary) HasAnimation(bossID, name string) bool {
	if name == "" || l.typeOf == nil {
		return false
	}
	typeName, ok := l.typeOf(bossID)
	if !ok {
		return false
	}
	return l.clips[typeName][name]
}
