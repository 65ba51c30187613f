package components

import (
	"github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
	"github.com/yohamta/donburi"
)

// BossData identifies a boss entity and its shared type definition.
type BossData struct {
	ID        string
	TypeName  string
	SpawnerID string
	Type      *config.BossType // Shared, read-only
}

var Boss = donburi.NewComponentType[BossData]()

// TransformData is the boss's orientation. Position lives on the body.
type TransformData struct {
	Rotation gamemath.Rotation
}

var Transform = donburi.NewComponentType[TransformData]()
