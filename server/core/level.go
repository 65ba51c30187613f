package core

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/solarlune/resolv"

	cfg "github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/manager"
	"github.com/automoto/doomerang-bosses/nav"
	"github.com/automoto/doomerang-bosses/shared/gamemath"
	"github.com/automoto/doomerang-bosses/shared/leveldata"
)

// ServerLevel holds the server's navigation space and spawn data for a level.
type ServerLevel struct {
	Name         string
	Space        *resolv.Space
	Grid         *nav.Grid
	BossSpawns   []leveldata.BossSpawn
	PlayerSpawns []leveldata.SpawnPoint
	Width        float64
	Depth        float64
}

// NewServerLevel builds the resolv space and walk grid from parsed level data.
func NewServerLevel(data *leveldata.Level, logger *log.Logger) *ServerLevel {
	space := resolv.NewSpace(int(math.Ceil(data.Width)), int(math.Ceil(data.Depth)), 1, 1)
	for _, o := range data.Obstacles {
		nav.AddObstacle(space, o.X, o.Z, o.W, o.D, o.Height, o.Solid)
	}
	grid := nav.NewGrid(space, data.Width, data.Depth, cfg.Server.NavCellSize, cfg.Server.NavMaxSearchRadius)

	if logger != nil {
		logger.Info("loaded level",
			"name", data.Name,
			"obstacles", len(data.Obstacles),
			"bossSpawns", len(data.BossSpawns),
			"playerSpawns", len(data.PlayerSpawns),
			"size", fmt.Sprintf("%gx%g", data.Width, data.Depth))
	}

	return &ServerLevel{
		Name:         data.Name,
		Space:        space,
		Grid:         grid,
		BossSpawns:   data.BossSpawns,
		PlayerSpawns: data.PlayerSpawns,
		Width:        data.Width,
		Depth:        data.Depth,
	}
}

// LoadServerLevel reads a TMX file from disk.
func LoadServerLevel(path string, logger *log.Logger) (*ServerLevel, error) {
	data, err := leveldata.Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load level: %w", err)
	}
	return NewServerLevel(data, logger), nil
}

// Floor is the physics floor: the top of whatever stands at x, z.
func (l *ServerLevel) Floor(x, z float64) float64 {
	return l.Grid.HeightAt(x, z)
}

// PlayerSpawn returns the n-th player spawn, cycling through the list. A
// level without player spawns puts everyone in the middle.
func (l *ServerLevel) PlayerSpawn(n int) gamemath.Vec3 {
	if len(l.PlayerSpawns) == 0 {
		x, z := l.Width/2, l.Depth/2
		return gamemath.Vec3{X: x, Y: l.Floor(x, z), Z: z}
	}
	sp := l.PlayerSpawns[n%len(l.PlayerSpawns)]
	return gamemath.Vec3{X: sp.X, Y: l.Floor(sp.X, sp.Z), Z: sp.Z}
}

// SpawnRecords converts the level's boss spawns for the manager. Spawns
// never start below the floor.
func (l *ServerLevel) SpawnRecords() []manager.SpawnRecord {
	records := make([]manager.SpawnRecord, 0, len(l.BossSpawns))
	for _, sp := range l.BossSpawns {
		records = append(records, manager.SpawnRecord{
			SpawnerID: sp.SpawnerID,
			Position:  gamemath.Vec3{X: sp.X, Y: math.Max(sp.Y, l.Floor(sp.X, sp.Z)), Z: sp.Z},
			BossType:  sp.BossType,
			Options: manager.SpawnOptions{
				Health:         sp.Health,
				DetectionRange: sp.DetectionRange,
				MoveSpeed:      sp.MoveSpeed,
			},
		})
	}
	return records
}
