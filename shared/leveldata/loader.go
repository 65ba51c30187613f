package leveldata

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"
)

// Object group names read from the map.
const (
	GroupObstacles    = "Obstacles"
	GroupBossSpawns   = "BossSpawns"
	GroupPlayerSpawns = "PlayerSpawn"
)

// Load parses a TMX file. It takes an fs.FS so callers can pass embed.FS or
// os.DirFS.
func Load(fsys fs.FS, tmxPath string) (*Level, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}
	if levelMap.TileWidth <= 0 || levelMap.TileHeight <= 0 {
		return nil, fmt.Errorf("load TMX %s: tile size %dx%d", tmxPath, levelMap.TileWidth, levelMap.TileHeight)
	}

	unitX := float64(levelMap.TileWidth)
	unitZ := float64(levelMap.TileHeight)
	level := &Level{
		Name:  strings.TrimSuffix(filepath.Base(tmxPath), ".tmx"),
		Width: float64(levelMap.Width),
		Depth: float64(levelMap.Height),
	}

	for _, og := range levelMap.ObjectGroups {
		switch og.Name {
		case GroupObstacles:
			for _, o := range og.Objects {
				class := o.Class
				if class == "" {
					class = o.Type //nolint:staticcheck // older TMX files use type=
				}
				level.Obstacles = append(level.Obstacles, Obstacle{
					X:      o.X / unitX,
					Z:      o.Y / unitZ,
					W:      o.Width / unitX,
					D:      o.Height / unitZ,
					Height: o.Properties.GetFloat("height"),
					Solid:  class == "wall",
				})
			}
		case GroupBossSpawns:
			for _, o := range og.Objects {
				id := o.Name
				if id == "" {
					id = fmt.Sprintf("spawn-%d", o.ID)
				}
				level.BossSpawns = append(level.BossSpawns, BossSpawn{
					SpawnerID:      id,
					X:              o.X / unitX,
					Y:              o.Properties.GetFloat("elevation"),
					Z:              o.Y / unitZ,
					BossType:       o.Properties.GetString("bossType"),
					Health:         o.Properties.GetInt("health"),
					DetectionRange: o.Properties.GetFloat("detectionRange"),
					MoveSpeed:      o.Properties.GetFloat("moveSpeed"),
				})
			}
		case GroupPlayerSpawns:
			for _, o := range og.Objects {
				level.PlayerSpawns = append(level.PlayerSpawns, SpawnPoint{
					X:     o.X / unitX,
					Z:     o.Y / unitZ,
					Index: o.Properties.GetInt("spawnIndex"),
				})
			}
		}
	}

	for _, s := range level.BossSpawns {
		if s.BossType == "" {
			return nil, fmt.Errorf("load TMX %s: boss spawn %s has no bossType", tmxPath, s.SpawnerID)
		}
	}

	sort.Slice(level.BossSpawns, func(i, j int) bool {
		return level.BossSpawns[i].SpawnerID < level.BossSpawns[j].SpawnerID
	})
	// Sort spawns by index so player slots are stable
	sort.Slice(level.PlayerSpawns, func(i, j int) bool {
		return level.PlayerSpawns[i].Index < level.PlayerSpawns[j].Index
	})

	return level, nil
}

// LoadAll loads every .tmx file in levelsDir, keyed by file stem, with the
// stems sorted.
func LoadAll(fsys fs.FS, levelsDir string) (map[string]*Level, []string, error) {
	pattern := levelsDir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no .tmx files found in %s", levelsDir)
	}

	levels := make(map[string]*Level, len(matches))
	names := make([]string, 0, len(matches))
	for _, path := range matches {
		level, err := Load(fsys, path)
		if err != nil {
			return nil, nil, err
		}
		levels[level.Name] = level
		names = append(names, level.Name)
	}
	sort.Strings(names)
	return levels, names, nil
}
