// Package leveldata parses TMX arenas into plain data: the floor size,
// obstacles, and where bosses and players appear. One map tile is one
// world unit; TMX x runs along world X and TMX y along world Z.
package leveldata

// Level holds everything the server needs from a TMX file.
type Level struct {
	Name         string
	Width        float64 // world units along X
	Depth        float64 // world units along Z
	Obstacles    []Obstacle
	BossSpawns   []BossSpawn
	PlayerSpawns []SpawnPoint
}

// Obstacle is a box standing on the floor. Solid obstacles are walls.
type Obstacle struct {
	X, Z, W, D float64
	Height     float64
	Solid      bool
}

// BossSpawn is a named boss spawn point.
type BossSpawn struct {
	SpawnerID      string
	X, Y, Z        float64
	BossType       string
	Health         int     // 0 keeps the type's health
	DetectionRange float64 // 0 keeps the type's range
	MoveSpeed      float64 // 0 keeps the type's speed
}

// SpawnPoint is a player spawn location.
type SpawnPoint struct {
	X, Z  float64
	Index int
}
