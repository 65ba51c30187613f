package config

import "time"

// MovementConfig tunes pursuit and pathfinding for every boss.
type MovementConfig struct {
	PathfindCooldown    time.Duration // Minimum time between pathfind attempts
	MinPathDist         float64       // Pathfind only when strictly farther than this
	MaxPathDist         float64       // Pathfind only when strictly closer than this
	VerticalThreshold   float64       // Pathfind only when the height gap is below this
	SegmentCap          float64       // Longest single pathfind request
	StopDistance        float64       // How close the mover should get to its goal
	FallbackSpeedFactor float64       // Fraction of moveSpeed used for direct movement

	// Passed straight through to the mover
	MaxFall         float64
	MaxJump         float64
	VerticalPenalty float64
	WaypointTimeout time.Duration
}

// ImpulseTier is a stuck-recovery kick for one boss size class.
type ImpulseTier struct {
	Forward float64
	Upward  float64
}

// StuckConfig controls recovery when the mover skips a waypoint.
type StuckConfig struct {
	Timeout              time.Duration
	LargeSizeThreshold   float64 // Bosses at or above this size use the Large tier
	Small                ImpulseTier
	Large                ImpulseTier
	BaselineGravityScale float64 // Normal reduced gravity for bosses
	StuckGravityFactor   float64 // Multiplier on the baseline while stuck
}

// CombatConfig contains boss-side combat tuning shared by all types.
type CombatConfig struct {
	UpwardBias        float64 // Added to knockback direction before normalizing
	FlashDuration     time.Duration
	DeathDespawnDelay time.Duration // Used when a type sets no despawn delay of its own
}

// ManagerConfig tunes fleet orchestration.
type ManagerConfig struct {
	LoopInterval      time.Duration
	BroadcastInterval time.Duration
	DetectionBuffer   float64 // Added to a boss's detection range for target acquisition
}

// ProgressionConfig sets the XP curve of the demo progression ledger.
type ProgressionConfig struct {
	BaseXP      int     // XP needed to leave level 1
	GrowthRatio float64 // Each level needs this much more than the last
}

// ServerConfig holds the demo server's runtime settings.
type ServerConfig struct {
	Port               int
	TickRate           int
	LevelPath          string
	BossTypesPath      string
	Seed               int64
	PlayerHealth       int
	PlayerInvulnFrames int
	PlayerMass         float64
	Gravity            float64
	GroundFriction     float64 // Fraction of horizontal velocity kept per second on the floor
	NavCellSize        float64
	NavMaxSearchRadius int

	PlayerMoveSpeed            float64
	PlayerJumpImpulse          float64
	PlayerAttackRange          float64
	PlayerAttackDamage         int
	PlayerAttackCooldownFrames int
	PlayerKnockbackFrames      int // Input is ignored this long after a knockback
	PlayerRespawnDelay         time.Duration

	BossRespawnInterval time.Duration // How often empty spawn points are refilled
	LootLifetime        time.Duration
	LootPickupRadius    float64
}

var Movement MovementConfig
var Stuck StuckConfig
var Combat CombatConfig
var Manager ManagerConfig
var Progression ProgressionConfig
var Server ServerConfig

func init() {
	Movement = MovementConfig{
		PathfindCooldown:    3000 * time.Millisecond,
		MinPathDist:         2.5,
		MaxPathDist:         30,
		VerticalThreshold:   5,
		SegmentCap:          15,
		StopDistance:        1.5,
		FallbackSpeedFactor: 0.5,

		MaxFall:         6,
		MaxJump:         2,
		VerticalPenalty: 2,
		WaypointTimeout: 2000 * time.Millisecond,
	}

	Stuck = StuckConfig{
		Timeout:            500 * time.Millisecond,
		LargeSizeThreshold: 2,
		Small: ImpulseTier{
			Forward: 4,
			Upward:  6,
		},
		Large: ImpulseTier{
			Forward: 8,
			Upward:  12,
		},
		BaselineGravityScale: 0.6,
		StuckGravityFactor:   0.5,
	}

	Combat = CombatConfig{
		UpwardBias:        0.25,
		FlashDuration:     150 * time.Millisecond,
		DeathDespawnDelay: 2000 * time.Millisecond,
	}

	Manager = ManagerConfig{
		LoopInterval:      1000 * time.Millisecond,
		BroadcastInterval: 1000 * time.Millisecond,
		DetectionBuffer:   5,
	}

	Progression = ProgressionConfig{
		BaseXP:      100,
		GrowthRatio: 1.5,
	}

	Server = ServerConfig{
		Port:               7373,
		TickRate:           30,
		LevelPath:          "assets/levels/arena.tmx",
		BossTypesPath:      "assets/bosses.yaml",
		PlayerHealth:       100,
		PlayerInvulnFrames: 30,
		PlayerMass:         1,
		Gravity:            20,
		GroundFriction:     0.05,
		NavCellSize:        1,
		NavMaxSearchRadius: 10,
		Seed:               42,

		PlayerMoveSpeed:            6,
		PlayerJumpImpulse:          9,
		PlayerAttackRange:          3,
		PlayerAttackDamage:         20,
		PlayerAttackCooldownFrames: 15,
		PlayerKnockbackFrames:      12,
		PlayerRespawnDelay:         3 * time.Second,

		BossRespawnInterval: 30 * time.Second,
		LootLifetime:        30 * time.Second,
		LootPickupRadius:    1.5,
	}
}
