package world

import (
	"time"

	"github.com/lixenwraith/wobble-tower/parameter"
)

// SpawnConfig controls the periodic body source
type SpawnConfig struct {
	Interval time.Duration
	XRange   float32
	SpawnY   float32
	PoolSize int
	Seed     uint64
}

// Config holds the kinematic world tunables
type Config struct {
	Gravity          float32
	TerminalVelocity float32
	KillPlaneY       float32
	BodySize         float32
	PlatformWidth    float32
	PlatformHeight   float32
	Spawn            SpawnConfig
}

// DefaultConfig returns the stock world tunables
func DefaultConfig() Config {
	return Config{
		Gravity:          parameter.Gravity,
		TerminalVelocity: parameter.TerminalVelocity,
		KillPlaneY:       parameter.KillPlaneY,
		BodySize:         parameter.BodySize,
		PlatformWidth:    parameter.PlatformWidth,
		PlatformHeight:   parameter.PlatformHeight,
		Spawn: SpawnConfig{
			Interval: parameter.SpawnInterval,
			XRange:   parameter.SpawnXRange,
			SpawnY:   parameter.SpawnY,
			PoolSize: parameter.PoolSize,
			Seed:     parameter.SpawnSeed,
		},
	}
}
