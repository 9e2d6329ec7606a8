package session

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wobble-tower/parameter"
	"github.com/lixenwraith/wobble-tower/snap"
	"github.com/lixenwraith/wobble-tower/stability"
)

// Config holds every controller tunable
type Config struct {
	Snap      snap.Config
	Stability stability.Config

	LoseThreshold float32
	WinStackCount int
	GraceDelay    time.Duration
	WinWait       time.Duration

	MoveSpeed      float32
	Boundary       float32
	PlatformStart  mgl32.Vec3
	WinPlatform    mgl32.Vec3 // Platform anchor on Won
	WinCameraLift  float32    // Camera anchor height above the stack top on Won
	CelebrationGap float32    // Celebratory body spawn height above the stack top
}

// DefaultConfig returns the stock session tunables
func DefaultConfig() Config {
	return Config{
		Snap:           snap.DefaultConfig(),
		Stability:      stability.DefaultConfig(),
		LoseThreshold:  parameter.LoseThreshold,
		WinStackCount:  parameter.WinStackCount,
		GraceDelay:     parameter.GraceDelay,
		WinWait:        parameter.WinWait,
		MoveSpeed:      parameter.PlatformMoveSpeed,
		Boundary:       parameter.PlatformBoundary,
		WinCameraLift:  parameter.WinCameraHeight,
		CelebrationGap: parameter.BodySize * 2,
	}
}
