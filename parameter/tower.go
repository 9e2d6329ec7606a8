package parameter

import "time"

// Snap decision
const (
	// CollisionTolerance is how far below the stack top a contact may land and still attach
	CollisionTolerance = 0.1

	// MinUpwardNormal is the vertical component a unit contact normal must exceed
	MinUpwardNormal = 0.5

	// CentralContactEnabled toggles the off-center contact filter
	CentralContactEnabled = true

	// CentralContactMargin scales the half extent a contact may deviate from body center
	CentralContactMargin = 0.9
)

// Wobble
const (
	// WobbleFrequency is the oscillator angular frequency in radians per second
	WobbleFrequency = 2.0

	// WobbleCurveMaxOffset is the total offset at which the default curve saturates
	WobbleCurveMaxOffset = 5.0

	// WobbleCurveMaxAmplitude is the amplitude ceiling reached at WobbleCurveMaxOffset
	WobbleCurveMaxAmplitude = 0.2
)

// Outcome
const (
	// LoseThreshold is the wobble amplitude that collapses the stack
	LoseThreshold = 0.15

	// WinStackCount is the stack height that wins the session
	WinStackCount = 15

	// GraceDelay is the wait between collapse and session end
	GraceDelay = 1 * time.Second

	// WinWait is the wait between the celebration spawn and session end
	WinWait = 5 * time.Second
)

// Platform
const (
	// PlatformMoveSpeed is horizontal platform speed in units per second at full input
	PlatformMoveSpeed = 5.0

	// PlatformBoundary clamps platform x to [-PlatformBoundary, PlatformBoundary]
	PlatformBoundary = 3.5

	// PlatformWidth is the platform extent along x
	PlatformWidth = 3.0

	// PlatformHeight is the platform thickness
	PlatformHeight = 0.5

	// WinCameraHeight is how far above the stack top the camera anchor sits on Won
	WinCameraHeight = 4.0
)

// Spawner
const (
	// SpawnInterval is the delay between spawned bodies
	SpawnInterval = 2 * time.Second

	// SpawnXRange bounds spawn x to [-SpawnXRange, SpawnXRange]
	SpawnXRange = 3.25

	// SpawnY is the spawn height
	SpawnY = 10.0

	// PoolSize is the number of bodies pre-allocated by the pool
	PoolSize = 24

	// BodySize is the default edge length of a spawned cube
	BodySize = 1.0

	// SpawnSeed seeds the spawn position generator
	SpawnSeed = 1
)

// World
const (
	// Gravity is the downward acceleration applied to free bodies
	Gravity = 9.81

	// TerminalVelocity caps fall speed
	TerminalVelocity = 20.0

	// KillPlaneY is the height below which free bodies return to the pool
	KillPlaneY = -10.0
)

// Camera
const (
	// CameraStartHeight is the camera anchor height before the win pan
	CameraStartHeight = 4.0

	// CameraPanSpeed is the camera travel speed in units per second
	CameraPanSpeed = 6.0

	// CameraSettleDistance is the anchor distance under which the pan counts as finished
	CameraSettleDistance = 0.01
)

// Loop
const (
	// TickInterval is the fixed simulation step of the front end
	TickInterval = 16 * time.Millisecond
)

// Event queue
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 256

	// EventBufferMask is the bitmask for fast modulo operations (256 - 1)
	EventBufferMask = EventQueueSize - 1
)
