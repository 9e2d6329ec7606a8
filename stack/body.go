package stack

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// BodyID identifies a falling body for the lifetime of a session
type BodyID uint64

// Body is the registry's view of a falling-body entity
// The registry never owns the entity; it only holds this reference
type Body interface {
	ID() BodyID
	Position() mgl32.Vec3
	SetPosition(pos mgl32.Vec3)
	// Bounds returns the world-space bounding box at the current position
	Bounds() cube.BBox
	// SetFrozen stops (true) or resumes (false) the body's response to external forces
	SetFrozen(frozen bool)
}

// Member is an attached body with the platform-relative offset captured at snap time
type Member struct {
	Body     Body
	Offset   mgl32.Vec3 // (x, 0, z), immutable after attach
	Attached bool
}

// HalfHeight returns half the vertical extent of the body's bounds
func HalfHeight(b Body) float32 {
	bb := b.Bounds()
	return (bb.Max().Y() - bb.Min().Y()) / 2
}

// Top returns the body's highest point
func Top(b Body) float32 {
	return b.Position().Y() + HalfHeight(b)
}
