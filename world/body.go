package world

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wobble-tower/stack"
)

// Body is an axis-aligned cube that falls under gravity until frozen by the stack
type Body struct {
	id   stack.BodyID
	pos  mgl32.Vec3
	vel  mgl32.Vec3
	half float32

	active      bool
	frozen      bool
	tumbling    bool // Landed but was not attached; ignores contacts until it leaves the world
	resting     bool // Parked on a surface and no longer integrated
	celebration bool
}

func (b *Body) ID() stack.BodyID     { return b.id }
func (b *Body) Position() mgl32.Vec3 { return b.pos }

func (b *Body) SetPosition(pos mgl32.Vec3) { b.pos = pos }

func (b *Body) Bounds() cube.BBox {
	return boxAround(b.pos, b.half)
}

// SetFrozen zeroes velocity on freeze; unfreezing lets the body fall again
func (b *Body) SetFrozen(frozen bool) {
	b.frozen = frozen
	b.vel = mgl32.Vec3{}
	b.resting = false
	if !frozen {
		b.tumbling = true
	}
}

func (b *Body) Velocity() mgl32.Vec3 { return b.vel }
func (b *Body) Frozen() bool         { return b.frozen }
func (b *Body) Active() bool         { return b.active }
func (b *Body) Celebration() bool    { return b.celebration }

// HalfExtent returns half the cube edge length
func (b *Body) HalfExtent() float32 { return b.half }

func boxAround(center mgl32.Vec3, half float32) cube.BBox {
	return cube.Box(
		center.X()-half, center.Y()-half, center.Z()-half,
		center.X()+half, center.Y()+half, center.Z()+half,
	)
}
