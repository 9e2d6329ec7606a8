package game

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wobble-tower/parameter"
)

// Camera pans toward its anchor at a fixed speed on game time
// Advancing on game time keeps the celebration tick identical between live play and replay
type Camera struct {
	pos    mgl32.Vec3
	target mgl32.Vec3
	speed  float32
}

// NewCamera creates a settled camera at pos
func NewCamera(pos mgl32.Vec3) *Camera {
	return &Camera{pos: pos, target: pos, speed: parameter.CameraPanSpeed}
}

// PanTo implements session.Camera
func (c *Camera) PanTo(anchor mgl32.Vec3) {
	c.target = anchor
}

// Settled implements session.Camera
func (c *Camera) Settled() bool {
	return c.pos.Sub(c.target).Len() <= parameter.CameraSettleDistance
}

// Advance moves the camera toward its target
func (c *Camera) Advance(secs float32) {
	d := c.target.Sub(c.pos)
	dist := d.Len()
	if dist <= parameter.CameraSettleDistance {
		c.pos = c.target
		return
	}
	stepLen := c.speed * secs
	if stepLen >= dist {
		c.pos = c.target
		return
	}
	c.pos = c.pos.Add(d.Mul(stepLen / dist))
}

// Position returns the current camera anchor
func (c *Camera) Position() mgl32.Vec3 { return c.pos }

// Reset snaps the camera back to pos
func (c *Camera) Reset(pos mgl32.Vec3) {
	c.pos = pos
	c.target = pos
}
