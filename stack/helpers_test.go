package stack

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// testBody is a unit cube (unless half is set) with recorded frozen state
type testBody struct {
	id     BodyID
	pos    mgl32.Vec3
	half   mgl32.Vec3
	frozen bool
}

func newTestBody(id BodyID, x, y, z float32) *testBody {
	return &testBody{id: id, pos: mgl32.Vec3{x, y, z}, half: mgl32.Vec3{0.5, 0.5, 0.5}}
}

func (b *testBody) ID() BodyID                 { return b.id }
func (b *testBody) Position() mgl32.Vec3       { return b.pos }
func (b *testBody) SetPosition(pos mgl32.Vec3) { b.pos = pos }
func (b *testBody) SetFrozen(frozen bool)      { b.frozen = frozen }

func (b *testBody) Bounds() cube.BBox {
	min := b.pos.Sub(b.half)
	max := b.pos.Add(b.half)
	return cube.Box(min.X(), min.Y(), min.Z(), max.X(), max.Y(), max.Z())
}
