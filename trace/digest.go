package trace

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeebo/xxh3"

	"github.com/lixenwraith/wobble-tower/game"
	"github.com/lixenwraith/wobble-tower/stack"
)

// Digest hashes the simulation state that replay must reproduce bit for bit
// Covers outcome, platform, wobble, every member in stack order and every live body
func Digest(g *game.Game) string {
	s := g.Ctrl.Snapshot()

	buf := make([]byte, 0, 256)
	buf = binary.LittleEndian.AppendUint64(buf, s.Tick)
	buf = append(buf, byte(s.Outcome))
	buf = appendVec(buf, s.Platform)
	buf = appendVec(buf, s.Wobble)
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(s.Amplitude))

	g.Ctrl.Registry().Each(func(m stack.Member) {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(m.Body.ID()))
		buf = appendVec(buf, m.Offset)
		buf = appendVec(buf, m.Body.Position())
	})

	for _, b := range g.World.Bodies() {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(b.ID()))
		buf = appendVec(buf, b.Position())
	}

	return fmt.Sprintf("%016x", xxh3.Hash(buf))
}

func appendVec(buf []byte, v mgl32.Vec3) []byte {
	for _, f := range v {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}
