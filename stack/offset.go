package stack

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// EmptyHeight is returned by HighestPoint for an empty registry
// Callers must check IsEmptyHeight rather than compare it as a real height
var EmptyHeight = math32.Inf(-1)

// IsEmptyHeight reports whether h is the empty-stack sentinel
func IsEmptyHeight(h float32) bool {
	return math32.IsInf(h, -1)
}

// TotalOffsetMagnitude sums |offset.x| over all members
func TotalOffsetMagnitude(r *Registry) float32 {
	var total float32
	r.Each(func(m Member) {
		total += math32.Abs(m.Offset.X())
	})
	return total
}

// HighestPoint returns the maximum member top (position.y + half height)
func HighestPoint(r *Registry) float32 {
	highest := EmptyHeight
	r.Each(func(m Member) {
		if top := Top(m.Body); top > highest {
			highest = top
		}
	})
	return highest
}

// Reproject places every member at platform + offset + wobble on x and platform + offset on z
// y is left at the snap-time height. Repeated calls with equal inputs are idempotent
func Reproject(r *Registry, platform, wobble mgl32.Vec3) {
	r.Each(func(m Member) {
		pos := m.Body.Position()
		pos[0] = platform.X() + m.Offset.X() + wobble.X()
		pos[2] = platform.Z() + m.Offset.Z()
		m.Body.SetPosition(pos)
	})
}
