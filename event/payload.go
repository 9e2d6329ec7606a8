package event

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wobble-tower/snap"
	"github.com/lixenwraith/wobble-tower/stack"
)

// AttachedPayload describes a successful snap
type AttachedPayload struct {
	Body   stack.BodyID
	Offset mgl32.Vec3
	Count  int // Stack count after the attach
}

// RejectedPayload describes a collision that did not attach
type RejectedPayload struct {
	Body   stack.BodyID
	Reason snap.Reason
}

// OutcomePayload captures the session state at a terminal transition
type OutcomePayload struct {
	Outcome     string
	Count       int
	TotalOffset float32
	Amplitude   float32
}

// CelebrationPayload carries where the celebratory body should appear
type CelebrationPayload struct {
	Position mgl32.Vec3
}

// TeleportPayload carries the rigid stack relocation target
type TeleportPayload struct {
	Target mgl32.Vec3
}
