package session

import "github.com/go-gl/mathgl/mgl32"

// Camera is the render-side camera that pans to the win anchor
type Camera interface {
	PanTo(anchor mgl32.Vec3)
	// Settled reports that the pan finished
	Settled() bool
}

// Spawner is the external body source
type Spawner interface {
	Halt()
	SpawnCelebration(pos mgl32.Vec3)
}

// Deactivatable is a gameplay object switched off on Won
type Deactivatable interface {
	Deactivate()
}

// Hooks wires the controller to excluded collaborators; every field is optional
// A nil Camera counts as already settled
type Hooks struct {
	Camera       Camera
	Spawner      Spawner
	Deactivate   []Deactivatable
	OnSessionEnd func(o Outcome)
}
