// Package game composes the kinematic world, the session controller and the camera into one steppable unit
package game

import (
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wobble-tower/config"
	"github.com/lixenwraith/wobble-tower/event"
	"github.com/lixenwraith/wobble-tower/parameter"
	"github.com/lixenwraith/wobble-tower/session"
	"github.com/lixenwraith/wobble-tower/snap"
	"github.com/lixenwraith/wobble-tower/status"
	"github.com/lixenwraith/wobble-tower/world"
)

// InputGate drops platform input once deactivated by the win sequence
type InputGate struct {
	off atomic.Bool
}

// Deactivate implements session.Deactivatable
func (g *InputGate) Deactivate() { g.off.Store(true) }

// Active reports whether input still reaches the platform
func (g *InputGate) Active() bool { return !g.off.Load() }

func (g *InputGate) filter(in session.Input) session.Input {
	if g.off.Load() {
		return session.Input{}
	}
	return in
}

type sinkFunc func(ev snap.CollisionEvent)

func (f sinkFunc) Submit(ev snap.CollisionEvent) { f(ev) }

// Game owns one session's collaborators
// Step and Reset must run on a single goroutine; Snapshot and Ended are safe anywhere
type Game struct {
	Tuning config.Tuning
	Status *status.Registry
	Events *event.Queue[event.GameEvent]
	Router *event.Router
	Camera *Camera
	Input  *InputGate
	World  *world.World
	Ctrl   *session.Controller

	ended   atomic.Bool
	outcome atomic.Uint32

	statBodies *atomic.Int64
	statCulled *atomic.Int64
}

// New wires a game from tuning
func New(t config.Tuning) *Game {
	g := &Game{
		Tuning: t,
		Status: status.NewRegistry(),
		Events: event.NewQueue[event.GameEvent](),
		Camera: NewCamera(cameraStart()),
		Input:  &InputGate{},
	}
	g.Router = event.NewRouter(g.Events)

	// World reports collisions to the controller, which is created right after
	var ctrl *session.Controller
	g.World = world.New(t.WorldConfig(), sinkFunc(func(ev snap.CollisionEvent) { ctrl.Submit(ev) }))

	ctrl = session.New(t.SessionConfig(), session.Hooks{
		Camera:       g.Camera,
		Spawner:      g.World.Spawner(),
		Deactivate:   []session.Deactivatable{g.Input},
		OnSessionEnd: g.onSessionEnd,
	}, g.Events, g.Status)
	g.Ctrl = ctrl

	g.statBodies = g.Status.Ints.Get("world.bodies")
	g.statCulled = g.Status.Ints.Get("world.culled")
	return g
}

// Step advances the world, the camera and the controller by dt, then dispatches events
// A paused session does not advance
func (g *Game) Step(in session.Input, dt time.Duration) session.Snapshot {
	if g.Ctrl.Paused() {
		return g.Ctrl.Snapshot()
	}

	g.World.Step(dt, g.Ctrl.Platform().Position)
	g.Camera.Advance(float32(dt.Seconds()))
	snap := g.Ctrl.Tick(g.Input.filter(in), dt)

	g.statBodies.Store(int64(g.World.Pool().ActiveCount()))
	g.statCulled.Store(int64(g.World.Culled()))

	g.Router.DispatchAll()
	return snap
}

// Reset starts a new session with the same tuning
func (g *Game) Reset() {
	g.World.Reset()
	g.Camera.Reset(cameraStart())
	g.Input.off.Store(false)
	g.ended.Store(false)
	g.Ctrl.Reset()
	g.Router.DispatchAll()
}

// Ended reports the final outcome once the delayed session end fired
func (g *Game) Ended() (session.Outcome, bool) {
	if !g.ended.Load() {
		return session.InProgress, false
	}
	return session.Outcome(g.outcome.Load()), true
}

// Snapshot returns the controller's last published state
func (g *Game) Snapshot() session.Snapshot {
	return g.Ctrl.Snapshot()
}

func (g *Game) onSessionEnd(o session.Outcome) {
	g.outcome.Store(uint32(o))
	g.ended.Store(true)
}

func cameraStart() mgl32.Vec3 {
	return mgl32.Vec3{0, parameter.CameraStartHeight, 0}
}
