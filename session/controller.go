// Package session drives one stacking session: platform motion, wobble and the Won/Lost outcome
package session

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wobble-tower/engine"
	"github.com/lixenwraith/wobble-tower/event"
	"github.com/lixenwraith/wobble-tower/snap"
	"github.com/lixenwraith/wobble-tower/stability"
	"github.com/lixenwraith/wobble-tower/stack"
	"github.com/lixenwraith/wobble-tower/status"
)

// Input is the external platform control for one tick
type Input struct {
	Axis float32 // Horizontal input in [-1, 1]
}

// Platform is the moving base the stack rides on
type Platform struct {
	Position mgl32.Vec3
	Boundary float32
	Wobble   mgl32.Vec3 // Current wobble offset applied on top of tracked positions
}

// Snapshot is a consistent read-only view published at the end of each tick
type Snapshot struct {
	Tick         uint64
	Elapsed      time.Duration
	Outcome      Outcome
	Ended        bool
	Count        int
	HighestPoint float32 // stack.EmptyHeight when empty
	TotalOffset  float32
	Amplitude    float32
	Wobble       mgl32.Vec3
	Platform     mgl32.Vec3
}

// Controller owns the registry and runs the per-tick update
// Tick and the mutating methods must be called from one goroutine
// Submit and Snapshot are safe from any goroutine
type Controller struct {
	cfg   Config
	hooks Hooks

	reg   *stack.Registry
	snap  *snap.Engine
	sim   *stability.Simulator
	clock *engine.GameClock
	sched *engine.Scheduler

	collisions *event.Queue[snap.CollisionEvent]
	events     *event.Queue[event.GameEvent]

	platform Platform
	state    stability.State
	outcome  Outcome

	// Terminal guards; each transition fires at most once per session
	lostFired  bool
	wonFired   bool
	celebrated bool
	ended      bool

	tick      uint64
	published atomic.Pointer[Snapshot]

	droppedSeen uint64 // Collision queue overflow count already reported

	// Cached metric pointers
	statTicks     *atomic.Int64
	statCount     *atomic.Int64
	statAccepted  *atomic.Int64
	statRejected  *atomic.Int64
	statDropped   *atomic.Int64
	statOffset    *status.AtomicFloat
	statAmplitude *status.AtomicFloat
	statLost      *atomic.Bool
	statWon       *atomic.Bool
	statusReg     *status.Registry
}

// New creates a controller for one session
// events receives outbound notifications; statusReg may be nil
func New(cfg Config, hooks Hooks, events *event.Queue[event.GameEvent], statusReg *status.Registry) *Controller {
	if statusReg == nil {
		statusReg = status.NewRegistry()
	}
	if events == nil {
		events = event.NewQueue[event.GameEvent]()
	}

	c := &Controller{
		cfg:        cfg,
		hooks:      hooks,
		reg:        stack.NewRegistry(),
		snap:       snap.NewEngine(cfg.Snap),
		sim:        stability.NewSimulator(cfg.Stability),
		clock:      engine.NewGameClock(),
		sched:      engine.NewScheduler(),
		collisions: event.NewQueue[snap.CollisionEvent](),
		events:     events,
		platform: Platform{
			Position: cfg.PlatformStart,
			Boundary: cfg.Boundary,
		},

		statusReg:     statusReg,
		statTicks:     statusReg.Ints.Get("session.ticks"),
		statCount:     statusReg.Ints.Get("stack.count"),
		statAccepted:  statusReg.Ints.Get("snap.accepted"),
		statRejected:  statusReg.Ints.Get("snap.rejected"),
		statDropped:   statusReg.Ints.Get("snap.dropped"),
		statOffset:    statusReg.Floats.Get("stack.offset"),
		statAmplitude: statusReg.Floats.Get("stability.amplitude"),
		statLost:      statusReg.Bools.Get("session.lost"),
		statWon:       statusReg.Bools.Get("session.won"),
	}
	c.publish()
	return c
}

// Submit queues a collision for the next tick's drain phase
func (c *Controller) Submit(ev snap.CollisionEvent) {
	c.collisions.Push(ev)
}

// TryAttach applies a collision immediately, outside the tick phase ordering
func (c *Controller) TryAttach(ev snap.CollisionEvent) snap.Decision {
	return c.apply(ev)
}

// PlatformPosition implements snap.PlatformLocator
func (c *Controller) PlatformPosition() (mgl32.Vec3, bool) {
	return c.platform.Position, true
}

// Tick runs one frame of the session update
//
// Phases:
//  0. drain queued collisions through the snap engine
//  1. move the platform from input (skipped once Won)
//  2. total offset
//  3. stability step
//  4. Lost check
//  5. reproject the stack (skipped once Lost)
//  6. Won check
//  7. deferred actions and win sequence
func (c *Controller) Tick(in Input, dt time.Duration) Snapshot {
	if c.clock.IsPaused() {
		return c.Snapshot()
	}
	elapsed := c.clock.Advance(dt)
	c.sched.Sync(elapsed)
	c.tick++
	c.statTicks.Store(int64(c.tick))

	c.drainCollisions()

	if c.outcome != Won {
		c.movePlatform(in.Axis, dt)
	}

	if c.outcome == InProgress {
		total := stack.TotalOffsetMagnitude(c.reg)
		c.state = c.sim.Step(total, elapsed)
		c.platform.Wobble = c.state.Wobble

		if !c.lostFired && c.state.Amplitude >= c.cfg.LoseThreshold {
			c.lose()
		}
	}

	if c.outcome != Lost {
		c.MoveStack(c.platform.Position)
	}

	if !c.wonFired && c.outcome == InProgress && c.reg.Len() >= c.cfg.WinStackCount {
		c.win()
	}

	c.sched.AdvanceTo(elapsed)
	c.progressWin()

	c.publish()
	return c.Snapshot()
}

// drainCollisions applies queued collisions in arrival order
// The inbox holds parameter.EventQueueSize entries per tick; overflow loses the oldest and is logged
func (c *Controller) drainCollisions() {
	pending := c.collisions.Consume()
	if dropped := c.collisions.Dropped(); dropped > c.droppedSeen {
		log.Printf("collision inbox overflow: %d contacts lost this tick (%d total)", dropped-c.droppedSeen, dropped)
		c.droppedSeen = dropped
		c.statDropped.Store(int64(dropped))
	}
	for _, ev := range pending {
		c.apply(ev)
	}
}

// apply runs one collision through the snap engine and records the result
func (c *Controller) apply(ev snap.CollisionEvent) snap.Decision {
	var d snap.Decision
	if c.outcome.Terminal() {
		d = snap.Rejected(snap.ReasonTerminal)
	} else {
		d = c.snap.TryAttach(ev, c.reg, c)
	}

	if d.Accepted {
		c.statAccepted.Add(1)
		c.statCount.Store(int64(c.reg.Len()))
		c.emit(event.EventAttached, &event.AttachedPayload{
			Body:   ev.Body.ID(),
			Offset: d.Member.Offset,
			Count:  c.reg.Len(),
		})
		return d
	}

	c.statRejected.Add(1)
	c.statusReg.Ints.Get("snap.rejected." + d.Reason.String()).Add(1)
	c.emit(event.EventRejected, &event.RejectedPayload{
		Body:   ev.Body.ID(),
		Reason: d.Reason,
	})
	return d
}

func (c *Controller) movePlatform(axis float32, dt time.Duration) {
	axis = mgl32.Clamp(axis, -1, 1)
	if axis == 0 {
		return
	}
	x := c.platform.Position.X() + axis*c.cfg.MoveSpeed*float32(dt.Seconds())
	c.platform.Position[0] = mgl32.Clamp(x, -c.platform.Boundary, c.platform.Boundary)
}

// transition moves the outcome forward if the state machine allows it
func (c *Controller) transition(to Outcome) bool {
	if !CanTransition(c.outcome, to) {
		return false
	}
	c.outcome = to
	return true
}

func (c *Controller) lose() {
	c.lostFired = true
	if !c.transition(Lost) {
		return
	}
	c.statLost.Store(true)

	c.ReleaseStack()
	log.Printf("session lost: count=%d offset=%.3f amplitude=%.3f", c.reg.Len(), c.state.TotalOffset, c.state.Amplitude)

	c.emit(event.EventLost, c.outcomePayload())
	c.sched.After(c.cfg.GraceDelay, "lost.end", c.end)
}

func (c *Controller) win() {
	c.wonFired = true
	if !c.transition(Won) {
		return
	}
	c.statWon.Store(true)

	c.sim.Settle()
	c.state.Amplitude = 0
	c.state.Wobble = mgl32.Vec3{}
	c.platform.Wobble = mgl32.Vec3{}

	c.platform.Position = c.cfg.WinPlatform
	c.MoveStack(c.platform.Position)

	if c.hooks.Camera != nil {
		anchor := c.platform.Position
		if top := stack.HighestPoint(c.reg); !stack.IsEmptyHeight(top) {
			anchor[1] = top + c.cfg.WinCameraLift
		}
		c.hooks.Camera.PanTo(anchor)
	}
	for _, d := range c.hooks.Deactivate {
		d.Deactivate()
	}
	if c.hooks.Spawner != nil {
		c.hooks.Spawner.Halt()
	}

	log.Printf("session won: count=%d offset=%.3f", c.reg.Len(), c.state.TotalOffset)
	c.emit(event.EventWon, c.outcomePayload())
}

// progressWin spawns the celebration once the camera settles, then schedules the end
func (c *Controller) progressWin() {
	if c.outcome != Won || c.celebrated {
		return
	}
	if c.hooks.Camera != nil && !c.hooks.Camera.Settled() {
		return
	}
	c.celebrated = true

	pos := c.platform.Position
	if top := stack.HighestPoint(c.reg); !stack.IsEmptyHeight(top) {
		pos[1] = top + c.cfg.CelebrationGap
	}
	if c.hooks.Spawner != nil {
		c.hooks.Spawner.SpawnCelebration(pos)
	}
	c.emit(event.EventCelebration, &event.CelebrationPayload{Position: pos})
	c.sched.After(c.cfg.WinWait, "won.end", c.end)
}

func (c *Controller) end() {
	if c.ended {
		return
	}
	c.ended = true
	log.Printf("session ended: %s", c.outcome)
	c.emit(event.EventSessionEnd, c.outcomePayload())
	if c.hooks.OnSessionEnd != nil {
		c.hooks.OnSessionEnd(c.outcome)
	}
}

func (c *Controller) outcomePayload() *event.OutcomePayload {
	return &event.OutcomePayload{
		Outcome:     c.outcome.String(),
		Count:       c.reg.Len(),
		TotalOffset: c.state.TotalOffset,
		Amplitude:   c.state.Amplitude,
	}
}

func (c *Controller) emit(t event.EventType, payload any) {
	c.events.Push(event.GameEvent{Type: t, Payload: payload, Tick: c.tick})
}

func (c *Controller) publish() {
	s := Snapshot{
		Tick:         c.tick,
		Elapsed:      c.clock.Elapsed(),
		Outcome:      c.outcome,
		Ended:        c.ended,
		Count:        c.reg.Len(),
		HighestPoint: stack.HighestPoint(c.reg),
		TotalOffset:  c.state.TotalOffset,
		Amplitude:    c.state.Amplitude,
		Wobble:       c.platform.Wobble,
		Platform:     c.platform.Position,
	}
	c.statOffset.Set(float64(s.TotalOffset))
	c.statAmplitude.Set(float64(s.Amplitude))
	c.published.Store(&s)
}

// MoveStack reprojects every attached body onto platform using the current wobble
func (c *Controller) MoveStack(platform mgl32.Vec3) {
	stack.Reproject(c.reg, platform, c.platform.Wobble)
}

// ReleaseStack unfreezes every attached body
func (c *Controller) ReleaseStack() {
	c.reg.Release()
}

// TeleportStack moves the whole stack rigidly so its bottom lands on target
func (c *Controller) TeleportStack(target mgl32.Vec3) bool {
	if !c.reg.Teleport(target) {
		return false
	}
	c.emit(event.EventTeleport, &event.TeleportPayload{Target: target})
	return true
}

// Reset clears the stack and starts a new session at the platform start position
func (c *Controller) Reset() {
	c.reg.Clear()
	c.collisions.Clear()
	c.sim.Reset()
	c.clock.Reset()
	c.sched.Reset()

	c.platform = Platform{Position: c.cfg.PlatformStart, Boundary: c.cfg.Boundary}
	c.state = stability.State{}
	c.outcome = InProgress
	c.lostFired, c.wonFired, c.celebrated, c.ended = false, false, false, false
	c.tick = 0

	c.statCount.Store(0)
	c.statLost.Store(false)
	c.statWon.Store(false)

	c.emit(event.EventReset, nil)
	c.publish()
}

// Pause freezes session time; ticks become no-ops
func (c *Controller) Pause() { c.clock.Pause() }

// Resume continues session time
func (c *Controller) Resume() { c.clock.Resume() }

// Paused reports whether the session clock is paused
func (c *Controller) Paused() bool { return c.clock.IsPaused() }

// Snapshot returns the last published state
func (c *Controller) Snapshot() Snapshot {
	return *c.published.Load()
}

// StackCount returns the number of attached bodies
func (c *Controller) StackCount() int {
	return c.reg.Len()
}

// HighestPoint returns the stack top or stack.EmptyHeight
func (c *Controller) HighestPoint() float32 {
	return stack.HighestPoint(c.reg)
}

// TotalOffset returns the current sum of |offset.x|
func (c *Controller) TotalOffset() float32 {
	return stack.TotalOffsetMagnitude(c.reg)
}

// CurrentWobble returns the wobble offset applied on the last tick
func (c *Controller) CurrentWobble() mgl32.Vec3 {
	return c.platform.Wobble
}

// Outcome returns the session outcome
func (c *Controller) Outcome() Outcome {
	return c.outcome
}

// Members returns the attached bodies bottom-to-top
func (c *Controller) Members() []stack.Member {
	return c.reg.Members()
}

// Registry exposes the session's stack for read-only collaborators
func (c *Controller) Registry() *stack.Registry {
	return c.reg
}

// Platform returns the current platform state
func (c *Controller) Platform() Platform {
	return c.platform
}

// Config returns the controller tunables
func (c *Controller) Config() Config {
	return c.cfg
}
