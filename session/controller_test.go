package session

import (
	"math"
	"testing"
	"time"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wobble-tower/event"
	"github.com/lixenwraith/wobble-tower/parameter"
	"github.com/lixenwraith/wobble-tower/snap"
	"github.com/lixenwraith/wobble-tower/stack"
	"github.com/lixenwraith/wobble-tower/status"
)

const dt = 16 * time.Millisecond

type fakeBody struct {
	id     stack.BodyID
	pos    mgl32.Vec3
	frozen bool
}

func (b *fakeBody) ID() stack.BodyID           { return b.id }
func (b *fakeBody) Position() mgl32.Vec3       { return b.pos }
func (b *fakeBody) SetPosition(pos mgl32.Vec3) { b.pos = pos }
func (b *fakeBody) SetFrozen(frozen bool)      { b.frozen = frozen }
func (b *fakeBody) Bounds() cube.BBox {
	return cube.Box(b.pos.X()-0.5, b.pos.Y()-0.5, b.pos.Z()-0.5, b.pos.X()+0.5, b.pos.Y()+0.5, b.pos.Z()+0.5)
}

type fakeCamera struct {
	anchors     []mgl32.Vec3
	settleAfter int
	polls       int
}

func (c *fakeCamera) PanTo(anchor mgl32.Vec3) { c.anchors = append(c.anchors, anchor) }
func (c *fakeCamera) Settled() bool {
	c.polls++
	return c.polls > c.settleAfter
}

type fakeSpawner struct {
	halts       int
	celebration []mgl32.Vec3
}

func (s *fakeSpawner) Halt()                           { s.halts++ }
func (s *fakeSpawner) SpawnCelebration(p mgl32.Vec3) { s.celebration = append(s.celebration, p) }

type fakeObject struct{ off int }

func (o *fakeObject) Deactivate() { o.off++ }

// landOnTop builds a falling body offset from the platform that lands squarely on the current top
func landOnTop(c *Controller, id stack.BodyID, xOffset float32) (*fakeBody, snap.CollisionEvent) {
	partner := snap.CategoryFallingBody
	top := c.HighestPoint()
	if stack.IsEmptyHeight(top) {
		partner = snap.CategoryPlatform
		top = 0.25
	}

	p := c.Platform().Position
	b := &fakeBody{id: id, pos: mgl32.Vec3{p.X() + xOffset, top + 0.5, p.Z()}}
	return b, snap.CollisionEvent{
		Body:    b,
		Partner: partner,
		Point:   mgl32.Vec3{b.pos.X(), top, b.pos.Z()},
		Normal:  mgl32.Vec3{0, 1, 0},
	}
}

func countEvents(events []event.GameEvent, t event.EventType) int {
	n := 0
	for _, ev := range events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func TestController_EmptyRegistry(t *testing.T) {
	c := New(DefaultConfig(), Hooks{}, nil, nil)

	if c.StackCount() != 0 {
		t.Errorf("expected empty stack, got %d", c.StackCount())
	}
	if !stack.IsEmptyHeight(c.HighestPoint()) {
		t.Errorf("expected empty sentinel, got %v", c.HighestPoint())
	}
	if !stack.IsEmptyHeight(c.Snapshot().HighestPoint) {
		t.Error("initial snapshot should carry the empty sentinel")
	}
	if c.Outcome() != InProgress {
		t.Errorf("expected in_progress, got %s", c.Outcome())
	}
}

func TestController_SubmittedCollisionVisibleSameTick(t *testing.T) {
	c := New(DefaultConfig(), Hooks{}, nil, nil)
	b, ev := landOnTop(c, 1, 0.5)

	c.Submit(ev)
	if c.StackCount() != 0 {
		t.Fatal("submit must not attach before the tick drains it")
	}

	snap := c.Tick(Input{}, dt)
	if snap.Count != 1 {
		t.Fatalf("expected attach visible in the same tick, got count %d", snap.Count)
	}
	if snap.TotalOffset != 0.5 {
		t.Errorf("expected total offset 0.5, got %v", snap.TotalOffset)
	}
	if !b.frozen {
		t.Error("attached body should be frozen")
	}
}

func TestController_CollisionOverflowIsCounted(t *testing.T) {
	reg := status.NewRegistry()
	c := New(DefaultConfig(), Hooks{}, nil, reg)
	_, ev := landOnTop(c, 1, 0)

	extra := 44
	for i := 0; i < parameter.EventQueueSize+extra; i++ {
		c.Submit(ev)
	}
	snap := c.Tick(Input{}, dt)

	if snap.Count != 1 {
		t.Errorf("expected the surviving contacts to attach once, got count %d", snap.Count)
	}
	if got := reg.Ints.Get("snap.dropped").Load(); got != int64(extra) {
		t.Errorf("snap.dropped = %d, want %d", got, extra)
	}
	if got := reg.Ints.Get("snap.rejected.already_attached").Load(); got != int64(parameter.EventQueueSize-1) {
		t.Errorf("duplicate contacts rejected %d times, want %d", got, parameter.EventQueueSize-1)
	}

	c.Tick(Input{}, dt)
	if got := reg.Ints.Get("snap.dropped").Load(); got != int64(extra) {
		t.Errorf("quiet tick changed the overflow count to %d", got)
	}
}

func TestController_TotalOffsetMatchesAcceptedBodies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LoseThreshold = 10 // keep the session alive
	c := New(cfg, Hooks{}, nil, nil)

	offsets := []float32{0.25, -0.5, 0.125, -0.25}
	var want float32
	for i, off := range offsets {
		_, ev := landOnTop(c, stack.BodyID(i+1), off)
		if d := c.TryAttach(ev); d.Accepted {
			want += float32(math.Abs(float64(off)))
		}
	}

	// A glancing contact and a duplicate must not count
	_, side := landOnTop(c, 99, 0.4)
	side.Normal = mgl32.Vec3{1, 0.2, 0}
	c.TryAttach(side)
	_, dup := landOnTop(c, 1, 0)
	c.TryAttach(dup)

	if c.StackCount() != len(offsets) {
		t.Fatalf("expected %d members, got %d", len(offsets), c.StackCount())
	}
	if got := c.TotalOffset(); got != want {
		t.Errorf("total offset %v, want %v", got, want)
	}
}

func TestController_OffsetImmutableAcrossTicks(t *testing.T) {
	c := New(DefaultConfig(), Hooks{}, nil, nil)
	_, ev := landOnTop(c, 1, 0.3)
	first := c.TryAttach(ev)

	for i := 0; i < 50; i++ {
		c.Tick(Input{Axis: 1}, dt)
		c.TryAttach(ev)
	}

	m := c.Members()[0]
	if m.Offset != first.Member.Offset {
		t.Errorf("offset changed from %v to %v", first.Member.Offset, m.Offset)
	}
}

func TestController_ReprojectionFollowsPlatformAndWobble(t *testing.T) {
	c := New(DefaultConfig(), Hooks{}, nil, nil)
	b1, ev1 := landOnTop(c, 1, 0.4)
	c.TryAttach(ev1)
	b2, ev2 := landOnTop(c, 2, -0.2)
	c.TryAttach(ev2)

	for i := 0; i < 20; i++ {
		snap := c.Tick(Input{Axis: -1}, dt)

		for _, tc := range []struct {
			b   *fakeBody
			off float32
		}{{b1, 0.4}, {b2, -0.2}} {
			wantX := snap.Platform.X() + tc.off + snap.Wobble.X()
			if math.Abs(float64(tc.b.pos.X()-wantX)) > 1e-5 {
				t.Fatalf("tick %d body %d: x=%v want %v", i, tc.b.id, tc.b.pos.X(), wantX)
			}
			if tc.b.pos.Z() != snap.Platform.Z() {
				t.Fatalf("tick %d body %d: z=%v want %v", i, tc.b.id, tc.b.pos.Z(), snap.Platform.Z())
			}
		}
	}

	if b1.pos.Y() != 0.75 || b2.pos.Y() != 1.75 {
		t.Errorf("reprojection must not change y: %v %v", b1.pos.Y(), b2.pos.Y())
	}
}

func TestController_PlatformClamp(t *testing.T) {
	c := New(DefaultConfig(), Hooks{}, nil, nil)
	for i := 0; i < 200; i++ {
		c.Tick(Input{Axis: 3}, dt)
	}
	if x := c.Platform().Position.X(); x != c.Config().Boundary {
		t.Errorf("platform should clamp at boundary %v, got %v", c.Config().Boundary, x)
	}

	for i := 0; i < 400; i++ {
		c.Tick(Input{Axis: -1}, dt)
	}
	if x := c.Platform().Position.X(); x != -c.Config().Boundary {
		t.Errorf("platform should clamp at -boundary, got %v", x)
	}
}

func TestController_LostFiresOnce(t *testing.T) {
	q := event.NewQueue[event.GameEvent]()
	ends := 0
	var endedAs Outcome
	c := New(DefaultConfig(), Hooks{OnSessionEnd: func(o Outcome) { ends++; endedAs = o }}, q, nil)

	// Five bodies at offset 1.0 give total offset 5.0 -> amplitude 0.2
	var bodies []*fakeBody
	for i := 1; i <= 5; i++ {
		b, ev := landOnTop(c, stack.BodyID(i), 1.0)
		if d := c.TryAttach(ev); !d.Accepted {
			t.Fatalf("body %d rejected: %s", i, d.Reason)
		}
		bodies = append(bodies, b)
	}

	snap := c.Tick(Input{}, dt)
	if math.Abs(float64(snap.Amplitude-0.2)) > 1e-6 {
		t.Fatalf("expected amplitude 0.2, got %v", snap.Amplitude)
	}
	if snap.Outcome != Lost {
		t.Fatalf("expected lost, got %s", snap.Outcome)
	}
	for _, b := range bodies {
		if b.frozen {
			t.Errorf("body %d should be released on loss", b.id)
		}
	}

	// Repeated ticks at the same amplitude never re-fire
	for i := 0; i < 120; i++ {
		c.Tick(Input{}, dt)
	}

	events := q.Consume()
	if n := countEvents(events, event.EventLost); n != 1 {
		t.Errorf("expected one lost event, got %d", n)
	}
	if n := countEvents(events, event.EventSessionEnd); n != 1 {
		t.Errorf("expected one session end, got %d", n)
	}
	if ends != 1 || endedAs != Lost {
		t.Errorf("session end callback: calls=%d outcome=%s", ends, endedAs)
	}
	if !c.Snapshot().Ended {
		t.Error("snapshot should report the session ended")
	}
}

func TestController_LostEndsAfterGraceDelay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LoseThreshold = 0.01
	ended := false
	c := New(cfg, Hooks{OnSessionEnd: func(Outcome) { ended = true }}, nil, nil)

	_, ev := landOnTop(c, 1, 1.0)
	c.TryAttach(ev)

	c.Tick(Input{}, dt)
	if c.Outcome() != Lost {
		t.Fatalf("expected lost, got %s", c.Outcome())
	}
	lostAt := c.Snapshot().Elapsed

	for !ended {
		c.Tick(Input{}, dt)
		if c.Snapshot().Elapsed-lostAt > cfg.GraceDelay+dt {
			t.Fatal("session should end once the grace delay passed")
		}
	}
	if grace := c.Snapshot().Elapsed - lostAt; grace < cfg.GraceDelay {
		t.Errorf("ended before grace delay at %v", grace)
	}
}

func TestController_NoAttachAfterTerminal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LoseThreshold = 0.01
	c := New(cfg, Hooks{}, nil, nil)

	_, ev := landOnTop(c, 1, 1.0)
	c.TryAttach(ev)
	c.Tick(Input{}, dt)

	b, late := landOnTop(c, 2, 0)
	d := c.TryAttach(late)
	if d.Accepted || d.Reason != snap.ReasonTerminal {
		t.Errorf("expected terminal rejection, got %+v", d)
	}
	if b.frozen || c.StackCount() != 1 {
		t.Error("terminal rejection must not change state")
	}
}

func TestController_WonFiresOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WinStackCount = 3
	cfg.WinPlatform = mgl32.Vec3{0, 0, 0}

	q := event.NewQueue[event.GameEvent]()
	cam := &fakeCamera{settleAfter: 5}
	sp := &fakeSpawner{}
	obj := &fakeObject{}
	ends := 0
	c := New(cfg, Hooks{
		Camera:       cam,
		Spawner:      sp,
		Deactivate:   []Deactivatable{obj},
		OnSessionEnd: func(Outcome) { ends++ },
	}, q, nil)

	// Move the platform away first so the win relocation is observable
	for i := 0; i < 10; i++ {
		c.Tick(Input{Axis: 1}, dt)
	}

	var bodies []*fakeBody
	for i := 1; i <= 3; i++ {
		b, ev := landOnTop(c, stack.BodyID(i), 0.1)
		c.Submit(ev)
		c.Tick(Input{}, dt)
		bodies = append(bodies, b)
	}

	if c.Outcome() != Won {
		t.Fatalf("expected won, got %s", c.Outcome())
	}
	if c.Platform().Position != cfg.WinPlatform {
		t.Errorf("platform should move to win anchor, got %v", c.Platform().Position)
	}
	if c.CurrentWobble() != (mgl32.Vec3{}) {
		t.Errorf("wobble must be zero after win, got %v", c.CurrentWobble())
	}
	for _, b := range bodies {
		if math.Abs(float64(b.pos.X()-0.1)) > 1e-5 {
			t.Errorf("body %d should follow platform to anchor, x=%v", b.id, b.pos.X())
		}
	}
	if len(cam.anchors) != 1 || cam.anchors[0].Y() != c.HighestPoint()+cfg.WinCameraLift {
		t.Errorf("unexpected camera pans %v", cam.anchors)
	}

	// Input is ignored and nothing re-triggers while the count stays above threshold
	for i := 0; i < 30; i++ {
		snap := c.Tick(Input{Axis: 1}, dt)
		if snap.Amplitude != 0 || snap.Wobble != (mgl32.Vec3{}) {
			t.Fatalf("wobble must stay zero after win, got %+v", snap)
		}
	}
	if c.Platform().Position != cfg.WinPlatform {
		t.Error("platform moved after win")
	}

	if sp.halts != 1 || obj.off != 1 {
		t.Errorf("win side effects repeated: halts=%d deactivations=%d", sp.halts, obj.off)
	}
	if len(sp.celebration) != 1 {
		t.Fatalf("expected one celebration spawn, got %d", len(sp.celebration))
	}
	if got, want := sp.celebration[0].Y(), c.HighestPoint()+cfg.CelebrationGap; got != want {
		t.Errorf("celebration height %v, want %v", got, want)
	}
	if ends != 0 {
		t.Fatal("session ended before the win wait")
	}

	for i := 0; i < int(cfg.WinWait/dt)+2; i++ {
		c.Tick(Input{}, dt)
	}

	events := q.Consume()
	if n := countEvents(events, event.EventWon); n != 1 {
		t.Errorf("expected one won event, got %d", n)
	}
	if n := countEvents(events, event.EventCelebration); n != 1 {
		t.Errorf("expected one celebration event, got %d", n)
	}
	if ends != 1 {
		t.Errorf("expected one session end, got %d", ends)
	}
}

func TestController_CelebrationWaitsForCamera(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WinStackCount = 1
	cam := &fakeCamera{settleAfter: 1000}
	sp := &fakeSpawner{}
	c := New(cfg, Hooks{Camera: cam, Spawner: sp}, nil, nil)

	_, ev := landOnTop(c, 1, 0)
	c.Submit(ev)
	for i := 0; i < 100; i++ {
		c.Tick(Input{}, dt)
	}

	if c.Outcome() != Won {
		t.Fatalf("expected won, got %s", c.Outcome())
	}
	if len(sp.celebration) != 0 {
		t.Error("celebration must wait for the camera to settle")
	}
}

func TestController_TransitionTable(t *testing.T) {
	tests := []struct {
		from, to Outcome
		want     bool
	}{
		{InProgress, Lost, true},
		{InProgress, Won, true},
		{Lost, Won, false},
		{Won, Lost, false},
		{Lost, InProgress, false},
		{Won, InProgress, false},
		{InProgress, InProgress, false},
	}
	for _, tc := range tests {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestController_TeleportAndReset(t *testing.T) {
	q := event.NewQueue[event.GameEvent]()
	c := New(DefaultConfig(), Hooks{}, q, nil)

	b1, ev1 := landOnTop(c, 1, 0)
	c.TryAttach(ev1)
	b2, ev2 := landOnTop(c, 2, 0.2)
	c.TryAttach(ev2)

	rel := b2.pos.Sub(b1.pos)
	if !c.TeleportStack(mgl32.Vec3{5, 5, 5}) {
		t.Fatal("teleport should succeed")
	}
	if !b2.pos.Sub(b1.pos).ApproxEqualThreshold(rel, 1e-5) {
		t.Error("teleport must preserve relative positions")
	}

	c.Reset()
	if c.StackCount() != 0 || c.Outcome() != InProgress {
		t.Errorf("reset should start a fresh session, count=%d outcome=%s", c.StackCount(), c.Outcome())
	}
	if b1.frozen || b2.frozen {
		t.Error("reset should unfreeze former members")
	}
	if c.Snapshot().Tick != 0 || c.Snapshot().Elapsed != 0 {
		t.Error("reset should rewind session time")
	}

	events := q.Consume()
	if countEvents(events, event.EventTeleport) != 1 || countEvents(events, event.EventReset) != 1 {
		t.Errorf("expected teleport and reset events, got %v", events)
	}
}

func TestController_PauseFreezesTicks(t *testing.T) {
	c := New(DefaultConfig(), Hooks{}, nil, nil)
	c.Tick(Input{}, dt)
	c.Pause()

	_, ev := landOnTop(c, 1, 0)
	c.Submit(ev)
	before := c.Snapshot()
	after := c.Tick(Input{Axis: 1}, dt)

	if after.Tick != before.Tick || after.Count != 0 {
		t.Error("paused tick must be a no-op")
	}

	c.Resume()
	if c.Tick(Input{}, dt).Count != 1 {
		t.Error("queued collision should drain after resume")
	}
}
