// Package world is a small kinematic world: cubes fall under gravity and report contacts with the platform and the stack
package world

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wobble-tower/snap"
)

// landingSlack is how far below a surface's top a body's previous bottom may sit and still count as landing on it
const landingSlack = 1e-3

// CollisionSink receives contacts produced during Step
type CollisionSink interface {
	Submit(ev snap.CollisionEvent)
}

// World integrates free bodies and reports their contacts
// Not safe for concurrent use; drive it from the simulation goroutine
type World struct {
	cfg     Config
	pool    *Pool
	spawner *Spawner
	sink    CollisionSink

	contacts uint64
	culled   uint64
}

// New creates a world that reports contacts to sink
func New(cfg Config, sink CollisionSink) *World {
	pool := NewPool(cfg.Spawn.PoolSize, cfg.BodySize)
	return &World{
		cfg:     cfg,
		pool:    pool,
		spawner: NewSpawner(cfg.Spawn, pool),
		sink:    sink,
	}
}

// Spawner returns the body source; it implements session.Spawner
func (w *World) Spawner() *Spawner { return w.spawner }

// Pool returns the body pool
func (w *World) Pool() *Pool { return w.pool }

// Config returns the world tunables
func (w *World) Config() Config { return w.cfg }

// Bodies returns every active body
func (w *World) Bodies() []*Body { return w.pool.Active() }

// Contacts returns the number of contacts reported so far
func (w *World) Contacts() uint64 { return w.contacts }

// Culled returns the number of bodies returned to the pool by the kill plane
func (w *World) Culled() uint64 { return w.culled }

// Drop activates a body at pos outside the spawner schedule
func (w *World) Drop(pos mgl32.Vec3) *Body {
	return w.pool.Acquire(pos)
}

// PlatformBounds returns the platform box centered at pos
func (w *World) PlatformBounds(pos mgl32.Vec3) cube.BBox {
	hw, hh := w.cfg.PlatformWidth/2, w.cfg.PlatformHeight/2
	return cube.Box(
		pos.X()-hw, pos.Y()-hh, pos.Z()-hw,
		pos.X()+hw, pos.Y()+hh, pos.Z()+hw,
	)
}

// Step spawns due bodies, integrates free bodies over dt and reports contacts
// platform is the platform center for this step
func (w *World) Step(dt time.Duration, platform mgl32.Vec3) {
	w.spawner.Advance(dt)

	secs := float32(dt.Seconds())
	if secs <= 0 {
		return
	}

	active := w.pool.Active()
	platformBox := w.PlatformBounds(platform)

	for _, b := range active {
		if b.frozen || b.resting {
			continue
		}

		prev := b.Bounds()
		b.vel[1] = math32.Max(b.vel[1]-w.cfg.Gravity*secs, -w.cfg.TerminalVelocity)
		b.pos = b.pos.Add(b.vel.Mul(secs))

		if b.pos.Y() < w.cfg.KillPlaneY {
			w.pool.Release(b)
			w.culled++
			continue
		}
		if b.tumbling {
			continue
		}

		next := b.Bounds()
		w.resolve(b, prev, next, platformBox, active)
	}
}

// resolve finds the first surface the body moved into and reports the contact
func (w *World) resolve(b *Body, prev, next, platformBox cube.BBox, active []*Body) {
	if next.IntersectsWith(platformBox) {
		w.contact(b, prev, platformBox, snap.CategoryPlatform)
		return
	}
	for _, o := range active {
		if o == b || !o.frozen {
			continue
		}
		if bb := o.Bounds(); next.IntersectsWith(bb) {
			w.contact(b, prev, bb, snap.CategoryFallingBody)
			return
		}
	}
}

func (w *World) contact(b *Body, prev, surface cube.BBox, partner snap.Category) {
	var ev snap.CollisionEvent
	ev.Body = b
	ev.Partner = partner

	top := surface.Max().Y()
	if prev.Min().Y() >= top-landingSlack {
		// Landed on top: park on the surface and report an upward contact
		b.pos[1] = top + b.half
		b.vel = mgl32.Vec3{}
		ev.Point = mgl32.Vec3{
			mgl32.Clamp(b.pos.X(), surface.Min().X(), surface.Max().X()),
			top,
			mgl32.Clamp(b.pos.Z(), surface.Min().Z(), surface.Max().Z()),
		}
		ev.Normal = mgl32.Vec3{0, 1, 0}
		if b.celebration {
			b.resting = true
		} else {
			b.tumbling = true
		}
	} else {
		// Side contact: the body keeps falling past the surface
		side := float32(1)
		if b.pos.X() < (surface.Min().X()+surface.Max().X())/2 {
			side = -1
		}
		edge := surface.Max().X()
		if side < 0 {
			edge = surface.Min().X()
		}
		ev.Point = mgl32.Vec3{edge, b.pos.Y(), b.pos.Z()}
		ev.Normal = mgl32.Vec3{side, 0, 0}
		b.tumbling = true
	}

	w.contacts++
	if w.sink != nil {
		w.sink.Submit(ev)
	}
}

// Reset returns every body to the pool and restarts the spawner
func (w *World) Reset() {
	w.pool.ReleaseAll()
	w.spawner.Reset()
	w.contacts = 0
	w.culled = 0
}
