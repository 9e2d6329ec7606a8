package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wobble-tower/stack"
)

// Pool recycles bodies: inactive bodies are reused before new ones are allocated
// Every activation receives a fresh BodyID so stale references never alias a new body
type Pool struct {
	bodies []*Body
	half   float32
	nextID stack.BodyID
}

// NewPool pre-allocates size inactive bodies with the given edge length
func NewPool(size int, edge float32) *Pool {
	p := &Pool{
		bodies: make([]*Body, 0, size),
		half:   edge / 2,
	}
	for i := 0; i < size; i++ {
		p.bodies = append(p.bodies, &Body{half: p.half})
	}
	return p
}

// Acquire activates a body at pos
func (p *Pool) Acquire(pos mgl32.Vec3) *Body {
	var b *Body
	for _, candidate := range p.bodies {
		if !candidate.active {
			b = candidate
			break
		}
	}
	if b == nil {
		b = &Body{half: p.half}
		p.bodies = append(p.bodies, b)
	}

	p.nextID++
	*b = Body{
		id:     p.nextID,
		pos:    pos,
		half:   p.half,
		active: true,
	}
	return b
}

// Release returns a body to the pool
func (p *Pool) Release(b *Body) {
	b.active = false
	b.frozen = false
	b.vel = mgl32.Vec3{}
}

// ReleaseAll deactivates every body
func (p *Pool) ReleaseAll() {
	for _, b := range p.bodies {
		p.Release(b)
	}
}

// Active returns active bodies in pool order
func (p *Pool) Active() []*Body {
	out := make([]*Body, 0, len(p.bodies))
	for _, b := range p.bodies {
		if b.active {
			out = append(out, b)
		}
	}
	return out
}

// ActiveCount returns the number of live bodies
func (p *Pool) ActiveCount() int {
	n := 0
	for _, b := range p.bodies {
		if b.active {
			n++
		}
	}
	return n
}

// Cap returns the number of bodies ever allocated
func (p *Pool) Cap() int {
	return len(p.bodies)
}
