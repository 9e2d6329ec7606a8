package stack

import (
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// Registry is the ordered set of attached bodies for one session
// Insertion order is attach order, which is bottom-to-top because attachment is gated by height
//
// Thread-Safety:
//   - Add/Clear: single writer (session tick)
//   - Reads: any goroutine, guarded by RWMutex
//
// Members are never removed individually; only Clear empties the registry
type Registry struct {
	mu      sync.RWMutex
	members *orderedmap.OrderedMap[BodyID, *Member]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		members: orderedmap.NewOrderedMap[BodyID, *Member](),
	}
}

// Add appends body with the given offset and freezes it
// Returns false without side effects if the body is already present
func (r *Registry) Add(body Body, offset mgl32.Vec3) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members.Get(body.ID()); ok {
		return false
	}

	body.SetFrozen(true)
	r.members.Set(body.ID(), &Member{
		Body:     body,
		Offset:   mgl32.Vec3{offset.X(), 0, offset.Z()},
		Attached: true,
	})
	return true
}

// Contains reports whether the body is attached
func (r *Registry) Contains(id BodyID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members.Get(id)
	return ok
}

// Get returns a copy of the member for id
func (r *Registry) Get(id BodyID) (Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members.Get(id)
	if !ok {
		return Member{}, false
	}
	return *m, true
}

// Len returns the number of attached bodies
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.members.Len()
}

// Each calls fn for every member bottom-to-top
// fn receives a copy; mutating it does not affect the registry
func (r *Registry) Each(fn func(m Member)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for el := r.members.Front(); el != nil; el = el.Next() {
		fn(*el.Value)
	}
}

// Members returns a snapshot of all members bottom-to-top
func (r *Registry) Members() []Member {
	out := make([]Member, 0, r.Len())
	r.Each(func(m Member) {
		out = append(out, m)
	})
	return out
}

// Top returns the most recently attached member
func (r *Registry) Top() (Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	el := r.members.Back()
	if el == nil {
		return Member{}, false
	}
	return *el.Value, true
}

// Release unfreezes every attached body so external physics resumes
// Membership and offsets are kept; the bodies remain attached for the session
func (r *Registry) Release() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for el := r.members.Front(); el != nil; el = el.Next() {
		el.Value.Body.SetFrozen(false)
	}
}

// Teleport moves the stack as a rigid group so the bottom member lands on target
// Relative member positions are preserved. Returns false on an empty registry
func (r *Registry) Teleport(target mgl32.Vec3) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bottom := r.members.Front()
	if bottom == nil {
		return false
	}

	delta := target.Sub(bottom.Value.Body.Position())
	for el := r.members.Front(); el != nil; el = el.Next() {
		b := el.Value.Body
		b.SetPosition(b.Position().Add(delta))
	}
	return true
}

// Clear empties the registry, unfreezing every member first
// This is the full session reset; it is the only way members leave
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for el := r.members.Front(); el != nil; el = el.Next() {
		el.Value.Body.SetFrozen(false)
	}
	r.members = orderedmap.NewOrderedMap[BodyID, *Member]()
}
