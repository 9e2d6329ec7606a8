// Package snap decides whether a falling body may attach to the stack
package snap

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wobble-tower/parameter"
	"github.com/lixenwraith/wobble-tower/stack"
)

// Category classifies the collision partner
type Category uint8

const (
	CategoryNone Category = iota
	CategoryFallingBody
	CategoryPlatform
)

func (c Category) String() string {
	switch c {
	case CategoryFallingBody:
		return "falling_body"
	case CategoryPlatform:
		return "platform"
	default:
		return "none"
	}
}

// CollisionEvent is one contact-begin report from the physics step
type CollisionEvent struct {
	Body    stack.Body // Candidate that may attach
	Partner Category
	Point   mgl32.Vec3 // First contact point, world space
	Normal  mgl32.Vec3 // Contact normal pointing from partner toward candidate
}

// Reason explains a decision; ReasonAccepted for attaches
type Reason uint8

const (
	ReasonAccepted Reason = iota
	ReasonAlreadyAttached
	ReasonNotFromAbove
	ReasonOffCenter
	ReasonBelowTop
	ReasonPlatformOccupied
	ReasonUnknownPartner
	ReasonTerminal
)

var reasonNames = [...]string{
	ReasonAccepted:         "accepted",
	ReasonAlreadyAttached:  "already_attached",
	ReasonNotFromAbove:     "not_from_above",
	ReasonOffCenter:        "off_center",
	ReasonBelowTop:         "below_top",
	ReasonPlatformOccupied: "platform_occupied",
	ReasonUnknownPartner:   "unknown_partner",
	ReasonTerminal:         "terminal",
}

func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// Audible reports whether the rejection came from a body settling on a surface from above
func (r Reason) Audible() bool {
	return r == ReasonOffCenter || r == ReasonBelowTop || r == ReasonPlatformOccupied
}

// Decision is the outcome of TryAttach
// Member is only valid when Accepted
type Decision struct {
	Accepted bool
	Reason   Reason
	Member   stack.Member
}

// Rejected builds a rejecting decision
func Rejected(reason Reason) Decision {
	return Decision{Reason: reason}
}

// PlatformLocator reports the platform's current position
// ok is false when no platform exists; attaches then record a zero offset
type PlatformLocator interface {
	PlatformPosition() (pos mgl32.Vec3, ok bool)
}

// Config holds the snap tunables
type Config struct {
	CollisionTolerance float32
	MinUpwardNormal    float32
	CentralContact     bool
	MarginFactor       float32
}

// DefaultConfig returns the stock snap tunables
func DefaultConfig() Config {
	return Config{
		CollisionTolerance: parameter.CollisionTolerance,
		MinUpwardNormal:    parameter.MinUpwardNormal,
		CentralContact:     parameter.CentralContactEnabled,
		MarginFactor:       parameter.CentralContactMargin,
	}
}

// Engine applies the attach rules in a fixed order; the first failing rule rejects
type Engine struct {
	cfg Config
}

// NewEngine creates a decision engine
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine's tunables
func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluate runs the rejection rules without mutating the registry
func (e *Engine) Evaluate(ev CollisionEvent, reg *stack.Registry) Reason {
	if reg.Contains(ev.Body.ID()) {
		return ReasonAlreadyAttached
	}

	if ev.Partner != CategoryFallingBody && ev.Partner != CategoryPlatform {
		return ReasonUnknownPartner
	}

	if !(upward(ev.Normal) > e.cfg.MinUpwardNormal) {
		return ReasonNotFromAbove
	}

	if e.cfg.CentralContact && !e.central(ev) {
		return ReasonOffCenter
	}

	if reg.Len() > 0 {
		if ev.Partner == CategoryPlatform {
			return ReasonPlatformOccupied
		}
		if ev.Point.Y() < stack.HighestPoint(reg)-e.cfg.CollisionTolerance {
			return ReasonBelowTop
		}
	}

	return ReasonAccepted
}

// TryAttach evaluates ev and, on success, freezes the body and appends it to reg
// A rejected event leaves reg and the body untouched
func (e *Engine) TryAttach(ev CollisionEvent, reg *stack.Registry, platform PlatformLocator) Decision {
	if reason := e.Evaluate(ev, reg); reason != ReasonAccepted {
		return Rejected(reason)
	}

	var offset mgl32.Vec3
	if platform != nil {
		if p, ok := platform.PlatformPosition(); ok {
			pos := ev.Body.Position()
			offset = mgl32.Vec3{pos.X() - p.X(), 0, pos.Z() - p.Z()}
		}
	}

	if !reg.Add(ev.Body, offset) {
		return Rejected(ReasonAlreadyAttached)
	}

	m, _ := reg.Get(ev.Body.ID())
	return Decision{Accepted: true, Reason: ReasonAccepted, Member: m}
}

// central checks the contact lies within MarginFactor of the candidate's half extent on x and z
func (e *Engine) central(ev CollisionEvent) bool {
	bb := ev.Body.Bounds()
	min, max := bb.Min(), bb.Max()
	center := min.Add(max).Mul(0.5)

	halfX := (max.X() - min.X()) / 2
	halfZ := (max.Z() - min.Z()) / 2

	if math32.Abs(ev.Point.X()-center.X()) > e.cfg.MarginFactor*halfX {
		return false
	}
	if math32.Abs(ev.Point.Z()-center.Z()) > e.cfg.MarginFactor*halfZ {
		return false
	}
	return true
}

// upward returns the vertical component of the unit-normalized normal
func upward(n mgl32.Vec3) float32 {
	l := n.Len()
	if l == 0 {
		return 0
	}
	return n.Y() / l
}
