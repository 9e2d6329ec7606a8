// Package stability turns accumulated stack imbalance into a lateral wobble
package stability

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wobble-tower/parameter"
)

// State is the simulator output for one tick
type State struct {
	TotalOffset float32    // Sum of |offset.x| over the stack
	Amplitude   float32    // Curve-evaluated envelope
	Phase       float32    // elapsed * frequency, radians
	Wobble      mgl32.Vec3 // (sin(Phase) * Amplitude, 0, 0)
}

// Config holds the oscillator tunables
type Config struct {
	Frequency float32 // Radians per second
	Curve     Curve
}

// DefaultConfig returns the stock oscillator: linear (0,0)->(5,0.2) at 2 rad/s
func DefaultConfig() Config {
	return Config{
		Frequency: parameter.WobbleFrequency,
		Curve:     Linear(parameter.WobbleCurveMaxOffset, parameter.WobbleCurveMaxAmplitude),
	}
}

// Simulator is an oscillator whose amplitude follows the accumulated offset
type Simulator struct {
	cfg     Config
	settled bool
	last    State
}

// NewSimulator creates a simulator
func NewSimulator(cfg Config) *Simulator {
	return &Simulator{cfg: cfg}
}

// Step computes amplitude and wobble for totalOffset at elapsed session time
func (s *Simulator) Step(totalOffset float32, elapsed time.Duration) State {
	phase := float32(elapsed.Seconds()) * s.cfg.Frequency

	st := State{
		TotalOffset: totalOffset,
		Phase:       phase,
	}
	if !s.settled {
		st.Amplitude = s.cfg.Curve.Evaluate(totalOffset)
		st.Wobble = mgl32.Vec3{math32.Sin(phase) * st.Amplitude, 0, 0}
	}

	s.last = st
	return st
}

// Settle forces amplitude and wobble to zero for every later step
func (s *Simulator) Settle() {
	s.settled = true
	s.last.Amplitude = 0
	s.last.Wobble = mgl32.Vec3{}
}

// Settled reports whether Settle was called
func (s *Simulator) Settled() bool {
	return s.settled
}

// Last returns the most recent state
func (s *Simulator) Last() State {
	return s.last
}

// Reset clears the settled flag and last state for a new session
func (s *Simulator) Reset() {
	s.settled = false
	s.last = State{}
}
