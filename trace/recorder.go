package trace

import (
	"fmt"
	"io"
	"time"

	"github.com/lixenwraith/wobble-tower/game"
	"github.com/lixenwraith/wobble-tower/session"
)

// Recorder appends one entry per stepped tick of a game
type Recorder struct {
	w       *Writer
	pending bool // Reset happened since the last recorded tick
	ticks   uint64
}

// NewRecorder writes the header for g's tuning to dst
func NewRecorder(dst io.Writer, g *game.Game) (*Recorder, error) {
	w, err := NewWriter(dst)
	if err != nil {
		return nil, err
	}
	if err := w.Write(Header{Version: Version, Tuning: g.Tuning}); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return &Recorder{w: w}, nil
}

// MarkReset flags the next recorded tick as following a session reset
func (r *Recorder) MarkReset() {
	r.pending = true
}

// Record appends the tick just stepped with input in and dt
func (r *Recorder) Record(g *game.Game, in session.Input, dt time.Duration) error {
	s := g.Snapshot()
	e := Entry{
		Tick:    s.Tick,
		Reset:   r.pending,
		Axis:    in.Axis,
		DT:      dt,
		Digest:  Digest(g),
		Count:   s.Count,
		Outcome: s.Outcome.String(),
	}
	r.pending = false
	r.ticks++
	return r.w.Write(e)
}

// Ticks returns the number of recorded entries
func (r *Recorder) Ticks() uint64 { return r.ticks }

// Close finalizes the stream
func (r *Recorder) Close() error {
	return r.w.Close()
}
