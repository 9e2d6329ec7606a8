package trace

import (
	"errors"
	"fmt"
	"io"

	"github.com/lixenwraith/wobble-tower/game"
	"github.com/lixenwraith/wobble-tower/session"
)

// Result summarizes a verified trace
type Result struct {
	Ticks   uint64
	Resets  int
	Count   int
	Outcome session.Outcome
}

// Verify replays src against a fresh game and checks every recorded digest
func Verify(src io.Reader) (Result, error) {
	var res Result

	r, err := NewReader(src)
	if err != nil {
		return res, err
	}
	defer r.Close()

	g := game.New(r.Header().Tuning)

	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, err
		}

		if e.Reset {
			g.Reset()
			res.Resets++
		}

		in := session.Input{Axis: e.Axis}
		snap := g.Step(in, e.DT)
		if snap.Tick != e.Tick {
			return res, fmt.Errorf("%w: tick %d replayed as %d", ErrDigestMismatch, e.Tick, snap.Tick)
		}
		if got := Digest(g); got != e.Digest {
			return res, fmt.Errorf("%w: tick %d: got=%s want=%s", ErrDigestMismatch, e.Tick, got, e.Digest)
		}

		res.Ticks++
		res.Count = snap.Count
		res.Outcome = snap.Outcome
	}
	return res, nil
}
