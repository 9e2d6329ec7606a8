package stability

import (
	"errors"
	"fmt"
	"sort"
)

// ErrCurve reports a response curve that is empty, unsorted or decreasing
var ErrCurve = errors.New("invalid response curve")

// Point is one breakpoint mapping total offset to amplitude
type Point struct {
	Offset    float32 `yaml:"offset" json:"offset"`
	Amplitude float32 `yaml:"amplitude" json:"amplitude"`
}

// Curve is a piecewise-linear, non-decreasing mapping from total offset to amplitude ceiling
// Inputs outside the breakpoint range clamp to the first/last amplitude
type Curve struct {
	points []Point
}

// NewCurve validates and copies the breakpoints
// Offsets must be strictly increasing and amplitudes non-decreasing
func NewCurve(points ...Point) (Curve, error) {
	if len(points) == 0 {
		return Curve{}, fmt.Errorf("%w: no breakpoints", ErrCurve)
	}

	ps := make([]Point, len(points))
	copy(ps, points)

	for i := 1; i < len(ps); i++ {
		if ps[i].Offset <= ps[i-1].Offset {
			return Curve{}, fmt.Errorf("%w: offset %v at index %d not above %v", ErrCurve, ps[i].Offset, i, ps[i-1].Offset)
		}
		if ps[i].Amplitude < ps[i-1].Amplitude {
			return Curve{}, fmt.Errorf("%w: amplitude decreases at index %d", ErrCurve, i)
		}
	}
	if ps[0].Amplitude < 0 {
		return Curve{}, fmt.Errorf("%w: negative amplitude", ErrCurve)
	}

	return Curve{points: ps}, nil
}

// MustCurve is NewCurve for static breakpoint sets; it panics on invalid input
func MustCurve(points ...Point) Curve {
	c, err := NewCurve(points...)
	if err != nil {
		panic(err)
	}
	return c
}

// Linear returns the two-point curve (0, 0) -> (maxOffset, maxAmplitude)
func Linear(maxOffset, maxAmplitude float32) Curve {
	return MustCurve(Point{0, 0}, Point{maxOffset, maxAmplitude})
}

// Points returns a copy of the breakpoints
func (c Curve) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

// Max returns the amplitude ceiling of the whole curve
func (c Curve) Max() float32 {
	if len(c.points) == 0 {
		return 0
	}
	return c.points[len(c.points)-1].Amplitude
}

// Evaluate returns the amplitude for total offset x
func (c Curve) Evaluate(x float32) float32 {
	n := len(c.points)
	if n == 0 {
		return 0
	}
	if x <= c.points[0].Offset {
		return c.points[0].Amplitude
	}
	if x >= c.points[n-1].Offset {
		return c.points[n-1].Amplitude
	}

	// First breakpoint strictly beyond x; guaranteed in (0, n-1]
	i := sort.Search(n, func(i int) bool { return c.points[i].Offset > x })
	p0, p1 := c.points[i-1], c.points[i]

	t := (x - p0.Offset) / (p1.Offset - p0.Offset)
	return p0.Amplitude + t*(p1.Amplitude-p0.Amplitude)
}
