package stack

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestHighestPoint_Empty(t *testing.T) {
	r := NewRegistry()
	h := HighestPoint(r)
	if !IsEmptyHeight(h) {
		t.Errorf("expected empty sentinel, got %v", h)
	}
	if r.Len() != 0 {
		t.Errorf("expected zero count, got %d", r.Len())
	}
}

func TestHighestPoint_MaxTop(t *testing.T) {
	r := NewRegistry()
	r.Add(newTestBody(1, 0, 0.5, 0), mgl32.Vec3{})
	r.Add(newTestBody(2, 0, 2.0, 0), mgl32.Vec3{})
	// Lower body added last still must not lower the result
	r.Add(newTestBody(3, 0, 1.0, 0), mgl32.Vec3{})

	if h := HighestPoint(r); h != 2.5 {
		t.Errorf("expected highest point 2.5, got %v", h)
	}
}

func TestTotalOffsetMagnitude(t *testing.T) {
	r := NewRegistry()
	offsets := []mgl32.Vec3{{0.5, 0, 3}, {-1.25, 0, -2}, {0, 0, 1}, {0.25, 0, 0}}
	for i, off := range offsets {
		r.Add(newTestBody(BodyID(i+1), 0, float32(i), 0), off)
	}

	// z never contributes
	if got := TotalOffsetMagnitude(r); got != 2.0 {
		t.Errorf("expected total 2.0, got %v", got)
	}
}

func TestReproject_RoundTrip(t *testing.T) {
	r := NewRegistry()
	bodies := []*testBody{
		newTestBody(1, 0, 0.5, 0),
		newTestBody(2, 0, 1.5, 0),
	}
	offsets := []mgl32.Vec3{{0.3, 0, -0.1}, {-0.6, 0, 0.4}}
	for i, b := range bodies {
		r.Add(b, offsets[i])
	}

	platform := mgl32.Vec3{1.5, -2, 0.25}
	wobble := mgl32.Vec3{0.05, 0, 0}

	for pass := 0; pass < 3; pass++ {
		Reproject(r, platform, wobble)
		for i, b := range bodies {
			wantX := platform.X() + offsets[i].X() + wobble.X()
			wantZ := platform.Z() + offsets[i].Z()
			if b.pos.X() != wantX || b.pos.Z() != wantZ {
				t.Errorf("pass %d body %d: got (%v, %v), want (%v, %v)", pass, i, b.pos.X(), b.pos.Z(), wantX, wantZ)
			}
		}
	}

	if bodies[0].pos.Y() != 0.5 || bodies[1].pos.Y() != 1.5 {
		t.Error("reprojection must not touch y")
	}
}
