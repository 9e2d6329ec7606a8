package engine

import (
	"reflect"
	"testing"
	"time"
)

func TestScheduler_FiresOnceWhenDue(t *testing.T) {
	s := NewScheduler()
	count := 0
	s.After(time.Second, "grace", func() { count++ })

	if n := s.AdvanceTo(999 * time.Millisecond); n != 0 || count != 0 {
		t.Fatalf("fired early: n=%d count=%d", n, count)
	}
	if n := s.AdvanceTo(time.Second); n != 1 || count != 1 {
		t.Fatalf("expected one firing at due time, n=%d count=%d", n, count)
	}
	s.AdvanceTo(10 * time.Second)
	if count != 1 {
		t.Errorf("single-shot action fired %d times", count)
	}
	if len(s.Pending()) != 0 {
		t.Errorf("expected nothing pending, got %v", s.Pending())
	}
}

func TestScheduler_OrderAndChaining(t *testing.T) {
	s := NewScheduler()
	var order []string

	s.After(2*time.Second, "b", func() { order = append(order, "b") })
	s.After(1*time.Second, "a", func() {
		order = append(order, "a")
		s.After(0, "a-chained", func() { order = append(order, "a-chained") })
	})
	s.After(2*time.Second, "c", func() { order = append(order, "c") })

	s.AdvanceTo(3 * time.Second)

	want := []string{"a", "a-chained", "b", "c"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("got %v, want %v", order, want)
	}
}

func TestScheduler_ChainedDelayStartsAtParentDue(t *testing.T) {
	s := NewScheduler()
	var firedAt []time.Duration

	s.After(time.Second, "parent", func() {
		firedAt = append(firedAt, s.Now())
		s.After(500*time.Millisecond, "child", func() { firedAt = append(firedAt, s.Now()) })
	})

	// One large step covers both the parent and the child due times
	if n := s.AdvanceTo(2 * time.Second); n != 2 {
		t.Fatalf("expected parent and child to fire, got %d", n)
	}
	want := []time.Duration{time.Second, 1500 * time.Millisecond}
	if !reflect.DeepEqual(firedAt, want) {
		t.Errorf("fired at %v, want %v", firedAt, want)
	}
	if s.Now() != 2*time.Second {
		t.Errorf("scheduler time should settle at the target, got %v", s.Now())
	}
}

func TestScheduler_SyncTimesNewActionsFromNow(t *testing.T) {
	s := NewScheduler()
	s.AdvanceTo(984 * time.Millisecond)
	s.Sync(time.Second)

	fired := false
	s.After(time.Second, "grace", func() { fired = true })

	if s.AdvanceTo(1984 * time.Millisecond); fired {
		t.Fatal("delay measured from the previous step")
	}
	if s.AdvanceTo(2 * time.Second); !fired {
		t.Fatal("did not fire once the full delay passed")
	}

	s.Sync(0)
	if s.Now() != 2*time.Second {
		t.Errorf("sync moved time backwards to %v", s.Now())
	}
}

func TestScheduler_DelayIsRelativeToNow(t *testing.T) {
	s := NewScheduler()
	s.AdvanceTo(5 * time.Second)

	fired := false
	s.After(time.Second, "late", func() { fired = true })

	s.AdvanceTo(5500 * time.Millisecond)
	if fired {
		t.Fatal("fired before delay elapsed")
	}
	s.AdvanceTo(6 * time.Second)
	if !fired {
		t.Fatal("did not fire after delay")
	}

	// Time never runs backwards
	s.AdvanceTo(time.Second)
	if s.Now() != 6*time.Second {
		t.Errorf("scheduler time moved backwards to %v", s.Now())
	}
}

func TestScheduler_Reset(t *testing.T) {
	s := NewScheduler()
	fired := false
	s.After(time.Second, "end", func() { fired = true })

	s.Reset()
	s.AdvanceTo(time.Minute)

	if fired {
		t.Error("reset must drop pending actions")
	}
}

func TestGameClock_Pause(t *testing.T) {
	c := NewGameClock()
	c.Advance(16 * time.Millisecond)
	c.Pause()
	c.Advance(time.Second)

	if c.Elapsed() != 16*time.Millisecond {
		t.Errorf("paused clock advanced to %v", c.Elapsed())
	}

	c.Resume()
	c.Advance(4 * time.Millisecond)
	if c.Elapsed() != 20*time.Millisecond || c.Ticks() != 2 {
		t.Errorf("unexpected elapsed %v ticks %d", c.Elapsed(), c.Ticks())
	}

	c.Reset()
	if c.Elapsed() != 0 || c.IsPaused() {
		t.Error("reset should zero and unpause")
	}
}
