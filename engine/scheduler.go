package engine

import "time"

// TimerID identifies a scheduled action
type TimerID uint64

type timer struct {
	id    TimerID
	due   time.Duration
	name  string
	fn    func()
	fired bool
}

// Scheduler runs single-shot deferred actions against game time
// Actions cannot be cancelled once scheduled; Reset drops everything for a new session
// Not safe for concurrent use; owned by the tick loop
type Scheduler struct {
	now    time.Duration
	nextID TimerID
	timers []*timer
}

// NewScheduler creates an empty scheduler at time zero
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After schedules fn to run once delay has passed from the current scheduler time
// name is only used for diagnostics
func (s *Scheduler) After(delay time.Duration, name string, fn func()) TimerID {
	s.nextID++
	s.timers = append(s.timers, &timer{
		id:   s.nextID,
		due:  s.now + delay,
		name: name,
		fn:   fn,
	})
	return s.nextID
}

// Sync moves scheduler time forward to now without firing anything
// Actions scheduled after Sync are timed from now
func (s *Scheduler) Sync(now time.Duration) {
	if now > s.now {
		s.now = now
	}
}

// AdvanceTo moves scheduler time to now and fires every due action in due order
// Each action runs with scheduler time set to its own due time, so actions it schedules are timed from there
// Ties fire in scheduling order
func (s *Scheduler) AdvanceTo(now time.Duration) int {
	target := max(now, s.now)

	fired := 0
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		s.now = t.due
		t.fired = true
		t.fn()
		fired++
	}
	s.now = target
	return fired
}

// nextDue drops fired timers and returns the earliest unfired timer due by target
func (s *Scheduler) nextDue(target time.Duration) *timer {
	var next *timer
	kept := s.timers[:0]
	for _, t := range s.timers {
		if t.fired {
			continue
		}
		kept = append(kept, t)
		if t.due > target {
			continue
		}
		if next == nil || t.due < next.due || (t.due == next.due && t.id < next.id) {
			next = t
		}
	}
	s.timers = kept
	return next
}

// Pending returns the names of actions not yet fired
func (s *Scheduler) Pending() []string {
	names := make([]string, 0, len(s.timers))
	for _, t := range s.timers {
		if !t.fired {
			names = append(names, t.name)
		}
	}
	return names
}

// Now returns the scheduler's current time
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Reset drops all pending actions and rewinds to zero
func (s *Scheduler) Reset() {
	s.now = 0
	s.timers = nil
}
