package engine

import "time"

// GameClock is session time advanced explicitly by the tick loop
// Pausing freezes elapsed time; Advance calls while paused are ignored
type GameClock struct {
	elapsed time.Duration
	paused  bool
	ticks   uint64
}

// NewGameClock creates a clock at zero elapsed time
func NewGameClock() *GameClock {
	return &GameClock{}
}

// Advance adds dt to elapsed time and returns the new elapsed value
func (c *GameClock) Advance(dt time.Duration) time.Duration {
	if c.paused || dt <= 0 {
		return c.elapsed
	}
	c.elapsed += dt
	c.ticks++
	return c.elapsed
}

// Elapsed returns session time since the last reset
func (c *GameClock) Elapsed() time.Duration {
	return c.elapsed
}

// Ticks returns the number of non-paused advances
func (c *GameClock) Ticks() uint64 {
	return c.ticks
}

// Pause stops time advancement
func (c *GameClock) Pause() {
	c.paused = true
}

// Resume continues time advancement
func (c *GameClock) Resume() {
	c.paused = false
}

// IsPaused returns current pause state
func (c *GameClock) IsPaused() bool {
	return c.paused
}

// Reset returns the clock to zero, unpaused
func (c *GameClock) Reset() {
	*c = GameClock{}
}
