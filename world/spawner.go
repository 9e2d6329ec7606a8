package world

import (
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Spawner drops a body at a random x every interval until halted
type Spawner struct {
	cfg  SpawnConfig
	pool *Pool
	rng  *rand.Rand

	acc    time.Duration
	halted atomic.Bool

	pending []mgl32.Vec3 // Celebration spawns requested outside Advance
}

// NewSpawner creates a spawner drawing bodies from pool
func NewSpawner(cfg SpawnConfig, pool *Pool) *Spawner {
	return &Spawner{
		cfg:  cfg,
		pool: pool,
		rng:  rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)),
	}
}

// Advance accumulates game time and returns the bodies spawned this step
func (s *Spawner) Advance(dt time.Duration) []*Body {
	var spawned []*Body

	for _, pos := range s.pending {
		b := s.pool.Acquire(pos)
		b.celebration = true
		spawned = append(spawned, b)
	}
	s.pending = s.pending[:0]

	if s.halted.Load() || s.cfg.Interval <= 0 {
		return spawned
	}

	s.acc += dt
	for s.acc >= s.cfg.Interval {
		s.acc -= s.cfg.Interval
		x := (s.rng.Float32()*2 - 1) * s.cfg.XRange
		spawned = append(spawned, s.pool.Acquire(mgl32.Vec3{x, s.cfg.SpawnY, 0}))
	}
	return spawned
}

// Halt stops periodic spawning; celebration spawns still go through
func (s *Spawner) Halt() {
	s.halted.Store(true)
}

// Halted reports whether periodic spawning stopped
func (s *Spawner) Halted() bool {
	return s.halted.Load()
}

// SpawnCelebration queues a single celebratory body for the next Advance
func (s *Spawner) SpawnCelebration(pos mgl32.Vec3) {
	s.pending = append(s.pending, pos)
}

// Reset restarts the interval and the position sequence
func (s *Spawner) Reset() {
	s.acc = 0
	s.pending = s.pending[:0]
	s.halted.Store(false)
	s.rng = rand.New(rand.NewPCG(s.cfg.Seed, s.cfg.Seed))
}
