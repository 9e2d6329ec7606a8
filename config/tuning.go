// Package config loads session and world tunables from a YAML document checked against an embedded JSON Schema
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/wobble-tower/parameter"
	"github.com/lixenwraith/wobble-tower/session"
	"github.com/lixenwraith/wobble-tower/snap"
	"github.com/lixenwraith/wobble-tower/stability"
	"github.com/lixenwraith/wobble-tower/world"
)

// ErrInvalid marks a tuning document rejected by the schema or by semantic checks
var ErrInvalid = errors.New("invalid tuning")

//go:embed tuning.schema.json
var schemaSource string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("tuning.schema.json", schemaSource)
	})
	return schema, schemaErr
}

type SnapTuning struct {
	CollisionTolerance float32 `yaml:"collision_tolerance" json:"collision_tolerance"`
	MinUpwardNormal    float32 `yaml:"min_upward_normal" json:"min_upward_normal"`
	CentralContact     bool    `yaml:"central_contact" json:"central_contact"`
	CentralMargin      float32 `yaml:"central_margin" json:"central_margin"`
}

type StabilityTuning struct {
	Frequency float32           `yaml:"frequency" json:"frequency"`
	Curve     []stability.Point `yaml:"curve" json:"curve"`
}

type SessionTuning struct {
	LoseThreshold float32       `yaml:"lose_threshold" json:"lose_threshold"`
	WinStackCount int           `yaml:"win_stack_count" json:"win_stack_count"`
	GraceDelay    time.Duration `yaml:"grace_delay" json:"grace_delay"`
	WinWait       time.Duration `yaml:"win_wait" json:"win_wait"`
}

type PlatformTuning struct {
	MoveSpeed     float32 `yaml:"move_speed" json:"move_speed"`
	Boundary      float32 `yaml:"boundary" json:"boundary"`
	WinCameraLift float32 `yaml:"win_camera_lift" json:"win_camera_lift"`
}

type SpawnerTuning struct {
	Interval time.Duration `yaml:"interval" json:"interval"`
	XRange   float32       `yaml:"x_range" json:"x_range"`
	SpawnY   float32       `yaml:"spawn_y" json:"spawn_y"`
	PoolSize int           `yaml:"pool_size" json:"pool_size"`
	Seed     uint64        `yaml:"seed" json:"seed"`
}

type WorldTuning struct {
	Gravity          float32 `yaml:"gravity" json:"gravity"`
	TerminalVelocity float32 `yaml:"terminal_velocity" json:"terminal_velocity"`
	KillPlaneY       float32 `yaml:"kill_plane_y" json:"kill_plane_y"`
}

// Tuning is the full tunable surface of one session
type Tuning struct {
	Snap      SnapTuning      `yaml:"snap" json:"snap"`
	Stability StabilityTuning `yaml:"stability" json:"stability"`
	Session   SessionTuning   `yaml:"session" json:"session"`
	Platform  PlatformTuning  `yaml:"platform" json:"platform"`
	Spawner   SpawnerTuning   `yaml:"spawner" json:"spawner"`
	World     WorldTuning     `yaml:"world" json:"world"`
}

// Default returns the stock tuning
func Default() Tuning {
	return Tuning{
		Snap: SnapTuning{
			CollisionTolerance: parameter.CollisionTolerance,
			MinUpwardNormal:    parameter.MinUpwardNormal,
			CentralContact:     parameter.CentralContactEnabled,
			CentralMargin:      parameter.CentralContactMargin,
		},
		Stability: StabilityTuning{
			Frequency: parameter.WobbleFrequency,
			Curve: []stability.Point{
				{Offset: 0, Amplitude: 0},
				{Offset: parameter.WobbleCurveMaxOffset, Amplitude: parameter.WobbleCurveMaxAmplitude},
			},
		},
		Session: SessionTuning{
			LoseThreshold: parameter.LoseThreshold,
			WinStackCount: parameter.WinStackCount,
			GraceDelay:    parameter.GraceDelay,
			WinWait:       parameter.WinWait,
		},
		Platform: PlatformTuning{
			MoveSpeed:     parameter.PlatformMoveSpeed,
			Boundary:      parameter.PlatformBoundary,
			WinCameraLift: parameter.WinCameraHeight,
		},
		Spawner: SpawnerTuning{
			Interval: parameter.SpawnInterval,
			XRange:   parameter.SpawnXRange,
			SpawnY:   parameter.SpawnY,
			PoolSize: parameter.PoolSize,
			Seed:     parameter.SpawnSeed,
		},
		World: WorldTuning{
			Gravity:          parameter.Gravity,
			TerminalVelocity: parameter.TerminalVelocity,
			KillPlaneY:       parameter.KillPlaneY,
		},
	}
}

// Load reads and validates a tuning file; missing keys keep their defaults
func Load(path string) (Tuning, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning: %w", err)
	}
	t, err := Parse(raw)
	if err != nil {
		return Tuning{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse validates raw YAML against the schema and overlays it on Default
func Parse(raw []byte) (Tuning, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Tuning{}, fmt.Errorf("decode tuning: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	if err := validateSchema(doc); err != nil {
		return Tuning{}, err
	}

	t := Default()
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Tuning{}, fmt.Errorf("decode tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// validateSchema normalizes the YAML tree to JSON values before validation
func validateSchema(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile tuning schema: %w", err)
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Validate runs the semantic checks the schema cannot express
func (t Tuning) Validate() error {
	if _, err := stability.NewCurve(t.Stability.Curve...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if t.Session.LoseThreshold <= 0 {
		return fmt.Errorf("%w: lose_threshold must be positive", ErrInvalid)
	}
	if t.Session.WinStackCount < 1 {
		return fmt.Errorf("%w: win_stack_count must be at least 1", ErrInvalid)
	}
	if t.Session.GraceDelay < 0 || t.Session.WinWait < 0 || t.Spawner.Interval < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalid)
	}
	if t.Spawner.SpawnY <= t.World.KillPlaneY {
		return fmt.Errorf("%w: spawn_y must be above kill_plane_y", ErrInvalid)
	}
	return nil
}

// Encode renders the tuning as YAML
func (t Tuning) Encode() ([]byte, error) {
	return yaml.Marshal(t)
}

// SessionConfig maps the tuning onto the controller configuration
func (t Tuning) SessionConfig() session.Config {
	cfg := session.DefaultConfig()
	cfg.Snap = snap.Config{
		CollisionTolerance: t.Snap.CollisionTolerance,
		MinUpwardNormal:    t.Snap.MinUpwardNormal,
		CentralContact:     t.Snap.CentralContact,
		MarginFactor:       t.Snap.CentralMargin,
	}
	cfg.Stability = stability.Config{
		Frequency: t.Stability.Frequency,
		Curve:     stability.MustCurve(t.Stability.Curve...),
	}
	cfg.LoseThreshold = t.Session.LoseThreshold
	cfg.WinStackCount = t.Session.WinStackCount
	cfg.GraceDelay = t.Session.GraceDelay
	cfg.WinWait = t.Session.WinWait
	cfg.MoveSpeed = t.Platform.MoveSpeed
	cfg.Boundary = t.Platform.Boundary
	cfg.WinCameraLift = t.Platform.WinCameraLift
	cfg.PlatformStart = mgl32.Vec3{}
	return cfg
}

// WorldConfig maps the tuning onto the kinematic world configuration
func (t Tuning) WorldConfig() world.Config {
	cfg := world.DefaultConfig()
	cfg.Gravity = t.World.Gravity
	cfg.TerminalVelocity = t.World.TerminalVelocity
	cfg.KillPlaneY = t.World.KillPlaneY
	cfg.Spawn = world.SpawnConfig{
		Interval: t.Spawner.Interval,
		XRange:   t.Spawner.XRange,
		SpawnY:   t.Spawner.SpawnY,
		PoolSize: t.Spawner.PoolSize,
		Seed:     t.Spawner.Seed,
	}
	return cfg
}
