// Package audio synthesizes session cues with beep and plays them from outbound game events
package audio

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

// SoundType represents different sound effects
type SoundType int

const (
	SoundSnap      SoundType = iota // Body attached
	SoundReject                     // Upward contact refused
	SoundCollapse                   // Session lost
	SoundWin                        // Session won
	SoundCelebrate                  // Celebration body dropped
	soundTypeCount
)

var soundNames = [soundTypeCount]string{"snap", "reject", "collapse", "win", "celebrate"}

func (s SoundType) String() string {
	if s < 0 || s >= soundTypeCount {
		return "unknown"
	}
	return soundNames[s]
}

// Cue timing
const (
	SnapDuration = 60 * time.Millisecond
	SnapAttack   = 2 * time.Millisecond
	SnapRelease  = 50 * time.Millisecond

	RejectDuration = 90 * time.Millisecond
	RejectAttack   = 5 * time.Millisecond
	RejectRelease  = 60 * time.Millisecond

	CollapseDuration = 700 * time.Millisecond
	CollapseAttack   = 10 * time.Millisecond
	CollapseRelease  = 500 * time.Millisecond

	WinNoteDuration = 120 * time.Millisecond
	WinNoteAttack   = 5 * time.Millisecond
	WinNoteRelease  = 80 * time.Millisecond

	CelebrateDuration = 400 * time.Millisecond
	CelebrateAttack   = 5 * time.Millisecond
	CelebrateRelease  = 300 * time.Millisecond
)

// Config holds audio settings
type Config struct {
	Enabled       bool
	MasterVolume  float64
	SampleRate    int
	EffectVolumes map[SoundType]float64
}

// DefaultConfig returns the stock audio settings
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		MasterVolume: 0.5,
		SampleRate:   44100,
		EffectVolumes: map[SoundType]float64{
			SoundSnap:      0.6,
			SoundReject:    0.3,
			SoundCollapse:  0.8,
			SoundWin:       0.7,
			SoundCelebrate: 0.5,
		},
	}
}

// LoadConfig overlays environment variables on DefaultConfig
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if enabled := os.Getenv("TOWER_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// 0-100 converted to 0.0-1.0
	if volume := os.Getenv("TOWER_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = min(max(float64(val)/100.0, 0), 1)
		}
	}

	// JSON object keyed by sound name, e.g. {"snap":0.4}
	if effectVols := os.Getenv("TOWER_SFX_VOLUMES"); effectVols != "" {
		var volumes map[string]float64
		if err := json.Unmarshal([]byte(effectVols), &volumes); err == nil {
			for st := SoundType(0); st < soundTypeCount; st++ {
				if v, ok := volumes[st.String()]; ok {
					cfg.EffectVolumes[st] = v
				}
			}
		}
	}

	if sampleRate := os.Getenv("TOWER_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	return cfg
}
