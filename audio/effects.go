package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	sweep    float64 // Frequency change per second
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a constant-pitch oscillator
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, duration, wave, rate)
}

// NewSweep creates an oscillator gliding linearly from one pitch to another
func NewSweep(from, to float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	secs := duration.Seconds()
	var sweep float64
	if secs > 0 {
		sweep = (to - from) / secs
	}
	return &oscillator{
		freq:     from,
		sweep:    sweep,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		freq := o.freq + o.sweep*float64(o.position)/float64(o.rate)
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope wraps s with a linear attack and release
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := max(total-att-rel, 0)

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = max(float64(e.totalSamples-e.position)/float64(e.releaseSamples), 0)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales linearly; math.Log2(0) is -Inf so zero maps to silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

func tone(freq float64, d, att, rel time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewEnvelope(NewOscillator(freq, d, wave, rate), d, att, rel, rate)
}

// CreateSnapSound generates a short wooden click with a square overtone
func CreateSnapSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	body := tone(330, SnapDuration, SnapAttack, SnapRelease, WaveSine, rate)
	click := tone(1320, SnapDuration, SnapAttack, SnapRelease/2, WaveSquare, rate)

	mixed := beep.Mix(newVolume(body, 0.8), newVolume(click, 0.2))
	return newVolume(mixed, cfg.EffectVolumes[SoundSnap]*cfg.MasterVolume)
}

// CreateRejectSound generates a dull thud
func CreateRejectSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	shaped := tone(90, RejectDuration, RejectAttack, RejectRelease, WaveSaw, rate)
	return newVolume(shaped, cfg.EffectVolumes[SoundReject]*cfg.MasterVolume)
}

// CreateCollapseSound generates a falling saw sweep over crackling noise
func CreateCollapseSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	sweep := NewEnvelope(NewSweep(220, 40, CollapseDuration, WaveSaw, rate), CollapseDuration, CollapseAttack, CollapseRelease, rate)
	noise := NewEnvelope(NewOscillator(0, CollapseDuration, WaveNoise, rate), CollapseDuration, CollapseAttack, CollapseRelease, rate)

	mixed := beep.Mix(newVolume(sweep, 0.7), newVolume(noise, 0.3))
	return newVolume(mixed, cfg.EffectVolumes[SoundCollapse]*cfg.MasterVolume)
}

// CreateWinSound generates a rising C major arpeggio
func CreateWinSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	notes := []float64{523.25, 659.25, 783.99, 1046.50}
	seq := make([]beep.Streamer, 0, len(notes))
	for _, f := range notes {
		seq = append(seq, tone(f, WinNoteDuration, WinNoteAttack, WinNoteRelease, WaveSquare, rate))
	}

	return newVolume(beep.Seq(seq...), cfg.EffectVolumes[SoundWin]*cfg.MasterVolume)
}

// CreateCelebrateSound generates a bell with an octave overtone
func CreateCelebrateSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	fund := tone(1046.50, CelebrateDuration, CelebrateAttack, CelebrateRelease, WaveSine, rate)
	over := tone(2093.00, CelebrateDuration, CelebrateAttack, CelebrateRelease/2, WaveSine, rate)

	mixed := beep.Mix(newVolume(fund, 0.7), newVolume(over, 0.3))
	return newVolume(mixed, cfg.EffectVolumes[SoundCelebrate]*cfg.MasterVolume)
}

// GetSoundEffect returns the streamer for soundType or nil
func GetSoundEffect(soundType SoundType, cfg *Config) beep.Streamer {
	switch soundType {
	case SoundSnap:
		return CreateSnapSound(cfg)
	case SoundReject:
		return CreateRejectSound(cfg)
	case SoundCollapse:
		return CreateCollapseSound(cfg)
	case SoundWin:
		return CreateWinSound(cfg)
	case SoundCelebrate:
		return CreateCelebrateSound(cfg)
	default:
		return nil
	}
}

// EffectDuration returns the nominal length of a cue
func EffectDuration(soundType SoundType) time.Duration {
	switch soundType {
	case SoundSnap:
		return SnapDuration
	case SoundReject:
		return RejectDuration
	case SoundCollapse:
		return CollapseDuration
	case SoundWin:
		return 4 * WinNoteDuration
	case SoundCelebrate:
		return CelebrateDuration
	default:
		return 0
	}
}
