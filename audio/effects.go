package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/vi-rig/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a fixed-length oscillator
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
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
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s with attack and release ramps over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.totalSamples - e.releaseSamples
	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.releaseSamples > 0 && e.position >= releaseStart {
			vol = math.Max(0, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly; zero or less is silent
// math.Log2(0) is -Inf, hence the explicit silent branch
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Cue names a rig sound
type Cue int

const (
	CueLock Cue = iota
	CueFire
	CueRealign
)

func (c Cue) String() string {
	switch c {
	case CueLock:
		return "lock"
	case CueFire:
		return "fire"
	case CueRealign:
		return "realign"
	default:
		return "unknown"
	}
}

// NewCue builds a fresh streamer for the cue at master volume master
// Returns nil for an unknown cue
func NewCue(c Cue, rate beep.SampleRate, master float64) beep.Streamer {
	switch c {
	case CueLock:
		low := NewEnvelope(NewOscillator(parameter.LockNoteLowHz, parameter.LockNoteDuration, WaveSine, rate),
			parameter.LockNoteDuration, parameter.LockAttack, parameter.LockRelease, rate)
		high := NewEnvelope(NewOscillator(parameter.LockNoteHighHz, parameter.LockNoteDuration, WaveSine, rate),
			parameter.LockNoteDuration, parameter.LockAttack, parameter.LockRelease, rate)
		return newVolume(beep.Seq(low, high), parameter.LockVolume*master)

	case CueFire:
		osc := NewOscillator(parameter.FireHz, parameter.FireDuration, WaveSaw, rate)
		shaped := NewEnvelope(osc, parameter.FireDuration, parameter.FireAttack, parameter.FireRelease, rate)
		return newVolume(shaped, parameter.FireVolume*master)

	case CueRealign:
		osc := NewOscillator(parameter.RealignHz, parameter.RealignDuration, WaveSine, rate)
		shaped := NewEnvelope(osc, parameter.RealignDuration, parameter.RealignAttack, parameter.RealignRelease, rate)
		return newVolume(shaped, parameter.RealignVolume*master)
	}
	return nil
}

// CueSamples returns the cue length in samples at rate
func CueSamples(c Cue, rate beep.SampleRate) int {
	switch c {
	case CueLock:
		return 2 * rate.N(parameter.LockNoteDuration)
	case CueFire:
		return rate.N(parameter.FireDuration)
	case CueRealign:
		return rate.N(parameter.RealignDuration)
	}
	return 0
}
