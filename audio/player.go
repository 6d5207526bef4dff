package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-rig/config"
	"github.com/lixenwraith/vi-rig/parameter"
)

// Player mixes rig cues. Without Start it stays headless: cues still queue
// on the mixer, which tests and benches drain through Mixer
type Player struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	rate    beep.SampleRate
	enabled bool
	started bool
	played  map[Cue]int
	logger  zerolog.Logger
}

// NewPlayer creates a player from the audio configuration
func NewPlayer(cfg config.AudioConfig, logger zerolog.Logger) *Player {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = parameter.AudioSampleRate
	}
	return &Player{
		mixer:   &beep.Mixer{},
		rate:    beep.SampleRate(rate),
		enabled: cfg.Enabled,
		played:  make(map[Cue]int),
		logger:  logger.With().Str("component", "audio").Logger(),
	}
}

func (p *Player) Name() string { return "audio" }

func (p *Player) Dependencies() []string { return nil }

// Start opens the speaker and plays the mixer; no-op when disabled
// A missing audio backend mutes the player instead of failing
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || p.started {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(parameter.AudioBufferDuration)); err != nil {
		p.enabled = false
		p.logger.Warn().Err(err).Msg("no audio backend, cues muted")
		return nil
	}
	speaker.Play(p.mixer)
	p.started = true
	p.logger.Info().Int("rate", int(p.rate)).Msg("speaker started")
	return nil
}

// Stop silences pending cues and closes the speaker
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		p.mixer.Clear()
		return nil
	}
	speaker.Clear()
	speaker.Close()
	p.mixer.Clear()
	p.started = false
	return nil
}

// Play queues one cue; ignored when audio is disabled
func (p *Player) Play(c Cue) {
	s := NewCue(c, p.rate, parameter.MasterVolume)
	if s == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	p.played[c]++
	if p.started {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
		return
	}
	p.mixer.Add(s)
}

// Played returns how many times c was queued
func (p *Player) Played(c Cue) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played[c]
}

// Pending returns the number of cues still sounding
func (p *Player) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mixer.Len()
}

// Mixer exposes the mix for headless draining; do not stream it while started
func (p *Player) Mixer() *beep.Mixer { return p.mixer }

// SampleRate returns the output rate
func (p *Player) SampleRate() beep.SampleRate { return p.rate }

// EdgeTracker turns per-key level signals into rising-edge events, so a cue
// plays once when a turret locks instead of on every tick it stays locked
type EdgeTracker struct {
	last map[string]bool
}

func NewEdgeTracker() *EdgeTracker {
	return &EdgeTracker{last: make(map[string]bool)}
}

// Observe records the level for key and reports a false to true transition
func (e *EdgeTracker) Observe(key string, on bool) bool {
	was := e.last[key]
	e.last[key] = on
	return on && !was
}

// Forget drops a key, e.g. when its actor is removed
func (e *EdgeTracker) Forget(key string) { delete(e.last, key) }
