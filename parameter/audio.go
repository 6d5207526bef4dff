package parameter

import "time"

// Audio output
const (
	AudioSampleRate = 44100

	// AudioBufferDuration is the speaker buffer length, trading latency for underruns
	AudioBufferDuration = 100 * time.Millisecond
)

// Lock-on cue: two rising notes when a turret settles on target
const (
	LockNoteDuration = 70 * time.Millisecond
	LockAttack       = 5 * time.Millisecond
	LockRelease      = 40 * time.Millisecond
	LockNoteLowHz    = 659.25 // E5
	LockNoteHighHz   = 987.77 // B5
)

// Fire cue: short saw burst per shot
const (
	FireDuration = 90 * time.Millisecond
	FireAttack   = 2 * time.Millisecond
	FireRelease  = 60 * time.Millisecond
	FireHz       = 110.0
)

// Realign cue: soft low tone when a turret gives up and returns home
const (
	RealignDuration = 180 * time.Millisecond
	RealignAttack   = 20 * time.Millisecond
	RealignRelease  = 120 * time.Millisecond
	RealignHz       = 220.0
)

// Cue mix
const (
	MasterVolume  = 0.5
	LockVolume    = 0.8
	FireVolume    = 0.6
	RealignVolume = 0.4
)
