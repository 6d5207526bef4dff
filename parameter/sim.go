package parameter

import "time"

// Simulation cadence
const (
	// TickRate is the logic tick frequency in Hz
	TickRate = 25

	// MaxCatchUpTicks caps logic ticks run for one frame after a stall
	MaxCatchUpTicks = 5

	// SandboxFrameInterval is the render cadence of the terminal sandbox (~60 FPS)
	SandboxFrameInterval = 16 * time.Millisecond
)

// Render bookkeeping
const (
	// BatchFloats is the draw batch capacity, 12 floats per bone
	BatchFloats = 65536
)

// System execution priorities (lower runs first)
const (
	PrioritySkeleton = 0
	PriorityAttach   = 10
	PriorityArmament = 20
	PrioritySync     = 100
	PriorityRender   = 1000
)
