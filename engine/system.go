package engine

// System is ordered by priority; lower runs first
type System interface {
	Priority() int
}

// TickSystem runs once per logic tick
type TickSystem interface {
	System
	Tick(w *World)
}

// FrameSystem runs once per displayed frame with the interpolation factor
// between the previous and the current tick
type FrameSystem interface {
	System
	Frame(w *World, alpha float32)
}
