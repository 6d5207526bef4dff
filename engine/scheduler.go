package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler converts wall-clock frame time into fixed logic ticks plus a
// render interpolation factor; logic never observes wall-clock time
type Scheduler struct {
	mu         sync.Mutex
	interval   time.Duration
	maxCatchUp int
	acc        time.Duration
	paused     atomic.Bool
	dropped    atomic.Uint64
}

// NewScheduler creates a scheduler ticking at rate Hz that runs at most
// maxCatchUp ticks per Advance; excess backlog is dropped
func NewScheduler(rate int, maxCatchUp int) *Scheduler {
	if rate <= 0 {
		rate = 1
	}
	if maxCatchUp <= 0 {
		maxCatchUp = 1
	}
	return &Scheduler{
		interval:   time.Second / time.Duration(rate),
		maxCatchUp: maxCatchUp,
	}
}

// Interval returns the logic tick duration
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Advance accumulates elapsed frame time and returns how many ticks to run
// now and the fraction of the next tick already elapsed
// While paused, time is discarded and alpha stays where it was
func (s *Scheduler) Advance(elapsed time.Duration) (int, float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.paused.Load() && elapsed > 0 {
		s.acc += elapsed
	}

	ticks := int(s.acc / s.interval)
	s.acc -= time.Duration(ticks) * s.interval
	if ticks > s.maxCatchUp {
		s.dropped.Add(uint64(ticks - s.maxCatchUp))
		ticks = s.maxCatchUp
	}
	return ticks, float32(s.acc) / float32(s.interval)
}

// Pause stops logic time; frames keep rendering the last interpolated state
func (s *Scheduler) Pause() { s.paused.Store(true) }

// Resume continues logic time from where it paused
func (s *Scheduler) Resume() { s.paused.Store(false) }

// IsPaused returns current pause state
func (s *Scheduler) IsPaused() bool { return s.paused.Load() }

// Dropped returns the number of ticks skipped to bound catch-up
func (s *Scheduler) Dropped() uint64 { return s.dropped.Load() }

// Run drives the world until ctx is done: ticks as time accrues, then one frame per wake-up
func (s *Scheduler) Run(ctx context.Context, w *World, frameInterval time.Duration) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			ticks, alpha := s.Advance(now.Sub(last))
			last = now
			for range ticks {
				w.Tick()
			}
			w.Frame(alpha)
		}
	}
}
