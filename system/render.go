package system

import (
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-rig/engine"
	"github.com/lixenwraith/vi-rig/parameter"
	"github.com/lixenwraith/vi-rig/skeleton"
	"github.com/lixenwraith/vi-rig/status"
)

// RenderSystem runs the render phase once per frame: interpolated render
// transforms for every tree, then packing them into the draw batch
type RenderSystem struct {
	batch  *skeleton.Batch
	logger zerolog.Logger

	overflowLogged bool

	statInstances *atomic.Int64
	statOverflow  *atomic.Int64
}

// NewRenderSystem creates the render phase over a batch of the given float capacity
func NewRenderSystem(w *engine.World, batchFloats int) *RenderSystem {
	return &RenderSystem{
		batch:         skeleton.NewBatch(batchFloats),
		logger:        w.Logger.With().Str("system", "render").Logger(),
		statInstances: w.Status.Ints.Get(status.RenderInstances),
		statOverflow:  w.Status.Ints.Get(status.RenderOverflow),
	}
}

func (s *RenderSystem) Name() string { return "render" }

func (s *RenderSystem) Priority() int { return parameter.PriorityRender }

// Batch returns the draw batch filled by the last frame
func (s *RenderSystem) Batch() *skeleton.Batch { return s.batch }

func (s *RenderSystem) Frame(w *engine.World, alpha float32) {
	s.batch.Begin()
	roots := w.RootOwners()
	for _, o := range roots {
		o.TickRender(alpha, false)
	}

	overflow := false
	for _, o := range roots {
		if err := o.FlushPoseForDrawing(s.batch, false); err != nil {
			if !errors.Is(err, skeleton.ErrBatchFull) {
				s.logger.Error().Err(err).Msg("draw flush failed")
				continue
			}
			overflow = true
		}
	}

	if overflow {
		s.statOverflow.Add(1)
		if !s.overflowLogged {
			s.logger.Warn().Int("instances", s.batch.Instances()).Msg("draw batch full, instances skipped")
			s.overflowLogged = true
		}
	}
	s.statInstances.Store(int64(s.batch.Instances()))
}
