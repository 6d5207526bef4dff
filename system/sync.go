package system

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-rig/engine"
	"github.com/lixenwraith/vi-rig/parameter"
	"github.com/lixenwraith/vi-rig/status"
	"github.com/lixenwraith/vi-rig/syncreport"
)

// SyncSystem digests every logic bone of every actor and records the
// checksum, so two runs of one session can be compared tick by tick
type SyncSystem struct {
	store  *syncreport.Store
	hasher *syncreport.Hasher
	every  uint64
	logger zerolog.Logger
	last   uint64

	enabled bool

	statRecords *atomic.Int64
}

// NewSyncSystem records every `every` ticks; zero or less records every tick
// A nil store only keeps the last checksum
func NewSyncSystem(w *engine.World, store *syncreport.Store, every int) *SyncSystem {
	if every <= 0 {
		every = 1
	}
	return &SyncSystem{
		store:       store,
		hasher:      syncreport.NewHasher(),
		every:       uint64(every),
		logger:      w.Logger.With().Str("system", "sync").Logger(),
		enabled:     true,
		statRecords: w.Status.Ints.Get(status.SyncRecords),
	}
}

func (s *SyncSystem) Name() string { return "sync" }

func (s *SyncSystem) Priority() int { return parameter.PrioritySync }

func (s *SyncSystem) SetEnabled(enabled bool) { s.enabled = enabled }

// LastChecksum returns the most recent digest
func (s *SyncSystem) LastChecksum() uint64 { return s.last }

func (s *SyncSystem) Tick(w *engine.World) {
	if !s.enabled {
		return
	}
	tick := w.TickCount()
	if tick%s.every != 0 {
		return
	}

	sum, n := Checksum(w, s.hasher)
	s.last = sum
	if s.store == nil {
		return
	}
	if err := s.store.Record(tick, sum, n); err != nil {
		s.logger.Error().Err(err).Uint64("tick", tick).Msg("checksum not recorded")
		return
	}
	s.statRecords.Add(1)
}

// Checksum digests actor frames and every logic bone in actor order,
// resolving bones that gameplay has not queried yet; render-only skeletons
// are skipped. Returns the digest and the number of actors hashed
func Checksum(w *engine.World, h *syncreport.Hasher) (uint64, int) {
	h.Reset()
	actors := w.Actors()
	for _, a := range actors {
		h.Int(int64(a.ID))
		h.Transform(a.Frame())
		for _, o := range a.Owners() {
			inst := o.Instance()
			if inst.IsRenderOnly() || !inst.CanResolve() {
				continue
			}
			for bone := range o.Definition().BoneCount() {
				h.Transform(o.GetWorldTransform(bone))
			}
		}
	}
	return h.Sum(), len(actors)
}
