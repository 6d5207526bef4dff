package system

import (
	"github.com/lixenwraith/vi-rig/engine"
	"github.com/lixenwraith/vi-rig/parameter"
)

// SkeletonSystem runs the logic phase: every root owner seeds its tree and
// commits its modifiers, then every modified bone resolves so each modifier
// advances once per tick regardless of who reads bones later
type SkeletonSystem struct {
	enabled bool
}

// NewSkeletonSystem creates the logic phase system
func NewSkeletonSystem() *SkeletonSystem {
	return &SkeletonSystem{enabled: true}
}

func (s *SkeletonSystem) Name() string { return "skeleton" }

func (s *SkeletonSystem) Priority() int { return parameter.PrioritySkeleton }

func (s *SkeletonSystem) SetEnabled(enabled bool) { s.enabled = enabled }

func (s *SkeletonSystem) Tick(w *engine.World) {
	if !s.enabled {
		return
	}
	for _, o := range w.RootOwners() {
		o.TickLogic(false)
	}
	for _, a := range w.Actors() {
		if a.Dead {
			continue
		}
		for _, o := range a.Owners() {
			if inst := o.Instance(); !inst.IsRenderOnly() && inst.CanResolve() {
				inst.ResolveModified()
			}
		}
	}
}
