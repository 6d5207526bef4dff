package engine

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-rig/skeleton"
	"github.com/lixenwraith/vi-rig/status"
)

// World holds actors in insertion order and runs systems over them
// Actor order is part of the deterministic contract: systems iterate it as is
type World struct {
	mu     sync.RWMutex
	nextID ActorID
	actors []*Actor

	Skeletons *skeleton.Registry
	Status    *status.Registry
	Logger    zerolog.Logger

	systems     []System
	updateMutex sync.Mutex

	ticks  uint64
	frames uint64

	statTicks  *atomic.Int64
	statFrames *atomic.Int64
	statActors *atomic.Int64
}

// NewWorld creates an empty world over a definition registry
func NewWorld(defs *skeleton.Registry, reg *status.Registry, logger zerolog.Logger) *World {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &World{
		nextID:     1,
		Skeletons:  defs,
		Status:     reg,
		Logger:     logger,
		statTicks:  reg.Ints.Get(status.WorldTicks),
		statFrames: reg.Ints.Get(status.WorldFrames),
		statActors: reg.Ints.Get(status.WorldActors),
	}
}

// AddActor assigns an id and appends the actor
func (w *World) AddActor(a *Actor) ActorID {
	w.mu.Lock()
	defer w.mu.Unlock()

	a.ID = w.nextID
	w.nextID++
	w.actors = append(w.actors, a)
	w.statActors.Store(int64(len(w.actors)))
	w.Logger.Debug().Uint32("id", uint32(a.ID)).Str("actor", a.Name).Msg("actor added")
	return a.ID
}

// RemoveActor kills the actor, drops everything it carries, detaches it from
// its carrier and skeleton children, and invalidates its skeletons
func (w *World) RemoveActor(a *Actor) {
	w.mu.Lock()
	defer w.mu.Unlock()

	a.Dead = true
	for _, ap := range a.points {
		ap.Release()
	}
	if ap := a.carrier(); ap != nil {
		ap.Release()
	}

	for _, o := range a.owners {
		for _, c := range w.childOwnersLocked(o) {
			c.ReleaseFromParent()
		}
		o.ReleaseFromParent()
		o.inst.Invalidate()
	}

	if i := slices.Index(w.actors, a); i >= 0 {
		w.actors = slices.Delete(w.actors, i, i+1)
	}
	w.statActors.Store(int64(len(w.actors)))
	w.Logger.Debug().Uint32("id", uint32(a.ID)).Str("actor", a.Name).Msg("actor removed")
}

func (w *World) childOwnersLocked(parent *SkeletonOwner) []*SkeletonOwner {
	var out []*SkeletonOwner
	for _, a := range w.actors {
		for _, o := range a.owners {
			if o.inst.Parent() == parent.inst {
				out = append(out, o)
			}
		}
	}
	return out
}

// Actor returns the actor with the given id, or nil
func (w *World) Actor(id ActorID) *Actor {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, a := range w.actors {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Actors returns a copy of the actor list in insertion order
func (w *World) Actors() []*Actor {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Actor, len(w.actors))
	copy(out, w.actors)
	return out
}

// RootOwners returns every skeleton owner that heads a tree, in actor order
func (w *World) RootOwners() []*SkeletonOwner {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []*SkeletonOwner
	for _, a := range w.actors {
		for _, o := range a.owners {
			if o.inst.IsRoot() {
				out = append(out, o)
			}
		}
	}
	return out
}

// AddSystem adds a system and sorts by priority
func (w *World) AddSystem(system System) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.systems = append(w.systems, system)

	// Sort by priority (bubble sort, small N, stable for equal priorities)
	for i := 0; i < len(w.systems)-1; i++ {
		for j := 0; j < len(w.systems)-i-1; j++ {
			if w.systems[j].Priority() > w.systems[j+1].Priority() {
				w.systems[j], w.systems[j+1] = w.systems[j+1], w.systems[j]
			}
		}
	}
}

// Systems returns a copy of all registered systems in run order
func (w *World) Systems() []System {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]System, len(w.systems))
	copy(result, w.systems)
	return result
}

// RunSafe executes a function while holding the world's update lock
func (w *World) RunSafe(fn func()) {
	w.updateMutex.Lock()
	defer w.updateMutex.Unlock()
	fn()
}

// Tick runs every TickSystem once
func (w *World) Tick() {
	w.RunSafe(func() {
		w.ticks++
		for _, s := range w.Systems() {
			if ts, ok := s.(TickSystem); ok {
				ts.Tick(w)
			}
		}
		w.statTicks.Store(int64(w.ticks))
	})
}

// Frame runs every FrameSystem once with the interpolation factor
func (w *World) Frame(alpha float32) {
	w.RunSafe(func() {
		w.frames++
		for _, s := range w.Systems() {
			if fs, ok := s.(FrameSystem); ok {
				fs.Frame(w, alpha)
			}
		}
		w.statFrames.Store(int64(w.frames))
	})
}

// TickCount returns the number of completed logic ticks
func (w *World) TickCount() uint64 { return w.ticks }

// FrameCount returns the number of rendered frames
func (w *World) FrameCount() uint64 { return w.frames }
