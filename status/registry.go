package status

import "sync/atomic"

// Metric keys shared by the solver, world and tools
const (
	SkeletonResolves       = "skeleton.resolves"
	SkeletonResolveHits    = "skeleton.resolve_hits"
	SkeletonAttachRejected = "skeleton.attach_rejected"
	IKCommits              = "ik.commits"
	RenderInstances        = "render.instances"
	RenderOverflow         = "render.overflow"
	WorldTicks             = "world.ticks"
	WorldFrames            = "world.frames"
	WorldActors            = "world.actors"
	ArmamentShots          = "armament.shots"
	SyncRecords            = "sync.records"
	SimAlpha               = "sim.alpha"
	SimPaused              = "sim.paused"
	TurretState            = "turret.state"
)

// Registry is the central metrics facade
// Owners cache pointers at construction; tick loops write directly to atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot copies every integer metric; used by tools that print a summary
func (r *Registry) Snapshot() map[string]int64 {
	out := make(map[string]int64, r.Ints.Count())
	r.Ints.Range(func(key string, v *atomic.Int64) {
		out[key] = v.Load()
	})
	return out
}
