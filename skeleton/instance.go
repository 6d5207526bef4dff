package skeleton

import (
	"fmt"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/vi-rig/vmath"
)

// InvalidDrawToken is reported by instances without valid render data this frame
const InvalidDrawToken = -2

// Stats holds optional counters; nil fields are skipped
type Stats struct {
	Resolves *atomic.Int64
	Hits     *atomic.Int64
	Commits  *atomic.Int64
}

// Instance is the mutable per-actor state of one bone hierarchy
// Logic transforms are fixed point and deterministic; render transforms are
// float, interpolated, and never feed back into logic
type Instance struct {
	def *Definition

	logic     []vmath.Transform
	resolved  []bool
	overrides []bool
	modifiers []BonePoseModifier

	render      []mgl32.Mat4
	renderValid bool

	pose       PoseSource
	source     RootSource
	renderOnly bool

	// Root frame for this tick and the previous one, for render interpolation
	root     vmath.Transform
	prevRoot vmath.Transform
	seeded   bool
	hasRoot  bool
	ownScale int64

	// Attachment graph
	parent        *Instance
	parentBone    int
	scaleOverride int64
	children      []*Instance

	valid     bool
	drawFrame uint64
	drawSlot  int

	stats Stats
}

// Option configures an Instance
type Option func(*Instance)

// WithPose sets the per-tick local pose source
func WithPose(p PoseSource) Option {
	return func(in *Instance) { in.pose = p }
}

// WithRootSource sets where a root instance reads its world frame each tick
func WithRootSource(s RootSource) Option {
	return func(in *Instance) { in.source = s }
}

// RenderOnly marks the instance as visual-only; logic queries panic
func RenderOnly() Option {
	return func(in *Instance) { in.renderOnly = true }
}

// WithStats wires resolution counters
func WithStats(s Stats) Option {
	return func(in *Instance) { in.stats = s }
}

// NewInstance creates an instance of a bone table
func NewInstance(def *Definition, opts ...Option) *Instance {
	n := def.BoneCount()
	in := &Instance{
		def:        def,
		logic:      make([]vmath.Transform, n),
		resolved:   make([]bool, n),
		overrides:  make([]bool, n),
		modifiers:  make([]BonePoseModifier, n),
		render:     make([]mgl32.Mat4, n),
		parentBone: -1,
		ownScale:   vmath.Scale,
		valid:      true,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Definition returns the shared bone table
func (in *Instance) Definition() *Definition { return in.def }

// IsRenderOnly reports whether logic queries are forbidden
func (in *Instance) IsRenderOnly() bool { return in.renderOnly }

// Seeded reports whether the root frame is set for this tick
func (in *Instance) Seeded() bool { return in.seeded }

// Root returns the current root frame
func (in *Instance) Root() vmath.Transform { return in.root }

// SetPose replaces the pose source
func (in *Instance) SetPose(p PoseSource) { in.pose = p }

// SetOffset seeds the root frame from a world position, rotation and scale
func (in *Instance) SetOffset(pos vmath.Vec3, rot vmath.Mat3, scale int64) {
	in.setRoot(vmath.NewTransform(pos, rot, scale))
}

// SetOffsetFrom seeds the root frame from a parent skeleton's resolved bone,
// replacing its scale with scaleRatio
func (in *Instance) SetOffsetFrom(parentBone vmath.Transform, scaleRatio int64) {
	in.setRoot(parentBone.WithScale(scaleRatio))
}

func (in *Instance) setRoot(t vmath.Transform) {
	if in.hasRoot {
		in.prevRoot = in.root
	} else {
		in.prevRoot = t
	}
	in.root = t
	in.hasRoot = true
	in.seeded = true
}

// ResetTick clears per-tick state: resolved flags, overrides and the seed
func (in *Instance) ResetTick() {
	clear(in.resolved)
	clear(in.overrides)
	in.seeded = false
}

func (in *Instance) commitModifiers() {
	for _, m := range in.modifiers {
		if m == nil {
			continue
		}
		m.Commit()
		if in.stats.Commits != nil {
			in.stats.Commits.Add(1)
		}
	}
}

// AddModifier binds a pose modifier to a bone; at most one per bone
func (in *Instance) AddModifier(bone int, m BonePoseModifier) error {
	if !in.def.valid(bone) {
		return fmt.Errorf("%w: %d in %s", ErrInvalidBone, bone, in.def.image)
	}
	if m == nil {
		return fmt.Errorf("skeleton %s: nil modifier for bone %d", in.def.image, bone)
	}
	if in.modifiers[bone] != nil {
		return fmt.Errorf("%w: %s bone %q", ErrDuplicateModifier, in.def.image, in.def.names[bone])
	}
	in.modifiers[bone] = m
	return nil
}

// RemoveModifier unbinds a bone's modifier, reporting whether one was bound
func (in *Instance) RemoveModifier(bone int) bool {
	if !in.def.valid(bone) || in.modifiers[bone] == nil {
		return false
	}
	in.modifiers[bone] = nil
	return true
}

// Modifier returns the modifier bound to a bone, or nil
func (in *Instance) Modifier(bone int) BonePoseModifier {
	if !in.def.valid(bone) {
		return nil
	}
	return in.modifiers[bone]
}

// UpdateBone resolves a bone's logic transform once per tick
// Panics with *MisuseError on render-only instances or before seeding
func (in *Instance) UpdateBone(bone int) {
	if in.renderOnly {
		panic(&MisuseError{Image: in.def.image, Op: "UpdateBone", Bone: bone, Err: ErrRenderOnly})
	}
	if !in.def.valid(bone) {
		panic(&MisuseError{Image: in.def.image, Op: "UpdateBone", Bone: bone, Err: ErrInvalidBone})
	}
	if !in.seeded {
		if in.parent == nil {
			panic(&MisuseError{Image: in.def.image, Op: "UpdateBone", Bone: bone, Err: ErrNotSeeded})
		}
		in.seedFromParent()
	}
	in.resolve(bone)
}

// ResolveModified resolves every bone carrying a modifier, so modifiers
// advance on every tick and later read-only queries find them settled
func (in *Instance) ResolveModified() {
	for bone, m := range in.modifiers {
		if m != nil {
			in.UpdateBone(bone)
		}
	}
}

// BoneWorldTransform resolves and returns a bone's logic transform
func (in *Instance) BoneWorldTransform(bone int) vmath.Transform {
	in.UpdateBone(bone)
	return in.logic[bone]
}

// OverrideBone pins a bone's world transform for the current tick
// Descendants resolved afterwards compose from it
func (in *Instance) OverrideBone(bone int, t vmath.Transform) error {
	if !in.def.valid(bone) {
		return fmt.Errorf("%w: %d in %s", ErrInvalidBone, bone, in.def.image)
	}
	in.logic[bone] = t
	in.resolved[bone] = true
	in.overrides[bone] = true
	return nil
}

func (in *Instance) resolve(bone int) {
	if in.resolved[bone] {
		if in.stats.Hits != nil {
			in.stats.Hits.Add(1)
		}
		return
	}

	base := in.root
	if p := in.def.parents[bone]; p >= 0 {
		in.resolve(p)
		base = in.logic[p]
	}

	t := vmath.Compose(base, in.localPose(bone))
	if m := in.modifiers[bone]; m != nil {
		t = t.Rotated(m.Delta(t))
	}

	in.logic[bone] = t
	in.resolved[bone] = true
	if in.stats.Resolves != nil {
		in.stats.Resolves.Add(1)
	}
}

func (in *Instance) localPose(bone int) vmath.Transform {
	if in.pose != nil {
		if t, ok := in.pose.LocalPose(bone); ok {
			return t
		}
	}
	return in.def.rest[bone]
}

func (in *Instance) childScale() int64 {
	if in.scaleOverride != 0 {
		return in.scaleOverride
	}
	return in.ownScale
}

// seedFromParent reads the root frame from the parent's resolved bone
func (in *Instance) seedFromParent() {
	p := in.parent
	p.UpdateBone(in.parentBone)
	in.SetOffsetFrom(p.logic[in.parentBone], in.childScale())
}

// Invalidate marks the instance as destroyed; draw tokens become invalid
func (in *Instance) Invalidate() {
	in.valid = false
	in.renderValid = false
}

// Valid reports whether the instance is alive
func (in *Instance) Valid() bool { return in.valid }
