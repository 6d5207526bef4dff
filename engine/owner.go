package engine

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-rig/skeleton"
	"github.com/lixenwraith/vi-rig/status"
	"github.com/lixenwraith/vi-rig/vmath"
)

// ErrDuplicateOwner reports a second skeleton owner with the same name on one actor
var ErrDuplicateOwner = errors.New("actor already has a skeleton with this name")

// OwnerConfig describes one skeleton carried by an actor
type OwnerConfig struct {
	// Name distinguishes several skeletons on one actor; defaults to "body"
	Name  string
	Image string
	// Mask restricts the pose source to a named bone mask
	Mask       string
	RenderOnly bool
	// Offset shifts the root frame from the actor position
	Offset vmath.Vec3
	// Scale overrides the actor scale when non-zero
	Scale int64
}

// OwnerOption configures a SkeletonOwner
type OwnerOption func(*SkeletonOwner)

// WithStatus wires resolution and attach counters
func WithStatus(reg *status.Registry) OwnerOption {
	return func(o *SkeletonOwner) { o.status = reg }
}

// WithPoseSource sets the per-tick animation source
func WithPoseSource(p skeleton.PoseSource) OwnerOption {
	return func(o *SkeletonOwner) { o.pose = p }
}

// SkeletonOwner bridges an actor's world frame into a skeleton instance and
// exposes bone queries to gameplay code
type SkeletonOwner struct {
	actor *Actor
	name  string
	def   *skeleton.Definition
	inst  *skeleton.Instance
	mask  skeleton.Mask
	pose  skeleton.PoseSource

	// parent is the owner this skeleton hangs from, nil while a root
	parent *SkeletonOwner

	Offset vmath.Vec3
	scale  int64

	logger       zerolog.Logger
	status       *status.Registry
	statRejected *atomic.Int64
}

// NewSkeletonOwner creates the actor's skeleton from a registered definition
// Unknown image or mask is a configuration error
func NewSkeletonOwner(actor *Actor, cfg OwnerConfig, reg *skeleton.Registry, logger zerolog.Logger, opts ...OwnerOption) (*SkeletonOwner, error) {
	if cfg.Name == "" {
		cfg.Name = "body"
	}
	if actor.Owner(cfg.Name) != nil {
		return nil, fmt.Errorf("%w: %s on %s", ErrDuplicateOwner, cfg.Name, actor.Name)
	}

	def, err := reg.Get(cfg.Image)
	if err != nil {
		logger.Error().Err(err).Str("actor", actor.Name).Str("skeleton", cfg.Name).Msg("skeleton definition lookup failed")
		return nil, err
	}

	o := &SkeletonOwner{
		actor:  actor,
		name:   cfg.Name,
		def:    def,
		Offset: cfg.Offset,
		scale:  cfg.Scale,
		logger: logger.With().Str("actor", actor.Name).Str("skeleton", cfg.Name).Logger(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if cfg.Mask != "" {
		m, err := def.Mask(cfg.Mask)
		if err != nil {
			o.logger.Error().Err(err).Msg("bone mask lookup failed")
			return nil, err
		}
		o.mask = m
	}

	instOpts := []skeleton.Option{skeleton.WithRootSource(o)}
	if cfg.RenderOnly {
		instOpts = append(instOpts, skeleton.RenderOnly())
	}
	if o.status != nil {
		instOpts = append(instOpts, skeleton.WithStats(skeleton.Stats{
			Resolves: o.status.Ints.Get(status.SkeletonResolves),
			Hits:     o.status.Ints.Get(status.SkeletonResolveHits),
			Commits:  o.status.Ints.Get(status.IKCommits),
		}))
		o.statRejected = o.status.Ints.Get(status.SkeletonAttachRejected)
	}
	o.inst = skeleton.NewInstance(def, instOpts...)
	o.SetPoseSource(o.pose)

	actor.owners = append(actor.owners, o)
	return o, nil
}

// RootFrame seeds a root instance from the actor: position plus offset,
// facing from the pose source when it overrides it, and scale
func (o *SkeletonOwner) RootFrame() vmath.Transform {
	rot := o.actor.Orientation()
	if f, ok := o.pose.(skeleton.FacingOverride); ok {
		if r, ok := f.FacingOverride(); ok {
			rot = r
		}
	}
	return vmath.NewTransform(vmath.V3Add(o.actor.Position, o.Offset), rot, o.Scale())
}

// Scale returns the skeleton's own scale
func (o *SkeletonOwner) Scale() int64 {
	if o.scale != 0 {
		return o.scale
	}
	return o.actor.Scale
}

// SetPoseSource replaces the animation source, applying the configured mask
func (o *SkeletonOwner) SetPoseSource(p skeleton.PoseSource) {
	o.pose = p
	if p != nil && o.mask != nil {
		p = skeleton.MaskedPose{Source: p, Mask: o.mask}
	}
	o.inst.SetPose(p)
}

func (o *SkeletonOwner) Name() string                     { return o.name }
func (o *SkeletonOwner) Actor() *Actor                    { return o.actor }
func (o *SkeletonOwner) Instance() *skeleton.Instance     { return o.inst }
func (o *SkeletonOwner) Definition() *skeleton.Definition { return o.def }
func (o *SkeletonOwner) IsRoot() bool                     { return o.inst.IsRoot() }

// GetBoneId resolves a bone name; a miss is a configuration error
func (o *SkeletonOwner) GetBoneId(name string) (int, error) {
	return o.def.BoneID(name)
}

// MustBoneId resolves a bone name or panics
func (o *SkeletonOwner) MustBoneId(name string) int {
	id, err := o.def.BoneID(name)
	if err != nil {
		panic(err)
	}
	return id
}

// UpdateBone resolves a bone for this tick without reading it
func (o *SkeletonOwner) UpdateBone(bone int) {
	o.inst.UpdateBone(bone)
}

func (o *SkeletonOwner) GetWorldTransform(bone int) vmath.Transform {
	return o.inst.BoneWorldTransform(bone)
}

func (o *SkeletonOwner) GetWorldPosition(bone int) vmath.Vec3 {
	return o.inst.BoneWorldTransform(bone).Pos
}

func (o *SkeletonOwner) GetWorldRotation(bone int) vmath.Mat3 {
	return o.inst.BoneWorldTransform(bone).Rot
}

// RegisterBonePoseModifier binds a modifier to a bone, at most one per bone
func (o *SkeletonOwner) RegisterBonePoseModifier(bone int, m skeleton.BonePoseModifier) error {
	if err := o.inst.AddModifier(bone, m); err != nil {
		o.logger.Error().Err(err).Int("bone", bone).Msg("pose modifier registration failed")
		return err
	}
	return nil
}

// UnregisterBonePoseModifier removes a bone's modifier, reporting whether one was bound
func (o *SkeletonOwner) UnregisterBonePoseModifier(bone int) bool {
	return o.inst.RemoveModifier(bone)
}

// SetParent roots this skeleton on a bone of another owner's skeleton
// A parent on another actor also makes that actor the carrier, so the child
// stops moving itself. Returns false with no state change when either link
// would form a cycle or is otherwise invalid
func (o *SkeletonOwner) SetParent(parent *SkeletonOwner, bone int, scale int64) bool {
	if parent == nil {
		o.logger.Warn().Msg("attach refused: nil parent")
		o.reject()
		return false
	}

	linked := false
	if parent.actor != o.actor && o.actor.Attach.Parent() != parent.actor {
		if !parent.actor.Attach.AddAttachment(o.actor) {
			o.logger.Warn().
				Str("parent", parent.actor.Name).
				Str("parent_skeleton", parent.name).
				Int("bone", bone).
				Msg("attach refused: actor already carried or cycle")
			o.reject()
			return false
		}
		linked = true
	}

	if err := o.inst.SetParent(parent.inst, bone, scale); err != nil {
		if linked {
			parent.actor.Attach.RemoveAttachment(o.actor)
		}
		o.logger.Warn().Err(err).
			Str("parent", parent.actor.Name).
			Str("parent_skeleton", parent.name).
			Int("bone", bone).
			Msg("attach refused")
		o.reject()
		return false
	}

	prev := o.parent
	o.parent = parent
	if prev != nil && prev.actor != parent.actor {
		o.dropCarrier(prev.actor)
	}
	return true
}

// dropCarrier ends the actor relation with carrier once no owner of this
// actor still hangs from it
func (o *SkeletonOwner) dropCarrier(carrier *Actor) {
	if carrier == o.actor || o.actor.Attach.Parent() != carrier {
		return
	}
	for _, other := range o.actor.owners {
		if other.parent != nil && other.parent.actor == carrier {
			return
		}
	}
	carrier.Attach.RemoveAttachment(o.actor)
}

func (o *SkeletonOwner) reject() {
	if o.statRejected != nil {
		o.statRejected.Add(1)
	}
}

// ReleaseFromParent detaches the skeleton and moves the actor to where the
// skeleton was, so the next logic tick seeds the same root frame
func (o *SkeletonOwner) ReleaseFromParent() {
	prev := o.parent
	o.parent = nil
	if prev != nil {
		o.dropCarrier(prev.actor)
	}
	if o.inst.IsRoot() {
		return
	}
	o.inst.ReleaseFromParent()
	if !o.inst.Seeded() {
		return
	}
	root := o.inst.Root()
	o.actor.Position = vmath.V3Sub(root.Pos, o.Offset)
	o.actor.SetOrientation(root.Rot.Euler())
}

func (o *SkeletonOwner) TickLogic(calledByParent bool) {
	o.inst.TickLogic(calledByParent)
}

func (o *SkeletonOwner) TickRender(alpha float32, calledByParent bool) {
	o.inst.TickRender(alpha, calledByParent)
}

func (o *SkeletonOwner) FlushPoseForDrawing(b *skeleton.Batch, calledByParent bool) error {
	return o.inst.FlushPoseForDrawing(b, calledByParent)
}

// DrawToken returns the render slot for the batch's frame or skeleton.InvalidDrawToken
func (o *SkeletonOwner) DrawToken(b *skeleton.Batch) int {
	return o.inst.DrawToken(b)
}
