package engine

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"
)

// AttachManager tracks the actor-level carry relation: who carries this
// actor and whom it carries
type AttachManager struct {
	self        *Actor
	parent      *Actor
	attachments []*Actor
}

// NewAttachManager creates the manager for an actor
func NewAttachManager(self *Actor) *AttachManager {
	return &AttachManager{self: self}
}

func (m *AttachManager) Parent() *Actor        { return m.parent }
func (m *AttachManager) HasParent() bool       { return m.parent != nil }
func (m *AttachManager) Attachments() []*Actor { return m.attachments }

// IsMyParent reports whether a carries this actor, directly or transitively
func (m *AttachManager) IsMyParent(a *Actor) bool {
	for p := m.parent; p != nil; p = p.Attach.parent {
		if p == a {
			return true
		}
	}
	return false
}

// AddAttachment makes this actor carry a; refused for itself, an actor
// already carried, or any actor that carries this one
func (m *AttachManager) AddAttachment(a *Actor) bool {
	if a == nil || a == m.self || a.Attach.parent != nil || m.IsMyParent(a) {
		return false
	}
	m.attachments = append(m.attachments, a)
	a.Attach.parent = m.self
	return true
}

// RemoveAttachment stops carrying a, reporting whether it was carried
func (m *AttachManager) RemoveAttachment(a *Actor) bool {
	i := slices.Index(m.attachments, a)
	if i < 0 {
		return false
	}
	m.attachments = slices.Delete(m.attachments, i, i+1)
	a.Attach.parent = nil
	return true
}

// AttachPointConfig names the bone that carries attached actors
type AttachPointConfig struct {
	Name     string
	Skeleton string
	Bone     string
	// Scale overrides the carried skeleton's scale when non-zero
	Scale int64
}

// AttachPoint carries one actor on a bone, linking both the actor relation
// and the carried actor's main skeleton
type AttachPoint struct {
	name   string
	actor  *Actor
	owner  *SkeletonOwner
	bone   int
	scale  int64
	logger zerolog.Logger

	carried *Actor
}

// NewAttachPoint resolves the carry bone; a missing bone aborts construction
func NewAttachPoint(actor *Actor, cfg AttachPointConfig, logger zerolog.Logger) (*AttachPoint, error) {
	owner := actor.Owner(cfg.Skeleton)
	if owner == nil {
		return nil, fmt.Errorf("attach point %s on %s: no skeleton %q", cfg.Name, actor.Name, cfg.Skeleton)
	}
	bone, err := owner.GetBoneId(cfg.Bone)
	if err != nil {
		logger.Error().Err(err).Str("actor", actor.Name).Str("attach_point", cfg.Name).Msg("attach bone lookup failed")
		return nil, fmt.Errorf("attach point %s: %w", cfg.Name, err)
	}
	ap := &AttachPoint{
		name:   cfg.Name,
		actor:  actor,
		owner:  owner,
		bone:   bone,
		scale:  cfg.Scale,
		logger: logger.With().Str("actor", actor.Name).Str("attach_point", cfg.Name).Logger(),
	}
	actor.points = append(actor.points, ap)
	return ap, nil
}

func (ap *AttachPoint) Name() string    { return ap.name }
func (ap *AttachPoint) Bone() int       { return ap.bone }
func (ap *AttachPoint) Carried() *Actor { return ap.carried }

// Attach releases whatever is carried and picks up target
// Both relations are set or neither: a refused skeleton link rolls back the actor link
func (ap *AttachPoint) Attach(target *Actor) bool {
	if target == nil || target.Dead || ap.actor.Dead {
		return false
	}
	ap.Release()

	if !ap.actor.Attach.AddAttachment(target) {
		ap.logger.Warn().Str("target", target.Name).Msg("attach refused: actor relation")
		return false
	}
	if main := target.Main(); main != nil {
		if !main.SetParent(ap.owner, ap.bone, ap.scale) {
			ap.actor.Attach.RemoveAttachment(target)
			return false
		}
	}

	ap.carried = target
	ap.Update()
	ap.logger.Debug().Str("target", target.Name).Msg("attached")
	return true
}

// Update moves the carried actor onto the bone; dead actors are dropped and
// an actor released through its own skeleton is forgotten
func (ap *AttachPoint) Update() {
	if ap.carried == nil {
		return
	}
	if ap.carried.Attach.Parent() != ap.actor {
		ap.carried = nil
		return
	}
	if ap.carried.Dead || ap.actor.Dead {
		ap.Release()
		return
	}
	if !ap.owner.inst.CanResolve() {
		return
	}
	t := ap.owner.GetWorldTransform(ap.bone)
	ap.carried.Position = t.Pos
	ap.carried.SetOrientation(t.Rot.Euler())
}

// Release drops the carried actor where the bone currently is, keeping only its yaw
func (ap *AttachPoint) Release() {
	a := ap.carried
	if a == nil {
		return
	}
	ap.carried = nil
	ap.actor.Attach.RemoveAttachment(a)

	if main := a.Main(); main != nil && main.inst.Parent() == ap.owner.inst {
		main.ReleaseFromParent()
	} else if ap.owner.inst.CanResolve() {
		a.Position = ap.owner.GetWorldPosition(ap.bone)
	}
	yaw, _, _ := a.Orientation().Euler()
	a.SetOrientation(yaw, 0, 0)
	ap.logger.Debug().Str("target", a.Name).Msg("released")
}
