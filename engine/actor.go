package engine

import (
	"github.com/lixenwraith/vi-rig/vmath"
)

// ActorID identifies an actor within a World; zero means not yet added
type ActorID uint32

// Actor is a simulated unit carrying skeletons, turrets, weapons and attach points
type Actor struct {
	ID       ActorID
	Name     string
	Position vmath.Vec3
	Yaw      vmath.Angle
	Pitch    vmath.Angle
	Roll     vmath.Angle
	Scale    int64
	Dead     bool

	Attach *AttachManager

	owners    []*SkeletonOwner
	turrets   []*Turret
	armaments []*Armament
	points    []*AttachPoint

	target    vmath.Vec3
	hasTarget bool
}

// NewActor creates an actor at pos with identity orientation and unit scale
func NewActor(name string, pos vmath.Vec3) *Actor {
	a := &Actor{
		Name:     name,
		Position: pos,
		Scale:    vmath.Scale,
	}
	a.Attach = NewAttachManager(a)
	return a
}

// Orientation returns the actor's rotation matrix
func (a *Actor) Orientation() vmath.Mat3 {
	return vmath.Rotation(a.Yaw, a.Pitch, a.Roll)
}

// SetOrientation sets all three facing angles
func (a *Actor) SetOrientation(yaw, pitch, roll vmath.Angle) {
	a.Yaw, a.Pitch, a.Roll = yaw, pitch, roll
}

// Frame returns the actor's world transform
func (a *Actor) Frame() vmath.Transform {
	return vmath.NewTransform(a.Position, a.Orientation(), a.Scale)
}

// CanMove is false while another actor carries this one
func (a *Actor) CanMove() bool {
	return !a.Dead && !a.Attach.HasParent()
}

// Owner returns the skeleton owner with the given name; empty name returns the main one
func (a *Actor) Owner(name string) *SkeletonOwner {
	if name == "" {
		return a.Main()
	}
	for _, o := range a.owners {
		if o.name == name {
			return o
		}
	}
	return nil
}

// Main returns the first skeleton owner created for the actor, or nil
func (a *Actor) Main() *SkeletonOwner {
	if len(a.owners) == 0 {
		return nil
	}
	return a.owners[0]
}

// Owners returns skeleton owners in creation order
func (a *Actor) Owners() []*SkeletonOwner { return a.owners }

// Turret returns the turret with the given name; empty name returns the first one
func (a *Actor) Turret(name string) *Turret {
	for _, t := range a.turrets {
		if name == "" || t.name == name {
			return t
		}
	}
	return nil
}

func (a *Actor) Turrets() []*Turret           { return a.turrets }
func (a *Actor) Armaments() []*Armament       { return a.armaments }
func (a *Actor) AttachPoints() []*AttachPoint { return a.points }

// SetTarget orders the actor's weapons to engage a world point
func (a *Actor) SetTarget(pos vmath.Vec3) {
	a.target = pos
	a.hasTarget = true
}

// ClearTarget cancels the engage order; turrets realign after their delay
func (a *Actor) ClearTarget() {
	a.hasTarget = false
}

// Target returns the current engage order
func (a *Actor) Target() (vmath.Vec3, bool) {
	return a.target, a.hasTarget
}

// carrier returns the attach point currently carrying this actor, or nil
func (a *Actor) carrier() *AttachPoint {
	p := a.Attach.Parent()
	if p == nil {
		return nil
	}
	for _, ap := range p.points {
		if ap.carried == a {
			return ap
		}
	}
	return nil
}
