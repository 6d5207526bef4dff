package skeleton

import "github.com/lixenwraith/vi-rig/vmath"

// PoseSource supplies this tick's animated local transform per bone
// Bones it does not report fall back to the rest pose
type PoseSource interface {
	// Tick advances the source once per logic tick, before any bone resolves
	Tick()
	LocalPose(bone int) (vmath.Transform, bool)
}

// FacingOverride is an optional PoseSource capability replacing the
// owner's orientation in the root frame
type FacingOverride interface {
	FacingOverride() (vmath.Mat3, bool)
}

// StaticPose is a PoseSource holding fixed local transforms set by gameplay or tests
type StaticPose struct {
	poses []vmath.Transform
	set   []bool
}

// NewStaticPose creates an empty pose for a bone table
func NewStaticPose(def *Definition) *StaticPose {
	return &StaticPose{
		poses: make([]vmath.Transform, def.BoneCount()),
		set:   make([]bool, def.BoneCount()),
	}
}

// Set overrides the local transform of a bone
func (p *StaticPose) Set(bone int, t vmath.Transform) {
	p.poses[bone] = t
	p.set[bone] = true
}

// Clear restores a bone to its rest pose
func (p *StaticPose) Clear(bone int) {
	p.set[bone] = false
}

func (p *StaticPose) Tick() {}

func (p *StaticPose) LocalPose(bone int) (vmath.Transform, bool) {
	if bone < 0 || bone >= len(p.set) || !p.set[bone] {
		return vmath.Transform{}, false
	}
	return p.poses[bone], true
}

// MaskedPose limits a source to the bones of a mask
type MaskedPose struct {
	Source PoseSource
	Mask   Mask
}

func (p MaskedPose) Tick() { p.Source.Tick() }

func (p MaskedPose) LocalPose(bone int) (vmath.Transform, bool) {
	if !p.Mask.Has(bone) {
		return vmath.Transform{}, false
	}
	return p.Source.LocalPose(bone)
}

// FacingOverride forwards the capability of the wrapped source
func (p MaskedPose) FacingOverride() (vmath.Mat3, bool) {
	if f, ok := p.Source.(FacingOverride); ok {
		return f.FacingOverride()
	}
	return vmath.Mat3{}, false
}
