package vmath

// Transform is a similarity transform: uniform scale, then rotation, then translation
type Transform struct {
	Pos   Vec3
	Rot   Mat3
	Scale int64
}

// Identity returns the identity transform
func Identity() Transform {
	return Transform{Rot: Identity3(), Scale: Scale}
}

// NewTransform builds a transform from its parts
func NewTransform(pos Vec3, rot Mat3, scale int64) Transform {
	return Transform{Pos: pos, Rot: rot, Scale: scale}
}

// Translation returns a pure translation
func Translation(pos Vec3) Transform {
	return Transform{Pos: pos, Rot: Identity3(), Scale: Scale}
}

// Compose returns parent * local: local is expressed in the parent's frame
func Compose(parent, local Transform) Transform {
	return Transform{
		Pos:   parent.Apply(local.Pos),
		Rot:   parent.Rot.Mul(local.Rot),
		Scale: Mul(parent.Scale, local.Scale),
	}
}

// Apply maps a local point into the transform's parent space
func (t Transform) Apply(p Vec3) Vec3 {
	return V3Add(t.Pos, t.Rot.MulVec(V3Scale(p, t.Scale)))
}

// ToLocalDir expresses the direction from the origin to a world point in the
// transform's rotated basis; scale is ignored as it does not change direction
func (t Transform) ToLocalDir(world Vec3) Vec3 {
	return t.Rot.Transpose().MulVec(V3Sub(world, t.Pos))
}

// WithScale replaces the scale factor
func (t Transform) WithScale(s int64) Transform {
	t.Scale = s
	return t
}

// Rotated post-multiplies a local rotation
func (t Transform) Rotated(delta Mat3) Transform {
	t.Rot = t.Rot.Mul(delta)
	return t
}
