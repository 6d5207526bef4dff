package skeleton

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/vi-rig/vmath"
)

// TickRender recomputes render transforms for this tree with root and
// modifier inputs interpolated by alpha in [0, 1] between the previous and
// current tick. Safe to skip or repeat; logic state is never touched.
// No-op on a non-root unless calledByParent
func (in *Instance) TickRender(alpha float32, calledByParent bool) {
	if !calledByParent && in.parent != nil {
		return
	}

	in.updateRender(alpha)

	for _, c := range in.children {
		c.TickRender(alpha, true)
	}
}

func (in *Instance) updateRender(alpha float32) {
	if !in.valid {
		in.renderValid = false
		return
	}

	var rootM mgl32.Mat4
	if p := in.parent; p != nil {
		if !p.renderValid {
			in.renderValid = false
			return
		}
		rootM = matWithScale(p.render[in.parentBone], float32(vmath.ToFloat(in.childScale())))
	} else {
		if !in.hasRoot {
			in.renderValid = false
			return
		}
		rootM = lerpTransform(in.prevRoot, in.root, alpha)
	}

	for bone := range in.render {
		if in.overrides[bone] {
			in.render[bone] = TransformMat4(in.logic[bone])
			continue
		}

		base := rootM
		if p := in.def.parents[bone]; p >= 0 {
			base = in.render[p]
		}
		m := base.Mul4(TransformMat4(in.localPose(bone)))
		if mod := in.modifiers[bone]; mod != nil {
			m = m.Mul4(mod.RenderDelta(alpha).Mat4())
		}
		in.render[bone] = m
	}
	in.renderValid = true
}

// RenderValid reports whether the render buffer holds this frame's pose
func (in *Instance) RenderValid() bool { return in.valid && in.renderValid }

// RenderTransform returns a bone's render transform
func (in *Instance) RenderTransform(bone int) mgl32.Mat4 { return in.render[bone] }

// RenderBuffer exposes the render transforms indexed by bone id; read-only
func (in *Instance) RenderBuffer() []mgl32.Mat4 { return in.render }

// TransformMat4 converts a fixed point transform to a column-major float matrix
func TransformMat4(t vmath.Transform) mgl32.Mat4 {
	s := float32(vmath.ToFloat(t.Scale))
	r := t.Rot
	f := func(v int64) float32 { return float32(vmath.ToFloat(v)) }
	x, y, z := vmath.V3Float(t.Pos)
	return mgl32.Mat4{
		f(r[0]) * s, f(r[3]) * s, f(r[6]) * s, 0,
		f(r[1]) * s, f(r[4]) * s, f(r[7]) * s, 0,
		f(r[2]) * s, f(r[5]) * s, f(r[8]) * s, 0,
		x, y, z, 1,
	}
}

// RotationQuat converts a fixed point rotation to a float quaternion
func RotationQuat(m vmath.Mat3) mgl32.Quat {
	return mgl32.Mat4ToQuat(TransformMat4(vmath.Transform{Rot: m, Scale: vmath.Scale})).Normalize()
}

func lerpTransform(a, b vmath.Transform, alpha float32) mgl32.Mat4 {
	ax, ay, az := vmath.V3Float(a.Pos)
	bx, by, bz := vmath.V3Float(b.Pos)
	pos := mgl32.Vec3{ax, ay, az}.Add(mgl32.Vec3{bx - ax, by - ay, bz - az}.Mul(alpha))

	q := mgl32.QuatSlerp(RotationQuat(a.Rot), RotationQuat(b.Rot), alpha)

	sa := float32(vmath.ToFloat(a.Scale))
	sb := float32(vmath.ToFloat(b.Scale))
	s := sa + (sb-sa)*alpha

	return mgl32.Translate3D(pos[0], pos[1], pos[2]).Mul4(q.Mat4()).Mul4(mgl32.Scale3D(s, s, s))
}

// matWithScale replaces the uniform scale baked into an affine matrix
func matWithScale(m mgl32.Mat4, s float32) mgl32.Mat4 {
	cur := mgl32.Vec3{m[0], m[1], m[2]}.Len()
	if cur == 0 {
		return m
	}
	k := s / cur
	return m.Mul4(mgl32.Scale3D(k, k, k))
}
