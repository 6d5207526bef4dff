package skeleton

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/vi-rig/vmath"
)

func translationOf(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{m[12], m[13], m[14]}
}

func TestRenderMatchesLogicAtFullAlpha(t *testing.T) {
	hull := NewInstance(hullDef(t))
	hull.SetOffset(vmath.V3FromInt(10, 0, 0), vmath.Yaw(vmath.AngleQuarter), vmath.Scale)

	logic := hull.BoneWorldTransform(3)
	hull.TickRender(1, false)

	got := hull.RenderTransform(3)
	want := TransformMat4(logic)
	if !got.ApproxEqualThreshold(want, 1e-3) {
		t.Errorf("render %v != logic %v", got, want)
	}
	if hull.BoneWorldTransform(3) != logic {
		t.Error("render phase changed logic state")
	}
}

func TestRenderInterpolatesRoot(t *testing.T) {
	hull := NewInstance(hullDef(t))
	seedIdentity(hull)
	hull.ResetTick()
	hull.SetOffset(vmath.V3FromInt(10, 0, 0), vmath.Identity3(), vmath.Scale)

	hull.TickRender(0.5, false)
	got := translationOf(hull.RenderTransform(0))
	if !got.ApproxEqualThreshold(mgl32.Vec3{5, 0, 0}, 1e-3) {
		t.Errorf("root at alpha 0.5 = %v, want (5,0,0)", got)
	}

	hull.TickRender(0, false)
	got = translationOf(hull.RenderTransform(3))
	if !got.ApproxEqualThreshold(mgl32.Vec3{100, 0, 0}, 1e-3) {
		t.Errorf("turret_base at alpha 0 = %v, want (100,0,0)", got)
	}
}

func TestRenderChildUsesParentRenderBone(t *testing.T) {
	hull := NewInstance(hullDef(t))
	turret := NewInstance(turretDef(t))
	if err := turret.SetParent(hull, 3, 0); err != nil {
		t.Fatal(err)
	}
	seedIdentity(hull)
	turret.BoneWorldTransform(0)

	turret.TickRender(1, false)
	if turret.RenderValid() {
		t.Fatal("non-root TickRender without calledByParent must no-op")
	}

	hull.TickRender(1, false)
	got := translationOf(turret.RenderTransform(1))
	if !got.ApproxEqualThreshold(mgl32.Vec3{110, 0, 5}, 1e-3) {
		t.Errorf("turret gun render at %v", got)
	}
}

func TestRenderBeforeFirstSeedIsInvalid(t *testing.T) {
	in := NewInstance(hullDef(t))
	in.TickRender(1, false)
	if in.RenderValid() {
		t.Error("instance without a root frame reported valid render data")
	}
}

func TestDrawTokens(t *testing.T) {
	hull := NewInstance(hullDef(t))
	turret := NewInstance(turretDef(t))
	if err := turret.SetParent(hull, 3, 0); err != nil {
		t.Fatal(err)
	}
	seedIdentity(hull)
	batch := NewBatch(1024)

	if hull.DrawToken(batch) != InvalidDrawToken {
		t.Fatal("token before any frame should be invalid")
	}

	hull.TickRender(1, false)
	batch.Begin()
	if err := hull.FlushPoseForDrawing(batch, false); err != nil {
		t.Fatal(err)
	}
	if got := hull.DrawToken(batch); got != 0 {
		t.Errorf("hull token = %d, want 0", got)
	}
	// 4 hull bones * 12 floats = 48 floats = texel 12
	if got := turret.DrawToken(batch); got != 12 {
		t.Errorf("turret token = %d, want 12", got)
	}
	if batch.Instances() != 2 || len(batch.Data()) != 6*12 {
		t.Errorf("batch packed %d instances, %d floats", batch.Instances(), len(batch.Data()))
	}

	// Next frame without flush: stale slots are not reported
	batch.Begin()
	if hull.DrawToken(batch) != InvalidDrawToken {
		t.Error("token from a previous frame leaked")
	}

	hull.TickRender(1, false)
	_ = hull.FlushPoseForDrawing(batch, false)
	turret.Invalidate()
	if turret.DrawToken(batch) != InvalidDrawToken {
		t.Error("invalidated instance reported a token")
	}
}

func TestBatchOverflow(t *testing.T) {
	hull := NewInstance(hullDef(t))
	seedIdentity(hull)
	hull.TickRender(1, false)

	batch := NewBatch(12)
	batch.Begin()
	err := hull.FlushPoseForDrawing(batch, false)
	if !errors.Is(err, ErrBatchFull) {
		t.Fatalf("err = %v, want ErrBatchFull", err)
	}
	if hull.DrawToken(batch) != InvalidDrawToken {
		t.Error("instance that failed to pack reported a token")
	}
}

func TestBatchPacksRows(t *testing.T) {
	b := NewBatch(24)
	b.Begin()
	m := mgl32.Translate3D(1, 2, 3)
	off, err := b.Append([]mgl32.Mat4{m})
	if err != nil || off != 0 {
		t.Fatalf("Append = %d, %v", off, err)
	}
	want := []float32{1, 0, 0, 1, 0, 1, 0, 2, 0, 0, 1, 3}
	for i, v := range want {
		if b.Data()[i] != v {
			t.Fatalf("data[%d] = %v, want %v", i, b.Data()[i], v)
		}
	}
}
