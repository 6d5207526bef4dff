package skeleton

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/vi-rig/vmath"
)

// BonePoseModifier perturbs the rotation of exactly one bone each tick
type BonePoseModifier interface {
	// Commit applies state queued during the previous tick and clears the
	// per-tick calculated flag; called once at the start of the logic phase
	Commit()

	// Delta returns the local rotation post-multiplied onto the bone's
	// composed transform; advances internal state at most once per tick
	Delta(base vmath.Transform) vmath.Mat3

	// RenderDelta returns an interpolated visual rotation, never mutating state
	RenderDelta(alpha float32) mgl32.Quat
}

// RootSource provides a root instance's world frame at the start of each logic tick
type RootSource interface {
	RootFrame() vmath.Transform
}

// RootSourceFunc adapts a function to RootSource
type RootSourceFunc func() vmath.Transform

func (f RootSourceFunc) RootFrame() vmath.Transform { return f() }
