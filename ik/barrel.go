package ik

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/vi-rig/vmath"
)

// Barrel pitches a bone from its local forward toward its local up axis
// Elevation is measured against the horizontal distance, so it is
// independent of whether the parent turret has finished yawing
type Barrel struct {
	aim
}

// NewBarrel creates a pitch modifier
func NewBarrel(cfg Config) (*Barrel, error) {
	a, err := newAim(cfg, axis{
		solve: solvePitch,
		rot:   vmath.Pitch,
		vec:   mgl32.Vec3{0, -1, 0},
	})
	if err != nil {
		return nil, err
	}
	return &Barrel{aim: a}, nil
}

func solvePitch(local vmath.Vec3) (vmath.Angle, bool) {
	flat := vmath.Hypot(local.X, local.Y)
	if flat == 0 && local.Z == 0 {
		return 0, false
	}
	return vmath.AngleOf(local.Z, flat), true
}

var _ Aimer = (*Barrel)(nil)
