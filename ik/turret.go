package ik

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/vi-rig/vmath"
)

// Turret yaws a bone about its local up axis toward the target
type Turret struct {
	aim
}

// NewTurret creates a yaw modifier
func NewTurret(cfg Config) (*Turret, error) {
	a, err := newAim(cfg, axis{
		solve: solveYaw,
		rot:   vmath.Yaw,
		vec:   mgl32.Vec3{0, 0, 1},
	})
	if err != nil {
		return nil, err
	}
	return &Turret{aim: a}, nil
}

func solveYaw(local vmath.Vec3) (vmath.Angle, bool) {
	if local.X == 0 && local.Y == 0 {
		return 0, false
	}
	return vmath.AngleOf(local.Y, local.X), true
}

var _ Aimer = (*Turret)(nil)
