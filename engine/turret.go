package engine

import (
	"fmt"

	"github.com/lixenwraith/vi-rig/ik"
	"github.com/lixenwraith/vi-rig/vmath"
)

// TurretConfig binds aim modifiers to bones of one of the actor's skeletons
type TurretConfig struct {
	Name string
	// Skeleton names the owner; empty selects the actor's main skeleton
	Skeleton   string
	TurretBone string
	// BarrelBone is optional; without it the turret only yaws
	BarrelBone string
	Turret     ik.Config
	Barrel     ik.Config
}

// Turret couples a yaw modifier and an optional pitch modifier aimed at one target
type Turret struct {
	name      string
	owner     *SkeletonOwner
	yawID     int
	tipID     int
	yaw       *ik.Turret
	pitch     *ik.Barrel
	tolerance vmath.Angle
}

// NewTurret resolves the bones and registers the modifiers; missing bones
// or an invalid aim config abort construction
func NewTurret(actor *Actor, cfg TurretConfig) (*Turret, error) {
	owner := actor.Owner(cfg.Skeleton)
	if owner == nil {
		return nil, fmt.Errorf("turret %s on %s: no skeleton %q", cfg.Name, actor.Name, cfg.Skeleton)
	}

	yawID, err := owner.GetBoneId(cfg.TurretBone)
	if err != nil {
		return nil, fmt.Errorf("turret %s: %w", cfg.Name, err)
	}
	yaw, err := ik.NewTurret(cfg.Turret)
	if err != nil {
		return nil, fmt.Errorf("turret %s: %w", cfg.Name, err)
	}

	t := &Turret{
		name:      cfg.Name,
		owner:     owner,
		yawID:     yawID,
		tipID:     yawID,
		yaw:       yaw,
		tolerance: cfg.Turret.Tolerance,
	}

	if cfg.BarrelBone != "" {
		pitchID, err := owner.GetBoneId(cfg.BarrelBone)
		if err != nil {
			return nil, fmt.Errorf("turret %s: %w", cfg.Name, err)
		}
		if t.pitch, err = ik.NewBarrel(cfg.Barrel); err != nil {
			return nil, fmt.Errorf("turret %s barrel: %w", cfg.Name, err)
		}
		t.tipID = pitchID
	}

	if err := owner.RegisterBonePoseModifier(yawID, t.yaw); err != nil {
		return nil, fmt.Errorf("turret %s: %w", cfg.Name, err)
	}
	if t.pitch != nil {
		if err := owner.RegisterBonePoseModifier(t.tipID, t.pitch); err != nil {
			owner.UnregisterBonePoseModifier(yawID)
			return nil, fmt.Errorf("turret %s: %w", cfg.Name, err)
		}
	}

	actor.turrets = append(actor.turrets, t)
	return t, nil
}

func (t *Turret) Name() string           { return t.name }
func (t *Turret) Owner() *SkeletonOwner  { return t.owner }
func (t *Turret) Yaw() *ik.Turret        { return t.yaw }
func (t *Turret) Pitch() *ik.Barrel      { return t.pitch }
func (t *Turret) TipBone() int           { return t.tipID }
func (t *Turret) Tolerance() vmath.Angle { return t.tolerance }

// FaceTarget queues the target for both axes and reports whether the turret
// already faces it within its configured tolerance
func (t *Turret) FaceTarget(target vmath.Vec3) bool {
	t.yaw.FaceTarget(target)
	if t.pitch != nil {
		t.pitch.FaceTarget(target)
	}
	t.Update()
	return t.FacingWithinTolerance(t.tolerance)
}

// FacingWithinTolerance requires every axis to be aiming within tol
func (t *Turret) FacingWithinTolerance(tol vmath.Angle) bool {
	if !t.yaw.FacingWithinTolerance(tol) {
		return false
	}
	return t.pitch == nil || t.pitch.FacingWithinTolerance(tol)
}

// Realign sends both axes home
func (t *Turret) Realign() {
	t.yaw.Realign()
	if t.pitch != nil {
		t.pitch.Realign()
	}
}

// Update resolves both aim bones, advancing their modifiers for this tick
func (t *Turret) Update() {
	if t.owner.inst.IsRenderOnly() {
		return
	}
	t.owner.UpdateBone(t.yawID)
	t.owner.UpdateBone(t.tipID)
}

// State reports the yaw axis state, which leads the barrel
func (t *Turret) State() ik.State { return t.yaw.State() }
