package engine

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/vi-rig/vmath"
)

// ErrNoMuzzle reports an armament without muzzle bones
var ErrNoMuzzle = errors.New("armament needs at least one muzzle bone")

// ArmamentConfig describes a weapon firing from skeleton bones
type ArmamentConfig struct {
	Name     string
	Skeleton string
	// Turret gates firing on facing tolerance; empty fires in any direction
	Turret      string
	MuzzleBones []string
	ReloadTicks int
	// Range in Q32.32 world units; zero is unlimited
	Range           int64
	FacingTolerance vmath.Angle
}

// Shot is a projectile spawn read from a muzzle bone
type Shot struct {
	Origin    vmath.Vec3
	Rotation  vmath.Mat3
	Direction vmath.Vec3
	Target    vmath.Vec3
	Barrel    int
}

// Armament fires from muzzle bones in round-robin order
type Armament struct {
	name      string
	actor     *Actor
	owner     *SkeletonOwner
	turret    *Turret
	bones     []int
	reload    int
	cooldown  int
	rng       int64
	tolerance vmath.Angle
	next      int
}

// NewArmament resolves muzzle bones and the gating turret
func NewArmament(actor *Actor, cfg ArmamentConfig) (*Armament, error) {
	if len(cfg.MuzzleBones) == 0 {
		return nil, fmt.Errorf("armament %s on %s: %w", cfg.Name, actor.Name, ErrNoMuzzle)
	}
	owner := actor.Owner(cfg.Skeleton)
	if owner == nil {
		return nil, fmt.Errorf("armament %s on %s: no skeleton %q", cfg.Name, actor.Name, cfg.Skeleton)
	}

	a := &Armament{
		name:      cfg.Name,
		actor:     actor,
		owner:     owner,
		reload:    cfg.ReloadTicks,
		rng:       cfg.Range,
		tolerance: cfg.FacingTolerance,
		bones:     make([]int, len(cfg.MuzzleBones)),
	}
	for i, name := range cfg.MuzzleBones {
		id, err := owner.GetBoneId(name)
		if err != nil {
			return nil, fmt.Errorf("armament %s: %w", cfg.Name, err)
		}
		a.bones[i] = id
	}
	if cfg.Turret != "" {
		if a.turret = actor.Turret(cfg.Turret); a.turret == nil {
			return nil, fmt.Errorf("armament %s on %s: no turret %q", cfg.Name, actor.Name, cfg.Turret)
		}
	}

	actor.armaments = append(actor.armaments, a)
	return a, nil
}

func (a *Armament) Name() string      { return a.name }
func (a *Armament) Turret() *Turret   { return a.turret }
func (a *Armament) IsReloading() bool { return a.cooldown > 0 }

// Tick counts down the reload
func (a *Armament) Tick() {
	if a.cooldown > 0 {
		a.cooldown--
	}
}

// CanFire checks reload, turret facing and range
func (a *Armament) CanFire(target vmath.Vec3) bool {
	if a.IsReloading() || a.actor.Dead {
		return false
	}

	a.owner.UpdateBone(a.bones[a.next])

	if a.turret != nil && !a.turret.FacingWithinTolerance(a.tolerance) {
		return false
	}
	if a.rng > 0 && vmath.V3Dist(a.actor.Position, target) > a.rng {
		return false
	}
	return true
}

// Fire spawns a shot from the next muzzle when CanFire allows it
func (a *Armament) Fire(target vmath.Vec3) (Shot, bool) {
	if !a.CanFire(target) {
		return Shot{}, false
	}
	barrel := a.next
	t := a.owner.GetWorldTransform(a.bones[barrel])
	a.next = (a.next + 1) % len(a.bones)
	a.cooldown = a.reload
	return Shot{
		Origin:    t.Pos,
		Rotation:  t.Rot,
		Direction: t.Rot.Forward(),
		Target:    target,
		Barrel:    barrel,
	}, true
}
