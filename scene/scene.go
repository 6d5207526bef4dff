// Package scene builds the demo rigs shared by the sandbox and the bench
package scene

import (
	"fmt"

	"github.com/lixenwraith/vi-rig/config"
	"github.com/lixenwraith/vi-rig/engine"
	"github.com/lixenwraith/vi-rig/ik"
	"github.com/lixenwraith/vi-rig/parameter"
	"github.com/lixenwraith/vi-rig/skeleton"
	"github.com/lixenwraith/vi-rig/vmath"
)

// Skeleton images
const (
	ImageTank    = "tank"
	ImageCrate   = "crate"
	ImagePennant = "pennant"
)

func bone(name, parent string, x, y, z int) skeleton.BoneDef {
	return skeleton.BoneDef{Name: name, Parent: parent, Rest: vmath.Translation(vmath.V3FromInt(x, y, z))}
}

// Definitions registers and freezes the demo skeletons
func Definitions() (*skeleton.Registry, error) {
	tank, err := skeleton.NewDefinition(ImageTank, []skeleton.BoneDef{
		{Name: "hull"},
		bone("turret", "hull", 0, 0, 2),
		bone("barrel", "turret", 1, 0, 0),
		bone("muzzle_l", "barrel", 4, 1, 0),
		bone("muzzle_r", "barrel", 4, -1, 0),
		bone("hook", "hull", -3, 0, 1),
		bone("mast", "turret", -1, 0, 2),
	}, map[string][]string{
		"upper": {"turret", "barrel", "muzzle_l", "muzzle_r", "mast"},
	})
	if err != nil {
		return nil, err
	}
	crate, err := skeleton.NewDefinition(ImageCrate, []skeleton.BoneDef{{Name: "root"}}, nil)
	if err != nil {
		return nil, err
	}
	pennant, err := skeleton.NewDefinition(ImagePennant, []skeleton.BoneDef{
		{Name: "pole"},
		bone("cloth", "pole", 0, 0, 1),
	}, nil)
	if err != nil {
		return nil, err
	}

	reg := skeleton.NewRegistry()
	for _, d := range []*skeleton.Definition{tank, crate, pennant} {
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}
	reg.Freeze()
	return reg, nil
}

// AimConfigs derives turret yaw and barrel pitch settings from the rig configuration
func AimConfigs(rig config.RigConfig) (yaw, pitch ik.Config) {
	yaw = ik.DefaultConfig()
	yaw.Speed = vmath.NewAngle(rig.TurnSpeed)
	yaw.RealignDelay = rig.RealignDelay
	yaw.Tolerance = vmath.NewAngle(rig.FacingTolerance)

	pitch = yaw
	pitch.Limits = vmath.WindowFromDegrees(parameter.BarrelMinPitchDeg, parameter.BarrelMaxPitchDeg)
	return yaw, pitch
}

// Tank is a spawned tank with its parts
type Tank struct {
	Actor   *engine.Actor
	Turret  *engine.Turret
	Guns    *engine.Armament
	Hook    *engine.AttachPoint
	Pennant *engine.SkeletonOwner
}

// SpawnTank adds a tank with a twin-gun turret, a tow hook and a render-only
// pennant on the turret mast
func SpawnTank(w *engine.World, name string, pos vmath.Vec3, rig config.RigConfig) (*Tank, error) {
	a := engine.NewActor(name, pos)
	body, err := engine.NewSkeletonOwner(a, engine.OwnerConfig{Image: ImageTank}, w.Skeletons, w.Logger, engine.WithStatus(w.Status))
	if err != nil {
		return nil, err
	}

	yaw, pitch := AimConfigs(rig)
	turret, err := engine.NewTurret(a, engine.TurretConfig{
		Name:       "main",
		TurretBone: "turret",
		BarrelBone: "barrel",
		Turret:     yaw,
		Barrel:     pitch,
	})
	if err != nil {
		return nil, err
	}

	guns, err := engine.NewArmament(a, engine.ArmamentConfig{
		Name:            "twin",
		Turret:          "main",
		MuzzleBones:     []string{"muzzle_l", "muzzle_r"},
		ReloadTicks:     parameter.ReloadTicks,
		Range:           vmath.FromInt(parameter.ArmamentRange),
		FacingTolerance: vmath.NewAngle(rig.FacingTolerance),
	})
	if err != nil {
		return nil, err
	}

	hook, err := engine.NewAttachPoint(a, engine.AttachPointConfig{Name: "tow", Bone: "hook"}, w.Logger)
	if err != nil {
		return nil, err
	}

	pennant, err := engine.NewSkeletonOwner(a, engine.OwnerConfig{Name: "pennant", Image: ImagePennant, RenderOnly: true}, w.Skeletons, w.Logger, engine.WithStatus(w.Status))
	if err != nil {
		return nil, err
	}
	if !pennant.SetParent(body, body.MustBoneId("mast"), 0) {
		return nil, fmt.Errorf("tank %s: pennant refused by mast", name)
	}

	w.AddActor(a)
	return &Tank{
		Actor:   a,
		Turret:  turret,
		Guns:    guns,
		Hook:    hook,
		Pennant: pennant,
	}, nil
}

// SpawnCrate adds a single-bone cargo actor
func SpawnCrate(w *engine.World, name string, pos vmath.Vec3) (*engine.Actor, error) {
	a := engine.NewActor(name, pos)
	if _, err := engine.NewSkeletonOwner(a, engine.OwnerConfig{Image: ImageCrate}, w.Skeletons, w.Logger, engine.WithStatus(w.Status)); err != nil {
		return nil, err
	}
	w.AddActor(a)
	return a, nil
}

// Populate spawns a grid of tanks, each towing a crate, every tank engaging
// a point offset from its own position so turrets keep moving
func Populate(w *engine.World, rig config.RigConfig, tanks int) ([]*Tank, error) {
	const spacing = 20
	cols := 1
	for cols*cols < tanks {
		cols++
	}

	out := make([]*Tank, 0, tanks)
	for i := range tanks {
		x, y := (i%cols)*spacing, (i/cols)*spacing
		t, err := SpawnTank(w, fmt.Sprintf("tank-%d", i), vmath.V3FromInt(x, y, 0), rig)
		if err != nil {
			return nil, err
		}
		crate, err := SpawnCrate(w, fmt.Sprintf("crate-%d", i), vmath.V3FromInt(x-4, y, 0))
		if err != nil {
			return nil, err
		}
		out = append(out, t)

		if !t.Hook.Attach(crate) {
			return nil, fmt.Errorf("tank %d refused its crate", i)
		}
		t.Actor.SetTarget(vmath.V3FromInt(x+(i%7)*10-30, y+50, i%5))
	}
	return out, nil
}
