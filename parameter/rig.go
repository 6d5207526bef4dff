package parameter

// Turret and barrel aiming defaults, in angle units (1024 per turn)
const (
	// TurnSpeed is the maximum rotation per logic tick
	TurnSpeed = 5

	// RealignDelay is the number of ticks without a target before a turret returns home
	// Negative disables realignment
	RealignDelay = 40

	// FacingTolerance is the angular error at which a turret counts as on target
	FacingTolerance = 4

	// BarrelMinPitchDeg and BarrelMaxPitchDeg bound barrel elevation
	BarrelMinPitchDeg = -10
	BarrelMaxPitchDeg = 60
)

// Armament defaults
const (
	// ReloadTicks is the delay between shots from one armament
	ReloadTicks = 15

	// ArmamentRange is the maximum engagement distance in world units
	ArmamentRange = 400
)
