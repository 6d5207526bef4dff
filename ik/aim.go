package ik

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/vi-rig/parameter"
	"github.com/lixenwraith/vi-rig/skeleton"
	"github.com/lixenwraith/vi-rig/vmath"
)

// ErrInvalidConfig reports an unusable aim configuration
var ErrInvalidConfig = errors.New("invalid aim config")

// State is the aim state machine state
type State uint8

const (
	// Keep holds the current orientation until re-triggered
	Keep State = iota
	// Aim rotates toward the committed target
	Aim
	// Realign rotates back to the home orientation
	Realign
)

func (s State) String() string {
	switch s {
	case Keep:
		return "keep"
	case Aim:
		return "aim"
	case Realign:
		return "realign"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Config tunes one aim axis; angles are in vmath.Angle units
type Config struct {
	Speed        vmath.Angle
	Home         vmath.Angle
	Limits       vmath.Window
	Tolerance    vmath.Angle
	RealignDelay int
}

// DefaultConfig returns an unrestricted axis with default speed and delay
func DefaultConfig() Config {
	return Config{
		Speed:        parameter.TurnSpeed,
		Limits:       vmath.FullWindow(),
		Tolerance:    parameter.FacingTolerance,
		RealignDelay: parameter.RealignDelay,
	}
}

func (c Config) validate() (Config, error) {
	if c.Speed <= 0 || c.Speed >= vmath.AngleHalf {
		return c, fmt.Errorf("%w: speed %d", ErrInvalidConfig, c.Speed)
	}
	if c.Tolerance < 0 {
		return c, fmt.Errorf("%w: tolerance %d", ErrInvalidConfig, c.Tolerance)
	}
	c.Home = c.Limits.Clamp(c.Home)
	return c, nil
}

// Aimer is the capability shared by aiming pose modifiers
type Aimer interface {
	skeleton.BonePoseModifier

	// FaceTarget queues a world-space target for the next commit and reports
	// whether the committed orientation is already within tolerance
	FaceTarget(target vmath.Vec3) bool
	Realign()
	FacingWithinTolerance(tol vmath.Angle) bool
	State() State
	Current() vmath.Angle
	Desired() vmath.Angle
}

// axis binds the aim state machine to one rotation axis
type axis struct {
	// solve returns the angle that points the bone at a direction in its base frame
	solve func(local vmath.Vec3) (vmath.Angle, bool)
	rot   func(vmath.Angle) vmath.Mat3
	vec   mgl32.Vec3
}

// aim is the state machine shared by Turret and Barrel
type aim struct {
	cfg  Config
	axis axis

	state         State
	desiredState  State
	target        vmath.Vec3
	desiredTarget vmath.Vec3
	requested     bool
	idle          int

	current    vmath.Angle
	prev       vmath.Angle
	desired    vmath.Angle
	calculated bool
	delta      vmath.Mat3
}

func newAim(cfg Config, ax axis) (aim, error) {
	cfg, err := cfg.validate()
	if err != nil {
		return aim{}, err
	}
	return aim{
		cfg:     cfg,
		axis:    ax,
		current: cfg.Home,
		prev:    cfg.Home,
		desired: cfg.Home,
		delta:   ax.rot(cfg.Home),
	}, nil
}

// Commit copies queued state into the active state and counts idle ticks
func (a *aim) Commit() {
	if a.requested {
		a.idle = 0
	} else {
		a.idle++
		if a.cfg.RealignDelay >= 0 && a.idle >= a.cfg.RealignDelay && a.desiredState == Aim {
			a.desiredState = Realign
		}
	}
	a.requested = false

	a.state = a.desiredState
	a.target = a.desiredTarget
	a.prev = a.current
	a.calculated = false
}

// Delta advances the orientation once per tick and returns the bone rotation
func (a *aim) Delta(base vmath.Transform) vmath.Mat3 {
	if !a.calculated {
		a.calculated = true
		a.advance(base)
	}
	return a.delta
}

func (a *aim) advance(base vmath.Transform) {
	switch a.state {
	case Aim:
		raw, ok := a.axis.solve(base.ToLocalDir(a.target))
		if !ok {
			raw = a.current
		}
		a.desired = a.cfg.Limits.Clamp(raw)
	case Realign:
		a.desired = a.cfg.Home
	default:
		return
	}

	if a.current != a.desired {
		a.current = a.cfg.Limits.Step(a.current, a.desired, a.cfg.Speed)
		a.delta = a.axis.rot(a.current)
	}

	if a.state == Realign && a.current == a.cfg.Home {
		a.state = Keep
		if a.desiredState == Realign {
			a.desiredState = Keep
		}
	}
}

// RenderDelta interpolates from the orientation at the start of the tick
func (a *aim) RenderDelta(alpha float32) mgl32.Quat {
	d := float32(vmath.AngleDelta(a.prev, a.current))
	units := float32(a.prev) + d*alpha
	return mgl32.QuatRotate(units*(2*math.Pi)/vmath.LUTSize, a.axis.vec)
}

func (a *aim) FaceTarget(target vmath.Vec3) bool {
	a.desiredState = Aim
	a.desiredTarget = target
	a.requested = true
	return a.FacingWithinTolerance(a.cfg.Tolerance)
}

// Realign queues a return to the home orientation
func (a *aim) Realign() {
	a.desiredState = Realign
}

// FacingWithinTolerance is true only while aiming and within tol of the clamped desired angle
func (a *aim) FacingWithinTolerance(tol vmath.Angle) bool {
	return a.state == Aim && vmath.AngleDist(a.current, a.desired) <= int32(tol)
}

func (a *aim) State() State                { return a.state }
func (a *aim) Current() vmath.Angle        { return a.current }
func (a *aim) Desired() vmath.Angle        { return a.desired }
func (a *aim) Home() vmath.Angle           { return a.cfg.Home }
func (a *aim) Config() Config              { return a.cfg }
func (a *aim) CommittedTarget() vmath.Vec3 { return a.target }
