package system

import (
	"sync/atomic"

	"github.com/lixenwraith/vi-rig/engine"
	"github.com/lixenwraith/vi-rig/parameter"
	"github.com/lixenwraith/vi-rig/status"
)

// FiredShot pairs a shot with the actor and weapon that fired it
type FiredShot struct {
	Actor    *engine.Actor
	Armament *engine.Armament
	Shot     engine.Shot
}

// ArmamentSystem turns engage orders into turret aim and fire
// Actors without an order leave their turrets to realign after the delay
type ArmamentSystem struct {
	shots   []FiredShot
	onFire  func(FiredShot)
	enabled bool

	statShots *atomic.Int64
}

// NewArmamentSystem creates the fire control system
func NewArmamentSystem(w *engine.World) *ArmamentSystem {
	return &ArmamentSystem{
		enabled:   true,
		statShots: w.Status.Ints.Get(status.ArmamentShots),
	}
}

func (s *ArmamentSystem) Name() string { return "armament" }

func (s *ArmamentSystem) Priority() int { return parameter.PriorityArmament }

func (s *ArmamentSystem) SetEnabled(enabled bool) { s.enabled = enabled }

// OnFire sets a callback invoked for every shot, in fire order
func (s *ArmamentSystem) OnFire(fn func(FiredShot)) { s.onFire = fn }

// Shots returns the shots fired during the last tick
func (s *ArmamentSystem) Shots() []FiredShot { return s.shots }

func (s *ArmamentSystem) Tick(w *engine.World) {
	s.shots = s.shots[:0]
	if !s.enabled {
		return
	}

	for _, a := range w.Actors() {
		if a.Dead {
			continue
		}
		for _, arm := range a.Armaments() {
			arm.Tick()
		}

		target, ok := a.Target()
		if !ok {
			continue
		}
		for _, t := range a.Turrets() {
			t.FaceTarget(target)
		}
		for _, arm := range a.Armaments() {
			shot, fired := arm.Fire(target)
			if !fired {
				continue
			}
			fs := FiredShot{Actor: a, Armament: arm, Shot: shot}
			s.shots = append(s.shots, fs)
			s.statShots.Add(1)
			if s.onFire != nil {
				s.onFire(fs)
			}
		}
	}
}
