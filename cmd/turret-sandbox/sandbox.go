package main

import (
	"fmt"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/vi-rig/audio"
	"github.com/lixenwraith/vi-rig/engine"
	"github.com/lixenwraith/vi-rig/ik"
	"github.com/lixenwraith/vi-rig/parameter"
	"github.com/lixenwraith/vi-rig/scene"
	"github.com/lixenwraith/vi-rig/status"
	"github.com/lixenwraith/vi-rig/system"
	"github.com/lixenwraith/vi-rig/vmath"
)

const (
	// cellsPerUnit maps world units to terminal columns; rows are twice as tall
	cellsPerUnit = 2
	shotFrames   = 6
	cursorStep   = 1
)

type tracer struct {
	from, to mgl32.Vec3
	frames   int
}

// sandbox draws the world top-down after the render phase and applies input
type sandbox struct {
	screen tcell.Screen
	world  *engine.World
	sched  *engine.Scheduler
	tank   *scene.Tank
	crate  *engine.Actor
	player *audio.Player
	edges  *audio.EdgeTracker

	cursor  vmath.Vec3
	engaged bool
	tracers []tracer
	lastYaw ik.State

	alpha  *status.AtomicFloat
	paused *atomic.Bool
	state  *status.AtomicString
}

func (s *sandbox) Priority() int { return parameter.PriorityRender + 1 }

// onFire runs inside the logic tick
func (s *sandbox) onFire(fs system.FiredShot) {
	from := mgl32.Vec3{float32(vmath.ToFloat(fs.Shot.Origin.X)), float32(vmath.ToFloat(fs.Shot.Origin.Y)), 0}
	to := mgl32.Vec3{float32(vmath.ToFloat(fs.Shot.Target.X)), float32(vmath.ToFloat(fs.Shot.Target.Y)), 0}
	s.tracers = append(s.tracers, tracer{from: from, to: to, frames: shotFrames})
	s.player.Play(audio.CueFire)
}

func (s *sandbox) Frame(w *engine.World, alpha float32) {
	s.alpha.Store(float64(alpha))
	s.paused.Store(s.sched.IsPaused())

	turret := s.tank.Turret
	state := turret.State()
	s.state.Store(state.String())
	if s.edges.Observe(turret.Name(), s.engaged && turret.FacingWithinTolerance(turret.Tolerance())) {
		s.player.Play(audio.CueLock)
	}
	if state == ik.Realign && s.lastYaw != ik.Realign {
		s.player.Play(audio.CueRealign)
	}
	s.lastYaw = state

	s.draw(w, alpha)
}

func (s *sandbox) toCell(x, y float32) (int, int) {
	width, height := s.screen.Size()
	return width/2 + int(x*cellsPerUnit), (height-2)/2 - int(y)
}

func (s *sandbox) put(x, y float32, r rune, style tcell.Style) {
	cx, cy := s.toCell(x, y)
	width, height := s.screen.Size()
	if cx < 0 || cy < 0 || cx >= width || cy >= height-2 {
		return
	}
	s.screen.SetContent(cx, cy, r, nil, style)
}

// line plots a segment with simple stepping
func (s *sandbox) line(a, b mgl32.Vec3, r rune, style tcell.Style) {
	d := b.Sub(a)
	steps := int(max(abs32(d.X())*cellsPerUnit, abs32(d.Y()))) + 1
	for i := 0; i <= steps; i++ {
		p := a.Add(d.Mul(float32(i) / float32(steps)))
		s.put(p.X(), p.Y(), r, style)
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// bonePos reads the interpolated render position of a bone
func bonePos(o *engine.SkeletonOwner, name string) mgl32.Vec3 {
	return o.Instance().RenderTransform(o.MustBoneId(name)).Col(3).Vec3()
}

func (s *sandbox) draw(w *engine.World, alpha float32) {
	s.screen.Clear()

	hull := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	gun := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	cargo := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	shot := tcell.StyleDefault.Foreground(tcell.ColorRed)

	body := s.tank.Actor.Main()
	if body.Instance().RenderValid() {
		turret := bonePos(body, "turret")
		s.line(turret, bonePos(body, "muzzle_l"), '=', gun)
		s.line(turret, bonePos(body, "muzzle_r"), '=', gun)
		hook := bonePos(body, "hook")
		s.put(hook.X(), hook.Y(), 'o', hull)
		s.put(turret.X(), turret.Y(), 'H', hull)
	}
	if pennant := s.tank.Pennant.Instance(); pennant.RenderValid() {
		p := pennant.RenderTransform(1).Col(3)
		s.put(p.X(), p.Y(), '^', gun)
	}
	if crate := s.crate.Main().Instance(); crate.RenderValid() {
		p := crate.RenderTransform(0).Col(3)
		s.put(p.X(), p.Y(), '#', cargo)
	}

	kept := s.tracers[:0]
	for _, t := range s.tracers {
		s.line(t.from, t.to, '.', shot)
		if t.frames--; t.frames > 0 {
			kept = append(kept, t)
		}
	}
	s.tracers = kept

	cx, cy := float32(vmath.ToFloat(s.cursor.X)), float32(vmath.ToFloat(s.cursor.Y))
	mark := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	if s.engaged {
		mark = mark.Reverse(true)
	}
	s.put(cx, cy, 'X', mark)

	s.status(w, alpha)
	s.screen.Show()
}

func (s *sandbox) status(w *engine.World, alpha float32) {
	_, height := s.screen.Size()
	yaw := s.tank.Turret.Yaw()
	pitch := s.tank.Turret.Pitch()
	line := fmt.Sprintf("tick %d  alpha %.2f  turret %s yaw %d° pitch %d°  shots %d  dropped %d",
		w.TickCount(), alpha, yaw.State(), yaw.Current().Degrees(), pitch.Current().Degrees(),
		w.Status.Ints.Get(status.ArmamentShots).Load(), s.sched.Dropped())
	if s.sched.IsPaused() {
		line += "  [paused]"
	}
	help := "hjkl move  space engage  r stand down  t tow  p pause  q quit"
	for i, r := range line {
		s.screen.SetContent(i, height-2, r, nil, tcell.StyleDefault)
	}
	for i, r := range help {
		s.screen.SetContent(i, height-1, r, nil, tcell.StyleDefault.Dim(true))
	}
}

// handle applies one input event; false quits
func (s *sandbox) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		s.world.RunSafe(func() { s.key(ev.Rune()) })
		return ev.Rune() != 'q'

	case *tcell.EventResize:
		s.screen.Sync()
	}
	return true
}

func (s *sandbox) key(r rune) {
	step := vmath.FromInt(cursorStep)
	switch r {
	case 'h':
		s.cursor.X -= step
	case 'l':
		s.cursor.X += step
	case 'k':
		s.cursor.Y += step
	case 'j':
		s.cursor.Y -= step
	case 'K':
		s.cursor.Z += step
	case 'J':
		s.cursor.Z -= step
	case ' ':
		s.engaged = true
	case 'r':
		s.engaged = false
		s.tank.Actor.ClearTarget()
		s.tank.Turret.Realign()
		return
	case 't':
		if s.tank.Hook.Carried() != nil {
			s.tank.Hook.Release()
		} else {
			s.tank.Hook.Attach(s.crate)
		}
		return
	case 'p':
		if s.sched.IsPaused() {
			s.sched.Resume()
		} else {
			s.sched.Pause()
		}
		return
	default:
		return
	}
	if s.engaged {
		s.tank.Actor.SetTarget(s.cursor)
	}
}
