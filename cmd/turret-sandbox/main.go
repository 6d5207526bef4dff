// turret-sandbox drives one tank in the terminal: move the target with hjkl,
// engage with space, stand down with r, tow the crate with t, pause with p
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-rig/audio"
	"github.com/lixenwraith/vi-rig/config"
	"github.com/lixenwraith/vi-rig/engine"
	"github.com/lixenwraith/vi-rig/logging"
	"github.com/lixenwraith/vi-rig/parameter"
	"github.com/lixenwraith/vi-rig/scene"
	"github.com/lixenwraith/vi-rig/service"
	"github.com/lixenwraith/vi-rig/status"
	"github.com/lixenwraith/vi-rig/syncreport"
	"github.com/lixenwraith/vi-rig/system"
	"github.com/lixenwraith/vi-rig/vmath"
)

var configPath = flag.String("config", "", "Config file (json, yaml or toml)")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the view; logs go to the file only
	logCfg := cfg.Log
	logCfg.Console = false
	logger := zerolog.Nop()
	if logCfg.File != "" {
		l, closer, err := logging.New(logCfg, io.Discard)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logging: %v\n", err)
			os.Exit(1)
		}
		defer closer.Close()
		logger = l
	}

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("sandbox failed")
		fmt.Fprintf(os.Stderr, "turret-sandbox: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	// Restore the terminal before printing a crash
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\nSANDBOX CRASHED: %v\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()

	defs, err := scene.Definitions()
	if err != nil {
		return err
	}
	reg := status.NewRegistry()
	w := engine.NewWorld(defs, reg, logger)

	player := audio.NewPlayer(cfg.Audio, logger)

	var store *syncreport.Store
	if cfg.Sync.Enabled {
		store, err = syncreport.Open(cfg.Sync.Path, logger)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	arms := system.NewArmamentSystem(w)
	w.AddSystem(system.NewSkeletonSystem())
	w.AddSystem(system.NewAttachSystem())
	w.AddSystem(arms)
	w.AddSystem(system.NewSyncSystem(w, store, cfg.Sync.Every))
	w.AddSystem(system.NewRenderSystem(w, cfg.Rig.BatchFloats))

	tank, err := scene.SpawnTank(w, "tank", vmath.Vec3{}, cfg.Rig)
	if err != nil {
		return err
	}
	crate, err := scene.SpawnCrate(w, "crate", vmath.V3FromInt(-8, 6, 0))
	if err != nil {
		return err
	}

	sched := engine.NewScheduler(cfg.Sim.TickRate, cfg.Sim.MaxCatchUp)
	sb := &sandbox{
		screen: screen,
		world:  w,
		sched:  sched,
		tank:   tank,
		crate:  crate,
		player: player,
		edges:  audio.NewEdgeTracker(),
		cursor: vmath.V3FromInt(12, 8, 2),
		alpha:  reg.Floats.Get(status.SimAlpha),
		paused: reg.Bools.Get(status.SimPaused),
		state:  reg.Strings.Get(status.TurretState),
	}
	arms.OnFire(sb.onFire)
	w.AddSystem(sb)

	hub := service.NewHub(logger)
	loop := engine.NewLoop(sched, w, parameter.SandboxFrameInterval, player.Name(), "metrics")
	for _, svc := range []service.Service{player, status.NewExporter(reg), loop} {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	defer hub.StopAll()

	logger.Info().Int("tick_rate", cfg.Sim.TickRate).Msg("sandbox started")
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !sb.handle(ev) {
			return nil
		}
	}
}
