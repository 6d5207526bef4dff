// Profiling:
// go build ./cmd/rig-bench
// ./rig-bench -profile cpu -tanks 400 -ticks 2000
// go tool pprof -http=":8000" ./rig-bench cpu.pprof
//
// Lockstep check: run twice with -sync a.db and -sync b.db, then
// ./rig-bench -sync a.db -compare b.db -ticks 0
package main

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-rig/config"
	"github.com/lixenwraith/vi-rig/engine"
	"github.com/lixenwraith/vi-rig/logging"
	"github.com/lixenwraith/vi-rig/scene"
	"github.com/lixenwraith/vi-rig/status"
	"github.com/lixenwraith/vi-rig/syncreport"
	"github.com/lixenwraith/vi-rig/system"
)

var (
	configPath  = flag.String("config", "", "Config file")
	tanks       = flag.Int("tanks", 100, "Number of towing tanks")
	ticks       = flag.Int("ticks", 1000, "Logic ticks to run")
	framesPer   = flag.Int("frames", 2, "Render frames per logic tick")
	profileMode = flag.String("profile", "", "Profile: cpu|mem|allocs|block|mutex (empty disables)")
	syncPath    = flag.String("sync", "", "Record tick checksums into this sqlite file")
	comparePath = flag.String("compare", "", "Report the first tick where -sync and this file diverge")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, closer, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("bench failed")
		closer.Close()
		os.Exit(1)
	}
}

func startProfile(mode string) interface{ Stop() } {
	opts := []func(*profile.Profile){profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet}
	switch mode {
	case "cpu":
		opts = append(opts, profile.CPUProfile)
	case "mem":
		opts = append(opts, profile.MemProfile)
	case "allocs":
		opts = append(opts, profile.MemProfileAllocs)
	case "block":
		opts = append(opts, profile.BlockProfile)
	case "mutex":
		opts = append(opts, profile.MutexProfile)
	default:
		return nil
	}
	return profile.Start(opts...)
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	var store *syncreport.Store
	if *syncPath != "" {
		var err error
		if store, err = syncreport.Open(*syncPath, logger); err != nil {
			return err
		}
		defer store.Close()
	}

	if *ticks > 0 {
		if err := bench(cfg, logger, store); err != nil {
			return err
		}
	}

	if *comparePath != "" {
		return compare(store, logger)
	}
	return nil
}

func bench(cfg *config.Config, logger zerolog.Logger, store *syncreport.Store) error {
	defs, err := scene.Definitions()
	if err != nil {
		return err
	}
	w := engine.NewWorld(defs, status.NewRegistry(), logger)
	w.AddSystem(system.NewSkeletonSystem())
	w.AddSystem(system.NewAttachSystem())
	w.AddSystem(system.NewArmamentSystem(w))
	sync := system.NewSyncSystem(w, store, cfg.Sync.Every)
	w.AddSystem(sync)
	w.AddSystem(system.NewRenderSystem(w, cfg.Rig.BatchFloats))

	if _, err := scene.Populate(w, cfg.Rig, *tanks); err != nil {
		return err
	}

	p := startProfile(*profileMode)
	start := time.Now()
	for range *ticks {
		w.Tick()
		for f := range *framesPer {
			w.Frame(float32(f+1) / float32(*framesPer))
		}
	}
	elapsed := time.Since(start)
	if p != nil {
		p.Stop()
	}

	snap := w.Status.Snapshot()
	ev := logger.Info().
		Int("tanks", *tanks).
		Int("ticks", *ticks).
		Dur("elapsed", elapsed).
		Dur("per_tick", elapsed/time.Duration(max(*ticks, 1))).
		Str("checksum", fmt.Sprintf("%016x", sync.LastChecksum()))
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		ev = ev.Int64(k, snap[k])
	}
	ev.Msg("bench finished")
	return nil
}

func compare(store *syncreport.Store, logger zerolog.Logger) error {
	if store == nil {
		return fmt.Errorf("-compare needs -sync")
	}
	other, err := syncreport.Open(*comparePath, logger)
	if err != nil {
		return err
	}
	defer other.Close()

	tick, diverged, err := store.FirstDivergence(other)
	if err != nil {
		return err
	}
	if diverged {
		logger.Warn().Uint64("tick", tick).Msg("runs diverged")
		return nil
	}
	logger.Info().Msg("runs match on every common tick")
	return nil
}
