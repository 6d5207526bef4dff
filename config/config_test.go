package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "info" || !cfg.Log.Console {
		t.Errorf("log %+v", cfg.Log)
	}
	if cfg.Sim.TickRate != 25 || cfg.Sim.MaxCatchUp != 5 {
		t.Errorf("sim %+v", cfg.Sim)
	}
	if cfg.Rig.TurnSpeed != 5 || cfg.Rig.RealignDelay != 40 || cfg.Rig.FacingTolerance != 4 || cfg.Rig.BatchFloats != 65536 {
		t.Errorf("rig %+v", cfg.Rig)
	}
	if cfg.Sync.Enabled || cfg.Sync.Path != "" || cfg.Sync.Every != 1 {
		t.Errorf("sync %+v", cfg.Sync)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rig.json")
	body := `{
		"log": {"level": "debug", "console": false},
		"rig": {"turnSpeed": 12, "realignDelay": -1},
		"sync": {"enabled": true, "path": "run.db", "every": 5}
	}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Console {
		t.Errorf("log %+v", cfg.Log)
	}
	if cfg.Rig.TurnSpeed != 12 || cfg.Rig.RealignDelay != -1 {
		t.Errorf("rig %+v", cfg.Rig)
	}
	// Untouched keys keep defaults
	if cfg.Rig.FacingTolerance != 4 || cfg.Sim.TickRate != 25 {
		t.Errorf("defaults lost: rig %+v sim %+v", cfg.Rig, cfg.Sim)
	}
	if !cfg.Sync.Enabled || cfg.Sync.Path != "run.db" || cfg.Sync.Every != 5 {
		t.Errorf("sync %+v", cfg.Sync)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("VIRIG_SIM_TICKRATE", "50")
	t.Setenv("VIRIG_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sim.TickRate != 50 {
		t.Errorf("tick rate %d, want 50", cfg.Sim.TickRate)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("level %q, want warn", cfg.Log.Level)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file accepted")
	}

	cases := []struct {
		name string
		body string
	}{
		{"level", `{"log": {"level": "loud"}}`},
		{"tick rate", `{"sim": {"tickRate": 0}}`},
		{"turn speed", `{"rig": {"turnSpeed": 600}}`},
		{"tolerance", `{"rig": {"facingTolerance": -2}}`},
		{"batch", `{"rig": {"batchFloats": 0}}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rig.json")
			if err := os.WriteFile(path, []byte(c.body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); !errors.Is(err, ErrInvalid) {
				t.Errorf("got %v, want ErrInvalid", err)
			}
		})
	}
}
