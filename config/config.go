package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lixenwraith/vi-rig/parameter"
)

// EnvPrefix prefixes environment overrides, e.g. VIRIG_SIM_TICKRATE
const EnvPrefix = "VIRIG"

var ErrInvalid = errors.New("invalid configuration")

// LogConfig selects the logger output
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    string `mapstructure:"file"`
}

// SimConfig holds the fixed-step cadence
type SimConfig struct {
	TickRate   int `mapstructure:"tickRate"`
	MaxCatchUp int `mapstructure:"maxCatchUp"`
}

// RigConfig holds aiming and render bookkeeping defaults, angles in 1024ths of a turn
type RigConfig struct {
	TurnSpeed       int `mapstructure:"turnSpeed"`
	RealignDelay    int `mapstructure:"realignDelay"`
	FacingTolerance int `mapstructure:"facingTolerance"`
	BatchFloats     int `mapstructure:"batchFloats"`
}

// SyncConfig controls the tick checksum recorder
type SyncConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Every   int    `mapstructure:"every"`
}

// AudioConfig controls the lock-on cue
type AudioConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	SampleRate int  `mapstructure:"sampleRate"`
}

type Config struct {
	Log   LogConfig   `mapstructure:"log"`
	Sim   SimConfig   `mapstructure:"sim"`
	Rig   RigConfig   `mapstructure:"rig"`
	Sync  SyncConfig  `mapstructure:"sync"`
	Audio AudioConfig `mapstructure:"audio"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("log.file", "")

	v.SetDefault("sim.tickRate", parameter.TickRate)
	v.SetDefault("sim.maxCatchUp", parameter.MaxCatchUpTicks)

	v.SetDefault("rig.turnSpeed", parameter.TurnSpeed)
	v.SetDefault("rig.realignDelay", parameter.RealignDelay)
	v.SetDefault("rig.facingTolerance", parameter.FacingTolerance)
	v.SetDefault("rig.batchFloats", parameter.BatchFloats)

	v.SetDefault("sync.enabled", false)
	v.SetDefault("sync.path", "")
	v.SetDefault("sync.every", 1)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.sampleRate", parameter.AudioSampleRate)
}

// Load reads defaults, then the optional file at path, then VIRIG_ environment
// overrides. An empty path loads defaults and environment only
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects values the simulation cannot run with
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("%w: sim.tickRate %d", ErrInvalid, c.Sim.TickRate)
	}
	if c.Sim.MaxCatchUp <= 0 {
		return fmt.Errorf("%w: sim.maxCatchUp %d", ErrInvalid, c.Sim.MaxCatchUp)
	}
	if c.Rig.TurnSpeed <= 0 || c.Rig.TurnSpeed >= 512 {
		return fmt.Errorf("%w: rig.turnSpeed %d outside (0, 512)", ErrInvalid, c.Rig.TurnSpeed)
	}
	if c.Rig.FacingTolerance < 0 {
		return fmt.Errorf("%w: rig.facingTolerance %d", ErrInvalid, c.Rig.FacingTolerance)
	}
	if c.Rig.BatchFloats <= 0 {
		return fmt.Errorf("%w: rig.batchFloats %d", ErrInvalid, c.Rig.BatchFloats)
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: audio.sampleRate %d", ErrInvalid, c.Audio.SampleRate)
	}
	return nil
}
