// Package config provides configuration loading and access for the
// falling-sand simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Fill      FillConfig      `yaml:"fill"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Render    RenderConfig    `yaml:"render"`
}

// GridConfig holds the simulated grid's dimensions.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// FillRatio names one material and the share of cells it should
// occupy at startup. Ratios are normalized against their own sum, so
// they need not add to 1.
type FillRatio struct {
	Material string  `yaml:"material"`
	Ratio    float64 `yaml:"ratio"`
}

// FillConfig controls the initial random fill of the grid.
type FillConfig struct {
	Ratios []FillRatio `yaml:"ratios"`
}

// SchedulerConfig holds worker-count and seed settings. The sandbox
// and gui commands do not read it; they take both from their -workers
// and -seed flags.
type SchedulerConfig struct {
	Workers int   `yaml:"workers"`
	Seed    int64 `yaml:"seed"`
}

// TelemetryConfig controls tick-by-tick census output.
type TelemetryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	LogInterval  int    `yaml:"log_interval"`
	CSVPath      string `yaml:"csv_path"`
	WindowLength int    `yaml:"window_length"`
}

// RenderConfig controls the GUI renderer.
type RenderConfig struct {
	CellSize  int `yaml:"cell_size"`
	TargetTPS int `yaml:"target_tps"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("config: grid dimensions must be positive, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if c.Scheduler.Workers < 0 {
		return fmt.Errorf("config: scheduler.workers must be non-negative, got %d", c.Scheduler.Workers)
	}
	for _, r := range c.Fill.Ratios {
		if r.Ratio < 0 {
			return fmt.Errorf("config: fill ratio for %q must be non-negative, got %v", r.Material, r.Ratio)
		}
	}
	return nil
}
