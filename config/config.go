// Package config provides configuration loading and access for the simulator.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/flowy/interp"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Config holds all configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Grid       GridConfig       `yaml:"grid"`
	Simulation SimulationConfig `yaml:"simulation"`
	Scenario   ScenarioConfig   `yaml:"scenario"`
	History    HistoryConfig    `yaml:"history"`
	Tracers    TracersConfig    `yaml:"tracers"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Render     RenderConfig     `yaml:"render"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// GridConfig holds grid resolution and sampling strategies.
type GridConfig struct {
	CellCount             int    `yaml:"cell_count"`
	VelocityInterpolation string `yaml:"velocity_interpolation"` // linear | cubic
	ScalarInterpolation   string `yaml:"scalar_interpolation"`   // linear | cubic
}

// SimulationConfig holds stepping parameters.
type SimulationConfig struct {
	DT             float64  `yaml:"dt"`
	StepsPerUpdate int      `yaml:"steps_per_update"` // headless steps per loop iteration
	StepInterval   float64  `yaml:"step_interval"`    // seconds between steps while running in a viewer
	BoundaryScalar *float64 `yaml:"boundary_scalar,omitempty"` // scalar ghost value at setup; unset keeps the preset's values
}

// ScenarioConfig selects the initial condition.
type ScenarioConfig struct {
	Velocity   string  `yaml:"velocity"` // still | uniform | ramp | vortex | shear
	Scalar     string  `yaml:"scalar"`   // zero | gradient | blob | noise
	Speed      float64 `yaml:"speed"`
	Amplitude  float64 `yaml:"amplitude"`
	Radius     float64 `yaml:"radius"`      // blob radius in cells
	NoiseScale float64 `yaml:"noise_scale"` // noise frequency per cell
	Seed       int64   `yaml:"seed"`
}

// HistoryConfig holds snapshot history settings.
type HistoryConfig struct {
	Size         int `yaml:"size"`          // entries kept in memory
	ArchiveEvery int `yaml:"archive_every"` // steps between automatic archives, 0 disables
}

// TracersConfig holds passive tracer particle settings.
type TracersConfig struct {
	Count    int `yaml:"count"`
	Lifespan int `yaml:"lifespan"` // steps before a tracer respawns
}

// TelemetryConfig holds statistics and event detection settings.
type TelemetryConfig struct {
	StatsEvery int     `yaml:"stats_every"` // steps between stats records
	PerfWindow int     `yaml:"perf_window"` // steps in the rolling perf window
	CFLLimit   float64 `yaml:"cfl_limit"`
	MassDrift  float64 `yaml:"mass_drift"` // relative drift of the average scalar
}

// RenderConfig holds viewer toggles.
type RenderConfig struct {
	ShowScalar      bool    `yaml:"show_scalar"`
	ShowSpeed       bool    `yaml:"show_speed"`
	ShowGrid        bool    `yaml:"show_grid"`
	ShowFaceVectors bool    `yaml:"show_face_vectors"`
	ShowCellVectors bool    `yaml:"show_cell_vectors"`
	ShowTracers     bool    `yaml:"show_tracers"`
	LineWidth       float64 `yaml:"line_width"`
	VectorScale     float64 `yaml:"vector_scale"` // cells per unit speed
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32      float32
	ScreenH32      float32
	StepInterval   time.Duration
	VelocityInterp interp.Interpolator
	ScalarInterp   interp.Interpolator
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
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

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
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
		// Only fields present in the file are overwritten.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks values the simulator would otherwise reject at runtime.
func (c *Config) Validate() error {
	if c.Grid.CellCount <= 0 {
		return fmt.Errorf("%w: grid.cell_count = %d", ErrInvalid, c.Grid.CellCount)
	}
	if _, err := interp.ByName(c.Grid.VelocityInterpolation); err != nil {
		return fmt.Errorf("%w: grid.velocity_interpolation: %w", ErrInvalid, err)
	}
	if _, err := interp.ByName(c.Grid.ScalarInterpolation); err != nil {
		return fmt.Errorf("%w: grid.scalar_interpolation: %w", ErrInvalid, err)
	}
	if math.IsNaN(c.Simulation.DT) || math.IsInf(c.Simulation.DT, 0) || c.Simulation.DT < 0 {
		return fmt.Errorf("%w: simulation.dt = %v", ErrInvalid, c.Simulation.DT)
	}
	if c.History.Size < 1 {
		return fmt.Errorf("%w: history.size = %d", ErrInvalid, c.History.Size)
	}
	if c.Tracers.Count < 0 {
		return fmt.Errorf("%w: tracers.count = %d", ErrInvalid, c.Tracers.Count)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.StepInterval = time.Duration(c.Simulation.StepInterval * float64(time.Second))

	// Validate has already accepted both names.
	c.Derived.VelocityInterp, _ = interp.ByName(c.Grid.VelocityInterpolation)
	c.Derived.ScalarInterp, _ = interp.ByName(c.Grid.ScalarInterpolation)

	if c.Simulation.StepsPerUpdate < 1 {
		c.Simulation.StepsPerUpdate = 1
	}
	if c.Telemetry.StatsEvery < 1 {
		c.Telemetry.StatsEvery = 1
	}
	if c.Tracers.Lifespan < 1 {
		c.Tracers.Lifespan = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
