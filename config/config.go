// Package config provides configuration loading and access for the painting surface.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all application configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Canvas    CanvasConfig    `yaml:"canvas"`
	Particles ParticlesConfig `yaml:"particles"`
	Paint     PaintConfig     `yaml:"paint"`
	PostProc  PostProcConfig  `yaml:"postproc"`
	Input     InputConfig     `yaml:"input"`
	Relief    ReliefConfig    `yaml:"relief"`
	GPU       GPUConfig       `yaml:"gpu"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Headless  HeadlessConfig  `yaml:"headless"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	TargetFPS  int `yaml:"target_fps"`
	PanelWidth int `yaml:"panel_width"` // Parameter panel on the right edge
}

// CanvasConfig holds the simulation texture resolution.
type CanvasConfig struct {
	Size int `yaml:"size"` // Square texture edge in surface pixels
}

// ParticlesConfig holds particle buffer parameters.
type ParticlesConfig struct {
	Count      int `yaml:"count"`       // Fixed lane count, never reallocated
	UpperBound int `yaml:"upper_bound"` // Noise values are drawn in [0, upper_bound)
	Alignment  int `yaml:"alignment"`   // Arena alignment in bytes
}

// PaintConfig holds paint kernel parameters.
type PaintConfig struct {
	MaxRadius float64 `yaml:"max_radius"` // Deposit radius at force 1 and maximum noise
	Ink       float64 `yaml:"ink"`        // Intensity written per deposit
}

// PostProcConfig holds blur and threshold parameters.
type PostProcConfig struct {
	BlurSigma float64 `yaml:"blur_sigma"`
	Threshold float64 `yaml:"threshold"`
	Maximum   float64 `yaml:"maximum"`
}

// InputConfig holds pointer input parameters.
type InputConfig struct {
	SurfaceScale float64 `yaml:"surface_scale"` // View to surface coordinate multiplier
	DefaultForce float64 `yaml:"default_force"` // Force for inputs without pressure
	MaxContacts  int     `yaml:"max_contacts"`
}

// ReliefConfig holds relief shading parameters.
type ReliefConfig struct {
	HeightRadius float64 `yaml:"height_radius"` // Smoothing applied when building the height field
	Scale        float64 `yaml:"scale"`         // Height to normal steepness
	PreviewSize  int     `yaml:"preview_size"`  // Edge of the rendered light rig sphere
	Ambient      float64 `yaml:"ambient"`       // Ambient term of the sphere preview
	Workers      int     `yaml:"workers"`       // Relief pool size, separate from the frame pool (0 = half of GOMAXPROCS)
}

// GPUConfig holds device parameters.
type GPUConfig struct {
	ExecutionWidth int  `yaml:"execution_width"` // Lanes per thread group (software device, shader local size)
	Drawables      int  `yaml:"drawables"`       // Size of the drawable ring
	Software       bool `yaml:"software"`        // Force the CPU device even with a window
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	StatsWindow         float64 `yaml:"stats_window"` // Seconds between perf log lines
}

// HeadlessConfig holds the scripted stroke used without a window.
type HeadlessConfig struct {
	StrokeTicks  int     `yaml:"stroke_ticks"`
	StrokeRadius float64 `yaml:"stroke_radius"` // In view coordinates
	Force        float64 `yaml:"force"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	SurfaceSize  int     // Canvas.Size
	ViewSize     int     // Canvas.Size / Input.SurfaceScale
	ThreadGroups int     // Particles.Count / GPU.ExecutionWidth
	MaxRadius32  float32 // Paint.MaxRadius as float32
	Ink32        float32 // Paint.Ink as float32
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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values no component can run with.
// Lane geometry is checked by the device, which knows the real execution width.
func (c *Config) validate() error {
	if c.Canvas.Size <= 0 {
		return fmt.Errorf("canvas.size must be positive, got %d", c.Canvas.Size)
	}
	if c.Particles.Count <= 0 {
		return fmt.Errorf("particles.count must be positive, got %d", c.Particles.Count)
	}
	if c.Particles.UpperBound <= 0 {
		return fmt.Errorf("particles.upper_bound must be positive, got %d", c.Particles.UpperBound)
	}
	if c.Input.SurfaceScale <= 0 {
		return fmt.Errorf("input.surface_scale must be positive, got %g", c.Input.SurfaceScale)
	}
	if c.Input.MaxContacts <= 0 {
		return fmt.Errorf("input.max_contacts must be positive, got %d", c.Input.MaxContacts)
	}
	if c.Relief.Workers < 0 {
		return fmt.Errorf("relief.workers must not be negative, got %d", c.Relief.Workers)
	}
	if c.Input.DefaultForce < 0 || c.Input.DefaultForce > 1 {
		return fmt.Errorf("input.default_force must be in [0,1], got %g", c.Input.DefaultForce)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.SurfaceSize = c.Canvas.Size
	c.Derived.ViewSize = int(float64(c.Canvas.Size) / c.Input.SurfaceScale)
	if c.GPU.ExecutionWidth > 0 {
		c.Derived.ThreadGroups = c.Particles.Count / c.GPU.ExecutionWidth
	}
	c.Derived.MaxRadius32 = float32(c.Paint.MaxRadius)
	c.Derived.Ink32 = float32(c.Paint.Ink)
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
