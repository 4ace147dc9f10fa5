package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fractalview/internal/engine"
	"github.com/san-kum/fractalview/internal/fractal"
	"github.com/san-kum/fractalview/internal/palette"
)

const (
	DefaultWidth      = 800
	DefaultHeight     = 640
	DefaultZoom       = 1.0
	DefaultStep       = 1.0
	DefaultSaturation = 0.8
	DefaultValue      = 1.0
	DefaultOutput     = "fractal.png"
	DefaultLogLevel   = "info"
)

type Config struct {
	View   ViewConfig   `yaml:"view"`
	Colour ColourConfig `yaml:"colour"`
	Render RenderConfig `yaml:"render"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

type ViewConfig struct {
	fractal.Bounds `yaml:",inline"`
	Zoom           float64 `yaml:"zoom"`
}

type ColourConfig struct {
	Algorithm  palette.Algorithm `yaml:"algorithm"`
	Smooth     bool              `yaml:"smooth"`
	Step       float64           `yaml:"step"`
	Saturation float64           `yaml:"saturation"`
	Value      float64           `yaml:"value"`
}

type RenderConfig struct {
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	Workers   int  `yaml:"workers"`
	Alternate bool `yaml:"alternate"`
}

type OutputConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		View: ViewConfig{Bounds: fractal.Home, Zoom: DefaultZoom},
		Colour: ColourConfig{
			Algorithm:  palette.HSV,
			Smooth:     true,
			Step:       DefaultStep,
			Saturation: DefaultSaturation,
			Value:      DefaultValue,
		},
		Render: RenderConfig{Width: DefaultWidth, Height: DefaultHeight},
		Output: OutputConfig{Path: DefaultOutput},
		Log:    LogConfig{Level: DefaultLogLevel},
	}
}

// Load reads a YAML file on top of the defaults, so a partial file only
// overrides the keys it sets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Settings snapshots the render-relevant fields.
func (c *Config) Settings() engine.Settings {
	return engine.Settings{
		Bounds:     c.View.Bounds,
		Zoom:       c.View.Zoom,
		Algorithm:  c.Colour.Algorithm,
		Smooth:     c.Colour.Smooth,
		SmoothStep: c.Colour.Step,
		Saturation: c.Colour.Saturation,
		Value:      c.Colour.Value,
		Alternate:  c.Render.Alternate,
	}
}

// SetSettings is the inverse of Settings. Used by the viewer to persist the
// current view.
func (c *Config) SetSettings(s engine.Settings) {
	c.View.Bounds = s.Bounds
	c.View.Zoom = s.Zoom
	c.Colour.Algorithm = s.Algorithm
	c.Colour.Smooth = s.Smooth
	c.Colour.Step = s.SmoothStep
	c.Colour.Saturation = s.Saturation
	c.Colour.Value = s.Value
	c.Render.Alternate = s.Alternate
}

func (c *Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", engine.ErrInvalidSize, c.Render.Width, c.Render.Height)
	}
	if !c.Colour.Algorithm.Valid() {
		return fmt.Errorf("%w: %d", palette.ErrUnknownAlgorithm, int(c.Colour.Algorithm))
	}
	return c.Settings().Validate()
}
