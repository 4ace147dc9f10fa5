// Package automation renders scripted sequences of views described in YAML.
package automation

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fractalview/internal/config"
	"github.com/san-kum/fractalview/internal/engine"
	"github.com/san-kum/fractalview/internal/fractal"
	"github.com/san-kum/fractalview/internal/palette"
	"github.com/san-kum/fractalview/internal/raster"
)

// Scenario defines a scripted render sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Width       int            `yaml:"width"`
	Height      int            `yaml:"height"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single view in a scenario. Unset fields inherit from
// the base settings the scenario is run with.
type ScenarioStep struct {
	Preset    string             `yaml:"preset"`
	Bounds    *fractal.Bounds    `yaml:"bounds"`
	Zoom      float64            `yaml:"zoom"`
	Algorithm *palette.Algorithm `yaml:"algorithm"`
	Smooth    *bool              `yaml:"smooth"`
	Alternate *bool              `yaml:"alternate"`
	// Frames > 1 turns the step into a zoom sequence about the centre of
	// its view, each frame Factor times deeper than the last.
	Frames int     `yaml:"frames"`
	Factor float64 `yaml:"factor"`
	// SaveAs names the output file. For sequences it may hold a %d verb
	// for the frame number; otherwise the number is appended.
	SaveAs string `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}
	if scenario.Name == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &scenario, nil
}

// Output is one written image.
type Output struct {
	Step   int
	Frame  int
	Path   string
	Result *engine.Result
}

// Runner renders scenarios with one engine.
type Runner struct {
	Engine *engine.Engine
	Log    *zap.Logger
	// Dir is prefixed to relative output paths.
	Dir string
}

// Settings resolves a step against base.
func (s ScenarioStep) Settings(base engine.Settings) (engine.Settings, error) {
	out := base
	if s.Preset != "" {
		p, ok := config.GetPreset(s.Preset)
		if !ok {
			return out, fmt.Errorf("%w: %q", config.ErrUnknownPreset, s.Preset)
		}
		out.Bounds, out.Zoom, out.Alternate = p.Bounds, p.Zoom, p.Alternate
	}
	if s.Bounds != nil {
		out.Bounds = *s.Bounds
	}
	if s.Zoom != 0 {
		out.Zoom = s.Zoom
	}
	if s.Algorithm != nil {
		out.Algorithm = *s.Algorithm
	}
	if s.Smooth != nil {
		out.Smooth = *s.Smooth
	}
	if s.Alternate != nil {
		out.Alternate = *s.Alternate
	}
	return out, nil
}

// RunScenario executes all steps in order and stops at the first failure.
// Outputs written before the failure are returned with the error.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario, base engine.Settings) ([]Output, error) {
	if scenario.Width <= 0 || scenario.Height <= 0 {
		return nil, fmt.Errorf("%w: scenario %q is %dx%d", engine.ErrInvalidSize, scenario.Name, scenario.Width, scenario.Height)
	}
	log := r.logger().With(zap.String("scenario", scenario.Name))

	var outputs []Output
	for i, step := range scenario.Steps {
		s, err := step.Settings(base)
		if err != nil {
			return outputs, fmt.Errorf("step %d: %w", i+1, err)
		}

		frames := []engine.Settings{s}
		if step.Frames > 1 {
			frames = ZoomSweep{Base: s, Factor: step.Factor, Frames: step.Frames}.Views()
		}

		for f, view := range frames {
			path := r.outputPath(scenario.Name, step, i, f, len(frames))
			log.Info("rendering step",
				zap.Int("step", i+1),
				zap.Int("steps", len(scenario.Steps)),
				zap.Int("frame", f+1),
				zap.Int("frames", len(frames)),
				zap.String("path", path),
			)

			res, err := r.Engine.Render(ctx, scenario.Width, scenario.Height, view)
			if err != nil {
				return outputs, fmt.Errorf("step %d frame %d: %w", i+1, f+1, err)
			}
			if err := res.Raster.Save(path, raster.FormatFor(path)); err != nil {
				return outputs, fmt.Errorf("step %d frame %d: %w", i+1, f+1, err)
			}
			outputs = append(outputs, Output{Step: i + 1, Frame: f + 1, Path: path, Result: res})
		}
	}
	return outputs, nil
}

func (r *Runner) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

func (r *Runner) outputPath(name string, step ScenarioStep, index, frame, frames int) string {
	path := step.SaveAs
	switch {
	case path == "":
		path = fmt.Sprintf("%s-%02d.png", name, index+1)
		if frames > 1 {
			path = fmt.Sprintf("%s-%02d-%03d.png", name, index+1, frame+1)
		}
	case frames > 1 && strings.Contains(path, "%"):
		path = fmt.Sprintf(path, frame+1)
	case frames > 1:
		ext := filepath.Ext(path)
		path = fmt.Sprintf("%s-%03d%s", strings.TrimSuffix(path, ext), frame+1, ext)
	}
	if !filepath.IsAbs(path) && r.Dir != "" {
		path = filepath.Join(r.Dir, path)
	}
	return path
}

// DefaultSweepFactor is the per-frame zoom used when a sweep leaves it unset.
const DefaultSweepFactor = 1.1

// ZoomSweep zooms into the centre of Base over a number of frames.
type ZoomSweep struct {
	Base   engine.Settings
	Factor float64
	Frames int
}

// Views returns the settings for every frame, starting with Base.
func (z ZoomSweep) Views() []engine.Settings {
	factor := z.Factor
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		factor = DefaultSweepFactor
	}
	n := max(z.Frames, 1)

	b := z.Base.Bounds
	cr := (b.MinReal + b.MaxReal) / 2
	ci := (b.MinImaginary + b.MaxImaginary) / 2

	views := make([]engine.Settings, n)
	for i := range views {
		scale := math.Pow(factor, float64(i))
		hr := b.Width() / 2 / scale
		hi := b.Height() / 2 / scale

		v := z.Base
		v.Bounds = fractal.Bounds{MinReal: cr - hr, MaxReal: cr + hr, MinImaginary: ci - hi, MaxImaginary: ci + hi}
		v.Zoom = z.Base.Zoom * scale
		views[i] = v
	}
	return views
}
