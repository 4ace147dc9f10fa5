package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/fractalview/internal/fractal"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

// Preset is a named view. Imaginary ranges sit below the real axis; the set
// is symmetric under conjugation, so these show the same features as their
// usual upper-half coordinates.
type Preset struct {
	Description string
	Bounds      fractal.Bounds
	Zoom        float64
	Alternate   bool
}

var Presets = map[string]Preset{
	"home": {
		Description: "the whole set",
		Bounds:      fractal.Home,
		Zoom:        1,
	},
	"seahorse": {
		Description: "dense filaments and seahorse curls",
		Bounds:      fractal.Bounds{MinReal: -0.8, MaxReal: -0.7, MinImaginary: -0.15, MaxImaginary: -0.05},
		Zoom:        25,
	},
	"elephant": {
		Description: "large bulb with trunk-like tendrils",
		Bounds:      fractal.Bounds{MinReal: -1.85, MaxReal: -1.75, MinImaginary: -0.10, MaxImaginary: -0.02},
		Zoom:        25,
	},
	"spiral": {
		Description: "minibrot with tight spiral arms",
		Bounds:      fractal.Bounds{MinReal: -0.7435, MaxReal: -0.7420, MinImaginary: -0.1325, MaxImaginary: -0.1310},
		Zoom:        250,
	},
	"triple-spiral": {
		Description: "threefold symmetric spiral",
		Bounds:      fractal.Bounds{MinReal: -0.7480, MaxReal: -0.7450, MinImaginary: -0.0980, MaxImaginary: -0.0950},
		Zoom:        150,
	},
	"dragon": {
		Description: "deep spiral filaments",
		Bounds:      fractal.Bounds{MinReal: -0.7400, MaxReal: -0.7350, MinImaginary: -0.1850, MaxImaginary: -0.1800},
		Zoom:        100,
	},
	"mini-spiral": {
		Description: "minibrot inside a spiral arm",
		Bounds:      fractal.Bounds{MinReal: -1.7390, MaxReal: -1.7375, MinImaginary: -0.0235, MaxImaginary: -0.0220},
		Zoom:        250,
	},
	"burning-ship": {
		Description: "the Burning Ship variant",
		Bounds:      fractal.Bounds{MinReal: -2.5, MaxReal: 1.5, MinImaginary: -2, MaxImaginary: 1},
		Zoom:        1,
		Alternate:   true,
	},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset replaces the view with the named preset.
func (c *Config) ApplyPreset(name string) error {
	p, ok := GetPreset(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	c.View.Bounds = p.Bounds
	c.View.Zoom = p.Zoom
	c.Render.Alternate = p.Alternate
	return nil
}
