package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/san-kum/fractalview/internal/engine"
	"github.com/san-kum/fractalview/internal/fractal"
	"github.com/san-kum/fractalview/internal/palette"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.View.Bounds != fractal.Home {
		t.Errorf("expected home bounds, got %v", cfg.View.Bounds)
	}
	if cfg.Colour.Algorithm != palette.HSV {
		t.Errorf("expected hsv, got %s", cfg.Colour.Algorithm)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if !reflect.DeepEqual(cfg.Settings(), engine.DefaultSettings()) {
		t.Errorf("default settings mismatch:\n got %+v\nwant %+v", cfg.Settings(), engine.DefaultSettings())
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fractalview.yaml")

	cfg := DefaultConfig()
	cfg.Colour.Algorithm = palette.ZoomedBGR
	cfg.View.Zoom = 12.5
	cfg.Render.Workers = 3
	cfg.Log.File = "render.log"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, loaded) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoad_Partial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "view:\n  min_real: -1.5\ncolour:\n  algorithm: sine\nrender:\n  width: 320\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.View.MinReal != -1.5 || cfg.View.MaxReal != fractal.Home.MaxReal {
		t.Errorf("unexpected bounds %v", cfg.View.Bounds)
	}
	if cfg.Colour.Algorithm != palette.SineTriad {
		t.Errorf("expected sine, got %s", cfg.Colour.Algorithm)
	}
	if cfg.Render.Width != 320 || cfg.Render.Height != DefaultHeight {
		t.Errorf("unexpected size %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Colour.Saturation != DefaultSaturation {
		t.Errorf("saturation should keep its default, got %g", cfg.Colour.Saturation)
	}
}

func TestLoad_NumericAlgorithm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "numeric.yaml")
	if err := os.WriteFile(path, []byte("colour:\n  algorithm: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Colour.Algorithm != palette.LinearRGB {
		t.Errorf("expected linear, got %s", cfg.Colour.Algorithm)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("colour:\n  algorithm: plaid\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero width", func(c *Config) { c.Render.Width = 0 }, engine.ErrInvalidSize},
		{"bad algorithm", func(c *Config) { c.Colour.Algorithm = 42 }, palette.ErrUnknownAlgorithm},
		{"flat bounds", func(c *Config) { c.View.MaxImaginary = c.View.MinImaginary }, fractal.ErrDegenerateBounds},
		{"negative zoom", func(c *Config) { c.View.Zoom = -1 }, engine.ErrInvalidSettings},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSetSettings(t *testing.T) {
	s := engine.DefaultSettings()
	s.Zoom = 7
	s.Algorithm = palette.MixedTrig
	s.Alternate = true

	cfg := DefaultConfig()
	cfg.SetSettings(s)
	if !reflect.DeepEqual(cfg.Settings(), s) {
		t.Errorf("got %+v, want %+v", cfg.Settings(), s)
	}
}

func TestGetPreset(t *testing.T) {
	p, ok := GetPreset("seahorse")
	if !ok {
		t.Fatal("expected preset")
	}
	if p.Bounds.MinReal != -0.8 {
		t.Errorf("expected min real -0.8, got %g", p.Bounds.MinReal)
	}

	if _, ok := GetPreset("nonexistent"); ok {
		t.Error("expected miss for nonexistent preset")
	}
}

func TestPresetsValid(t *testing.T) {
	for name, p := range Presets {
		if err := p.Bounds.Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
		if p.Bounds.MinImaginary > 0 {
			t.Errorf("%s: positive imaginary minimum %g", name, p.Bounds.MinImaginary)
		}
		if p.Zoom <= 0 {
			t.Errorf("%s: zoom %g", name, p.Zoom)
		}
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("presets not sorted: %v", names)
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ApplyPreset("burning-ship"); err != nil {
		t.Fatal(err)
	}
	if !cfg.Render.Alternate {
		t.Error("burning-ship should enable the alternate recurrence")
	}

	if err := cfg.ApplyPreset("home"); err != nil {
		t.Fatal(err)
	}
	if cfg.Render.Alternate || cfg.View.Bounds != fractal.Home {
		t.Errorf("home preset not applied: %+v", cfg.View)
	}

	if err := cfg.ApplyPreset("atlantis"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"FRACTALVIEW_WIDTH":     "1024",
		"FRACTALVIEW_WORKERS":   "2",
		"FRACTALVIEW_ZOOM":      "3.5",
		"FRACTALVIEW_ALGORITHM": "cosine",
		"FRACTALVIEW_LOG_LEVEL": "debug",
		"FRACTALVIEW_OUTPUT":    "out.tiff",
		"FRACTALVIEW_HEIGHT":    "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatal(err)
	}
	if cfg.Render.Width != 1024 || cfg.Render.Height != DefaultHeight || cfg.Render.Workers != 2 {
		t.Errorf("unexpected render config %+v", cfg.Render)
	}
	if cfg.View.Zoom != 3.5 {
		t.Errorf("expected zoom 3.5, got %g", cfg.View.Zoom)
	}
	if cfg.Colour.Algorithm != palette.CosineTriad {
		t.Errorf("expected cosine, got %s", cfg.Colour.Algorithm)
	}
	if cfg.Log.Level != "debug" || cfg.Output.Path != "out.tiff" {
		t.Errorf("unexpected strings: log %q output %q", cfg.Log.Level, cfg.Output.Path)
	}
}

func TestApplyEnv_Errors(t *testing.T) {
	tests := map[string]string{
		"FRACTALVIEW_WIDTH":     "wide",
		"FRACTALVIEW_ZOOM":      "deep",
		"FRACTALVIEW_ALGORITHM": "plaid",
		"FRACTALVIEW_PRESET":    "atlantis",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				if k == key {
					return val, true
				}
				return "", false
			}
			if err := DefaultConfig().ApplyEnv(lookup); err == nil {
				t.Errorf("expected error for %s=%s", key, val)
			}
		})
	}
}
