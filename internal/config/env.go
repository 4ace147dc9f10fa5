package config

import (
	"fmt"
	"strconv"

	"github.com/san-kum/fractalview/internal/palette"
)

const EnvPrefix = "FRACTALVIEW_"

// ApplyEnv overrides fields from FRACTALVIEW_* variables. lookup is normally
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"WIDTH", &c.Render.Width},
		{"HEIGHT", &c.Render.Height},
		{"WORKERS", &c.Render.Workers},
	}
	for _, e := range ints {
		v, ok := lookup(EnvPrefix + e.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s%s: %w", EnvPrefix, e.key, err)
		}
		*e.dst = n
	}

	if v, ok := lookup(EnvPrefix + "ZOOM"); ok && v != "" {
		z, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: %sZOOM: %w", EnvPrefix, err)
		}
		c.View.Zoom = z
	}
	if v, ok := lookup(EnvPrefix + "ALGORITHM"); ok && v != "" {
		a, err := palette.ParseAlgorithm(v)
		if err != nil {
			return fmt.Errorf("config: %sALGORITHM: %w", EnvPrefix, err)
		}
		c.Colour.Algorithm = a
	}
	if v, ok := lookup(EnvPrefix + "PRESET"); ok && v != "" {
		if err := c.ApplyPreset(v); err != nil {
			return err
		}
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"OUTPUT", &c.Output.Path},
		{"LOG_LEVEL", &c.Log.Level},
		{"LOG_FILE", &c.Log.File},
	}
	for _, e := range strs {
		if v, ok := lookup(EnvPrefix + e.key); ok && v != "" {
			*e.dst = v
		}
	}
	return nil
}
