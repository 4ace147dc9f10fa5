package engine

import (
	"fmt"
	"math"

	"github.com/san-kum/fractalview/internal/fractal"
	"github.com/san-kum/fractalview/internal/palette"
)

// Settings is the per-render snapshot. It is passed by value, so changing
// the caller's copy never affects a render in flight.
type Settings struct {
	Bounds     fractal.Bounds
	Zoom       float64
	Algorithm  palette.Algorithm
	Smooth     bool
	SmoothStep float64
	Saturation float64
	Value      float64
	// Alternate selects the Burning Ship recurrence.
	Alternate bool
}

func DefaultSettings() Settings {
	return Settings{
		Bounds:     fractal.Home,
		Zoom:       1,
		Algorithm:  palette.HSV,
		Smooth:     true,
		SmoothStep: 1,
		Saturation: 0.8,
		Value:      1,
	}
}

func (s Settings) Validate() error {
	if err := s.Bounds.Validate(); err != nil {
		return err
	}
	if !(s.Zoom > 0) || math.IsInf(s.Zoom, 0) {
		return fmt.Errorf("%w: zoom must be positive, got %g", ErrInvalidSettings, s.Zoom)
	}
	if s.Smooth && (!(s.SmoothStep > 0) || math.IsInf(s.SmoothStep, 0)) {
		return fmt.Errorf("%w: smooth step must be positive, got %g", ErrInvalidSettings, s.SmoothStep)
	}
	if !unit(s.Saturation) {
		return fmt.Errorf("%w: saturation %g outside [0, 1]", ErrInvalidSettings, s.Saturation)
	}
	if !unit(s.Value) {
		return fmt.Errorf("%w: value %g outside [0, 1]", ErrInvalidSettings, s.Value)
	}
	return nil
}

func unit(v float64) bool { return v >= 0 && v <= 1 }

// MaxIterations is the iteration cap implied by the zoom level.
func (s Settings) MaxIterations() int {
	return fractal.MaxIterations(s.Zoom)
}

func (s Settings) palette() palette.Params {
	return palette.Params{
		Algorithm:  s.Algorithm,
		Zoom:       s.Zoom,
		Smooth:     s.Smooth,
		Step:       s.SmoothStep,
		Saturation: s.Saturation,
		Value:      s.Value,
	}
}
