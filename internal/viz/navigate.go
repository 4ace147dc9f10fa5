package viz

import (
	"math"

	"github.com/san-kum/fractalview/internal/engine"
	"github.com/san-kum/fractalview/internal/fractal"
)

const (
	zoomFactor  = 1.1
	panFraction = 0.1
	// shrinkDivisor is the share of each bound removed by a keyboard
	// zoom-out step.
	shrinkDivisor = 20.0
	// clickZoomIn and clickZoomOut give the half-width of the new view
	// around a clicked pixel as a fraction of the image side.
	clickZoomIn  = 1.0 / 5.0
	clickZoomOut = 1.0
)

// home resets the view but keeps the colouring choices.
func home(s engine.Settings) engine.Settings {
	s.Bounds = fractal.Home
	s.Zoom = 1
	return s
}

// shrink moves every bound 5% toward zero and lowers the zoom level.
func shrink(s engine.Settings) engine.Settings {
	b := &s.Bounds
	b.MaxReal -= b.MaxReal / shrinkDivisor
	b.MinReal -= b.MinReal / shrinkDivisor
	b.MaxImaginary -= b.MaxImaginary / shrinkDivisor
	b.MinImaginary -= b.MinImaginary / shrinkDivisor
	s.Zoom /= zoomFactor
	return s
}

// zoomCentre scales the view about its centre. factor > 1 zooms in.
func zoomCentre(s engine.Settings, factor float64) engine.Settings {
	b := s.Bounds
	cr := (b.MinReal + b.MaxReal) / 2
	ci := (b.MinImaginary + b.MaxImaginary) / 2
	hr := b.Width() / 2 / factor
	hi := b.Height() / 2 / factor
	s.Bounds = fractal.Bounds{MinReal: cr - hr, MaxReal: cr + hr, MinImaginary: ci - hi, MaxImaginary: ci + hi}
	s.Zoom *= factor
	return s
}

// pan shifts the view by fractions of its width and height.
func pan(s engine.Settings, dx, dy float64) engine.Settings {
	w, h := s.Bounds.Width()*dx, s.Bounds.Height()*dy
	s.Bounds.MinReal += w
	s.Bounds.MaxReal += w
	s.Bounds.MinImaginary += h
	s.Bounds.MaxImaginary += h
	return s
}

// zoomAt recentres a side x side view on pixel (px, py). Zooming in keeps
// 2/5 of the current span, zooming out doubles it.
func zoomAt(s engine.Settings, px, py, side int, in bool) engine.Settings {
	b := s.Bounds
	jumpReal := b.Width() / float64(side)
	jumpImag := b.Height() / float64(side)

	reach, zoom := clickZoomOut, s.Zoom/zoomFactor
	if in {
		reach, zoom = clickZoomIn, s.Zoom*zoomFactor
	}
	reach *= float64(side)
	s.Zoom = zoom

	x, y := float64(px), float64(py)
	s.Bounds = fractal.Bounds{
		MinReal:      (x-reach)*jumpReal - math.Abs(b.MinReal),
		MaxReal:      (x+reach)*jumpReal - math.Abs(b.MinReal),
		MinImaginary: (y-reach)*jumpImag - math.Abs(b.MinImaginary),
		MaxImaginary: (y+reach)*jumpImag - math.Abs(b.MinImaginary),
	}
	return s
}
