package palette

import (
	"image/color"
	"math"

	"github.com/san-kum/fractalview/internal/colour"
)

// Params is the subset of render settings the palettes read.
type Params struct {
	Algorithm  Algorithm
	Zoom       float64
	Smooth     bool
	Step       float64
	Saturation float64
	Value      float64
}

// Smooth returns the normalized iteration count for an orbit that escaped
// with squared components r2 and c2. Non-finite estimates fall back to the
// raw count.
func Smooth(iteration, r2, c2 float64) float64 {
	zn := math.Sqrt(r2 + c2)
	s := iteration + 1 - math.Log(math.Log(zn))/math.Ln2
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return iteration
	}
	return s
}

// Colour shades an escaped point. With smoothing on the count is normalized
// and the two neighbouring bands are blended, otherwise the raw count is
// mapped directly.
func Colour(iteration, r2, c2 float64, p Params) color.RGBA {
	if !p.Smooth {
		return Map(iteration, p)
	}
	return Blend(iteration, r2, c2, p)
}

// Blend maps floor(i') and floor(i'+step) and interpolates between them by
// i' mod step, where i' is the smoothed count.
func Blend(iteration, r2, c2 float64, p Params) color.RGBA {
	s := Smooth(iteration, r2, c2)
	step := p.Step
	if step <= 0 {
		step = 1
	}
	a := Map(math.Floor(s), p)
	b := Map(math.Floor(s+step), p)
	return colour.Lerp(a, b, math.Mod(s, step), false)
}

// Map applies the selected palette to an iteration count.
func Map(i float64, p Params) color.RGBA {
	z := p.Zoom
	switch p.Algorithm {
	case HSV:
		return hsv(i, p.Saturation, p.Value)
	case SineTriad:
		return trig(math.Sin, math.Sin, math.Sin, i, z, 300, 200, 100)
	case CosineTriad:
		return trig(math.Cos, math.Cos, math.Cos, i, z, 300, 200, 100)
	case MixedTrig:
		return trig(math.Sin, math.Cos, math.Tan, i, z, 100, 100, 100)
	case LinearRGB:
		return colour.FromFloat(i*2, i*4, i*8)
	case LinearBGR:
		return colour.FromFloat(i*8, i*4, i*2)
	case ZoomedRGB:
		return colour.FromFloat(i*2*z, i*4*z, i*8*z)
	case ZoomedBGR:
		return colour.FromFloat(i*8*z, i*4*z, i*2*z)
	default:
		return colour.FromFloat(i, i, i)
	}
}

func hsv(i, saturation, value float64) color.RGBA {
	hue := math.Mod(0.95+20*i, 360)
	if hue < 0 {
		hue += 360
	}
	return colour.HSVToRGB(hue, saturation, value)
}

type wave func(float64) float64

func trig(r, g, b wave, i, zoom, pr, pg, pb float64) color.RGBA {
	ch := func(f wave, period float64) float64 {
		return (f(i/period*zoom) + 1) * 127
	}
	return colour.FromFloat(ch(r, pr), ch(g, pg), ch(b, pb))
}
