package colour

import (
	"image/color"
	"math"
)

const (
	// Max is the largest channel value.
	Max = 255
	// Period is the length of one wrap cycle of Normalize.
	Period = 2 * Max
)

// Black is the colour of points inside the set.
var Black = color.RGBA{A: Max}

// Normalize maps v into [0, 255]. Inside one period 0..255 is kept and
// 256..509 folds back down to 1..254.
func Normalize(v int) int {
	m := v % Period
	if m < 0 {
		m += Period
	}
	if m > Max {
		return m - Max
	}
	return m
}

// Channel rounds x half-to-even and normalizes it.
func Channel(x float64) int {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	r := math.Mod(math.RoundToEven(x), Period)
	return Normalize(int(r))
}

// FromRGB builds an opaque colour from three unnormalized channels.
func FromRGB(r, g, b int) color.RGBA {
	return color.RGBA{
		R: uint8(Normalize(r)),
		G: uint8(Normalize(g)),
		B: uint8(Normalize(b)),
		A: Max,
	}
}

// FromFloat is FromRGB for real valued channels.
func FromFloat(r, g, b float64) color.RGBA {
	return color.RGBA{
		R: uint8(Channel(r)),
		G: uint8(Channel(g)),
		B: uint8(Channel(b)),
		A: Max,
	}
}

// Lerp interpolates a towards b. ratio 0 yields a, 1 yields b; ratios outside
// [0, 1] extrapolate and the result wraps. Alpha is forced opaque unless
// keepAlpha is set.
func Lerp(a, b color.RGBA, ratio float64, keepAlpha bool) color.RGBA {
	mix := func(x, y uint8) float64 {
		return float64(x) + ratio*(float64(y)-float64(x))
	}
	c := FromFloat(mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B))
	if keepAlpha {
		c.A = uint8(Channel(mix(a.A, b.A)))
	}
	return c
}

// HSVToRGB converts hue in degrees [0, 360) and saturation, value in [0, 1].
func HSVToRGB(hue, saturation, value float64) color.RGBA {
	sector := math.Floor(hue / 60)
	hi := int(sector) % 6
	if hi < 0 {
		hi += 6
	}
	f := hue/60 - sector

	value *= Max
	v := uint8(Channel(value))
	p := uint8(Channel(value * (1 - saturation)))
	q := uint8(Channel(value * (1 - f*saturation)))
	t := uint8(Channel(value * (1 - (1-f)*saturation)))

	switch hi {
	case 0:
		return color.RGBA{v, t, p, Max}
	case 1:
		return color.RGBA{q, v, p, Max}
	case 2:
		return color.RGBA{p, v, t, Max}
	case 3:
		return color.RGBA{p, q, v, Max}
	case 4:
		return color.RGBA{t, p, v, Max}
	default:
		return color.RGBA{v, p, q, Max}
	}
}
