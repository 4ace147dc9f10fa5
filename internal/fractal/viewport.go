package fractal

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateBounds indicates an empty or non-finite plane region.
var ErrDegenerateBounds = errors.New("fractal: degenerate plane bounds")

// Bounds is a rectangle of the complex plane.
type Bounds struct {
	MinReal      float64 `yaml:"min_real"`
	MaxReal      float64 `yaml:"max_real"`
	MinImaginary float64 `yaml:"min_imaginary"`
	MaxImaginary float64 `yaml:"max_imaginary"`
}

// Home is the classic full view of the set.
var Home = Bounds{MinReal: -2, MaxReal: 0.5, MinImaginary: -1, MaxImaginary: 1}

func (b Bounds) Validate() error {
	for _, v := range []float64{b.MinReal, b.MaxReal, b.MinImaginary, b.MaxImaginary} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value in %v", ErrDegenerateBounds, b)
		}
	}
	if b.MaxReal <= b.MinReal {
		return fmt.Errorf("%w: real axis [%g, %g]", ErrDegenerateBounds, b.MinReal, b.MaxReal)
	}
	if b.MaxImaginary <= b.MinImaginary {
		return fmt.Errorf("%w: imaginary axis [%g, %g]", ErrDegenerateBounds, b.MinImaginary, b.MaxImaginary)
	}
	return nil
}

func (b Bounds) Width() float64  { return b.MaxReal - b.MinReal }
func (b Bounds) Height() float64 { return b.MaxImaginary - b.MinImaginary }

func (b Bounds) String() string {
	return fmt.Sprintf("re[%g, %g] im[%g, %g]", b.MinReal, b.MaxReal, b.MinImaginary, b.MaxImaginary)
}

// Viewport maps pixel coordinates of a width x height image onto Bounds.
// The origin offset subtracts |min| rather than adding min, so a positive
// minimum shifts the view below zero; views are expected to keep the minima
// non-positive.
type Viewport struct {
	stepReal, stepImag float64
	offReal, offImag   float64
}

func NewViewport(width, height int, b Bounds) (Viewport, error) {
	if width <= 0 || height <= 0 {
		return Viewport{}, fmt.Errorf("%w: %dx%d image", ErrDegenerateBounds, width, height)
	}
	if err := b.Validate(); err != nil {
		return Viewport{}, err
	}
	return Viewport{
		stepReal: (b.MaxReal - b.MinReal) / float64(width),
		stepImag: (b.MaxImaginary - b.MinImaginary) / float64(height),
		offReal:  math.Abs(b.MinReal),
		offImag:  math.Abs(b.MinImaginary),
	}, nil
}

// Map returns the plane coordinate of pixel (x, y). x and y must lie inside
// the image; this is not checked.
func (v Viewport) Map(x, y int) (cReal, cImaginary float64) {
	return v.stepReal*float64(x) - v.offReal, v.stepImag*float64(y) - v.offImag
}

// MapPixel is the one-shot form of Viewport.Map.
func MapPixel(x, y, width, height int, b Bounds) (float64, float64) {
	stepReal := (b.MaxReal - b.MinReal) / float64(width)
	stepImag := (b.MaxImaginary - b.MinImaginary) / float64(height)
	return stepReal*float64(x) - math.Abs(b.MinReal), stepImag*float64(y) - math.Abs(b.MinImaginary)
}
