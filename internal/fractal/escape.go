package fractal

import "math"

const (
	// IterationCeiling bounds per-pixel work regardless of zoom.
	IterationCeiling = 1 << 16
	// IterationsPerZoom is the iteration budget at zoom level 1.
	IterationsPerZoom = 200

	escapeRadiusSq = 4
)

// MaxIterations derives the iteration cap for a zoom level. It is at least 1.
func MaxIterations(zoom float64) int {
	n := math.Floor(math.Min(IterationsPerZoom*zoom, IterationCeiling))
	if math.IsNaN(n) || n < 1 {
		return 1
	}
	return int(n)
}

// Sample is the outcome of iterating one point.
type Sample struct {
	// Iteration is the escape count, or the cap when the point stayed bounded.
	Iteration int
	// RealSq and ImagSq are the squared components of z at loop exit.
	RealSq, ImagSq float64
}

// Escaped reports whether the orbit left the escape radius before the cap.
func (s Sample) Escaped(maxIterations int) bool {
	return s.Iteration < maxIterations
}

// Evaluate iterates z = z^2 + c from z = 0. With alternate set, both
// components are folded to their absolute value after each step, producing
// the Burning Ship. An orbit that reaches a fixed point is reported as
// bounded without running to the cap. A NaN magnitude fails the radius test
// and counts as an escape.
func Evaluate(cReal, cImaginary float64, maxIterations int, alternate bool) Sample {
	var zr, zi float64
	rr, ii := 0.0, 0.0
	iteration := 0

	for rr+ii < escapeRadiusSq && iteration < maxIterations {
		nr := rr - ii + cReal
		ni := 2*zr*zi + cImaginary
		if nr == zr && ni == zi {
			iteration = maxIterations
			break
		}
		if alternate {
			nr, ni = math.Abs(nr), math.Abs(ni)
		}
		zr, zi = nr, ni
		rr, ii = zr*zr, zi*zi
		iteration++
	}

	return Sample{Iteration: iteration, RealSq: rr, ImagSq: ii}
}
