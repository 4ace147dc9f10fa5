// Package fractal implements the escape-time core: mapping pixels onto the
// complex plane and iterating the Mandelbrot recurrence (or its Burning Ship
// variant) for one point.
//
// # Example
//
//	vp, err := fractal.NewViewport(640, 480, fractal.Home)
//	cr, ci := vp.Map(x, y)
//	s := fractal.Evaluate(cr, ci, fractal.MaxIterations(zoom), false)
//	if s.Escaped(maxIter) { ... }
//
// Everything here is pure and safe for concurrent use.
package fractal
