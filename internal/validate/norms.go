// Package validate computes the discrete error norms used to verify scheme
// order of accuracy against an exact solution.
package validate

import (
	"math"

	"github.com/san-kum/swe1d/internal/swe"
)

// L2 returns the rectangle-rule L2 error per channel: the Euclidean norm of
// the elementwise difference, scaled by the uniform spacing dx.
func L2(f, exact swe.Field, dx float64) (errH, errQ float64) {
	var sh, sq float64
	for i := range f.H {
		dh := f.H[i] - exact.H[i]
		dq := f.Q[i] - exact.Q[i]
		sh += dh * dh
		sq += dq * dq
	}
	return dx * math.Sqrt(sh), dx * math.Sqrt(sq)
}

// L1 returns the rectangle-rule L1 error per channel: the sum of absolute
// elementwise differences, scaled by dx.
func L1(f, exact swe.Field, dx float64) (errH, errQ float64) {
	var sh, sq float64
	for i := range f.H {
		sh += math.Abs(f.H[i] - exact.H[i])
		sq += math.Abs(f.Q[i] - exact.Q[i])
	}
	return dx * sh, dx * sq
}
