// Package physics implements the shallow-water test cases: initial
// conditions, bottom topography, the topography source term and, where one
// exists, the closed-form exact solution used for verification.
package physics

import (
	"fmt"

	"github.com/san-kum/swe1d/internal/swe"
)

// topoSource is the bed-slope source term (0, -g*h*dz/dx), with centered
// differences inside the domain and one-sided differences at the boundaries.
func topoSource(f swe.Field, topo []float64, dx, g float64) (swe.Field, error) {
	n := f.Len()
	if n != len(topo) {
		return swe.Field{}, fmt.Errorf("state has %d rows, topography %d: %w",
			n, len(topo), swe.ErrDimensionMismatch)
	}
	out := swe.NewField(n)
	if n == 1 {
		return out, nil
	}
	for i := 0; i < n; i++ {
		var dz float64
		switch i {
		case 0:
			dz = (topo[1] - topo[0]) / dx
		case n - 1:
			dz = (topo[n-1] - topo[n-2]) / dx
		default:
			dz = (topo[i+1] - topo[i-1]) / (2 * dx)
		}
		out.Q[i] = -g * f.H[i] * dz
	}
	return out, nil
}

// parabolicBump is the standard emerged-bump profile centered on xc.
func parabolicBump(x, xc float64) float64 {
	z := 0.2 - 0.05*(x-xc)*(x-xc)
	if z < 0 {
		return 0
	}
	return z
}
