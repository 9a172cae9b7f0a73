// Package fluxes provides the finite-volume flux assemblers. Each assembler
// returns the net numerical flux per cell, -(F_{i+1/2} - F_{i-1/2}), using
// copy (Neumann) ghost cells at both boundaries.
package fluxes

import (
	"fmt"

	"github.com/san-kum/swe1d/internal/swe"
)

// interfaceFlux computes the numerical flux between a left and right state.
type interfaceFlux func(hl, ql, hr, qr float64) (fh, fq float64)

// physFlux is the exact Saint-Venant flux F(U) = (q, q^2/h + g*h^2/2).
func physFlux(h, q, g float64) (float64, float64) {
	return q, q*q/h + 0.5*g*h*h
}

func checkDepths(f swe.Field) error {
	for i, h := range f.H {
		if h <= 0 {
			return fmt.Errorf("cell %d (h=%g): %w", i, h, swe.ErrNonPositiveDepth)
		}
	}
	return nil
}

// assemble applies the interface flux across all cell faces. Ghost cells
// mirror the first and last cell.
func assemble(f swe.Field, flux interfaceFlux) swe.Field {
	n := f.Len()
	out := swe.NewField(n)

	// F[i] is the flux through the face left of cell i; F[n] the right
	// boundary face.
	fh := make([]float64, n+1)
	fq := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		l := i - 1
		if l < 0 {
			l = 0
		}
		r := i
		if r > n-1 {
			r = n - 1
		}
		fh[i], fq[i] = flux(f.H[l], f.Q[l], f.H[r], f.Q[r])
	}

	for i := 0; i < n; i++ {
		out.H[i] = -(fh[i+1] - fh[i])
		out.Q[i] = -(fq[i+1] - fq[i])
	}
	return out
}
