package fluxes

import (
	"math"

	"github.com/san-kum/swe1d/internal/swe"
)

// Rusanov is the local Lax-Friedrichs flux: central average plus a
// dissipation proportional to the fastest local wave speed.
type Rusanov struct {
	g float64
}

func NewRusanov(g float64) *Rusanov {
	return &Rusanov{g: g}
}

func (r *Rusanov) Name() string { return "rusanov" }

func (r *Rusanov) Evaluate(t float64, f swe.Field) (swe.Field, error) {
	if err := checkDepths(f); err != nil {
		return swe.Field{}, err
	}
	g := r.g
	return assemble(f, func(hl, ql, hr, qr float64) (float64, float64) {
		ul, ur := ql/hl, qr/hr
		a := math.Max(math.Abs(ul)+math.Sqrt(g*hl), math.Abs(ur)+math.Sqrt(g*hr))
		flh, flq := physFlux(hl, ql, g)
		frh, frq := physFlux(hr, qr, g)
		return 0.5*(flh+frh) - 0.5*a*(hr-hl), 0.5*(flq+frq) - 0.5*a*(qr-ql)
	}), nil
}
