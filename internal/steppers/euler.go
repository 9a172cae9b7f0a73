package steppers

import "github.com/san-kum/swe1d/internal/swe"

// Euler is the forward Euler scheme: one right-hand-side evaluation per step,
// first-order accurate in time.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(rhs swe.RHS, f swe.Field, t, dt float64) (swe.Field, error) {
	k1, err := rhs.Eval(t, f)
	if err != nil {
		return swe.Field{}, err
	}
	return f.AXPY(dt, k1), nil
}
