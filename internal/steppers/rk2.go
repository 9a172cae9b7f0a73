package steppers

import "github.com/san-kum/swe1d/internal/swe"

// RK2 is the two-stage Heun scheme, second-order accurate in time for smooth
// solutions:
//
//	k1 = L(t, f)
//	k2 = L(t+dt, f + dt*k1)
//	f' = f + dt/2 * (k1 + k2)
//
// The predicted state f + dt*k1 is transient; f is only read until the
// blended update is computed.
type RK2 struct{}

func NewRK2() *RK2 {
	return &RK2{}
}

func (r *RK2) Name() string { return "rk2" }

func (r *RK2) Step(rhs swe.RHS, f swe.Field, t, dt float64) (swe.Field, error) {
	k1, err := rhs.Eval(t, f)
	if err != nil {
		return swe.Field{}, err
	}

	pred := f.AXPY(dt, k1)
	k2, err := rhs.Eval(t+dt, pred)
	if err != nil {
		return swe.Field{}, err
	}

	out := swe.NewField(f.Len())
	half := 0.5 * dt
	for i := range out.H {
		out.H[i] = f.H[i] + half*(k1.H[i]+k2.H[i])
		out.Q[i] = f.Q[i] + half*(k1.Q[i]+k2.Q[i])
	}
	return out, nil
}
