package steppers

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/swe1d/internal/swe"
)

// decayRHS implements dU/dt = -U on both channels.
var decayRHS = swe.RHSFunc(func(t float64, f swe.Field) (swe.Field, error) {
	k := swe.NewField(f.Len())
	for i := range k.H {
		k.H[i] = -f.H[i]
		k.Q[i] = -f.Q[i]
	}
	return k, nil
})

var zeroRHS = swe.RHSFunc(func(t float64, f swe.Field) (swe.Field, error) {
	return swe.NewField(f.Len()), nil
})

func constantRHS(sh, sq float64) swe.RHS {
	return swe.RHSFunc(func(t float64, f swe.Field) (swe.Field, error) {
		k := swe.NewField(f.Len())
		for i := range k.H {
			k.H[i] = sh
			k.Q[i] = sq
		}
		return k, nil
	})
}

func runDecay(t *testing.T, st swe.Stepper, dt float64, steps int) float64 {
	t.Helper()
	f := swe.Field{H: []float64{1.0}, Q: []float64{1.0}}
	var err error
	for i := 0; i < steps; i++ {
		f, err = st.Step(decayRHS, f, float64(i)*dt, dt)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	return f.H[0]
}

func TestEulerDecay(t *testing.T) {
	got := runDecay(t, NewEuler(), 0.01, 100)
	want := math.Exp(-1.0)
	if math.Abs(got-want) > 1e-2 {
		t.Errorf("expected ~%.6f, got %.6f", want, got)
	}
}

func TestRK2Decay(t *testing.T) {
	got := runDecay(t, NewRK2(), 0.01, 100)
	want := math.Exp(-1.0)
	if math.Abs(got-want) > 1e-5 {
		t.Errorf("expected ~%.6f, got %.6f", want, got)
	}
}

// Halving dt should quarter the RK2 error and halve the Euler error.
func TestOrderOfAccuracy(t *testing.T) {
	want := math.Exp(-1.0)

	coarse := math.Abs(runDecay(t, NewRK2(), 0.02, 50) - want)
	fine := math.Abs(runDecay(t, NewRK2(), 0.01, 100) - want)
	if ratio := coarse / fine; ratio < 3.5 || ratio > 4.5 {
		t.Errorf("rk2 error ratio %f, expected ~4", ratio)
	}

	coarse = math.Abs(runDecay(t, NewEuler(), 0.02, 50) - want)
	fine = math.Abs(runDecay(t, NewEuler(), 0.01, 100) - want)
	if ratio := coarse / fine; ratio < 1.7 || ratio > 2.3 {
		t.Errorf("euler error ratio %f, expected ~2", ratio)
	}
}

func TestRK2ConstantSource(t *testing.T) {
	// With zero flux and constant source, k1 == k2 and one step reduces to
	// f + dt*source.
	f := swe.Field{H: []float64{1.0, 2.0}, Q: []float64{0.0, -1.0}}
	out, err := NewRK2().Step(constantRHS(1.0, 2.0), f, 0, 0.1)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	for i := range out.H {
		if math.Abs(out.H[i]-(f.H[i]+0.1)) > 1e-14 {
			t.Errorf("h[%d]: expected %f, got %f", i, f.H[i]+0.1, out.H[i])
		}
		if math.Abs(out.Q[i]-(f.Q[i]+0.2)) > 1e-14 {
			t.Errorf("q[%d]: expected %f, got %f", i, f.Q[i]+0.2, out.Q[i])
		}
	}
}

func TestSteadyStateInvariance(t *testing.T) {
	f := swe.Field{H: []float64{2.0, 2.0, 2.0}, Q: []float64{0.5, 0.5, 0.5}}
	for _, st := range []swe.Stepper{NewEuler(), NewRK2()} {
		out, err := st.Step(zeroRHS, f, 0, 0.1)
		if err != nil {
			t.Fatalf("%s: %v", st.Name(), err)
		}
		for i := range out.H {
			if out.H[i] != f.H[i] || out.Q[i] != f.Q[i] {
				t.Errorf("%s: cell %d changed under zero rhs", st.Name(), i)
			}
		}
	}
}

func TestStepPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	bad := swe.RHSFunc(func(t float64, f swe.Field) (swe.Field, error) {
		return swe.Field{}, boom
	})
	f := swe.NewField(3)
	for _, st := range []swe.Stepper{NewEuler(), NewRK2()} {
		if _, err := st.Step(bad, f, 0, 0.1); !errors.Is(err, boom) {
			t.Errorf("%s: expected rhs error, got %v", st.Name(), err)
		}
	}
}

func TestRK2LeavesInputUntouched(t *testing.T) {
	f := swe.Field{H: []float64{1.0}, Q: []float64{2.0}}
	if _, err := NewRK2().Step(decayRHS, f, 0, 0.5); err != nil {
		t.Fatalf("step: %v", err)
	}
	if f.H[0] != 1.0 || f.Q[0] != 2.0 {
		t.Error("input field mutated during step")
	}
}
