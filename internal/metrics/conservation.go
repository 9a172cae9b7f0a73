// Package metrics observes conserved quantities along a run. The schemes are
// conservative away from the boundaries, so large drifts flag a broken flux
// assembler or an unstable step.
package metrics

import (
	"math"

	"github.com/san-kum/swe1d/internal/swe"
)

type Metric interface {
	Name() string
	Observe(f swe.Field, t float64)
	Value() float64
	Reset()
}

// Mass tracks the relative drift of the total water volume sum(h)*dx.
type Mass struct {
	dx       float64
	initial  float64
	maxDrift float64
	samples  int
}

func NewMass(dx float64) *Mass {
	return &Mass{dx: dx}
}

func (m *Mass) Name() string { return "mass_drift" }

func (m *Mass) Observe(f swe.Field, t float64) {
	total := 0.0
	for _, h := range f.H {
		total += h
	}
	total *= m.dx

	if m.samples == 0 {
		m.initial = total
	}
	m.samples++

	if m.initial != 0 {
		drift := math.Abs(total-m.initial) / math.Abs(m.initial)
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *Mass) Value() float64 { return m.maxDrift }

func (m *Mass) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}

// Momentum tracks the drift of the total discharge sum(q)*dx, relative when
// the initial total is nonzero and absolute otherwise.
type Momentum struct {
	dx       float64
	initial  float64
	maxDrift float64
	samples  int
}

func NewMomentum(dx float64) *Momentum {
	return &Momentum{dx: dx}
}

func (m *Momentum) Name() string { return "momentum_drift" }

func (m *Momentum) Observe(f swe.Field, t float64) {
	total := 0.0
	for _, q := range f.Q {
		total += q
	}
	total *= m.dx

	if m.samples == 0 {
		m.initial = total
	}
	m.samples++

	drift := math.Abs(total - m.initial)
	if m.initial != 0 {
		drift /= math.Abs(m.initial)
	}
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *Momentum) Value() float64 { return m.maxDrift }

func (m *Momentum) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}
