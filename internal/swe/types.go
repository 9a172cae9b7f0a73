package swe

import "math"

// Field holds the conserved variables on the mesh: water depth H and
// discharge Q, one entry per cell. Both channels always have the same length.
type Field struct {
	H []float64
	Q []float64
}

func NewField(n int) Field {
	return Field{H: make([]float64, n), Q: make([]float64, n)}
}

func (f Field) Len() int { return len(f.H) }

func (f Field) Clone() Field {
	c := NewField(f.Len())
	copy(c.H, f.H)
	copy(c.Q, f.Q)
	return c
}

// AXPY returns f + a*k as a new field.
func (f Field) AXPY(a float64, k Field) Field {
	r := NewField(f.Len())
	for i := range f.H {
		r.H[i] = f.H[i] + a*k.H[i]
		r.Q[i] = f.Q[i] + a*k.Q[i]
	}
	return r
}

func (f Field) IsValid() bool {
	for i := range f.H {
		if math.IsNaN(f.H[i]) || math.IsInf(f.H[i], 0) {
			return false
		}
		if math.IsNaN(f.Q[i]) || math.IsInf(f.Q[i], 0) {
			return false
		}
	}
	return true
}

// Clock tracks simulation time. Current advances by exactly Step per
// iteration; the loop ends once Current >= Final, so the final time may be
// overshot by less than one step.
type Clock struct {
	Current float64
	Step    float64
	Initial float64
	Final   float64
}

func (c *Clock) Advance() { c.Current += c.Step }

func (c *Clock) Done() bool { return c.Current >= c.Final }

// Mesh describes a fixed 1D cell-centered grid with uniform spacing.
type Mesh interface {
	NumCells() int
	CellCenters() []float64
	SpaceStep() float64
}

// Physics supplies the case-dependent data: initial condition, bottom
// topography, source term and, for verification cases, the exact solution.
type Physics interface {
	InitialCondition() Field
	Topography() []float64
	SourceTerm(f Field) (Field, error)
	ExactSolution(t float64) (Field, error)
	Gravity() float64
}

// FluxAssembler evaluates the net numerical flux per cell for a given state.
// The returned field holds -(F_{i+1/2} - F_{i-1/2}) so the semi-discrete
// update is dU/dt = flux/dx + source.
type FluxAssembler interface {
	Evaluate(t float64, f Field) (Field, error)
	Name() string
}

// RHS is the assembled right-hand side of the semi-discretization,
// flux/dx + source, recomputed from scratch on every call.
type RHS interface {
	Eval(t float64, f Field) (Field, error)
}

// RHSFunc adapts a function to the RHS interface.
type RHSFunc func(t float64, f Field) (Field, error)

func (fn RHSFunc) Eval(t float64, f Field) (Field, error) { return fn(t, f) }

// Stepper advances the field by one time step. Implementations are stateless
// between calls and must not mutate f.
type Stepper interface {
	Step(rhs RHS, f Field, t, dt float64) (Field, error)
	Name() string
}
