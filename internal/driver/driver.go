// Package driver owns the time loop: it holds the solution state and the
// clock, invokes the active stepper each iteration, and triggers snapshots,
// probe samples and verification norms on the configured cadence.
package driver

import (
	"context"
	"fmt"

	"github.com/san-kum/swe1d/internal/metrics"
	"github.com/san-kum/swe1d/internal/output"
	"github.com/san-kum/swe1d/internal/probes"
	"github.com/san-kum/swe1d/internal/swe"
	"github.com/san-kum/swe1d/internal/validate"
)

// probeCadenceDivisor derives the probe sampling period from the snapshot
// period; SaveEvery below it is a configuration error, not a zero modulus.
const probeCadenceDivisor = 10

// Params is the run configuration consumed by the driver.
type Params struct {
	TimeStep      float64
	InitialTime   float64
	FinalTime     float64
	SaveEvery     int
	SaveFinalOnly bool
	Verify        bool
	OutputDir     string
	Probes        []probes.Probe
}

// Report summarizes a completed run.
type Report struct {
	Steps     int
	FinalTime float64
	Snapshots int
	Verified  bool
	L1H, L1Q  float64
	L2H, L2Q  float64
	Metrics   map[string]float64
}

// Simulation drives one run. It is the only component that mutates the
// solution field and the clock; steppers receive the field by value and
// return a fresh one.
type Simulation struct {
	params  Params
	mesh    swe.Mesh
	physics swe.Physics
	flux    swe.FluxAssembler
	stepper swe.Stepper
	writer  *output.Writer
	metrics []metrics.Metric

	field       swe.Field
	clock       swe.Clock
	probes      []probes.Probe
	initialized bool
}

func New() *Simulation {
	return &Simulation{}
}

// Initialize validates the configuration, binds the collaborators and
// allocates the solution from the initial condition. Calling it again resets
// the simulation completely.
func (s *Simulation) Initialize(p Params, m swe.Mesh, phys swe.Physics, flux swe.FluxAssembler, stepper swe.Stepper) error {
	s.initialized = false

	if m == nil || phys == nil || flux == nil || stepper == nil {
		return fmt.Errorf("%w: missing collaborator binding", swe.ErrInvalidConfig)
	}
	if m.NumCells() == 0 {
		return fmt.Errorf("%w: zero-sized mesh", swe.ErrInvalidConfig)
	}
	if p.TimeStep <= 0 {
		return fmt.Errorf("%w: time step must be positive, got %g", swe.ErrInvalidConfig, p.TimeStep)
	}
	if p.FinalTime <= p.InitialTime {
		return fmt.Errorf("%w: final time %g not after initial time %g",
			swe.ErrInvalidConfig, p.FinalTime, p.InitialTime)
	}
	if p.SaveEvery < 1 {
		return fmt.Errorf("%w: save frequency must be at least 1, got %d",
			swe.ErrInvalidConfig, p.SaveEvery)
	}
	if len(p.Probes) > 0 && p.SaveEvery < probeCadenceDivisor {
		return fmt.Errorf("%w: save frequency %d below probe cadence granularity %d",
			swe.ErrInvalidConfig, p.SaveEvery, probeCadenceDivisor)
	}

	ic := phys.InitialCondition()
	if ic.Len() != m.NumCells() {
		return fmt.Errorf("initial condition has %d rows for %d cells: %w",
			ic.Len(), m.NumCells(), swe.ErrDimensionMismatch)
	}

	writer, err := output.NewWriter(p.OutputDir, m.CellCenters(), phys.Gravity())
	if err != nil {
		return err
	}

	s.params = p
	s.mesh = m
	s.physics = phys
	s.flux = flux
	s.stepper = stepper
	s.writer = writer
	s.field = ic
	s.clock = swe.Clock{
		Current: p.InitialTime,
		Step:    p.TimeStep,
		Initial: p.InitialTime,
		Final:   p.FinalTime,
	}
	s.probes = make([]probes.Probe, len(p.Probes))
	copy(s.probes, p.Probes)
	s.initialized = true
	return nil
}

func (s *Simulation) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }

// Field returns the current solution. Exposed for tests and the live view.
func (s *Simulation) Field() swe.Field { return s.field }

func (s *Simulation) Clock() swe.Clock { return s.clock }

// ComposeRHS assembles flux/dx + source, verifying the collaborator row
// counts on every evaluation. Shared with the live view.
func ComposeRHS(m swe.Mesh, phys swe.Physics, flux swe.FluxAssembler) swe.RHS {
	n := m.NumCells()
	dx := m.SpaceStep()
	return swe.RHSFunc(func(t float64, f swe.Field) (swe.Field, error) {
		fl, err := flux.Evaluate(t, f)
		if err != nil {
			return swe.Field{}, err
		}
		if fl.Len() != n {
			return swe.Field{}, fmt.Errorf("flux table has %d rows for %d cells: %w",
				fl.Len(), n, swe.ErrDimensionMismatch)
		}
		src, err := phys.SourceTerm(f)
		if err != nil {
			return swe.Field{}, err
		}
		if src.Len() != n {
			return swe.Field{}, fmt.Errorf("source table has %d rows for %d cells: %w",
				src.Len(), n, swe.ErrDimensionMismatch)
		}
		out := swe.NewField(n)
		for i := 0; i < n; i++ {
			out.H[i] = fl.H[i]/dx + src.H[i]
			out.Q[i] = fl.Q[i]/dx + src.Q[i]
		}
		return out, nil
	})
}

// Run executes the full time loop. Any failure aborts the run; a broken state
// at step n invalidates everything after it, so nothing is retried.
func (s *Simulation) Run(ctx context.Context) (*Report, error) {
	if !s.initialized {
		return nil, swe.ErrNotInitialized
	}

	logger.Info().
		Str("flux", s.flux.Name()).
		Str("scheme", s.stepper.Name()).
		Int("cells", s.mesh.NumCells()).
		Float64("dt", s.clock.Step).
		Float64("t_final", s.clock.Final).
		Msg("time loop starting")

	for _, m := range s.metrics {
		m.Reset()
	}

	topo := s.physics.Topography()
	report := &Report{Metrics: make(map[string]float64)}

	// Initial condition is snapshot 0; the topography dump happens once.
	if err := s.writer.WriteSnapshot(s.flux.Name(), 0, s.field, topo, s.clock.Current); err != nil {
		return nil, err
	}
	report.Snapshots++
	if err := s.writer.WriteTopography(topo); err != nil {
		return nil, err
	}

	if err := probes.Resolve(s.probes, s.mesh); err != nil {
		return nil, err
	}

	rhs := ComposeRHS(s.mesh, s.physics, s.flux)
	probeEvery := s.params.SaveEvery / probeCadenceDivisor
	n := 0

	for !s.clock.Done() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		next, err := s.stepper.Step(rhs, s.field, s.clock.Current, s.clock.Step)
		if err != nil {
			return nil, &swe.StepError{Step: n + 1, Time: s.clock.Current, Wrapped: err}
		}
		if !next.IsValid() {
			return nil, &swe.StepError{Step: n + 1, Time: s.clock.Current, Wrapped: swe.ErrUnstable}
		}

		s.field = next
		n++
		s.clock.Advance()

		for _, m := range s.metrics {
			m.Observe(s.field, s.clock.Current)
		}

		if !s.params.SaveFinalOnly && n%s.params.SaveEvery == 0 {
			idx := n / s.params.SaveEvery
			if err := s.writer.WriteSnapshot(s.flux.Name(), idx, s.field, topo, s.clock.Current); err != nil {
				return nil, &swe.StepError{Step: n, Time: s.clock.Current, Wrapped: err}
			}
			report.Snapshots++
		}
		if len(s.probes) > 0 && n%probeEvery == 0 {
			for _, p := range s.probes {
				if err := s.writer.AppendProbe(p, s.clock.Current, s.field, topo); err != nil {
					return nil, &swe.StepError{Step: n, Time: s.clock.Current, Wrapped: err}
				}
			}
		}
	}

	if s.params.SaveFinalOnly {
		idx := n / s.params.SaveEvery
		if err := s.writer.WriteSnapshot(s.flux.Name(), idx, s.field, topo, s.clock.Current); err != nil {
			return nil, err
		}
		report.Snapshots++
	}

	report.Steps = n
	report.FinalTime = s.clock.Current

	if s.params.Verify {
		if err := s.verify(report, topo); err != nil {
			return nil, err
		}
	}

	for _, m := range s.metrics {
		report.Metrics[m.Name()] = m.Value()
	}

	logger.Info().Int("steps", n).Float64("t", s.clock.Current).Msg("time loop finished")
	return report, nil
}

// verify builds the exact solution at the final time, persists it and reports
// the L1/L2 errors for both channels.
func (s *Simulation) verify(report *Report, topo []float64) error {
	exact, err := s.physics.ExactSolution(s.clock.Current)
	if err != nil {
		return fmt.Errorf("verification: %w", err)
	}
	if exact.Len() != s.mesh.NumCells() {
		return fmt.Errorf("exact solution has %d rows for %d cells: %w",
			exact.Len(), s.mesh.NumCells(), swe.ErrDimensionMismatch)
	}
	if err := s.writer.WriteExactSolution(exact, topo, s.clock.Current); err != nil {
		return err
	}

	dx := s.mesh.SpaceStep()
	report.L2H, report.L2Q = validate.L2(s.field, exact, dx)
	report.L1H, report.L1Q = validate.L1(s.field, exact, dx)
	report.Verified = true

	logger.Info().
		Float64("dx", dx).
		Float64("err_h", report.L2H).
		Float64("err_q", report.L2Q).
		Msg("L2 error")
	logger.Info().
		Float64("dx", dx).
		Float64("err_h", report.L1H).
		Float64("err_q", report.L1Q).
		Msg("L1 error")
	return nil
}
