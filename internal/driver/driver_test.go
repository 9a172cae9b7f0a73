package driver_test

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/swe1d/internal/driver"
	"github.com/san-kum/swe1d/internal/mesh"
	"github.com/san-kum/swe1d/internal/metrics"
	"github.com/san-kum/swe1d/internal/probes"
	"github.com/san-kum/swe1d/internal/steppers"
	"github.com/san-kum/swe1d/internal/swe"
)

// stillWater is a fake physics: constant depth, zero discharge, flat bottom,
// zero source, exact solution equal to the initial condition.
type stillWater struct {
	n     int
	depth float64
}

func (p *stillWater) Gravity() float64 { return 9.81 }

func (p *stillWater) Topography() []float64 { return make([]float64, p.n) }

func (p *stillWater) InitialCondition() swe.Field {
	f := swe.NewField(p.n)
	for i := range f.H {
		f.H[i] = p.depth
	}
	return f
}

func (p *stillWater) SourceTerm(f swe.Field) (swe.Field, error) {
	return swe.NewField(f.Len()), nil
}

func (p *stillWater) ExactSolution(t float64) (swe.Field, error) {
	return p.InitialCondition(), nil
}

// constSource adds a constant source on top of stillWater.
type constSource struct {
	stillWater
	sh, sq float64
}

func (p *constSource) SourceTerm(f swe.Field) (swe.Field, error) {
	out := swe.NewField(f.Len())
	for i := range out.H {
		out.H[i] = p.sh
		out.Q[i] = p.sq
	}
	return out, nil
}

// zeroFlux returns zero net flux for every cell.
type zeroFlux struct{ rows int }

func (z *zeroFlux) Name() string { return "zero" }

func (z *zeroFlux) Evaluate(t float64, f swe.Field) (swe.Field, error) {
	rows := z.rows
	if rows == 0 {
		rows = f.Len()
	}
	return swe.NewField(rows), nil
}

// nanFlux poisons the state.
type nanFlux struct{}

func (n *nanFlux) Name() string { return "nan" }

func (n *nanFlux) Evaluate(t float64, f swe.Field) (swe.Field, error) {
	out := swe.NewField(f.Len())
	out.H[0] = math.NaN()
	return out, nil
}

func newMesh(n int) *mesh.Uniform {
	m, err := mesh.NewUniform(0, 10, n)
	Expect(err).NotTo(HaveOccurred())
	return m
}

// readColumn parses a whitespace-separated snapshot file, skipping the
// comment header, and returns one column.
func readColumn(path string, col int) []float64 {
	data, err := os.ReadFile(path)
	Expect(err).NotTo(HaveOccurred())
	var vals []float64
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		Expect(len(fields)).To(Equal(6))
		v, err := strconv.ParseFloat(fields[col], 64)
		Expect(err).NotTo(HaveOccurred())
		vals = append(vals, v)
	}
	return vals
}

func countSnapshots(dir, flux string) int {
	entries, err := os.ReadDir(dir)
	Expect(err).NotTo(HaveOccurred())
	count := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "solution_"+flux+"_") {
			count++
		}
	}
	return count
}

var _ = Describe("Simulation", func() {
	var (
		dir  string
		sim  *driver.Simulation
		phys *stillWater
	)

	// Binary-exact time steps keep the iteration counts deterministic.
	params := func() driver.Params {
		return driver.Params{
			TimeStep:    0.25,
			InitialTime: 0,
			FinalTime:   2.0,
			SaveEvery:   2,
			OutputDir:   dir,
		}
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		sim = driver.New()
		phys = &stillWater{n: 20, depth: 1.5}
	})

	Describe("Initialize", func() {
		It("rejects a non-positive time step", func() {
			p := params()
			p.TimeStep = 0
			err := sim.Initialize(p, newMesh(20), phys, &zeroFlux{}, steppers.NewEuler())
			Expect(err).To(MatchError(swe.ErrInvalidConfig))
		})

		It("rejects a reversed time horizon", func() {
			p := params()
			p.FinalTime = -1
			err := sim.Initialize(p, newMesh(20), phys, &zeroFlux{}, steppers.NewEuler())
			Expect(err).To(MatchError(swe.ErrInvalidConfig))
		})

		It("rejects missing collaborators", func() {
			err := sim.Initialize(params(), newMesh(20), nil, &zeroFlux{}, steppers.NewEuler())
			Expect(err).To(MatchError(swe.ErrInvalidConfig))
		})

		It("rejects a save frequency below the probe cadence granularity", func() {
			p := params()
			p.SaveEvery = 5
			p.Probes = []probes.Probe{{Ref: 1, Position: 3.0}}
			err := sim.Initialize(p, newMesh(20), phys, &zeroFlux{}, steppers.NewEuler())
			Expect(err).To(MatchError(swe.ErrInvalidConfig))
			Expect(err.Error()).To(ContainSubstring("probe cadence"))
		})

		It("rejects an initial condition sized unlike the mesh", func() {
			small := &stillWater{n: 5, depth: 1.0}
			err := sim.Initialize(params(), newMesh(20), small, &zeroFlux{}, steppers.NewEuler())
			Expect(err).To(MatchError(swe.ErrDimensionMismatch))
		})
	})

	Describe("Run", func() {
		It("fails before Initialize", func() {
			_, err := sim.Run(context.Background())
			Expect(err).To(MatchError(swe.ErrNotInitialized))
		})

		It("writes the initial condition as snapshot 0, exactly", func() {
			Expect(sim.Initialize(params(), newMesh(20), phys, &zeroFlux{}, steppers.NewEuler())).To(Succeed())
			_, err := sim.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			h := readColumn(filepath.Join(dir, "solution_zero_0.txt"), 2)
			Expect(h).To(HaveLen(20))
			for _, v := range h {
				Expect(v).To(Equal(1.5))
			}

			_, err = os.Stat(filepath.Join(dir, "topography.txt"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps a steady state invariant over the whole run", func() {
			Expect(sim.Initialize(params(), newMesh(20), phys, &zeroFlux{}, steppers.NewRK2())).To(Succeed())
			report, err := sim.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Steps).To(Equal(8))

			f := sim.Field()
			ic := phys.InitialCondition()
			for i := range f.H {
				Expect(f.H[i]).To(Equal(ic.H[i]))
				Expect(f.Q[i]).To(Equal(ic.Q[i]))
			}
		})

		It("writes snapshots exactly on the save cadence", func() {
			Expect(sim.Initialize(params(), newMesh(20), phys, &zeroFlux{}, steppers.NewEuler())).To(Succeed())
			report, err := sim.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			// 8 steps, SaveEvery=2: indices 0 (initial) plus 1..4.
			Expect(report.Snapshots).To(Equal(5))
			Expect(countSnapshots(dir, "zero")).To(Equal(5))
			for idx := 0; idx <= 4; idx++ {
				_, err := os.Stat(filepath.Join(dir, "solution_zero_"+strconv.Itoa(idx)+".txt"))
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("writes only the first and final snapshots in save-final-only mode", func() {
			p := params()
			p.SaveFinalOnly = true
			Expect(sim.Initialize(p, newMesh(20), phys, &zeroFlux{}, steppers.NewEuler())).To(Succeed())
			report, err := sim.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Snapshots).To(Equal(2))
			Expect(countSnapshots(dir, "zero")).To(Equal(2))
			// Final index is n / SaveEvery = 8/2.
			_, err = os.Stat(filepath.Join(dir, "solution_zero_4.txt"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("samples probes on the derived cadence", func() {
			p := params()
			p.SaveEvery = 10
			p.Probes = []probes.Probe{{Ref: 3, Position: 4.1}}
			Expect(sim.Initialize(p, newMesh(20), phys, &zeroFlux{}, steppers.NewEuler())).To(Succeed())
			report, err := sim.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Steps).To(Equal(8))

			// probeEvery = 10/10 = 1: one sample per step.
			data, err := os.ReadFile(filepath.Join(dir, "probe_3.txt"))
			Expect(err).NotTo(HaveOccurred())
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			Expect(lines).To(HaveLen(8))
			Expect(strings.Split(lines[0], ",")).To(HaveLen(6))
		})

		It("advances the field under a constant source", func() {
			src := &constSource{stillWater: stillWater{n: 20, depth: 1.0}, sh: 1.0, sq: 2.0}
			p := params()
			p.FinalTime = 0.25 // exactly one step
			Expect(sim.Initialize(p, newMesh(20), src, &zeroFlux{}, steppers.NewRK2())).To(Succeed())
			report, err := sim.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Steps).To(Equal(1))

			f := sim.Field()
			for i := range f.H {
				Expect(f.H[i]).To(BeNumerically("~", 1.25, 1e-14))
				Expect(f.Q[i]).To(BeNumerically("~", 0.5, 1e-14))
			}
		})

		It("reports zero error norms when the run matches the exact solution", func() {
			p := params()
			p.Verify = true
			Expect(sim.Initialize(p, newMesh(20), phys, &zeroFlux{}, steppers.NewRK2())).To(Succeed())
			report, err := sim.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Verified).To(BeTrue())
			Expect(report.L1H).To(BeZero())
			Expect(report.L1Q).To(BeZero())
			Expect(report.L2H).To(BeZero())
			Expect(report.L2Q).To(BeZero())

			_, err = os.Stat(filepath.Join(dir, "solution_exacte.txt"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("collects conservation metrics", func() {
			m := newMesh(20)
			Expect(sim.Initialize(params(), m, phys, &zeroFlux{}, steppers.NewEuler())).To(Succeed())
			sim.AddMetric(metrics.NewMass(m.SpaceStep()))
			report, err := sim.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Metrics).To(HaveKeyWithValue("mass_drift", 0.0))
		})

		It("treats a flux row-count mismatch as a fatal defect", func() {
			Expect(sim.Initialize(params(), newMesh(20), phys, &zeroFlux{rows: 7}, steppers.NewEuler())).To(Succeed())
			_, err := sim.Run(context.Background())
			Expect(err).To(MatchError(swe.ErrDimensionMismatch))
			var stepErr *swe.StepError
			Expect(err).To(BeAssignableToTypeOf(stepErr))
		})

		It("aborts when the state picks up NaN", func() {
			Expect(sim.Initialize(params(), newMesh(20), phys, &nanFlux{}, steppers.NewEuler())).To(Succeed())
			_, err := sim.Run(context.Background())
			Expect(err).To(MatchError(swe.ErrUnstable))
		})

		It("honors context cancellation", func() {
			Expect(sim.Initialize(params(), newMesh(20), phys, &zeroFlux{}, steppers.NewEuler())).To(Succeed())
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := sim.Run(ctx)
			Expect(err).To(MatchError(context.Canceled))
		})

		It("can be re-initialized for a fresh run", func() {
			Expect(sim.Initialize(params(), newMesh(20), phys, &zeroFlux{}, steppers.NewEuler())).To(Succeed())
			_, err := sim.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			dir = GinkgoT().TempDir()
			p := params()
			Expect(sim.Initialize(p, newMesh(20), phys, &zeroFlux{}, steppers.NewEuler())).To(Succeed())
			Expect(sim.Clock().Current).To(BeZero())
			report, err := sim.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Steps).To(Equal(8))
		})
	})
})
