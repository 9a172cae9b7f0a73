// Package output serializes solution snapshots, the topography dump, probe
// samples and the exact solution to the results directory.
package output

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/san-kum/swe1d/internal/probes"
	"github.com/san-kum/swe1d/internal/swe"
)

const exactSolutionFile = "solution_exacte.txt"

type Writer struct {
	dir     string
	centers []float64
	g       float64
}

// NewWriter creates the results directory; an unwritable path is fatal.
func NewWriter(dir string, centers []float64, g float64) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("output: empty results directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("output: create results directory: %w", err)
	}
	return &Writer{dir: dir, centers: centers, g: g}, nil
}

func (w *Writer) Dir() string { return w.dir }

// derived computes the output quantities at one cell: total surface h+z,
// velocity q/h and Froude number |u|/sqrt(g*h). A non-positive depth is an
// error naming the offending cell and time, never a silent NaN.
func (w *Writer) derived(i int, t, h, q, z float64) (surf, u, fr float64, err error) {
	if h <= 0 {
		return 0, 0, 0, fmt.Errorf("t=%.6f cell %d (h=%g): %w", t, i, h, swe.ErrNonPositiveDepth)
	}
	u = q / h
	return h + z, u, math.Abs(u) / math.Sqrt(w.g*h), nil
}

func (w *Writer) SnapshotName(flux string, index int) string {
	return fmt.Sprintf("solution_%s_%d.txt", flux, index)
}

// WriteSnapshot dumps the full field at time t, one row per cell.
func (w *Writer) WriteSnapshot(flux string, index int, f swe.Field, topo []float64, t float64) error {
	return w.writeSolution(filepath.Join(w.dir, w.SnapshotName(flux, index)), f, topo, t)
}

// WriteExactSolution persists the verification reference in snapshot layout.
func (w *Writer) WriteExactSolution(f swe.Field, topo []float64, t float64) error {
	return w.writeSolution(filepath.Join(w.dir, exactSolutionFile), f, topo, t)
}

func (w *Writer) writeSolution(path string, f swe.Field, topo []float64, t float64) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	// Gnuplot comment for the user.
	fmt.Fprintln(buf, "# x  H=h+z   h       u       q       Fr=|u|/sqrt(gh)")
	for i := range f.H {
		surf, u, fr, err := w.derived(i, t, f.H[i], f.Q[i], topo[i])
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, "%g %g %g %g %g %g\n", w.centers[i], surf, f.H[i], u, f.Q[i], fr)
	}
	return buf.Flush()
}

// WriteTopography dumps the static bed profile, once per run.
func (w *Writer) WriteTopography(topo []float64) error {
	file, err := os.Create(filepath.Join(w.dir, "topography.txt"))
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	for i, z := range topo {
		fmt.Fprintf(buf, "%g %g\n", w.centers[i], z)
	}
	return buf.Flush()
}

func (w *Writer) ProbeName(ref int) string {
	return fmt.Sprintf("probe_%d.txt", ref)
}

// AppendProbe appends one comma-separated sample to the probe's file,
// evaluated at its resolved cell.
func (w *Writer) AppendProbe(p probes.Probe, t float64, f swe.Field, topo []float64) error {
	file, err := os.OpenFile(filepath.Join(w.dir, w.ProbeName(p.Ref)),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	defer file.Close()

	i := p.CellIndex
	surf, u, fr, err := w.derived(i, t, f.H[i], f.Q[i], topo[i])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(file, "%g,%g,%g,%g,%g,%g\n", t, surf, f.H[i], u, f.Q[i], fr)
	return err
}
