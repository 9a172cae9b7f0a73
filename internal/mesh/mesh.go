// Package mesh builds the fixed uniform 1D grid the solver runs on.
package mesh

import "fmt"

// Uniform is a cell-centered grid of n equal cells on [xmin, xmax].
type Uniform struct {
	xmin, xmax float64
	n          int
	dx         float64
	centers    []float64
}

func NewUniform(xmin, xmax float64, n int) (*Uniform, error) {
	if n <= 0 {
		return nil, fmt.Errorf("mesh must have at least one cell, got %d", n)
	}
	if xmax <= xmin {
		return nil, fmt.Errorf("invalid domain [%g, %g]", xmin, xmax)
	}
	dx := (xmax - xmin) / float64(n)
	centers := make([]float64, n)
	for i := range centers {
		centers[i] = xmin + (float64(i)+0.5)*dx
	}
	return &Uniform{xmin: xmin, xmax: xmax, n: n, dx: dx, centers: centers}, nil
}

func (m *Uniform) NumCells() int          { return m.n }
func (m *Uniform) CellCenters() []float64 { return m.centers }
func (m *Uniform) SpaceStep() float64     { return m.dx }
func (m *Uniform) Xmin() float64          { return m.xmin }
func (m *Uniform) Xmax() float64          { return m.xmax }
