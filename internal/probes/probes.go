// Package probes resolves fixed measurement positions to mesh cells.
package probes

import (
	"fmt"
	"math"

	"github.com/san-kum/swe1d/internal/swe"
)

// Probe samples a fixed position every few steps. CellIndex is resolved once
// before the time loop starts and never changes afterwards.
type Probe struct {
	Ref       int
	Position  float64
	CellIndex int
}

// ResolveCellIndex returns the index of the cell center nearest to pos.
// Strict less-than comparison, so the lowest index wins ties.
func ResolveCellIndex(pos float64, centers []float64) int {
	index := 0
	distMin := math.Abs(pos - centers[0])
	for k, x := range centers {
		if dist := math.Abs(pos - x); dist < distMin {
			distMin = dist
			index = k
		}
	}
	return index
}

// Resolve fills in the cell index of every probe. Positions outside the mesh
// are rejected.
func Resolve(ps []Probe, m swe.Mesh) error {
	if m.NumCells() == 0 {
		return fmt.Errorf("probes: empty mesh")
	}
	centers := m.CellCenters()
	half := 0.5 * m.SpaceStep()
	lo := centers[0] - half
	hi := centers[len(centers)-1] + half
	for i := range ps {
		p := &ps[i]
		if p.Position < lo || p.Position > hi {
			return fmt.Errorf("probe %d at x=%g outside mesh [%g, %g]",
				p.Ref, p.Position, lo, hi)
		}
		p.CellIndex = ResolveCellIndex(p.Position, centers)
	}
	return nil
}
