package physics

import "github.com/san-kum/swe1d/internal/swe"

// SubcriticalBump is flow over a parabolic bump with a constant initial
// discharge. No closed-form solution; it is the production (non-verification)
// case.
type SubcriticalBump struct {
	mesh swe.Mesh
	g    float64
	topo []float64
}

const (
	bumpSurfaceLevel = 2.0
	bumpDischarge    = 4.42
)

func NewSubcriticalBump(m swe.Mesh, g float64) *SubcriticalBump {
	centers := m.CellCenters()
	xc := 0.5 * (centers[0] + centers[len(centers)-1])
	topo := make([]float64, len(centers))
	for i, x := range centers {
		topo[i] = parabolicBump(x, xc)
	}
	return &SubcriticalBump{mesh: m, g: g, topo: topo}
}

func (b *SubcriticalBump) Gravity() float64      { return b.g }
func (b *SubcriticalBump) Topography() []float64 { return b.topo }

func (b *SubcriticalBump) InitialCondition() swe.Field {
	f := swe.NewField(b.mesh.NumCells())
	for i := range f.H {
		f.H[i] = bumpSurfaceLevel - b.topo[i]
		f.Q[i] = bumpDischarge
	}
	return f
}

func (b *SubcriticalBump) SourceTerm(f swe.Field) (swe.Field, error) {
	return topoSource(f, b.topo, b.mesh.SpaceStep(), b.g)
}

func (b *SubcriticalBump) ExactSolution(t float64) (swe.Field, error) {
	return swe.Field{}, swe.ErrNoExactSolution
}
