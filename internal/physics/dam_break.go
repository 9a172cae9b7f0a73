package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/swe1d/internal/swe"
)

// DamBreak is the wet-bed dam break on a flat bottom: depth hl left of the
// dam, hr right of it, fluid initially at rest. The Stoker solution gives the
// exact rarefaction-shock structure, so this is the shock verification case.
type DamBreak struct {
	mesh   swe.Mesh
	g      float64
	hl, hr float64
	x0     float64
	topo   []float64
}

func NewDamBreak(m swe.Mesh, g, hl, hr float64) (*DamBreak, error) {
	if hl <= 0 || hr <= 0 {
		return nil, fmt.Errorf("dam break needs positive depths, got hl=%g hr=%g", hl, hr)
	}
	if hr >= hl {
		return nil, fmt.Errorf("dam break needs hl > hr, got hl=%g hr=%g", hl, hr)
	}
	centers := m.CellCenters()
	return &DamBreak{
		mesh: m,
		g:    g,
		hl:   hl,
		hr:   hr,
		x0:   0.5 * (centers[0] + centers[len(centers)-1]),
		topo: make([]float64, m.NumCells()),
	}, nil
}

func (d *DamBreak) Gravity() float64      { return d.g }
func (d *DamBreak) Topography() []float64 { return d.topo }

func (d *DamBreak) InitialCondition() swe.Field {
	f := swe.NewField(d.mesh.NumCells())
	for i, x := range d.mesh.CellCenters() {
		if x < d.x0 {
			f.H[i] = d.hl
		} else {
			f.H[i] = d.hr
		}
	}
	return f
}

// Flat bottom: no bed-slope contribution.
func (d *DamBreak) SourceTerm(f swe.Field) (swe.Field, error) {
	if f.Len() != d.mesh.NumCells() {
		return swe.Field{}, swe.ErrDimensionMismatch
	}
	return swe.NewField(f.Len()), nil
}

// middleState solves the Rankine-Hugoniot/rarefaction matching condition for
// the constant state between the fan and the shock, by bisection on
//
//	f(hm) = 2*(cl - sqrt(g*hm)) - (hm - hr)*sqrt(g*(hm+hr)/(2*hm*hr))
//
// which is positive at hr and negative at hl.
func (d *DamBreak) middleState() (hm, um float64) {
	g := d.g
	cl := math.Sqrt(g * d.hl)
	match := func(h float64) float64 {
		return 2*(cl-math.Sqrt(g*h)) - (h-d.hr)*math.Sqrt(g*(h+d.hr)/(2*h*d.hr))
	}
	lo, hi := d.hr, d.hl
	for i := 0; i < 100; i++ {
		mid := 0.5 * (lo + hi)
		if match(mid) > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	hm = 0.5 * (lo + hi)
	um = 2 * (cl - math.Sqrt(g*hm))
	return hm, um
}

func (d *DamBreak) ExactSolution(t float64) (swe.Field, error) {
	if t <= 0 {
		return d.InitialCondition(), nil
	}

	g := d.g
	cl := math.Sqrt(g * d.hl)
	hm, um := d.middleState()
	cm := math.Sqrt(g * hm)
	shock := um * hm / (hm - d.hr)

	f := swe.NewField(d.mesh.NumCells())
	for i, x := range d.mesh.CellCenters() {
		xi := (x - d.x0) / t
		switch {
		case xi <= -cl:
			f.H[i] = d.hl
		case xi < um-cm:
			// Inside the fan: u - c = xi and u + 2c = 2*cl.
			u := (2.0 / 3.0) * (cl + xi)
			c := (2*cl - xi) / 3.0
			f.H[i] = c * c / g
			f.Q[i] = f.H[i] * u
		case xi < shock:
			f.H[i] = hm
			f.Q[i] = hm * um
		default:
			f.H[i] = d.hr
		}
	}
	return f, nil
}
