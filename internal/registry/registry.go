// Package registry maps configuration names to stepper, flux and case
// constructors, resolved once at setup time.
package registry

import (
	"fmt"
	"sort"

	"github.com/san-kum/swe1d/internal/fluxes"
	"github.com/san-kum/swe1d/internal/physics"
	"github.com/san-kum/swe1d/internal/steppers"
	"github.com/san-kum/swe1d/internal/swe"
)

const (
	defaultLakeLevel = 0.5
	defaultDamLeft   = 2.0
	defaultDamRight  = 1.0
)

type Registry struct {
	steppers map[string]func() swe.Stepper
	fluxes   map[string]func(g float64) swe.FluxAssembler
	cases    map[string]func(m swe.Mesh, g float64) (swe.Physics, error)
}

func New() *Registry {
	r := &Registry{
		steppers: make(map[string]func() swe.Stepper),
		fluxes:   make(map[string]func(g float64) swe.FluxAssembler),
		cases:    make(map[string]func(m swe.Mesh, g float64) (swe.Physics, error)),
	}

	r.steppers["euler"] = func() swe.Stepper { return steppers.NewEuler() }
	r.steppers["rk2"] = func() swe.Stepper { return steppers.NewRK2() }

	r.fluxes["rusanov"] = func(g float64) swe.FluxAssembler { return fluxes.NewRusanov(g) }
	r.fluxes["hll"] = func(g float64) swe.FluxAssembler { return fluxes.NewHLL(g) }

	r.cases["lake_at_rest"] = func(m swe.Mesh, g float64) (swe.Physics, error) {
		return physics.NewLakeAtRest(m, g, defaultLakeLevel)
	}
	r.cases["dam_break"] = func(m swe.Mesh, g float64) (swe.Physics, error) {
		return physics.NewDamBreak(m, g, defaultDamLeft, defaultDamRight)
	}
	r.cases["subcritical_bump"] = func(m swe.Mesh, g float64) (swe.Physics, error) {
		return physics.NewSubcriticalBump(m, g), nil
	}

	return r
}

func (r *Registry) GetStepper(name string) (swe.Stepper, error) {
	fn, ok := r.steppers[name]
	if !ok {
		return nil, fmt.Errorf("unknown scheme: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetFlux(name string, g float64) (swe.FluxAssembler, error) {
	fn, ok := r.fluxes[name]
	if !ok {
		return nil, fmt.Errorf("unknown flux: %s", name)
	}
	return fn(g), nil
}

func (r *Registry) GetCase(name string, m swe.Mesh, g float64) (swe.Physics, error) {
	fn, ok := r.cases[name]
	if !ok {
		return nil, fmt.Errorf("unknown case: %s", name)
	}
	return fn(m, g)
}

func (r *Registry) ListSteppers() []string { return sortedKeys(r.steppers) }
func (r *Registry) ListFluxes() []string   { return sortedKeysF(r.fluxes) }
func (r *Registry) ListCases() []string    { return sortedKeysC(r.cases) }

func sortedKeys(m map[string]func() swe.Stepper) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeysF(m map[string]func(float64) swe.FluxAssembler) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeysC(m map[string]func(swe.Mesh, float64) (swe.Physics, error)) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
