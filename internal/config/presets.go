package config

import "sort"

var Presets = map[string]*Config{
	// Shock verification on the classic Stoker setup.
	"dam_break": {
		Case: "dam_break", Flux: "hll", Scheme: "rk2",
		Dt: 0.0005, FinalTime: 0.5, SaveEvery: 100, Verify: true,
		OutputDir: "results", Gravity: DefaultGravity,
		Mesh: MeshConfig{Xmin: 0, Xmax: 10, Cells: 500},
	},
	// Well-balancedness check: nothing should move.
	"lake_at_rest": {
		Case: "lake_at_rest", Flux: "rusanov", Scheme: "euler",
		Dt: 0.001, FinalTime: 1.0, SaveEvery: 200, Verify: true,
		OutputDir: "results", Gravity: DefaultGravity,
		Mesh: MeshConfig{Xmin: 0, Xmax: 25, Cells: 250},
	},
	// Production case with probes around the bump.
	"subcritical_bump": {
		Case: "subcritical_bump", Flux: "hll", Scheme: "rk2",
		Dt: 0.001, FinalTime: 10.0, SaveEvery: 500,
		OutputDir: "results", Gravity: DefaultGravity,
		Mesh: MeshConfig{Xmin: 0, Xmax: 25, Cells: 250},
		Probes: []ProbeConfig{
			{Ref: 1, Position: 10.0},
			{Ref: 2, Position: 12.5},
			{Ref: 3, Position: 20.0},
		},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
