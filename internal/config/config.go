// Package config loads and validates run configurations from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCase      = "dam_break"
	DefaultFlux      = "rusanov"
	DefaultScheme    = "rk2"
	DefaultDt        = 0.001
	DefaultFinalTime = 0.5
	DefaultSaveEvery = 50
	DefaultGravity   = 9.81
	DefaultOutputDir = "results"
	DefaultXmin      = 0.0
	DefaultXmax      = 10.0
	DefaultCells     = 200

	// probeCadenceDivisor mirrors the driver: probe sampling runs every
	// SaveEvery/10 steps, so SaveEvery below 10 has no valid probe cadence.
	probeCadenceDivisor = 10
)

type Config struct {
	Case          string        `yaml:"case"`
	Flux          string        `yaml:"flux"`
	Scheme        string        `yaml:"scheme"`
	Dt            float64       `yaml:"dt"`
	InitialTime   float64       `yaml:"initial_time"`
	FinalTime     float64       `yaml:"final_time"`
	SaveEvery     int           `yaml:"save_every"`
	SaveFinalOnly bool          `yaml:"save_final_only"`
	Verify        bool          `yaml:"verify"`
	OutputDir     string        `yaml:"output_dir"`
	Gravity       float64       `yaml:"gravity"`
	Mesh          MeshConfig    `yaml:"mesh"`
	Probes        []ProbeConfig `yaml:"probes"`
}

type MeshConfig struct {
	Xmin  float64 `yaml:"xmin"`
	Xmax  float64 `yaml:"xmax"`
	Cells int     `yaml:"cells"`
}

type ProbeConfig struct {
	Ref      int     `yaml:"ref"`
	Position float64 `yaml:"position"`
}

func DefaultConfig() *Config {
	return &Config{
		Case:      DefaultCase,
		Flux:      DefaultFlux,
		Scheme:    DefaultScheme,
		Dt:        DefaultDt,
		FinalTime: DefaultFinalTime,
		SaveEvery: DefaultSaveEvery,
		OutputDir: DefaultOutputDir,
		Gravity:   DefaultGravity,
		Mesh:      MeshConfig{Xmin: DefaultXmin, Xmax: DefaultXmax, Cells: DefaultCells},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the driver cannot run. Degenerate cadence
// values are caught here rather than surfacing as a zero modulus later.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.FinalTime <= c.InitialTime {
		return fmt.Errorf("final time %g must be after initial time %g", c.FinalTime, c.InitialTime)
	}
	if c.SaveEvery < 1 {
		return fmt.Errorf("save_every must be at least 1, got %d", c.SaveEvery)
	}
	if len(c.Probes) > 0 && c.SaveEvery < probeCadenceDivisor {
		return fmt.Errorf("save_every %d is below the probe cadence granularity %d",
			c.SaveEvery, probeCadenceDivisor)
	}
	if c.Gravity <= 0 {
		return fmt.Errorf("gravity must be positive, got %g", c.Gravity)
	}
	if c.Mesh.Cells < 1 {
		return fmt.Errorf("mesh needs at least one cell, got %d", c.Mesh.Cells)
	}
	if c.Mesh.Xmax <= c.Mesh.Xmin {
		return fmt.Errorf("invalid mesh domain [%g, %g]", c.Mesh.Xmin, c.Mesh.Xmax)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	seen := make(map[int]bool, len(c.Probes))
	for _, p := range c.Probes {
		if seen[p.Ref] {
			return fmt.Errorf("duplicate probe reference %d", p.Ref)
		}
		seen[p.Ref] = true
	}
	return nil
}
