package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/swe1d/internal/analysis"
	"github.com/san-kum/swe1d/internal/config"
	"github.com/san-kum/swe1d/internal/driver"
	"github.com/san-kum/swe1d/internal/mesh"
	"github.com/san-kum/swe1d/internal/metrics"
	"github.com/san-kum/swe1d/internal/probes"
	"github.com/san-kum/swe1d/internal/registry"
	"github.com/san-kum/swe1d/internal/swe"
	"github.com/san-kum/swe1d/internal/viz"
)

var (
	configFile string
	preset     string
	caseName   string
	fluxName   string
	scheme     string
	dt         float64
	t0         float64
	tFinal     float64
	saveEvery  int
	finalOnly  bool
	verify     bool
	outDir     string
	cells      int
	xmin       float64
	xmax       float64
	gravity    float64
	// plot/analyze
	fieldName string
	// convergence
	levels int
	// live view
	frameRate int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "swe1d",
		Short: "1D Saint-Venant finite-volume solver",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	plotCmd := &cobra.Command{
		Use:   "plot [snapshot-file]",
		Short: "plot a snapshot file in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSnapshot,
	}
	plotCmd.Flags().StringVar(&fieldName, "field", "h", "quantity to plot (surface|h|u|q|froude)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [probe-file]",
		Short: "frequency analysis of a probe time series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeProbe,
	}
	analyzeCmd.Flags().StringVar(&fieldName, "field", "h", "quantity to analyze (surface|h|u|q|froude)")

	convergenceCmd := &cobra.Command{
		Use:   "convergence",
		Short: "run a verification case on successively refined meshes",
		RunE:  runConvergence,
	}
	addRunFlags(convergenceCmd)
	convergenceCmd.Flags().IntVar(&levels, "levels", 3, "number of refinement levels")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("%-18s case=%s flux=%s scheme=%s cells=%d\n",
					name, cfg.Case, cfg.Flux, cfg.Scheme, cfg.Mesh.Cells)
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with a live free-surface view",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	rootCmd.AddCommand(runCmd, plotCmd, analyzeCmd, convergenceCmd, presetsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset configuration")
	cmd.Flags().StringVar(&caseName, "case", config.DefaultCase, "test case")
	cmd.Flags().StringVar(&fluxName, "flux", config.DefaultFlux, "numerical flux")
	cmd.Flags().StringVar(&scheme, "scheme", config.DefaultScheme, "time scheme")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step")
	cmd.Flags().Float64Var(&t0, "t0", 0, "initial time")
	cmd.Flags().Float64Var(&tFinal, "tfinal", config.DefaultFinalTime, "final time")
	cmd.Flags().IntVar(&saveEvery, "save-every", config.DefaultSaveEvery, "steps between snapshots")
	cmd.Flags().BoolVar(&finalOnly, "final-only", false, "write only the final snapshot")
	cmd.Flags().BoolVar(&verify, "verify", false, "compare against the exact solution")
	cmd.Flags().StringVar(&outDir, "out", config.DefaultOutputDir, "results directory")
	cmd.Flags().IntVar(&cells, "cells", config.DefaultCells, "number of mesh cells")
	cmd.Flags().Float64Var(&xmin, "xmin", config.DefaultXmin, "domain start")
	cmd.Flags().Float64Var(&xmax, "xmax", config.DefaultXmax, "domain end")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravitational acceleration")
}

// buildConfig resolves preset, config file and CLI flags, in increasing
// priority.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	fl := cmd.Flags()
	if fl.Changed("case") {
		cfg.Case = caseName
	}
	if fl.Changed("flux") {
		cfg.Flux = fluxName
	}
	if fl.Changed("scheme") {
		cfg.Scheme = scheme
	}
	if fl.Changed("dt") {
		cfg.Dt = dt
	}
	if fl.Changed("t0") {
		cfg.InitialTime = t0
	}
	if fl.Changed("tfinal") {
		cfg.FinalTime = tFinal
	}
	if fl.Changed("save-every") {
		cfg.SaveEvery = saveEvery
	}
	if fl.Changed("final-only") {
		cfg.SaveFinalOnly = finalOnly
	}
	if fl.Changed("verify") {
		cfg.Verify = verify
	}
	if fl.Changed("out") {
		cfg.OutputDir = outDir
	}
	if fl.Changed("cells") {
		cfg.Mesh.Cells = cells
	}
	if fl.Changed("xmin") {
		cfg.Mesh.Xmin = xmin
	}
	if fl.Changed("xmax") {
		cfg.Mesh.Xmax = xmax
	}
	if fl.Changed("gravity") {
		cfg.Gravity = gravity
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setup(cfg *config.Config) (*mesh.Uniform, swe.Physics, swe.FluxAssembler, swe.Stepper, error) {
	m, err := mesh.NewUniform(cfg.Mesh.Xmin, cfg.Mesh.Xmax, cfg.Mesh.Cells)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	reg := registry.New()
	phys, err := reg.GetCase(cfg.Case, m, cfg.Gravity)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	flux, err := reg.GetFlux(cfg.Flux, cfg.Gravity)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	stepper, err := reg.GetStepper(cfg.Scheme)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return m, phys, flux, stepper, nil
}

func toParams(cfg *config.Config) driver.Params {
	ps := make([]probes.Probe, len(cfg.Probes))
	for i, p := range cfg.Probes {
		ps[i] = probes.Probe{Ref: p.Ref, Position: p.Position}
	}
	return driver.Params{
		TimeStep:      cfg.Dt,
		InitialTime:   cfg.InitialTime,
		FinalTime:     cfg.FinalTime,
		SaveEvery:     cfg.SaveEvery,
		SaveFinalOnly: cfg.SaveFinalOnly,
		Verify:        cfg.Verify,
		OutputDir:     cfg.OutputDir,
		Probes:        ps,
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	m, phys, flux, stepper, err := setup(cfg)
	if err != nil {
		return err
	}

	sim := driver.New()
	if err := sim.Initialize(toParams(cfg), m, phys, flux, stepper); err != nil {
		return err
	}
	sim.AddMetric(metrics.NewMass(m.SpaceStep()))
	sim.AddMetric(metrics.NewMomentum(m.SpaceStep()))

	fmt.Printf("running %s (%s, %s) on %d cells...\n", cfg.Case, cfg.Flux, cfg.Scheme, cfg.Mesh.Cells)
	start := time.Now()

	report, err := sim.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("steps: %d (t=%g)\n", report.Steps, report.FinalTime)
	fmt.Printf("snapshots: %d -> %s\n", report.Snapshots, cfg.OutputDir)
	for name, val := range report.Metrics {
		fmt.Printf("  %s: %.3e\n", name, val)
	}
	if report.Verified {
		dx := m.SpaceStep()
		fmt.Printf("error h L2 = %g and error q L2 = %g for dx = %g\n", report.L2H, report.L2Q, dx)
		fmt.Printf("error h L1 = %g and error q L1 = %g for dx = %g\n", report.L1H, report.L1Q, dx)
	}
	return nil
}

// solutionColumn maps a quantity name to its snapshot column.
func solutionColumn(name string) (int, error) {
	switch name {
	case "surface":
		return 1, nil
	case "h":
		return 2, nil
	case "u":
		return 3, nil
	case "q":
		return 4, nil
	case "froude":
		return 5, nil
	default:
		return 0, fmt.Errorf("unknown field: %s", name)
	}
}

func plotSnapshot(cmd *cobra.Command, args []string) error {
	col, err := solutionColumn(fieldName)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	var vals []float64
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) <= col {
			return fmt.Errorf("malformed snapshot line: %q", line)
		}
		v, err := strconv.ParseFloat(fields[col], 64)
		if err != nil {
			return err
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return fmt.Errorf("no data in %s", args[0])
	}

	graph := asciigraph.Plot(vals,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s (%s)", fieldName, filepath.Base(args[0]))),
	)
	fmt.Println(graph)
	return nil
}

func analyzeProbe(cmd *cobra.Command, args []string) error {
	col, err := solutionColumn(fieldName)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	var times, vals []float64
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		fields := strings.Split(line, ",")
		if len(fields) <= col {
			return fmt.Errorf("malformed probe line: %q", line)
		}
		t, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return err
		}
		v, err := strconv.ParseFloat(fields[col], 64)
		if err != nil {
			return err
		}
		times = append(times, t)
		vals = append(vals, v)
	}
	if len(vals) < 4 {
		return fmt.Errorf("probe series too short: %d samples", len(vals))
	}

	ps := analysis.PowerSpectrum(vals)
	plotData := ps[:len(ps)/4]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", fieldName)),
	)
	fmt.Println(graph)

	sampleDt := times[1] - times[0]
	freq := analysis.DominantFrequency(vals, sampleDt)
	fmt.Printf("samples: %d, sample dt: %g\n", len(vals), sampleDt)
	fmt.Printf("dominant frequency: %.4f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.4f s\n", 1.0/freq)
	}
	return nil
}

// runConvergence reruns a verification case on halved meshes (with dt scaled
// to keep the stability ratio) and reports the observed order.
func runConvergence(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Verify = true
	cfg.SaveFinalOnly = true
	cfg.Probes = nil

	type level struct {
		cells    int
		dx       float64
		l2h, l2q float64
	}
	results := make([]level, 0, levels)

	for i := 0; i < levels; i++ {
		scale := 1 << i
		lvl := *cfg
		lvl.Mesh.Cells = cfg.Mesh.Cells * scale
		lvl.Dt = cfg.Dt / float64(scale)
		lvl.OutputDir = filepath.Join(cfg.OutputDir, fmt.Sprintf("level_%d", i))

		m, phys, flux, stepper, err := setup(&lvl)
		if err != nil {
			return err
		}
		sim := driver.New()
		if err := sim.Initialize(toParams(&lvl), m, phys, flux, stepper); err != nil {
			return err
		}
		fmt.Printf("level %d: %d cells, dt=%g...\n", i, lvl.Mesh.Cells, lvl.Dt)
		report, err := sim.Run(context.Background())
		if err != nil {
			return err
		}
		results = append(results, level{
			cells: lvl.Mesh.Cells,
			dx:    m.SpaceStep(),
			l2h:   report.L2H,
			l2q:   report.L2Q,
		})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CELLS\tDX\tERR_H_L2\tERR_Q_L2\tORDER_H")
	for i, r := range results {
		order := "-"
		if i > 0 && r.l2h > 0 {
			order = fmt.Sprintf("%.2f", math.Log2(results[i-1].l2h/r.l2h))
		}
		fmt.Fprintf(w, "%d\t%.5f\t%.3e\t%.3e\t%s\n", r.cells, r.dx, r.l2h, r.l2q, order)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	m, phys, flux, stepper, err := setup(cfg)
	if err != nil {
		return err
	}

	model := viz.NewModel(cfg.Case, m, phys, flux, stepper, cfg.Dt, frameRate)
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
