package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang/geo/r3"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/eli-will-2656/quadsim/internal/config"
	"github.com/eli-will-2656/quadsim/internal/control"
	"github.com/eli-will-2656/quadsim/internal/dynamo"
	"github.com/eli-will-2656/quadsim/internal/export"
	"github.com/eli-will-2656/quadsim/internal/integrators"
	"github.com/eli-will-2656/quadsim/internal/metrics"
	"github.com/eli-will-2656/quadsim/internal/quad"
	"github.com/eli-will-2656/quadsim/internal/sim"
	"github.com/eli-will-2656/quadsim/internal/storage"
	"github.com/eli-will-2656/quadsim/internal/store"
	"github.com/eli-will-2656/quadsim/internal/trajectory"
	"github.com/eli-will-2656/quadsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	duration   float64
	integrator string
	controller string
	traj       string
	// Trajectory target
	targetX float64
	targetY float64
	targetZ float64
	radius  float64
	omega   float64
	speed   float64
	// Initial state
	initZ   float64
	initYaw float64
	// Phase plot axes
	xAxis int
	yAxis int
	// SVG export
	plane     string
	svgWidth  int
	svgHeight int
	outFile   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "quadsim",
		Short: "quadrotor flight dynamics lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".quadsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "column index for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 2, "column index for y-axis")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export flight path as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&plane, "plane", "xz", "projection plane (xy, xz, yz)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")
	exportSVGCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the simulation loop",
		RunE:  benchLoop,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, phaseCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, compareCmd, benchCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler, rk4, rk45)")
	cmd.Flags().StringVar(&controller, "controller", "pd", "controller (pd, hover, off)")
	cmd.Flags().StringVar(&traj, "trajectory", "hover", "trajectory (hover, line, circle)")
	cmd.Flags().Float64Var(&targetX, "x", 0, "target x")
	cmd.Flags().Float64Var(&targetY, "y", 0, "target y")
	cmd.Flags().Float64Var(&targetZ, "z", 0, "target z")
	cmd.Flags().Float64Var(&radius, "radius", 1, "circle radius")
	cmd.Flags().Float64Var(&omega, "omega", 0.5, "circle angular rate")
	cmd.Flags().Float64Var(&speed, "speed", 1, "line speed")
	cmd.Flags().Float64Var(&initZ, "z0", 0, "initial altitude")
	cmd.Flags().Float64Var(&initYaw, "yaw0", 0, "initial yaw")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// loadConfig merges preset, config file and command-line flags, in
// increasing order of precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		p, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = p
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("controller") {
		cfg.Controller = controller
	}
	if cmd.Flags().Changed("trajectory") {
		cfg.Trajectory = traj
	}
	if cmd.Flags().Changed("x") {
		cfg.Target.X = targetX
	}
	if cmd.Flags().Changed("y") {
		cfg.Target.Y = targetY
	}
	if cmd.Flags().Changed("z") {
		cfg.Target.Z = targetZ
	}
	if cmd.Flags().Changed("radius") {
		cfg.Target.Radius = radius
	}
	if cmd.Flags().Changed("omega") {
		cfg.Target.Omega = omega
	}
	if cmd.Flags().Changed("speed") {
		cfg.Target.Speed = speed
	}
	if cmd.Flags().Changed("z0") {
		cfg.InitState.Z = initZ
	}
	if cmd.Flags().Changed("yaw0") {
		cfg.InitState.Yaw = initYaw
	}
	return cfg, nil
}

func buildIntegrator(name string) (dynamo.Integrator, error) {
	switch name {
	case "euler":
		return integrators.NewEuler(), nil
	case "rk4":
		return integrators.NewRK4(), nil
	case "rk45":
		return integrators.NewRK45(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s (want euler, rk4 or rk45)", name)
	}
}

func buildController(cfg *config.Config) (quad.Controller, error) {
	switch cfg.Controller {
	case "pd":
		return control.NewPD(cfg.Params(), cfg.ControlGains()), nil
	case "hover":
		return control.NewHover(cfg.Params()), nil
	case "off", "none":
		return control.NewOpenLoop(quad.Commands{}), nil
	default:
		return nil, fmt.Errorf("unknown controller: %s (want pd, hover or off)", cfg.Controller)
	}
}

func buildTrajectory(cfg *config.Config) (quad.Trajectory, error) {
	target := r3.Vector{X: cfg.Target.X, Y: cfg.Target.Y, Z: cfg.Target.Z}
	switch cfg.Trajectory {
	case "hover":
		return trajectory.Hover{Point: target}, nil
	case "line":
		spd := cfg.Target.Speed
		if spd <= 0 {
			spd = 1
		}
		from := cfg.InitialState().Position
		return trajectory.Line{From: from, To: target, Speed: spd}, nil
	case "circle":
		r := cfg.Target.Radius
		if r <= 0 {
			r = 1
		}
		om := cfg.Target.Omega
		if om == 0 {
			om = 0.5
		}
		return trajectory.Circle{Center: target, Radius: r, Omega: om}, nil
	default:
		return nil, fmt.Errorf("unknown trajectory: %s (want hover, line or circle)", cfg.Trajectory)
	}
}

func buildSimulator(cfg *config.Config) (*sim.Simulator, error) {
	dyn, err := quad.NewDynamics(cfg.Params())
	if err != nil {
		return nil, err
	}
	integ, err := buildIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	ctrl, err := buildController(cfg)
	if err != nil {
		return nil, err
	}
	tr, err := buildTrajectory(cfg)
	if err != nil {
		return nil, err
	}

	engine := quad.NewEngine(dyn, integ, cfg.InitialState())
	s := sim.New(engine, ctrl, tr)
	s.AddMetric(metrics.NewTrackingError(tr))
	s.AddMetric(metrics.NewControlEffort())
	s.AddMetric(metrics.NewNormDrift())
	s.AddMetric(metrics.NewEnergy(dyn))
	return s, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := buildSimulator(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %s / %s / %s...\n", cfg.Trajectory, cfg.Controller, cfg.Integrator)
	start := time.Now()

	result, err := s.Run(context.Background(), sim.Config{Dt: cfg.Dt, Duration: cfg.Duration})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Dt, cfg.Duration, cfg.Integrator, cfg.Controller, cfg.Trajectory, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tDURATION\tDT\tINTEG\tCTRL\tTRAJ")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Controller,
			run.Trajectory,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("trajectory: %s\n", meta.Trajectory)
	fmt.Printf("samples: %d\n\n", len(states))

	cols := storage.Columns()
	numVars := len(states[0])
	maxPlots := 6
	if numVars > maxPlots {
		numVars = maxPlots
	}

	for varIdx := 0; varIdx < numVars; varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			if varIdx < len(states[i]) {
				data[i] = states[i][varIdx]
			}
		}

		caption := fmt.Sprintf("col %d vs time", varIdx)
		if varIdx < len(cols) {
			caption = cols[varIdx] + " vs time"
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	if len(states[0]) <= xAxis || len(states[0]) <= yAxis {
		return fmt.Errorf("state dimension too small for selected axes")
	}

	cols := storage.Columns()
	name := func(idx int) string {
		if idx < len(cols) {
			return cols[idx]
		}
		return fmt.Sprintf("col %d", idx)
	}

	fmt.Printf("phase space plot: %s\n", meta.ID)
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", name(xAxis), name(yAxis))

	xData := make([]float64, len(states))
	yData := make([]float64, len(states))
	for i := range states {
		xData[i] = states[i][xAxis]
		yData[i] = states[i][yAxis]
	}

	xMin, xMax := xData[0], xData[0]
	yMin, yMax := yData[0], yData[0]
	for i := range xData {
		if xData[i] < xMin {
			xMin = xData[i]
		}
		if xData[i] > xMax {
			xMax = xData[i]
		}
		if yData[i] < yMin {
			yMin = yData[i]
		}
		if yData[i] > yMax {
			yMax = yData[i]
		}
	}

	xRange := xMax - xMin
	yRange := yMax - yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	width := 70
	height := 20
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i := range xData {
		px := int(float64(width-1) * (xData[i] - xMin) / xRange)
		py := int(float64(height-1) * (yData[i] - yMin) / yRange)
		py = height - 1 - py
		if px >= 0 && px < width && py >= 0 && py < height {
			if i < len(xData)/3 {
				canvas[py][px] = '.'
			} else if i < 2*len(xData)/3 {
				canvas[py][px] = 'o'
			} else {
				canvas[py][px] = '●'
			}
		}
	}

	fmt.Printf("  %.2f ┌%s┐\n", yMax, strings.Repeat("─", width))
	for i := range canvas {
		if i == height/2 {
			fmt.Printf("  %.2f │", (yMax+yMin)/2)
		} else {
			fmt.Print("       │")
		}
		fmt.Print(string(canvas[i]))
		fmt.Println("│")
	}
	fmt.Printf("  %.2f └%s┘\n", yMin, strings.Repeat("─", width))
	fmt.Printf("       %.2f%s%.2f\n", xMin, strings.Repeat(" ", width-20), xMax)
	fmt.Printf("\nLegend: . = early, o = middle, ● = late\n")

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"time"}, storage.Columns()...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// loadResult rebuilds an in-memory run from the stored sample table.
func loadResult(st *storage.Store, runID string) (*storage.RunMetadata, *sim.Result, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	rows, times, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}

	result := &sim.Result{
		Times:   times,
		Metrics: meta.Metrics,
	}
	for _, row := range rows {
		if len(row) < quad.StateDim {
			continue
		}
		result.States = append(result.States, quad.StateFromVector(dynamo.State(row[:quad.StateDim])))
		if len(row) >= quad.StateDim+4 {
			var c quad.Commands
			copy(c[:], row[quad.StateDim:quad.StateDim+4])
			result.Commands = append(result.Commands, c)
		}
	}
	result.StepsTaken = len(result.States)
	return meta, result, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := loadResult(st, args[0])
	if err != nil {
		return err
	}
	return store.ExportJSONStdout(meta.Integrator, meta.Controller, meta.Trajectory, meta.Dt, meta.Duration, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	_, result, err := loadResult(st, args[0])
	if err != nil {
		return err
	}
	if len(result.States) < 2 {
		return fmt.Errorf("not enough samples to draw a path")
	}

	svg, err := export.TrajectorySVG(result.States, plane, svgWidth, svgHeight, "#00ff00")
	if err != nil {
		return err
	}

	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators (dt=%.4f, duration=%.1fs, trajectory=%s)\n\n", cfg.Dt, cfg.Duration, cfg.Trajectory)
	fmt.Printf("%-12s  %-14s  %-14s  %-12s\n", "integrator", "tracking_err", "norm_drift", "time_ms")
	fmt.Println(strings.Repeat("-", 58))

	for _, name := range args {
		runCfg := *cfg
		runCfg.Integrator = name

		s, err := buildSimulator(&runCfg)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := s.Run(context.Background(), sim.Config{Dt: runCfg.Dt, Duration: runCfg.Duration})
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		fmt.Printf("%-12s  %14.6f  %14.2e  %12.2f\n",
			name,
			result.Metrics["tracking_error"],
			result.Metrics["norm_drift"],
			float64(elapsed.Microseconds())/1000)
	}

	return nil
}

func benchLoop(cmd *cobra.Command, args []string) error {
	durations := []float64{1.0, 5.0, 10.0}
	dts := []float64{0.001, 0.01, 0.1}

	fmt.Println("benchmarking hover scenario")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			cfg := config.Default()
			cfg.Dt = step
			cfg.Duration = dur

			s, err := buildSimulator(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := s.Run(context.Background(), sim.Config{Dt: step, Duration: dur})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, step, result.StepsTaken, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dyn, err := quad.NewDynamics(cfg.Params())
	if err != nil {
		return err
	}
	integ, err := buildIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}
	ctrl, err := buildController(cfg)
	if err != nil {
		return err
	}
	tr, err := buildTrajectory(cfg)
	if err != nil {
		return err
	}

	engine := quad.NewEngine(dyn, integ, cfg.InitialState())
	m := viz.NewModel(engine, ctrl, tr, cfg.Dt)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
