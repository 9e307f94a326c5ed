package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/springsim/internal/analysis"
	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/export"
	"github.com/san-kum/springsim/internal/logging"
	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/spring"
	"github.com/san-kum/springsim/internal/storage"
	"github.com/san-kum/springsim/internal/trace"
	"github.com/san-kum/springsim/internal/tui"
)

var (
	dataDir    string
	logLevel   string
	logFile    string
	configFile string
	looperName string
	timestepMs float64
	maxFrames  int
	runAll     bool
	noSave     bool
	springName string
	outFile    string
	settleTol  float64
	themeName  string

	convTension    float64
	convFriction   float64
	convBounciness float64
	convSpeed      float64
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "springsim",
		Short:         "damped spring simulator",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(config.GetPreset("slider"), tui.ThemeNeon)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".springsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also log JSON to this rotated file")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario to rest and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	runCmd.Flags().StringVar(&looperName, "looper", "", "looper: batch, step or animation")
	runCmd.Flags().Float64Var(&timestepMs, "timestep", 0, "frame length in ms")
	runCmd.Flags().IntVar(&maxFrames, "max-frames", 0, "give up after this many frames")
	runCmd.Flags().BoolVar(&runAll, "all", false, "run every preset concurrently")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "animate a scenario in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScenario(args)
			if err != nil {
				return err
			}
			return tui.Run(cfg, tui.GetTheme(themeName))
		},
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	liveCmd.Flags().StringVar(&themeName, "theme", "neon", fmt.Sprintf("colour theme %v", tui.ThemeNames()))

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot spring positions of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&springName, "spring", "", "plot only this spring")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "position/velocity portrait of a spring",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&springName, "spring", "", "spring to plot (default: first)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(cmd.OutOrStdout(), args[0])
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export spring trajectories to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "step response and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&settleTol, "tol", 0.01, "settle band around the end value")

	compareCmd := &cobra.Command{
		Use:   "compare [preset]",
		Short: "compare the integrator with the closed-form spring",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareReference,
	}
	compareCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSPRINGS\tLOOPER")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%s\n", name, len(p.Springs), p.Looper)
			}
			return w.Flush()
		},
	}

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "convert origami or bouncy parameters to tension and friction",
		RunE:  convertParams,
	}
	convertCmd.Flags().Float64Var(&convTension, "tension", math.NaN(), "origami tension")
	convertCmd.Flags().Float64Var(&convFriction, "friction", math.NaN(), "origami friction")
	convertCmd.Flags().Float64Var(&convBounciness, "bounciness", math.NaN(), "bounciness")
	convertCmd.Flags().Float64Var(&convSpeed, "speed", math.NaN(), "speed")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, phaseCmd, exportJSONCmd, exportSVGCmd,
		analyzeCmd, compareCmd, presetsCmd, convertCmd)
	return rootCmd
}

// loadScenario resolves --config, then a preset name, then the default
// scenario.
func loadScenario(args []string) (*config.Config, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}
	name := "default"
	if len(args) > 0 {
		name = args[0]
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *zap.Logger {
	lc := cfg.Logging
	if logLevel != "" {
		lc.Level = logLevel
	}
	if logFile != "" {
		lc.File = logFile
	}
	return logging.New(lc, os.Stderr)
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("looper") {
		cfg.Looper = looperName
	}
	if cmd.Flags().Changed("timestep") {
		cfg.TimestepMs = timestepMs
	}
	if cmd.Flags().Changed("max-frames") {
		cfg.MaxFrames = maxFrames
	}
	return cfg.Validate()
}

func runScenario(cmd *cobra.Command, args []string) error {
	var cfgs []*config.Config
	if runAll {
		for _, name := range config.ListPresets() {
			cfgs = append(cfgs, config.GetPreset(name))
		}
	} else {
		cfg, err := loadScenario(args)
		if err != nil {
			return err
		}
		cfgs = append(cfgs, cfg)
	}
	for _, cfg := range cfgs {
		if err := applyRunFlags(cmd, cfg); err != nil {
			return err
		}
	}

	logger := newLogger(cfgs[0])
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results, err := sim.New(logger).RunAll(ctx, cfgs)
	if err != nil {
		logger.Error("run failed", zap.Error(err))
	}

	st := storage.New(dataDir)
	if !noSave {
		if err := st.Init(); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for _, res := range results {
		if res == nil {
			continue
		}
		printResult(out, res)
		if noSave {
			continue
		}
		runID, serr := st.Save(res, resultMetrics(res))
		if serr != nil {
			return serr
		}
		fmt.Fprintf(out, "saved: %s\n\n", runID)
	}
	return err
}

func printResult(w io.Writer, res *sim.Result) {
	fmt.Fprintf(w, "%s (%s looper): %d frames, %.1f ms\n", res.Name, res.Looper, res.Frames, res.DurationMs)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  SPRING\tTENSION\tFRICTION\tFINAL\tREST\tUPDATES")
	for _, s := range res.Springs {
		fmt.Fprintf(tw, "  %s\t%.2f\t%.2f\t%.4f\t%v\t%d\n",
			s.Name, s.Config.Tension, s.Config.Friction, s.Final.Position, s.AtRest, s.Counts.Updates)
	}
	tw.Flush()
}

// resultMetrics summarizes the first spring of a run.
func resultMetrics(res *sim.Result) map[string]float64 {
	if len(res.Springs) == 0 {
		return nil
	}
	s := res.Springs[0]
	return analysis.Summarize(s.Config, moving(s.Samples), s.From, s.To, 0.01).Metrics()
}

// moving drops updates made before the first frame, such as the initial
// teleport.
func moving(samples []trace.Sample) []trace.Sample {
	for i, s := range samples {
		if s.Frame > 0 {
			return samples[i:]
		}
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tLOOPER\tFRAMES\tSIM")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.1fms\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Looper,
			run.Frames,
			run.DurationMs,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, map[string][]trace.Sample, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("no data in run %s", runID)
	}
	return meta, samples, nil
}

// springOrder returns the run's spring names, or just name when set.
func springOrder(meta *storage.RunMetadata, name string) ([]storage.SpringMetadata, error) {
	if name == "" {
		return meta.Springs, nil
	}
	for _, s := range meta.Springs {
		if s.Name == name {
			return []storage.SpringMetadata{s}, nil
		}
	}
	return nil, fmt.Errorf("run %s has no spring %q", meta.ID, name)
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	springs, err := springOrder(meta, springName)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "scenario: %s\n\n", meta.Scenario)

	for _, s := range springs {
		data := positions(samples[s.Name])
		if len(data) == 0 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s: %.2f -> %.2f", s.Name, s.From, s.To)),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
	return nil
}

func positions(samples []trace.Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Position
	}
	return out
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	springs, err := springOrder(meta, springName)
	if err != nil {
		return err
	}
	s := springs[0]

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "phase portrait: %s (%s)\n", meta.ID, s.Name)
	fmt.Fprintln(out, "x: position, y: velocity")
	fmt.Fprint(out, analysis.NewPhasePortrait(samples[s.Name]).ASCII(70, 20))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	series := make([]export.Series, 0, len(meta.Springs))
	for _, s := range meta.Springs {
		series = append(series, export.Series{Name: s.Name, Samples: samples[s.Name]})
	}
	svg := export.TrajectorySVG(series, 800, 400)

	if outFile == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), svg)
		return err
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "analysis: %s\n\n", meta.ID)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPRING\tZETA\tTHEORY_HZ\tMEASURED_HZ\tSETTLE_MS\tOVERSHOOT\tCROSSINGS\tENERGY_RISE")
	for _, s := range meta.Springs {
		cfg := spring.NewConfig(float64(s.Tension), float64(s.Friction))
		sum := analysis.Summarize(cfg, moving(samples[s.Name]), float64(s.From), float64(s.To), settleTol)
		settle := "-"
		if sum.Settled {
			settle = fmt.Sprintf("%.1f", sum.SettleMs)
		}
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%s\t%.1f%%\t%d\t%.2e\n",
			s.Name, sum.DampingRatio, sum.TheoryHz, sum.MeasuredHz, settle, sum.Overshoot*100, sum.Crossings, s.EnergyRise)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	first := meta.Springs[0]
	ps := analysis.PowerSpectrum(positions(moving(samples[first.Name])))
	if len(ps) > 4 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(ps[:len(ps)/2],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", first.Name)),
		))
	}
	return nil
}

func compareReference(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(args)
	if err != nil {
		return err
	}
	cfg.Looper = config.LooperBatch

	res, err := sim.New(zap.NewNop()).Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, s := range res.Springs {
		samples := moving(s.Samples)
		deltas := make([]float64, len(samples))
		for i := range samples {
			if i == 0 {
				// The first loop after idle always sees 1ms.
				deltas[i] = 0.001
				continue
			}
			deltas[i] = math.Min((samples[i].TimeMs-samples[i-1].TimeMs)/1000, spring.MaxDeltaTimeSec)
		}

		v0 := cfg.Springs[0].Velocity
		for _, spec := range cfg.Springs {
			if spec.Name == s.Name {
				v0 = spec.Velocity
			}
		}
		ref, err := analysis.Reference(s.Config, s.From, s.To, v0, deltas)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", s.Name, err)
			continue
		}

		rk4 := positions(samples)
		fmt.Fprintf(out, "%s: max deviation %.5f over %d frames\n", s.Name, analysis.MaxDeviation(rk4, ref), len(rk4))
		fmt.Fprintln(out, asciigraph.PlotMany([][]float64{rk4, ref},
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Magenta),
			asciigraph.SeriesLegends("rk4", "closed form"),
			asciigraph.Caption(s.Name),
		))
		fmt.Fprintln(out)
	}
	return nil
}

func convertParams(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	origami := !math.IsNaN(convTension) || !math.IsNaN(convFriction)
	bouncy := !math.IsNaN(convBounciness) || !math.IsNaN(convSpeed)

	switch {
	case origami && bouncy:
		return fmt.Errorf("use either --tension/--friction or --bounciness/--speed")
	case origami:
		if math.IsNaN(convTension) || math.IsNaN(convFriction) {
			return fmt.Errorf("--tension and --friction go together")
		}
		c := spring.ConfigFromOrigamiTensionAndFriction(convTension, convFriction)
		fmt.Fprintf(out, "tension: %.4f\nfriction: %.4f\n", c.Tension, c.Friction)
	case bouncy:
		if math.IsNaN(convBounciness) || math.IsNaN(convSpeed) {
			return fmt.Errorf("--bounciness and --speed go together")
		}
		bc := spring.NewBouncyConversion(convBounciness, convSpeed)
		c := spring.ConfigFromOrigamiTensionAndFriction(bc.BouncyTension, bc.BouncyFriction)
		fmt.Fprintf(out, "origami tension: %.4f\norigami friction: %.4f\n", bc.BouncyTension, bc.BouncyFriction)
		fmt.Fprintf(out, "tension: %.4f\nfriction: %.4f\n", c.Tension, c.Friction)
	default:
		return fmt.Errorf("nothing to convert")
	}
	return nil
}
