package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/fractalview/internal/automation"
	"github.com/san-kum/fractalview/internal/config"
	"github.com/san-kum/fractalview/internal/engine"
	"github.com/san-kum/fractalview/internal/fractal"
	"github.com/san-kum/fractalview/internal/logging"
	"github.com/san-kum/fractalview/internal/palette"
	"github.com/san-kum/fractalview/internal/raster"
	"github.com/san-kum/fractalview/internal/viz"
)

const defaultConfigFile = "fractalview.yaml"

var (
	configFile string
	envFile    string
	logLevel   string
	logFile    string
	logDev     bool

	width      int
	height     int
	workers    int
	preset     string
	bounds     string
	zoom       float64
	algorithm  string
	smooth     bool
	step       float64
	saturation float64
	value      float64
	alternate  bool

	output string
	format string

	runs  int
	scale bool

	outDir string

	theme   string
	saveDir string
	force   bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "fractalview",
		Short:        "escape-time fractal renderer",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnv(envFile)
		},
		RunE: runView,
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml, default ./"+defaultConfigFile+" if present)")
	pf.StringVar(&envFile, "env", ".env", "dotenv file with FRACTALVIEW_* overrides")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write JSON logs to this file, rotated")
	pf.BoolVar(&logDev, "log-dev", false, "development logging with caller info")
	addViewFlags(rootCmd)
	addViewerFlags(rootCmd)

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render one image to a file",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	addViewFlags(renderCmd)
	addSizeFlags(renderCmd)
	renderCmd.Flags().StringVarP(&output, "out", "o", config.DefaultOutput, "output file")
	renderCmd.Flags().StringVar(&format, "format", "", "output format: png or tiff (default from extension)")

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "interactive terminal viewer",
		Args:  cobra.NoArgs,
		RunE:  runView,
	}
	addViewFlags(viewCmd)
	addViewerFlags(viewCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time repeated renders",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	addViewFlags(benchCmd)
	addSizeFlags(benchCmd)
	benchCmd.Flags().IntVar(&runs, "runs", 10, "number of renders")
	benchCmd.Flags().BoolVar(&scale, "scale", false, "also compare worker counts")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario]",
		Short: "render a scripted sequence of views from yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	addViewFlags(batchCmd)
	addSizeFlags(batchCmd)
	batchCmd.Flags().StringVar(&outDir, "out-dir", "", "directory for relative output paths")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tZOOM\tBOUNDS\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%g\t%s\t%s\n", name, p.Zoom, p.Bounds, p.Description)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigInit,
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(initCmd)

	rootCmd.AddCommand(renderCmd, viewCmd, benchCmd, batchCmd, presetsCmd, configCmd)
	return rootCmd
}

func addViewFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&preset, "preset", "p", "", "start from a preset view (see presets)")
	f.StringVar(&bounds, "bounds", "", "plane bounds as min_real,max_real,min_imag,max_imag")
	f.Float64Var(&zoom, "zoom", config.DefaultZoom, "zoom level (sets the iteration cap)")
	f.StringVarP(&algorithm, "algorithm", "a", palette.HSV.String(), "palette name or number 0-8")
	f.BoolVar(&smooth, "smooth", true, "smooth colouring")
	f.Float64Var(&step, "step", config.DefaultStep, "smoothing blend step")
	f.Float64Var(&saturation, "saturation", config.DefaultSaturation, "hsv saturation")
	f.Float64Var(&value, "value", config.DefaultValue, "hsv value")
	f.BoolVar(&alternate, "ship", false, "render the Burning Ship variant")
	f.IntVarP(&workers, "workers", "j", 0, "worker goroutines (0 = one per CPU)")
}

func addSizeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "image width")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "image height")
}

func addViewerFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "status bar theme: "+strings.Join(viz.ThemeNames(), ", "))
	cmd.Flags().StringVar(&saveDir, "save-dir", "", "directory for frames saved with w")
}

func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// loadConfig layers defaults, the config file, FRACTALVIEW_* variables and
// explicitly set flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	path := configFile
	if path == "" {
		path = defaultConfigFile
	}
	loaded, err := config.Load(path)
	switch {
	case err == nil:
		cfg = loaded
	case configFile == "" && errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("preset") {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(config.ListPresets(), ", "))
		}
	}
	if f.Changed("bounds") {
		b, err := parseBounds(bounds)
		if err != nil {
			return nil, err
		}
		cfg.View.Bounds = b
	}
	if f.Changed("zoom") {
		cfg.View.Zoom = zoom
	}
	if f.Changed("algorithm") {
		a, err := palette.ParseAlgorithm(algorithm)
		if err != nil {
			return nil, err
		}
		cfg.Colour.Algorithm = a
	}
	if f.Changed("smooth") {
		cfg.Colour.Smooth = smooth
	}
	if f.Changed("step") {
		cfg.Colour.Step = step
	}
	if f.Changed("saturation") {
		cfg.Colour.Saturation = saturation
	}
	if f.Changed("value") {
		cfg.Colour.Value = value
	}
	if f.Changed("ship") {
		cfg.Render.Alternate = alternate
	}
	if f.Changed("workers") {
		cfg.Render.Workers = workers
	}
	if f.Changed("width") {
		cfg.Render.Width = width
	}
	if f.Changed("height") {
		cfg.Render.Height = height
	}
	if f.Changed("out") {
		cfg.Output.Path = output
	}
	if f.Changed("format") {
		cfg.Output.Format = format
	}
	if f.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if f.Changed("log-file") {
		cfg.Log.File = logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseBounds(s string) (fractal.Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return fractal.Bounds{}, fmt.Errorf("bounds: expected 4 comma-separated values, got %d", len(parts))
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fractal.Bounds{}, fmt.Errorf("bounds: %w", err)
		}
		v[i] = f
	}
	b := fractal.Bounds{MinReal: v[0], MaxReal: v[1], MinImaginary: v[2], MaxImaginary: v[3]}
	return b, b.Validate()
}

func newEngine(cfg *config.Config, quiet bool) (*engine.Engine, *zap.Logger, error) {
	log, err := logging.New(logging.Options{
		Level:       cfg.Log.Level,
		File:        cfg.Log.File,
		Development: logDev,
		Quiet:       quiet,
	})
	if err != nil {
		return nil, nil, err
	}
	return engine.New(engine.WithLogger(log), engine.WithWorkers(cfg.Render.Workers)), log, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f := raster.FormatFor(cfg.Output.Path)
	if cfg.Output.Format != "" {
		if f, err = raster.ParseFormat(cfg.Output.Format); err != nil {
			return err
		}
	}

	eng, log, err := newEngine(cfg, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	res, err := eng.Render(cmd.Context(), cfg.Render.Width, cfg.Render.Height, cfg.Settings())
	if err != nil {
		return err
	}
	if err := res.Raster.Save(cfg.Output.Path, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Output.Path, err)
	}
	log.Debug("image written", zap.String("path", cfg.Output.Path), zap.String("format", string(f)))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "rendered %dx%d in %v (max iterations %d)\n",
		cfg.Render.Width, cfg.Render.Height, res.Elapsed.Round(time.Millisecond), res.MaxIterations)
	fmt.Fprintf(out, "wrote %s\n", cfg.Output.Path)
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eng, log, err := newEngine(cfg, true)
	if err != nil {
		return err
	}
	defer log.Sync()

	final, err := viz.Run(cmd.Context(), eng, cfg.Settings(), viz.Options{SaveDir: saveDir, Theme: theme})
	if err != nil {
		return err
	}
	log.Info("viewer closed", zap.Stringer("bounds", final.Bounds), zap.Float64("zoom", final.Zoom))
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if runs < 1 {
		return fmt.Errorf("runs must be positive, got %d", runs)
	}
	eng, log, err := newEngine(cfg, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	w, h, s := cfg.Render.Width, cfg.Render.Height, cfg.Settings()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "benchmarking %dx%d, %s, %d workers, max iterations %d\n\n",
		w, h, s.Algorithm, eng.Workers(), s.MaxIterations())

	times := make([]float64, 0, runs)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tTIME\tMPIX/SEC")
	for i := 0; i < runs; i++ {
		res, err := eng.Render(ctx, w, h, s)
		if err != nil {
			return err
		}
		times = append(times, float64(res.Elapsed.Microseconds())/1000)
		fmt.Fprintf(tw, "%d\t%v\t%.2f\n", i+1, res.Elapsed.Round(time.Microsecond), mpix(w, h, res.Elapsed))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(times) > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(times,
			asciigraph.Height(8),
			asciigraph.Width(min(60, 4*len(times))),
			asciigraph.Caption("render time (ms)")))
	}

	if !scale {
		return nil
	}

	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WORKERS\tTIME\tSPEEDUP")
	var base time.Duration
	for _, n := range workerCounts(runtime.NumCPU()) {
		e := engine.New(engine.WithLogger(log), engine.WithWorkers(n))
		res, err := e.Render(ctx, w, h, s)
		if err != nil {
			return err
		}
		if base == 0 {
			base = res.Elapsed
		}
		fmt.Fprintf(tw, "%d\t%v\t%.2fx\n", n, res.Elapsed.Round(time.Microsecond), float64(base)/float64(res.Elapsed))
	}
	return tw.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	if sc.Width == 0 || cmd.Flags().Changed("width") {
		sc.Width = cfg.Render.Width
	}
	if sc.Height == 0 || cmd.Flags().Changed("height") {
		sc.Height = cfg.Render.Height
	}

	eng, log, err := newEngine(cfg, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	r := &automation.Runner{Engine: eng, Log: log, Dir: outDir}
	outputs, err := r.RunScenario(cmd.Context(), sc, cfg.Settings())

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tFRAME\tTIME\tFILE")
	for _, o := range outputs {
		fmt.Fprintf(tw, "%d\t%d\t%v\t%s\n", o.Step, o.Frame, o.Result.Elapsed.Round(time.Millisecond), o.Path)
	}
	if ferr := tw.Flush(); err == nil {
		err = ferr
	}
	return err
}

// workerCounts returns powers of two up to n, and n itself.
func workerCounts(n int) []int {
	var counts []int
	for c := 1; c < n; c *= 2 {
		counts = append(counts, c)
	}
	return append(counts, max(n, 1))
}

func mpix(w, h int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(w*h) / 1e6 / d.Seconds()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := defaultConfigFile
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
