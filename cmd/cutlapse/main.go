package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/cutlapse/internal/config"
	"github.com/san-kum/cutlapse/internal/export"
	"github.com/san-kum/cutlapse/internal/filter"
	"github.com/san-kum/cutlapse/internal/geo"
	"github.com/san-kum/cutlapse/internal/playback"
	"github.com/san-kum/cutlapse/internal/server"
	"github.com/san-kum/cutlapse/internal/storage"
	"github.com/san-kum/cutlapse/internal/timeline"
	"github.com/san-kum/cutlapse/internal/tui"
	"github.com/san-kum/cutlapse/internal/viz"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	configFile string
	preset     string
	source     string
	yearField  string
	mode       string
	startYear  int
	endYear    int
	speedMs    int
	autoplay   bool
	theme      string
	dataDir    string

	// play
	loops   int
	showMap bool
	cols    int
	rows    int

	// years
	jsonOut bool

	// serve
	listen string

	// export
	width   int
	height  int
	noSVG   bool
	noGIF   bool
	workers int
)

var printer = message.NewPrinter(language.English)

// main runs the viewer when no subcommand is given. It exits with status 1
// when a command fails.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "cutlapse",
		Short:        "yearly cutblock time-lapse viewer",
		SilenceUsage: true,
		RunE:         runView,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&source, "source", config.DefaultSource, "GeoJSON file or URL")
	pf.StringVar(&yearField, "field", config.DefaultYearField, "year property")
	pf.StringVar(&mode, "mode", "cumulative", "filter mode (cumulative|exact)")
	pf.IntVar(&startYear, "start-year", 0, "first year to show")
	pf.IntVar(&endYear, "end-year", 0, "last year to show")
	pf.IntVar(&speedMs, "speed", config.DefaultSpeedMs, "milliseconds per year")
	pf.BoolVar(&autoplay, "autoplay", true, "start playing on load")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "interactive terminal viewer",
		RunE:  runView,
	}

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "play the time-lapse to stdout",
		RunE:  runPlay,
	}
	playCmd.Flags().IntVar(&loops, "loops", 1, "full passes before exiting (0 plays until interrupted)")
	playCmd.Flags().BoolVar(&showMap, "map", false, "draw the map on every frame")
	playCmd.Flags().IntVar(&cols, "cols", 70, "map width in cells")
	playCmd.Flags().IntVar(&rows, "rows", 20, "map height in cells")

	yearsCmd := &cobra.Command{
		Use:   "years",
		Short: "show the year axis and features per year",
		RunE:  runYears,
	}
	yearsCmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the year axis, filters and playback over HTTP",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&listen, "listen", config.DefaultListen, "listen address")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "render every year to SVG frames and an animated GIF",
		RunE:  runExport,
	}
	exportCmd.Flags().IntVar(&width, "width", 800, "frame width in pixels")
	exportCmd.Flags().IntVar(&height, "height", 800, "frame height in pixels")
	exportCmd.Flags().BoolVar(&noSVG, "no-svg", false, "skip SVG frames")
	exportCmd.Flags().BoolVar(&noGIF, "no-gif", false, "skip the GIF")
	exportCmd.Flags().IntVar(&workers, "workers", 0, "concurrent frame renderers (0 = GOMAXPROCS)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list export runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(viewCmd, playCmd, yearsCmd, serveCmd, exportCmd, listCmd, presetsCmd)
	return rootCmd
}

// loadConfig layers the config file, environment, preset and explicitly set
// flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Resolve(configFile)
	if err != nil {
		return nil, err
	}
	if preset != "" {
		if err := config.ApplyPreset(cfg, preset); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = source
	}
	if flags.Changed("field") {
		cfg.YearField = yearField
	}
	if flags.Changed("mode") {
		m, err := filter.ParseMode(mode)
		if err != nil {
			return nil, err
		}
		cfg.Mode = m
	}
	if flags.Changed("start-year") {
		cfg.StartYear = &startYear
	}
	if flags.Changed("end-year") {
		cfg.EndYear = &endYear
	}
	if flags.Changed("speed") {
		cfg.SpeedMs = speedMs
	}
	if flags.Changed("autoplay") {
		cfg.Autoplay = autoplay
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("listen") {
		cfg.Listen = listen
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFeatures(ctx context.Context, cfg *config.Config) (*geo.FeatureCollection, error) {
	fc, err := geo.NewLoader().Load(ctx, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.Source, err)
	}
	return fc, nil
}

// area is the configured area of interest, or the data bounds when none is
// set.
func area(cfg *config.Config, fc *geo.FeatureCollection) geo.BBox {
	box := cfg.Area()
	if box.Empty() {
		if b, ok := fc.Bounds(); ok {
			return b
		}
	}
	return box
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	viz.SetTheme(cfg.Theme)
	return tui.Run(ctx, tui.Options{
		Config: cfg,
		Load: func(ctx context.Context) (*geo.FeatureCollection, error) {
			return loadFeatures(ctx, cfg)
		},
	})
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	fc, err := loadFeatures(ctx, cfg)
	if err != nil {
		return err
	}
	axis, err := timeline.Build(fc, cfg.YearField, cfg.StartYear, cfg.EndYear)
	if err != nil {
		fmt.Println(timeline.Label(err))
		return nil
	}

	r := tui.NewPlainRenderer(os.Stdout).StopAfter(loops * len(axis.Years))
	if showMap {
		r.WithMap(viz.NewScene(fc), area(cfg, fc), cols, rows, viz.GetTheme(cfg.Theme))
	}
	ctrl := playback.New(playback.Config{
		Years:    axis.Years,
		Field:    cfg.YearField,
		Mode:     cfg.Mode,
		Interval: cfg.Interval(),
	}, r, playback.TickerScheduler{})

	r.Start()
	defer r.Stop()
	ctrl.Init(true)
	defer ctrl.Stop()

	select {
	case <-r.Done():
	case <-ctx.Done():
	}
	return nil
}

func runYears(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fc, err := loadFeatures(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	axis, err := timeline.Build(fc, cfg.YearField, cfg.StartYear, cfg.EndYear)
	if err != nil {
		fmt.Println(timeline.Label(err))
		return nil
	}
	counts := timeline.Counts(fc, cfg.YearField, axis.Years)

	if jsonOut {
		return storage.WriteJSON(os.Stdout, storage.NewYearsReport(cfg.Source, axis, counts))
	}

	fmt.Printf("source: %s\n", cfg.Source)
	fmt.Printf("field: %s\n", axis.Field)
	fmt.Printf("range: %d-%d (%d of %d years)\n\n", axis.Range.Start, axis.Range.End, len(axis.Years), len(axis.Base))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "YEAR\tCOUNT\tCUMULATIVE")
	data := make([]float64, len(counts))
	for i, c := range counts {
		fmt.Fprintf(w, "%d\t%s\t%s\n", c.Year, printer.Sprintf("%d", c.Count), printer.Sprintf("%d", c.Cumulative))
		data[i] = float64(c.Count)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(data) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("features per year, %d-%d", axis.First(), axis.Last())),
		))
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	log.SetPrefix("[SERVE] ")
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fc, err := loadFeatures(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	data := &server.Dataset{
		Source:    cfg.Source,
		Features:  fc,
		Field:     cfg.YearField,
		Mode:      cfg.Mode,
		StartYear: cfg.StartYear,
		EndYear:   cfg.EndYear,
	}
	sess := server.NewSession(data, playback.Config{Interval: cfg.Interval()}, playback.TickerScheduler{})
	defer sess.Controller().Stop()
	if cfg.Autoplay {
		sess.Controller().Start()
	}

	s := server.New(cfg.Listen, server.Handler{Data: data, Session: sess})
	log.Printf("serving %s (%d features) on %s", cfg.Source, len(fc.Features), cfg.Listen)
	s.Spin()
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	fc, err := loadFeatures(ctx, cfg)
	if err != nil {
		return err
	}
	axis, err := timeline.Build(fc, cfg.YearField, cfg.StartYear, cfg.EndYear)
	if err != nil {
		return fmt.Errorf("nothing to export: %s", timeline.Label(err))
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID := storage.NewRunID(axis.Range.Start, axis.Range.End)

	start := time.Now()
	job := export.Job{
		Scene:   viz.NewScene(fc),
		Box:     area(cfg, fc),
		Years:   axis.Years,
		Field:   cfg.YearField,
		Mode:    cfg.Mode,
		Width:   width,
		Height:  height,
		Delay:   cfg.Interval(),
		Style:   export.DefaultStyle,
		Dir:     st.Dir(runID),
		SkipSVG: noSVG,
		SkipGIF: noGIF,
		Workers: workers,
	}
	res, err := job.Run(ctx)
	if err != nil {
		return err
	}

	meta := storage.RunMetadata{
		ID:        runID,
		Source:    cfg.Source,
		Field:     cfg.YearField,
		Mode:      cfg.Mode.String(),
		StartYear: axis.Range.Start,
		EndYear:   axis.Range.End,
		Frames:    len(res.Frames),
		SpeedMs:   cfg.SpeedMs,
		Width:     width,
		Height:    height,
		GIF:       res.GIF,
	}
	if err := st.Save(meta, timeline.Counts(fc, cfg.YearField, axis.Years)); err != nil {
		return err
	}

	fmt.Printf("exported %d frames in %s\n", len(res.Frames), time.Since(start).Round(time.Millisecond))
	fmt.Printf("run: %s\n", runID)
	fmt.Printf("dir: %s\n", st.Dir(runID))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFIELD\tMODE\tYEARS\tFRAMES\tTIME")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d-%d\t%d\t%s\n",
			run.ID,
			run.Field,
			run.Mode,
			run.StartYear,
			run.EndYear,
			run.Frames,
			run.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}

	return w.Flush()
}
