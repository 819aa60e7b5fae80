package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/tractionsim/internal/config"
	"github.com/san-kum/tractionsim/internal/control"
	"github.com/san-kum/tractionsim/internal/inference"
)

var (
	dataDir  string
	logLevel string
	logger   *log.Logger

	// Scenario flags; each one overrides the preset and config file only when
	// set explicitly.
	configFile   string
	preset       string
	initialSpeed float64
	muPeak       float64
	wheelCount   int
	lockWheels   bool
	ctrlKind     string
	modelPath    string
	desiredSlip  float64
	physicsStep  time.Duration
	frameSleep   time.Duration
	duration     time.Duration

	recordEvery int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "tractionsim",
		Short:         "vehicle traction control simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".tractionsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&canLog, "can-log", "", "also write the run as a candump log")
	runCmd.Flags().StringVar(&canIface, "can-iface", "vcan0", "interface name written to the candump log")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write the final wheel drawing as SVG")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in real time with a terminal dashboard",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().BoolVar(&plain, "plain", false, "plain text frames instead of the dashboard")
	liveCmd.Flags().BoolVar(&saveLive, "save", false, "store the run when it ends")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one scenario across several road surfaces in parallel",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepMu, "mus", []float64{0.1, 0.3, 0.6, 1.0}, "peak friction values")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search the ramp rates for one scenario",
		Args:  cobra.NoArgs,
		RunE:  tuneController,
	}
	addScenarioFlags(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&tuneBrakeRates, "brake-rates", []float64{250, 500, 1000, 2000}, "brake ramp rates to try")
	tuneCmd.Flags().Float64SliceVar(&tuneDriveRates, "drive-rates", []float64{150, 300, 600, 1200}, "drive ramp rates to try")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "slip_rms_error", "metric to minimise")
	tuneCmd.Flags().StringVar(&tuneSave, "save", "", "write the tuned config to this path")

	generateCmd := &cobra.Command{
		Use:   "generate [out.csv|out.db]",
		Short: "generate a ramp-controller training dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  generateDataset,
	}
	generateCmd.Flags().IntVar(&genEntries, "entries", 1000, "number of rows to write")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 1, "random seed")
	generateCmd.Flags().IntVar(&genWheels, "wheels", 2, "wheels per vehicle")
	generateCmd.Flags().Float64SliceVar(&genMu, "mu", []float64{0.5, 1.0}, "peak friction range (min,max)")
	generateCmd.Flags().Float64SliceVar(&genSpeed, "speed", []float64{5, 25}, "initial speed range in m/s (min,max)")
	generateCmd.Flags().Float64SliceVar(&genSlip, "slip", []float64{0.05, 0.15}, "target slip range (min,max)")

	fitCmd := &cobra.Command{
		Use:   "fit [dataset]",
		Short: "fit a linear torque model to a dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  fitModel,
	}
	fitCmd.Flags().StringVarP(&fitOut, "out", "o", "model.json", "output model file")
	fitCmd.Flags().Float64Var(&fitLambda, "lambda", 1e-3, "ridge regularisation")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run telemetry in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&plotChannels, "channel", []string{"linear_speed", "slip"}, "channels to plot")

	reportCmd := &cobra.Command{
		Use:   "report [run_id]",
		Short: "write PNG charts and an HTML report for a run",
		Args:  cobra.ExactArgs(1),
		RunE:  reportRun,
	}
	reportCmd.Flags().StringVarP(&reportDir, "out", "o", "", "output directory (default: the run directory)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run telemetry",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "csv or json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")

	candumpCmd := &cobra.Command{
		Use:   "candump [run_id|log]",
		Short: "convert a run to a candump log, or decode one with --decode",
		Args:  cobra.ExactArgs(1),
		RunE:  candump,
	}
	candumpCmd.Flags().BoolVar(&decodeLog, "decode", false, "decode a candump log instead of encoding a run")
	candumpCmd.Flags().StringVar(&canIface, "can-iface", "vcan0", "interface name")
	candumpCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Printf("  %-8s mu=%.2f v0=%5.1f m/s  %s\n", name, p.MuPeak, p.InitialSpeed, p.Description)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file with the resolved settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			logger.Info("wrote config", "path", args[0], "scenario", cfg.Scenario)
			return nil
		},
	}
	addScenarioFlags(configInitCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, tuneCmd, generateCmd, fitCmd, listCmd, plotCmd,
		reportCmd, exportCmd, candumpCmd, presetsCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger == nil {
			logger = log.Default()
		}
		logger.Error(err)
		stop()
		os.Exit(1)
	}
}

func setupLogger() error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	return nil
}

func addScenarioFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVarP(&preset, "preset", "p", "", "scenario preset (see presets)")
	f.Float64Var(&initialSpeed, "speed", def.Vehicle.InitialSpeed, "initial speed (m/s)")
	f.Float64Var(&muPeak, "mu", def.Vehicle.Params.MuPeak, "peak road friction")
	f.IntVar(&wheelCount, "wheels", def.Vehicle.WheelCount, "number of wheels")
	f.BoolVar(&lockWheels, "lock", false, "start with the wheels locked")
	f.StringVar(&ctrlKind, "controller", def.Controller.Kind, fmt.Sprintf("controller %v", control.Kinds()))
	f.StringVar(&modelPath, "model", "", "model file for the learned controller")
	f.Float64Var(&desiredSlip, "slip", def.Controller.DesiredSlip, "target slip ratio")
	f.DurationVar(&physicsStep, "dt", def.Loop.PhysicsStep, "physics step")
	f.DurationVar(&frameSleep, "frame-sleep", def.Loop.FrameSleep, "sleep between frames (live)")
	f.DurationVar(&duration, "time", def.Duration, "simulated duration")
	f.IntVar(&recordEvery, "every", 1, "record every nth physics step")
}

// resolveConfig layers defaults, preset, config file and explicit flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("speed") {
		cfg.Vehicle.InitialSpeed = initialSpeed
	}
	if flags.Changed("mu") {
		cfg.Vehicle.Params.MuPeak = muPeak
	}
	if flags.Changed("wheels") {
		cfg.Vehicle.WheelCount = wheelCount
	}
	if flags.Changed("lock") {
		cfg.Vehicle.LockWheels = lockWheels
	}
	if flags.Changed("controller") {
		cfg.Controller.Kind = ctrlKind
	}
	if flags.Changed("model") {
		cfg.Controller.ModelPath = modelPath
	}
	if flags.Changed("slip") {
		cfg.Controller.DesiredSlip = desiredSlip
	}
	if flags.Changed("dt") {
		cfg.Loop.PhysicsStep = physicsStep
	}
	if flags.Changed("frame-sleep") {
		cfg.Loop.FrameSleep = frameSleep
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func controllerOptions(cfg *config.Config) []control.Option {
	opts := []control.Option{control.WithLogger(logger)}
	if cfg.Controller.ModelPath != "" {
		opts = append(opts, control.WithLoader(inference.Loader(cfg.Controller.ModelPath)))
	}
	return opts
}

func buildController(cfg *config.Config) (control.Controller, error) {
	return control.Build(cfg.Controller, controllerOptions(cfg)...)
}
