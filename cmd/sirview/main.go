package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmcastelo/SIRview/internal/config"
	"github.com/jmcastelo/SIRview/internal/experiment"
	"github.com/jmcastelo/SIRview/internal/log"
)

var (
	dataDir  string
	logLevel string
	logFile  string

	// scenario selection, shared by every command that runs one
	model      string
	preset     string
	configFile string
	integrator string
	absTol     float64
	relTol     float64

	// output
	component string
	showRight bool
	saveRun   bool
	jsonOut   bool
	svgFile   string
	theme     string

	// analysis
	xAxis    string
	yAxis    string
	gridDim  int
	phaseEnd float64
	sweepEnd float64
	params   []float64
	param    string
	paramMin float64
	sweepMax float64
	tuneMax  float64
	steps    int
	section  int
	metric   string
	trials   int
	spread   float64
	seed     int64
	workers  int

	logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sirview",
		Short:         "piecewise epidemic model explorer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := log.New(logLevel, logPaths()...)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Sync(logger)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sirview", "data directory for saved runs")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate a scenario and plot the followed path",
		RunE:  runScenario,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().StringVar(&component, "component", "I", "compartment to plot")
	runCmd.Flags().BoolVar(&showRight, "right", false, "also plot where each regime would have gone")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "save the run to the data directory")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the run as JSON instead of plots")
	runCmd.Flags().StringVar(&svgFile, "svg", "", "write an SVG plot of the component to this file")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list the model catalog",
		RunE:  listModels,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [model]",
		Short: "phase portrait over a grid of initial conditions",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePortrait,
	}
	phaseCmd.Flags().StringVar(&xAxis, "x", "S", "compartment on the x axis")
	phaseCmd.Flags().StringVar(&yAxis, "y", "I", "compartment on the y axis")
	phaseCmd.Flags().IntVar(&gridDim, "grid", 10, "initial conditions per axis")
	phaseCmd.Flags().Float64Var(&phaseEnd, "end", 50, "integration end time")
	phaseCmd.Flags().Float64SliceVar(&params, "params", nil, "model parameters (catalog defaults if empty)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "peak and final size across a parameter range",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepParameter,
	}
	sweepCmd.Flags().StringVar(&param, "param", "R0", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 0, "sweep start")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 5, "sweep end")
	sweepCmd.Flags().IntVar(&steps, "steps", 11, "number of values")
	sweepCmd.Flags().Float64Var(&sweepEnd, "end", 100, "integration end time")
	sweepCmd.Flags().StringVar(&component, "component", "I", "compartment to measure")
	sweepCmd.Flags().Float64SliceVar(&params, "params", nil, "other model parameters (catalog defaults if empty)")

	mcCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb a scenario's parameters and summarize the metrics",
		RunE:  monteCarlo,
	}
	scenarioFlags(mcCmd)
	mcCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	mcCmd.Flags().Float64Var(&spread, "spread", 0.1, "relative parameter spread")
	mcCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	mcCmd.Flags().IntVar(&workers, "workers", 0, "concurrent trials (0 for unlimited)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search one section parameter minimizing a metric",
		RunE:  tuneSection,
	}
	scenarioFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&section, "section", 1, "section to tune")
	tuneCmd.Flags().StringVar(&param, "param", "R0", "parameter to vary")
	tuneCmd.Flags().Float64Var(&paramMin, "min", 0, "search start")
	tuneCmd.Flags().Float64Var(&tuneMax, "max", 2.5, "search end")
	tuneCmd.Flags().IntVar(&steps, "steps", 11, "number of values")
	tuneCmd.Flags().StringVar(&metric, "metric", "peak_infected", "metric to minimize")

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run every scenario of a batch file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&saveRun, "save", false, "save every run to the data directory")

	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "edit a scenario's sections interactively",
		RunE:  editScenario,
	}
	scenarioFlags(editCmd)
	editCmd.Flags().StringVar(&theme, "theme", "minimal", "colour theme")

	rootCmd.AddCommand(runCmd, runsCmd, plotCmd, modelsCmd, presetsCmd, phaseCmd, sweepCmd, mcCmd, tuneCmd, batchCmd, editCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&model, "model", config.DefaultModel, "model key")
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset scenario of the model")
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().Float64Var(&absTol, "abs-tol", config.DefaultAbsTol, "absolute tolerance")
	cmd.Flags().Float64Var(&relTol, "rel-tol", config.DefaultRelTol, "relative tolerance")
}

// loadScenario resolves the scenario flags. A config file wins over a
// preset, and flags set explicitly win over both.
func loadScenario(cmd *cobra.Command) (string, *config.Config, error) {
	name := model
	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset != "" {
		cfg = config.GetPreset(model, preset)
		if cfg == nil {
			return "", nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		name = model + "/" + preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return "", nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = configFile
		if !cmd.Flags().Changed("model") {
			model = cfg.Model
		}
		if cfg.LogLevel != "" && !cmd.Flags().Changed("log-level") {
			if l, err := log.New(cfg.LogLevel, logPaths()...); err == nil {
				logger = l
			}
		}
	}

	if cmd.Flags().Changed("model") {
		cfg.Model = model
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("abs-tol") {
		cfg.AbsTol = absTol
	}
	if cmd.Flags().Changed("rel-tol") {
		cfg.RelTol = relTol
	}

	if err := cfg.Validate(); err != nil {
		return "", nil, err
	}
	if _, err := experiment.NewRegistry().GetModel(cfg.Model); err != nil {
		return "", nil, err
	}
	return name, cfg, nil
}

func logPaths() []string {
	if logFile == "" {
		return nil
	}
	return []string{logFile}
}
