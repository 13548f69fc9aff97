package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/viability/internal/cli"
	"github.com/aretw0/viability/internal/config"
	"github.com/aretw0/viability/internal/logging"
	"github.com/aretw0/viability/internal/presentation/graph"
	"github.com/aretw0/viability/internal/presentation/report"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "viability",
	Short: "Monte Carlo estimator of survival time versus systemic reduction",
	Long: `viability simulates an agent whose energy evolves under a bounded proportional
controller, Gaussian environmental noise and a constant decay cost, and estimates
its mean survival time W(rho) as a function of the systemic reduction rho.

Running without a subcommand sweeps the default rho grid.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSweep,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()

	// Configuration sources
	pf.String("config", "", "Path to a YAML or JSON config file (default $VIABILITY_CONFIG)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("store", "", "Curve store: memory, file, redis, sqlite")
	pf.String("store-path", "", "Directory (file) or database file (sqlite) of the curve store")
	pf.String("redis-addr", "", "Redis address for the redis store")

	// Model
	pf.Float64("rho", 0, "Systemic reduction degree in [0, 1]")
	pf.Int("trials", 0, "Independent trajectories per estimate (N)")
	pf.Int("max-steps", 0, "Step budget of a trajectory (T_max)")
	pf.Float64("gamma-ref", 0, "Target energy of the controller")
	pf.Float64("gamma-min", 0, "Death threshold")
	pf.Float64("k0", 0, "Nominal proportional gain")
	pf.Float64("alpha", 0, "Attenuation of gain and saturation per unit rho")
	pf.Float64("mu", 0, "Mean environmental input")
	pf.Float64("sigma0", 0, "Standard deviation of the environmental noise")
	pf.Float64("c", 0, "Constant decay cost per step")
	pf.Float64("u0", 0, "Nominal control saturation")

	// Sweep and execution
	pf.Int("grid-points", 0, "Number of evenly spaced rho values over [0, 1]")
	pf.Float64Slice("grid", nil, "Explicit comma separated rho values (order kept)")
	pf.Uint64("seed", 0, "Root random seed (0 draws a fresh seed)")
	pf.Int("workers", 0, "Goroutines running the trials of one estimate")

	// Output
	pf.StringP("format", "f", "text", "Output format: "+formatNames())
	pf.Bool("plot", false, "Append a plot of the curve (ASCII, or mermaid with --format markdown)")
	pf.String("plot-out", "", "Save a chart of the curve to this .png or .svg file")
}

func formatNames() string {
	names := make([]string, len(report.Formats))
	for i, f := range report.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// loadConfig resolves the configuration: defaults, file, environment, then flags.
// Only flags set explicitly on the command line override earlier sources.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	setString := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	setFloat := func(name string, dst *float64) {
		if flags.Changed(name) {
			*dst, _ = flags.GetFloat64(name)
		}
	}
	setInt := func(name string, dst *int) {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}

	setString("log-level", &cfg.Logging.Level)
	setString("store", &cfg.Store.Driver)
	setString("store-path", &cfg.Store.Path)
	setString("redis-addr", &cfg.Store.RedisAddr)

	sim := &cfg.Simulation
	setFloat("rho", &sim.Rho)
	setInt("trials", &sim.Trials)
	setInt("max-steps", &sim.MaxSteps)
	setFloat("gamma-ref", &sim.GammaRef)
	setFloat("gamma-min", &sim.GammaMin)
	setFloat("k0", &sim.K0)
	setFloat("alpha", &sim.Alpha)
	setFloat("mu", &sim.Mu)
	setFloat("sigma0", &sim.Sigma0)
	setFloat("c", &sim.C)
	setFloat("u0", &sim.U0)

	if flags.Changed("grid-points") {
		cfg.Sweep.GridPoints, _ = flags.GetInt("grid-points")
		cfg.Sweep.Grid = nil
	}
	if flags.Changed("grid") {
		cfg.Sweep.Grid, _ = flags.GetFloat64Slice("grid")
	}
	if flags.Changed("seed") {
		cfg.Run.Seed, _ = flags.GetUint64("seed")
	}
	setInt("workers", &cfg.Run.Workers)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the operational logger. Logs go to stderr so that
// stdout carries only results.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.NewWithWriter(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Logging.Level))
}

func outputFormat(cmd *cobra.Command) (report.Format, bool, error) {
	name, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(name)
	if err != nil {
		return "", false, err
	}
	plot, _ := cmd.Flags().GetBool("plot")
	return format, plot, nil
}

// curveOutput builds the output for commands that print a curve.
func curveOutput(cmd *cobra.Command) (*cli.Output, error) {
	format, plot, err := outputFormat(cmd)
	if err != nil {
		return nil, err
	}
	out := cli.NewOutput(cmd.OutOrStdout(), format, plot)
	out.PlotOut, _ = cmd.Flags().GetString("plot-out")
	if out.PlotOut != "" {
		if _, err := graph.ImageFormatFor(out.PlotOut); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
