package main

import (
	"github.com/aretw0/viability/internal/cli"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Estimate W(rho) over a grid of rho values (default command)",
	Long: `Estimates the mean lifetime for every rho of the grid, in grid order, and
stores the resulting viability curve. The grid is --grid when given, otherwise
--grid-points evenly spaced values over [0, 1].`,
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out, err := curveOutput(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	rt, err := cli.NewRuntime(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	curve, err := rt.Engine.Sweep(cmd.Context(), cfg.Grid(), cfg.Simulation)
	if err != nil {
		if isCanceled(err) {
			logger.Warn("sweep canceled")
		}
		return err
	}

	return out.Curve(curve)
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
