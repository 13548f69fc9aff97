package main

import (
	"github.com/aretw0/viability/internal/cli"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one trajectory and print its step-by-step trace",
	Long: `Runs a single trajectory at --rho and prints, for every step, the control,
the noise draw, the environmental input and the resulting energy, followed by
the outcome. Use --seed to replay a trajectory and --sigma0 0 for a
deterministic one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		format, _, err := outputFormat(cmd)
		if err != nil {
			return err
		}

		rt, err := cli.NewRuntime(cfg, newLogger(cmd, cfg), nil)
		if err != nil {
			return err
		}
		defer rt.Close()

		trace, err := rt.Engine.Trace(cmd.Context(), cfg.Simulation)
		if err != nil {
			return err
		}
		return cli.NewOutput(cmd.OutOrStdout(), format, false).Trace(trace)
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}
