package main

import (
	"github.com/aretw0/viability/internal/cli"
	"github.com/spf13/cobra"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate the mean lifetime W(rho) for a single rho",
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

		est, err := rt.Engine.Estimate(cmd.Context(), cfg.Simulation)
		if err != nil {
			return err
		}
		return cli.NewOutput(cmd.OutOrStdout(), format, false).Estimate(est)
	},
}

func init() {
	rootCmd.AddCommand(estimateCmd)
}
