package main

import (
	"fmt"

	"github.com/aretw0/viability/internal/cli"
	"github.com/spf13/cobra"
)

var curvesCmd = &cobra.Command{
	Use:   "curves",
	Short: "Manage stored viability curves",
}

var curvesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored curve IDs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		store, closeStore, err := cli.OpenStore(cfg.Store)
		if err != nil {
			return err
		}
		defer closeStore()

		ids, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No curves stored.")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

var curvesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored curve",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		out, err := curveOutput(cmd)
		if err != nil {
			return err
		}
		store, closeStore, err := cli.OpenStore(cfg.Store)
		if err != nil {
			return err
		}
		defer closeStore()

		curve, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("curve %s: %w", args[0], err)
		}
		return out.Curve(curve)
	},
}

var curvesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored curve",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		store, closeStore, err := cli.OpenStore(cfg.Store)
		if err != nil {
			return err
		}
		defer closeStore()

		if _, err := store.Load(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("curve %s: %w", args[0], err)
		}
		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Curve %s deleted.\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(curvesCmd)
	curvesCmd.AddCommand(curvesListCmd, curvesShowCmd, curvesDeleteCmd)
}
