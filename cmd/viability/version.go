package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/viability"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of viability",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "viability version %s\n", strings.TrimSpace(viability.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
