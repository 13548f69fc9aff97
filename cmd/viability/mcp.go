package main

import (
	"github.com/aretw0/viability"
	"github.com/aretw0/viability/internal/cli"
	"github.com/aretw0/viability/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Model Context Protocol server",
	Long: `Exposes the simulate_trajectory, estimate_lifetime and sweep_rho tools and
the viability://curves resource over MCP. Uses stdio by default; --sse serves
over HTTP Server-Sent Events instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cmd, cfg)

		rt, err := cli.NewRuntime(cfg, logger, nil)
		if err != nil {
			return err
		}
		defer rt.Close()

		srv := mcp.NewServer(rt.Engine, cfg.Simulation, viability.Version,
			mcp.WithLogger(logger),
			mcp.WithDefaultGrid(cfg.Grid()),
		)

		sse, _ := cmd.Flags().GetBool("sse")
		if !sse {
			return srv.ServeStdio()
		}
		port, _ := cmd.Flags().GetInt("port")
		return srv.ServeSSE(cmd.Context(), port)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().Bool("sse", false, "Serve over SSE instead of stdio")
	mcpCmd.Flags().IntP("port", "p", 8081, "Port for the SSE server")
}
