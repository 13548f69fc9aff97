package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aretw0/viability"
	"github.com/aretw0/viability/internal/cli"
	"github.com/aretw0/viability/internal/presentation/tui"
	httpAdapter "github.com/aretw0/viability/pkg/adapters/http"
	"github.com/aretw0/viability/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the simulation engine as a JSON API over HTTP. Request bodies are
overrides applied on top of the resolved configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("work-limit") {
			cfg.Server.WorkLimit, _ = cmd.Flags().GetInt64("work-limit")
		}
		logger := newLogger(cmd, cfg)

		var metrics *observability.Metrics
		opts := []httpAdapter.Option{
			httpAdapter.WithLogger(logger),
			httpAdapter.WithDefaultGrid(cfg.Grid()),
			httpAdapter.WithVersion(strings.TrimSpace(viability.Version)),
			httpAdapter.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
			httpAdapter.WithWorkLimit(cfg.Server.WorkLimit),
		}
		if cfg.Server.Metrics {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics = observability.NewMetrics(reg)
			opts = append(opts, httpAdapter.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
		}

		rt, err := cli.NewRuntime(cfg, logger, metrics)
		if err != nil {
			return err
		}
		defer rt.Close()

		srv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: httpAdapter.NewHandler(rt.Engine, cfg.Simulation, opts...),
		}

		if term.IsTerminal(int(os.Stderr.Fd())) {
			tui.PrintBanner(cmd.ErrOrStderr(), strings.TrimSpace(viability.Version))
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting server", "addr", srv.Addr, "store", cfg.Store.Driver, "metrics", cfg.Server.Metrics)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err

		case <-cmd.Context().Done():
			logger.Info("shutting down server")

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
				if err := srv.Close(); err != nil {
					return err
				}
			}
			logger.Info("server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
	serveCmd.Flags().Int64("work-limit", 0, "Max simulated steps per request, 0 disables (default from config, 1e9)")
}
