package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/viability/internal/config"
	"github.com/aretw0/viability/internal/logging"
	"github.com/aretw0/viability/pkg/domain"
	"github.com/aretw0/viability/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	curvesURI      = "viability://curves"
	curvePrefixURI = "viability://curves/"
)

// Engine defines the interface required by the MCP server.
type Engine interface {
	ports.Simulator
	Curves() ports.CurveStore
}

// Server wraps the simulation engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	base      domain.Config
	grid      domain.Grid
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDefaultGrid sets the grid used by sweep_rho when the call names none.
func WithDefaultGrid(grid domain.Grid) Option {
	return func(s *Server) {
		s.grid = grid
	}
}

// NewServer creates a new MCP Server instance. Tool arguments are applied
// as overrides on top of base.
func NewServer(engine Engine, base domain.Config, version string, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		base:      base,
		grid:      domain.DefaultGrid(),
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("viability-mcp", strings.TrimSpace(version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// configOptions are the overridable simulation parameters shared by every tool.
func configOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("trials", mcp.Description("Number of independent trajectories (N)")),
		mcp.WithNumber("max_steps", mcp.Description("Step budget of a trajectory (T_max)")),
		mcp.WithNumber("gamma_ref", mcp.Description("Target energy of the controller")),
		mcp.WithNumber("gamma_min", mcp.Description("Death threshold")),
		mcp.WithNumber("k0", mcp.Description("Nominal proportional gain")),
		mcp.WithNumber("alpha", mcp.Description("Attenuation of gain and saturation per unit rho")),
		mcp.WithNumber("mu", mcp.Description("Mean environmental input")),
		mcp.WithNumber("sigma0", mcp.Description("Standard deviation of the environmental noise")),
		mcp.WithNumber("c", mcp.Description("Constant decay cost per step")),
		mcp.WithNumber("u0", mcp.Description("Nominal control saturation")),
	}
}

func (s *Server) registerTools() {
	rho := mcp.WithNumber("rho", mcp.Description("Systemic reduction degree in [0, 1]"))

	simulateTool := mcp.NewTool("simulate_trajectory", append([]mcp.ToolOption{
		mcp.WithDescription("Run one trajectory and return its step-by-step trace and outcome."),
		rho,
		mcp.WithOutputSchema[domain.Trace](),
	}, configOptions()...)...)
	s.mcpServer.AddTool(simulateTool, mcp.NewStructuredToolHandler(s.handleSimulate))

	estimateTool := mcp.NewTool("estimate_lifetime", append([]mcp.ToolOption{
		mcp.WithDescription("Estimate the mean lifetime W(rho) over many independent trajectories."),
		rho,
		mcp.WithOutputSchema[domain.Estimate](),
	}, configOptions()...)...)
	s.mcpServer.AddTool(estimateTool, mcp.NewStructuredToolHandler(s.handleEstimate))

	sweepTool := mcp.NewTool("sweep_rho", append([]mcp.ToolOption{
		mcp.WithDescription("Estimate W(rho) for every rho of a grid and store the resulting viability curve."),
		mcp.WithArray("grid", mcp.Description("Explicit rho values, kept in the given order"), mcp.Items(map[string]any{"type": "number"})),
		mcp.WithNumber("grid_points", mcp.Description("Number of evenly spaced rho values over [0, 1]")),
		mcp.WithOutputSchema[domain.Curve](),
	}, configOptions()...)...)
	s.mcpServer.AddTool(sweepTool, mcp.NewStructuredToolHandler(s.handleSweep))
}

func (s *Server) overrides(args map[string]any) (domain.Config, domain.Grid, error) {
	copied := make(map[string]any, len(args))
	for k, v := range args {
		copied[k] = v
	}
	grid, err := config.ExtractGrid(copied, s.grid)
	if err != nil {
		return domain.Config{}, nil, err
	}
	cfg, err := config.ApplyOverrides(s.base, copied)
	if err != nil {
		return domain.Config{}, nil, err
	}
	return cfg, grid, nil
}

func (s *Server) handleSimulate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.Trace, error) {
	cfg, _, err := s.overrides(args)
	if err != nil {
		return domain.Trace{}, err
	}
	trace, err := s.engine.Trace(ctx, cfg)
	if err != nil {
		return domain.Trace{}, fmt.Errorf("simulate failed: %w", err)
	}
	return *trace, nil
}

func (s *Server) handleEstimate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.Estimate, error) {
	cfg, _, err := s.overrides(args)
	if err != nil {
		return domain.Estimate{}, err
	}
	est, err := s.engine.Estimate(ctx, cfg)
	if err != nil {
		return domain.Estimate{}, fmt.Errorf("estimate failed: %w", err)
	}
	return est, nil
}

func (s *Server) handleSweep(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.Curve, error) {
	cfg, grid, err := s.overrides(args)
	if err != nil {
		return domain.Curve{}, err
	}
	curve, err := s.engine.Sweep(ctx, grid, cfg)
	if err != nil {
		return domain.Curve{}, fmt.Errorf("sweep failed: %w", err)
	}
	s.logger.Info("MCP sweep complete", "curve_id", curve.ID, "points", len(curve.Points))
	return *curve, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(curvesURI, "Stored viability curves",
		mcp.WithResourceDescription("IDs of the curves produced by sweep_rho"),
		mcp.WithMIMEType("application/json"),
	), s.readCurveList)

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(curvePrefixURI+"{id}", "Viability curve",
		mcp.WithTemplateDescription("A stored viability curve by ID"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readCurve)
}

func (s *Server) readCurveList(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ids, err := s.engine.Curves().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list curves: %w", err)
	}
	jsonBytes, _ := json.Marshal(map[string][]string{"curves": ids})
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      curvesURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func (s *Server) readCurve(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id := strings.TrimPrefix(uri, curvePrefixURI)
	if id == "" || id == uri {
		return nil, fmt.Errorf("invalid curve uri %q", uri)
	}

	curve, err := s.engine.Curves().Load(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrCurveNotFound) {
			return nil, fmt.Errorf("curve %s: %w", id, err)
		}
		return nil, fmt.Errorf("failed to load curve: %w", err)
	}
	jsonBytes, _ := json.Marshal(curve)
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
