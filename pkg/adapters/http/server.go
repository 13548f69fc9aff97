package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/viability/internal/config"
	"github.com/aretw0/viability/internal/logging"
	"github.com/aretw0/viability/pkg/domain"
	"github.com/aretw0/viability/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Engine defines the simulation surface served over HTTP.
type Engine interface {
	ports.Simulator
	Curves() ports.CurveStore
}

// Request limits applied when no option overrides them.
const (
	// DefaultMaxBodyBytes caps the size of a request body.
	DefaultMaxBodyBytes int64 = 1 << 20
	// DefaultWorkLimit caps the simulated steps one request may ask for:
	// max_steps for /simulate, trials*max_steps for /estimate and
	// grid*trials*max_steps for /sweep. The reference sweep needs 4.2e7.
	DefaultWorkLimit int64 = 1_000_000_000
)

// Server serves the simulation engine as a JSON API.
// Request bodies are loose overrides applied on top of Base.
type Server struct {
	Engine  Engine
	Base    domain.Config
	Grid    domain.Grid
	Version string

	maxBody   int64
	workLimit int64
	metrics   http.Handler
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts a metrics handler (e.g. promhttp.Handler()) at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDefaultGrid sets the grid used by /sweep when the body names none.
func WithDefaultGrid(grid domain.Grid) Option {
	return func(s *Server) {
		s.Grid = grid
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// WithMaxBodyBytes caps request bodies at n bytes. Larger bodies get 413.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		s.maxBody = n
	}
}

// WithWorkLimit caps the simulated steps of a single request. Requests above
// the limit get 400. 0 disables the check.
func WithWorkLimit(steps int64) Option {
	return func(s *Server) {
		s.workLimit = steps
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, base domain.Config, opts ...Option) http.Handler {
	s := &Server{
		Engine:  engine,
		Base:    base,
		Grid:    domain.DefaultGrid(),
		Version:   "dev",
		maxBody:   DefaultMaxBodyBytes,
		workLimit: DefaultWorkLimit,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.Health)
	r.Get("/info", s.Info)
	r.Post("/simulate", s.Simulate)
	r.Post("/estimate", s.Estimate)
	r.Post("/sweep", s.Sweep)
	r.Route("/curves", func(r chi.Router) {
		r.Get("/", s.ListCurves)
		r.Get("/{id}", s.GetCurve)
		r.Delete("/{id}", s.DeleteCurve)
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// InfoResponse describes the server defaults.
type InfoResponse struct {
	Version string        `json:"version"`
	Config  domain.Config `json:"config"`
	Grid    domain.Grid   `json:"grid"`
}

// Info handles GET /info.
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, InfoResponse{Version: s.Version, Config: s.Base, Grid: s.Grid})
}

// Simulate handles POST /simulate and returns the full trace of one trajectory.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	cfg, _, err := s.decode(w, r)
	if err == nil {
		err = s.checkWork(1, 1, cfg.MaxSteps)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	trace, err := s.Engine.Trace(r.Context(), cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trace)
}

// Estimate handles POST /estimate.
func (s *Server) Estimate(w http.ResponseWriter, r *http.Request) {
	cfg, _, err := s.decode(w, r)
	if err == nil {
		err = s.checkWork(1, cfg.Trials, cfg.MaxSteps)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	est, err := s.Engine.Estimate(r.Context(), cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, est)
}

// Sweep handles POST /sweep. The body may carry "grid" (explicit rho values)
// or "grid_points" (evenly spaced over [0, 1]) next to the config overrides.
func (s *Server) Sweep(w http.ResponseWriter, r *http.Request) {
	cfg, grid, err := s.decode(w, r)
	if err == nil {
		err = s.checkWork(len(grid), cfg.Trials, cfg.MaxSteps)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	curve, err := s.Engine.Sweep(r.Context(), grid, cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("sweep served", "curve_id", curve.ID, "points", len(curve.Points))
	s.writeJSON(w, http.StatusCreated, curve)
}

// ListCurves handles GET /curves.
func (s *Server) ListCurves(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.Curves().List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"curves": ids})
}

// GetCurve handles GET /curves/{id}.
func (s *Server) GetCurve(w http.ResponseWriter, r *http.Request) {
	curve, err := s.Engine.Curves().Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, curve)
}

// DeleteCurve handles DELETE /curves/{id}.
func (s *Server) DeleteCurve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.Engine.Curves().Load(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.Engine.Curves().Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads the loose JSON body and splits grid selection from config overrides.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (domain.Config, domain.Grid, error) {
	if s.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}
	body := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		if tooLarge := new(http.MaxBytesError); errors.As(err, &tooLarge) {
			return domain.Config{}, nil, err
		}
		return domain.Config{}, nil, fmt.Errorf("%w: invalid request body: %v", domain.ErrInvalidConfiguration, err)
	}

	grid, err := config.ExtractGrid(body, s.Grid)
	if err != nil {
		return domain.Config{}, nil, err
	}
	cfg, err := config.ApplyOverrides(s.Base, body)
	if err != nil {
		return domain.Config{}, nil, err
	}
	return cfg, grid, nil
}

// checkWork rejects requests whose worst case exceeds the work limit.
// Non-positive counts are left to config validation.
func (s *Server) checkWork(points, trials, maxSteps int) error {
	if s.workLimit <= 0 || points <= 0 || trials <= 0 || maxSteps <= 0 {
		return nil
	}
	if float64(points)*float64(trials)*float64(maxSteps) > float64(s.workLimit) {
		return fmt.Errorf("%w: request needs up to %d x %d x %d steps, limit is %d",
			domain.ErrInvalidConfiguration, points, trials, maxSteps, s.workLimit)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	tooLarge := new(http.MaxBytesError)
	switch {
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrInvalidConfiguration):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrCurveNotFound):
		status = http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	} else {
		s.logger.Warn("request rejected", "status", status, "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
