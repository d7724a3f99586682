// Package web provides the HTTP server and handlers for batch validation.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/recordcheck/internal/config"
	"github.com/JonMunkholm/recordcheck/internal/core"
	"github.com/JonMunkholm/recordcheck/internal/web/middleware"
)

// Server is the HTTP server for the record validator.
type Server struct {
	cfg       *config.Config
	validator *core.Validator
	limiter   *core.Limiter
	history   *core.History
	metrics   *Metrics
	registry  *prometheus.Registry
	router    *chi.Mux
	server    *http.Server
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		cfg:       cfg,
		validator: core.NewValidator(),
		limiter:   core.NewLimiter(cfg.Server.MaxConcurrent, cfg.Server.MaxWaitTime),
		history:   core.NewHistory(cfg.Server.HistorySize),
		registry:  reg,
		router:    chi.NewRouter(),
	}
	s.metrics = NewMetrics(reg, s.limiter)
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	}

	// Security hardening
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	// Pages
	s.router.Get("/runs/{runID}", s.handleRunReport)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/inspect", s.handleInspect)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{runID}", s.handleGetRun)
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown waits for running batches to finish, then stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if status := s.limiter.Status(); status.Active > 0 {
		slog.Info("waiting for batches to complete", "active", status.Active)
		if err := s.limiter.WaitForDrain(ctx); err != nil {
			slog.Warn("batches did not complete in time", "error", err)
		}
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// History returns the in-memory run history.
func (s *Server) History() *core.History {
	return s.history
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// Reports are self-contained: inline styles only
		w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")

		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}
