// Package web serves the dashboard UI: routed pages rendered from embedded
// templates and a live update stream per open dashboard view.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"validprop/internal/config"
	"validprop/internal/dashboard"
	"validprop/internal/health"
	"validprop/internal/metrics"
)

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration

	Source    dashboard.Source
	Dashboard config.DashboardConfig
	// Settings is shown read-only on the settings page.
	Settings *config.Config
	// Snapshots is nil when the archive is disabled.
	Snapshots SnapshotLister
	Health    *health.Handler
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Logger    *slog.Logger
}

type Server struct {
	cfg      Config
	handlers *Handlers
	router   chi.Router
	logger   *slog.Logger
}

func NewServer(cfg Config) (*Server, error) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.Health == nil {
		cfg.Health = health.New()
	}

	handlers, err := NewHandlers(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		handlers: handlers,
		logger:   cfg.Logger.With("component", "server"),
	}
	s.router = s.routes()

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	h := s.handlers

	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Handle("/static/*", staticHandler())
	s.cfg.Health.Register(r)
	if s.cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/", h.RedirectHome)
	r.Get("/dashboard", h.DashboardPage)
	r.Get("/dashboard/updates", h.DashboardUpdates)
	r.Post("/dashboard/refresh", h.DashboardRefresh)
	r.Get("/upload", h.UploadPage)
	r.Get("/results", h.ResultsPage)
	r.Get("/results/{batchId}", h.ResultsPage)
	r.Get("/provider/{id}", h.ProviderPage)
	r.Get("/reports", h.ReportsPage)
	r.Get("/settings", h.SettingsPage)
	r.NotFound(h.NotFoundPage)

	return r
}

// Serve runs the HTTP server until ctx is cancelled. Open update streams
// end with the server's base context, closing their views.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting dashboard server", "addr", s.cfg.Addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.router,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down dashboard server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
