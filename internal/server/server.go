// Package server exposes the dashboard over HTTP: a JSON API, file exports,
// a websocket feed of refreshes and Prometheus metrics.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/Veraticus/trackboard/internal/engine"
	"github.com/Veraticus/trackboard/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Config configures the HTTP server.
type Config struct {
	Addr            string
	ReportTitle     string
	ExportDelimiter string
	AllowedOrigins  []string
	// TLS, when set, serves HTTPS on the listener.
	TLS             *tls.Config
	RefreshInterval time.Duration
	PageSize        int
	ExportBOM       bool
}

// DefaultConfig returns a loopback server refreshing every two minutes.
func DefaultConfig() Config {
	return Config{
		Addr:            "127.0.0.1:8080",
		ReportTitle:     "Weekly Accountability Dashboard",
		ExportDelimiter: ",",
		AllowedOrigins:  []string{"*"},
		RefreshInterval: engine.DefaultRefreshInterval,
		PageSize:        model.DefaultPageSize,
	}
}

// Server serves the current dataset of a Refresher.
type Server struct {
	refresher *engine.Refresher
	metrics   *Metrics
	hub       *Hub
	logger    *slog.Logger
	validate  *validator.Validate
	now       func() time.Time
	baseCtx   context.Context
	cfg       Config
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics exposes m on /metrics and instruments every route.
// Pass the same m to engine.WithObserver to record refresh events.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithClock replaces time.Now for date presets and export timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New creates a server and subscribes its websocket hub to refreshes.
func New(refresher *engine.Refresher, cfg Config, opts ...Option) *Server {
	s := &Server{
		refresher: refresher,
		cfg:       cfg,
		logger:    slog.Default(),
		validate:  validator.New(),
		now:       time.Now,
		baseCtx:   context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	s.logger = s.logger.With("component", "server")
	s.hub = NewHub(s.logger, s.checkOrigin)

	refresher.OnRefresh(func(d *engine.Dataset) {
		s.hub.Broadcast(newSummaryEvent(d, model.FilterCriteria{}))
	})
	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(s.cfg.AllowedOrigins, "*") {
		return true
	}
	return slices.Contains(s.cfg.AllowedOrigins, origin)
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Get("/summary", s.handleSummary)
			r.Get("/table", s.handleTable)
			r.Get("/trend", s.handleTrend)
			r.Get("/locations", s.handleLocations)
			r.Get("/locations/{location}", s.handleLocation)
			r.Get("/statuses", s.handleStatuses)
			r.Get("/columns", s.handleColumns)
			r.Post("/refresh", s.handleRefresh)
		})
		r.Get("/export.csv", s.handleExportCSV)
		r.Get("/export.xlsx", s.handleExportXLSX)
		r.Get("/ws", s.handleWS)
	})

	return r
}

// Serve listens on the configured address and runs the refresher, the
// websocket hub and the HTTP server until ctx is done or one of them fails.
func (s *Server) Serve(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	s.baseCtx = ctx

	scheme := "http"
	if s.cfg.TLS != nil {
		ln = tls.NewListener(ln, s.cfg.TLS)
		scheme = "https"
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g.Go(func() error {
		return s.hub.Run(ctx)
	})
	g.Go(func() error {
		return s.refresher.Run(ctx, s.cfg.RefreshInterval)
	})
	g.Go(func() error {
		s.logger.Info("Listening", "addr", ln.Addr().String(), "scheme", scheme)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		s.logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
