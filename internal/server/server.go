// Package server exposes a loaded dataset over HTTP.
//
// Stateless endpoints answer table, ranking and scale queries directly from
// the shared store. Sessions each own a dashboard coordinator and replay
// hover, search and paging events against it; every event of one session
// runs under that session's mutex.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/citylink/pkg/dashboard"
	"github.com/matzehuels/citylink/pkg/pipeline"
	"github.com/matzehuels/citylink/pkg/record"
	"github.com/matzehuels/citylink/pkg/scale"
)

// Default values.
const (
	DefaultAddr        = ":8080"
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 1000
	shutdownTimeout    = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr        string            `toml:"addr"`
	SessionTTL  time.Duration     `toml:"session_ttl"`
	MaxSessions int               `toml:"max_sessions"`
	Dashboard   dashboard.Options `toml:"-"`
}

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	if c.MaxSessions == 0 {
		c.MaxSessions = DefaultMaxSessions
	}
	c.Dashboard.SetDefaults()
}

// Server serves one dataset.
type Server struct {
	cfg      Config
	store    *record.Store
	hash     string
	registry *scale.Registry
	runner   *pipeline.Runner
	metrics  *Metrics
	sessions *sessions
	logger   *log.Logger
}

// New returns a server for store. runner renders /dashboard.* and may
// carry a cache; metrics may be nil to disable /metrics.
func New(store *record.Store, cfg Config, runner *pipeline.Runner, metrics *Metrics, logger *log.Logger) (*Server, error) {
	cfg.SetDefaults()
	if err := cfg.Dashboard.Validate(); err != nil {
		return nil, err
	}
	reg, err := scale.NewRegistry(cfg.Dashboard.Scales)
	if err != nil {
		return nil, err
	}
	// Build once so later calls from sessions only read the cached set.
	reg.Build(store)

	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}

	s := &Server{
		cfg:      cfg,
		store:    store,
		hash:     pipeline.DatasetHash(store),
		registry: reg,
		runner:   runner,
		metrics:  metrics,
		sessions: newSessions(cfg.SessionTTL, cfg.MaxSessions),
		logger:   logger,
	}
	if metrics != nil {
		s.sessions.onChange = func(n int) { metrics.sessions.Set(float64(n)) }
	}
	return s, nil
}

// Handler returns the HTTP handler with every route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/dashboard.{format}", s.handleDashboard)
	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/records", s.handleRecords)
		r.Get("/top", s.handleTop)
		r.Get("/scales", s.handleScales)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/highlight", s.handleHighlight)
			r.Delete("/highlight", s.handleClearHighlight)
			r.Put("/query", s.handleQuery)
			r.Put("/page", s.handlePage)
			r.Post("/next", s.handleNext)
			r.Post("/prev", s.handlePrev)
		})
	})
	return r
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "rows", s.store.Len())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
