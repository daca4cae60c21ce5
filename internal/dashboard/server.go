// Package dashboard serves a read-only view of the import table: the row
// count and the most recent records.
//
// Routes:
//
//	GET /         → HTML page that polls /update
//	GET /update   → {"count": N, "latest": [...]} as JSON
//	GET /healthz  → liveness
//	GET /metrics  → Prometheus exposition of the dashboard's own collectors
package dashboard

import (
	"context"
	_ "embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dbimport/internal/storage"
)

// Defaults for Config.
const (
	DefaultRecentLimit  = 10
	DefaultPollInterval = 5 * time.Second
)

// Summarizer is the read side of storage.Repository.
type Summarizer interface {
	Summary(ctx context.Context, limit int) (storage.Summary, error)
}

// Config controls server startup.
type Config struct {
	Addr         string
	RecentLimit  int
	PollInterval time.Duration
}

// Server is the dashboard HTTP server.
type Server struct {
	cfg    Config
	src    Summarizer
	logger *slog.Logger
	router *chi.Mux
	tmpl   *template.Template
	server *http.Server

	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewServer constructs a Server with routes, middleware and the embedded
// page template.
func NewServer(cfg Config, src Summarizer, logger *slog.Logger) *Server {
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = DefaultRecentLimit
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	s := &Server{
		cfg:      cfg,
		src:      src,
		logger:   logger.With("component", "dashboard"),
		router:   chi.NewRouter(),
		tmpl:     template.Must(template.New("index").Parse(indexHTML)),
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dbimport_dashboard_requests_total",
			Help: "Dashboard HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dbimport_dashboard_summary_seconds",
			Help:    "Latency of the store summary query.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
	}
	s.registry.MustRegister(
		s.requests,
		s.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(reverseProxied)
	s.router.Use(middleware.StripSlashes)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/update", s.handleUpdate)
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks serving cfg.Addr until Shutdown is called, in which
// case it returns http.ErrServerClosed.
func (s *Server) ListenAndServe() error {
	s.server = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.logger.Info("dashboard listening", "addr", s.cfg.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

//go:embed index.tmpl.html
var indexHTML string
