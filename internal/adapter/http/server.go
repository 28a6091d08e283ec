package http

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/julienschmidt/httprouter"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/impact-atlas/internal/catalog"
	"github.com/couchcryptid/impact-atlas/internal/observability"
)

// Options configures the HTTP surface.
type Options struct {
	Addr string
	// CesiumToken is handed to the globe page.
	CesiumToken string
	// NASATokenConfigured is reported by the health probe.
	NASATokenConfigured bool
	// RateLimitRPS caps /api requests per second. Zero or less disables it.
	RateLimitRPS float64
}

// Server exposes the globe page, the catalog API, and health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	craters    *catalog.CraterCatalog
	meteorites *catalog.MeteoriteCatalog
	index      *template.Template
	opts       Options
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer wires every route onto an httprouter and wraps it with request
// logging and gzip compression.
func NewServer(
	opts Options,
	craters *catalog.CraterCatalog,
	meteorites *catalog.MeteoriteCatalog,
	ready sharedobs.ReadinessChecker,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Server {
	s := &Server{
		craters:    craters,
		meteorites: meteorites,
		index:      indexTemplate,
		opts:       opts,
		logger:     logger,
		metrics:    metrics,
	}

	limit := newRateLimiter(opts.RateLimitRPS, metrics)
	router := httprouter.New()

	router.HandlerFunc(http.MethodGet, "/", s.handleIndex)

	router.Handler(http.MethodGet, "/api/craters", limit(http.HandlerFunc(s.handleCraters)))
	router.Handler(http.MethodPost, "/api/craters/filter", limit(http.HandlerFunc(s.handleCraterFilter)))
	router.Handler(http.MethodGet, "/api/craters/facets", limit(http.HandlerFunc(s.handleCraterFacets)))
	router.Handler(http.MethodPost, "/api/meteorites/filter", limit(http.HandlerFunc(s.handleMeteoriteFilter)))
	router.Handler(http.MethodGet, "/api/meteorites/clusters", limit(http.HandlerFunc(s.handleMeteoriteClusters)))
	router.Handler(http.MethodGet, "/api/meteorites/facets", limit(http.HandlerFunc(s.handleMeteoriteFacets)))
	router.HandlerFunc(http.MethodGet, "/api/health", s.handleHealth)

	router.HandlerFunc(http.MethodGet, "/healthz", sharedobs.LivenessHandler())
	router.HandlerFunc(http.MethodGet, "/readyz", sharedobs.ReadinessHandler(ready))
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      requestLogger(logger, gzhttp.GzipHandler(router)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
