package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"smartretail/internal/api/health"
	"smartretail/internal/metrics"
	"smartretail/pkg/errors"
	"smartretail/pkg/logger"
)

// ServerConfig contains configuration for HTTP server
type ServerConfig struct {
	Port           int
	ServiceName    string
	Version        string
	RequestsPerSec float64
	RateBurst      int
}

// Handlers bundles the route handlers the server exposes
type Handlers struct {
	Pricing   *PricingHandler
	Recommend *RecommendHandler
	Trends    *TrendsHandler
	Health    *health.Handler
}

// Server wraps HTTP server with lifecycle management
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer creates and configures HTTP server with all routes
func NewServer(cfg ServerConfig, handlers Handlers, log *logger.Logger) *Server {
	mux := http.NewServeMux()

	// Pricing and recommendation endpoints
	mux.HandleFunc("/predict_price", handlers.Pricing.HandlePredict)
	mux.HandleFunc("/recommend_products", handlers.Recommend.HandleRecommend)

	// Trend endpoints
	mux.HandleFunc("/trends/colors", handlers.Trends.HandleColors)
	mux.HandleFunc("/trends/styles", handlers.Trends.HandleStyles)
	mux.HandleFunc("/trends/seasonal", handlers.Trends.HandleSeasonal)
	mux.HandleFunc("/trends/report", handlers.Trends.HandleReport)
	mux.HandleFunc("/trends/brands", handlers.Trends.HandleBrands)

	// Health check endpoints (Kubernetes probes)
	mux.HandleFunc("/healthz", handlers.Health.HandleHealth)
	mux.HandleFunc("/health", handlers.Health.HandleHealth)
	mux.HandleFunc("/ready", handlers.Health.HandleReadiness)
	mux.HandleFunc("/live", handlers.Health.HandleLiveness)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", metrics.Handler())

	// Root endpoint (service info)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"service":"%s","version":"%s","status":"running"}`,
			cfg.ServiceName, cfg.Version)
	})

	var handler http.Handler = mux
	if cfg.RequestsPerSec > 0 {
		limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.RateBurst)
		handler = withRateLimit(limiter, handler)
	}
	handler = withObservability(handler)

	port := 8080
	if cfg.Port > 0 {
		port = cfg.Port
	}

	log.Infof("HTTP server configured on port %d", port)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		log:        log,
	}
}

// Start begins listening for HTTP requests.
// Blocks until server is stopped or encounters an error.
func (s *Server) Start() error {
	s.log.Infof("Starting HTTP server on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "http server failed")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server.
// Waits for active connections to complete within timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Stopping HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "http server shutdown failed")
	}

	s.log.Info("HTTP server stopped")
	return nil
}
