package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/onnwee/places/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds everything NewRouter wires together.
type RouterConfig struct {
	Places *PlaceHandlers
	Health *HealthHandlers
	Logger *slog.Logger

	// Metrics and Gatherer back HTTPMetrics and GET /metrics.
	Metrics  *middleware.Metrics
	Gatherer prometheus.Gatherer

	CORS        middleware.CORSConfig
	ServiceName string

	// RateLimitStore is optional; nil disables rate limiting.
	RateLimitStore middleware.RateLimitStore
	RateLimit      middleware.RateLimitConfig
}

// NewRouter builds the HTTP handler for the service.
//
// Middleware order, outermost first: RequestID, RealIP, Logging, Recoverer,
// Tracing, HTTPMetrics, CORS. Rate limiting applies to place routes only.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = middleware.NewMetrics()
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "places"
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.HTTPMetrics(metrics))
	r.Use(middleware.CORS(cfg.CORS))

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.Health)
		r.Get("/ready", cfg.Health.Ready)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	if cfg.Places != nil {
		r.Group(func(r chi.Router) {
			if cfg.RateLimitStore != nil {
				r.Use(middleware.RateLimiter(cfg.RateLimitStore, cfg.RateLimit, middleware.IPKeyFunc(), metrics))
			}
			r.Route("/places", placeRoutes(cfg.Places))
			// Portuguese alias of /places.
			r.Route("/locais", placeRoutes(cfg.Places))
		})
	}

	return r
}

func placeRoutes(h *PlaceHandlers) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", h.ListPlaces)
		r.Post("/", h.CreatePlace)
		r.Get("/{id}", h.GetPlace)
		r.Patch("/{id}", h.UpdatePlace)
		r.Delete("/{id}", h.DeletePlace)
	}
}
