package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/onnwee/places/internal/middleware"
	"github.com/onnwee/places/internal/place"
	"github.com/onnwee/places/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
)

func TestRouter_HealthEndpoints(t *testing.T) {
	router := newTestRouter(t, place.NewInMemoryRepository())

	for _, path := range []string{"/health", "/ready"} {
		t.Run(path, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, path, "")
			if w.Code != http.StatusOK {
				t.Errorf("expected 200, got %d", w.Code)
			}
		})
	}
}

func TestRouter_Fallbacks(t *testing.T) {
	router := newTestRouter(t, place.NewInMemoryRepository())

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
		wantErr  string
	}{
		{"unknown route", http.MethodGet, "/unknown", http.StatusNotFound, ErrCodeNotFound},
		{"unsupported method", http.MethodPut, "/places/abc", http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, tt.method, tt.path, "")
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, w.Code)
			}
			if e := decodeError(t, w); e.Code != tt.wantErr {
				t.Errorf("expected code %s, got %s", tt.wantErr, e.Code)
			}
		})
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	router := newTestRouter(t, place.NewInMemoryRepository())

	req := httptest.NewRequest(http.MethodGet, "/places", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get(middleware.RequestIDHeader); got != "req-123" {
		t.Errorf("expected request id echoed, got %q", got)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics()
	if err := metrics.Register(reg); err != nil {
		t.Fatalf("failed to register metrics: %v", err)
	}

	router := NewRouter(RouterConfig{
		Places:   NewPlaceHandlers(usecase.NewPlaces(place.NewInMemoryRepository(), discardLogger)),
		Logger:   discardLogger,
		Metrics:  metrics,
		Gatherer: reg,
	})

	doRequest(t, router, http.MethodGet, "/places", "")

	w := doRequest(t, router, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, middleware.MetricHTTPRequestsTotal) {
		t.Errorf("expected %s in exposition, got:\n%s", middleware.MetricHTTPRequestsTotal, body)
	}
	if !strings.Contains(body, `path="/places"`) {
		t.Errorf("expected normalized /places path label, got:\n%s", body)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	router := NewRouter(RouterConfig{
		Places:         NewPlaceHandlers(usecase.NewPlaces(place.NewInMemoryRepository(), discardLogger)),
		Health:         NewHealthHandlers(HealthHandlersConfig{}),
		Logger:         discardLogger,
		Gatherer:       prometheus.NewRegistry(),
		RateLimitStore: middleware.NewInMemoryRateLimitStore(),
		RateLimit:      middleware.RateLimitConfig{RequestsPerWindow: 2, WindowDuration: time.Minute},
	})

	for i := 0; i < 2; i++ {
		if w := doRequest(t, router, http.MethodGet, "/places", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	w := doRequest(t, router, http.MethodGet, "/places", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if e := decodeError(t, w); e.Code != ErrCodeRateLimited {
		t.Errorf("expected code %s, got %s", ErrCodeRateLimited, e.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	// Probes are not rate limited.
	if w := doRequest(t, router, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Errorf("expected /health 200 while limited, got %d", w.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := NewRouter(RouterConfig{
		Places:   NewPlaceHandlers(usecase.NewPlaces(place.NewInMemoryRepository(), discardLogger)),
		Logger:   discardLogger,
		Gatherer: prometheus.NewRegistry(),
		CORS:     middleware.DefaultCORSConfig("http://localhost:3000"),
	})

	tests := []struct {
		name       string
		origin     string
		wantOrigin string
	}{
		{"allowed origin", "http://localhost:3000", "http://localhost:3000"},
		{"other origin", "https://evil.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/places", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if tt.wantOrigin != "" && w.Header().Get("Access-Control-Allow-Credentials") != "true" {
				t.Error("expected credentials allowed")
			}
		})
	}
}
