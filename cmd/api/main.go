// Package main is the entry point for the places API server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/onnwee/places/internal/api"
	"github.com/onnwee/places/internal/config"
	"github.com/onnwee/places/internal/db"
	"github.com/onnwee/places/internal/health"
	"github.com/onnwee/places/internal/middleware"
	"github.com/onnwee/places/internal/place"
	"github.com/onnwee/places/internal/tracing"
	"github.com/onnwee/places/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

const serviceName = "places-api"

func main() {
	help := flag.Bool("help", false, "display help message")
	configFile := flag.String("config", "", "optional YAML config file; environment variables take precedence")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	flag.Parse()

	if *help {
		fmt.Println("Places API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// A missing .env is normal outside local development.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", *envFile, err)
		os.Exit(1)
	}

	cfg, errs := config.Load(*configFile)
	if cfg == nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", errs)
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	if len(errs) > 0 {
		for _, err := range errs {
			logger.Error("invalid configuration", "error", err)
		}
		os.Exit(1)
	}
	logger.Info("configuration loaded", "config", cfg.LogSummary())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		stop()
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// run serves until ctx is cancelled, then shuts the server down gracefully.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	tp, err := tracing.NewProvider(tracing.Config{
		ServiceName:  serviceName,
		Enabled:      cfg.TracingEnabled,
		Environment:  cfg.Env,
		ExporterType: cfg.TracingExporter,
		OTLPEndpoint: cfg.TracingEndpoint,
		SamplingRate: cfg.TracingSampleRate,
		InsecureMode: cfg.TracingInsecure,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("tracing shutdown failed", "error", err)
		}
	}()

	healthCfg := api.HealthHandlersConfig{}

	repo, conn, err := newRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if conn != nil {
		defer conn.Close()
		healthCfg.DBChecker = health.NewDBChecker(conn)
	}

	store, redisClient, err := newRateLimitStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		healthCfg.RedisChecker = health.NewRedisChecker(redisClient)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics()
	if err := metrics.Register(reg); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	handler := api.NewRouter(api.RouterConfig{
		Places:         api.NewPlaceHandlers(usecase.NewPlaces(repo, logger)),
		Health:         api.NewHealthHandlers(healthCfg),
		Logger:         logger,
		Metrics:        metrics,
		Gatherer:       reg,
		CORS:           middleware.DefaultCORSConfig(cfg.AllowedOrigins()...),
		ServiceName:    serviceName,
		RateLimitStore: store,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimitRequests,
			WindowDuration:    cfg.RateLimitWindow,
		},
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// newRepository opens Postgres and applies pending migrations when a
// database URL is configured. Otherwise it falls back to the in-memory
// repository, which config validation forbids in production.
func newRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (place.Repository, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory repository")
		return place.NewInMemoryRepository(), nil, nil
	}

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	applied, err := db.Migrate(ctx, conn, db.Up, 0)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	if len(applied) > 0 {
		logger.Info("database migrated", "versions", applied)
	}

	return place.NewPostgresRepository(conn), conn, nil
}

// newRateLimitStore uses Redis when configured so limits hold across
// replicas, and a per-process store otherwise.
func newRateLimitStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (middleware.RateLimitStore, *redis.Client, error) {
	if cfg.RedisURL == "" {
		store := middleware.NewInMemoryRateLimitStore()
		go cleanupLoop(ctx, store, cfg.RateLimitWindow)
		return store, nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		// Rate limiting fails open, so an unavailable Redis is not fatal.
		logger.Warn("redis unreachable at startup", "error", err)
	}

	return middleware.NewRedisRateLimitStore(client), client, nil
}

func cleanupLoop(ctx context.Context, store *middleware.InMemoryRateLimitStore, window time.Duration) {
	ticker := time.NewTicker(5 * window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			store.Cleanup()
		}
	}
}
