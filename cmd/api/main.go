package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mrmps/SMRY-sub004/internal/adapter/diffbot_client"
	"github.com/mrmps/SMRY-sub004/internal/adapter/postgres"
	"github.com/mrmps/SMRY-sub004/internal/adapter/readability_extractor"
	redis_adapter "github.com/mrmps/SMRY-sub004/internal/adapter/redis"
	"github.com/mrmps/SMRY-sub004/internal/delivery/http/handler"
	"github.com/mrmps/SMRY-sub004/internal/delivery/http/router"
	"github.com/mrmps/SMRY-sub004/internal/repository"
	"github.com/mrmps/SMRY-sub004/internal/usecase"
	"github.com/mrmps/SMRY-sub004/pkg/config"
	"github.com/mrmps/SMRY-sub004/pkg/logger"
	"github.com/mrmps/SMRY-sub004/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// --- Logger ---
	logLevel := logger.ParseLevel(cfg.LogLevel)
	logger.Init(os.Stdout, logLevel)
	slog.Info("Logger initialized", "level", logLevel.String())

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	// --- Error reporting ---
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			slog.Error("Failed to initialize Sentry", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
			slog.Info("Sentry initialized")
		}
	}

	ctx := context.Background()

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		// The cache degrades to fetch-every-time; keep serving.
		slog.Warn("Redis is not reachable at startup", "error", err)
	} else {
		slog.Info("Redis connection established")
	}

	// --- Repositories ---
	cacheRepo, err := redis_adapter.NewArticleCacheRepo(rdb, cfg.CacheTTL())
	if err != nil {
		slog.Error("Failed to create article cache", "error", err)
		os.Exit(1)
	}
	checks := map[string]handler.Pinger{"redis": cacheRepo}

	var archiveRepo repository.PageArchiveRepository
	if cfg.PostgresURL != "" {
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			slog.Error("Unable to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbpool.Close()

		pageRepo := postgres.NewPageHTMLRepo(dbpool)
		if err := pageRepo.EnsureSchema(ctx); err != nil {
			slog.Warn("Page HTML archival disabled", "error", err)
		} else {
			archiveRepo = pageRepo
			checks["postgres"] = pageRepo
			slog.Info("PostgreSQL connection pool established")
		}
	}

	// --- Extractors ---
	direct := readability_extractor.NewExtractor(readability_extractor.Options{
		Timeout:      cfg.FetchTimeout(),
		MaxBodyBytes: cfg.MaxBodyBytes,
		UserAgent:    cfg.UserAgent,
	})
	provider := diffbot_client.NewClient(diffbot_client.Config{
		BaseURL: cfg.ProviderBaseURL,
		Token:   cfg.ProviderToken,
		Timeout: cfg.ProviderTimeout(),
	})
	if cfg.ProviderToken == "" {
		slog.Warn("PROVIDER_TOKEN is empty; provider-backed sources will fail")
	}

	// --- Use Cases ---
	sourceRouter := usecase.NewSourceRouter(direct, provider, cfg.ArchivePrefix)
	resolver := usecase.NewArticleResolver(cacheRepo, sourceRouter, archiveRepo, cfg.HTMLArchiveTimeout())

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(resolver, checks)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     httpRouter,
		ReadTimeout: 5 * time.Second,
		// Provider calls may take up to their own timeout before we respond.
		WriteTimeout: cfg.ProviderTimeout() + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
		os.Exit(1)
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	resolver.Wait()
	slog.Info("Server stopped")
}
