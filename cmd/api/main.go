// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

// Command api is the entry point for the PageTalk HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis (sessions + thread snapshots).
//  4. Wire the review backend gateway and catalog client.
//  5. Wire HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/minhvule/pagetalk/internal/api"
	"github.com/minhvule/pagetalk/internal/auth"
	"github.com/minhvule/pagetalk/internal/backend"
	"github.com/minhvule/pagetalk/internal/catalog"
	"github.com/minhvule/pagetalk/internal/platform/config"
	"github.com/minhvule/pagetalk/internal/platform/constants"
	redisstore "github.com/minhvule/pagetalk/internal/platform/redis"
	"github.com/minhvule/pagetalk/internal/session"
	"github.com/minhvule/pagetalk/internal/thread"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[PageTalk] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("review_api", cfg.ReviewAPIURL),
		slog.String("catalog_api", cfg.CatalogAPIURL),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Upstream Gateways ──────────────────────────────────────────────
	sessions := session.NewRedisStore(rdb, cfg.SessionTTL)
	gateway := backend.NewClient(cfg.ReviewAPIURL, cfg.UpstreamTimeout, sessions, log)
	catalogClient := catalog.NewOpenLibraryClient(cfg.CatalogAPIURL, cfg.UpstreamTimeout, log)

	// ── 5. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckSessionStore: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckBackend: func() error {
			return gateway.Ping(context.Background())
		},
	}, log)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	snapshots := thread.NewRedisSnapshotStore(rdb)
	assembler := thread.NewAssembler(gateway, snapshots, log)
	threadService := thread.NewService(gateway, assembler, snapshots, sessions, log)
	threadHandler := thread.NewHandler(threadService)

	catalogService := catalog.NewService(catalogClient, sessions)
	catalogHandler := catalog.NewHandler(catalogService)

	authService := auth.NewService(gateway, sessions, log)
	authHandler := auth.NewHandler(authService)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Catalog:   catalogHandler,
		Thread:    threadHandler,
	}

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	server := api.NewServer(appCtx, cfg, log, sessions, handlers)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
