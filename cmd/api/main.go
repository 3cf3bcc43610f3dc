// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Wayfare HTTP server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables (and .env).
//  3. Connect to PostgreSQL (pgxpool).
//  4. Run database migrations (idempotent).
//  5. Connect to Redis when a session cache is configured.
//  6. Build the blob store (disk or S3).
//  7. Wire sessions, accounts, memories and pages.
//  8. Start HTTP server with graceful shutdown.
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

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/wayfare/internal/api"
	"github.com/taibuivan/wayfare/internal/memories"
	"github.com/taibuivan/wayfare/internal/platform/blob"
	"github.com/taibuivan/wayfare/internal/platform/config"
	"github.com/taibuivan/wayfare/internal/platform/constants"
	"github.com/taibuivan/wayfare/internal/platform/migration"
	pgstore "github.com/taibuivan/wayfare/internal/platform/postgres"
	redisstore "github.com/taibuivan/wayfare/internal/platform/redis"
	"github.com/taibuivan/wayfare/internal/users/auth"
	"github.com/taibuivan/wayfare/internal/users/session"
	"github.com/taibuivan/wayfare/internal/web"
)

// mediaURLPrefix is where disk-backed blobs are served.
const mediaURLPrefix = "/media"

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("blob_backend", cfg.BlobBackend),
		slog.Bool("session_cache", cfg.RedisURL != ""),
	)

	// Cancelled on SIGINT/SIGTERM; stops background work such as the sweeper.
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Misconfiguration should fail fast rather than hang.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, log), "run migrations")

	// ── 5. Sessions (optionally cached in Redis) ──────────────────────────
	var sessionRepository session.Repository = session.NewPostgresRepository(pool)
	var rdb *goredis.Client

	if cfg.RedisURL != "" {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		sessionRepository = session.NewCachedRepository(sessionRepository, rdb, cfg.SessionCacheTTL, log)
	}

	sessionManager := session.NewManager(sessionRepository, cfg.IsProduction(), log)

	if cfg.SessionSweepInterval > 0 {
		go session.NewSweeper(sessionRepository, cfg.SessionSweepInterval, log).Run(rootCtx)
	}

	// ── 6. Blob Store ─────────────────────────────────────────────────────
	blobStore, media, err := newBlobStore(startupCtx, cfg)
	must(log, err, "initialize blob store")

	// ── 7. Health handlers ────────────────────────────────────────────────
	health := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
	}
	if rdb != nil {
		health.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	}
	liveness, readiness := api.NewHealthHandlers(health, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(auth.NewUserRepository(pool), sessionManager)
	memoryService := memories.NewService(memories.NewPostgresRepository(pool), blobStore)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, sessionManager),
		Memories:  memories.NewHandler(memoryService, sessionManager, cfg.MaxUploadBytes),
		Pages:     web.NewHandler(),
		Media:     media,
	}

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(cfg, log, sessionManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case <-rootCtx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// newLogger builds the JSON root logger tagged with the application name.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// newBlobStore selects the configured backend. The returned handler serves
// disk blobs and is nil for S3.
func newBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, http.Handler, error) {
	if cfg.BlobBackend == config.BlobBackendS3 {
		options := blob.S3Options{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicURL:       cfg.S3PublicURL,
		}
		client, err := blob.NewS3Client(ctx, options)
		if err != nil {
			return nil, nil, err
		}
		return blob.NewS3Store(client, options), nil, nil
	}

	store, err := blob.NewDiskStore(cfg.BlobDir, mediaURLPrefix)
	if err != nil {
		return nil, nil, err
	}
	return store, http.FileServerFS(store.Files()), nil
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
