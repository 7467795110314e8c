package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/docfold-labs/docfold/internal/api"
	"github.com/docfold-labs/docfold/internal/auth"
	"github.com/docfold-labs/docfold/internal/config"
	"github.com/docfold-labs/docfold/internal/ingestion"
	"github.com/docfold-labs/docfold/internal/store"
	minioclient "github.com/docfold-labs/docfold/internal/store/minio"
	"github.com/docfold-labs/docfold/internal/store/postgres"
	vk "github.com/docfold-labs/docfold/internal/store/valkey"
)

func main() {
	_ = godotenv.Load() // ignore error if .env missing

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database pool
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if cfg.Database.MigrationsPath != "" {
		if err := runMigrations(pool, cfg.Database.MigrationsPath); err != nil {
			logger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	s := store.New(pool)

	deps := &api.RouterDeps{}

	// Ingestion engine; the scheduler runs simulated jobs in-process.
	sched := ingestion.NewScheduler(s, logger, cfg.Ingestion.StartDelay, cfg.Ingestion.ProcessDelay)
	deps.Engine = ingestion.NewEngine(s, sched, logger)

	// MinIO is optional; without it uploads/downloads are disabled.
	mc, err := minioclient.NewClient(cfg.MinIO)
	if err != nil {
		logger.Warn("minio connection failed, uploads disabled", slog.String("error", err.Error()))
	} else if err := mc.EnsureBucket(ctx); err != nil {
		logger.Warn("minio bucket check failed, uploads disabled", slog.String("error", err.Error()))
	} else {
		deps.MinIO = mc
		logger.Info("connected to minio")
	}

	// Valkey is optional; without it refresh tokens and password resets are disabled.
	vkClient, err := vk.NewClient(cfg.Valkey)
	if err != nil {
		logger.Warn("valkey connection failed, refresh tokens disabled", slog.String("error", err.Error()))
	} else {
		deps.Sessions = auth.NewSessionStore(vkClient, cfg.Auth.RefreshTTL, cfg.Auth.ResetTTL)
		defer vkClient.Close()
		logger.Info("connected to valkey")
	}

	// Auth
	deps.AuthEnabled = cfg.Auth.Enabled
	if cfg.Auth.Secret != "" {
		deps.Tokens = auth.NewTokens(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.AccessTTL)
	}
	if cfg.Auth.Enabled {
		logger.Info("auth enabled", slog.String("issuer", cfg.Auth.Issuer))
	}

	router := api.NewRouter(logger, s, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting API server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

// runMigrations opens a database/sql handle from the pool and applies any
// pending migrations from the configured path.
func runMigrations(pool *pgxpool.Pool, path string) error {
	db := stdlib.OpenDBFromPool(pool)

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration up failed: %w", err)
	}

	return nil
}
