// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/artemiscap/dashboard-api/internal/config"
	"github.com/artemiscap/dashboard-api/internal/core"
	"github.com/artemiscap/dashboard-api/internal/credential"
	"github.com/artemiscap/dashboard-api/internal/health"
	"github.com/artemiscap/dashboard-api/internal/kpi"
	"github.com/artemiscap/dashboard-api/internal/middleware"
	"github.com/artemiscap/dashboard-api/internal/ratelimit"
	"github.com/artemiscap/dashboard-api/internal/records"
	"github.com/artemiscap/dashboard-api/internal/server"
	"github.com/artemiscap/dashboard-api/migrations"

	"github.com/go-chi/chi/v5"
)

const drainDelay = 2 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting",
		"app", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	if cfg.Database.Migrate {
		if err := core.MigrateUp(db.DB, migrations.FS); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	// Redis is optional. Without it, budgets are tracked per process,
	// which is fine for a single-instance deployment.
	var rdb *core.Redis
	var limitStore ratelimit.Store
	if cfg.Redis.URL != "" {
		rdb, err = core.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("init redis: %w", err)
		}
		limitStore = ratelimit.NewRedisStore(rdb.Client)
	} else {
		logger.Info("redis not configured, using in-memory rate limits")
		limitStore = ratelimit.NewMemoryStore()
	}

	credentialRepo := credential.NewRepository(db.DB)
	credentialService := credential.NewService(credentialRepo)
	credentialHandler := credential.NewHandler(credentialService)

	gateway := records.NewRepository(db.DB)
	aggregator := kpi.New(gateway, nil)
	recordsService := records.NewService(gateway, aggregator)
	recordsHandler := records.NewHandler(recordsService)

	checkers := map[string]health.Checker{"database": db}
	if rdb != nil {
		checkers["redis"] = rdb
	}
	healthHandler := health.NewHandler(checkers)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	authenticator := middleware.Authenticator(
		credentialService,
		cfg.Auth.CredentialHeader,
	)
	authLimit := budgetMiddleware("auth:", cfg.RateLimit.Auth, limitStore, cfg)
	readLimit := budgetMiddleware("read:", cfg.RateLimit.Read, limitStore, cfg)
	writeLimit := budgetMiddleware("write:", cfg.RateLimit.Write, limitStore, cfg)

	router := srv.Router()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimit)
			credentialHandler.RegisterRoutes(r)
		})

		recordsHandler.RegisterRoutes(r, authenticator, readLimit, writeLimit)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown failed", "error", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis close failed", "error", err)
		}
	}

	if err := db.Close(); err != nil {
		logger.Error("database close failed", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func budgetMiddleware(
	prefix string,
	budget config.RateBudget,
	store ratelimit.Store,
	cfg *config.Config,
) func(http.Handler) http.Handler {
	return middleware.RateLimit(middleware.RateLimitConfig{
		Limit:     ratelimit.PerWindow(budget.Requests, budget.Burst, budget.Window),
		Store:     store,
		KeyPrefix: prefix,
		FailOpen:  cfg.RateLimit.FailOpen,
	})
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
