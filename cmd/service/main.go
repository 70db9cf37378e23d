// Package main is the entry point for the blog service.
package main

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jsamuelsen/go-blog-service/internal/adapters/http"
	"github.com/jsamuelsen/go-blog-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/go-blog-service/internal/adapters/repository/memory"
	"github.com/jsamuelsen/go-blog-service/internal/adapters/repository/postgres"
	"github.com/jsamuelsen/go-blog-service/internal/app"
	"github.com/jsamuelsen/go-blog-service/internal/platform/config"
	"github.com/jsamuelsen/go-blog-service/internal/platform/logging"
	"github.com/jsamuelsen/go-blog-service/internal/platform/telemetry"
	"github.com/jsamuelsen/go-blog-service/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(cmp.Or(os.Getenv("APP_ENVIRONMENT"), "local"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("database", cfg.Database.Driver),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	store, err := openStore(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("store close error", slog.Any("error", closeErr))
		}
	}()

	healthRegistry := ports.NewHealthRegistry()

	if err := healthRegistry.Register(store); err != nil {
		return fmt.Errorf("registering store health check: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	postService, err := app.NewPostService(app.PostServiceConfig{
		Posts:      store,
		Identities: store,
		Registerer: registry,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("creating post service: %w", err)
	}

	if err := postService.EnsureIdentities(ctx, cfg.Blog.Authors); err != nil {
		return fmt.Errorf("registering authors: %w", err)
	}

	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	buildInfo.Store = cfg.Database.Driver
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo, registry)
	postHandler := handlers.NewPostHandler(postService)

	server := http.New(&cfg.Server, logger)

	routerCfg := http.NewDefaultRouterConfig(logger, &cfg.App, &cfg.Auth, healthHandler, postHandler)
	routerCfg.Timeout = cfg.Server.RequestTimeout
	http.SetupRouter(server.Engine(), routerCfg)

	serverErr, err := server.Start()
	if err != nil {
		return err
	}

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// openStore opens the store selected by the database driver. The postgres
// store is pinged within the connect timeout and optionally migrated.
func openStore(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (ports.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()

		store, err := postgres.Open(connectCtx, postgres.Config{
			DSN:             cfg.DSN,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}

		if cfg.AutoMigrate {
			if err := store.Migrate(connectCtx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("migrating postgres store: %w", err)
			}

			logger.Info("database schema ready")
		}

		return store, nil
	default:
		logger.Warn("using in-memory store, posts are lost on restart")

		return memory.New(), nil
	}
}

// waitForShutdown blocks until SIGINT or SIGTERM, or until the server
// stops on its own, then drains in-flight requests within shutdownTimeout.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-serverErr:
		if ok && err != nil {
			return err
		}

		logger.Warn("server stopped without a shutdown signal")

		return nil
	case <-sigCtx.Done():
		logger.Info("shutdown signal received", slog.Duration("timeout", shutdownTimeout))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
