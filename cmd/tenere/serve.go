package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tenere/fuellog/internal/config"
	"github.com/tenere/fuellog/internal/extract"
	"github.com/tenere/fuellog/internal/handler"
	"github.com/tenere/fuellog/internal/metrics"
	"github.com/tenere/fuellog/internal/middleware"
	"github.com/tenere/fuellog/internal/repo"
	"github.com/tenere/fuellog/internal/service"
	"github.com/tenere/fuellog/openapi"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API until SIGINT or SIGTERM.

With STORE_DRIVER=postgres (the default) pending migrations are applied
before the server starts accepting traffic.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// --- Logger -----------------------------------------------------------
	logger := newLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// --- Store ------------------------------------------------------------
	fuelings, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Service ----------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	svc := service.NewFuelingService(fuelings, extract.NewParser(cfg.Location), metrics.New(reg), logger)

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, logger, handler.NewServer(svc), reg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "store", cfg.StoreDriver, "timezone", cfg.Location.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-stop:
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// openStore opens the fueling store selected by STORE_DRIVER. The returned
// func releases it.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (repo.FuelingRepo, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverBolt:
		store, err := repo.OpenBoltStore(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("bolt store opened", "path", cfg.BoltPath)
		return store, func() { _ = store.Close() }, nil

	default:
		if _, err := migratePostgres(ctx, cfg.DatabaseURL, logger); err != nil {
			return nil, nil, err
		}

		// New() does not open connections immediately; the first query does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create database pool: %w", err)
		}
		// Verify the DB is reachable before accepting traffic.
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		logger.Info("database connection established")
		return repo.NewFuelingRepo(pool), pool.Close, nil
	}
}

// newRouter mounts the API, the OpenAPI document and the metrics endpoint
// behind the middleware stack.
//
// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer →
// CORS → MaxBodySize. RealIP trusts X-Forwarded-For, so run behind a proxy
// that sets it.
func newRouter(cfg config.Config, logger *slog.Logger, api *handler.Server, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	api.Routes(r)
	r.Get("/openapi.yaml", openapi.Serve)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}
