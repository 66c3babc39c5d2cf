package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/juju/clock"
	"github.com/riandyrn/otelchi"

	_ "modernc.org/sqlite" // Register SQLite driver for otelsql.

	"github.com/neomorfeo/busops/internal/adapter/fsm"
	oteladapter "github.com/neomorfeo/busops/internal/adapter/otel"
	riveradapter "github.com/neomorfeo/busops/internal/adapter/river"
	"github.com/neomorfeo/busops/internal/adapter/sqlite"
	"github.com/neomorfeo/busops/internal/app"
	"github.com/neomorfeo/busops/internal/config"
	"github.com/neomorfeo/busops/internal/domain"

	handler "github.com/neomorfeo/busops/internal/adapter/http"
)

const (
	serviceName    = "busops"
	serviceVersion = "0.1.0"
)

func main() {
	if err := run(); err != nil {
		slog.Error("busops failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Observability ---
	providers, err := oteladapter.Setup(ctx, oteladapter.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Error("otel shutdown", "error", err)
		}
	}()

	// --- Adapters (out) ---
	db, err := oteladapter.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	store, err := sqlite.NewFromDB(db)
	if err != nil {
		db.Close()
		return fmt.Errorf("database: %w", err)
	}
	defer store.Close()

	clk := clock.WallClock

	// --- Application ---
	inbox := app.NewNotificationCenter(
		oteladapter.NewTracingStore[domain.Notification]("notifications", store.Notifications()),
		clk, logger)
	routes := app.NewRouteRegistry(
		oteladapter.NewTracingStore[domain.Route]("routes", store.Routes()),
		clk, loc, logger)
	scheduler := app.NewRouteStatusScheduler(routes, clk, cfg.Scheduler.Interval, logger)

	riverCfg := riveradapter.Config{Logger: logger}
	if cfg.Scheduler.Mode == config.SchedulerRiver {
		riverCfg.StatusTicker = scheduler
		riverCfg.StatusInterval = scheduler.Interval()
	}
	riverClient, err := riveradapter.Setup(ctx, db, riverCfg)
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}
	publisher := oteladapter.NewTracingPublisher(riveradapter.NewPublisher(riverClient))

	tenants := app.NewTenantRegistry(
		oteladapter.NewTracingStore[domain.Tenant]("tenants", store.Tenants()),
		inbox, fsm.New(), publisher, clk, logger)

	if err := inbox.Load(ctx); err != nil {
		return err
	}
	if err := tenants.Load(ctx); err != nil {
		return err
	}
	if err := routes.Load(ctx); err != nil {
		return err
	}

	// River stops through Stop below; cancelling its start context would
	// abandon running jobs.
	if err := riverClient.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("river start: %w", err)
	}

	var wg sync.WaitGroup
	if cfg.Scheduler.Mode == config.SchedulerInProcess {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := scheduler.Run(ctx); err != nil {
				logger.Error("route status scheduler", "error", err)
			}
		}()
	}

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig(serviceName, serviceVersion))
	handler.Register(api, handler.Services{
		Tenants:       tenants,
		Notifications: inbox,
		Routes:        routes,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("busops listening",
			"port", cfg.Server.Port,
			"docs", fmt.Sprintf("http://localhost:%d/docs", cfg.Server.Port),
			"scheduler", cfg.Scheduler.Mode,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		runErr = fmt.Errorf("server: %w", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if err := riverClient.Stop(shutdownCtx); err != nil {
		logger.Error("river shutdown", "error", err)
	}
	wg.Wait()

	logger.Info("stopped")
	return runErr
}
