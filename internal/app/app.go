// Package app wires configuration, storage, services, the HTTP surface,
// and the background workers into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	"github.com/opencivil/registry-backend/internal/adapter/countryconfig"
	"github.com/opencivil/registry-backend/internal/adapter/filestore"
	"github.com/opencivil/registry-backend/internal/adapter/postgres"
	draftrepo "github.com/opencivil/registry-backend/internal/adapter/postgres/draft"
	eventrepo "github.com/opencivil/registry-backend/internal/adapter/postgres/event"
	"github.com/opencivil/registry-backend/internal/adapter/postgres/gcqueue"
	locationrepo "github.com/opencivil/registry-backend/internal/adapter/postgres/location"
	"github.com/opencivil/registry-backend/internal/auth"
	"github.com/opencivil/registry-backend/internal/cleanup"
	"github.com/opencivil/registry-backend/internal/config"
	"github.com/opencivil/registry-backend/internal/metrics"
	"github.com/opencivil/registry-backend/internal/service/draft"
	"github.com/opencivil/registry-backend/internal/service/event"
	"github.com/opencivil/registry-backend/internal/service/location"
	"github.com/opencivil/registry-backend/internal/transport/rest"
	"github.com/opencivil/registry-backend/migrations"
)

// Run is the application entry point. It loads configuration, connects to
// the database, applies migrations, wires services, and runs the HTTP
// server and the cleanup worker until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	if err := migrations.Up(ctx, db); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("close migration connection: %w", err)
	}

	// Adapters.
	txManager := postgres.NewTxManager(pool)
	events := eventrepo.New(pool)
	drafts := draftrepo.New(pool)
	locations := locationrepo.New(pool)
	gcQueue := gcqueue.New(pool)

	configs := countryconfig.NewClient(
		cfg.CountryConfig.BaseURL,
		cfg.CountryConfig.Timeout,
		cfg.CountryConfig.CacheTTL,
		logger,
	)
	files := filestore.NewClient(
		cfg.FileStore.BaseURL,
		cfg.FileStore.Timeout,
		cfg.FileStore.RetryMaxElapse,
		logger,
	)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	m := metrics.New()

	// Services.
	eventService := event.NewService(logger, events, drafts, gcQueue, configs, txManager)
	draftService := draft.NewService(logger, drafts, events, gcQueue, files, txManager)
	locationService := location.NewService(logger, locations, txManager)

	// Background cleanup.
	worker := cleanup.NewWorker(logger, gcQueue, files, m, cfg.Cleanup)
	scheduler, err := worker.Schedule(ctx)
	if err != nil {
		return err
	}

	router := rest.NewRouter(rest.RouterDeps{
		Logger:    logger,
		Events:    eventService,
		Drafts:    draftService,
		Locations: locationService,
		Validator: jwtManager,
		DB:        pool,
		Metrics:   m,
		CORS:      cfg.CORS,
		Version:   BuildVersion(),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		scheduler.Start()
		<-gctx.Done()
		stopCtx := scheduler.Stop()
		select {
		case <-stopCtx.Done():
		case <-time.After(cfg.Server.ShutdownTimeout):
			logger.Warn("cleanup worker did not stop in time")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}
