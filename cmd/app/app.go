// Package main is the entry point for the FX rate reader service.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fxreader/internal/config"
	"fxreader/internal/lookup"
	"fxreader/internal/metrics"
	"fxreader/internal/provider"
	"fxreader/internal/repository"
	"fxreader/internal/service"
	"fxreader/internal/worker"
)

// App holds all application dependencies and manages their lifecycle.
// The query log database, the table cache and the task queue are optional.
type App struct {
	cfg         *config.Config
	logger      *zap.SugaredLogger
	db          *sql.DB
	rdbCache    *redis.Client
	rdbAsynq    *redis.Client
	asynqClient *asynq.Client
	asynqServer *asynq.Server
	asynqMux    *asynq.ServeMux
	httpServer  *http.Server
}

// NewApp initializes all dependencies and returns a ready-to-run App.
func NewApp(cfg *config.Config, logger *zap.SugaredLogger) (*App, error) {
	app := &App{
		cfg:    cfg,
		logger: logger,
	}

	if err := app.initStorage(); err != nil {
		_ = app.close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.close()
		return nil, err
	}

	return app, nil
}

// close releases database and Redis connections
func (app *App) close() error {
	var errs []error
	if app.asynqClient != nil {
		if err := app.asynqClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("asynq client close: %w", err))
		}
	}
	if app.rdbAsynq != nil {
		if err := app.rdbAsynq.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis asynq close: %w", err))
		}
	}
	if app.rdbCache != nil {
		if err := app.rdbCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis cache close: %w", err))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("db close: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (app *App) initStorage() error {
	if app.cfg.Database.Enabled {
		db, err := repository.NewPostgresDB(context.Background(), &app.cfg.Database, app.logger)
		if err != nil {
			return fmt.Errorf("connect to Postgres: %w", err)
		}
		app.db = db

		if err := repository.RunMigrations(app.db, app.logger); err != nil {
			return fmt.Errorf("run DB migrations: %w", err)
		}
	} else {
		app.logger.Infow("Query log disabled")
	}

	if addr := app.cfg.Redis.CacheAddr; addr != "" {
		app.rdbCache = redis.NewClient(&redis.Options{Addr: addr})
		if err := app.rdbCache.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("connect to Redis (cache, %s): %w", addr, err)
		}
		app.logger.Infow("Connected to Redis cache", "addr", addr)
	} else {
		app.logger.Infow("Table cache disabled")
	}

	return nil
}

func (app *App) initServices() error {
	supported, err := app.cfg.Sources.Keys()
	if err != nil {
		return fmt.Errorf("parse supported sources: %w", err)
	}

	sourceLookup := lookup.NewCSVLookup(app.cfg.Sources.LookupPath)
	tableFetcher := provider.NewCachedTableFetcher(
		provider.NewHTTPTableFetcher(app.cfg.Fetch.TimeoutSec, app.cfg.Fetch.UserAgent),
		app.rdbCache,
		time.Duration(app.cfg.Cache.TableTTLSec)*time.Second,
		app.logger,
	)
	rateQuery := service.NewRateQuery(
		sourceLookup,
		tableFetcher,
		supported,
		metrics.New(prometheus.DefaultRegisterer),
		app.logger,
	)

	h := handlers{
		rates:   rateQuery,
		lister:  sourceLookup,
		support: rateQuery,
	}

	if app.db != nil {
		audited := service.NewAuditedRateQuery(rateQuery, repository.NewPostgresQueryLogRepository(app.db), app.logger)
		h.rates = audited
		h.recent = audited
	}

	if addr := app.cfg.Redis.AsynqAddr; addr != "" {
		redisOpt := asynq.RedisClientOpt{Addr: addr}

		app.rdbAsynq = redis.NewClient(&redis.Options{Addr: addr})
		app.asynqClient = asynq.NewClient(redisOpt)
		app.asynqServer = asynq.NewServer(
			redisOpt,
			asynq.Config{Concurrency: app.cfg.Worker.Concurrency},
		)
		app.asynqMux = asynq.NewServeMux()
		app.asynqMux.HandleFunc(worker.TaskTypeWarmTable, worker.NewWarmTableHandler(sourceLookup, tableFetcher, app.logger))
		app.logger.Infow("Asynq configured", "addr", addr)

		h.warm = worker.NewAsynqEnqueuer(
			app.asynqClient,
			app.cfg.Worker.MaxRetry,
			time.Duration(app.cfg.Worker.TimeoutSec)*time.Second,
		)
	}

	app.initHTTP(h)
	return nil
}

// Run starts the HTTP server and, when configured, the Asynq worker,
// blocking until the context is canceled.
func (app *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if app.asynqServer != nil {
		g.Go(func() error {
			app.logger.Infow("Starting Asynq worker server")
			if err := app.asynqServer.Start(app.asynqMux); err != nil {
				return fmt.Errorf("asynq worker failed to start: %w", err)
			}

			<-ctx.Done()
			return nil
		})
	}

	g.Go(func() error {
		app.logger.Infow("HTTP server listening", "port", app.cfg.Server.Port)
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return app.shutdown()
	})

	return g.Wait()
}

// shutdown stops the HTTP server first, then drains the Asynq worker,
// then closes connections.
func (app *App) shutdown() error {
	app.logger.Infow("Shutting down server...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Errorw("HTTP server shutdown error", "error", err)
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	if app.asynqServer != nil {
		app.asynqServer.Shutdown()
	}

	if err := app.close(); err != nil {
		app.logger.Errorw("Connection cleanup errors", "error", err)
		errs = append(errs, err)
	}

	app.logger.Infow("Shutdown complete")
	return errors.Join(errs...)
}
