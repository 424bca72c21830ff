package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fxreader/internal/api"
	"fxreader/internal/api/middleware"
	"fxreader/internal/lookup"
	"fxreader/internal/service"
)

// handlers collects the services behind the HTTP routes. recent and warm
// are nil when the query log or the task queue is disabled.
type handlers struct {
	rates   service.RateFetcher
	lister  lookup.Lister
	support api.SourceSupport
	recent  api.RecentQueryLister
	warm    api.WarmEnqueuer
}

func (app *App) initHTTP(h handlers) {
	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RequestLoggingMiddleware(app.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/rates", api.HandleGetRates(h.rates))
	r.Get("/sources", api.HandleListSources(h.lister, h.support))
	if h.warm != nil {
		r.Post("/sources/warm", api.HandleWarmSource(h.warm, h.support))
	}
	if h.recent != nil {
		r.Get("/queries/recent", api.HandleRecentQueries(h.recent))
	}
	r.Get("/healthz", api.HandleHealthz())
	r.Get("/readyz", api.HandleReadyz(app.db, app.rdbCache, app.rdbAsynq))

	if app.cfg.Server.ServeMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	if app.cfg.Server.ServeSwagger {
		r.Get("/swagger/*", api.SwaggerUIHandler())
		r.Get("/openapi.json", api.OpenAPISpecHandler())
	}

	if app.cfg.Server.ServeAsynqmon && app.cfg.Redis.AsynqAddr != "" {
		mon := asynqmon.New(asynqmon.Options{
			RootPath:     "/monitoring",
			RedisConnOpt: asynq.RedisClientOpt{Addr: app.cfg.Redis.AsynqAddr},
		})
		r.Handle(mon.RootPath()+"/*", mon)
	}

	app.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
