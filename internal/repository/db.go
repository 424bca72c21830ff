// Package repository implements persistence for the rate query log.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"fxreader/internal/config"
)

// connectBackoff is the wait after the first failed attempt; it grows linearly.
var connectBackoff = time.Second

// NewPostgresDB opens the query log database through the pgx driver and pings
// it, retrying up to cfg.ConnectAttempts times while ctx allows.
func NewPostgresDB(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.SugaredLogger) (*sql.DB, error) {
	connCfg, err := pgx.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}
	connCfg.RuntimeParams["application_name"] = "fxreader"

	db := stdlib.OpenDB(*connCfg)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeSec) * time.Second)

	attempts := max(cfg.ConnectAttempts, 1)
	for i := 1; ; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			logger.Infow("Connected to query log database", "host", connCfg.Host, "database", connCfg.Database, "attempt", i)
			return db, nil
		}
		if i == attempts {
			break
		}

		wait := connectBackoff * time.Duration(i)
		logger.Warnw("Database ping failed, retrying", "attempt", i, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("connect to database: %w", ctx.Err())
		case <-time.After(wait):
		}
	}

	_ = db.Close()
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", attempts, err)
}
