package testkit

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"fxreader/internal/config"
	"fxreader/internal/repository"
)

// PostgresModule is the query log database: a container, or an external DSN.
type PostgresModule struct {
	container testcontainers.Container
	dsn       string
}

// DSN returns the connection string for the query log database.
func (p *PostgresModule) DSN() string { return p.dsn }

// Terminate stops the container, if one was started.
func (p *PostgresModule) Terminate(ctx context.Context) error {
	if p.container == nil {
		return nil
	}
	return p.container.Terminate(ctx)
}

// StartPostgres starts a Postgres container, or uses cfg.PGDSN when set.
func StartPostgres(ctx context.Context, cfg *Config) (*PostgresModule, error) {
	if cfg.PGDSN != "" {
		return &PostgresModule{dsn: cfg.PGDSN}, nil
	}

	ctr, err := postgres.Run(ctx,
		cfg.PGImage,
		postgres.WithDatabase(queryLogDBName()),
		postgres.WithUsername("fxreader"),
		postgres.WithPassword("fxreader"),
		testcontainers.WithWaitStrategyAndDeadline(cfg.StartupTimeout,
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("get postgres connection string: %w", err)
	}
	return &PostgresModule{container: ctr, dsn: dsn}, nil
}

// OpenQueryLog connects the way the service does and applies the query log
// migrations.
func (p *PostgresModule) OpenQueryLog(ctx context.Context) (*sql.DB, error) {
	logger := zap.NewNop().Sugar()
	db, err := repository.NewPostgresDB(ctx, &config.DatabaseConfig{
		DSN:                p.dsn,
		MaxOpenConns:       4,
		MaxIdleConns:       2,
		ConnMaxLifetimeSec: 60,
		ConnectAttempts:    3,
	}, logger)
	if err != nil {
		return nil, err
	}
	if err := repository.RunMigrations(db, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate query log: %w", err)
	}
	return db, nil
}

// TruncateQueryLog removes every recorded query.
func TruncateQueryLog(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "TRUNCATE TABLE query_log"); err != nil {
		return fmt.Errorf("truncate query_log: %w", err)
	}
	return nil
}

// queryLogDBName returns a random name like "fxreader_a1b2c3d4".
func queryLogDBName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "fxreader_querylog"
	}
	return "fxreader_" + hex.EncodeToString(b)
}
