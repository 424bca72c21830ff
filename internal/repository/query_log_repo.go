package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// QueryLogEntry is one recorded rate query.
type QueryLogEntry struct {
	ID         string
	Source     string
	Provider   string
	Kind       string
	Pairs      string
	Filter     string
	StatusCode int
	Message    string
	Rows       int
	Columns    int
	Duration   time.Duration
	Error      *string
	CreatedAt  time.Time
}

// QueryLogRepository defines DB operations for the query log.
type QueryLogRepository interface {
	Record(ctx context.Context, e *QueryLogEntry) error
	ListRecent(ctx context.Context, limit int) ([]QueryLogEntry, error)
}

// PostgresQueryLogRepository is an implementation of QueryLogRepository using PostgreSQL.
type PostgresQueryLogRepository struct {
	db *sql.DB
}

var _ QueryLogRepository = (*PostgresQueryLogRepository)(nil)

// NewPostgresQueryLogRepository creates a new PostgresQueryLogRepository.
func NewPostgresQueryLogRepository(db *sql.DB) *PostgresQueryLogRepository {
	return &PostgresQueryLogRepository{db: db}
}

var queryLogColumns = []string{
	"id", "source", "provider", "kind", "pairs", "filter", "status_code",
	"message", "row_count", "col_count", "duration_ms", "error", "created_at",
}

func insertQuery(e *QueryLogEntry) (string, []any, error) {
	return psql.Insert("query_log").
		Columns(queryLogColumns...).
		Values(e.ID, e.Source, e.Provider, e.Kind, e.Pairs, e.Filter, e.StatusCode,
			e.Message, e.Rows, e.Columns, e.Duration.Milliseconds(), e.Error, e.CreatedAt).
		ToSql()
}

func listRecentQuery(limit int) (string, []any, error) {
	return psql.Select(queryLogColumns...).
		From("query_log").
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		ToSql()
}

// Record inserts a query log entry.
func (r *PostgresQueryLogRepository) Record(ctx context.Context, e *QueryLogEntry) error {
	query, args, err := insertQuery(e)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert query log entry: %w", err)
	}
	return nil
}

// ListRecent returns up to limit entries, newest first.
func (r *PostgresQueryLogRepository) ListRecent(ctx context.Context, limit int) ([]QueryLogEntry, error) {
	if limit <= 0 {
		return []QueryLogEntry{}, nil
	}

	query, args, err := listRecentQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query log select: %w", err)
	}
	defer rows.Close() //nolint:errcheck // rows.Err is checked below

	entries := []QueryLogEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query log rows: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (QueryLogEntry, error) {
	var e QueryLogEntry
	var durationMs int64
	var errMsg sql.NullString

	err := rows.Scan(&e.ID, &e.Source, &e.Provider, &e.Kind, &e.Pairs, &e.Filter, &e.StatusCode,
		&e.Message, &e.Rows, &e.Columns, &durationMs, &errMsg, &e.CreatedAt)
	if err != nil {
		return QueryLogEntry{}, fmt.Errorf("scan query log entry: %w", err)
	}

	e.Duration = time.Duration(durationMs) * time.Millisecond
	if errMsg.Valid {
		e.Error = &errMsg.String
	}
	return e, nil
}
