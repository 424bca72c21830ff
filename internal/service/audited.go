package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fxreader/internal/repository"
)

// AuditedRateQuery records every query it runs in the query log.
// Recording failures are logged and never change the result.
type AuditedRateQuery struct {
	next RateFetcher
	repo repository.QueryLogRepository
	log  *zap.SugaredLogger
	now  func() time.Time
}

var _ RateFetcher = (*AuditedRateQuery)(nil)

// NewAuditedRateQuery wraps next with query logging.
func NewAuditedRateQuery(next RateFetcher, repo repository.QueryLogRepository, logger *zap.SugaredLogger) *AuditedRateQuery {
	return &AuditedRateQuery{next: next, repo: repo, log: logger, now: time.Now}
}

// FetchRates runs the wrapped query and records its outcome.
func (a *AuditedRateQuery) FetchRates(ctx context.Context, p QueryParams) *QueryResult {
	start := a.now()
	res := a.next.FetchRates(ctx, p)

	entry := &repository.QueryLogEntry{
		ID:         uuid.New().String(),
		Source:     p.Source,
		Provider:   p.Provider,
		Kind:       p.Kind,
		Pairs:      p.Pairs.String(),
		Filter:     string(res.Filter),
		StatusCode: res.Status.Code(),
		Message:    res.Message,
		Rows:       res.Table.Len(),
		Columns:    res.Table.ColumnCount(),
		Duration:   a.now().Sub(start),
		CreatedAt:  start.UTC(),
	}
	if res.Err != nil {
		msg := res.Err.Error()
		entry.Error = &msg
	}

	if err := a.repo.Record(ctx, entry); err != nil {
		a.log.Warnw("Failed to record query", "query_id", entry.ID, "error", err)
	}
	return res
}

// RecentQueries returns the newest recorded queries.
func (a *AuditedRateQuery) RecentQueries(ctx context.Context, limit int) ([]repository.QueryLogEntry, error) {
	return a.repo.ListRecent(ctx, limit)
}
