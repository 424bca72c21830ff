// Package service implements the rate query pipeline: date validation, source
// resolution, table fetch, row filtering and pair selection.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"fxreader/internal/lookup"
	"fxreader/internal/metrics"
	"fxreader/internal/provider"
	"fxreader/internal/ratetable"
)

var (
	// ErrUnsupportedSource is returned for source triples outside the configured set.
	ErrUnsupportedSource = errors.New("unsupported source")
	// ErrFetch wraps lookup and download failures.
	ErrFetch = errors.New("failed to fetch rate table")
)

// QueryResult is the outcome of a rate query. Table is never nil; it is empty
// whenever Status is not StatusSuccess. Err carries the failure reason for
// logging and is never needed to interpret the result.
type QueryResult struct {
	Table   *ratetable.Table
	Status  Status
	Message string
	Filter  RowFilter
	Err     error
}

func newResult(tbl *ratetable.Table, status Status, filter RowFilter, err error) *QueryResult {
	if tbl == nil || status != StatusSuccess {
		tbl = ratetable.Empty()
	}
	return &QueryResult{Table: tbl, Status: status, Message: status.Message(), Filter: filter, Err: err}
}

// RateFetcher runs rate queries.
type RateFetcher interface {
	FetchRates(ctx context.Context, p QueryParams) *QueryResult
}

// RateQuery resolves a source, fetches its table and applies exactly one row filter
// and an optional pair selection. Failures are reported through the result status.
type RateQuery struct {
	lookup    lookup.Lookup
	fetcher   provider.TableFetcher
	supported []lookup.SourceKey
	metrics   *metrics.Metrics
	log       *zap.SugaredLogger
}

var _ RateFetcher = (*RateQuery)(nil)

// NewRateQuery creates a new RateQuery. An empty supported list allows only lookup.DefaultSource.
func NewRateQuery(lk lookup.Lookup, fetcher provider.TableFetcher, supported []lookup.SourceKey, m *metrics.Metrics, logger *zap.SugaredLogger) *RateQuery {
	if len(supported) == 0 {
		supported = []lookup.SourceKey{lookup.DefaultSource}
	}
	return &RateQuery{
		lookup:    lk,
		fetcher:   fetcher,
		supported: slices.Clone(supported),
		metrics:   m,
		log:       logger,
	}
}

// Supports reports whether key is one of the configured sources.
func (q *RateQuery) Supports(key lookup.SourceKey) bool {
	return slices.ContainsFunc(q.supported, key.Matches)
}

// FetchRates runs the query pipeline.
func (q *RateQuery) FetchRates(ctx context.Context, p QueryParams) *QueryResult {
	q.log.Infow("Received rate query", p.logFields()...)

	res := q.run(ctx, p)
	q.metrics.ObserveQuery(res.Status.String(), string(res.Filter))
	q.log.Infow("Rate query finished",
		"status", res.Status.String(),
		"code", res.Status.Code(),
		"filter", res.Filter,
		"rows", res.Table.Len(),
		"columns", res.Table.ColumnCount(),
	)
	return res
}

func (q *RateQuery) run(ctx context.Context, p QueryParams) *QueryResult {
	if err := ValidateDates(p); err != nil {
		q.log.Warnw("Invalid date in query", "error", err)
		return newResult(nil, StatusInvalidDateFormat, FilterNone, err)
	}

	key := p.SourceKey()
	if !q.Supports(key) {
		err := fmt.Errorf("%w: %s", ErrUnsupportedSource, key)
		q.log.Warnw("Unsupported source combination", "source", key.String())
		return newResult(nil, StatusGenericError, FilterNone, err)
	}

	tbl, err := q.fetch(ctx, key)
	if err != nil {
		q.log.Errorw("Rate table fetch failed", "source", key.String(), "error", err)
		return newResult(nil, StatusGenericError, FilterNone, err)
	}

	filter := ResolveRowFilter(p)
	if filter == FilterNone {
		q.log.Warnw("No row filter in query", "source", key.String())
		return newResult(nil, StatusInsufficientConditions, filter, ErrNoRowFilter)
	}
	q.log.Infow("Applying row filter", "filter", filter)

	rows, err := SelectRows(tbl, filter, p)
	if err != nil {
		q.log.Errorw("Row filter failed", "filter", filter, "error", err)
		return newResult(nil, StatusGenericError, filter, err)
	}

	if p.Pairs.IsAll() {
		return newResult(rows, StatusSuccess, filter, nil)
	}

	selected, err := rows.Select(p.Pairs.Codes())
	if errors.Is(err, ratetable.ErrColumnNotFound) {
		q.log.Warnw("Currency pairs not found", "pairs", p.Pairs.String(), "error", err)
		return newResult(nil, StatusPairsNotFound, filter, err)
	}
	if err != nil {
		return newResult(nil, StatusGenericError, filter, err)
	}
	return newResult(selected, StatusSuccess, filter, nil)
}

func (q *RateQuery) fetch(ctx context.Context, key lookup.SourceKey) (*ratetable.Table, error) {
	location, err := q.lookup.Resolve(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %w", ErrFetch, key, err)
	}

	start := time.Now()
	tbl, err := q.fetcher.FetchTable(ctx, location)
	q.metrics.ObserveFetch(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if tbl == nil {
		return ratetable.Empty(), nil
	}
	return tbl, nil
}
