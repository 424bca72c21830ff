package service

import (
	"context"

	"fxreader/internal/lookup"
	"fxreader/internal/ratetable"
	"fxreader/internal/repository"
)

type mockLookup struct {
	resolveFunc func(ctx context.Context, key lookup.SourceKey) (string, error)
	calls       int
}

func (m *mockLookup) Resolve(ctx context.Context, key lookup.SourceKey) (string, error) {
	m.calls++
	return m.resolveFunc(ctx, key)
}

type mockFetcher struct {
	fetchFunc func(ctx context.Context, location string) (*ratetable.Table, error)
	calls     int
}

func (m *mockFetcher) FetchTable(ctx context.Context, location string) (*ratetable.Table, error) {
	m.calls++
	return m.fetchFunc(ctx, location)
}

type mockQueryLogRepo struct {
	recordFunc     func(ctx context.Context, e *repository.QueryLogEntry) error
	listRecentFunc func(ctx context.Context, limit int) ([]repository.QueryLogEntry, error)
}

func (m *mockQueryLogRepo) Record(ctx context.Context, e *repository.QueryLogEntry) error {
	return m.recordFunc(ctx, e)
}

func (m *mockQueryLogRepo) ListRecent(ctx context.Context, limit int) ([]repository.QueryLogEntry, error) {
	return m.listRecentFunc(ctx, limit)
}

type staticFetcher struct {
	result *QueryResult
}

func (s staticFetcher) FetchRates(context.Context, QueryParams) *QueryResult {
	return s.result
}
