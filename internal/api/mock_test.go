package api

import (
	"context"

	"fxreader/internal/lookup"
	"fxreader/internal/repository"
	"fxreader/internal/service"
	"fxreader/internal/worker"
)

// mockRateFetcher implements service.RateFetcher for testing.
type mockRateFetcher struct {
	fetchRatesFunc func(ctx context.Context, p service.QueryParams) *service.QueryResult
}

func (m *mockRateFetcher) FetchRates(ctx context.Context, p service.QueryParams) *service.QueryResult {
	return m.fetchRatesFunc(ctx, p)
}

type mockSupport struct {
	supported lookup.SourceKey
}

func (m mockSupport) Supports(key lookup.SourceKey) bool {
	return key.Matches(m.supported)
}

type mockLister struct {
	entries []lookup.Entry
	err     error
}

func (m mockLister) Entries(context.Context) ([]lookup.Entry, error) {
	return m.entries, m.err
}

type mockEnqueuer struct {
	enqueueFunc func(ctx context.Context, payload worker.WarmTablePayload) (string, error)
}

func (m *mockEnqueuer) EnqueueWarmTable(ctx context.Context, payload worker.WarmTablePayload) (string, error) {
	return m.enqueueFunc(ctx, payload)
}

type mockRecent struct {
	recentFunc func(ctx context.Context, limit int) ([]repository.QueryLogEntry, error)
}

func (m *mockRecent) RecentQueries(ctx context.Context, limit int) ([]repository.QueryLogEntry, error) {
	return m.recentFunc(ctx, limit)
}
