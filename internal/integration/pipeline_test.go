//go:build integration

package integration

import (
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fxreader/internal/lookup"
	"fxreader/internal/metrics"
	"fxreader/internal/provider"
	"fxreader/internal/repository"
	"fxreader/internal/service"
)

func ptr[T any](v T) *T { return &v }

func newPipeline(t *testing.T, db *sql.DB, cache *redis.Client, location string) *service.AuditedRateQuery {
	t.Helper()
	logger := zap.NewNop().Sugar()
	rq := service.NewRateQuery(
		lookup.NewCSVLookup(lookupFile(t, location)),
		provider.NewCachedTableFetcher(provider.NewHTTPTableFetcher(5, "fxreader-test"), cache, time.Hour, logger),
		nil,
		metrics.New(prometheus.NewRegistry()),
		logger,
	)
	return service.NewAuditedRateQuery(rq, repository.NewPostgresQueryLogRepository(db), logger)
}

func bocParams() service.QueryParams {
	return service.QueryParams{Source: "googleSheets", Provider: "BoC", Kind: "spot", Pairs: service.AllPairs()}
}

func TestPipeline_TailWithPairs(t *testing.T) {
	db, cache := resetTestData(t)
	ctx := testContext(t)

	srv, _ := sheetServer(t, bocCSV)
	q := newPipeline(t, db, cache, srv.URL)

	p := bocParams()
	p.TailRows = ptr(2.0)
	p.Pairs = service.SpecificPairs("AUD/CAD", "inr-cad")
	res := q.FetchRates(ctx, p)

	// Separators are stripped but case is kept, so "inrcad" is absent.
	if res.Status != service.StatusPairsNotFound {
		t.Fatalf("expected PairsNotFound, got %s (%v)", res.Status, res.Err)
	}

	p.Pairs = service.SpecificPairs("AUD/CAD", "INR-CAD")
	res = q.FetchRates(ctx, p)
	if res.Status != service.StatusSuccess {
		t.Fatalf("expected Success, got %s (%v)", res.Status, res.Err)
	}
	if got := res.Table.Columns(); len(got) != 2 || got[0] != "AUDCAD" || got[1] != "INRCAD" {
		t.Fatalf("unexpected columns %v", got)
	}
	if res.Table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", res.Table.Len())
	}

	entries, err := q.RecentQueries(ctx, 10)
	if err != nil {
		t.Fatalf("RecentQueries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 recorded queries, got %d", len(entries))
	}
	var codes []int
	for _, e := range entries {
		codes = append(codes, e.StatusCode)
		if e.Filter != string(service.FilterTailRows) {
			t.Fatalf("expected filter %s, got %s", service.FilterTailRows, e.Filter)
		}
	}
	if !(contains(codes, 1) && contains(codes, 2)) {
		t.Fatalf("expected status codes 1 and 2, got %v", codes)
	}
}

func TestPipeline_DateRange(t *testing.T) {
	db, cache := resetTestData(t)
	ctx := testContext(t)

	srv, _ := sheetServer(t, bocCSV)
	q := newPipeline(t, db, cache, srv.URL)

	p := bocParams()
	p.StartDate = ptr("2024-01-03")
	p.EndDate = ptr("2024-01-05")
	res := q.FetchRates(ctx, p)

	if res.Status != service.StatusSuccess {
		t.Fatalf("expected Success, got %s (%v)", res.Status, res.Err)
	}
	if res.Table.Len() != 3 || res.Table.ColumnCount() != 4 {
		t.Fatalf("expected 3x4 table, got %dx%d", res.Table.Len(), res.Table.ColumnCount())
	}
}

func TestPipeline_FailuresAreRecorded(t *testing.T) {
	db, cache := resetTestData(t)
	ctx := testContext(t)

	srv, hits := sheetServer(t, bocCSV)
	q := newPipeline(t, db, cache, srv.URL)

	bad := bocParams()
	bad.StartDate = ptr("2024/01/03")
	if res := q.FetchRates(ctx, bad); res.Status != service.StatusInvalidDateFormat {
		t.Fatalf("expected InvalidDateFormat, got %s", res.Status)
	}

	if res := q.FetchRates(ctx, bocParams()); res.Status != service.StatusInsufficientConditions {
		t.Fatalf("expected InsufficientConditions, got %s", res.Status)
	}

	if n := hits.Load(); n > 1 {
		t.Fatalf("expected at most one upstream request, got %d", n)
	}

	entries, err := q.RecentQueries(ctx, 10)
	if err != nil {
		t.Fatalf("RecentQueries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 recorded queries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Rows != 0 || e.Columns != 0 {
			t.Fatalf("failed query recorded a non-empty table: %+v", e)
		}
		if e.Error == nil {
			t.Fatalf("failed query recorded without error: %+v", e)
		}
	}
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
