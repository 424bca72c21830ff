//go:build integration

package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"fxreader/internal/testkit"
)

const bocCSV = "date,USDCAD,EURCAD,AUDCAD,INRCAD\n" +
	"2024-01-02,1.3316,1.4580,0.9012,0.01601\n" +
	"2024-01-03,1.3366,1.4601,0.8987,0.01605\n" +
	"2024-01-04,1.3341,1.4615,0.8995,0.01603\n" +
	"2024-01-05,1.3377,1.4632,0.8970,0.01607\n" +
	"2024-01-08,1.3361,1.4629,0.8961,0.01606\n"

// resetTestData empties the query log and the table cache and returns both handles.
func resetTestData(t *testing.T) (*sql.DB, *redis.Client) {
	t.Helper()
	suite := testkit.Global()
	suite.Reset(t)
	return suite.DB(), suite.Cache()
}

// testContext returns a context with a 30-second deadline tied to the test's cleanup.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// sheetServer serves body as a published sheet and counts the requests it receives.
func sheetServer(t *testing.T, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

// lookupFile writes a lookup table pointing googleSheets/BoC/spot at location.
func lookupFile(t *testing.T, location string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.csv")
	content := fmt.Sprintf("database,provider,type,csvLink\ngoogleSheets,BoC,spot,%s\n", location)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write lookup table: %v", err)
	}
	return path
}
