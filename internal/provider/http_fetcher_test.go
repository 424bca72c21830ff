package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bocCSV = "date,USDCAD,EURCAD\n2024-01-03,1.3366,\n2024-01-02,1.3316,1.458\n"

func TestHTTPTableFetcher_FetchTable(t *testing.T) {
	t.Run("remote csv", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "fxreader-test", r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte(bocCSV))
		}))
		defer srv.Close()

		f := NewHTTPTableFetcher(5, "fxreader-test")
		tbl, err := f.FetchTable(context.Background(), srv.URL+"/pub?output=csv")
		require.NoError(t, err)
		assert.Equal(t, []string{"USDCAD", "EURCAD"}, tbl.Columns())
		assert.Equal(t, 2, tbl.Len())
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "sheet unpublished", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewHTTPTableFetcher(5, "").FetchTable(context.Background(), srv.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
		assert.Contains(t, err.Error(), "sheet unpublished")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("date,USDCAD\n<html>sign in</html>,1\n"))
		}))
		defer srv.Close()

		_, err := NewHTTPTableFetcher(5, "").FetchTable(context.Background(), srv.URL)
		assert.Error(t, err)
	})

	t.Run("local file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "boc.csv")
		require.NoError(t, os.WriteFile(path, []byte(bocCSV), 0o600))

		f := NewHTTPTableFetcher(5, "")
		for _, loc := range []string{path, "file://" + path} {
			tbl, err := f.FetchTable(context.Background(), loc)
			require.NoError(t, err, loc)
			assert.Equal(t, 2, tbl.Len())
		}
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := NewHTTPTableFetcher(5, "").FetchTable(context.Background(), "ftp://example.test/boc.csv")
		assert.ErrorIs(t, err, ErrUnsupportedLocation)
	})
}
