package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"fxreader/internal/ratetable"
)

var _ TableFetcher = (*HTTPTableFetcher)(nil)

// ErrUnsupportedLocation is returned for locations that are neither http(s) URLs nor local files.
var ErrUnsupportedLocation = errors.New("unsupported table location")

const maxErrorBody = 512

// HTTPTableFetcher downloads published CSV tables such as Google Sheets "publish to web" exports.
// Locations with a file scheme or without a scheme are read from the local filesystem.
type HTTPTableFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPTableFetcher creates a new HTTPTableFetcher.
func NewHTTPTableFetcher(timeoutSec int, userAgent string) *HTTPTableFetcher {
	return &HTTPTableFetcher{
		client:    &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		userAgent: userAgent,
	}
}

// FetchTable retrieves and parses the table published at location.
func (f *HTTPTableFetcher) FetchTable(ctx context.Context, location string) (*ratetable.Table, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parse table location: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		return f.fetchRemote(ctx, location)
	case "file":
		return fetchFile(ctx, u.Path)
	case "":
		return fetchFile(ctx, location)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocation, u.Scheme)
	}
}

func (f *HTTPTableFetcher) fetchRemote(ctx context.Context, location string) (*ratetable.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("table request creation failed: %w", err)
	}
	req.Header.Set("Accept", "text/csv")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("table request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("table source returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	tbl, err := ratetable.ParseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse table: %w", err)
	}
	return tbl, nil
}

func fetchFile(ctx context.Context, path string) (*ratetable.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table file: %w", err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	tbl, err := ratetable.ParseCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse table: %w", err)
	}
	return tbl, nil
}
