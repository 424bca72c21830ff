// Package lookup resolves (database, provider, type) triples to the location
// of the published rate table.
package lookup

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
)

//go:embed sources.csv
var defaultTable []byte

var (
	// ErrNotFound is returned when no entry matches a source key.
	ErrNotFound = errors.New("source not found in lookup table")
	// ErrMalformedTable is returned when the lookup table lacks a required column.
	ErrMalformedTable = errors.New("malformed lookup table")
	// ErrInvalidKey is returned by ParseSourceKey for malformed keys.
	ErrInvalidKey = errors.New("invalid source key")
)

// SourceKey identifies a rate table by where it is stored, who publishes it
// and which kind of rate it holds.
type SourceKey struct {
	Database string
	Provider string
	Kind     string
}

// DefaultSource is the Bank of Canada spot table published as a Google Sheet.
var DefaultSource = SourceKey{Database: "googleSheets", Provider: "BoC", Kind: "spot"}

func (k SourceKey) String() string {
	return k.Database + "/" + k.Provider + "/" + k.Kind
}

// Normalize folds case and trims whitespace so that keys compare
// independently of how callers spell identifiers.
func (k SourceKey) Normalize() SourceKey {
	fold := cases.Fold()
	norm := func(s string) string {
		return fold.String(strings.TrimSpace(s))
	}
	return SourceKey{Database: norm(k.Database), Provider: norm(k.Provider), Kind: norm(k.Kind)}
}

// Matches reports whether both keys identify the same source.
func (k SourceKey) Matches(other SourceKey) bool {
	return k.Normalize() == other.Normalize()
}

// ParseSourceKey parses "database/provider/type".
func ParseSourceKey(s string) (SourceKey, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return SourceKey{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return SourceKey{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
		}
	}
	return SourceKey{
		Database: strings.TrimSpace(parts[0]),
		Provider: strings.TrimSpace(parts[1]),
		Kind:     strings.TrimSpace(parts[2]),
	}, nil
}

// Entry is one row of the lookup table.
type Entry struct {
	Key      SourceKey `json:"-"`
	Location string    `json:"csv_link"`
}

// Lookup resolves a source key to a fetch location.
type Lookup interface {
	Resolve(ctx context.Context, key SourceKey) (string, error)
}

// Lister exposes every known lookup entry.
type Lister interface {
	Entries(ctx context.Context) ([]Entry, error)
}

// CSVLookup reads a CSV lookup table with the columns database, provider,
// type and csvLink. The table is read on every call.
type CSVLookup struct {
	path string
}

var (
	_ Lookup = (*CSVLookup)(nil)
	_ Lister = (*CSVLookup)(nil)
)

// NewCSVLookup creates a lookup backed by the file at path, or by the
// embedded default table when path is empty.
func NewCSVLookup(path string) *CSVLookup {
	return &CSVLookup{path: path}
}

// Resolve returns the location of the first entry matching key.
func (l *CSVLookup) Resolve(ctx context.Context, key SourceKey) (string, error) {
	entries, err := l.Entries(ctx)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Key.Matches(key) && e.Location != "" {
			return e.Location, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, key)
}

// Entries reads the whole lookup table.
func (l *CSVLookup) Entries(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.path == "" {
		return ReadEntries(bytes.NewReader(defaultTable))
	}

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open lookup table: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	return ReadEntries(f)
}

// ReadEntries parses a lookup table. Column order is free; extra columns are ignored.
func ReadEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrMalformedTable, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	var missing []string
	for _, name := range []string{"database", "provider", "type", "csvLink"} {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrMalformedTable, strings.Join(missing, ", "))
	}

	var entries []Entry
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedTable, err)
		}
		entries = append(entries, Entry{
			Key: SourceKey{
				Database: strings.TrimSpace(rec[cols["database"]]),
				Provider: strings.TrimSpace(rec[cols["provider"]]),
				Kind:     strings.TrimSpace(rec[cols["type"]]),
			},
			Location: strings.TrimSpace(rec[cols["csvLink"]]),
		})
	}
	return entries, nil
}
