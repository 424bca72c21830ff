package ratetable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrEmptyCSV is returned when a CSV document has no header row.
var ErrEmptyCSV = errors.New("csv document has no header")

// Index layouts accepted when reading published spreadsheets.
var indexLayouts = []string{DateLayout, "2006/01/02", "1/2/2006"}

var missingMarkers = map[string]struct{}{
	"":     {},
	"nan":  {},
	"na":   {},
	"n/a":  {},
	"#n/a": {},
	"null": {},
}

// ParseISODate parses a strict YYYY-MM-DD calendar date.
func ParseISODate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func parseIndexDate(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range indexLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func parseCell(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if _, ok := missingMarkers[strings.ToLower(s)]; ok {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// ParseCSV reads a table whose first column is the date index and whose
// remaining columns are currency pairs. Rows with an empty date cell and
// columns with a blank header are skipped.
func ParseCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	// Sheet exports pad the header with blank cells; those columns carry no pair.
	var (
		columns []string
		fields  []int
	)
	for i, h := range header[1:] {
		if h = strings.TrimSpace(h); h != "" {
			columns = append(columns, h)
			fields = append(fields, i+1)
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}

		dateCell := strings.TrimSpace(rec[0])
		if dateCell == "" {
			continue
		}
		date, err := parseIndexDate(dateCell)
		if err != nil {
			return nil, fmt.Errorf("parse index date %q: %w", dateCell, err)
		}

		values := make([]decimal.NullDecimal, len(columns))
		for i, field := range fields {
			v, err := parseCell(rec[field])
			if err != nil {
				return nil, fmt.Errorf("parse %s on %s: %w", columns[i], dateCell, err)
			}
			values[i] = v
		}
		rows = append(rows, Row{Date: date, Values: values})
	}

	return New(columns, rows)
}

// WriteCSV writes the table in the layout read by ParseCSV.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(t.columns)+1)
	header = append(header, "date")
	header = append(header, t.columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(header))
	for _, r := range t.rows {
		record[0] = r.Date.Format(DateLayout)
		for i, v := range r.Values {
			record[i+1] = ""
			if v.Valid {
				record[i+1] = v.Decimal.String()
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
