// Package ratetable holds date-indexed exchange rate tables and the row and
// column operations applied to them.
package ratetable

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for table indexes.
const DateLayout = "2006-01-02"

var (
	// ErrColumnNotFound is returned when a requested column is absent.
	ErrColumnNotFound = errors.New("column not found")
	// ErrDuplicateDate is returned when two rows share a date.
	ErrDuplicateDate = errors.New("duplicate date in table index")
	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrRowWidth is returned when a row does not have one value per column.
	ErrRowWidth = errors.New("row width does not match columns")
	// ErrInvalidRowCount is returned for row counts that are not finite numbers.
	ErrInvalidRowCount = errors.New("invalid row count")
)

// Row is a single dated observation. Values line up with the table columns;
// an invalid NullDecimal is a missing rate.
type Row struct {
	Date   time.Time
	Values []decimal.NullDecimal
}

// Table is an immutable date-ordered rate table. Dates are strictly increasing.
// Operations return new tables and never modify the receiver.
type Table struct {
	columns []string
	rows    []Row
}

// Empty returns a table without columns or rows.
func Empty() *Table {
	return &Table{}
}

// New builds a table, sorting rows by date. It rejects duplicate dates,
// duplicate column names and rows whose width differs from the columns.
func New(columns []string, rows []Row) (*Table, error) {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, c)
		}
		seen[c] = struct{}{}
	}

	sorted := make([]Row, len(rows))
	for i, r := range rows {
		if len(r.Values) != len(columns) {
			return nil, fmt.Errorf("%w: row %s has %d values, want %d",
				ErrRowWidth, r.Date.Format(DateLayout), len(r.Values), len(columns))
		}
		sorted[i] = Row{Date: Day(r.Date), Values: r.Values}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Date.Equal(sorted[i-1].Date) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDate, sorted[i].Date.Format(DateLayout))
		}
	}

	return &Table{columns: slices.Clone(columns), rows: sorted}, nil
}

// Day truncates t to a UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Rows returns the rows in date order. Row values must not be modified.
func (t *Table) Rows() []Row {
	return slices.Clone(t.rows)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return len(t.rows) == 0
}

// MinDate returns the earliest date in the table.
func (t *Table) MinDate() (time.Time, bool) {
	if len(t.rows) == 0 {
		return time.Time{}, false
	}
	return t.rows[0].Date, true
}

// MaxDate returns the latest date in the table.
func (t *Table) MaxDate() (time.Time, bool) {
	if len(t.rows) == 0 {
		return time.Time{}, false
	}
	return t.rows[len(t.rows)-1].Date, true
}

func (t *Table) withRows(rows []Row) *Table {
	return &Table{columns: t.columns, rows: rows}
}

// Head returns the first n rows. A negative n returns all rows except the last |n|.
func (t *Table) Head(n int) *Table {
	total := len(t.rows)
	end := n
	if n < 0 {
		end = total + n
	}
	end = min(max(end, 0), total)
	return t.withRows(t.rows[:end:end])
}

// Tail returns the last n rows. A negative n returns all rows except the first |n|.
func (t *Table) Tail(n int) *Table {
	total := len(t.rows)
	start := total - n
	if n < 0 {
		start = total
		if n >= -total {
			start = -n
		}
	}
	start = min(max(start, 0), total)
	return t.withRows(t.rows[start:])
}

// From returns rows dated on or after from.
func (t *Table) From(from time.Time) *Table {
	return t.withRows(t.rows[t.lowerBound(Day(from)):])
}

// Until returns rows dated on or before to.
func (t *Table) Until(to time.Time) *Table {
	end := t.upperBound(Day(to))
	return t.withRows(t.rows[:end:end])
}

// Between returns rows dated within [from, to]. It is empty when from is after to.
func (t *Table) Between(from, to time.Time) *Table {
	start, end := t.lowerBound(Day(from)), t.upperBound(Day(to))
	if start >= end {
		return t.withRows(nil)
	}
	return t.withRows(t.rows[start:end:end])
}

// lowerBound is the index of the first row dated on or after d.
func (t *Table) lowerBound(d time.Time) int {
	return sort.Search(len(t.rows), func(i int) bool {
		return !t.rows[i].Date.Before(d)
	})
}

// upperBound is the index of the first row dated after d.
func (t *Table) upperBound(d time.Time) int {
	return sort.Search(len(t.rows), func(i int) bool {
		return t.rows[i].Date.After(d)
	})
}

// Select restricts the table to the named columns in the given order.
// Selection is atomic: if any column is missing, no table is returned and
// the error wraps ErrColumnNotFound and names every missing column.
func (t *Table) Select(columns []string) (*Table, error) {
	index := make(map[string]int, len(t.columns))
	for i, c := range t.columns {
		index[c] = i
	}

	positions := make([]int, len(columns))
	var missing []string
	for i, c := range columns {
		pos, ok := index[c]
		if !ok {
			missing = append(missing, c)
			continue
		}
		positions[i] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, strings.Join(missing, ", "))
	}

	rows := make([]Row, len(t.rows))
	for i, r := range t.rows {
		values := make([]decimal.NullDecimal, len(positions))
		for j, pos := range positions {
			values[j] = r.Values[pos]
		}
		rows[i] = Row{Date: r.Date, Values: values}
	}
	return &Table{columns: slices.Clone(columns), rows: rows}, nil
}

// Equal reports whether both tables have the same columns, dates and values.
func (t *Table) Equal(other *Table) bool {
	if other == nil || !slices.Equal(t.columns, other.columns) || len(t.rows) != len(other.rows) {
		return false
	}
	for i, r := range t.rows {
		o := other.rows[i]
		if !r.Date.Equal(o.Date) {
			return false
		}
		for j, v := range r.Values {
			w := o.Values[j]
			if v.Valid != w.Valid || (v.Valid && !v.Decimal.Equal(w.Decimal)) {
				return false
			}
		}
	}
	return true
}

// RowCount converts a numeric head or tail count to a row count, truncating
// toward negative infinity. Counts beyond the int range are clamped.
func RowCount(n float64) (int, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRowCount, n)
	}
	f := math.Floor(n)
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt, nil
	case f <= math.MinInt64:
		return math.MinInt, nil
	}
	return int(f), nil
}
