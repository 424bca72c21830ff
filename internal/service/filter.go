package service

import (
	"errors"
	"fmt"
	"time"

	"fxreader/internal/ratetable"
)

// RowFilter names the row-selection strategy applied to a query.
type RowFilter string

// Row filters in precedence order.
const (
	FilterNone      RowFilter = "none"
	FilterAllDates  RowFilter = "all_dates"
	FilterHeadRows  RowFilter = "head_rows"
	FilterTailRows  RowFilter = "tail_rows"
	FilterStartDate RowFilter = "start_date"
	FilterEndDate   RowFilter = "end_date"
	FilterDateRange RowFilter = "date_range"
)

var (
	// ErrNoRowFilter is returned when a query sets none of the row filters.
	ErrNoRowFilter = errors.New("no row filter given")
	// ErrInvalidDate is returned when a date bound is not a YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("invalid date")
)

type rowRule struct {
	filter  RowFilter
	matches func(QueryParams) bool
}

// rowRules is evaluated top to bottom; the first matching rule wins and
// every later rule is ignored.
var rowRules = []rowRule{
	{FilterAllDates, func(p QueryParams) bool { return p.AllDates }},
	{FilterHeadRows, func(p QueryParams) bool { return p.HeadRows != nil }},
	{FilterTailRows, func(p QueryParams) bool { return p.TailRows != nil }},
	{FilterStartDate, func(p QueryParams) bool { return p.StartDate != nil && p.EndDate == nil }},
	{FilterEndDate, func(p QueryParams) bool { return p.StartDate == nil && p.EndDate != nil }},
	{FilterDateRange, func(p QueryParams) bool { return p.StartDate != nil && p.EndDate != nil }},
}

// ResolveRowFilter returns the filter a query selects, or FilterNone.
func ResolveRowFilter(p QueryParams) RowFilter {
	for _, r := range rowRules {
		if r.matches(p) {
			return r.filter
		}
	}
	return FilterNone
}

// ValidateDates checks that the present date bounds are calendar dates.
func ValidateDates(p QueryParams) error {
	var errs []error
	bounds := []struct {
		name  string
		value *string
	}{{"start_date", p.StartDate}, {"end_date", p.EndDate}}
	for _, b := range bounds {
		if b.value == nil {
			continue
		}
		if _, err := ratetable.ParseISODate(*b.value); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidDate, b.name, *b.value))
		}
	}
	return errors.Join(errs...)
}

func parseBound(s *string) (time.Time, error) {
	t, err := ratetable.ParseISODate(*s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, *s)
	}
	return t, nil
}

// SelectRows applies filter to tbl.
func SelectRows(tbl *ratetable.Table, filter RowFilter, p QueryParams) (*ratetable.Table, error) {
	switch filter {
	case FilterAllDates:
		return tbl, nil
	case FilterHeadRows:
		n, err := ratetable.RowCount(*p.HeadRows)
		if err != nil {
			return nil, err
		}
		return tbl.Head(n), nil
	case FilterTailRows:
		n, err := ratetable.RowCount(*p.TailRows)
		if err != nil {
			return nil, err
		}
		return tbl.Tail(n), nil
	case FilterStartDate:
		from, err := parseBound(p.StartDate)
		if err != nil {
			return nil, err
		}
		return tbl.From(from), nil
	case FilterEndDate:
		to, err := parseBound(p.EndDate)
		if err != nil {
			return nil, err
		}
		return tbl.Until(to), nil
	case FilterDateRange:
		from, err := parseBound(p.StartDate)
		if err != nil {
			return nil, err
		}
		to, err := parseBound(p.EndDate)
		if err != nil {
			return nil, err
		}
		return tbl.Between(from, to), nil
	default:
		return nil, ErrNoRowFilter
	}
}
