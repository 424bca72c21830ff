package service

import "fxreader/internal/lookup"

// QueryParams describes one rate query. Absent optional values are nil.
type QueryParams struct {
	Source    string
	Provider  string
	Kind      string
	Pairs     PairSelector
	StartDate *string
	EndDate   *string
	AllDates  bool
	HeadRows  *float64
	TailRows  *float64
}

// SourceKey returns the lookup key for the query's source triple.
func (p QueryParams) SourceKey() lookup.SourceKey {
	return lookup.SourceKey{Database: p.Source, Provider: p.Provider, Kind: p.Kind}
}

func strOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// logFields renders the parameters as zap key/value pairs.
func (p QueryParams) logFields() []any {
	return []any{
		"source", p.Source,
		"provider", p.Provider,
		"kind", p.Kind,
		"pairs", p.Pairs.String(),
		"start_date", strOrNil(p.StartDate),
		"end_date", strOrNil(p.EndDate),
		"all_dates", p.AllDates,
		"head_rows", floatOrNil(p.HeadRows),
		"tail_rows", floatOrNil(p.TailRows),
	}
}
