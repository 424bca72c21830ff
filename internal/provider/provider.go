package provider

import (
	"context"

	"fxreader/internal/ratetable"
)

// TableFetcher defines an interface for downloading a rate table from the location
// resolved by the source lookup.
type TableFetcher interface {
	FetchTable(ctx context.Context, location string) (*ratetable.Table, error)
}
