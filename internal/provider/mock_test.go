package provider

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fxreader/internal/ratetable"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchTable(ctx context.Context, location string) (*ratetable.Table, error) {
	args := m.Called(ctx, location)
	tbl, _ := args.Get(0).(*ratetable.Table)
	return tbl, args.Error(1)
}
