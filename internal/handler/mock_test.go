package handler_test

import (
	"context"

	"github.com/tenere/fuellog/internal/domain"
	"github.com/tenere/fuellog/internal/handler"
)

// mockFuelingServicer is a hand-written test double for handler.FuelingServicer.
type mockFuelingServicer struct {
	ingest    func(ctx context.Context, msg domain.Message) (domain.IngestResult, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Fueling, int64, error)
	export    func(ctx context.Context) ([]domain.Fueling, error)
}

func (m *mockFuelingServicer) Ingest(ctx context.Context, msg domain.Message) (domain.IngestResult, error) {
	return m.ingest(ctx, msg)
}
func (m *mockFuelingServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Fueling, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockFuelingServicer) Export(ctx context.Context) ([]domain.Fueling, error) {
	return m.export(ctx)
}

// compile-time check: mockFuelingServicer must satisfy handler.FuelingServicer.
var _ handler.FuelingServicer = (*mockFuelingServicer)(nil)

func ptr(v float64) *float64 { return &v }
