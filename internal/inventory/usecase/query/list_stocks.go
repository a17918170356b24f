package query

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
)

// ListStocksQuery represents the query to list stocks
type ListStocksQuery struct {
	Limit  int
	Offset int
}

// ListStocksHandler handles list stocks query
type ListStocksHandler struct {
	store domain.LedgerStore
}

// NewListStocksHandler creates a new list stocks handler
func NewListStocksHandler(store domain.LedgerStore) *ListStocksHandler {
	return &ListStocksHandler{store: store}
}

// Handle executes the list stocks query
func (h *ListStocksHandler) Handle(ctx context.Context, q ListStocksQuery) ([]domain.Stock, error) {
	if q.Limit == 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	stocks, err := h.store.ListStocks(ctx, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	return stocks, nil
}
