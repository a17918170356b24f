package query

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
)

// GetStockQuery represents the query to get one product's stock
type GetStockQuery struct {
	ProductID uint
}

// GetStockHandler handles get stock query
type GetStockHandler struct {
	store domain.LedgerStore
}

// NewGetStockHandler creates a new get stock handler
func NewGetStockHandler(store domain.LedgerStore) *GetStockHandler {
	return &GetStockHandler{store: store}
}

// Handle executes the get stock query
func (h *GetStockHandler) Handle(ctx context.Context, q GetStockQuery) (*domain.Stock, error) {
	if q.ProductID == 0 {
		return nil, fmt.Errorf("product_id is required")
	}

	stock, err := h.store.FindStock(ctx, q.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}
	return stock, nil
}
