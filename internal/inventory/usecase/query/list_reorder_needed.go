package query

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
)

// ListReorderNeededQuery represents the query to list stocks that have
// fallen to their reorder threshold with auto-reorder enabled.
type ListReorderNeededQuery struct{}

// ListReorderNeededHandler handles list reorder needed query
type ListReorderNeededHandler struct {
	store domain.LedgerStore
}

// NewListReorderNeededHandler creates a new list reorder needed handler
func NewListReorderNeededHandler(store domain.LedgerStore) *ListReorderNeededHandler {
	return &ListReorderNeededHandler{store: store}
}

// Handle executes the list reorder needed query
func (h *ListReorderNeededHandler) Handle(ctx context.Context, _ ListReorderNeededQuery) ([]domain.Stock, error) {
	stocks, err := h.store.ListReorderNeeded(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reorder candidates: %w", err)
	}
	return stocks, nil
}
