package query

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
)

// ListMovementsQuery represents the query to read the movement ledger,
// newest first, optionally filtered by product, actor and time range.
type ListMovementsQuery struct {
	Filter domain.MovementFilter
}

// ListMovementsHandler handles list movements query
type ListMovementsHandler struct {
	store domain.LedgerStore
}

// NewListMovementsHandler creates a new list movements handler
func NewListMovementsHandler(store domain.LedgerStore) *ListMovementsHandler {
	return &ListMovementsHandler{store: store}
}

// Handle executes the list movements query
func (h *ListMovementsHandler) Handle(ctx context.Context, q ListMovementsQuery) ([]domain.StockMovement, error) {
	if q.Filter.Limit > 500 {
		q.Filter.Limit = 500
	}

	movements, err := h.store.ListMovements(ctx, q.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return movements, nil
}
