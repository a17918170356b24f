package query

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/order/domain"
)

// ListOrdersQuery represents the query to list orders, optionally scoped to
// one customer.
type ListOrdersQuery struct {
	CustomerID uint
	Limit      int
	Offset     int
}

// ListOrdersHandler handles list orders query
type ListOrdersHandler struct {
	orders domain.OrderRepository
}

// NewListOrdersHandler creates a new list orders handler
func NewListOrdersHandler(orders domain.OrderRepository) *ListOrdersHandler {
	return &ListOrdersHandler{orders: orders}
}

// Handle executes the list orders query
func (h *ListOrdersHandler) Handle(ctx context.Context, q ListOrdersQuery) ([]domain.Order, error) {
	if q.Limit == 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	var (
		orders []domain.Order
		err    error
	)
	if q.CustomerID != 0 {
		orders, err = h.orders.FindByCustomer(ctx, q.CustomerID, q.Limit, q.Offset)
	} else {
		orders, err = h.orders.FindAll(ctx, q.Limit, q.Offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
