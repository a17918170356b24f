package query

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/order/domain"
)

// GetOrderQuery represents the query to get an order by ID or number
type GetOrderQuery struct {
	OrderID     uint
	OrderNumber string
}

// GetOrderHandler handles get order query
type GetOrderHandler struct {
	orders domain.OrderRepository
}

// NewGetOrderHandler creates a new get order handler
func NewGetOrderHandler(orders domain.OrderRepository) *GetOrderHandler {
	return &GetOrderHandler{orders: orders}
}

// Handle executes the get order query
func (h *GetOrderHandler) Handle(ctx context.Context, q GetOrderQuery) (*domain.Order, error) {
	switch {
	case q.OrderID != 0:
		order, err := h.orders.FindByID(ctx, q.OrderID)
		if err != nil {
			return nil, fmt.Errorf("failed to get order: %w", err)
		}
		return order, nil
	case q.OrderNumber != "":
		order, err := h.orders.FindByNumber(ctx, q.OrderNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to get order: %w", err)
		}
		return order, nil
	default:
		return nil, fmt.Errorf("order_id or order_number is required")
	}
}
