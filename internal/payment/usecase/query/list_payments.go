package query

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/payment/domain"
)

// ListPaymentsQuery represents the query to list payments, optionally
// scoped to one order.
type ListPaymentsQuery struct {
	OrderID uint
	Limit   int
	Offset  int
}

// ListPaymentsHandler handles list payments query
type ListPaymentsHandler struct {
	payments domain.PaymentRepository
}

// NewListPaymentsHandler creates a new list payments handler
func NewListPaymentsHandler(payments domain.PaymentRepository) *ListPaymentsHandler {
	return &ListPaymentsHandler{payments: payments}
}

// Handle executes the list payments query
func (h *ListPaymentsHandler) Handle(ctx context.Context, q ListPaymentsQuery) ([]domain.Payment, error) {
	if q.OrderID != 0 {
		payments, err := h.payments.FindByOrderID(ctx, q.OrderID)
		if err != nil {
			return nil, fmt.Errorf("failed to list payments: %w", err)
		}
		return payments, nil
	}

	if q.Limit == 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	payments, err := h.payments.FindAll(ctx, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
