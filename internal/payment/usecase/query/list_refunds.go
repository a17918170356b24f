package query

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/payment/domain"
)

// ListRefundsQuery represents the query to list refunds, optionally scoped
// to one order.
type ListRefundsQuery struct {
	OrderID uint
	Limit   int
	Offset  int
}

// ListRefundsHandler handles list refunds query
type ListRefundsHandler struct {
	refunds domain.RefundRepository
}

// NewListRefundsHandler creates a new list refunds handler
func NewListRefundsHandler(refunds domain.RefundRepository) *ListRefundsHandler {
	return &ListRefundsHandler{refunds: refunds}
}

// Handle executes the list refunds query
func (h *ListRefundsHandler) Handle(ctx context.Context, q ListRefundsQuery) ([]domain.Refund, error) {
	if q.OrderID != 0 {
		refunds, err := h.refunds.FindByOrderID(ctx, q.OrderID)
		if err != nil {
			return nil, fmt.Errorf("failed to list refunds: %w", err)
		}
		return refunds, nil
	}

	if q.Limit == 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	refunds, err := h.refunds.FindAll(ctx, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list refunds: %w", err)
	}
	return refunds, nil
}
