package query

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/payment/domain"
)

// GetRefundQuery represents the query to get a refund by ID
type GetRefundQuery struct {
	RefundID uint
}

// GetRefundHandler handles get refund query
type GetRefundHandler struct {
	refunds domain.RefundRepository
}

// NewGetRefundHandler creates a new get refund handler
func NewGetRefundHandler(refunds domain.RefundRepository) *GetRefundHandler {
	return &GetRefundHandler{refunds: refunds}
}

// Handle executes the get refund query
func (h *GetRefundHandler) Handle(ctx context.Context, q GetRefundQuery) (*domain.Refund, error) {
	if q.RefundID == 0 {
		return nil, fmt.Errorf("refund_id is required")
	}

	refund, err := h.refunds.FindByID(ctx, q.RefundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get refund: %w", err)
	}
	return refund, nil
}
