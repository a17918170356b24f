package query

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/payment/domain"
)

// GetPaymentQuery represents the query to get a payment by ID
type GetPaymentQuery struct {
	PaymentID uint
}

// GetPaymentHandler handles get payment query
type GetPaymentHandler struct {
	payments domain.PaymentRepository
}

// NewGetPaymentHandler creates a new get payment handler
func NewGetPaymentHandler(payments domain.PaymentRepository) *GetPaymentHandler {
	return &GetPaymentHandler{payments: payments}
}

// Handle executes the get payment query
func (h *GetPaymentHandler) Handle(ctx context.Context, q GetPaymentQuery) (*domain.Payment, error) {
	if q.PaymentID == 0 {
		return nil, fmt.Errorf("payment_id is required")
	}

	payment, err := h.payments.FindByID(ctx, q.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}
