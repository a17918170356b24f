package command

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/payment/domain"
	"github.com/boutiquegn/backoffice/pkg/metrics"
)

// AuthorizePaymentCommand represents the command to record a successful
// gateway authorization.
type AuthorizePaymentCommand struct {
	PaymentID     uint
	TransactionID string
	Actor         string
}

// AuthorizePaymentHandler handles authorize payment command
type AuthorizePaymentHandler struct {
	payments domain.PaymentRepository
	audits   AuditRecorder
}

// NewAuthorizePaymentHandler creates a new authorize payment handler
func NewAuthorizePaymentHandler(payments domain.PaymentRepository, audits AuditRecorder) *AuthorizePaymentHandler {
	return &AuthorizePaymentHandler{payments: payments, audits: audits}
}

// Handle executes the authorize payment command
func (h *AuthorizePaymentHandler) Handle(ctx context.Context, cmd AuthorizePaymentCommand) error {
	if cmd.PaymentID == 0 {
		return fmt.Errorf("payment_id is required")
	}

	payment, err := h.payments.FindByID(ctx, cmd.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to load payment: %w", err)
	}
	before := *payment

	if err := payment.Authorize(cmd.TransactionID); err != nil {
		recordAudit(ctx, h.audits, "payment.authorize", cmd.Actor, "payment", payment.ID, &before, nil, err)
		return err
	}
	if err := h.payments.Save(ctx, payment); err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}

	recordAudit(ctx, h.audits, "payment.authorize", cmd.Actor, "payment", payment.ID, &before, payment, nil)
	metrics.PaymentTransitions.WithLabelValues(string(domain.StatusAuthorized)).Inc()
	return nil
}
