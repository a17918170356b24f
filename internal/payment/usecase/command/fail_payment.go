package command

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/payment/domain"
	"github.com/boutiquegn/backoffice/pkg/metrics"
)

// FailPaymentCommand represents the command to terminate a payment attempt.
// The order stays pending; a retry opens a fresh payment.
type FailPaymentCommand struct {
	PaymentID uint
	Actor     string
}

// FailPaymentHandler handles fail payment command
type FailPaymentHandler struct {
	payments domain.PaymentRepository
	audits   AuditRecorder
}

// NewFailPaymentHandler creates a new fail payment handler
func NewFailPaymentHandler(payments domain.PaymentRepository, audits AuditRecorder) *FailPaymentHandler {
	return &FailPaymentHandler{payments: payments, audits: audits}
}

// Handle executes the fail payment command
func (h *FailPaymentHandler) Handle(ctx context.Context, cmd FailPaymentCommand) error {
	if cmd.PaymentID == 0 {
		return fmt.Errorf("payment_id is required")
	}

	payment, err := h.payments.FindByID(ctx, cmd.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to load payment: %w", err)
	}
	before := *payment

	if err := payment.Fail(); err != nil {
		recordAudit(ctx, h.audits, "payment.fail", cmd.Actor, "payment", payment.ID, &before, nil, err)
		return err
	}
	if err := h.payments.Save(ctx, payment); err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}

	recordAudit(ctx, h.audits, "payment.fail", cmd.Actor, "payment", payment.ID, &before, payment, nil)
	metrics.PaymentTransitions.WithLabelValues(string(domain.StatusFailed)).Inc()
	return nil
}
