package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/boutiquegn/backoffice/internal/payment/domain"
	"github.com/boutiquegn/backoffice/kafka"
)

// RequestRefundCommand represents the command to open a refund against the
// captured payment of an order. The amount defaults to the full payment.
type RequestRefundCommand struct {
	OrderID           uint
	Amount            float64
	Reason            string
	ReasonDescription string
	RequestedBy       string
}

// RequestRefundHandler handles request refund command
type RequestRefundHandler struct {
	payments  domain.PaymentRepository
	refunds   domain.RefundRepository
	publisher RefundEventPublisher
	audits    AuditRecorder
}

// NewRequestRefundHandler creates a new request refund handler
func NewRequestRefundHandler(
	payments domain.PaymentRepository,
	refunds domain.RefundRepository,
	publisher RefundEventPublisher,
	audits AuditRecorder,
) *RequestRefundHandler {
	return &RequestRefundHandler{payments: payments, refunds: refunds, publisher: publisher, audits: audits}
}

// Handle executes the request refund command. Only a captured payment can
// be refunded, and never for more than was taken.
func (h *RequestRefundHandler) Handle(ctx context.Context, cmd RequestRefundCommand) (*domain.Refund, error) {
	if cmd.OrderID == 0 {
		return nil, fmt.Errorf("order_id is required")
	}
	if !domain.ValidRefundReason(cmd.Reason) {
		return nil, fmt.Errorf("unknown refund reason %q", cmd.Reason)
	}

	payment, err := h.payments.FindCapturedByOrderID(ctx, cmd.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find captured payment for order %d: %w", cmd.OrderID, err)
	}

	amount := cmd.Amount
	if amount == 0 {
		amount = payment.Amount
	}
	if amount < 0 || amount > payment.Amount {
		return nil, fmt.Errorf("refund amount %.2f out of range for payment of %.2f", amount, payment.Amount)
	}

	refund := &domain.Refund{
		UID:               uuid.New(),
		PaymentID:         payment.ID,
		OrderID:           cmd.OrderID,
		Amount:            amount,
		Reason:            cmd.Reason,
		ReasonDescription: cmd.ReasonDescription,
		Status:            domain.RefundPending,
		RequestedBy:       cmd.RequestedBy,
	}
	if err := h.refunds.Create(ctx, refund); err != nil {
		recordAudit(ctx, h.audits, "refund.request", cmd.RequestedBy, "refund", 0, nil, nil, err)
		return nil, fmt.Errorf("failed to create refund: %w", err)
	}

	recordAudit(ctx, h.audits, "refund.request", cmd.RequestedBy, "refund", refund.ID, nil, refund, nil)
	publishRefundEvent(ctx, h.publisher, kafka.EventTypeRefundRequested, refund)
	return refund, nil
}
