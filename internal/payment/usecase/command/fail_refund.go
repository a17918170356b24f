package command

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/payment/domain"
)

// FailRefundCommand represents the command to terminate a refund that could
// not be carried out. The payment stays captured.
type FailRefundCommand struct {
	RefundID uint
	Actor    string
}

// FailRefundHandler handles fail refund command
type FailRefundHandler struct {
	refunds domain.RefundRepository
	audits  AuditRecorder
}

// NewFailRefundHandler creates a new fail refund handler
func NewFailRefundHandler(refunds domain.RefundRepository, audits AuditRecorder) *FailRefundHandler {
	return &FailRefundHandler{refunds: refunds, audits: audits}
}

// Handle executes the fail refund command
func (h *FailRefundHandler) Handle(ctx context.Context, cmd FailRefundCommand) error {
	if cmd.RefundID == 0 {
		return fmt.Errorf("refund_id is required")
	}

	refund, err := h.refunds.FindByID(ctx, cmd.RefundID)
	if err != nil {
		return fmt.Errorf("failed to load refund: %w", err)
	}
	before := *refund

	if err := refund.Fail(); err != nil {
		recordAudit(ctx, h.audits, "refund.fail", cmd.Actor, "refund", refund.ID, &before, nil, err)
		return err
	}
	if err := h.refunds.Save(ctx, refund); err != nil {
		return fmt.Errorf("failed to save refund: %w", err)
	}

	recordAudit(ctx, h.audits, "refund.fail", cmd.Actor, "refund", refund.ID, &before, refund, nil)
	return nil
}
