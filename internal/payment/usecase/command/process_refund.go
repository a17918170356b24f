package command

import (
	"context"
	"fmt"
	"time"

	"github.com/boutiquegn/backoffice/internal/payment/domain"
)

// ProcessRefundCommand represents the command to start working a pending
// refund.
type ProcessRefundCommand struct {
	RefundID  uint
	Processor string
}

// ProcessRefundHandler handles process refund command
type ProcessRefundHandler struct {
	refunds domain.RefundRepository
	audits  AuditRecorder
}

// NewProcessRefundHandler creates a new process refund handler
func NewProcessRefundHandler(refunds domain.RefundRepository, audits AuditRecorder) *ProcessRefundHandler {
	return &ProcessRefundHandler{refunds: refunds, audits: audits}
}

// Handle executes the process refund command
func (h *ProcessRefundHandler) Handle(ctx context.Context, cmd ProcessRefundCommand) error {
	if cmd.RefundID == 0 {
		return fmt.Errorf("refund_id is required")
	}
	if cmd.Processor == "" {
		return fmt.Errorf("processor is required")
	}

	refund, err := h.refunds.FindByID(ctx, cmd.RefundID)
	if err != nil {
		return fmt.Errorf("failed to load refund: %w", err)
	}
	before := *refund

	if err := refund.StartProcessing(cmd.Processor, time.Now().UTC()); err != nil {
		recordAudit(ctx, h.audits, "refund.process", cmd.Processor, "refund", refund.ID, &before, nil, err)
		return err
	}
	if err := h.refunds.Save(ctx, refund); err != nil {
		return fmt.Errorf("failed to save refund: %w", err)
	}

	recordAudit(ctx, h.audits, "refund.process", cmd.Processor, "refund", refund.ID, &before, refund, nil)
	return nil
}
