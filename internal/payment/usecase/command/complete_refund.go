package command

import (
	"context"
	"fmt"
	"time"

	invdomain "github.com/boutiquegn/backoffice/internal/inventory/domain"
	"github.com/boutiquegn/backoffice/internal/payment/domain"
	"github.com/boutiquegn/backoffice/kafka"
	"github.com/boutiquegn/backoffice/pkg/logger"
	"github.com/boutiquegn/backoffice/pkg/metrics"
)

// CompleteRefundCommand represents the command to finish a refund after the
// money has gone back out.
type CompleteRefundCommand struct {
	RefundID uint
	Actor    string
}

// CompleteRefundHandler coordinates refund completion: the refund and the
// payment move to their terminal states together, and if the order's stock
// was already deducted, each item comes back through a return movement.
// StockRestored guards the restoration so a retried completion cannot
// double-count inventory.
type CompleteRefundHandler struct {
	txm       TxManager
	publisher RefundEventPublisher
	audits    AuditRecorder
}

// NewCompleteRefundHandler creates a new complete refund handler
func NewCompleteRefundHandler(txm TxManager, publisher RefundEventPublisher, audits AuditRecorder) *CompleteRefundHandler {
	return &CompleteRefundHandler{txm: txm, publisher: publisher, audits: audits}
}

// Handle executes the complete refund command
func (h *CompleteRefundHandler) Handle(ctx context.Context, cmd CompleteRefundCommand) error {
	if cmd.RefundID == 0 {
		return fmt.Errorf("refund_id is required")
	}

	now := time.Now().UTC()
	var refund *domain.Refund
	var restored int

	err := h.txm.Do(ctx, func(tx Tx) error {
		var err error
		refund, err = tx.Refunds().FindByID(ctx, cmd.RefundID)
		if err != nil {
			return fmt.Errorf("failed to load refund: %w", err)
		}
		payment, err := tx.Payments().FindByID(ctx, refund.PaymentID)
		if err != nil {
			return fmt.Errorf("failed to load payment: %w", err)
		}
		order, err := tx.Orders().FindByID(ctx, refund.OrderID)
		if err != nil {
			return fmt.Errorf("failed to load order: %w", err)
		}

		if err := refund.Complete(now); err != nil {
			return err
		}
		if err := payment.MarkRefunded(); err != nil {
			return err
		}

		if order.StockDeducted && !refund.StockRestored {
			reason := fmt.Sprintf("refund %s (%s)", refund.UID, refund.Reason)
			for _, item := range order.Items {
				productID := item.ProductID
				quantity := item.Quantity
				err := tx.Ledger().Update(ctx, productID, func(ltx invdomain.LedgerTx) error {
					stock, err := ltx.Stock()
					if err != nil {
						return err
					}
					movement, err := stock.Return(quantity, reason, cmd.Actor, now)
					if err != nil {
						return err
					}
					if err := ltx.SaveStock(stock); err != nil {
						return err
					}
					return ltx.AppendMovement(movement)
				})
				if err != nil {
					return fmt.Errorf("failed to restore stock for product %d: %w", productID, err)
				}
				restored++
			}
			refund.StockRestored = true
		}

		if err := tx.Refunds().Save(ctx, refund); err != nil {
			return fmt.Errorf("failed to save refund: %w", err)
		}
		if err := tx.Payments().Save(ctx, payment); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		return nil
	})
	if err != nil {
		recordAudit(ctx, h.audits, "refund.complete", cmd.Actor, "refund", cmd.RefundID, nil, nil, err)
		return err
	}

	recordAudit(ctx, h.audits, "refund.complete", cmd.Actor, "refund", refund.ID, nil, refund, nil)
	metrics.PaymentTransitions.WithLabelValues(string(domain.StatusRefunded)).Inc()
	for i := 0; i < restored; i++ {
		metrics.StockMovements.WithLabelValues(string(invdomain.MovementReturn)).Inc()
	}

	publishRefundEvent(ctx, h.publisher, kafka.EventTypeRefundProcessed, refund)
	logger.Info(ctx).
		Uint("refund_id", refund.ID).
		Uint("order_id", refund.OrderID).
		Float64("amount", refund.Amount).
		Msg("Refund completed")
	return nil
}
