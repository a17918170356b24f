package command

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/order/domain"
	"github.com/boutiquegn/backoffice/pkg/metrics"
)

// ReturnOrderCommand represents the command to mark a delivered order
// returned. Stock restoration and money movement happen in the refund
// workflow, not here.
type ReturnOrderCommand struct {
	OrderID uint
	Actor   string
}

// ReturnOrderHandler handles return order command
type ReturnOrderHandler struct {
	orders domain.OrderRepository
	audits AuditRecorder
}

// NewReturnOrderHandler creates a new return order handler
func NewReturnOrderHandler(orders domain.OrderRepository, audits AuditRecorder) *ReturnOrderHandler {
	return &ReturnOrderHandler{orders: orders, audits: audits}
}

// Handle executes the return order command
func (h *ReturnOrderHandler) Handle(ctx context.Context, cmd ReturnOrderCommand) error {
	if cmd.OrderID == 0 {
		return fmt.Errorf("order_id is required")
	}

	order, err := h.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}
	before := snapshotOrder(order)

	if err := order.MarkReturned(); err != nil {
		recordOrderAudit(ctx, h.audits, "order.return", cmd.Actor, before, nil, err)
		return err
	}
	if err := h.orders.Save(ctx, order); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	recordOrderAudit(ctx, h.audits, "order.return", cmd.Actor, before, order, nil)
	metrics.OrderTransitions.WithLabelValues(string(domain.StatusReturned)).Inc()
	return nil
}
