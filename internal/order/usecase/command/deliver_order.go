package command

import (
	"context"
	"fmt"
	"time"

	"github.com/boutiquegn/backoffice/internal/order/domain"
	"github.com/boutiquegn/backoffice/kafka"
	"github.com/boutiquegn/backoffice/pkg/metrics"
)

// DeliverOrderCommand represents the command to mark a shipped order
// delivered
type DeliverOrderCommand struct {
	OrderID uint
	Actor   string
}

// DeliverOrderHandler handles deliver order command
type DeliverOrderHandler struct {
	orders    domain.OrderRepository
	publisher OrderEventPublisher
	audits    AuditRecorder
}

// NewDeliverOrderHandler creates a new deliver order handler
func NewDeliverOrderHandler(orders domain.OrderRepository, publisher OrderEventPublisher, audits AuditRecorder) *DeliverOrderHandler {
	return &DeliverOrderHandler{orders: orders, publisher: publisher, audits: audits}
}

// Handle executes the deliver order command
func (h *DeliverOrderHandler) Handle(ctx context.Context, cmd DeliverOrderCommand) error {
	if cmd.OrderID == 0 {
		return fmt.Errorf("order_id is required")
	}

	order, err := h.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}
	before := snapshotOrder(order)

	if err := order.MarkDelivered(time.Now().UTC()); err != nil {
		recordOrderAudit(ctx, h.audits, "order.deliver", cmd.Actor, before, nil, err)
		return err
	}
	if err := h.orders.Save(ctx, order); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	recordOrderAudit(ctx, h.audits, "order.deliver", cmd.Actor, before, order, nil)
	metrics.OrderTransitions.WithLabelValues(string(domain.StatusDelivered)).Inc()
	publishOrderEvent(ctx, h.publisher, kafka.EventTypeOrderDelivered, order)
	return nil
}
