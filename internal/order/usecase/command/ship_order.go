package command

import (
	"context"
	"fmt"
	"time"

	"github.com/boutiquegn/backoffice/internal/order/domain"
	"github.com/boutiquegn/backoffice/kafka"
	"github.com/boutiquegn/backoffice/pkg/metrics"
)

// ShipOrderCommand represents the command to mark a paid order shipped
type ShipOrderCommand struct {
	OrderID uint
	Actor   string
}

// ShipOrderHandler handles ship order command
type ShipOrderHandler struct {
	orders    domain.OrderRepository
	publisher OrderEventPublisher
	audits    AuditRecorder
}

// NewShipOrderHandler creates a new ship order handler
func NewShipOrderHandler(orders domain.OrderRepository, publisher OrderEventPublisher, audits AuditRecorder) *ShipOrderHandler {
	return &ShipOrderHandler{orders: orders, publisher: publisher, audits: audits}
}

// Handle executes the ship order command
func (h *ShipOrderHandler) Handle(ctx context.Context, cmd ShipOrderCommand) error {
	if cmd.OrderID == 0 {
		return fmt.Errorf("order_id is required")
	}

	order, err := h.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}
	before := snapshotOrder(order)

	if err := order.MarkShipped(time.Now().UTC()); err != nil {
		recordOrderAudit(ctx, h.audits, "order.ship", cmd.Actor, before, nil, err)
		return err
	}
	if err := h.orders.Save(ctx, order); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	recordOrderAudit(ctx, h.audits, "order.ship", cmd.Actor, before, order, nil)
	metrics.OrderTransitions.WithLabelValues(string(domain.StatusShipped)).Inc()
	publishOrderEvent(ctx, h.publisher, kafka.EventTypeOrderShipped, order)
	return nil
}
