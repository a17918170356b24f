package command

import (
	"context"
	"fmt"
	"time"

	invcommand "github.com/boutiquegn/backoffice/internal/inventory/usecase/command"
	"github.com/boutiquegn/backoffice/internal/order/domain"
	"github.com/boutiquegn/backoffice/pkg/logger"
	"github.com/boutiquegn/backoffice/pkg/metrics"
)

// CancelOrderCommand represents the command to cancel a pending or paid
// order.
type CancelOrderCommand struct {
	OrderID uint
	Reason  string
	Actor   string
}

// CancelOrderHandler handles cancel order command
type CancelOrderHandler struct {
	orders      domain.OrderRepository
	release     *invcommand.ReleaseReservationHandler
	returnStock *invcommand.ReturnStockHandler
	audits      AuditRecorder
}

// NewCancelOrderHandler creates a new cancel order handler
func NewCancelOrderHandler(
	orders domain.OrderRepository,
	release *invcommand.ReleaseReservationHandler,
	returnStock *invcommand.ReturnStockHandler,
	audits AuditRecorder,
) *CancelOrderHandler {
	return &CancelOrderHandler{
		orders:      orders,
		release:     release,
		returnStock: returnStock,
		audits:      audits,
	}
}

// Handle executes the cancel order command. A pending order merely releases
// its reservations; a paid order has already consumed them, so the stock
// comes back through compensating return movements.
func (h *CancelOrderHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if cmd.OrderID == 0 {
		return fmt.Errorf("order_id is required")
	}

	order, err := h.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}
	before := snapshotOrder(order)

	if err := order.Cancel(time.Now().UTC()); err != nil {
		recordOrderAudit(ctx, h.audits, "order.cancel", cmd.Actor, before, nil, err)
		return err
	}
	if err := h.orders.Save(ctx, order); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	reason := cmd.Reason
	if reason == "" {
		reason = fmt.Sprintf("order cancelled (%s)", order.Ref())
	}
	if order.StockDeducted {
		for _, item := range order.Items {
			err := h.returnStock.Handle(ctx, invcommand.ReturnStockCommand{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Reason:    reason,
				Actor:     cmd.Actor,
			})
			if err != nil {
				logger.Error(ctx).
					Err(err).
					Uint("product_id", item.ProductID).
					Str("order_number", order.OrderNumber).
					Msg("Failed to restore stock for cancelled order")
			}
		}
		// The deduction has been compensated; a later refund of this
		// order's payment must not restore the stock again.
		order.StockDeducted = false
		if err := h.orders.Save(ctx, order); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
	} else {
		for _, item := range order.Items {
			if item.ReservationID == nil {
				continue
			}
			err := h.release.Handle(ctx, invcommand.ReleaseReservationCommand{
				ReservationID: *item.ReservationID,
				Actor:         cmd.Actor,
			})
			if err != nil {
				logger.Error(ctx).
					Err(err).
					Str("reservation_id", item.ReservationID.String()).
					Str("order_number", order.OrderNumber).
					Msg("Failed to release reservation for cancelled order")
			}
		}
	}

	recordOrderAudit(ctx, h.audits, "order.cancel", cmd.Actor, before, order, nil)
	metrics.OrderTransitions.WithLabelValues(string(domain.StatusCancelled)).Inc()
	logger.Info(ctx).
		Str("order_number", order.OrderNumber).
		Str("reason", reason).
		Msg("Order cancelled")
	return nil
}
