package command

import (
	"context"
	"fmt"
	"time"

	invdomain "github.com/boutiquegn/backoffice/internal/inventory/domain"
	orderdomain "github.com/boutiquegn/backoffice/internal/order/domain"
	"github.com/boutiquegn/backoffice/internal/payment/domain"
	"github.com/boutiquegn/backoffice/kafka"
	"github.com/boutiquegn/backoffice/pkg/logger"
	"github.com/boutiquegn/backoffice/pkg/metrics"
)

// CapturePaymentCommand represents the command to finalize a payment.
type CapturePaymentCommand struct {
	PaymentID uint
	Actor     string
}

// CapturePaymentHandler coordinates the capture across all three aggregates:
// the payment is captured, the order is marked paid, and every item's
// reservation is committed to a stock deduction, in one transaction. There
// is no state in which money is taken but stock still looks available.
type CapturePaymentHandler struct {
	txm       TxManager
	publisher OrderEventPublisher
	audits    AuditRecorder
}

// NewCapturePaymentHandler creates a new capture payment handler
func NewCapturePaymentHandler(txm TxManager, publisher OrderEventPublisher, audits AuditRecorder) *CapturePaymentHandler {
	return &CapturePaymentHandler{txm: txm, publisher: publisher, audits: audits}
}

// Handle executes the capture payment command
func (h *CapturePaymentHandler) Handle(ctx context.Context, cmd CapturePaymentCommand) error {
	if cmd.PaymentID == 0 {
		return fmt.Errorf("payment_id is required")
	}

	now := time.Now().UTC()
	var payment *domain.Payment
	var order *orderdomain.Order
	var committed int

	err := h.txm.Do(ctx, func(tx Tx) error {
		var err error
		payment, err = tx.Payments().FindByID(ctx, cmd.PaymentID)
		if err != nil {
			return fmt.Errorf("failed to load payment: %w", err)
		}
		order, err = tx.Orders().FindByID(ctx, payment.OrderID)
		if err != nil {
			return fmt.Errorf("failed to load order: %w", err)
		}

		if err := payment.Capture(now); err != nil {
			return err
		}
		if err := order.MarkPaid(now); err != nil {
			return err
		}

		for _, item := range order.Items {
			if item.ReservationID == nil {
				continue
			}
			reservationID := *item.ReservationID
			err := tx.Ledger().Update(ctx, item.ProductID, func(ltx invdomain.LedgerTx) error {
				stock, err := ltx.Stock()
				if err != nil {
					return err
				}
				reservation, err := ltx.Reservation(reservationID)
				if err != nil {
					return err
				}
				movement, err := stock.Commit(reservation, cmd.Actor, now)
				if err != nil {
					return err
				}
				if err := ltx.SaveStock(stock); err != nil {
					return err
				}
				if err := ltx.SaveReservation(reservation); err != nil {
					return err
				}
				return ltx.AppendMovement(movement)
			})
			if err != nil {
				return fmt.Errorf("failed to commit reservation for product %d: %w", item.ProductID, err)
			}
			committed++
		}
		order.StockDeducted = true

		if err := tx.Payments().Save(ctx, payment); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		if err := tx.Orders().Save(ctx, order); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		return nil
	})
	if err != nil {
		recordAudit(ctx, h.audits, "payment.capture", cmd.Actor, "payment", cmd.PaymentID, nil, nil, err)
		return err
	}

	recordAudit(ctx, h.audits, "payment.capture", cmd.Actor, "payment", payment.ID, nil, payment, nil)
	metrics.PaymentTransitions.WithLabelValues(string(domain.StatusCaptured)).Inc()
	metrics.OrderTransitions.WithLabelValues(string(orderdomain.StatusPaid)).Inc()
	for i := 0; i < committed; i++ {
		metrics.ReservationsActive.Dec()
		metrics.StockMovements.WithLabelValues(string(invdomain.MovementOutbound)).Inc()
	}

	publishOrderEvent(ctx, h.publisher, kafka.EventTypeOrderConfirmed, order)
	logger.Info(ctx).
		Str("order_number", order.OrderNumber).
		Uint("payment_id", payment.ID).
		Float64("amount", payment.Amount).
		Msg("Payment captured")
	return nil
}
