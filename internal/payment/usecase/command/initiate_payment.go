package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	orderdomain "github.com/boutiquegn/backoffice/internal/order/domain"
	"github.com/boutiquegn/backoffice/internal/payment/domain"
	"github.com/boutiquegn/backoffice/pkg/metrics"
)

// InitiatePaymentCommand represents the command to open a payment attempt
// for a pending order. The amount is always the order total; partial
// payments are not supported.
type InitiatePaymentCommand struct {
	OrderID uint
	Method  string
	Actor   string
}

// InitiatePaymentHandler handles initiate payment command
type InitiatePaymentHandler struct {
	payments domain.PaymentRepository
	orders   orderdomain.OrderRepository
	audits   AuditRecorder
}

// NewInitiatePaymentHandler creates a new initiate payment handler
func NewInitiatePaymentHandler(payments domain.PaymentRepository, orders orderdomain.OrderRepository, audits AuditRecorder) *InitiatePaymentHandler {
	return &InitiatePaymentHandler{payments: payments, orders: orders, audits: audits}
}

// Handle executes the initiate payment command
func (h *InitiatePaymentHandler) Handle(ctx context.Context, cmd InitiatePaymentCommand) (*domain.Payment, error) {
	if cmd.OrderID == 0 {
		return nil, fmt.Errorf("order_id is required")
	}
	switch cmd.Method {
	case domain.MethodMobileMoney, domain.MethodCard, domain.MethodCashOnDelivery:
	default:
		return nil, fmt.Errorf("unknown payment method %q", cmd.Method)
	}

	order, err := h.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order.Status != orderdomain.StatusPending {
		return nil, fmt.Errorf("%w: order %s is %s, payment can only be initiated while pending",
			domain.ErrInvalidTransition, order.Ref(), order.Status)
	}

	payment := &domain.Payment{
		UID:      uuid.New(),
		OrderID:  order.ID,
		Amount:   order.TotalAmount,
		Currency: "GNF",
		Method:   cmd.Method,
		Status:   domain.StatusInitiated,
	}
	if err := h.payments.Create(ctx, payment); err != nil {
		recordAudit(ctx, h.audits, "payment.initiate", cmd.Actor, "payment", 0, nil, nil, err)
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	recordAudit(ctx, h.audits, "payment.initiate", cmd.Actor, "payment", payment.ID, nil, payment, nil)
	metrics.PaymentTransitions.WithLabelValues(string(domain.StatusInitiated)).Inc()
	return payment, nil
}
