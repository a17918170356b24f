package command

import (
	"context"
	"fmt"
	"time"

	invcommand "github.com/boutiquegn/backoffice/internal/inventory/usecase/command"
	"github.com/boutiquegn/backoffice/internal/order/domain"
	productdomain "github.com/boutiquegn/backoffice/internal/product/domain"
	"github.com/boutiquegn/backoffice/pkg/logger"
	"github.com/boutiquegn/backoffice/pkg/metrics"

	"github.com/google/uuid"
)

// CreateOrderItem is one requested line of a new order.
type CreateOrderItem struct {
	ProductID uint
	Quantity  int
}

// CreateOrderCommand represents the command to create a pending order.
// Creation reserves stock for every line; it deducts nothing yet.
type CreateOrderCommand struct {
	CustomerID      uint
	PaymentMethod   string
	DeliveryAddress string
	DeliveryPhone   string
	DeliveryNotes   string
	DeliveryFee     float64
	Items           []CreateOrderItem
}

// CreateOrderHandler handles create order command
type CreateOrderHandler struct {
	orders   domain.OrderRepository
	products productdomain.ProductRepository
	reserve  *invcommand.ReserveStockHandler
	release  *invcommand.ReleaseReservationHandler
	audits   AuditRecorder
}

// NewCreateOrderHandler creates a new create order handler
func NewCreateOrderHandler(
	orders domain.OrderRepository,
	products productdomain.ProductRepository,
	reserve *invcommand.ReserveStockHandler,
	release *invcommand.ReleaseReservationHandler,
	audits AuditRecorder,
) *CreateOrderHandler {
	return &CreateOrderHandler{
		orders:   orders,
		products: products,
		reserve:  reserve,
		release:  release,
		audits:   audits,
	}
}

// Handle executes the create order command. Reservations are all-or-nothing:
// if any line cannot be covered, every claim made so far is released and the
// order is not created.
func (h *CreateOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if cmd.CustomerID == 0 {
		return nil, fmt.Errorf("customer_id is required")
	}
	if len(cmd.Items) == 0 {
		return nil, fmt.Errorf("order must have at least one item")
	}

	now := time.Now().UTC()
	number, err := h.orders.NextOrderNumber(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate order number: %w", err)
	}

	order := &domain.Order{
		UID:             uuid.New(),
		OrderNumber:     number,
		CustomerID:      cmd.CustomerID,
		Status:          domain.StatusPending,
		PaymentMethod:   cmd.PaymentMethod,
		DeliveryAddress: cmd.DeliveryAddress,
		DeliveryPhone:   cmd.DeliveryPhone,
		DeliveryNotes:   cmd.DeliveryNotes,
		DeliveryFee:     cmd.DeliveryFee,
	}

	var claimed []uuid.UUID
	rollback := func() {
		for _, id := range claimed {
			if err := h.release.Handle(ctx, invcommand.ReleaseReservationCommand{ReservationID: id, Actor: "system"}); err != nil {
				logger.Error(ctx).
					Err(err).
					Str("reservation_id", id.String()).
					Str("order_number", number).
					Msg("Failed to release reservation while rolling back order creation")
			}
		}
	}

	for _, line := range cmd.Items {
		product, err := h.products.FindByID(ctx, line.ProductID)
		if err != nil {
			rollback()
			return nil, fmt.Errorf("failed to load product %d: %w", line.ProductID, err)
		}
		if !product.IsActive {
			rollback()
			return nil, fmt.Errorf("product %d is not available for sale", line.ProductID)
		}

		reservation, err := h.reserve.Handle(ctx, invcommand.ReserveStockCommand{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			OrderRef:  number,
		})
		if err != nil {
			rollback()
			return nil, err
		}
		claimed = append(claimed, reservation.ID)

		resID := reservation.ID
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			Price:         product.Price,
			ReservationID: &resID,
		})
		order.Subtotal += product.Price * float64(line.Quantity)
	}
	order.TotalAmount = order.Subtotal + order.DeliveryFee

	if err := h.orders.Create(ctx, order); err != nil {
		rollback()
		recordOrderAudit(ctx, h.audits, "order.create", fmt.Sprintf("customer:%d", cmd.CustomerID), nil, nil, err)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	recordOrderAudit(ctx, h.audits, "order.create", fmt.Sprintf("customer:%d", cmd.CustomerID), nil, order, nil)
	metrics.OrderTransitions.WithLabelValues(string(domain.StatusPending)).Inc()
	logger.Info(ctx).
		Str("order_number", order.OrderNumber).
		Uint("customer_id", order.CustomerID).
		Float64("total", order.TotalAmount).
		Msg("Order created")
	return order, nil
}
