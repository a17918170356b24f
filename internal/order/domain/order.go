package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
	StatusReturned  OrderStatus = "returned"
)

// ErrInvalidTransition is returned for any order transition outside the
// allowed edges. Illegal requests are surfaced, never silently coerced.
var ErrInvalidTransition = errors.New("invalid order transition")

// orderTransitions holds the only legal edges of the state machine.
// cancelled and returned are terminal; delivered is terminal unless
// returned.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {StatusReturned},
}

// CanTransition reports whether from → to is a legal edge.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order aggregates the items, delivery details and chosen payment method of
// one purchase. Confirming an order consumes one stock reservation per item.
type Order struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	UID           uuid.UUID   `json:"uid" gorm:"type:uuid;uniqueIndex"`
	OrderNumber   string      `json:"order_number" gorm:"size:20;uniqueIndex"`
	CustomerID    uint        `json:"customer_id" gorm:"not null;index"`
	Status        OrderStatus `json:"status" gorm:"size:20;not null;default:'pending';index"`
	PaymentMethod string      `json:"payment_method" gorm:"size:20;not null"`

	DeliveryAddress string `json:"delivery_address"`
	DeliveryPhone   string `json:"delivery_phone" gorm:"size:30"`
	DeliveryNotes   string `json:"delivery_notes"`

	Subtotal    float64 `json:"subtotal" gorm:"not null"`
	DeliveryFee float64 `json:"delivery_fee" gorm:"not null;default:0"`
	TotalAmount float64 `json:"total_amount" gorm:"not null"`

	// StockDeducted flips when the reservations are committed, so a later
	// cancellation or refund knows a compensating movement is owed.
	StockDeducted bool `json:"stock_deducted" gorm:"not null;default:false"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PaidAt      *time.Time `json:"paid_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one product line of an order. ReservationID links the line
// to the stock claim made at order creation.
type OrderItem struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	OrderID       uint       `json:"order_id" gorm:"not null;index"`
	ProductID     uint       `json:"product_id" gorm:"not null;index"`
	Quantity      int        `json:"quantity" gorm:"not null"`
	Price         float64    `json:"price" gorm:"not null"`
	ReservationID *uuid.UUID `json:"reservation_id" gorm:"type:uuid"`
}

// TableName specifies the table name
func (OrderItem) TableName() string {
	return "order_items"
}

// Ref is the human reference of the order, used in movement reasons and
// reservation tags.
func (o *Order) Ref() string {
	if o.OrderNumber != "" {
		return o.OrderNumber
	}
	return o.UID.String()
}

// CanBeCancelled reports whether the order is still in a cancellable state.
func (o *Order) CanBeCancelled() bool {
	return CanTransition(o.Status, StatusCancelled)
}

func (o *Order) transition(to OrderStatus) error {
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s (order %s)", ErrInvalidTransition, o.Status, to, o.Ref())
	}
	o.Status = to
	return nil
}

// MarkPaid advances pending → paid. Only the payment capture coordinator
// calls this, in the same transaction as the payment transition.
func (o *Order) MarkPaid(now time.Time) error {
	if err := o.transition(StatusPaid); err != nil {
		return err
	}
	o.PaidAt = &now
	return nil
}

// MarkShipped advances paid → shipped.
func (o *Order) MarkShipped(now time.Time) error {
	if err := o.transition(StatusShipped); err != nil {
		return err
	}
	o.ShippedAt = &now
	return nil
}

// MarkDelivered advances shipped → delivered.
func (o *Order) MarkDelivered(now time.Time) error {
	if err := o.transition(StatusDelivered); err != nil {
		return err
	}
	o.DeliveredAt = &now
	return nil
}

// Cancel moves a pending or paid order to cancelled.
func (o *Order) Cancel(now time.Time) error {
	if err := o.transition(StatusCancelled); err != nil {
		return err
	}
	o.CancelledAt = &now
	return nil
}

// MarkReturned moves a delivered order to returned, opening the refund
// workflow.
func (o *Order) MarkReturned() error {
	return o.transition(StatusReturned)
}

// OrderRepository defines the contract for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uint) (*Order, error)
	FindByNumber(ctx context.Context, number string) (*Order, error)
	FindByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]Order, error)
	FindAll(ctx context.Context, limit, offset int) ([]Order, error)
	Save(ctx context.Context, order *Order) error
	// NextOrderNumber reserves the next sequential number for the month,
	// formatted CMD-YYYY-MM-NNNN.
	NextOrderNumber(ctx context.Context, now time.Time) (string, error)
}
