package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the payment lifecycle state, independent of the order's.
type PaymentStatus string

const (
	StatusInitiated  PaymentStatus = "initiated"
	StatusAuthorized PaymentStatus = "authorized"
	StatusFailed     PaymentStatus = "failed"
	StatusCaptured   PaymentStatus = "captured"
	StatusRefunded   PaymentStatus = "refunded"
)

// Payment methods
const (
	MethodMobileMoney    = "mobile_money"
	MethodCard           = "card"
	MethodCashOnDelivery = "cash_on_delivery"
)

// ErrInvalidTransition is returned for any payment or refund transition
// outside the allowed edges.
var ErrInvalidTransition = errors.New("invalid payment transition")

// paymentTransitions holds the only legal edges. failed is terminal; a
// retry is a brand new payment. captured → refunded happens only through a
// completed refund.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	StatusInitiated:  {StatusAuthorized, StatusFailed},
	StatusAuthorized: {StatusCaptured},
	StatusCaptured:   {StatusRefunded},
}

// CanTransition reports whether from → to is a legal edge.
func CanTransition(from, to PaymentStatus) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Payment records one attempt to pay an order. An order may carry several
// payments across retries; at most one ever reaches captured.
type Payment struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	UID           uuid.UUID     `json:"uid" gorm:"type:uuid;uniqueIndex"`
	OrderID       uint          `json:"order_id" gorm:"not null;index"`
	Amount        float64       `json:"amount" gorm:"not null"`
	Currency      string        `json:"currency" gorm:"size:3;default:'GNF'"`
	Method        string        `json:"method" gorm:"size:20;not null"`
	Status        PaymentStatus `json:"status" gorm:"size:20;not null;default:'initiated';index"`
	TransactionID string        `json:"transaction_id" gorm:"size:100"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	CompletedAt   *time.Time    `json:"completed_at"`
}

// TableName specifies the table name
func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) transition(to PaymentStatus) error {
	if !CanTransition(p.Status, to) {
		return fmt.Errorf("%w: %s -> %s (payment %s)", ErrInvalidTransition, p.Status, to, p.UID)
	}
	p.Status = to
	return nil
}

// Authorize advances initiated → authorized on a successful gateway
// authorization.
func (p *Payment) Authorize(transactionID string) error {
	if err := p.transition(StatusAuthorized); err != nil {
		return err
	}
	if transactionID != "" {
		p.TransactionID = transactionID
	}
	return nil
}

// Capture finalizes the payment. Cash on delivery skips the gateway
// authorization, so initiated → captured is collapsed for that method only.
func (p *Payment) Capture(now time.Time) error {
	if p.Status == StatusInitiated && p.Method == MethodCashOnDelivery {
		p.Status = StatusAuthorized
	}
	if err := p.transition(StatusCaptured); err != nil {
		return err
	}
	p.CompletedAt = &now
	return nil
}

// Fail terminates the payment. The caller creates a new payment to retry.
func (p *Payment) Fail() error {
	return p.transition(StatusFailed)
}

// MarkRefunded advances captured → refunded. Reachable only through a
// completed refund.
func (p *Payment) MarkRefunded() error {
	return p.transition(StatusRefunded)
}

// PaymentRepository defines the contract for payment data access
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id uint) (*Payment, error)
	FindByOrderID(ctx context.Context, orderID uint) ([]Payment, error)
	FindCapturedByOrderID(ctx context.Context, orderID uint) (*Payment, error)
	FindAll(ctx context.Context, limit, offset int) ([]Payment, error)
	Save(ctx context.Context, payment *Payment) error
}
