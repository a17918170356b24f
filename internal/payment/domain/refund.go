package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RefundStatus is the refund workflow state.
type RefundStatus string

const (
	RefundPending    RefundStatus = "pending"
	RefundProcessing RefundStatus = "processing"
	RefundCompleted  RefundStatus = "completed"
	RefundFailed     RefundStatus = "failed"
)

// Refund reason codes
const (
	ReasonCustomerRequest  = "customer_request"
	ReasonDefectiveProduct = "defective_product"
	ReasonWrongItem        = "wrong_item"
	ReasonLateDelivery     = "late_delivery"
	ReasonOrderCancelled   = "order_cancelled"
	ReasonOther            = "other"
)

// ValidRefundReason reports whether the reason is one of the known codes.
func ValidRefundReason(reason string) bool {
	switch reason {
	case ReasonCustomerRequest, ReasonDefectiveProduct, ReasonWrongItem,
		ReasonLateDelivery, ReasonOrderCancelled, ReasonOther:
		return true
	}
	return false
}

var refundTransitions = map[RefundStatus][]RefundStatus{
	RefundPending:    {RefundProcessing, RefundFailed},
	RefundProcessing: {RefundCompleted, RefundFailed},
}

// Refund reverses a captured payment. Completing it marks the payment
// refunded and, when stock was already deducted, emits the compensating
// return movements.
type Refund struct {
	ID                uint         `json:"id" gorm:"primaryKey"`
	UID               uuid.UUID    `json:"uid" gorm:"type:uuid;uniqueIndex"`
	PaymentID         uint         `json:"payment_id" gorm:"not null;index"`
	OrderID           uint         `json:"order_id" gorm:"not null;index"`
	Amount            float64      `json:"amount" gorm:"not null"`
	Reason            string       `json:"reason" gorm:"size:30;not null"`
	ReasonDescription string       `json:"reason_description"`
	Status            RefundStatus `json:"status" gorm:"size:20;not null;default:'pending';index"`
	RequestedBy       string       `json:"requested_by" gorm:"size:100"`
	ProcessedBy       string       `json:"processed_by" gorm:"size:100"`
	// StockRestored guards the compensating movement against double emission.
	StockRestored bool       `json:"stock_restored" gorm:"not null;default:false"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ProcessedAt   *time.Time `json:"processed_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// TableName specifies the table name
func (Refund) TableName() string {
	return "refunds"
}

func (r *Refund) transition(to RefundStatus) error {
	for _, next := range refundTransitions[r.Status] {
		if next == to {
			r.Status = to
			return nil
		}
	}
	return fmt.Errorf("%w: refund %s -> %s (%s)", ErrInvalidTransition, r.Status, to, r.UID)
}

// StartProcessing advances pending → processing.
func (r *Refund) StartProcessing(processor string, now time.Time) error {
	if err := r.transition(RefundProcessing); err != nil {
		return err
	}
	r.ProcessedBy = processor
	r.ProcessedAt = &now
	return nil
}

// Complete advances processing → completed.
func (r *Refund) Complete(now time.Time) error {
	if err := r.transition(RefundCompleted); err != nil {
		return err
	}
	r.CompletedAt = &now
	return nil
}

// Fail terminates the refund on either side of processing.
func (r *Refund) Fail() error {
	return r.transition(RefundFailed)
}

// RefundRepository defines the contract for refund data access
type RefundRepository interface {
	Create(ctx context.Context, refund *Refund) error
	FindByID(ctx context.Context, id uint) (*Refund, error)
	FindByOrderID(ctx context.Context, orderID uint) ([]Refund, error)
	FindAll(ctx context.Context, limit, offset int) ([]Refund, error)
	Save(ctx context.Context, refund *Refund) error
}
