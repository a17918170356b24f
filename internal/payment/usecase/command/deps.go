package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	auditdomain "github.com/boutiquegn/backoffice/internal/audit/domain"
	invdomain "github.com/boutiquegn/backoffice/internal/inventory/domain"
	orderdomain "github.com/boutiquegn/backoffice/internal/order/domain"
	"github.com/boutiquegn/backoffice/internal/payment/domain"
	"github.com/boutiquegn/backoffice/kafka"
	"github.com/boutiquegn/backoffice/pkg/logger"
)

// Tx is the set of aggregates reachable inside one coordinated transaction.
// Capturing a payment and completing a refund both touch the payment, the
// order and the stock ledger; the transaction guarantees they move together.
type Tx interface {
	Payments() domain.PaymentRepository
	Refunds() domain.RefundRepository
	Orders() orderdomain.OrderRepository
	Ledger() invdomain.LedgerStore
}

// TxManager runs fn inside one transaction spanning every aggregate exposed
// by Tx. Returning an error rolls the whole step back.
type TxManager interface {
	Do(ctx context.Context, fn func(tx Tx) error) error
}

// OrderEventPublisher notifies downstream services of order transitions
// driven by the payment workflow.
type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, event kafka.OrderEvent) error
}

// RefundEventPublisher notifies downstream services of refund progress.
type RefundEventPublisher interface {
	PublishRefundEvent(ctx context.Context, event kafka.RefundEvent) error
}

// AuditRecorder appends an audit record for a payment mutation. Never fails
// the mutation it describes.
type AuditRecorder interface {
	Record(ctx context.Context, rec auditdomain.Record)
}

func publishOrderEvent(ctx context.Context, publisher OrderEventPublisher, eventType string, o *orderdomain.Order) {
	if publisher == nil {
		return
	}
	event := kafka.OrderEvent{
		EventID:     uuid.New().String(),
		EventType:   eventType,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		Timestamp:   o.UpdatedAt,
	}
	if err := publisher.PublishOrderEvent(ctx, event); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("event_type", eventType).
			Str("order_number", o.OrderNumber).
			Msg("Failed to publish order event")
	}
}

func publishRefundEvent(ctx context.Context, publisher RefundEventPublisher, eventType string, r *domain.Refund) {
	if publisher == nil {
		return
	}
	event := kafka.RefundEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		RefundID:  r.ID,
		OrderID:   r.OrderID,
		PaymentID: r.PaymentID,
		Amount:    r.Amount,
		Reason:    r.Reason,
		Status:    string(r.Status),
		Timestamp: r.UpdatedAt,
	}
	if err := publisher.PublishRefundEvent(ctx, event); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("event_type", eventType).
			Uint("refund_id", r.ID).
			Msg("Failed to publish refund event")
	}
}

func recordAudit(ctx context.Context, audits AuditRecorder, action, actor, objectType string, objectID uint, before, after any, opErr error) {
	if audits == nil {
		return
	}
	rec := auditdomain.Record{
		Actor:         actor,
		Action:        action,
		ObjectType:    objectType,
		ObjectID:      fmt.Sprintf("%d", objectID),
		RequestOrigin: auditdomain.OriginFrom(ctx),
		Success:       opErr == nil,
	}
	if opErr != nil {
		rec.ErrorMessage = opErr.Error()
	}
	if before != nil {
		if raw, err := json.Marshal(before); err == nil {
			rec.Before = raw
		}
	}
	if after != nil {
		if raw, err := json.Marshal(after); err == nil {
			rec.After = raw
		}
	}
	audits.Record(ctx, rec)
}
