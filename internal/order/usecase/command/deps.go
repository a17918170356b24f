package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	auditdomain "github.com/boutiquegn/backoffice/internal/audit/domain"
	"github.com/boutiquegn/backoffice/internal/order/domain"
	"github.com/boutiquegn/backoffice/kafka"
	"github.com/boutiquegn/backoffice/pkg/logger"
)

// OrderEventPublisher notifies downstream services of order lifecycle
// transitions. Handlers accept a nil publisher when no broker is configured.
type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, event kafka.OrderEvent) error
}

// AuditRecorder appends an audit record for an order mutation. Never fails
// the mutation it describes.
type AuditRecorder interface {
	Record(ctx context.Context, rec auditdomain.Record)
}

// publishOrderEvent emits one lifecycle event for the order. Emission
// happens after the state change is durably stored, so a broker outage is
// logged rather than rolling back the transition.
func publishOrderEvent(ctx context.Context, publisher OrderEventPublisher, eventType string, o *domain.Order) {
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

// recordOrderAudit writes the audit trail entry for an order mutation.
func recordOrderAudit(ctx context.Context, audits AuditRecorder, action, actor string, before, after *domain.Order, opErr error) {
	if audits == nil {
		return
	}
	rec := auditdomain.Record{
		Actor:         actor,
		Action:        action,
		ObjectType:    "order",
		RequestOrigin: auditdomain.OriginFrom(ctx),
		Success:       opErr == nil,
	}
	if opErr != nil {
		rec.ErrorMessage = opErr.Error()
	}
	if before != nil {
		rec.ObjectID = fmt.Sprintf("%d", before.ID)
		if raw, err := json.Marshal(before); err == nil {
			rec.Before = raw
		}
	}
	if after != nil {
		rec.ObjectID = fmt.Sprintf("%d", after.ID)
		if raw, err := json.Marshal(after); err == nil {
			rec.After = raw
		}
	}
	audits.Record(ctx, rec)
}

func snapshotOrder(o *domain.Order) *domain.Order {
	if o == nil {
		return nil
	}
	copied := *o
	return &copied
}
