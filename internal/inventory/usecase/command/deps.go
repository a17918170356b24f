package command

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	auditdomain "github.com/boutiquegn/backoffice/internal/audit/domain"
	"github.com/boutiquegn/backoffice/internal/inventory/domain"
	"github.com/boutiquegn/backoffice/kafka"
	"github.com/boutiquegn/backoffice/pkg/logger"
)

// AlertPublisher raises threshold alerts on the event bus. Handlers accept a
// nil publisher when no broker is configured.
type AlertPublisher interface {
	PublishStockAlert(ctx context.Context, event kafka.StockAlertEvent) error
}

// AuditRecorder appends an audit record for a ledger mutation. Never fails
// the mutation it describes.
type AuditRecorder interface {
	Record(ctx context.Context, rec auditdomain.Record)
}

// emitStockAlerts inspects a freshly mutated stock row and publishes any
// threshold alerts it now qualifies for. Publish failures are logged only.
func emitStockAlerts(ctx context.Context, alerts AlertPublisher, s *domain.Stock) {
	if alerts == nil || s == nil {
		return
	}
	now := time.Now()
	publish := func(alertType string, threshold int) {
		event := kafka.StockAlertEvent{
			EventID:         uuid.New().String(),
			EventType:       kafka.EventTypeStockAlert,
			ProductID:       s.ProductID,
			AlertType:       alertType,
			CurrentQuantity: s.CurrentQuantity,
			Threshold:       threshold,
			Status:          string(s.Status),
			Timestamp:       now,
		}
		if err := alerts.PublishStockAlert(ctx, event); err != nil {
			logger.Error(ctx).
				Err(err).
				Uint("product_id", s.ProductID).
				Str("alert_type", alertType).
				Msg("Failed to publish stock alert")
		}
	}

	switch s.Status {
	case domain.StatusOutOfStock:
		publish(kafka.AlertOutOfStock, 0)
	case domain.StatusLowStock:
		publish(kafka.AlertLowStock, s.MinQuantity)
	}
	if s.CurrentQuantity > s.MaxQuantity {
		publish(kafka.AlertOverstock, s.MaxQuantity)
	}
	if s.NeedsReorder() {
		publish(kafka.AlertReorder, s.ReorderQuantity)
	}
}

// recordStockAudit writes the audit trail entry for a stock mutation.
func recordStockAudit(ctx context.Context, audits AuditRecorder, action, actor string, before, after *domain.Stock, opErr error) {
	if audits == nil {
		return
	}
	rec := auditdomain.Record{
		Actor:         actor,
		Action:        action,
		ObjectType:    "stock",
		RequestOrigin: auditdomain.OriginFrom(ctx),
		Success:       opErr == nil,
	}
	if opErr != nil {
		rec.ErrorMessage = opErr.Error()
	}
	if before != nil {
		rec.ObjectID = fmt.Sprintf("%d", before.ProductID)
		if raw, err := json.Marshal(before); err == nil {
			rec.Before = raw
		}
	}
	if after != nil {
		rec.ObjectID = fmt.Sprintf("%d", after.ProductID)
		if raw, err := json.Marshal(after); err == nil {
			rec.After = raw
		}
	}
	audits.Record(ctx, rec)
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func snapshotStock(s *domain.Stock) *domain.Stock {
	if s == nil {
		return nil
	}
	copied := *s
	return &copied
}
