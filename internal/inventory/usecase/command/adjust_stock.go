package command

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
	"github.com/boutiquegn/backoffice/pkg/metrics"
)

// AdjustStockCommand represents the command to set an absolute stock level,
// typically after a stocktake or to correct a data error.
type AdjustStockCommand struct {
	ProductID   uint
	NewQuantity int
	Category    domain.AdjustmentCategory
	Reason      string
	Actor       string
}

// AdjustStockHandler handles adjust stock command
type AdjustStockHandler struct {
	store  domain.LedgerStore
	alerts AlertPublisher
	audits AuditRecorder
}

// NewAdjustStockHandler creates a new adjust stock handler
func NewAdjustStockHandler(store domain.LedgerStore, alerts AlertPublisher, audits AuditRecorder) *AdjustStockHandler {
	return &AdjustStockHandler{store: store, alerts: alerts, audits: audits}
}

// Handle executes the adjust stock command. Adjusting to the current
// quantity is a no-op and appends nothing to the ledger.
func (h *AdjustStockHandler) Handle(ctx context.Context, cmd AdjustStockCommand) error {
	if cmd.ProductID == 0 {
		return fmt.Errorf("product_id is required")
	}
	if cmd.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	if !cmd.Category.Valid() {
		return fmt.Errorf("unknown adjustment category %q", cmd.Category)
	}

	var before, after *domain.Stock
	var moved bool
	err := h.store.Update(ctx, cmd.ProductID, func(tx domain.LedgerTx) error {
		stock, err := tx.Stock()
		if err != nil {
			return err
		}
		before = snapshotStock(stock)

		movement, err := stock.AdjustTo(cmd.NewQuantity, cmd.Category, cmd.Reason, cmd.Actor, nowUTC())
		if err != nil {
			return err
		}
		if movement == nil {
			after = snapshotStock(stock)
			return nil
		}
		if err := tx.SaveStock(stock); err != nil {
			return err
		}
		if err := tx.AppendMovement(movement); err != nil {
			return err
		}
		after = snapshotStock(stock)
		moved = true
		return nil
	})
	recordStockAudit(ctx, h.audits, "stock.adjust", cmd.Actor, before, after, err)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}

	if moved {
		metrics.StockMovements.WithLabelValues(string(domain.MovementAdjustment)).Inc()
		emitStockAlerts(ctx, h.alerts, after)
	}
	return nil
}
