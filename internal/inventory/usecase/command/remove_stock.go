package command

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
	"github.com/boutiquegn/backoffice/pkg/metrics"
)

// RemoveStockCommand represents the command to take quantity out of stock
type RemoveStockCommand struct {
	ProductID uint
	Quantity  int
	Reason    string
	Actor     string
}

// RemoveStockHandler handles remove stock command
type RemoveStockHandler struct {
	store  domain.LedgerStore
	alerts AlertPublisher
	audits AuditRecorder
}

// NewRemoveStockHandler creates a new remove stock handler
func NewRemoveStockHandler(store domain.LedgerStore, alerts AlertPublisher, audits AuditRecorder) *RemoveStockHandler {
	return &RemoveStockHandler{store: store, alerts: alerts, audits: audits}
}

// Handle executes the remove stock command
func (h *RemoveStockHandler) Handle(ctx context.Context, cmd RemoveStockCommand) error {
	if cmd.ProductID == 0 {
		return fmt.Errorf("product_id is required")
	}
	if cmd.Reason == "" {
		return fmt.Errorf("reason is required")
	}

	var before, after *domain.Stock
	err := h.store.Update(ctx, cmd.ProductID, func(tx domain.LedgerTx) error {
		stock, err := tx.Stock()
		if err != nil {
			return err
		}
		before = snapshotStock(stock)

		movement, err := stock.Remove(cmd.Quantity, cmd.Reason, cmd.Actor, nowUTC())
		if err != nil {
			return err
		}
		if err := tx.SaveStock(stock); err != nil {
			return err
		}
		if err := tx.AppendMovement(movement); err != nil {
			return err
		}
		after = snapshotStock(stock)
		return nil
	})
	recordStockAudit(ctx, h.audits, "stock.remove", cmd.Actor, before, after, err)
	if err != nil {
		return fmt.Errorf("failed to remove stock: %w", err)
	}

	metrics.StockMovements.WithLabelValues(string(domain.MovementOutbound)).Inc()
	emitStockAlerts(ctx, h.alerts, after)
	return nil
}
