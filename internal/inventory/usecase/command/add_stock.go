package command

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
	"github.com/boutiquegn/backoffice/pkg/metrics"
)

// AddStockCommand represents the command to receive quantity into stock
type AddStockCommand struct {
	ProductID uint
	Quantity  int
	Reason    string
	Actor     string
}

// AddStockHandler handles add stock command
type AddStockHandler struct {
	store  domain.LedgerStore
	alerts AlertPublisher
	audits AuditRecorder
}

// NewAddStockHandler creates a new add stock handler
func NewAddStockHandler(store domain.LedgerStore, alerts AlertPublisher, audits AuditRecorder) *AddStockHandler {
	return &AddStockHandler{store: store, alerts: alerts, audits: audits}
}

// Handle executes the add stock command
func (h *AddStockHandler) Handle(ctx context.Context, cmd AddStockCommand) error {
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

		movement, err := stock.Add(cmd.Quantity, cmd.Reason, cmd.Actor, nowUTC())
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
	recordStockAudit(ctx, h.audits, "stock.add", cmd.Actor, before, after, err)
	if err != nil {
		return fmt.Errorf("failed to add stock: %w", err)
	}

	metrics.StockMovements.WithLabelValues(string(domain.MovementInbound)).Inc()
	emitStockAlerts(ctx, h.alerts, after)
	return nil
}
