package command

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
	"github.com/boutiquegn/backoffice/pkg/metrics"
)

// ReturnStockCommand represents the command to put previously deducted
// quantity back into stock, compensating an earlier outbound movement.
type ReturnStockCommand struct {
	ProductID uint
	Quantity  int
	Reason    string
	Actor     string
}

// ReturnStockHandler handles return stock command
type ReturnStockHandler struct {
	store  domain.LedgerStore
	alerts AlertPublisher
	audits AuditRecorder
}

// NewReturnStockHandler creates a new return stock handler
func NewReturnStockHandler(store domain.LedgerStore, alerts AlertPublisher, audits AuditRecorder) *ReturnStockHandler {
	return &ReturnStockHandler{store: store, alerts: alerts, audits: audits}
}

// Handle executes the return stock command
func (h *ReturnStockHandler) Handle(ctx context.Context, cmd ReturnStockCommand) error {
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

		movement, err := stock.Return(cmd.Quantity, cmd.Reason, cmd.Actor, nowUTC())
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
	recordStockAudit(ctx, h.audits, "stock.return", cmd.Actor, before, after, err)
	if err != nil {
		return fmt.Errorf("failed to return stock: %w", err)
	}

	metrics.StockMovements.WithLabelValues(string(domain.MovementReturn)).Inc()
	emitStockAlerts(ctx, h.alerts, after)
	return nil
}
