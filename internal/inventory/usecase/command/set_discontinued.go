package command

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
)

// SetDiscontinuedCommand represents the command to toggle the discontinued
// status override on a product's stock.
type SetDiscontinuedCommand struct {
	ProductID    uint
	Discontinued bool
	Actor        string
}

// SetDiscontinuedHandler handles set discontinued command
type SetDiscontinuedHandler struct {
	store  domain.LedgerStore
	audits AuditRecorder
}

// NewSetDiscontinuedHandler creates a new set discontinued handler
func NewSetDiscontinuedHandler(store domain.LedgerStore, audits AuditRecorder) *SetDiscontinuedHandler {
	return &SetDiscontinuedHandler{store: store, audits: audits}
}

// Handle executes the set discontinued command
func (h *SetDiscontinuedHandler) Handle(ctx context.Context, cmd SetDiscontinuedCommand) error {
	if cmd.ProductID == 0 {
		return fmt.Errorf("product_id is required")
	}

	var before, after *domain.Stock
	err := h.store.Update(ctx, cmd.ProductID, func(tx domain.LedgerTx) error {
		stock, err := tx.Stock()
		if err != nil {
			return err
		}
		before = snapshotStock(stock)

		stock.SetDiscontinued(cmd.Discontinued)
		if err := tx.SaveStock(stock); err != nil {
			return err
		}
		after = snapshotStock(stock)
		return nil
	})
	recordStockAudit(ctx, h.audits, "stock.set_discontinued", cmd.Actor, before, after, err)
	if err != nil {
		return fmt.Errorf("failed to set discontinued: %w", err)
	}
	return nil
}
