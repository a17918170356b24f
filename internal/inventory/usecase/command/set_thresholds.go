package command

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
)

// SetThresholdsCommand represents the command to update reorder thresholds
type SetThresholdsCommand struct {
	ProductID       uint
	MinQuantity     int
	MaxQuantity     int
	ReorderQuantity int
	AutoReorder     bool
	Actor           string
}

// SetThresholdsHandler handles set thresholds command
type SetThresholdsHandler struct {
	store  domain.LedgerStore
	audits AuditRecorder
}

// NewSetThresholdsHandler creates a new set thresholds handler
func NewSetThresholdsHandler(store domain.LedgerStore, audits AuditRecorder) *SetThresholdsHandler {
	return &SetThresholdsHandler{store: store, audits: audits}
}

// Handle executes the set thresholds command. Thresholds influence status
// and alerts only; no movement is written.
func (h *SetThresholdsHandler) Handle(ctx context.Context, cmd SetThresholdsCommand) error {
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

		if err := stock.SetThresholds(cmd.MinQuantity, cmd.MaxQuantity, cmd.ReorderQuantity); err != nil {
			return err
		}
		stock.AutoReorder = cmd.AutoReorder
		if err := tx.SaveStock(stock); err != nil {
			return err
		}
		after = snapshotStock(stock)
		return nil
	})
	recordStockAudit(ctx, h.audits, "stock.set_thresholds", cmd.Actor, before, after, err)
	if err != nil {
		return fmt.Errorf("failed to set thresholds: %w", err)
	}
	return nil
}
