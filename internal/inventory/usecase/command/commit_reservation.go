package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
	"github.com/boutiquegn/backoffice/pkg/metrics"
)

// CommitReservationCommand represents the command to convert a reservation
// into a permanent stock deduction.
type CommitReservationCommand struct {
	ReservationID uuid.UUID
	Actor         string
}

// CommitReservationHandler handles commit reservation command
type CommitReservationHandler struct {
	store  domain.LedgerStore
	alerts AlertPublisher
	audits AuditRecorder
}

// NewCommitReservationHandler creates a new commit reservation handler
func NewCommitReservationHandler(store domain.LedgerStore, alerts AlertPublisher, audits AuditRecorder) *CommitReservationHandler {
	return &CommitReservationHandler{store: store, alerts: alerts, audits: audits}
}

// Handle executes the commit reservation command. Unlike release, commit is
// single-use: a second commit of the same reservation fails.
func (h *CommitReservationHandler) Handle(ctx context.Context, cmd CommitReservationCommand) error {
	if cmd.ReservationID == uuid.Nil {
		return fmt.Errorf("reservation_id is required")
	}

	handle, err := h.store.FindReservation(ctx, cmd.ReservationID)
	if err != nil {
		if errors.Is(err, domain.ErrReservationNotFound) {
			return fmt.Errorf("failed to commit: %w", err)
		}
		return fmt.Errorf("failed to resolve reservation: %w", err)
	}

	var before, after *domain.Stock
	err = h.store.Update(ctx, handle.ProductID, func(tx domain.LedgerTx) error {
		stock, err := tx.Stock()
		if err != nil {
			return err
		}
		reservation, err := tx.Reservation(cmd.ReservationID)
		if err != nil {
			return err
		}
		before = snapshotStock(stock)

		movement, err := stock.Commit(reservation, cmd.Actor, nowUTC())
		if err != nil {
			return err
		}
		if err := tx.SaveStock(stock); err != nil {
			return err
		}
		if err := tx.SaveReservation(reservation); err != nil {
			return err
		}
		if err := tx.AppendMovement(movement); err != nil {
			return err
		}
		after = snapshotStock(stock)
		return nil
	})
	recordStockAudit(ctx, h.audits, "stock.commit", cmd.Actor, before, after, err)
	if err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}

	metrics.ReservationsActive.Dec()
	metrics.StockMovements.WithLabelValues(string(domain.MovementOutbound)).Inc()
	emitStockAlerts(ctx, h.alerts, after)
	return nil
}
