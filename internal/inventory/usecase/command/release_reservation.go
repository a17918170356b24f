package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
	"github.com/boutiquegn/backoffice/pkg/logger"
	"github.com/boutiquegn/backoffice/pkg/metrics"
)

// ReleaseReservationCommand represents the command to return a reserved
// quantity to availability.
type ReleaseReservationCommand struct {
	ReservationID uuid.UUID
	Actor         string
}

// ReleaseReservationHandler handles release reservation command
type ReleaseReservationHandler struct {
	store  domain.LedgerStore
	audits AuditRecorder
}

// NewReleaseReservationHandler creates a new release reservation handler
func NewReleaseReservationHandler(store domain.LedgerStore, audits AuditRecorder) *ReleaseReservationHandler {
	return &ReleaseReservationHandler{store: store, audits: audits}
}

// Handle executes the release reservation command. Releasing an unknown or
// already settled reservation succeeds without effect, so callers can retry
// a release safely.
func (h *ReleaseReservationHandler) Handle(ctx context.Context, cmd ReleaseReservationCommand) error {
	if cmd.ReservationID == uuid.Nil {
		return fmt.Errorf("reservation_id is required")
	}

	handle, err := h.store.FindReservation(ctx, cmd.ReservationID)
	if err != nil {
		if errors.Is(err, domain.ErrReservationNotFound) {
			logger.Debug(ctx).
				Str("reservation_id", cmd.ReservationID.String()).
				Msg("Release of unknown reservation ignored")
			return nil
		}
		return fmt.Errorf("failed to resolve reservation: %w", err)
	}
	if !handle.IsActive() {
		return nil
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
		// Re-check under the lock: another release may have won the race.
		if !reservation.IsActive() {
			return nil
		}
		before = snapshotStock(stock)

		if err := stock.Release(reservation, domain.ReservationReleased, nowUTC()); err != nil {
			return err
		}
		if err := tx.SaveStock(stock); err != nil {
			return err
		}
		if err := tx.SaveReservation(reservation); err != nil {
			return err
		}
		after = snapshotStock(stock)
		return nil
	})
	recordStockAudit(ctx, h.audits, "stock.release", cmd.Actor, before, after, err)
	if err != nil {
		return fmt.Errorf("failed to release reservation: %w", err)
	}

	if after != nil {
		metrics.ReservationsActive.Dec()
	}
	return nil
}
