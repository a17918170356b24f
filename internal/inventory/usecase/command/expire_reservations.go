package command

import (
	"context"
	"fmt"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
	"github.com/boutiquegn/backoffice/pkg/logger"
	"github.com/boutiquegn/backoffice/pkg/metrics"
)

// ExpireReservationsCommand represents the command to reclaim stock from
// reservations whose lease has lapsed. Run periodically by the sweeper.
type ExpireReservationsCommand struct {
	Limit int
}

// ExpireReservationsHandler handles expire reservations command
type ExpireReservationsHandler struct {
	store  domain.LedgerStore
	audits AuditRecorder
}

// NewExpireReservationsHandler creates a new expire reservations handler
func NewExpireReservationsHandler(store domain.LedgerStore, audits AuditRecorder) *ExpireReservationsHandler {
	return &ExpireReservationsHandler{store: store, audits: audits}
}

// Handle executes one sweep and returns the number of reservations expired.
// Each reservation is reclaimed in its own transaction so one bad row does
// not block the rest of the batch.
func (h *ExpireReservationsHandler) Handle(ctx context.Context, cmd ExpireReservationsCommand) (int, error) {
	limit := cmd.Limit
	if limit <= 0 {
		limit = 100
	}

	now := nowUTC()
	candidates, err := h.store.ListExpiredReservations(ctx, now, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired reservations: %w", err)
	}

	expired := 0
	for i := range candidates {
		candidate := candidates[i]
		var before, after *domain.Stock
		err := h.store.Update(ctx, candidate.ProductID, func(tx domain.LedgerTx) error {
			stock, err := tx.Stock()
			if err != nil {
				return err
			}
			reservation, err := tx.Reservation(candidate.ID)
			if err != nil {
				return err
			}
			// The reservation may have been settled since the listing.
			if !reservation.IsActive() {
				return nil
			}
			before = snapshotStock(stock)

			if err := stock.Release(reservation, domain.ReservationExpired, now); err != nil {
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
		if err != nil {
			logger.Error(ctx).
				Err(err).
				Str("reservation_id", candidate.ID.String()).
				Uint("product_id", candidate.ProductID).
				Msg("Failed to expire reservation")
			continue
		}
		if after == nil {
			continue
		}
		recordStockAudit(ctx, h.audits, "stock.expire_reservation", "system", before, after, nil)
		metrics.ReservationsActive.Dec()
		expired++
	}

	if expired > 0 {
		logger.Info(ctx).Int("count", expired).Msg("Expired stale reservations")
	}
	return expired, nil
}
