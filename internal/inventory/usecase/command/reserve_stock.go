package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
	"github.com/boutiquegn/backoffice/pkg/metrics"
)

// DefaultReservationTTL bounds how long an unconfirmed claim can hold stock
// before the expiry sweep reclaims it.
const DefaultReservationTTL = 30 * time.Minute

// ReserveStockCommand represents the command to place a temporary claim on
// stock. A zero TTL applies the default lease; a negative TTL disables
// expiry for the reservation.
type ReserveStockCommand struct {
	ProductID uint
	Quantity  int
	OrderRef  string
	TTL       time.Duration
}

// ReserveStockHandler handles reserve stock command
type ReserveStockHandler struct {
	store  domain.LedgerStore
	audits AuditRecorder
}

// NewReserveStockHandler creates a new reserve stock handler
func NewReserveStockHandler(store domain.LedgerStore, audits AuditRecorder) *ReserveStockHandler {
	return &ReserveStockHandler{store: store, audits: audits}
}

// Handle executes the reserve stock command and returns the reservation
// handle. Requests beyond availability are rejected, never partially filled.
func (h *ReserveStockHandler) Handle(ctx context.Context, cmd ReserveStockCommand) (*domain.Reservation, error) {
	if cmd.ProductID == 0 {
		return nil, fmt.Errorf("product_id is required")
	}

	now := nowUTC()
	var expiresAt *time.Time
	switch {
	case cmd.TTL == 0:
		t := now.Add(DefaultReservationTTL)
		expiresAt = &t
	case cmd.TTL > 0:
		t := now.Add(cmd.TTL)
		expiresAt = &t
	}

	var before, after *domain.Stock
	var reservation *domain.Reservation
	err := h.store.Update(ctx, cmd.ProductID, func(tx domain.LedgerTx) error {
		stock, err := tx.Stock()
		if err != nil {
			return err
		}
		before = snapshotStock(stock)

		reservation, err = stock.Reserve(cmd.Quantity, cmd.OrderRef, expiresAt, now)
		if err != nil {
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
	recordStockAudit(ctx, h.audits, "stock.reserve", cmd.OrderRef, before, after, err)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			metrics.ReservationsRejected.Inc()
		}
		return nil, fmt.Errorf("failed to reserve stock: %w", err)
	}

	metrics.ReservationsActive.Inc()
	return reservation, nil
}
