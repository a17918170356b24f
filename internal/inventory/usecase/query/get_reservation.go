package query

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
)

// GetReservationQuery represents the query to get a reservation by ID
type GetReservationQuery struct {
	ReservationID uuid.UUID
}

// GetReservationHandler handles get reservation query
type GetReservationHandler struct {
	store domain.LedgerStore
}

// NewGetReservationHandler creates a new get reservation handler
func NewGetReservationHandler(store domain.LedgerStore) *GetReservationHandler {
	return &GetReservationHandler{store: store}
}

// Handle executes the get reservation query
func (h *GetReservationHandler) Handle(ctx context.Context, q GetReservationQuery) (*domain.Reservation, error) {
	if q.ReservationID == uuid.Nil {
		return nil, fmt.Errorf("reservation_id is required")
	}

	reservation, err := h.store.FindReservation(ctx, q.ReservationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return reservation, nil
}
