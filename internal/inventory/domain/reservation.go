package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReservationStatus tracks the lifecycle of a stock claim.
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationReleased  ReservationStatus = "released"
	ReservationCommitted ReservationStatus = "committed"
	ReservationExpired   ReservationStatus = "expired"
)

// Reservation is a temporary claim on stock that reduces availability
// without reducing physical quantity. Single-use: once committed or
// released the handle is dead.
type Reservation struct {
	ID        uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID uint              `json:"product_id" gorm:"not null;index"`
	OrderRef  string            `json:"order_ref" gorm:"size:40;index"`
	Quantity  int               `json:"quantity" gorm:"not null"`
	Status    ReservationStatus `json:"status" gorm:"size:20;not null;default:'active';index"`
	ExpiresAt *time.Time        `json:"expires_at" gorm:"index"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// TableName specifies the table name
func (Reservation) TableName() string {
	return "stock_reservations"
}

// IsActive reports whether the reservation still holds stock.
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationActive
}

// Reserve claims quantity against the stock's availability and returns the
// handle. Rejected, never clamped, when the request exceeds availability:
// two concurrent claims on the last unit must not both succeed.
func (s *Stock) Reserve(qty int, orderRef string, expiresAt *time.Time, now time.Time) (*Reservation, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: reserve quantity must be positive, got %d", ErrInvalidQuantity, qty)
	}
	if s.Discontinued {
		return nil, fmt.Errorf("%w: product %d takes no new reservations", ErrStockDiscontinued, s.ProductID)
	}
	if qty > s.AvailableQuantity() {
		return nil, fmt.Errorf("%w: cannot reserve %d of product %d (available %d)",
			ErrInsufficientStock, qty, s.ProductID, s.AvailableQuantity())
	}
	s.ReservedQuantity += qty
	s.refreshStatus()
	if err := s.checkInvariants(); err != nil {
		return nil, err
	}
	return &Reservation{
		ID:        uuid.New(),
		ProductID: s.ProductID,
		OrderRef:  orderRef,
		Quantity:  qty,
		Status:    ReservationActive,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Release returns a reservation's quantity to availability. The released
// flag is passed so an expiry sweep can mark the row expired instead.
func (s *Stock) Release(r *Reservation, to ReservationStatus, now time.Time) error {
	if !r.IsActive() {
		return fmt.Errorf("%w: reservation %s is %s", ErrReservationNotFound, r.ID, r.Status)
	}
	if r.ProductID != s.ProductID {
		return fmt.Errorf("%w: reservation %s belongs to product %d, not %d",
			ErrConsistencyViolation, r.ID, r.ProductID, s.ProductID)
	}
	s.ReservedQuantity -= r.Quantity
	s.refreshStatus()
	if err := s.checkInvariants(); err != nil {
		return err
	}
	r.Status = to
	r.UpdatedAt = now
	return nil
}

// Commit converts a reservation into a permanent deduction: both the
// reserved and the on-hand quantity drop by the reserved amount, and one
// outbound movement records the fulfillment.
func (s *Stock) Commit(r *Reservation, actor string, now time.Time) (*StockMovement, error) {
	if !r.IsActive() {
		return nil, fmt.Errorf("%w: reservation %s is %s", ErrReservationNotFound, r.ID, r.Status)
	}
	if r.ProductID != s.ProductID {
		return nil, fmt.Errorf("%w: reservation %s belongs to product %d, not %d",
			ErrConsistencyViolation, r.ID, r.ProductID, s.ProductID)
	}
	before := s.CurrentQuantity
	s.CurrentQuantity -= r.Quantity
	s.ReservedQuantity -= r.Quantity
	s.touch(now)
	reason := fmt.Sprintf("order fulfillment (%s)", r.OrderRef)
	m, err := s.movement(MovementOutbound, -r.Quantity, before, reason, actor, now)
	if err != nil {
		return nil, err
	}
	r.Status = ReservationCommitted
	r.UpdatedAt = now
	return m, nil
}
