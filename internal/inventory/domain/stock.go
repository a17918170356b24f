package domain

import (
	"fmt"
	"time"
)

// StockStatus is the human-facing availability state, derived from the
// quantities. Only the discontinued override is ever set directly.
type StockStatus string

const (
	StatusAvailable    StockStatus = "available"
	StatusLowStock     StockStatus = "low_stock"
	StatusOutOfStock   StockStatus = "out_of_stock"
	StatusDiscontinued StockStatus = "discontinued"
)

// EvaluateStatus maps ledger quantities and thresholds to a display status.
// Pure; callable from any component so threshold logic lives in one place.
func EvaluateStatus(current, reserved, min int, discontinued bool) StockStatus {
	_ = reserved // availability does not factor into the display status
	switch {
	case discontinued:
		return StatusDiscontinued
	case current == 0:
		return StatusOutOfStock
	case current <= min:
		return StatusLowStock
	default:
		return StatusAvailable
	}
}

// Stock tracks the on-hand and reserved quantity for one product. Exactly
// one row per product, created at zero quantity the instant the product is.
// All quantity changes go through the mutation methods below, which enforce
// the ledger invariants and produce the matching movement.
type Stock struct {
	ID               uint        `json:"id" gorm:"primaryKey"`
	ProductID        uint        `json:"product_id" gorm:"not null;uniqueIndex"`
	CurrentQuantity  int         `json:"current_quantity" gorm:"not null;default:0"`
	ReservedQuantity int         `json:"reserved_quantity" gorm:"not null;default:0"`
	MinQuantity      int         `json:"min_quantity" gorm:"not null;default:5"`
	MaxQuantity      int         `json:"max_quantity" gorm:"not null;default:1000"`
	ReorderQuantity  int         `json:"reorder_quantity" gorm:"not null;default:10"`
	Status           StockStatus `json:"status" gorm:"size:20;default:'out_of_stock'"`
	Discontinued     bool        `json:"discontinued" gorm:"not null;default:false"`
	AutoReorder      bool        `json:"auto_reorder" gorm:"not null;default:false"`
	LastMovement     *time.Time  `json:"last_movement"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TableName specifies the table name
func (Stock) TableName() string {
	return "stocks"
}

// AvailableQuantity is the on-hand quantity minus live reservations.
func (s *Stock) AvailableQuantity() int {
	return s.CurrentQuantity - s.ReservedQuantity
}

// NeedsReorder reports whether the auto-reorder flag and threshold call for
// a replenishment.
func (s *Stock) NeedsReorder() bool {
	return s.AutoReorder && !s.Discontinued && s.CurrentQuantity <= s.ReorderQuantity
}

func (s *Stock) refreshStatus() {
	s.Status = EvaluateStatus(s.CurrentQuantity, s.ReservedQuantity, s.MinQuantity, s.Discontinued)
}

func (s *Stock) touch(now time.Time) {
	s.LastMovement = &now
	s.refreshStatus()
}

// checkInvariants guards against a stock row leaving a mutation in an
// impossible state. Never expected to fire.
func (s *Stock) checkInvariants() error {
	if s.CurrentQuantity < 0 || s.ReservedQuantity < 0 {
		return fmt.Errorf("%w: negative quantity on product %d (current=%d reserved=%d)",
			ErrConsistencyViolation, s.ProductID, s.CurrentQuantity, s.ReservedQuantity)
	}
	if s.AvailableQuantity() < 0 {
		return fmt.Errorf("%w: negative availability on product %d (current=%d reserved=%d)",
			ErrConsistencyViolation, s.ProductID, s.CurrentQuantity, s.ReservedQuantity)
	}
	return nil
}

func (s *Stock) movement(t MovementType, delta int, before int, reason, actor string, now time.Time) (*StockMovement, error) {
	m := &StockMovement{
		ProductID:      s.ProductID,
		Type:           t,
		Quantity:       delta,
		QuantityBefore: before,
		QuantityAfter:  s.CurrentQuantity,
		Reason:         reason,
		Actor:          actor,
		CreatedAt:      now,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkInvariants(); err != nil {
		return nil, err
	}
	return m, nil
}

// Add receives quantity into stock and returns the inbound movement.
func (s *Stock) Add(qty int, reason, actor string, now time.Time) (*StockMovement, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: add quantity must be positive, got %d", ErrInvalidQuantity, qty)
	}
	before := s.CurrentQuantity
	s.CurrentQuantity += qty
	s.touch(now)
	return s.movement(MovementInbound, qty, before, reason, actor, now)
}

// Remove takes quantity out of stock. The removal is bounded by the
// available quantity so live reservations can never be starved.
func (s *Stock) Remove(qty int, reason, actor string, now time.Time) (*StockMovement, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: remove quantity must be positive, got %d", ErrInvalidQuantity, qty)
	}
	if qty > s.AvailableQuantity() {
		return nil, fmt.Errorf("%w: cannot remove %d from product %d (available %d)",
			ErrInsufficientStock, qty, s.ProductID, s.AvailableQuantity())
	}
	before := s.CurrentQuantity
	s.CurrentQuantity -= qty
	s.touch(now)
	return s.movement(MovementOutbound, -qty, before, reason, actor, now)
}

// AdjustTo sets the on-hand quantity to an absolute value, recording the
// signed delta as an adjustment movement tagged with its category so manual
// corrections stay distinguishable from normal flow. A no-op adjustment
// returns a nil movement.
func (s *Stock) AdjustTo(newQty int, category AdjustmentCategory, reason, actor string, now time.Time) (*StockMovement, error) {
	if newQty < 0 {
		return nil, fmt.Errorf("%w: adjusted quantity cannot be negative, got %d", ErrInvalidQuantity, newQty)
	}
	if newQty < s.ReservedQuantity {
		return nil, fmt.Errorf("%w: cannot adjust product %d below reserved quantity %d",
			ErrInsufficientStock, s.ProductID, s.ReservedQuantity)
	}
	before := s.CurrentQuantity
	delta := newQty - before
	if delta == 0 {
		return nil, nil
	}
	s.CurrentQuantity = newQty
	s.touch(now)
	tagged := fmt.Sprintf("[%s] %s (adjusted from %d to %d)", category, reason, before, newQty)
	return s.movement(MovementAdjustment, delta, before, tagged, actor, now)
}

// Return puts previously deducted quantity back, compensating an earlier
// outbound movement on cancellation or refund.
func (s *Stock) Return(qty int, reason, actor string, now time.Time) (*StockMovement, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: return quantity must be positive, got %d", ErrInvalidQuantity, qty)
	}
	before := s.CurrentQuantity
	s.CurrentQuantity += qty
	s.touch(now)
	return s.movement(MovementReturn, qty, before, reason, actor, now)
}

// SetThresholds replaces the reorder thresholds. Requires max >= min >= 0.
func (s *Stock) SetThresholds(min, max, reorder int) error {
	if min < 0 || reorder < 0 {
		return fmt.Errorf("%w: thresholds cannot be negative", ErrInvalidQuantity)
	}
	if max < min {
		return fmt.Errorf("%w: max threshold %d below min %d", ErrInvalidQuantity, max, min)
	}
	s.MinQuantity = min
	s.MaxQuantity = max
	s.ReorderQuantity = reorder
	s.refreshStatus()
	return nil
}

// SetDiscontinued toggles the one explicit status override. While set, the
// status is pinned regardless of quantity.
func (s *Stock) SetDiscontinued(discontinued bool) {
	s.Discontinued = discontinued
	s.refreshStatus()
}
