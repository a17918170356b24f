package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStock(current, reserved, min int) *Stock {
	s := &Stock{
		ProductID:        1,
		CurrentQuantity:  current,
		ReservedQuantity: reserved,
		MinQuantity:      min,
		MaxQuantity:      1000,
		ReorderQuantity:  10,
	}
	s.refreshStatus()
	return s
}

func TestEvaluateStatus(t *testing.T) {
	tests := []struct {
		name         string
		current      int
		reserved     int
		min          int
		discontinued bool
		want         StockStatus
	}{
		{"above threshold", 100, 0, 5, false, StatusAvailable},
		{"exactly at threshold", 5, 0, 5, false, StatusLowStock},
		{"below threshold", 3, 0, 5, false, StatusLowStock},
		{"zero quantity", 0, 0, 5, false, StatusOutOfStock},
		{"discontinued wins over available", 100, 0, 5, true, StatusDiscontinued},
		{"discontinued wins over zero", 0, 0, 5, true, StatusDiscontinued},
		{"reservations do not change status", 10, 9, 5, false, StatusAvailable},
		{"zero threshold", 1, 0, 0, false, StatusAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateStatus(tt.current, tt.reserved, tt.min, tt.discontinued)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStock_Add(t *testing.T) {
	now := time.Now().UTC()
	s := newTestStock(0, 0, 5)

	m, err := s.Add(20, "supplier delivery", "alice", now)
	require.NoError(t, err)

	assert.Equal(t, 20, s.CurrentQuantity)
	assert.Equal(t, StatusAvailable, s.Status)
	assert.Equal(t, MovementInbound, m.Type)
	assert.Equal(t, 20, m.Quantity)
	assert.Equal(t, 0, m.QuantityBefore)
	assert.Equal(t, 20, m.QuantityAfter)
	assert.Equal(t, "alice", m.Actor)
	require.NotNil(t, s.LastMovement)
	assert.Equal(t, now, *s.LastMovement)
}

func TestStock_Add_RejectsNonPositive(t *testing.T) {
	s := newTestStock(10, 0, 5)

	for _, qty := range []int{0, -5} {
		_, err := s.Add(qty, "x", "alice", time.Now())
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
	assert.Equal(t, 10, s.CurrentQuantity)
}

func TestStock_Remove(t *testing.T) {
	now := time.Now().UTC()
	s := newTestStock(10, 0, 5)

	m, err := s.Remove(6, "damaged goods", "bob", now)
	require.NoError(t, err)

	assert.Equal(t, 4, s.CurrentQuantity)
	assert.Equal(t, StatusLowStock, s.Status)
	assert.Equal(t, MovementOutbound, m.Type)
	assert.Equal(t, -6, m.Quantity)
	assert.Equal(t, 10, m.QuantityBefore)
	assert.Equal(t, 4, m.QuantityAfter)

	m, err = s.Remove(4, "damaged goods", "bob", now)
	require.NoError(t, err)
	assert.Equal(t, 0, s.CurrentQuantity)
	assert.Equal(t, StatusOutOfStock, s.Status)
	assert.Equal(t, 0, m.QuantityAfter)
}

func TestStock_Remove_InsufficientStock(t *testing.T) {
	s := newTestStock(10, 0, 5)

	_, err := s.Remove(11, "x", "bob", time.Now())
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 10, s.CurrentQuantity)
}

func TestStock_Remove_BoundedByAvailability(t *testing.T) {
	// 10 on hand with 4 reserved: only 6 are removable.
	s := newTestStock(10, 4, 5)

	_, err := s.Remove(7, "x", "bob", time.Now())
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = s.Remove(6, "x", "bob", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 4, s.CurrentQuantity)
	assert.Equal(t, 4, s.ReservedQuantity)
	assert.Equal(t, 0, s.AvailableQuantity())
}

func TestStock_AdjustTo(t *testing.T) {
	now := time.Now().UTC()
	s := newTestStock(10, 0, 5)

	m, err := s.AdjustTo(25, AdjustStocktake, "annual count", "carol", now)
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, 25, s.CurrentQuantity)
	assert.Equal(t, MovementAdjustment, m.Type)
	assert.Equal(t, 15, m.Quantity)
	assert.Equal(t, 10, m.QuantityBefore)
	assert.Equal(t, 25, m.QuantityAfter)
	assert.Contains(t, m.Reason, "stocktake")
	assert.Contains(t, m.Reason, "annual count")
}

func TestStock_AdjustTo_NoOp(t *testing.T) {
	s := newTestStock(10, 0, 5)
	before := *s

	m, err := s.AdjustTo(10, AdjustManualCorrection, "same value", "carol", time.Now())
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Equal(t, before.CurrentQuantity, s.CurrentQuantity)
	assert.Equal(t, before.LastMovement, s.LastMovement)
}

func TestStock_AdjustTo_Rejections(t *testing.T) {
	s := newTestStock(10, 4, 5)

	_, err := s.AdjustTo(-1, AdjustManualCorrection, "x", "carol", time.Now())
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// cannot drop below the reserved quantity
	_, err = s.AdjustTo(3, AdjustManualCorrection, "x", "carol", time.Now())
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 10, s.CurrentQuantity)
}

func TestStock_Return(t *testing.T) {
	now := time.Now().UTC()
	s := newTestStock(3, 0, 5)

	m, err := s.Return(2, "order cancelled (CMD-2026-01-0001)", "system", now)
	require.NoError(t, err)

	assert.Equal(t, 5, s.CurrentQuantity)
	assert.Equal(t, MovementReturn, m.Type)
	assert.Equal(t, 2, m.Quantity)
	assert.Equal(t, 3, m.QuantityBefore)
	assert.Equal(t, 5, m.QuantityAfter)
}

func TestStock_SetThresholds(t *testing.T) {
	s := newTestStock(4, 0, 5)
	assert.Equal(t, StatusLowStock, s.Status)

	require.NoError(t, s.SetThresholds(2, 100, 10))
	assert.Equal(t, 2, s.MinQuantity)
	assert.Equal(t, 100, s.MaxQuantity)
	// status re-derived against the new threshold
	assert.Equal(t, StatusAvailable, s.Status)

	assert.ErrorIs(t, s.SetThresholds(-1, 100, 10), ErrInvalidQuantity)
	assert.ErrorIs(t, s.SetThresholds(10, 5, 10), ErrInvalidQuantity)
}

func TestStock_SetDiscontinued(t *testing.T) {
	s := newTestStock(100, 0, 5)

	s.SetDiscontinued(true)
	assert.Equal(t, StatusDiscontinued, s.Status)

	s.SetDiscontinued(false)
	assert.Equal(t, StatusAvailable, s.Status)
}

func TestStock_NeedsReorder(t *testing.T) {
	s := newTestStock(8, 0, 5)
	s.ReorderQuantity = 10

	assert.False(t, s.NeedsReorder(), "auto reorder off")

	s.AutoReorder = true
	assert.True(t, s.NeedsReorder())

	s.CurrentQuantity = 11
	assert.False(t, s.NeedsReorder())

	s.CurrentQuantity = 8
	s.Discontinued = true
	assert.False(t, s.NeedsReorder(), "discontinued products are never reordered")
}

func TestStockMovement_Validate(t *testing.T) {
	ok := &StockMovement{Quantity: 5, QuantityBefore: 10, QuantityAfter: 15}
	assert.NoError(t, ok.Validate())

	badDelta := &StockMovement{Quantity: 5, QuantityBefore: 10, QuantityAfter: 16}
	assert.ErrorIs(t, badDelta.Validate(), ErrConsistencyViolation)

	negative := &StockMovement{Quantity: -5, QuantityBefore: 3, QuantityAfter: -2}
	assert.ErrorIs(t, negative.Validate(), ErrConsistencyViolation)
}

func TestAdjustmentCategory_Valid(t *testing.T) {
	assert.True(t, AdjustManualCorrection.Valid())
	assert.True(t, AdjustStocktake.Valid())
	assert.False(t, AdjustmentCategory("guess").Valid())
}
