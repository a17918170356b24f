package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStock_Reserve(t *testing.T) {
	now := time.Now().UTC()
	s := newTestStock(10, 0, 5)

	r, err := s.Reserve(3, "CMD-2026-01-0001", nil, now)
	require.NoError(t, err)

	// reserving reduces availability, not physical quantity
	assert.Equal(t, 10, s.CurrentQuantity)
	assert.Equal(t, 3, s.ReservedQuantity)
	assert.Equal(t, 7, s.AvailableQuantity())

	assert.Equal(t, ReservationActive, r.Status)
	assert.Equal(t, 3, r.Quantity)
	assert.Equal(t, "CMD-2026-01-0001", r.OrderRef)
	assert.True(t, r.IsActive())
	assert.Nil(t, r.ExpiresAt)
}

func TestStock_Reserve_RejectedNotClamped(t *testing.T) {
	s := newTestStock(10, 8, 5)

	_, err := s.Reserve(3, "ref", nil, time.Now())
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 8, s.ReservedQuantity)

	_, err = s.Reserve(0, "ref", nil, time.Now())
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestStock_Reserve_Discontinued(t *testing.T) {
	s := newTestStock(10, 0, 5)
	s.SetDiscontinued(true)

	_, err := s.Reserve(1, "ref", nil, time.Now())
	assert.ErrorIs(t, err, ErrStockDiscontinued)
	assert.Equal(t, 0, s.ReservedQuantity)
}

func TestStock_Release(t *testing.T) {
	now := time.Now().UTC()
	s := newTestStock(10, 0, 5)

	r, err := s.Reserve(4, "ref", nil, now)
	require.NoError(t, err)

	require.NoError(t, s.Release(r, ReservationReleased, now))
	assert.Equal(t, 10, s.CurrentQuantity)
	assert.Equal(t, 0, s.ReservedQuantity)
	assert.Equal(t, ReservationReleased, r.Status)

	// a settled handle cannot be released again
	err = s.Release(r, ReservationReleased, now)
	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.Equal(t, 0, s.ReservedQuantity)
}

func TestStock_Release_Expired(t *testing.T) {
	now := time.Now().UTC()
	s := newTestStock(10, 0, 5)

	r, err := s.Reserve(4, "ref", nil, now)
	require.NoError(t, err)

	require.NoError(t, s.Release(r, ReservationExpired, now))
	assert.Equal(t, ReservationExpired, r.Status)
	assert.Equal(t, 10, s.AvailableQuantity())
}

func TestStock_Release_WrongProduct(t *testing.T) {
	now := time.Now().UTC()
	s := newTestStock(10, 0, 5)
	other := newTestStock(10, 0, 5)
	other.ProductID = 2

	r, err := other.Reserve(1, "ref", nil, now)
	require.NoError(t, err)

	err = s.Release(r, ReservationReleased, now)
	assert.ErrorIs(t, err, ErrConsistencyViolation)
}

func TestStock_Commit(t *testing.T) {
	now := time.Now().UTC()
	s := newTestStock(10, 0, 5)

	r, err := s.Reserve(3, "CMD-2026-01-0002", nil, now)
	require.NoError(t, err)

	m, err := s.Commit(r, "system", now)
	require.NoError(t, err)

	// commit deducts both sides and leaves one outbound movement
	assert.Equal(t, 7, s.CurrentQuantity)
	assert.Equal(t, 0, s.ReservedQuantity)
	assert.Equal(t, ReservationCommitted, r.Status)

	assert.Equal(t, MovementOutbound, m.Type)
	assert.Equal(t, -3, m.Quantity)
	assert.Equal(t, 10, m.QuantityBefore)
	assert.Equal(t, 7, m.QuantityAfter)
	assert.Contains(t, m.Reason, "CMD-2026-01-0002")
}

func TestStock_Commit_SingleUse(t *testing.T) {
	now := time.Now().UTC()
	s := newTestStock(10, 0, 5)

	r, err := s.Reserve(3, "ref", nil, now)
	require.NoError(t, err)

	_, err = s.Commit(r, "system", now)
	require.NoError(t, err)

	_, err = s.Commit(r, "system", now)
	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.Equal(t, 7, s.CurrentQuantity)

	// nor can a committed handle be released
	err = s.Release(r, ReservationReleased, now)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestStock_Commit_AfterRelease(t *testing.T) {
	now := time.Now().UTC()
	s := newTestStock(10, 0, 5)

	r, err := s.Reserve(3, "ref", nil, now)
	require.NoError(t, err)
	require.NoError(t, s.Release(r, ReservationReleased, now))

	_, err = s.Commit(r, "system", now)
	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.Equal(t, 10, s.CurrentQuantity)
}
