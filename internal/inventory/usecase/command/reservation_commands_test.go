package command

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
)

func TestReserveStock(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(10, 0, 5))
	handler := NewReserveStockHandler(store, nil)

	r, err := handler.Handle(ctx, ReserveStockCommand{
		ProductID: 1,
		Quantity:  3,
		OrderRef:  "CMD-2026-01-0001",
	})
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.Equal(t, domain.ReservationActive, r.Status)
	require.NotNil(t, r.ExpiresAt, "zero TTL applies the default lease")
	assert.WithinDuration(t, time.Now().UTC().Add(DefaultReservationTTL), *r.ExpiresAt, time.Minute)

	stock, _ := store.FindStock(ctx, 1)
	assert.Equal(t, 10, stock.CurrentQuantity, "reserving never moves physical quantity")
	assert.Equal(t, 3, stock.ReservedQuantity)
	assert.Equal(t, 7, stock.AvailableQuantity())

	// no ledger entry until the reservation is committed
	movements, _ := store.ListMovements(ctx, domain.MovementFilter{})
	assert.Empty(t, movements)
}

func TestReserveStock_TTLSemantics(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(10, 0, 5))
	handler := NewReserveStockHandler(store, nil)

	custom, err := handler.Handle(ctx, ReserveStockCommand{
		ProductID: 1, Quantity: 1, OrderRef: "a", TTL: 5 * time.Minute,
	})
	require.NoError(t, err)
	require.NotNil(t, custom.ExpiresAt)
	assert.WithinDuration(t, time.Now().UTC().Add(5*time.Minute), *custom.ExpiresAt, time.Minute)

	forever, err := handler.Handle(ctx, ReserveStockCommand{
		ProductID: 1, Quantity: 1, OrderRef: "b", TTL: -1,
	})
	require.NoError(t, err)
	assert.Nil(t, forever.ExpiresAt)
}

func TestReserveStock_Insufficient(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(10, 8, 5))
	handler := NewReserveStockHandler(store, nil)

	_, err := handler.Handle(ctx, ReserveStockCommand{ProductID: 1, Quantity: 3, OrderRef: "x"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	stock, _ := store.FindStock(ctx, 1)
	assert.Equal(t, 8, stock.ReservedQuantity, "rejected claim leaves nothing behind")
}

func TestReserveStock_ConcurrentLastUnit(t *testing.T) {
	// 100 goroutines race for the last unit: exactly one claim may win.
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(1, 0, 0))
	handler := NewReserveStockHandler(store, nil)

	const attempts = 100
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := handler.Handle(ctx, ReserveStockCommand{
				ProductID: 1,
				Quantity:  1,
				OrderRef:  "race",
			})
			errs[i] = err
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, succeeded)

	stock, _ := store.FindStock(ctx, 1)
	assert.Equal(t, 1, stock.ReservedQuantity)
	assert.Equal(t, 0, stock.AvailableQuantity())
	total, _ := store.SumActiveReservations(ctx, 1)
	assert.Equal(t, 1, total, "no oversell under concurrency")
}

func TestReleaseReservation(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(10, 0, 5))
	reserve := NewReserveStockHandler(store, nil)
	release := NewReleaseReservationHandler(store, nil)

	r, err := reserve.Handle(ctx, ReserveStockCommand{ProductID: 1, Quantity: 4, OrderRef: "x"})
	require.NoError(t, err)

	require.NoError(t, release.Handle(ctx, ReleaseReservationCommand{ReservationID: r.ID, Actor: "ops"}))

	stock, _ := store.FindStock(ctx, 1)
	assert.Equal(t, 0, stock.ReservedQuantity)
	assert.Equal(t, 10, stock.AvailableQuantity())

	settled, _ := store.FindReservation(ctx, r.ID)
	assert.Equal(t, domain.ReservationReleased, settled.Status)
}

func TestReleaseReservation_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(10, 0, 5))
	reserve := NewReserveStockHandler(store, nil)
	release := NewReleaseReservationHandler(store, nil)

	r, err := reserve.Handle(ctx, ReserveStockCommand{ProductID: 1, Quantity: 4, OrderRef: "x"})
	require.NoError(t, err)

	require.NoError(t, release.Handle(ctx, ReleaseReservationCommand{ReservationID: r.ID}))
	// second release of the same handle is a no-op, not an error
	require.NoError(t, release.Handle(ctx, ReleaseReservationCommand{ReservationID: r.ID}))

	stock, _ := store.FindStock(ctx, 1)
	assert.Equal(t, 0, stock.ReservedQuantity, "quantity returned exactly once")

	// unknown handles release fine too
	require.NoError(t, release.Handle(ctx, ReleaseReservationCommand{ReservationID: uuid.New()}))
}

func TestCommitReservation(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(10, 0, 5))
	reserve := NewReserveStockHandler(store, nil)
	commit := NewCommitReservationHandler(store, nil, nil)

	r, err := reserve.Handle(ctx, ReserveStockCommand{ProductID: 1, Quantity: 3, OrderRef: "CMD-2026-01-0002"})
	require.NoError(t, err)

	require.NoError(t, commit.Handle(ctx, CommitReservationCommand{ReservationID: r.ID, Actor: "system"}))

	stock, _ := store.FindStock(ctx, 1)
	assert.Equal(t, 7, stock.CurrentQuantity)
	assert.Equal(t, 0, stock.ReservedQuantity)

	movements, _ := store.ListMovements(ctx, domain.MovementFilter{ProductID: 1})
	require.Len(t, movements, 1)
	assert.Equal(t, domain.MovementOutbound, movements[0].Type)
	assert.Equal(t, 10, movements[0].QuantityBefore)
	assert.Equal(t, 7, movements[0].QuantityAfter)
	assert.Contains(t, movements[0].Reason, "CMD-2026-01-0002")
}

func TestCommitReservation_SingleUse(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(10, 0, 5))
	reserve := NewReserveStockHandler(store, nil)
	commit := NewCommitReservationHandler(store, nil, nil)

	r, err := reserve.Handle(ctx, ReserveStockCommand{ProductID: 1, Quantity: 3, OrderRef: "x"})
	require.NoError(t, err)

	require.NoError(t, commit.Handle(ctx, CommitReservationCommand{ReservationID: r.ID, Actor: "system"}))

	err = commit.Handle(ctx, CommitReservationCommand{ReservationID: r.ID, Actor: "system"})
	assert.ErrorIs(t, err, domain.ErrReservationNotFound)

	stock, _ := store.FindStock(ctx, 1)
	assert.Equal(t, 7, stock.CurrentQuantity, "deducted exactly once")

	// unknown handles are an error, unlike release
	err = commit.Handle(ctx, CommitReservationCommand{ReservationID: uuid.New(), Actor: "system"})
	assert.ErrorIs(t, err, domain.ErrReservationNotFound)
}

func TestCommitAfterRelease(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(10, 0, 5))
	reserve := NewReserveStockHandler(store, nil)
	release := NewReleaseReservationHandler(store, nil)
	commit := NewCommitReservationHandler(store, nil, nil)

	r, err := reserve.Handle(ctx, ReserveStockCommand{ProductID: 1, Quantity: 3, OrderRef: "x"})
	require.NoError(t, err)
	require.NoError(t, release.Handle(ctx, ReleaseReservationCommand{ReservationID: r.ID}))

	err = commit.Handle(ctx, CommitReservationCommand{ReservationID: r.ID, Actor: "system"})
	assert.ErrorIs(t, err, domain.ErrReservationNotFound)

	stock, _ := store.FindStock(ctx, 1)
	assert.Equal(t, 10, stock.CurrentQuantity)
}

func TestExpireReservations(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(10, 0, 5))
	reserve := NewReserveStockHandler(store, nil)
	audits := &capturingAuditRecorder{}
	sweeper := NewExpireReservationsHandler(store, audits)

	stale, err := reserve.Handle(ctx, ReserveStockCommand{ProductID: 1, Quantity: 2, OrderRef: "stale", TTL: time.Nanosecond})
	require.NoError(t, err)
	fresh, err := reserve.Handle(ctx, ReserveStockCommand{ProductID: 1, Quantity: 3, OrderRef: "fresh", TTL: time.Hour})
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	expired, err := sweeper.Handle(ctx, ExpireReservationsCommand{})
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	staleRes, _ := store.FindReservation(ctx, stale.ID)
	assert.Equal(t, domain.ReservationExpired, staleRes.Status)
	freshRes, _ := store.FindReservation(ctx, fresh.ID)
	assert.Equal(t, domain.ReservationActive, freshRes.Status)

	stock, _ := store.FindStock(ctx, 1)
	assert.Equal(t, 3, stock.ReservedQuantity, "only the stale claim was reclaimed")
	assert.Contains(t, audits.actions(), "stock.expire_reservation")

	// a second sweep finds nothing
	expired, err = sweeper.Handle(ctx, ExpireReservationsCommand{})
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
}
