package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LedgerTx is the view of one product's ledger inside a serialized mutation.
// The stock row is exclusively held for the duration, so a movement append
// and its quantity update either both land or neither does.
type LedgerTx interface {
	// Stock returns the locked stock row for the product under mutation.
	Stock() (*Stock, error)
	// Reservation loads a reservation row for the product under mutation.
	Reservation(id uuid.UUID) (*Reservation, error)
	// SaveStock persists the mutated stock row.
	SaveStock(s *Stock) error
	// SaveReservation inserts or updates a reservation row.
	SaveReservation(r *Reservation) error
	// AppendMovement writes one immutable ledger entry.
	AppendMovement(m *StockMovement) error
}

// LedgerStore is the persistence contract for the stock ledger. Mutations on
// a given product are serialized through Update; reads may run concurrently.
type LedgerStore interface {
	// Update runs fn inside one transaction holding the product's stock row
	// exclusively. Returning an error rolls everything back.
	Update(ctx context.Context, productID uint, fn func(tx LedgerTx) error) error

	FindStock(ctx context.Context, productID uint) (*Stock, error)
	ListStocks(ctx context.Context, limit, offset int) ([]Stock, error)
	// FindReservation resolves a handle outside any transaction, e.g. to
	// discover which product a release applies to.
	FindReservation(ctx context.Context, id uuid.UUID) (*Reservation, error)
	SumActiveReservations(ctx context.Context, productID uint) (int, error)
	ListExpiredReservations(ctx context.Context, now time.Time, limit int) ([]Reservation, error)
	ListMovements(ctx context.Context, filter MovementFilter) ([]StockMovement, error)
	ListReorderNeeded(ctx context.Context) ([]Stock, error)
}
