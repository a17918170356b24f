package domain

import "errors"

// Error taxonomy for the stock ledger. Callers match with errors.Is; the
// delivery layer maps each one to an HTTP status.
var (
	// ErrInsufficientStock is returned when a reservation or removal exceeds
	// the available quantity. Recoverable; the caller picks the fallback.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidQuantity is returned for non-positive or malformed
	// quantities. A caller bug, rejected before touching state.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrReservationNotFound is returned when a handle is unknown or no
	// longer active. Safe to ignore on the release path, fatal on commit.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrStockNotFound is returned when no stock row exists for a product.
	ErrStockNotFound = errors.New("stock not found")

	// ErrStockDiscontinued is returned when a reservation is attempted
	// against discontinued stock. Remaining units can still be returned or
	// adjusted, but no new claims are taken.
	ErrStockDiscontinued = errors.New("stock discontinued")

	// ErrConsistencyViolation signals a detected invariant breach. It must
	// never occur in correct operation; the mutation is halted rather than
	// persisting inconsistent state.
	ErrConsistencyViolation = errors.New("stock consistency violation")
)
