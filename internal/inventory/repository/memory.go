package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
)

// MemoryLedgerStore is an in-process domain.LedgerStore. Mutations on a
// product are serialized with a per-product mutex, mirroring the row lock
// the PostgreSQL store takes. Used by the test suites and as the reference
// for the locking semantics the gorm store must provide.
type MemoryLedgerStore struct {
	mu           sync.Mutex
	locks        map[uint]*sync.Mutex
	stocks       map[uint]*domain.Stock
	reservations map[uuid.UUID]*domain.Reservation
	movements    []domain.StockMovement
	nextMoveID   uint
}

func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		locks:        make(map[uint]*sync.Mutex),
		stocks:       make(map[uint]*domain.Stock),
		reservations: make(map[uuid.UUID]*domain.Reservation),
	}
}

// SeedStock installs a stock row, creating it when absent.
func (s *MemoryLedgerStore) SeedStock(stock *domain.Stock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *stock
	s.stocks[stock.ProductID] = &cp
}

func (s *MemoryLedgerStore) productLock(productID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[productID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[productID] = l
	}
	return l
}

func (s *MemoryLedgerStore) Update(ctx context.Context, productID uint, fn func(tx domain.LedgerTx) error) error {
	lock := s.productLock(productID)
	lock.Lock()
	defer lock.Unlock()

	tx := &memoryLedgerTx{store: s, productID: productID}
	if err := fn(tx); err != nil {
		return err
	}
	tx.apply()
	return nil
}

// memoryLedgerTx buffers writes and applies them only when fn succeeds, so
// a failed mutation leaves no trace, same as a rolled-back transaction.
type memoryLedgerTx struct {
	store        *MemoryLedgerStore
	productID    uint
	stock        *domain.Stock
	reservations []*domain.Reservation
	movements    []*domain.StockMovement
}

func (t *memoryLedgerTx) Stock() (*domain.Stock, error) {
	if t.stock != nil {
		return t.stock, nil
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	stock, ok := t.store.stocks[t.productID]
	if !ok {
		return nil, fmt.Errorf("%w: product %d", domain.ErrStockNotFound, t.productID)
	}
	cp := *stock
	t.stock = &cp
	return t.stock, nil
}

func (t *memoryLedgerTx) Reservation(id uuid.UUID) (*domain.Reservation, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	res, ok := t.store.reservations[id]
	if !ok || res.ProductID != t.productID {
		return nil, fmt.Errorf("%w: %s", domain.ErrReservationNotFound, id)
	}
	cp := *res
	return &cp, nil
}

func (t *memoryLedgerTx) SaveStock(stock *domain.Stock) error {
	t.stock = stock
	return nil
}

func (t *memoryLedgerTx) SaveReservation(r *domain.Reservation) error {
	t.reservations = append(t.reservations, r)
	return nil
}

func (t *memoryLedgerTx) AppendMovement(m *domain.StockMovement) error {
	if err := m.Validate(); err != nil {
		return err
	}
	t.movements = append(t.movements, m)
	return nil
}

func (t *memoryLedgerTx) apply() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.stock != nil {
		cp := *t.stock
		t.store.stocks[t.productID] = &cp
	}
	for _, r := range t.reservations {
		cp := *r
		t.store.reservations[r.ID] = &cp
	}
	for _, m := range t.movements {
		t.store.nextMoveID++
		m.ID = t.store.nextMoveID
		t.store.movements = append(t.store.movements, *m)
	}
}

func (s *MemoryLedgerStore) FindStock(ctx context.Context, productID uint) (*domain.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stock, ok := s.stocks[productID]
	if !ok {
		return nil, fmt.Errorf("%w: product %d", domain.ErrStockNotFound, productID)
	}
	cp := *stock
	return &cp, nil
}

func (s *MemoryLedgerStore) ListStocks(ctx context.Context, limit, offset int) ([]domain.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []domain.Stock
	for _, stock := range s.stocks {
		all = append(all, *stock)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ProductID < all[j].ProductID })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (s *MemoryLedgerStore) FindReservation(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.reservations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrReservationNotFound, id)
	}
	cp := *res
	return &cp, nil
}

func (s *MemoryLedgerStore) SumActiveReservations(ctx context.Context, productID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := 0
	for _, r := range s.reservations {
		if r.ProductID == productID && r.Status == domain.ReservationActive {
			sum += r.Quantity
		}
	}
	return sum, nil
}

func (s *MemoryLedgerStore) ListExpiredReservations(ctx context.Context, now time.Time, limit int) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired []domain.Reservation
	for _, r := range s.reservations {
		if r.Status == domain.ReservationActive && r.ExpiresAt != nil && !r.ExpiresAt.After(now) {
			expired = append(expired, *r)
			if limit > 0 && len(expired) == limit {
				break
			}
		}
	}
	return expired, nil
}

func (s *MemoryLedgerStore) ListMovements(ctx context.Context, filter domain.MovementFilter) ([]domain.StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.StockMovement
	for _, m := range s.movements {
		if filter.ProductID != 0 && m.ProductID != filter.ProductID {
			continue
		}
		if filter.Actor != "" && m.Actor != filter.Actor {
			continue
		}
		if !filter.From.IsZero() && m.CreatedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && m.CreatedAt.After(filter.To) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *MemoryLedgerStore) ListReorderNeeded(ctx context.Context) ([]domain.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Stock
	for _, stock := range s.stocks {
		if stock.NeedsReorder() {
			out = append(out, *stock)
		}
	}
	return out, nil
}
