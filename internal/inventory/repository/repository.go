package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
)

// GormLedgerStore implements domain.LedgerStore on PostgreSQL. Per-product
// serialization comes from SELECT ... FOR UPDATE on the stock row: every
// mutation locks the row first, so the movement append and the quantity
// update land in the same transaction or not at all.
type GormLedgerStore struct {
	db *gorm.DB
}

func NewGormLedgerStore(db *gorm.DB) *GormLedgerStore {
	return &GormLedgerStore{db: db}
}

func (s *GormLedgerStore) AutoMigrate() error {
	return s.db.AutoMigrate(&domain.Stock{}, &domain.StockMovement{}, &domain.Reservation{})
}

// WithTx returns a store bound to an existing transaction, for callers that
// coordinate the ledger with other aggregates in one atomic step.
func (s *GormLedgerStore) WithTx(tx *gorm.DB) *GormLedgerStore {
	return &GormLedgerStore{db: tx}
}

func (s *GormLedgerStore) Update(ctx context.Context, productID uint, fn func(tx domain.LedgerTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerTx{tx: tx, productID: productID})
	})
}

type gormLedgerTx struct {
	tx        *gorm.DB
	productID uint
	stock     *domain.Stock
}

func (t *gormLedgerTx) Stock() (*domain.Stock, error) {
	if t.stock != nil {
		return t.stock, nil
	}
	var stock domain.Stock
	err := t.tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", t.productID).
		First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", domain.ErrStockNotFound, t.productID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock stock row: %w", err)
	}
	t.stock = &stock
	return t.stock, nil
}

func (t *gormLedgerTx) Reservation(id uuid.UUID) (*domain.Reservation, error) {
	var res domain.Reservation
	err := t.tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND product_id = ?", id, t.productID).
		First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrReservationNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}
	return &res, nil
}

func (t *gormLedgerTx) SaveStock(stock *domain.Stock) error {
	return t.tx.Save(stock).Error
}

func (t *gormLedgerTx) SaveReservation(r *domain.Reservation) error {
	return t.tx.Save(r).Error
}

func (t *gormLedgerTx) AppendMovement(m *domain.StockMovement) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return t.tx.Create(m).Error
}

func (s *GormLedgerStore) FindStock(ctx context.Context, productID uint) (*domain.Stock, error) {
	var stock domain.Stock
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", domain.ErrStockNotFound, productID)
	}
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (s *GormLedgerStore) ListStocks(ctx context.Context, limit, offset int) ([]domain.Stock, error) {
	var stocks []domain.Stock
	err := s.db.WithContext(ctx).
		Order("updated_at DESC").
		Limit(limit).Offset(offset).
		Find(&stocks).Error
	return stocks, err
}

func (s *GormLedgerStore) FindReservation(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	var res domain.Reservation
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrReservationNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *GormLedgerStore) SumActiveReservations(ctx context.Context, productID uint) (int, error) {
	var sum int64
	err := s.db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("product_id = ? AND status = ?", productID, domain.ReservationActive).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error
	return int(sum), err
}

func (s *GormLedgerStore) ListExpiredReservations(ctx context.Context, now time.Time, limit int) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	err := s.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", domain.ReservationActive, now).
		Limit(limit).
		Find(&reservations).Error
	return reservations, err
}

func (s *GormLedgerStore) ListMovements(ctx context.Context, filter domain.MovementFilter) ([]domain.StockMovement, error) {
	q := s.db.WithContext(ctx).Model(&domain.StockMovement{})
	if filter.ProductID != 0 {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.Actor != "" {
		q = q.Where("actor = ?", filter.Actor)
	}
	if !filter.From.IsZero() {
		q = q.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("created_at <= ?", filter.To)
	}
	limit := filter.Limit
	if limit == 0 {
		limit = 100
	}
	var movements []domain.StockMovement
	err := q.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&movements).Error
	return movements, err
}

func (s *GormLedgerStore) ListReorderNeeded(ctx context.Context) ([]domain.Stock, error) {
	var stocks []domain.Stock
	err := s.db.WithContext(ctx).
		Where("auto_reorder = ? AND discontinued = ? AND current_quantity <= reorder_quantity", true, false).
		Find(&stocks).Error
	return stocks, err
}
