package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	invdomain "github.com/boutiquegn/backoffice/internal/inventory/domain"
	"github.com/boutiquegn/backoffice/internal/product/domain"
)

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{})
}

// Create inserts the product together with its stock row at zero quantity
// and the genesis ledger entry, in one transaction. There is no window in
// which the product exists without a stock.
func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		stock := &invdomain.Stock{
			ProductID: product.ID,
			Status:    invdomain.StatusOutOfStock,
		}
		if err := tx.Create(stock).Error; err != nil {
			return fmt.Errorf("failed to create stock for product %d: %w", product.ID, err)
		}

		genesis := &invdomain.StockMovement{
			ProductID: product.ID,
			Type:      invdomain.MovementAdjustment,
			Reason:    "initial stock creation",
			Actor:     "system",
			CreatedAt: now,
		}
		if err := genesis.Validate(); err != nil {
			return err
		}
		if err := tx.Create(genesis).Error; err != nil {
			return fmt.Errorf("failed to write genesis movement for product %d: %w", product.ID, err)
		}
		return nil
	})
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", domain.ErrProductNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: sku %s", domain.ErrProductNotFound, sku)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Find(&products).Error
	return products, err
}

func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes the product and its stock row together. The movement
// ledger is never deleted; it remains the audit trail.
func (r *GormProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&invdomain.Stock{}).Error; err != nil {
			return fmt.Errorf("failed to delete stock for product %d: %w", id, err)
		}
		if err := tx.Delete(&domain.Product{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete product %d: %w", id, err)
		}
		return nil
	})
}
