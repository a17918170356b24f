package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrProductNotFound is returned when no product matches the lookup.
var ErrProductNotFound = errors.New("product not found")

// Product is catalog identity only: it holds no quantity. Its Stock row is
// created in the same transaction as the product, at zero quantity, so a
// product can never exist without one.
type Product struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"size:200;not null"`
	Description string         `json:"description"`
	SKU         string         `json:"sku" gorm:"size:60;uniqueIndex"`
	Price       float64        `json:"price" gorm:"not null"`
	Category    string         `json:"category" gorm:"size:100;index"`
	IsActive    bool           `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// ProductRepository defines the contract for product data access. Create
// must install the product's zero-quantity stock row atomically.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindAll(ctx context.Context, limit, offset int) ([]Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uint) error
}
