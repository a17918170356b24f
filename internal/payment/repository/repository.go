package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/boutiquegn/backoffice/internal/payment/domain"
)

// Not-found sentinels for payment lookups.
var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrRefundNotFound  = errors.New("refund not found")
)

type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Payment{}, &domain.Refund{})
}

// WithTx returns a repository bound to an existing transaction.
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: tx}
}

func (r *GormPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *GormPaymentRepository) FindByID(ctx context.Context, id uint) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).First(&payment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrPaymentNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *GormPaymentRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *GormPaymentRepository) FindCapturedByOrderID(ctx context.Context, orderID uint) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, domain.StatusCaptured).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no captured payment for order %d", ErrPaymentNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *GormPaymentRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&payments).Error
	return payments, err
}

func (r *GormPaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// GormRefundRepository persists refunds.
type GormRefundRepository struct {
	db *gorm.DB
}

func NewGormRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

// WithTx returns a repository bound to an existing transaction.
func (r *GormRefundRepository) WithTx(tx *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: tx}
}

func (r *GormRefundRepository) Create(ctx context.Context, refund *domain.Refund) error {
	return r.db.WithContext(ctx).Create(refund).Error
}

func (r *GormRefundRepository) FindByID(ctx context.Context, id uint) (*domain.Refund, error) {
	var refund domain.Refund
	err := r.db.WithContext(ctx).First(&refund, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrRefundNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *GormRefundRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.Refund, error) {
	var refunds []domain.Refund
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&refunds).Error
	return refunds, err
}

func (r *GormRefundRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Refund, error) {
	var refunds []domain.Refund
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&refunds).Error
	return refunds, err
}

func (r *GormRefundRepository) Save(ctx context.Context, refund *domain.Refund) error {
	return r.db.WithContext(ctx).Save(refund).Error
}
