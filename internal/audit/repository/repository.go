package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/boutiquegn/backoffice/internal/audit/domain"
)

// GormAuditRepository persists audit records. Append and query only; the
// table has no update path.
type GormAuditRepository struct {
	db *gorm.DB
}

func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

func (r *GormAuditRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Record{})
}

func (r *GormAuditRepository) Append(ctx context.Context, rec *domain.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *GormAuditRepository) List(ctx context.Context, filter domain.Filter) ([]domain.Record, error) {
	q := r.db.WithContext(ctx).Model(&domain.Record{})
	if filter.Actor != "" {
		q = q.Where("actor = ?", filter.Actor)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.ObjectType != "" {
		q = q.Where("object_type = ?", filter.ObjectType)
	}
	if filter.ObjectID != "" {
		q = q.Where("object_id = ?", filter.ObjectID)
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
	var records []domain.Record
	err := q.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&records).Error
	return records, err
}
