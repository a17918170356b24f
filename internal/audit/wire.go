//go:build wireinject
// +build wireinject

package audit

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/boutiquegn/backoffice/internal/audit/delivery/http"
	"github.com/boutiquegn/backoffice/internal/audit/domain"
	"github.com/boutiquegn/backoffice/internal/audit/repository"
	"github.com/boutiquegn/backoffice/kafka"
)

// ProvideAuditRepository provides the audit repository
func ProvideAuditRepository(db *gorm.DB) domain.Repository {
	return repository.NewGormAuditRepository(db)
}

// ProvideEventPublisher adapts the optional Kafka publisher
func ProvideEventPublisher(publisher *kafka.Publisher) EventPublisher {
	if publisher == nil {
		return nil
	}
	return publisher
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideAuditRepository,
	ProvideEventPublisher,
)

// InitializeRecorder initializes the audit recorder
func InitializeRecorder(db *gorm.DB, publisher *kafka.Publisher) (*Recorder, error) {
	wire.Build(
		RepositorySet,
		NewRecorder,
	)
	return nil, nil
}

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*http.AuditHandler, error) {
	wire.Build(
		ProvideAuditRepository,
		http.NewAuditHandler,
	)
	return nil, nil
}
