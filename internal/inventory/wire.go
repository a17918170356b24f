//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/boutiquegn/backoffice/internal/audit"
	"github.com/boutiquegn/backoffice/internal/inventory/delivery/http"
	"github.com/boutiquegn/backoffice/internal/inventory/domain"
	"github.com/boutiquegn/backoffice/internal/inventory/repository"
	"github.com/boutiquegn/backoffice/internal/inventory/usecase/command"
	"github.com/boutiquegn/backoffice/internal/inventory/usecase/query"
	"github.com/boutiquegn/backoffice/kafka"
)

// ProvideLedgerStore provides the traced ledger store
func ProvideLedgerStore(db *gorm.DB) domain.LedgerStore {
	return repository.NewLedgerStoreWithTracing(db)
}

// ProvideAlertPublisher adapts the optional Kafka publisher. A nil pointer
// must become a nil interface, or the handlers' nil checks never fire.
func ProvideAlertPublisher(publisher *kafka.Publisher) command.AlertPublisher {
	if publisher == nil {
		return nil
	}
	return publisher
}

// ProvideAuditRecorder adapts the optional audit recorder
func ProvideAuditRecorder(recorder *audit.Recorder) command.AuditRecorder {
	if recorder == nil {
		return nil
	}
	return recorder
}

// Wire sets
var StoreSet = wire.NewSet(
	ProvideLedgerStore,
	ProvideAlertPublisher,
	ProvideAuditRecorder,
)

var CommandSet = wire.NewSet(
	command.NewAddStockHandler,
	command.NewRemoveStockHandler,
	command.NewAdjustStockHandler,
	command.NewReturnStockHandler,
	command.NewReserveStockHandler,
	command.NewReleaseReservationHandler,
	command.NewCommitReservationHandler,
	command.NewSetThresholdsHandler,
	command.NewSetDiscontinuedHandler,
)

var QuerySet = wire.NewSet(
	query.NewGetStockHandler,
	query.NewListStocksHandler,
	query.NewGetReservationHandler,
	query.NewListMovementsHandler,
	query.NewListReorderNeededHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, publisher *kafka.Publisher, recorder *audit.Recorder) (*http.InventoryHandler, error) {
	wire.Build(
		StoreSet,
		CommandSet,
		QuerySet,
		http.NewInventoryHandler,
	)
	return nil, nil
}

// InitializeExpirySweeper initializes the reservation expiry sweeper
func InitializeExpirySweeper(db *gorm.DB, recorder *audit.Recorder) (*command.ExpireReservationsHandler, error) {
	wire.Build(
		ProvideLedgerStore,
		ProvideAuditRecorder,
		command.NewExpireReservationsHandler,
	)
	return nil, nil
}
