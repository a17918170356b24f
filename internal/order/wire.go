//go:build wireinject
// +build wireinject

package order

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/boutiquegn/backoffice/internal/audit"
	"github.com/boutiquegn/backoffice/internal/inventory"
	invcommand "github.com/boutiquegn/backoffice/internal/inventory/usecase/command"
	"github.com/boutiquegn/backoffice/internal/order/delivery/http"
	"github.com/boutiquegn/backoffice/internal/order/domain"
	"github.com/boutiquegn/backoffice/internal/order/repository"
	"github.com/boutiquegn/backoffice/internal/order/usecase/command"
	"github.com/boutiquegn/backoffice/internal/order/usecase/query"
	productdomain "github.com/boutiquegn/backoffice/internal/product/domain"
	productrepo "github.com/boutiquegn/backoffice/internal/product/repository"
	"github.com/boutiquegn/backoffice/kafka"
)

// ProvideOrderRepository provides the order repository
func ProvideOrderRepository(db *gorm.DB) domain.OrderRepository {
	return repository.NewGormOrderRepository(db)
}

// ProvideProductRepository provides the product repository
func ProvideProductRepository(db *gorm.DB) productdomain.ProductRepository {
	return productrepo.NewGormProductRepository(db)
}

// ProvideOrderEventPublisher adapts the optional Kafka publisher
func ProvideOrderEventPublisher(publisher *kafka.Publisher) command.OrderEventPublisher {
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
var RepositorySet = wire.NewSet(
	ProvideOrderRepository,
	ProvideProductRepository,
	ProvideOrderEventPublisher,
	ProvideAuditRecorder,
)

var InventorySet = wire.NewSet(
	inventory.ProvideLedgerStore,
	inventory.ProvideAlertPublisher,
	inventory.ProvideAuditRecorder,
	invcommand.NewReserveStockHandler,
	invcommand.NewReleaseReservationHandler,
	invcommand.NewReturnStockHandler,
)

var CommandSet = wire.NewSet(
	command.NewCreateOrderHandler,
	command.NewShipOrderHandler,
	command.NewDeliverOrderHandler,
	command.NewCancelOrderHandler,
	command.NewReturnOrderHandler,
)

var QuerySet = wire.NewSet(
	query.NewGetOrderHandler,
	query.NewListOrdersHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, publisher *kafka.Publisher, recorder *audit.Recorder) (*http.OrderHandler, error) {
	wire.Build(
		RepositorySet,
		InventorySet,
		CommandSet,
		QuerySet,
		http.NewOrderHandler,
	)
	return nil, nil
}
