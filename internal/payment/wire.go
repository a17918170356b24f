//go:build wireinject
// +build wireinject

package payment

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/boutiquegn/backoffice/internal/audit"
	orderdomain "github.com/boutiquegn/backoffice/internal/order/domain"
	orderrepo "github.com/boutiquegn/backoffice/internal/order/repository"
	"github.com/boutiquegn/backoffice/internal/payment/delivery/http"
	"github.com/boutiquegn/backoffice/internal/payment/domain"
	"github.com/boutiquegn/backoffice/internal/payment/repository"
	"github.com/boutiquegn/backoffice/internal/payment/usecase/command"
	"github.com/boutiquegn/backoffice/internal/payment/usecase/query"
	"github.com/boutiquegn/backoffice/kafka"
)

// ProvidePaymentRepository provides the payment repository
func ProvidePaymentRepository(db *gorm.DB) domain.PaymentRepository {
	return repository.NewGormPaymentRepository(db)
}

// ProvideRefundRepository provides the refund repository
func ProvideRefundRepository(db *gorm.DB) domain.RefundRepository {
	return repository.NewGormRefundRepository(db)
}

// ProvideOrderRepository provides the order repository
func ProvideOrderRepository(db *gorm.DB) orderdomain.OrderRepository {
	return orderrepo.NewGormOrderRepository(db)
}

// ProvideTxManager provides the cross-aggregate transaction manager
func ProvideTxManager(db *gorm.DB) command.TxManager {
	return repository.NewGormTxManager(db)
}

// ProvideOrderEventPublisher adapts the optional Kafka publisher
func ProvideOrderEventPublisher(publisher *kafka.Publisher) command.OrderEventPublisher {
	if publisher == nil {
		return nil
	}
	return publisher
}

// ProvideRefundEventPublisher adapts the optional Kafka publisher
func ProvideRefundEventPublisher(publisher *kafka.Publisher) command.RefundEventPublisher {
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
	ProvidePaymentRepository,
	ProvideRefundRepository,
	ProvideOrderRepository,
	ProvideTxManager,
	ProvideOrderEventPublisher,
	ProvideRefundEventPublisher,
	ProvideAuditRecorder,
)

var CommandSet = wire.NewSet(
	command.NewInitiatePaymentHandler,
	command.NewAuthorizePaymentHandler,
	command.NewCapturePaymentHandler,
	command.NewFailPaymentHandler,
	command.NewRequestRefundHandler,
	command.NewProcessRefundHandler,
	command.NewCompleteRefundHandler,
	command.NewFailRefundHandler,
)

var QuerySet = wire.NewSet(
	query.NewGetPaymentHandler,
	query.NewListPaymentsHandler,
	query.NewGetRefundHandler,
	query.NewListRefundsHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, publisher *kafka.Publisher, recorder *audit.Recorder) (*http.PaymentHandler, error) {
	wire.Build(
		RepositorySet,
		CommandSet,
		QuerySet,
		http.NewPaymentHandler,
	)
	return nil, nil
}
