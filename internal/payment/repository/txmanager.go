package repository

import (
	"context"

	"gorm.io/gorm"

	invdomain "github.com/boutiquegn/backoffice/internal/inventory/domain"
	invrepo "github.com/boutiquegn/backoffice/internal/inventory/repository"
	orderdomain "github.com/boutiquegn/backoffice/internal/order/domain"
	orderrepo "github.com/boutiquegn/backoffice/internal/order/repository"
	"github.com/boutiquegn/backoffice/internal/payment/domain"
	"github.com/boutiquegn/backoffice/internal/payment/usecase/command"
)

// GormTxManager implements command.TxManager on one PostgreSQL connection.
// Every aggregate handed out by the Tx view is bound to the same database
// transaction; ledger mutations nest as savepoints inside it.
type GormTxManager struct {
	db *gorm.DB
}

func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

func (m *GormTxManager) Do(ctx context.Context, fn func(tx command.Tx) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{tx: tx})
	})
}

type gormTx struct {
	tx *gorm.DB
}

func (t *gormTx) Payments() domain.PaymentRepository {
	return NewGormPaymentRepository(t.tx)
}

func (t *gormTx) Refunds() domain.RefundRepository {
	return NewGormRefundRepository(t.tx)
}

func (t *gormTx) Orders() orderdomain.OrderRepository {
	return orderrepo.NewGormOrderRepository(t.tx)
}

func (t *gormTx) Ledger() invdomain.LedgerStore {
	return invrepo.NewGormLedgerStore(t.tx)
}
