package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// LedgerStoreWithTracing decorates the gorm ledger store with spans around
// every store operation.
type LedgerStoreWithTracing struct {
	inner *GormLedgerStore
}

func NewLedgerStoreWithTracing(db *gorm.DB) *LedgerStoreWithTracing {
	return &LedgerStoreWithTracing{inner: NewGormLedgerStore(db)}
}

func (s *LedgerStoreWithTracing) AutoMigrate() error {
	return s.inner.AutoMigrate()
}

func (s *LedgerStoreWithTracing) Update(ctx context.Context, productID uint, fn func(tx domain.LedgerTx) error) error {
	ctx, span := tracer.Start(ctx, "ledger.Update",
		trace.WithAttributes(attribute.Int("stock.product_id", int(productID))),
	)
	defer span.End()

	err := s.inner.Update(ctx, productID, fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s *LedgerStoreWithTracing) FindStock(ctx context.Context, productID uint) (*domain.Stock, error) {
	ctx, span := tracer.Start(ctx, "ledger.FindStock",
		trace.WithAttributes(attribute.Int("stock.product_id", int(productID))),
	)
	defer span.End()

	stock, err := s.inner.FindStock(ctx, productID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("stock.current_quantity", stock.CurrentQuantity),
		attribute.Int("stock.reserved_quantity", stock.ReservedQuantity),
		attribute.String("stock.status", string(stock.Status)),
	)
	return stock, nil
}

func (s *LedgerStoreWithTracing) ListStocks(ctx context.Context, limit, offset int) ([]domain.Stock, error) {
	ctx, span := tracer.Start(ctx, "ledger.ListStocks",
		trace.WithAttributes(attribute.Int("query.limit", limit), attribute.Int("query.offset", offset)),
	)
	defer span.End()

	stocks, err := s.inner.ListStocks(ctx, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(stocks)))
	return stocks, nil
}

func (s *LedgerStoreWithTracing) FindReservation(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	ctx, span := tracer.Start(ctx, "ledger.FindReservation",
		trace.WithAttributes(attribute.String("reservation.id", id.String())),
	)
	defer span.End()

	res, err := s.inner.FindReservation(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res, nil
}

func (s *LedgerStoreWithTracing) SumActiveReservations(ctx context.Context, productID uint) (int, error) {
	ctx, span := tracer.Start(ctx, "ledger.SumActiveReservations",
		trace.WithAttributes(attribute.Int("stock.product_id", int(productID))),
	)
	defer span.End()

	sum, err := s.inner.SumActiveReservations(ctx, productID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	span.SetAttributes(attribute.Int("result.sum", sum))
	return sum, nil
}

func (s *LedgerStoreWithTracing) ListExpiredReservations(ctx context.Context, now time.Time, limit int) ([]domain.Reservation, error) {
	ctx, span := tracer.Start(ctx, "ledger.ListExpiredReservations")
	defer span.End()

	out, err := s.inner.ListExpiredReservations(ctx, now, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(out)))
	return out, nil
}

func (s *LedgerStoreWithTracing) ListMovements(ctx context.Context, filter domain.MovementFilter) ([]domain.StockMovement, error) {
	ctx, span := tracer.Start(ctx, "ledger.ListMovements",
		trace.WithAttributes(
			attribute.Int("filter.product_id", int(filter.ProductID)),
			attribute.String("filter.actor", filter.Actor),
		),
	)
	defer span.End()

	out, err := s.inner.ListMovements(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(out)))
	return out, nil
}

func (s *LedgerStoreWithTracing) ListReorderNeeded(ctx context.Context) ([]domain.Stock, error) {
	ctx, span := tracer.Start(ctx, "ledger.ListReorderNeeded")
	defer span.End()

	out, err := s.inner.ListReorderNeeded(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(out)))
	return out, nil
}
