package command

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditdomain "github.com/boutiquegn/backoffice/internal/audit/domain"
	"github.com/boutiquegn/backoffice/internal/order/domain"
	"github.com/boutiquegn/backoffice/kafka"
)

// capturingOrderAudits records audit entries.
type capturingOrderAudits struct {
	mu      sync.Mutex
	records []auditdomain.Record
}

func (a *capturingOrderAudits) Record(ctx context.Context, rec auditdomain.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, rec)
}

// capturingOrderPublisher records published order events.
type capturingOrderPublisher struct {
	mu     sync.Mutex
	events []kafka.OrderEvent
}

func (p *capturingOrderPublisher) PublishOrderEvent(ctx context.Context, event kafka.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func seedOrder(t *testing.T, orders *memoryOrderRepository, status domain.OrderStatus) *domain.Order {
	t.Helper()
	order := &domain.Order{
		OrderNumber: "CMD-2026-08-0001",
		CustomerID:  42,
		Status:      status,
		TotalAmount: 150000,
	}
	require.NoError(t, orders.Create(context.Background(), order))
	return order
}

func TestShipOrder(t *testing.T) {
	ctx := context.Background()
	orders := newMemoryOrderRepository()
	publisher := &capturingOrderPublisher{}
	handler := NewShipOrderHandler(orders, publisher, nil)

	order := seedOrder(t, orders, domain.StatusPaid)

	require.NoError(t, handler.Handle(ctx, ShipOrderCommand{OrderID: order.ID, Actor: "warehouse"}))

	shipped, _ := orders.FindByID(ctx, order.ID)
	assert.Equal(t, domain.StatusShipped, shipped.Status)
	require.NotNil(t, shipped.ShippedAt)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, kafka.EventTypeOrderShipped, publisher.events[0].EventType)
	assert.Equal(t, "CMD-2026-08-0001", publisher.events[0].OrderNumber)
}

func TestShipOrder_RequiresPaid(t *testing.T) {
	ctx := context.Background()
	orders := newMemoryOrderRepository()
	publisher := &capturingOrderPublisher{}
	handler := NewShipOrderHandler(orders, publisher, nil)

	order := seedOrder(t, orders, domain.StatusPending)

	err := handler.Handle(ctx, ShipOrderCommand{OrderID: order.ID, Actor: "warehouse"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	unchanged, _ := orders.FindByID(ctx, order.ID)
	assert.Equal(t, domain.StatusPending, unchanged.Status)
	assert.Empty(t, publisher.events, "no event on rejected transition")
}

func TestDeliverOrder(t *testing.T) {
	ctx := context.Background()
	orders := newMemoryOrderRepository()
	publisher := &capturingOrderPublisher{}
	handler := NewDeliverOrderHandler(orders, publisher, nil)

	order := seedOrder(t, orders, domain.StatusShipped)

	require.NoError(t, handler.Handle(ctx, DeliverOrderCommand{OrderID: order.ID, Actor: "courier"}))

	delivered, _ := orders.FindByID(ctx, order.ID)
	assert.Equal(t, domain.StatusDelivered, delivered.Status)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, kafka.EventTypeOrderDelivered, publisher.events[0].EventType)
}

func TestReturnOrder(t *testing.T) {
	ctx := context.Background()
	orders := newMemoryOrderRepository()
	audits := &capturingOrderAudits{}
	handler := NewReturnOrderHandler(orders, audits)

	order := seedOrder(t, orders, domain.StatusDelivered)

	require.NoError(t, handler.Handle(ctx, ReturnOrderCommand{OrderID: order.ID, Actor: "support"}))

	returned, _ := orders.FindByID(ctx, order.ID)
	assert.Equal(t, domain.StatusReturned, returned.Status)
	require.Len(t, audits.records, 1)
	assert.Equal(t, "order.return", audits.records[0].Action)
}

func TestReturnOrder_RequiresDelivered(t *testing.T) {
	ctx := context.Background()
	orders := newMemoryOrderRepository()
	handler := NewReturnOrderHandler(orders, nil)

	order := seedOrder(t, orders, domain.StatusShipped)

	err := handler.Handle(ctx, ReturnOrderCommand{OrderID: order.ID, Actor: "support"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestShipOrder_UnknownOrder(t *testing.T) {
	ctx := context.Background()
	handler := NewShipOrderHandler(newMemoryOrderRepository(), nil, nil)

	err := handler.Handle(ctx, ShipOrderCommand{OrderID: 99, Actor: "warehouse"})
	assert.Error(t, err)
}

func TestOrderNumberFormat(t *testing.T) {
	ctx := context.Background()
	orders := newMemoryOrderRepository()

	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	first, err := orders.NextOrderNumber(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, "CMD-2026-08-0001", first)

	second, err := orders.NextOrderNumber(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, "CMD-2026-08-0002", second)
}
