package command

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	auditdomain "github.com/boutiquegn/backoffice/internal/audit/domain"
	invdomain "github.com/boutiquegn/backoffice/internal/inventory/domain"
	orderdomain "github.com/boutiquegn/backoffice/internal/order/domain"
	orderrepo "github.com/boutiquegn/backoffice/internal/order/repository"
	"github.com/boutiquegn/backoffice/internal/payment/domain"
	"github.com/boutiquegn/backoffice/kafka"
)

// memoryPaymentRepository is an in-memory PaymentRepository for handler tests.
type memoryPaymentRepository struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*domain.Payment
}

func newMemoryPaymentRepository() *memoryPaymentRepository {
	return &memoryPaymentRepository{rows: make(map[uint]*domain.Payment)}
}

func (m *memoryPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	payment.ID = m.nextID
	copied := *payment
	m.rows[payment.ID] = &copied
	return nil
}

func (m *memoryPaymentRepository) FindByID(ctx context.Context, id uint) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("payment %d not found", id)
	}
	copied := *p
	return &copied, nil
}

func (m *memoryPaymentRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Payment
	for _, p := range m.rows {
		if p.OrderID == orderID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memoryPaymentRepository) FindCapturedByOrderID(ctx context.Context, orderID uint) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.rows {
		if p.OrderID == orderID && p.Status == domain.StatusCaptured {
			copied := *p
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("no captured payment for order %d", orderID)
}

func (m *memoryPaymentRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Payment
	for _, p := range m.rows {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memoryPaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *payment
	m.rows[payment.ID] = &copied
	return nil
}

// memoryRefundRepository is an in-memory RefundRepository for handler tests.
type memoryRefundRepository struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*domain.Refund
}

func newMemoryRefundRepository() *memoryRefundRepository {
	return &memoryRefundRepository{rows: make(map[uint]*domain.Refund)}
}

func (m *memoryRefundRepository) Create(ctx context.Context, refund *domain.Refund) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	refund.ID = m.nextID
	copied := *refund
	m.rows[refund.ID] = &copied
	return nil
}

func (m *memoryRefundRepository) FindByID(ctx context.Context, id uint) (*domain.Refund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("refund %d not found", id)
	}
	copied := *r
	return &copied, nil
}

func (m *memoryRefundRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.Refund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Refund
	for _, r := range m.rows {
		if r.OrderID == orderID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memoryRefundRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Refund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Refund
	for _, r := range m.rows {
		out = append(out, *r)
	}
	return out, nil
}

func (m *memoryRefundRepository) Save(ctx context.Context, refund *domain.Refund) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *refund
	m.rows[refund.ID] = &copied
	return nil
}

// memoryOrderRepository covers the order access the payment workflow needs.
type memoryOrderRepository struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*orderdomain.Order
}

func newMemoryOrderRepository() *memoryOrderRepository {
	return &memoryOrderRepository{rows: make(map[uint]*orderdomain.Order)}
}

func (m *memoryOrderRepository) Create(ctx context.Context, order *orderdomain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	order.ID = m.nextID
	copied := *order
	m.rows[order.ID] = &copied
	return nil
}

func (m *memoryOrderRepository) FindByID(ctx context.Context, id uint) (*orderdomain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", orderrepo.ErrOrderNotFound, id)
	}
	copied := *o
	return &copied, nil
}

func (m *memoryOrderRepository) FindByNumber(ctx context.Context, number string) (*orderdomain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.rows {
		if o.OrderNumber == number {
			copied := *o
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", orderrepo.ErrOrderNotFound, number)
}

func (m *memoryOrderRepository) FindByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]orderdomain.Order, error) {
	return nil, nil
}

func (m *memoryOrderRepository) FindAll(ctx context.Context, limit, offset int) ([]orderdomain.Order, error) {
	return nil, nil
}

func (m *memoryOrderRepository) Save(ctx context.Context, order *orderdomain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *order
	m.rows[order.ID] = &copied
	return nil
}

func (m *memoryOrderRepository) NextOrderNumber(ctx context.Context, now time.Time) (string, error) {
	return fmt.Sprintf("CMD-%04d-%02d-0001", now.Year(), int(now.Month())), nil
}

// memoryLedger is the same staging-transaction ledger used by the inventory
// handler tests, trimmed to what the payment workflow touches.
type memoryLedger struct {
	mu           sync.Mutex
	stocks       map[uint]*invdomain.Stock
	reservations map[uuid.UUID]*invdomain.Reservation
	movements    []invdomain.StockMovement
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{
		stocks:       make(map[uint]*invdomain.Stock),
		reservations: make(map[uuid.UUID]*invdomain.Reservation),
	}
}

type memoryLedgerTx struct {
	ledger    *memoryLedger
	productID uint

	stock        *invdomain.Stock
	reservations map[uuid.UUID]*invdomain.Reservation
	movements    []invdomain.StockMovement
}

func (t *memoryLedgerTx) Stock() (*invdomain.Stock, error) {
	if t.stock != nil {
		copied := *t.stock
		return &copied, nil
	}
	s, ok := t.ledger.stocks[t.productID]
	if !ok {
		return nil, fmt.Errorf("%w: product %d", invdomain.ErrStockNotFound, t.productID)
	}
	copied := *s
	return &copied, nil
}

func (t *memoryLedgerTx) Reservation(id uuid.UUID) (*invdomain.Reservation, error) {
	if r, ok := t.reservations[id]; ok {
		copied := *r
		return &copied, nil
	}
	r, ok := t.ledger.reservations[id]
	if !ok || r.ProductID != t.productID {
		return nil, fmt.Errorf("%w: %s", invdomain.ErrReservationNotFound, id)
	}
	copied := *r
	return &copied, nil
}

func (t *memoryLedgerTx) SaveStock(s *invdomain.Stock) error {
	copied := *s
	t.stock = &copied
	return nil
}

func (t *memoryLedgerTx) SaveReservation(r *invdomain.Reservation) error {
	copied := *r
	t.reservations[r.ID] = &copied
	return nil
}

func (t *memoryLedgerTx) AppendMovement(m *invdomain.StockMovement) error {
	if err := m.Validate(); err != nil {
		return err
	}
	t.movements = append(t.movements, *m)
	return nil
}

func (l *memoryLedger) Update(ctx context.Context, productID uint, fn func(tx invdomain.LedgerTx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.stocks[productID]; !ok {
		return fmt.Errorf("%w: product %d", invdomain.ErrStockNotFound, productID)
	}
	tx := &memoryLedgerTx{ledger: l, productID: productID, reservations: make(map[uuid.UUID]*invdomain.Reservation)}
	if err := fn(tx); err != nil {
		return err
	}
	if tx.stock != nil {
		copied := *tx.stock
		l.stocks[productID] = &copied
	}
	for id, r := range tx.reservations {
		copied := *r
		l.reservations[id] = &copied
	}
	l.movements = append(l.movements, tx.movements...)
	return nil
}

func (l *memoryLedger) FindStock(ctx context.Context, productID uint) (*invdomain.Stock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.stocks[productID]
	if !ok {
		return nil, fmt.Errorf("%w: product %d", invdomain.ErrStockNotFound, productID)
	}
	copied := *s
	return &copied, nil
}

func (l *memoryLedger) ListStocks(ctx context.Context, limit, offset int) ([]invdomain.Stock, error) {
	return nil, nil
}

func (l *memoryLedger) FindReservation(ctx context.Context, id uuid.UUID) (*invdomain.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.reservations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", invdomain.ErrReservationNotFound, id)
	}
	copied := *r
	return &copied, nil
}

func (l *memoryLedger) SumActiveReservations(ctx context.Context, productID uint) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for _, r := range l.reservations {
		if r.ProductID == productID && r.Status == invdomain.ReservationActive {
			total += r.Quantity
		}
	}
	return total, nil
}

func (l *memoryLedger) ListExpiredReservations(ctx context.Context, now time.Time, limit int) ([]invdomain.Reservation, error) {
	return nil, nil
}

func (l *memoryLedger) ListMovements(ctx context.Context, filter invdomain.MovementFilter) ([]invdomain.StockMovement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []invdomain.StockMovement
	for _, m := range l.movements {
		if filter.ProductID != 0 && m.ProductID != filter.ProductID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (l *memoryLedger) ListReorderNeeded(ctx context.Context) ([]invdomain.Stock, error) {
	return nil, nil
}

// memoryTxManager implements TxManager and Tx over the in-memory stores.
// Do snapshots every store before running fn and restores the snapshot when
// fn fails, mirroring the all-or-nothing database transaction.
type memoryTxManager struct {
	payments *memoryPaymentRepository
	refunds  *memoryRefundRepository
	orders   *memoryOrderRepository
	ledger   *memoryLedger
}

func (m *memoryTxManager) Payments() domain.PaymentRepository  { return m.payments }
func (m *memoryTxManager) Refunds() domain.RefundRepository    { return m.refunds }
func (m *memoryTxManager) Orders() orderdomain.OrderRepository { return m.orders }
func (m *memoryTxManager) Ledger() invdomain.LedgerStore       { return m.ledger }

type txSnapshot struct {
	payments     map[uint]domain.Payment
	refunds      map[uint]domain.Refund
	orders       map[uint]orderdomain.Order
	stocks       map[uint]invdomain.Stock
	reservations map[uuid.UUID]invdomain.Reservation
	movements    []invdomain.StockMovement
}

func (m *memoryTxManager) snapshot() txSnapshot {
	snap := txSnapshot{
		payments:     make(map[uint]domain.Payment),
		refunds:      make(map[uint]domain.Refund),
		orders:       make(map[uint]orderdomain.Order),
		stocks:       make(map[uint]invdomain.Stock),
		reservations: make(map[uuid.UUID]invdomain.Reservation),
	}
	for id, p := range m.payments.rows {
		snap.payments[id] = *p
	}
	for id, r := range m.refunds.rows {
		snap.refunds[id] = *r
	}
	for id, o := range m.orders.rows {
		snap.orders[id] = *o
	}
	for id, s := range m.ledger.stocks {
		snap.stocks[id] = *s
	}
	for id, r := range m.ledger.reservations {
		snap.reservations[id] = *r
	}
	snap.movements = append(snap.movements, m.ledger.movements...)
	return snap
}

func (m *memoryTxManager) restore(snap txSnapshot) {
	m.payments.rows = make(map[uint]*domain.Payment)
	for id, p := range snap.payments {
		copied := p
		m.payments.rows[id] = &copied
	}
	m.refunds.rows = make(map[uint]*domain.Refund)
	for id, r := range snap.refunds {
		copied := r
		m.refunds.rows[id] = &copied
	}
	m.orders.rows = make(map[uint]*orderdomain.Order)
	for id, o := range snap.orders {
		copied := o
		m.orders.rows[id] = &copied
	}
	m.ledger.stocks = make(map[uint]*invdomain.Stock)
	for id, s := range snap.stocks {
		copied := s
		m.ledger.stocks[id] = &copied
	}
	m.ledger.reservations = make(map[uuid.UUID]*invdomain.Reservation)
	for id, r := range snap.reservations {
		copied := r
		m.ledger.reservations[id] = &copied
	}
	m.ledger.movements = snap.movements
}

func (m *memoryTxManager) Do(ctx context.Context, fn func(tx Tx) error) error {
	snap := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

// capturingOrderEvents records published order events.
type capturingOrderEvents struct {
	events []kafka.OrderEvent
}

func (c *capturingOrderEvents) PublishOrderEvent(ctx context.Context, event kafka.OrderEvent) error {
	c.events = append(c.events, event)
	return nil
}

// capturingRefundEvents records published refund events.
type capturingRefundEvents struct {
	events []kafka.RefundEvent
}

func (c *capturingRefundEvents) PublishRefundEvent(ctx context.Context, event kafka.RefundEvent) error {
	c.events = append(c.events, event)
	return nil
}

// capturingAudits records appended audit records.
type capturingAudits struct {
	records []auditdomain.Record
}

func (c *capturingAudits) Record(ctx context.Context, rec auditdomain.Record) {
	c.records = append(c.records, rec)
}

func (c *capturingAudits) actions() []string {
	var out []string
	for _, r := range c.records {
		out = append(out, r.Action)
	}
	return out
}

// fixture wires the in-memory stores together the way wire does in
// production.
type fixture struct {
	payments *memoryPaymentRepository
	refunds  *memoryRefundRepository
	orders   *memoryOrderRepository
	ledger   *memoryLedger
	txm      *memoryTxManager

	orderEvents  *capturingOrderEvents
	refundEvents *capturingRefundEvents
	audits       *capturingAudits
}

func newFixture() *fixture {
	f := &fixture{
		payments:     newMemoryPaymentRepository(),
		refunds:      newMemoryRefundRepository(),
		orders:       newMemoryOrderRepository(),
		ledger:       newMemoryLedger(),
		orderEvents:  &capturingOrderEvents{},
		refundEvents: &capturingRefundEvents{},
		audits:       &capturingAudits{},
	}
	f.txm = &memoryTxManager{payments: f.payments, refunds: f.refunds, orders: f.orders, ledger: f.ledger}
	return f
}

func (f *fixture) seedStock(t *testing.T, productID uint, current int) {
	t.Helper()
	stock := &invdomain.Stock{
		ProductID:       productID,
		CurrentQuantity: current,
		MinQuantity:     2,
		MaxQuantity:     100,
		Status:          invdomain.EvaluateStatus(current, 0, 2, false),
	}
	f.ledger.stocks[productID] = stock
}

// reserve claims quantity through the ledger the way order creation does and
// returns the live reservation.
func (f *fixture) reserve(t *testing.T, productID uint, qty int, orderRef string) *invdomain.Reservation {
	t.Helper()
	var res *invdomain.Reservation
	err := f.ledger.Update(context.Background(), productID, func(ltx invdomain.LedgerTx) error {
		stock, err := ltx.Stock()
		if err != nil {
			return err
		}
		r, err := stock.Reserve(qty, orderRef, nil, time.Now().UTC())
		if err != nil {
			return err
		}
		res = r
		if err := ltx.SaveStock(stock); err != nil {
			return err
		}
		return ltx.SaveReservation(r)
	})
	require.NoError(t, err)
	return res
}

// seedPendingOrder builds a pending order whose lines hold live reservations
// against the ledger.
func (f *fixture) seedPendingOrder(t *testing.T, lines ...orderdomain.OrderItem) *orderdomain.Order {
	t.Helper()
	order := &orderdomain.Order{
		UID:         uuid.New(),
		OrderNumber: "CMD-2026-08-0001",
		CustomerID:  42,
		Status:      orderdomain.StatusPending,
	}
	for _, line := range lines {
		res := f.reserve(t, line.ProductID, line.Quantity, order.OrderNumber)
		line.ReservationID = &res.ID
		order.Subtotal += line.Price * float64(line.Quantity)
		order.Items = append(order.Items, line)
	}
	order.TotalAmount = order.Subtotal
	require.NoError(t, f.orders.Create(context.Background(), order))
	return order
}

func (f *fixture) seedPayment(t *testing.T, order *orderdomain.Order, method string, status domain.PaymentStatus) *domain.Payment {
	t.Helper()
	payment := &domain.Payment{
		UID:      uuid.New(),
		OrderID:  order.ID,
		Amount:   order.TotalAmount,
		Currency: "GNF",
		Method:   method,
		Status:   status,
	}
	require.NoError(t, f.payments.Create(context.Background(), payment))
	return payment
}
