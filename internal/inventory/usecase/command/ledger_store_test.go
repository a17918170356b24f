package command

import (
	"context"
	"sync"

	auditdomain "github.com/boutiquegn/backoffice/internal/audit/domain"
	"github.com/boutiquegn/backoffice/internal/inventory/domain"
	"github.com/boutiquegn/backoffice/internal/inventory/repository"
	"github.com/boutiquegn/backoffice/kafka"
)

// newMemoryLedgerStore seeds the in-process ledger the handlers run against
// in these tests. The store serializes mutations per product and discards
// staged writes when the closure fails, so rollback assertions are real.
func newMemoryLedgerStore(stocks ...*domain.Stock) *repository.MemoryLedgerStore {
	store := repository.NewMemoryLedgerStore()
	for _, stock := range stocks {
		store.SeedStock(stock)
	}
	return store
}

// capturingAlertPublisher records published stock alerts.
type capturingAlertPublisher struct {
	mu     sync.Mutex
	events []kafka.StockAlertEvent
	err    error
}

func (p *capturingAlertPublisher) PublishStockAlert(ctx context.Context, event kafka.StockAlertEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *capturingAlertPublisher) alertTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var types []string
	for _, e := range p.events {
		types = append(types, e.AlertType)
	}
	return types
}

// capturingAuditRecorder records audit entries.
type capturingAuditRecorder struct {
	mu      sync.Mutex
	records []auditdomain.Record
}

func (r *capturingAuditRecorder) Record(ctx context.Context, rec auditdomain.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

func (r *capturingAuditRecorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var actions []string
	for _, rec := range r.records {
		actions = append(actions, rec.Action)
	}
	return actions
}
