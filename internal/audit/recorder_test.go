package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boutiquegn/backoffice/internal/audit/domain"
	"github.com/boutiquegn/backoffice/kafka"
)

// memoryAuditRepository captures appended records.
type memoryAuditRepository struct {
	records []domain.Record
	err     error
}

func (m *memoryAuditRepository) Append(ctx context.Context, rec *domain.Record) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, *rec)
	return nil
}

func (m *memoryAuditRepository) List(ctx context.Context, filter domain.Filter) ([]domain.Record, error) {
	return m.records, nil
}

// capturingAuditEvents records mirrored audit events.
type capturingAuditEvents struct {
	events []kafka.AuditEvent
}

func (c *capturingAuditEvents) PublishAuditEvent(ctx context.Context, event kafka.AuditEvent) error {
	c.events = append(c.events, event)
	return nil
}

func TestRecorder_FillsDefaults(t *testing.T) {
	repo := &memoryAuditRepository{}
	recorder := NewRecorder(repo, nil)

	recorder.Record(context.Background(), domain.Record{
		Actor:  "aissatou",
		Action: "stock.add",
	})

	require.Len(t, repo.records, 1)
	rec := repo.records[0]
	assert.NotEqual(t, uuid.Nil, rec.UID)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestRecorder_OriginFromContext(t *testing.T) {
	repo := &memoryAuditRepository{}
	events := &capturingAuditEvents{}
	recorder := NewRecorder(repo, events)

	ctx := domain.WithOrigin(context.Background(), "41.223.8.20:51734")
	recorder.Record(ctx, domain.Record{Actor: "aissatou", Action: "stock.add"})

	require.Len(t, repo.records, 1)
	assert.Equal(t, "41.223.8.20:51734", repo.records[0].RequestOrigin)

	// the mirrored event carries the same origin
	require.Len(t, events.events, 1)
	assert.Equal(t, "41.223.8.20:51734", events.events[0].RequestOrigin)
}

func TestRecorder_ExplicitOriginWins(t *testing.T) {
	repo := &memoryAuditRepository{}
	recorder := NewRecorder(repo, nil)

	ctx := domain.WithOrigin(context.Background(), "41.223.8.20:51734")
	recorder.Record(ctx, domain.Record{
		Actor:         "sweeper",
		Action:        "stock.expire_reservation",
		RequestOrigin: "internal:sweeper",
	})

	require.Len(t, repo.records, 1)
	assert.Equal(t, "internal:sweeper", repo.records[0].RequestOrigin)
}

func TestRecorder_RepositoryFailureDoesNotPanic(t *testing.T) {
	repo := &memoryAuditRepository{err: assert.AnError}
	events := &capturingAuditEvents{}
	recorder := NewRecorder(repo, events)

	recorder.Record(context.Background(), domain.Record{Actor: "ops", Action: "order.cancel"})

	// the mutation's audit intent still reaches the bus
	assert.Len(t, events.events, 1)
}
