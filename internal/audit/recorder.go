package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/boutiquegn/backoffice/internal/audit/domain"
	"github.com/boutiquegn/backoffice/kafka"
	"github.com/boutiquegn/backoffice/pkg/logger"
)

// EventPublisher mirrors audit records onto the event bus.
type EventPublisher interface {
	PublishAuditEvent(ctx context.Context, event kafka.AuditEvent) error
}

// Recorder writes audit records to the durable trail and mirrors them to
// Kafka. Sink failures are logged, never propagated: an audit hiccup must
// not roll back the business mutation it describes.
type Recorder struct {
	repo      domain.Repository
	publisher EventPublisher
}

// NewRecorder creates a recorder. The publisher may be nil when no broker
// is configured.
func NewRecorder(repo domain.Repository, publisher EventPublisher) *Recorder {
	return &Recorder{repo: repo, publisher: publisher}
}

func (r *Recorder) Record(ctx context.Context, rec domain.Record) {
	if rec.UID == uuid.Nil {
		rec.UID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.RequestOrigin == "" {
		rec.RequestOrigin = domain.OriginFrom(ctx)
	}

	if err := r.repo.Append(ctx, &rec); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("action", rec.Action).
			Str("actor", rec.Actor).
			Msg("Failed to append audit record")
	}

	if r.publisher == nil {
		return
	}
	event := kafka.AuditEvent{
		EventID:       rec.UID.String(),
		Actor:         rec.Actor,
		Action:        rec.Action,
		ObjectType:    rec.ObjectType,
		ObjectID:      rec.ObjectID,
		Before:        rec.Before,
		After:         rec.After,
		RequestOrigin: rec.RequestOrigin,
		Success:       rec.Success,
		Timestamp:     rec.CreatedAt,
	}
	if err := r.publisher.PublishAuditEvent(ctx, event); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("action", rec.Action).
			Msg("Failed to publish audit event")
	}
}
