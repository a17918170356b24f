package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Record is one append-only audit trail entry. Every stock mutation and
// every order or payment transition produces one.
type Record struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	UID           uuid.UUID       `json:"uid" gorm:"type:uuid;uniqueIndex"`
	Actor         string          `json:"actor" gorm:"size:100;index:idx_audit_actor_time,priority:1"`
	Action        string          `json:"action" gorm:"size:60;not null;index"`
	ObjectType    string          `json:"object_type" gorm:"size:60;index:idx_audit_object,priority:1"`
	ObjectID      string          `json:"object_id" gorm:"size:60;index:idx_audit_object,priority:2"`
	Before        json.RawMessage `json:"before,omitempty" gorm:"type:jsonb"`
	After         json.RawMessage `json:"after,omitempty" gorm:"type:jsonb"`
	RequestOrigin string          `json:"request_origin,omitempty" gorm:"size:200"`
	Success       bool            `json:"success" gorm:"not null;default:true"`
	ErrorMessage  string          `json:"error_message,omitempty"`
	CreatedAt     time.Time       `json:"created_at" gorm:"index:idx_audit_actor_time,priority:2"`
}

// TableName specifies the table name
func (Record) TableName() string {
	return "audit_records"
}

type originKey struct{}

// WithOrigin stamps the caller's request origin onto the context so every
// record produced underneath carries where the mutation came from.
func WithOrigin(ctx context.Context, origin string) context.Context {
	if origin == "" {
		return ctx
	}
	return context.WithValue(ctx, originKey{}, origin)
}

// OriginFrom returns the request origin stamped on the context, or empty.
func OriginFrom(ctx context.Context) string {
	origin, _ := ctx.Value(originKey{}).(string)
	return origin
}

// Filter narrows audit queries. Zero values mean "no constraint".
type Filter struct {
	Actor      string
	Action     string
	ObjectType string
	ObjectID   string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

// Repository is the append-only persistence contract. There is deliberately
// no update or delete.
type Repository interface {
	Append(ctx context.Context, rec *Record) error
	List(ctx context.Context, filter Filter) ([]Record, error)
}

// Recorder is the boundary the mutating usecases talk to. Recording never
// fails the caller's operation; sinks log their own errors.
type Recorder interface {
	Record(ctx context.Context, rec Record)
}
