package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditNotificationDeleted AuditAction = "notification.deleted"
	AuditBulkSent            AuditAction = "notification.bulk_sent"
	AuditScheduledProcessed  AuditAction = "sweep.scheduled"
	AuditFailedRetried       AuditAction = "sweep.retry"
	AuditExpiredCleaned      AuditAction = "sweep.cleanup"
)

// AuditLog records one administrative operation on the notification store.
// ActorID is nil for runs of the sweeper CLI.
type AuditLog struct {
	ID        uuid.UUID   `json:"id" db:"audit_id"`
	ActorID   *uuid.UUID  `json:"actor_id,omitempty" db:"actor_id"`
	ActorName *string     `json:"actor_name,omitempty" db:"actor_name"`
	Action    AuditAction `json:"action" db:"action"`
	EntityID  *uuid.UUID  `json:"entity_id,omitempty" db:"entity_id"`
	Details   JSONB       `json:"details,omitempty" db:"details"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}
