package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationFilter is the composable predicate shared by listing and
// statistics. Nil fields do not restrict the result.
type NotificationFilter struct {
	Type           *NotificationType
	Category       *NotificationCategory
	Priority       *Priority
	Status         *Status
	RecipientID    *uuid.UUID
	BatchID        *uuid.UUID
	Search         string
	IsRead         *bool
	ActionRequired *bool
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	DeliveryStatus *DeliveryStatus
	// NotExpiredAt hides rows whose expiresAt is before the given instant.
	NotExpiredAt *time.Time
	// ReleasedBy hides rows still scheduled for after the given instant.
	ReleasedBy *time.Time
}

// ValidateFields checks the enum-typed filter fields.
func (f NotificationFilter) ValidateFields() error {
	if f.Type != nil && !f.Type.IsValid() {
		return BadRequest("Invalid notification type %q", *f.Type)
	}
	if f.Category != nil && !f.Category.IsValid() {
		return BadRequest("Invalid category %q", *f.Category)
	}
	if f.Priority != nil && !f.Priority.IsValid() {
		return BadRequest("Invalid priority %q", *f.Priority)
	}
	if f.Status != nil && !f.Status.IsValid() {
		return BadRequest("Invalid status %q", *f.Status)
	}
	if f.DeliveryStatus != nil && !f.DeliveryStatus.IsValid() {
		return BadRequest("Invalid delivery status %q", *f.DeliveryStatus)
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedTo.Before(*f.CreatedFrom) {
		return BadRequest("created_to must not be before created_from")
	}
	return nil
}
