package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChannelRequest struct {
	Enabled bool `json:"enabled"`
}

// NotificationContent is the part of a create request shared by the single
// and bulk paths.
type NotificationContent struct {
	Title          string                         `json:"title" validate:"required,max=200"`
	Message        string                         `json:"message" validate:"required,max=5000"`
	Type           NotificationType               `json:"type" validate:"omitempty,oneof=system request_status payment announcement reminder alert welcome approval_required document_required deadline_approaching"`
	Category       NotificationCategory           `json:"category" validate:"omitempty,oneof=info success warning error urgent"`
	Priority       Priority                       `json:"priority" validate:"omitempty,oneof=low normal high critical"`
	Language       string                         `json:"language" validate:"omitempty,min=2,max=10"`
	Channels       map[ChannelName]ChannelRequest `json:"channels" validate:"omitempty,dive,keys,oneof=in_app email sms push,endkeys"`
	Variables      map[string]interface{}         `json:"variables"`
	Related        RelatedEntities                `json:"related"`
	ActionRequired bool                           `json:"action_required"`
	ActionType     ActionType                     `json:"action_type" validate:"omitempty,oneof=none view approve reject upload pay respond complete"`
	ActionURL      *string                        `json:"action_url" validate:"omitempty,max=2048"`
	ActionData     JSONB                          `json:"action_data"`
	ScheduledFor   *time.Time                     `json:"scheduled_for"`
	ExpiresAt      *time.Time                     `json:"expires_at"`
}

type CreateNotificationInput struct {
	NotificationContent
	Recipients []uuid.UUID `json:"recipients" validate:"required,min=1,max=1000"`
}

type BulkNotificationInput struct {
	NotificationContent
	TargetCriteria TargetCriteria `json:"target_criteria"`
}

// ApplyDefaults fills the optional classification fields.
func (c *NotificationContent) ApplyDefaults() {
	if c.Type == "" {
		c.Type = TypeSystem
	}
	if c.Category == "" {
		c.Category = CategoryInfo
	}
	if c.Priority == "" {
		c.Priority = PriorityNormal
	}
	if c.ActionType == "" {
		c.ActionType = ActionNone
	}
}

// ValidateSchedule enforces scheduledFor > now and expiresAt > scheduledFor.
func (c *NotificationContent) ValidateSchedule(now time.Time) error {
	if c.ScheduledFor != nil && !c.ScheduledFor.After(now) {
		return BadRequest("scheduled_for must be in the future")
	}
	if c.ExpiresAt != nil {
		if c.ScheduledFor != nil && !c.ExpiresAt.After(*c.ScheduledFor) {
			return BadRequest("expires_at must be after scheduled_for")
		}
		if !c.ExpiresAt.After(now) {
			return BadRequest("expires_at must be in the future")
		}
	}
	return nil
}

// RequestedChannels overlays the request on DefaultChannels.
func (c *NotificationContent) RequestedChannels() Channels {
	ch := DefaultChannels()
	for name, req := range c.Channels {
		if st := ch.Get(name); st != nil {
			st.Enabled = req.Enabled
		}
	}
	return ch
}

type PushPlatform string

const (
	PlatformWeb PushPlatform = "web"
	PlatformIOS PushPlatform = "ios"
)

type PushSubscription struct {
	ID          uuid.UUID    `json:"id" db:"subscription_id"`
	UserID      uuid.UUID    `json:"user_id" db:"user_id"`
	Platform    PushPlatform `json:"platform" db:"platform"`
	Endpoint    *string      `json:"endpoint,omitempty" db:"endpoint"`
	P256dh      *string      `json:"-" db:"p256dh"`
	Auth        *string      `json:"-" db:"auth"`
	DeviceToken *string      `json:"-" db:"device_token"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}

type PushSubscriptionInput struct {
	Platform    PushPlatform `json:"platform" validate:"required,oneof=web ios"`
	Endpoint    string       `json:"endpoint" validate:"required_if=Platform web,max=2048"`
	P256dh      string       `json:"p256dh" validate:"required_if=Platform web"`
	Auth        string       `json:"auth" validate:"required_if=Platform web"`
	DeviceToken string       `json:"device_token" validate:"required_if=Platform ios"`
}
