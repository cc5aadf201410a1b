package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID             uuid.UUID            `json:"id" db:"notification_id"`
	Number         string               `json:"number" db:"number"`
	RecipientID    uuid.UUID            `json:"recipient_id" db:"recipient_id"`
	BatchID        *uuid.UUID           `json:"batch_id,omitempty" db:"batch_id"`
	Title          string               `json:"title" db:"title"`
	Message        string               `json:"message" db:"message"`
	Language       string               `json:"language" db:"language"`
	Type           NotificationType     `json:"type" db:"type"`
	Category       NotificationCategory `json:"category" db:"category"`
	Priority       Priority             `json:"priority" db:"priority"`
	IsUrgent       bool                 `json:"is_urgent" db:"is_urgent"`
	Channels       Channels             `json:"channels" db:"channels"`
	DeliveryStatus DeliveryStatus       `json:"delivery_status" db:"delivery_status"`
	Related        RelatedEntities      `json:"related" db:"related"`
	ActionRequired bool                 `json:"action_required" db:"action_required"`
	ActionType     ActionType           `json:"action_type" db:"action_type"`
	ActionURL      *string              `json:"action_url,omitempty" db:"action_url"`
	ActionData     JSONB                `json:"action_data,omitempty" db:"action_data"`
	ScheduledFor   *time.Time           `json:"scheduled_for,omitempty" db:"scheduled_for"`
	ExpiresAt      *time.Time           `json:"expires_at,omitempty" db:"expires_at"`
	Status         Status               `json:"status" db:"status"`
	SentAt         *time.Time           `json:"sent_at,omitempty" db:"sent_at"`
	IsRead         bool                 `json:"is_read" db:"is_read"`
	ReadAt         *time.Time           `json:"read_at,omitempty" db:"read_at"`
	IsClicked      bool                 `json:"is_clicked" db:"is_clicked"`
	ClickedAt      *time.Time           `json:"clicked_at,omitempty" db:"clicked_at"`
	Interaction    InteractionMeta      `json:"interaction" db:"interaction"`
	RetryCount     int                  `json:"retry_count" db:"retry_count"`
	RetryAfter     *time.Time           `json:"retry_after,omitempty" db:"retry_after"`
	CreatedBy      *uuid.UUID           `json:"created_by,omitempty" db:"created_by"`
	CreatedAt      time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" db:"updated_at"`
	IsDeleted      bool                 `json:"-" db:"is_deleted"`
	DeletedAt      *time.Time           `json:"-" db:"deleted_at"`
}

type NotificationType string

const (
	TypeSystem              NotificationType = "system"
	TypeRequestStatus       NotificationType = "request_status"
	TypePayment             NotificationType = "payment"
	TypeAnnouncement        NotificationType = "announcement"
	TypeReminder            NotificationType = "reminder"
	TypeAlert               NotificationType = "alert"
	TypeWelcome             NotificationType = "welcome"
	TypeApprovalRequired    NotificationType = "approval_required"
	TypeDocumentRequired    NotificationType = "document_required"
	TypeDeadlineApproaching NotificationType = "deadline_approaching"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case TypeSystem, TypeRequestStatus, TypePayment, TypeAnnouncement, TypeReminder,
		TypeAlert, TypeWelcome, TypeApprovalRequired, TypeDocumentRequired, TypeDeadlineApproaching:
		return true
	}
	return false
}

type NotificationCategory string

const (
	CategoryInfo    NotificationCategory = "info"
	CategorySuccess NotificationCategory = "success"
	CategoryWarning NotificationCategory = "warning"
	CategoryError   NotificationCategory = "error"
	CategoryUrgent  NotificationCategory = "urgent"
)

func (c NotificationCategory) IsValid() bool {
	switch c {
	case CategoryInfo, CategorySuccess, CategoryWarning, CategoryError, CategoryUrgent:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type ActionType string

const (
	ActionNone     ActionType = "none"
	ActionView     ActionType = "view"
	ActionApprove  ActionType = "approve"
	ActionReject   ActionType = "reject"
	ActionUpload   ActionType = "upload"
	ActionPay      ActionType = "pay"
	ActionRespond  ActionType = "respond"
	ActionComplete ActionType = "complete"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
	StatusClicked   Status = "clicked"
	StatusFailed    Status = "failed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSent, StatusDelivered, StatusRead, StatusClicked, StatusFailed:
		return true
	}
	return false
}

// ComputeUrgent reports whether a notification with the given priority and
// category must be flagged urgent.
func ComputeUrgent(p Priority, c NotificationCategory) bool {
	return p == PriorityCritical || c == CategoryUrgent
}

// RefreshDerived recomputes the fields that are stored but never set directly.
func (n *Notification) RefreshDerived() {
	n.IsUrgent = ComputeUrgent(n.Priority, n.Category)
	n.DeliveryStatus = ClassifyDelivery(n.Channels)
}

// DeliveryTime is sentAt - createdAt, nil until sent.
func (n *Notification) DeliveryTime() *time.Duration {
	if n.SentAt == nil {
		return nil
	}
	d := n.SentAt.Sub(n.CreatedAt)
	return &d
}

// ReadTime is readAt - sentAt.
func (n *Notification) ReadTime() *time.Duration {
	if n.ReadAt == nil || n.SentAt == nil {
		return nil
	}
	d := n.ReadAt.Sub(*n.SentAt)
	return &d
}

// ClickTime is clickedAt - readAt.
func (n *Notification) ClickTime() *time.Duration {
	if n.ClickedAt == nil || n.ReadAt == nil {
		return nil
	}
	d := n.ClickedAt.Sub(*n.ReadAt)
	return &d
}

func (n *Notification) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && n.ExpiresAt.Before(now)
}

type RelatedEntities struct {
	DemandeID      *uuid.UUID `json:"demande_id,omitempty"`
	AnnouncementID *uuid.UUID `json:"announcement_id,omitempty"`
	BudgetPoolID   *uuid.UUID `json:"budget_pool_id,omitempty"`
	PaymentID      *uuid.UUID `json:"payment_id,omitempty"`
}

type InteractionMeta struct {
	UserAgent *string `json:"user_agent,omitempty"`
	IPAddress *string `json:"ip_address,omitempty"`
}
