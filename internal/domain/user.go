package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// User is the read model of the user directory consumed by the notification engine.
type User struct {
	ID                    uuid.UUID         `json:"id" db:"user_id"`
	Email                 string            `json:"email" db:"email"`
	Phone                 *string           `json:"phone,omitempty" db:"phone"`
	FullName              string            `json:"full_name" db:"full_name"`
	Role                  UserRole          `json:"role" db:"role"`
	AccountStatus         AccountStatus     `json:"account_status" db:"account_status"`
	Region                *string           `json:"region,omitempty" db:"region"`
	EligibilityStatus     *string           `json:"eligibility_status,omitempty" db:"eligibility_status"`
	EligibilityCategories pq.StringArray    `json:"eligibility_categories" db:"eligibility_categories"`
	DateOfBirth           *time.Time        `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Preferences           NotificationPrefs `json:"preferences" db:"preferences"`
	CreatedAt             time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at" db:"updated_at"`
	DeletedAt             *time.Time        `json:"-" db:"deleted_at"`
}

type UserRole string

const (
	RoleAdmin          UserRole = "admin"
	RoleCaseWorker     UserRole = "case_worker"
	RoleFinanceManager UserRole = "finance_manager"
	RoleUser           UserRole = "user"
)

type AccountStatus string

const (
	AccountActive              AccountStatus = "active"
	AccountPendingVerification AccountStatus = "pending_verification"
	AccountSuspended           AccountStatus = "suspended"
	AccountInactive            AccountStatus = "inactive"
)

// ReachableAccountStatuses are the account states that may receive notifications.
var ReachableAccountStatuses = []AccountStatus{AccountActive, AccountPendingVerification}

// NotificationPrefs is stored as JSONB on the user row. A nil opt-in flag
// means the user never restricted the channel.
type NotificationPrefs struct {
	Language           string `json:"language,omitempty"`
	EmailNotifications *bool  `json:"email_notifications,omitempty"`
	SMSNotifications   *bool  `json:"sms_notifications,omitempty"`
}

func (p NotificationPrefs) EmailDisabled() bool {
	return p.EmailNotifications != nil && !*p.EmailNotifications
}

func (p NotificationPrefs) SMSDisabled() bool {
	return p.SMSNotifications != nil && !*p.SMSNotifications
}

func (p NotificationPrefs) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *NotificationPrefs) Scan(src interface{}) error {
	return scanJSON(src, p)
}

// Recipient is the slice of a user row needed to fan out one notification.
type Recipient struct {
	ID          uuid.UUID         `json:"id" db:"user_id"`
	Preferences NotificationPrefs `json:"preferences" db:"preferences"`
}

// Contact carries the addresses external channel providers deliver to.
type Contact struct {
	UserID   uuid.UUID
	FullName string
	Email    string
	Phone    string
	Language string
}

func (u *User) Contact() Contact {
	c := Contact{
		UserID:   u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Language: u.Preferences.Language,
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	return c
}

// Caller is the authenticated identity an operation runs under.
type Caller struct {
	ID   uuid.UUID
	Role UserRole
}

// SystemCaller is used by the sweeper CLI, which runs outside any HTTP session.
func SystemCaller() Caller {
	return Caller{ID: uuid.Nil, Role: RoleAdmin}
}
