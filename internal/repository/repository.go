package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User             UserRepository
	Notification     NotificationRepository
	PushSubscription PushSubscriptionRepository
	AuditLog         AuditLogRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:             NewUserRepository(db),
		Notification:     NewNotificationRepository(db),
		PushSubscription: NewPushSubscriptionRepository(db),
		AuditLog:         NewAuditLogRepository(db),
	}
}
