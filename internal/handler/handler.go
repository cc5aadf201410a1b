package handler

import "aide-sociale/internal/service"

type Handlers struct {
	Notification     *NotificationHandler
	PushSubscription *PushSubscriptionHandler
	Audit            *AuditHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Notification:     NewNotificationHandler(services.Notification),
		PushSubscription: NewPushSubscriptionHandler(services.Subscription, services.VAPIDPublicKey),
		Audit:            NewAuditHandler(services.Audit),
	}
}
