package handler

import (
	"github.com/gofiber/fiber/v2"

	"aide-sociale/internal/domain"
	"aide-sociale/internal/middleware"
)

// RegisterRoutes mounts the notification API under router. authRequired must
// populate the current user.
func RegisterRoutes(router fiber.Router, h *Handlers, authRequired fiber.Handler) {
	protected := router.Group("", authRequired)

	notifications := protected.Group("/notifications")
	notifications.Post("/", middleware.RequirePermission(domain.OpCreateNotification), h.Notification.Create)
	notifications.Post("/bulk", middleware.RequirePermission(domain.OpSendBulk), h.Notification.SendBulk)
	notifications.Get("/", middleware.RequirePermission(domain.OpListAll), h.Notification.List)
	notifications.Get("/stats", middleware.RequirePermission(domain.OpViewStats), h.Notification.GetStats)
	notifications.Get("/me", h.Notification.GetMine)
	notifications.Get("/me/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/read-all", h.Notification.MarkAllAsRead)
	notifications.Post("/retry-failed", middleware.RequirePermission(domain.OpRetryFailed), h.Notification.RetryFailed)
	notifications.Post("/process-scheduled", middleware.RequirePermission(domain.OpProcessScheduled), h.Notification.ProcessScheduled)
	notifications.Post("/clean-expired", middleware.RequirePermission(domain.OpCleanExpired), h.Notification.CleanExpired)
	notifications.Get("/:id", h.Notification.Get)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Patch("/:id/click", h.Notification.MarkAsClicked)
	notifications.Delete("/:id", middleware.RequirePermission(domain.OpDelete), h.Notification.Delete)

	push := protected.Group("/push-subscriptions")
	push.Get("/vapid-key", h.PushSubscription.VAPIDKey)
	push.Get("/", h.PushSubscription.List)
	push.Post("/", h.PushSubscription.Subscribe)
	push.Delete("/", h.PushSubscription.Unsubscribe)

	protected.Get("/audit-logs", middleware.RequirePermission(domain.OpViewAudit), h.Audit.List)
}
