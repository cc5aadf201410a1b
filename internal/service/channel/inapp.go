package channel

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"aide-sociale/internal/domain"
)

// Publisher is the subset of *redis.Client used for realtime fan-out.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// InApp stores nothing itself: the notification row is the feed entry. It
// only announces the new entry to connected clients, and never fails.
type InApp struct {
	publisher Publisher
}

// NewInApp accepts a nil publisher, in which case no realtime event is sent.
func NewInApp(publisher Publisher) *InApp {
	return &InApp{publisher: publisher}
}

type inAppEvent struct {
	NotificationID uuid.UUID                   `json:"notification_id"`
	Title          string                      `json:"title"`
	Category       domain.NotificationCategory `json:"category"`
	Urgent         bool                        `json:"urgent"`
	SentAt         time.Time                   `json:"sent_at"`
}

func UserChannel(userID uuid.UUID) string {
	return "notifications:user:" + userID.String()
}

func (a *InApp) Send(ctx context.Context, to domain.Contact, msg Message) error {
	if a.publisher == nil {
		return nil
	}

	payload, _ := json.Marshal(inAppEvent{
		NotificationID: msg.NotificationID,
		Title:          msg.Title,
		Category:       msg.Category,
		Urgent:         msg.Urgent,
		SentAt:         time.Now().UTC(),
	})

	if err := a.publisher.Publish(ctx, UserChannel(to.UserID), payload).Err(); err != nil {
		logrus.WithFields(logrus.Fields{
			"notification_id": msg.NotificationID,
			"recipient":       to.UserID,
		}).WithError(err).Warn("realtime publish failed")
	}
	return nil
}
