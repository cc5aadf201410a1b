// Package channel holds the transports that carry a notification to a
// recipient outside the application: email, SMS and push, plus the
// in-app sink.
package channel

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"aide-sociale/internal/domain"
)

// Provider attempts one delivery. A nil error means the transport accepted
// the message.
type Provider interface {
	Send(ctx context.Context, to domain.Contact, msg Message) error
}

// Message is the rendered, recipient-specific content handed to a provider.
type Message struct {
	NotificationID uuid.UUID
	Title          string
	Body           string
	ActionURL      string
	Language       string
	Category       domain.NotificationCategory
	Urgent         bool
	ActionRequired bool
}

// Providers maps each external channel to its transport.
type Providers map[domain.ChannelName]Provider

var (
	ErrNoEmailAddress = errors.New("recipient has no email address")
	ErrNoPhoneNumber  = errors.New("recipient has no phone number")
	ErrNoSubscription = errors.New("recipient has no push subscription")
	ErrNotConfigured  = errors.New("channel provider is not configured")
)

// Disabled is installed for channels whose transport has no configuration.
type Disabled struct {
	Channel domain.ChannelName
}

func (d Disabled) Send(ctx context.Context, to domain.Contact, msg Message) error {
	return errors.Wrapf(ErrNotConfigured, "%s", d.Channel)
}

// NewMessage renders a notification for one recipient.
func NewMessage(n *domain.Notification, baseURL string) Message {
	msg := Message{
		NotificationID: n.ID,
		Title:          n.Title,
		Body:           n.Message,
		Language:       n.Language,
		Category:       n.Category,
		Urgent:         n.IsUrgent,
		ActionRequired: n.ActionRequired,
	}
	if n.ActionURL != nil && *n.ActionURL != "" {
		msg.ActionURL = absoluteURL(baseURL, *n.ActionURL)
	}
	return msg
}

func absoluteURL(base, path string) string {
	if base == "" || !strings.HasPrefix(path, "/") {
		return path
	}
	return strings.TrimRight(base, "/") + path
}
