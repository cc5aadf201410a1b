package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"aide-sociale/internal/domain"
	"aide-sociale/internal/repository"
	"aide-sociale/internal/service/channel"
)

// Dispatcher attempts every enabled channel of a notification and persists
// the outcome. Delivery failures are recorded on the notification, never
// returned.
type Dispatcher interface {
	Deliver(ctx context.Context, n *domain.Notification) bool
}

type dispatcher struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	inApp     channel.Provider
	providers channel.Providers
	baseURL   string
	timeout   time.Duration
	now       func() time.Time
}

func NewDispatcher(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	inApp channel.Provider,
	providers channel.Providers,
	baseURL string,
	timeout time.Duration,
) Dispatcher {
	return &dispatcher{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		inApp:     inApp,
		providers: providers,
		baseURL:   baseURL,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Deliver reports true when at least one enabled channel delivered.
func (d *dispatcher) Deliver(ctx context.Context, n *domain.Notification) bool {
	now := d.now()
	msg := channel.NewMessage(n, d.baseURL)
	log := logrus.WithFields(logrus.Fields{
		"notification_id": n.ID,
		"recipient":       n.RecipientID,
	})

	var contact *domain.Contact
	var contactErr error
	loadContact := func() (*domain.Contact, error) {
		if contact == nil && contactErr == nil {
			contact, contactErr = d.contact(ctx, n)
		}
		return contact, contactErr
	}

	delivered := false
	for _, name := range domain.AllChannels {
		state := n.Channels.Get(name)
		if !state.Enabled {
			continue
		}
		if state.Delivered {
			delivered = true
			continue
		}

		var err error
		if name == domain.ChannelInApp {
			err = d.send(ctx, d.inApp, domain.Contact{UserID: n.RecipientID}, msg)
		} else {
			var to *domain.Contact
			if to, err = loadContact(); err == nil {
				err = d.send(ctx, d.providers[name], *to, msg)
			}
		}

		if err != nil {
			state.MarkFailed(now, err.Error())
			log.WithField("channel", name).WithError(err).Warn("channel delivery failed")
			continue
		}
		state.MarkDelivered(now)
		delivered = true
	}

	if delivered {
		n.Status = domain.StatusSent
		n.SentAt = &now
	} else {
		n.Status = domain.StatusFailed
	}
	n.RefreshDerived()

	if err := d.notifRepo.UpdateDelivery(ctx, n); err != nil {
		log.WithError(err).Error("failed to persist delivery outcome")
	}
	return delivered
}

// send runs one provider call under the delivery timeout. A panicking
// provider counts as a failed attempt.
func (d *dispatcher) send(ctx context.Context, p channel.Provider, to domain.Contact, msg channel.Message) (err error) {
	if p == nil {
		return channel.ErrNotConfigured
	}
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v", r)
		}
	}()
	return p.Send(ctx, to, msg)
}

func (d *dispatcher) contact(ctx context.Context, n *domain.Notification) (*domain.Contact, error) {
	user, err := d.userRepo.GetByID(ctx, n.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipient: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("recipient %s not found", n.RecipientID)
	}
	c := user.Contact()
	if c.Language == "" {
		c.Language = n.Language
	}
	return &c, nil
}
