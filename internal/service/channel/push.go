package channel

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
	"github.com/sideshow/apns2/payload"
	"github.com/sirupsen/logrus"

	"aide-sociale/internal/domain"
)

// SubscriptionStore is the part of the push subscription repository the
// push provider needs.
type SubscriptionStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PushSubscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// WebPushSender sends one encrypted web-push message.
type WebPushSender func(ctx context.Context, message []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)

// APNsClient is satisfied by *apns2.Client.
type APNsClient interface {
	PushWithContext(ctx apns2.Context, n *apns2.Notification) (*apns2.Response, error)
}

type PushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
	APNSTopic       string
}

// Push fans a message out to every subscription of the recipient. It
// succeeds when at least one subscription accepted the message.
type Push struct {
	store   SubscriptionStore
	cfg     PushConfig
	webpush WebPushSender
	apns    APNsClient
}

func NewPush(store SubscriptionStore, cfg PushConfig, apns APNsClient) *Push {
	return &Push{
		store:   store,
		cfg:     cfg,
		webpush: sendWebPush,
		apns:    apns,
	}
}

// sendWebPush binds ctx to the request webpush.SendNotification issues.
func sendWebPush(ctx context.Context, message []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	opts := *options
	opts.HTTPClient = contextClient{ctx: ctx, client: http.DefaultClient}
	return webpush.SendNotification(message, sub, &opts)
}

type contextClient struct {
	ctx    context.Context
	client *http.Client
}

func (c contextClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req.WithContext(c.ctx))
}

// NewAPNsClient loads a .p12 certificate. An empty path disables iOS push.
func NewAPNsClient(certPath, password string, production bool) (APNsClient, error) {
	if certPath == "" {
		return nil, nil
	}
	cert, err := certificate.FromP12File(certPath, password)
	if err != nil {
		return nil, errors.Wrap(err, "read apns certificate")
	}
	client := apns2.NewClient(cert)
	if production {
		return client.Production(), nil
	}
	return client.Development(), nil
}

type webPushPayload struct {
	NotificationID uuid.UUID `json:"notification_id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	URL            string    `json:"url,omitempty"`
	Urgent         bool      `json:"urgent"`
}

func (p *Push) Send(ctx context.Context, to domain.Contact, msg Message) error {
	subs, err := p.store.ListByUser(ctx, to.UserID)
	if err != nil {
		return errors.Wrap(err, "load push subscriptions")
	}
	if len(subs) == 0 {
		return ErrNoSubscription
	}

	var lastErr error
	accepted := 0
	for i := range subs {
		sub := &subs[i]
		var err error
		switch sub.Platform {
		case domain.PlatformWeb:
			err = p.sendWeb(ctx, sub, msg)
		case domain.PlatformIOS:
			err = p.sendAPNs(ctx, sub, msg)
		default:
			err = errors.Errorf("unsupported push platform %q", sub.Platform)
		}

		if err == nil {
			accepted++
			continue
		}
		lastErr = err
		logrus.WithFields(logrus.Fields{
			"notification_id": msg.NotificationID,
			"subscription_id": sub.ID,
			"platform":        sub.Platform,
		}).WithError(err).Warn("push delivery failed")
	}

	if accepted == 0 {
		return lastErr
	}
	return nil
}

func (p *Push) sendWeb(ctx context.Context, sub *domain.PushSubscription, msg Message) error {
	if p.cfg.VAPIDPrivateKey == "" {
		return errors.Wrap(ErrNotConfigured, "web push")
	}
	if sub.Endpoint == nil || sub.P256dh == nil || sub.Auth == nil {
		return errors.New("incomplete web push subscription")
	}

	body, _ := json.Marshal(webPushPayload{
		NotificationID: msg.NotificationID,
		Title:          msg.Title,
		Body:           msg.Body,
		URL:            msg.ActionURL,
		Urgent:         msg.Urgent,
	})

	urgency := webpush.UrgencyNormal
	if msg.Urgent {
		urgency = webpush.UrgencyHigh
	}

	resp, err := p.webpush(ctx, body, &webpush.Subscription{
		Endpoint: *sub.Endpoint,
		Keys: webpush.Keys{
			Auth:   *sub.Auth,
			P256dh: *sub.P256dh,
		},
	}, &webpush.Options{
		Subscriber:      p.cfg.VAPIDSubject,
		VAPIDPublicKey:  p.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: p.cfg.VAPIDPrivateKey,
		TTL:             86400,
		Urgency:         urgency,
	})
	if err != nil {
		return errors.Wrap(err, "web push")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		p.forget(ctx, sub)
		return errors.Errorf("web push subscription expired: %s", resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return errors.Errorf("web push rejected: %s", resp.Status)
	}
	return nil
}

func (p *Push) sendAPNs(ctx context.Context, sub *domain.PushSubscription, msg Message) error {
	if p.apns == nil {
		return errors.Wrap(ErrNotConfigured, "apns")
	}
	if sub.DeviceToken == nil {
		return errors.New("ios subscription has no device token")
	}

	pl := payload.NewPayload().
		AlertTitle(msg.Title).
		AlertBody(msg.Body).
		Sound("default").
		Custom("notification_id", msg.NotificationID.String())
	if msg.ActionURL != "" {
		pl = pl.Custom("url", msg.ActionURL)
	}

	n := &apns2.Notification{
		DeviceToken: *sub.DeviceToken,
		Topic:       p.cfg.APNSTopic,
		Payload:     pl,
		Priority:    apns2.PriorityLow,
	}
	if msg.Urgent {
		n.Priority = apns2.PriorityHigh
	}

	res, err := p.apns.PushWithContext(ctx, n)
	if err != nil {
		return errors.Wrap(err, "apns")
	}
	if res.Sent() {
		return nil
	}
	if res.Reason == apns2.ReasonUnregistered || res.Reason == apns2.ReasonBadDeviceToken {
		p.forget(ctx, sub)
	}
	return errors.Errorf("apns rejected: %d %s", res.StatusCode, res.Reason)
}

func (p *Push) forget(ctx context.Context, sub *domain.PushSubscription) {
	if err := p.store.Delete(ctx, sub.ID); err != nil {
		logrus.WithField("subscription_id", sub.ID).WithError(err).Warn("failed to remove stale push subscription")
	}
}
