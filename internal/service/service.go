package service

import (
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"aide-sociale/internal/config"
	"aide-sociale/internal/domain"
	"aide-sociale/internal/repository"
	"aide-sociale/internal/service/audit"
	"aide-sociale/internal/service/auth"
	"aide-sociale/internal/service/channel"
	"aide-sociale/internal/service/notification"
	"aide-sociale/internal/service/subscription"
)

type Services struct {
	Auth           auth.Service
	Audit          audit.Service
	Notification   notification.Service
	Subscription   subscription.Service
	VAPIDPublicKey string
}

// NewServices wires the notification engine. redis may be nil; stats caching
// and realtime events are then skipped.
func NewServices(repos *repository.Repositories, redis *redis.Client, cfg *config.Config) *Services {
	var publisher channel.Publisher
	if redis != nil {
		publisher = redis
	}

	dispatcher := notification.NewDispatcher(
		repos.Notification,
		repos.User,
		channel.NewInApp(publisher),
		NewProviders(repos, cfg),
		cfg.AppBaseURL,
		cfg.DeliveryTimeout,
	)

	auditService := audit.NewService(repos.AuditLog)

	return &Services{
		Auth:           auth.NewService(repos.User, cfg),
		Audit:          auditService,
		Notification:   notification.NewService(repos.Notification, repos.User, dispatcher, auditService, redis, cfg),
		Subscription:   subscription.NewService(repos.PushSubscription),
		VAPIDPublicKey: cfg.VAPIDPublicKey,
	}
}

// NewProviders builds one transport per external channel. Channels without
// configuration get a provider that always fails, so attempts stay visible.
func NewProviders(repos *repository.Repositories, cfg *config.Config) channel.Providers {
	renderer := channel.EmailRenderer{
		BaseURL:         cfg.AppBaseURL,
		DefaultLanguage: cfg.DefaultLanguage,
	}

	providers := channel.Providers{
		domain.ChannelEmail: channel.Disabled{Channel: domain.ChannelEmail},
		domain.ChannelSMS:   channel.Disabled{Channel: domain.ChannelSMS},
	}

	switch strings.ToLower(cfg.EmailProvider) {
	case "resend":
		if cfg.ResendAPIKey != "" {
			providers[domain.ChannelEmail] = channel.NewResendEmail(cfg.ResendAPIKey, cfg.FromName, cfg.FromEmail, renderer)
		} else {
			logrus.Warn("RESEND_API_KEY is not set, email delivery disabled")
		}
	case "smtp":
		providers[domain.ChannelEmail] = channel.NewSMTPEmail(
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword,
			cfg.FromName, cfg.FromEmail, renderer,
		)
	}

	if cfg.SMSGatewayURL != "" {
		providers[domain.ChannelSMS] = channel.NewSMSGateway(cfg.SMSGatewayURL, cfg.SMSGatewayToken, cfg.SMSSenderID)
	}

	apnsClient, err := channel.NewAPNsClient(cfg.APNSCertPath, cfg.APNSCertPassword, cfg.APNSProduction)
	if err != nil {
		logrus.WithError(err).Warn("APNs disabled")
		apnsClient = nil
	}
	providers[domain.ChannelPush] = channel.NewPush(repos.PushSubscription, channel.PushConfig{
		VAPIDPublicKey:  cfg.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.VAPIDPrivateKey,
		VAPIDSubject:    cfg.VAPIDSubject,
		APNSTopic:       cfg.APNSTopic,
	}, apnsClient)

	return providers
}
