package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aide-sociale/internal/domain"
)

func validInput() domain.CreateNotificationInput {
	in := domain.CreateNotificationInput{
		NotificationContent: domain.NotificationContent{
			Title:   "Dossier mis à jour",
			Message: "Votre demande a été examinée.",
		},
		Recipients: []uuid.UUID{uuid.New()},
	}
	in.ApplyDefaults()
	return in
}

func TestNotificationContent_ApplyDefaults(t *testing.T) {
	c := domain.NotificationContent{}
	c.ApplyDefaults()

	assert.Equal(t, domain.TypeSystem, c.Type)
	assert.Equal(t, domain.CategoryInfo, c.Category)
	assert.Equal(t, domain.PriorityNormal, c.Priority)
	assert.Equal(t, domain.ActionNone, c.ActionType)
}

func TestNotificationContent_ValidateSchedule(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	soon := now.Add(time.Hour)
	later := now.Add(2 * time.Hour)

	t.Run("scheduled in the past", func(t *testing.T) {
		c := domain.NotificationContent{ScheduledFor: &past}
		err := c.ValidateSchedule(now)
		require.Error(t, err)
		assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
		assert.Contains(t, err.Error(), "must be in the future")
	})

	t.Run("expiry before schedule", func(t *testing.T) {
		c := domain.NotificationContent{ScheduledFor: &later, ExpiresAt: &soon}
		err := c.ValidateSchedule(now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expires_at must be after scheduled_for")
	})

	t.Run("expiry in the past", func(t *testing.T) {
		c := domain.NotificationContent{ExpiresAt: &past}
		assert.Error(t, c.ValidateSchedule(now))
	})

	t.Run("valid window", func(t *testing.T) {
		c := domain.NotificationContent{ScheduledFor: &soon, ExpiresAt: &later}
		assert.NoError(t, c.ValidateSchedule(now))
	})
}

func TestNotificationContent_RequestedChannels(t *testing.T) {
	c := domain.NotificationContent{Channels: map[domain.ChannelName]domain.ChannelRequest{
		domain.ChannelEmail: {Enabled: true},
		domain.ChannelInApp: {Enabled: false},
	}}

	ch := c.RequestedChannels()
	assert.False(t, ch.InApp.Enabled)
	assert.True(t, ch.Email.Enabled)
	assert.False(t, ch.SMS.Enabled)

	assert.True(t, (&domain.NotificationContent{}).RequestedChannels().InApp.Enabled)
}

func TestValidate_CreateInput(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, domain.Validate(validInput()))
	})

	t.Run("missing title", func(t *testing.T) {
		in := validInput()
		in.Title = ""
		err := domain.Validate(in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "title is required")
	})

	t.Run("no recipients", func(t *testing.T) {
		in := validInput()
		in.Recipients = nil
		err := domain.Validate(in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "recipients is required")
	})

	t.Run("unknown type", func(t *testing.T) {
		in := validInput()
		in.Type = "newsletter"
		err := domain.Validate(in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "type must be one of")
	})

	t.Run("unknown channel", func(t *testing.T) {
		in := validInput()
		in.Channels = map[domain.ChannelName]domain.ChannelRequest{"fax": {Enabled: true}}
		assert.Error(t, domain.Validate(in))
	})

	t.Run("title too long", func(t *testing.T) {
		in := validInput()
		in.Title = string(make([]byte, 201))
		err := domain.Validate(in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at most 200 characters")
	})
}

func TestValidate_PushSubscriptionInput(t *testing.T) {
	assert.NoError(t, domain.Validate(domain.PushSubscriptionInput{Platform: domain.PlatformIOS, DeviceToken: "abc"}))

	err := domain.Validate(domain.PushSubscriptionInput{Platform: domain.PlatformWeb, Endpoint: "https://push.example/1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p256dh is required")
}
