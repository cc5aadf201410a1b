package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aide-sociale/internal/domain"
)

func TestResolveChannels(t *testing.T) {
	requested := domain.Channels{
		InApp: domain.ChannelState{Enabled: true},
		Email: domain.ChannelState{Enabled: true},
		SMS:   domain.ChannelState{Enabled: true},
		Push:  domain.ChannelState{Enabled: true},
	}

	t.Run("email opt-out", func(t *testing.T) {
		got := ResolveChannels(requested, domain.NotificationPrefs{EmailNotifications: boolPtr(false)})
		assert.True(t, got.InApp.Enabled)
		assert.False(t, got.Email.Enabled)
		assert.True(t, got.SMS.Enabled)
		assert.True(t, got.Push.Enabled)
		assert.True(t, requested.Email.Enabled, "requested channels must not be mutated")
	})

	t.Run("sms opt-out", func(t *testing.T) {
		got := ResolveChannels(requested, domain.NotificationPrefs{SMSNotifications: boolPtr(false)})
		assert.False(t, got.SMS.Enabled)
		assert.True(t, got.Email.Enabled)
	})

	t.Run("no preference keeps the request", func(t *testing.T) {
		got := ResolveChannels(requested, domain.NotificationPrefs{})
		assert.Equal(t, 4, got.EnabledCount())
	})

	t.Run("opt-in never enables an unrequested channel", func(t *testing.T) {
		got := ResolveChannels(domain.DefaultChannels(), domain.NotificationPrefs{EmailNotifications: boolPtr(true)})
		assert.False(t, got.Email.Enabled)
	})
}
