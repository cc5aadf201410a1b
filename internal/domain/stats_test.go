package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aide-sociale/internal/domain"
)

func TestNewNotificationStats(t *testing.T) {
	avg := 1.23456
	s := domain.NewNotificationStats(domain.StatsCounts{
		Total:           10,
		Sent:            8,
		Read:            4,
		Clicked:         2,
		Failed:          2,
		AvgDeliveryTime: &avg,
	})

	assert.Equal(t, 80.0, s.DeliveryRate)
	assert.Equal(t, 50.0, s.ReadRate)
	assert.Equal(t, 50.0, s.ClickRate)
	assert.Equal(t, 20.0, s.FailureRate)
	assert.Equal(t, 1.23, s.AvgDeliverySeconds)
	assert.Zero(t, s.AvgReadSeconds)
}

func TestRate(t *testing.T) {
	assert.Zero(t, domain.Rate(5, 0))
	assert.Equal(t, 33.33, domain.Rate(1, 3))
	assert.Equal(t, 66.67, domain.Rate(2, 3))
}

func TestTrendBucket_ComputeRates(t *testing.T) {
	b := domain.TrendBucket{Sent: 4, Read: 1, Clicked: 0}
	b.ComputeRates()
	assert.Equal(t, 25.0, b.ReadRate)
	assert.Zero(t, b.ClickRate)
}

func TestNotificationFilter_ValidateFields(t *testing.T) {
	bad := domain.NotificationType("newsletter")
	assert.Error(t, domain.NotificationFilter{Type: &bad}.ValidateFields())
	assert.NoError(t, domain.NotificationFilter{}.ValidateFields())
}
