package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aide-sociale/internal/domain"
)

func TestChannelPerformance(t *testing.T) {
	got := channelPerformance([]domain.ChannelCounts{
		{Channel: "email", Enabled: 8, Delivered: 6},
		{Channel: "in_app", Enabled: 10, Delivered: 10},
	})

	require.Len(t, got, 4)
	assert.Equal(t, domain.ChannelInApp, got[0].Channel)
	assert.Equal(t, 100.0, got[0].DeliveryRate)
	assert.Equal(t, domain.ChannelEmail, got[1].Channel)
	assert.Equal(t, 75.0, got[1].DeliveryRate)
	assert.Equal(t, domain.ChannelPerformance{Channel: domain.ChannelSMS}, got[2])
	assert.Equal(t, domain.ChannelPush, got[3].Channel)
}

func TestStatsCacheKey(t *testing.T) {
	typ := domain.TypePayment
	a := statsCacheKey(domain.NotificationFilter{}, domain.GranularityDay)
	b := statsCacheKey(domain.NotificationFilter{Type: &typ}, domain.GranularityDay)
	c := statsCacheKey(domain.NotificationFilter{}, domain.GranularityMonth)

	assert.Equal(t, a, statsCacheKey(domain.NotificationFilter{}, domain.GranularityDay))
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, statsCachePrefix)
}

func TestService_GetStats(t *testing.T) {
	t.Run("aggregates every section", func(t *testing.T) {
		f := newFixture()
		filter := domain.NotificationFilter{}
		f.notifRepo.On("Stats", mock.Anything, filter).
			Return(domain.StatsCounts{Total: 10, Sent: 8, Read: 4, Clicked: 2, Failed: 2}, nil).Once()
		f.notifRepo.On("EngagementTrends", mock.Anything, filter, domain.GranularityDay).
			Return([]domain.TrendBucket{{Bucket: fixedNow, Sent: 8, Read: 4}}, nil).Once()
		f.notifRepo.On("ChannelPerformance", mock.Anything, filter).Return([]domain.ChannelCounts{}, nil).Once()
		f.notifRepo.On("Breakdown", mock.Anything, filter, "type").
			Return([]domain.BreakdownEntry{{Key: "payment", Count: 10}}, nil).Once()
		f.notifRepo.On("Breakdown", mock.Anything, filter, "category").
			Return([]domain.BreakdownEntry{{Key: "info", Count: 10}}, nil).Once()

		report, err := f.svc.GetStats(context.Background(), caseWorker(), filter, "")
		require.NoError(t, err)

		assert.Equal(t, 80.0, report.Overview.DeliveryRate)
		assert.Equal(t, 50.0, report.Overview.ReadRate)
		assert.Equal(t, 50.0, report.Overview.ClickRate)
		assert.Equal(t, domain.GranularityDay, report.Granularity)
		assert.Len(t, report.ChannelPerformance, 4)
		assert.Equal(t, fixedNow, report.GeneratedAt)
		f.assertExpectations(t)
	})

	t.Run("invalid granularity", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.GetStats(context.Background(), admin(), domain.NotificationFilter{}, "week")
		assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
	})

	t.Run("beneficiary", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.GetStats(context.Background(), beneficiary(), domain.NotificationFilter{}, domain.GranularityDay)
		assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
	})
}
