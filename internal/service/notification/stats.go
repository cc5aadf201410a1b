package notification

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"aide-sociale/internal/domain"
)

const statsCachePrefix = "notifications:stats:"

func (s *service) GetStats(ctx context.Context, caller domain.Caller, filter domain.NotificationFilter, granularity domain.TrendGranularity) (*domain.StatsReport, error) {
	if err := domain.Authorize(caller, domain.OpViewStats); err != nil {
		return nil, err
	}
	if err := filter.ValidateFields(); err != nil {
		return nil, err
	}
	if granularity == "" {
		granularity = domain.GranularityDay
	}
	if !granularity.IsValid() {
		return nil, domain.BadRequest("Invalid granularity %q", granularity)
	}

	cacheKey := statsCacheKey(filter, granularity)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var report domain.StatsReport
			if json.Unmarshal([]byte(cached), &report) == nil {
				return &report, nil
			}
		}
	}

	counts, err := s.notifRepo.Stats(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to compute notification stats: %w", err)
	}

	trends, err := s.notifRepo.EngagementTrends(ctx, filter, granularity)
	if err != nil {
		return nil, fmt.Errorf("failed to compute engagement trends: %w", err)
	}

	channelRows, err := s.notifRepo.ChannelPerformance(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to compute channel performance: %w", err)
	}

	byType, err := s.notifRepo.Breakdown(ctx, filter, "type")
	if err != nil {
		return nil, fmt.Errorf("failed to compute type breakdown: %w", err)
	}

	byCategory, err := s.notifRepo.Breakdown(ctx, filter, "category")
	if err != nil {
		return nil, fmt.Errorf("failed to compute category breakdown: %w", err)
	}

	report := &domain.StatsReport{
		Overview:           domain.NewNotificationStats(counts),
		Trends:             trends,
		ChannelPerformance: channelPerformance(channelRows),
		ByType:             byType,
		ByCategory:         byCategory,
		Granularity:        granularity,
		GeneratedAt:        s.now().UTC(),
	}

	if s.redis != nil {
		if reportJSON, err := json.Marshal(report); err == nil {
			if err := s.redis.Set(ctx, cacheKey, reportJSON, s.config.StatsCacheTTL).Err(); err != nil {
				logrus.WithError(err).Warn("failed to cache notification stats")
			}
		}
	}

	return report, nil
}

// channelPerformance lists every channel in fixed order, zero-filled.
func channelPerformance(rows []domain.ChannelCounts) []domain.ChannelPerformance {
	byName := make(map[string]domain.ChannelCounts, len(rows))
	for _, r := range rows {
		byName[r.Channel] = r
	}

	out := make([]domain.ChannelPerformance, 0, len(domain.AllChannels))
	for _, name := range domain.AllChannels {
		r := byName[string(name)]
		out = append(out, domain.ChannelPerformance{
			Channel:      name,
			Enabled:      r.Enabled,
			Delivered:    r.Delivered,
			DeliveryRate: domain.Rate(r.Delivered, r.Enabled),
		})
	}
	return out
}

func statsCacheKey(filter domain.NotificationFilter, granularity domain.TrendGranularity) string {
	raw, _ := json.Marshal(struct {
		Filter      domain.NotificationFilter
		Granularity domain.TrendGranularity
	}{filter, granularity})
	sum := sha1.Sum(raw)
	return statsCachePrefix + hex.EncodeToString(sum[:])
}
