package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"aide-sociale/internal/domain"
)

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepository) CreateMany(ctx context.Context, ns []*domain.Notification) error {
	args := m.Called(ctx, ns)
	return args.Error(0)
}

func (m *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationRepository) UpdateDelivery(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepository) List(ctx context.Context, filter domain.NotificationFilter, params domain.ListParams) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, filter, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *NotificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID, at time.Time, meta domain.InteractionMeta) (*domain.Notification, error) {
	args := m.Called(ctx, id, at, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, userID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepository) MarkAsClicked(ctx context.Context, id uuid.UUID, at time.Time, meta domain.InteractionMeta) (*domain.Notification, error) {
	args := m.Called(ctx, id, at, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID, now time.Time) (domain.FeedCounts, error) {
	args := m.Called(ctx, userID, now)
	return args.Get(0).(domain.FeedCounts), args.Error(1)
}

func (m *NotificationRepository) FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *NotificationRepository) FindRetryable(ctx context.Context, now time.Time, maxRetries, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, now, maxRetries, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *NotificationRepository) SoftDeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepository) SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

func (m *NotificationRepository) Stats(ctx context.Context, filter domain.NotificationFilter) (domain.StatsCounts, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(domain.StatsCounts), args.Error(1)
}

func (m *NotificationRepository) EngagementTrends(ctx context.Context, filter domain.NotificationFilter, granularity domain.TrendGranularity) ([]domain.TrendBucket, error) {
	args := m.Called(ctx, filter, granularity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrendBucket), args.Error(1)
}

func (m *NotificationRepository) ChannelPerformance(ctx context.Context, filter domain.NotificationFilter) ([]domain.ChannelCounts, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChannelCounts), args.Error(1)
}

func (m *NotificationRepository) Breakdown(ctx context.Context, filter domain.NotificationFilter, field string) ([]domain.BreakdownEntry, error) {
	args := m.Called(ctx, filter, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BreakdownEntry), args.Error(1)
}
