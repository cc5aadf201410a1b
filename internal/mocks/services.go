package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"aide-sociale/internal/domain"
	"aide-sociale/internal/service/auth"
)

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) Create(ctx context.Context, caller domain.Caller, input domain.CreateNotificationInput) ([]domain.Notification, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *NotificationService) SendBulk(ctx context.Context, caller domain.Caller, input domain.BulkNotificationInput) (*domain.BulkResult, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkResult), args.Error(1)
}

func (m *NotificationService) GetByID(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Notification, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationService) List(ctx context.Context, caller domain.Caller, filter domain.NotificationFilter, params domain.ListParams) (domain.PaginatedResponse[domain.Notification], error) {
	args := m.Called(ctx, caller, filter, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Notification]), args.Error(1)
}

func (m *NotificationService) GetUserFeed(ctx context.Context, caller domain.Caller, filter domain.NotificationFilter, params domain.ListParams) (*domain.UserFeed, error) {
	args := m.Called(ctx, caller, filter, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserFeed), args.Error(1)
}

func (m *NotificationService) GetUnreadCount(ctx context.Context, caller domain.Caller) (domain.FeedCounts, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).(domain.FeedCounts), args.Error(1)
}

func (m *NotificationService) MarkAsRead(ctx context.Context, caller domain.Caller, id uuid.UUID, meta domain.InteractionMeta) (*domain.Notification, error) {
	args := m.Called(ctx, caller, id, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationService) MarkAllAsRead(ctx context.Context, caller domain.Caller) (int64, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) MarkAsClicked(ctx context.Context, caller domain.Caller, id uuid.UUID, meta domain.InteractionMeta) (*domain.Notification, error) {
	args := m.Called(ctx, caller, id, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationService) Delete(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

func (m *NotificationService) GetStats(ctx context.Context, caller domain.Caller, filter domain.NotificationFilter, granularity domain.TrendGranularity) (*domain.StatsReport, error) {
	args := m.Called(ctx, caller, filter, granularity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatsReport), args.Error(1)
}

func (m *NotificationService) ProcessScheduled(ctx context.Context, caller domain.Caller) (domain.SweepResult, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).(domain.SweepResult), args.Error(1)
}

func (m *NotificationService) RetryFailed(ctx context.Context, caller domain.Caller, maxRetries int) (domain.SweepResult, error) {
	args := m.Called(ctx, caller, maxRetries)
	return args.Get(0).(domain.SweepResult), args.Error(1)
}

func (m *NotificationService) CleanExpired(ctx context.Context, caller domain.Caller) (domain.CleanupResult, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).(domain.CleanupResult), args.Error(1)
}

type AuthService struct {
	mock.Mock
}

func (m *AuthService) ValidateAccessToken(token string) (*auth.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

func (m *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type SubscriptionService struct {
	mock.Mock
}

func (m *SubscriptionService) Subscribe(ctx context.Context, caller domain.Caller, input domain.PushSubscriptionInput) (*domain.PushSubscription, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PushSubscription), args.Error(1)
}

func (m *SubscriptionService) Unsubscribe(ctx context.Context, caller domain.Caller, address string) error {
	args := m.Called(ctx, caller, address)
	return args.Error(0)
}

func (m *SubscriptionService) List(ctx context.Context, caller domain.Caller) ([]domain.PushSubscription, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PushSubscription), args.Error(1)
}
