package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"aide-sociale/internal/domain"
)

type PushSubscriptionRepository struct {
	mock.Mock
}

func (m *PushSubscriptionRepository) Upsert(ctx context.Context, sub *domain.PushSubscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *PushSubscriptionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PushSubscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PushSubscription), args.Error(1)
}

func (m *PushSubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *PushSubscriptionRepository) DeleteByAddress(ctx context.Context, userID uuid.UUID, address string) (bool, error) {
	args := m.Called(ctx, userID, address)
	return args.Bool(0), args.Error(1)
}
