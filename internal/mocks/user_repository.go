package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"aide-sociale/internal/domain"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepository) FindReachableByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Recipient, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Recipient), args.Error(1)
}

func (m *UserRepository) FindByCriteria(ctx context.Context, criteria domain.TargetCriteria, now time.Time) ([]domain.Recipient, error) {
	args := m.Called(ctx, criteria, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Recipient), args.Error(1)
}
