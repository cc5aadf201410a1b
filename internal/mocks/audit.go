package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"aide-sociale/internal/domain"
)

type AuditRecorder struct {
	mock.Mock
}

func (m *AuditRecorder) Record(ctx context.Context, caller domain.Caller, action domain.AuditAction, entityID *uuid.UUID, details interface{}) {
	m.Called(ctx, caller, action, entityID, details)
}

type AuditService struct {
	AuditRecorder
}

func (m *AuditService) List(ctx context.Context, caller domain.Caller, action *domain.AuditAction, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	args := m.Called(ctx, caller, action, params)
	return args.Get(0).(domain.PaginatedResponse[domain.AuditLog]), args.Error(1)
}

type AuditLogRepository struct {
	mock.Mock
}

func (m *AuditLogRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditLogRepository) List(ctx context.Context, action *domain.AuditAction, params domain.PaginationParams) ([]domain.AuditLog, int64, error) {
	args := m.Called(ctx, action, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.AuditLog), args.Get(1).(int64), args.Error(2)
}
