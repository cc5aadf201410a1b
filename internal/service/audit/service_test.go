package audit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aide-sociale/internal/domain"
	"aide-sociale/internal/mocks"
	"aide-sociale/internal/service/audit"
)

func TestService_Record(t *testing.T) {
	t.Run("staff actor and details", func(t *testing.T) {
		repo := new(mocks.AuditLogRepository)
		svc := audit.NewService(repo)
		caller := domain.Caller{ID: uuid.New(), Role: domain.RoleAdmin}
		entity := uuid.New()

		repo.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.AuditLog) bool {
			return l.ActorID != nil && *l.ActorID == caller.ID &&
				l.Action == domain.AuditBulkSent &&
				l.EntityID != nil && *l.EntityID == entity &&
				string(l.Details) == `{"created":3}`
		})).Return(nil).Once()

		svc.Record(context.Background(), caller, domain.AuditBulkSent, &entity, map[string]int{"created": 3})
		repo.AssertExpectations(t)
	})

	t.Run("system caller has no actor", func(t *testing.T) {
		repo := new(mocks.AuditLogRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.AuditLog) bool {
			return l.ActorID == nil && l.Details == nil
		})).Return(nil).Once()

		audit.NewService(repo).Record(context.Background(), domain.SystemCaller(), domain.AuditExpiredCleaned, nil, nil)
		repo.AssertExpectations(t)
	})

	t.Run("write failure is swallowed", func(t *testing.T) {
		repo := new(mocks.AuditLogRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

		assert.NotPanics(t, func() {
			audit.NewService(repo).Record(context.Background(), domain.SystemCaller(), domain.AuditFailedRetried, nil, nil)
		})
	})
}

func TestService_List(t *testing.T) {
	t.Run("admin", func(t *testing.T) {
		repo := new(mocks.AuditLogRepository)
		action := domain.AuditNotificationDeleted
		repo.On("List", mock.Anything, &action, domain.PaginationParams{Page: 1, PageSize: 20}).
			Return([]domain.AuditLog{{ID: uuid.New(), Action: action}}, int64(1), nil).Once()

		res, err := audit.NewService(repo).List(context.Background(),
			domain.Caller{ID: uuid.New(), Role: domain.RoleAdmin}, &action, domain.PaginationParams{})
		require.NoError(t, err)
		assert.Len(t, res.Data, 1)
		assert.Equal(t, int64(1), res.TotalItems)
	})

	t.Run("case worker", func(t *testing.T) {
		repo := new(mocks.AuditLogRepository)
		_, err := audit.NewService(repo).List(context.Background(),
			domain.Caller{ID: uuid.New(), Role: domain.RoleCaseWorker}, nil, domain.PaginationParams{})
		assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})
}
