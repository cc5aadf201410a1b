package notification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"aide-sociale/internal/config"
	"aide-sociale/internal/domain"
	"aide-sociale/internal/mocks"
)

var fixedNow = time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

type fixture struct {
	svc        *service
	notifRepo  *mocks.NotificationRepository
	userRepo   *mocks.UserRepository
	dispatcher *mocks.Dispatcher
	audit      *mocks.AuditRecorder
}

func newFixture() *fixture {
	f := &fixture{
		notifRepo:  new(mocks.NotificationRepository),
		userRepo:   new(mocks.UserRepository),
		dispatcher: new(mocks.Dispatcher),
		audit:      new(mocks.AuditRecorder),
	}
	f.audit.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	cfg := &config.Config{
		DefaultLanguage:   "fr",
		BulkChunkSize:     2,
		SweepBatchSize:    50,
		DefaultMaxRetries: 3,
		StatsCacheTTL:     time.Minute,
	}
	f.svc = NewService(f.notifRepo, f.userRepo, f.dispatcher, f.audit, nil, cfg).(*service)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.notifRepo.AssertExpectations(t)
	f.userRepo.AssertExpectations(t)
	f.dispatcher.AssertExpectations(t)
}

func admin() domain.Caller {
	return domain.Caller{ID: uuid.New(), Role: domain.RoleAdmin}
}

func caseWorker() domain.Caller {
	return domain.Caller{ID: uuid.New(), Role: domain.RoleCaseWorker}
}

func beneficiary() domain.Caller {
	return domain.Caller{ID: uuid.New(), Role: domain.RoleUser}
}

func boolPtr(b bool) *bool { return &b }
