package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"aide-sociale/internal/domain"
	"aide-sociale/internal/repository"
)

// Recorder appends to the audit trail. Recording never fails the audited
// operation; write errors are logged.
type Recorder interface {
	Record(ctx context.Context, caller domain.Caller, action domain.AuditAction, entityID *uuid.UUID, details interface{})
}

type Service interface {
	Recorder
	List(ctx context.Context, caller domain.Caller, action *domain.AuditAction, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error)
}

type service struct {
	auditRepo repository.AuditLogRepository
}

func NewService(auditRepo repository.AuditLogRepository) Service {
	return &service{
		auditRepo: auditRepo,
	}
}

func (s *service) Record(ctx context.Context, caller domain.Caller, action domain.AuditAction, entityID *uuid.UUID, details interface{}) {
	entry := &domain.AuditLog{
		ID:       uuid.New(),
		Action:   action,
		EntityID: entityID,
	}
	if caller.ID != uuid.Nil {
		actor := caller.ID
		entry.ActorID = &actor
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = raw
		}
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		logrus.WithFields(logrus.Fields{
			"action": action,
			"actor":  caller.ID,
		}).WithError(err).Error("failed to write audit log")
	}
}

func (s *service) List(ctx context.Context, caller domain.Caller, action *domain.AuditAction, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	if err := domain.Authorize(caller, domain.OpViewAudit); err != nil {
		return domain.PaginatedResponse[domain.AuditLog]{}, err
	}

	params.Validate()
	logs, total, err := s.auditRepo.List(ctx, action, params)
	if err != nil {
		return domain.PaginatedResponse[domain.AuditLog]{}, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return domain.NewPaginatedResponse(logs, params.Page, params.PageSize, total), nil
}
