package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"aide-sociale/internal/domain"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, action *domain.AuditAction, params domain.PaginationParams) ([]domain.AuditLog, int64, error)
}

type auditLogRepository struct {
	db *sqlx.DB
}

func NewAuditLogRepository(db *sqlx.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (audit_id, actor_id, action, entity_id, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		log.ID, log.ActorID, log.Action, log.EntityID, log.Details,
	).Scan(&log.CreatedAt)
	return errors.Wrap(err, "create audit log")
}

func (r *auditLogRepository) List(ctx context.Context, action *domain.AuditAction, params domain.PaginationParams) ([]domain.AuditLog, int64, error) {
	params.Validate()

	w := &whereBuilder{conds: []string{"TRUE"}}
	if action != nil {
		w.add("al.action = ?", *action)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM audit_logs al `+w.sql(), w.args...); err != nil {
		return nil, 0, errors.Wrap(err, "count audit logs")
	}

	query := `
		SELECT al.*, u.full_name AS actor_name
		FROM audit_logs al
		LEFT JOIN users u ON al.actor_id = u.user_id
		` + w.sql() + `
		ORDER BY al.created_at DESC
		LIMIT ` + w.next(params.PageSize) + ` OFFSET ` + w.next(params.Offset())

	logs := []domain.AuditLog{}
	err := r.db.SelectContext(ctx, &logs, query, w.args...)
	return logs, total, errors.Wrap(err, "list audit logs")
}
