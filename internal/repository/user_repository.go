package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"aide-sociale/internal/domain"
)

// UserRepository is the read side of the user directory.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindReachableByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Recipient, error)
	FindByCriteria(ctx context.Context, criteria domain.TargetCriteria, now time.Time) ([]domain.Recipient, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE user_id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get user")
	}
	return &user, nil
}

func (r *userRepository) FindReachableByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Recipient, error) {
	if len(ids) == 0 {
		return []domain.Recipient{}, nil
	}

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	w := reachableUsers()
	w.add("user_id = ANY(?::uuid[])", pq.Array(strIDs))

	recipients := []domain.Recipient{}
	err := r.db.SelectContext(ctx, &recipients, `SELECT user_id, preferences FROM users `+w.sql(), w.args...)
	return recipients, errors.Wrap(err, "find users by id")
}

func (r *userRepository) FindByCriteria(ctx context.Context, criteria domain.TargetCriteria, now time.Time) ([]domain.Recipient, error) {
	w := buildCriteriaWhere(criteria, now)

	recipients := []domain.Recipient{}
	err := r.db.SelectContext(ctx, &recipients, `SELECT user_id, preferences FROM users `+w.sql()+` ORDER BY created_at ASC`, w.args...)
	return recipients, errors.Wrap(err, "find users by criteria")
}

func reachableUsers() *whereBuilder {
	statuses := make([]string, len(domain.ReachableAccountStatuses))
	for i, s := range domain.ReachableAccountStatuses {
		statuses[i] = string(s)
	}

	w := &whereBuilder{conds: []string{"deleted_at IS NULL"}}
	w.add("account_status = ANY(?)", pq.Array(statuses))
	return w
}

// buildCriteriaWhere ANDs the criteria fields; each multi-valued field is an OR-set.
func buildCriteriaWhere(c domain.TargetCriteria, now time.Time) *whereBuilder {
	w := reachableUsers()

	if len(c.Roles) > 0 {
		roles := make([]string, len(c.Roles))
		for i, role := range c.Roles {
			roles[i] = string(role)
		}
		w.add("role = ANY(?)", pq.Array(roles))
	}
	if len(c.Departments) > 0 {
		w.add("region = ANY(?)", pq.Array(c.Departments))
	}
	if len(c.EligibilityStatus) > 0 {
		w.add("eligibility_status = ANY(?)", pq.Array(c.EligibilityStatus))
	}
	if len(c.Categories) > 0 {
		w.add("eligibility_categories && ?::text[]", pq.Array(c.Categories))
	}

	bornOnOrBefore, bornOnOrAfter := c.AgeRange.BirthDateBounds(now)
	if bornOnOrBefore != nil {
		w.add("date_of_birth <= ?::date", *bornOnOrBefore)
	}
	if bornOnOrAfter != nil {
		w.add("date_of_birth >= ?::date", *bornOnOrAfter)
	}

	return w
}
