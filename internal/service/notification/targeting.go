package notification

import (
	"context"
	"fmt"
	"time"

	"aide-sociale/internal/domain"
	"aide-sociale/internal/repository"
)

// Targeting turns bulk-send criteria into the set of reachable recipients.
type Targeting struct {
	users repository.UserRepository
}

func NewTargeting(users repository.UserRepository) *Targeting {
	return &Targeting{users: users}
}

func (t *Targeting) Resolve(ctx context.Context, criteria domain.TargetCriteria, now time.Time) ([]domain.Recipient, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	recipients, err := t.users.FindByCriteria(ctx, criteria, now)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipients: %w", err)
	}
	if len(recipients) == 0 {
		return nil, domain.ErrNoMatchingUsers
	}
	return recipients, nil
}
