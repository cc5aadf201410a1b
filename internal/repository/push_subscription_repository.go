package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"aide-sociale/internal/domain"
)

type PushSubscriptionRepository interface {
	Upsert(ctx context.Context, sub *domain.PushSubscription) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PushSubscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByAddress(ctx context.Context, userID uuid.UUID, address string) (bool, error)
}

type pushSubscriptionRepository struct {
	db *sqlx.DB
}

func NewPushSubscriptionRepository(db *sqlx.DB) PushSubscriptionRepository {
	return &pushSubscriptionRepository{db: db}
}

// Upsert keeps one row per (user, endpoint) or (user, device token); the keys are refreshed.
func (r *pushSubscriptionRepository) Upsert(ctx context.Context, sub *domain.PushSubscription) error {
	conflict := "(user_id, endpoint)"
	if sub.Platform == domain.PlatformIOS {
		conflict = "(user_id, device_token)"
	}

	query := `
		INSERT INTO push_subscriptions (subscription_id, user_id, platform, endpoint, p256dh, auth, device_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ` + conflict + ` DO UPDATE
		SET p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth, platform = EXCLUDED.platform
		RETURNING subscription_id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		sub.ID, sub.UserID, sub.Platform, sub.Endpoint, sub.P256dh, sub.Auth, sub.DeviceToken,
	).Scan(&sub.ID, &sub.CreatedAt)
	return errors.Wrap(err, "upsert push subscription")
}

func (r *pushSubscriptionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PushSubscription, error) {
	query := `SELECT * FROM push_subscriptions WHERE user_id = $1 ORDER BY created_at ASC`

	subs := []domain.PushSubscription{}
	err := r.db.SelectContext(ctx, &subs, query, userID)
	return subs, errors.Wrap(err, "list push subscriptions")
}

func (r *pushSubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM push_subscriptions WHERE subscription_id = $1`, id)
	return errors.Wrap(err, "delete push subscription")
}

// DeleteByAddress removes the subscription matching an endpoint or device token.
func (r *pushSubscriptionRepository) DeleteByAddress(ctx context.Context, userID uuid.UUID, address string) (bool, error) {
	query := `DELETE FROM push_subscriptions WHERE user_id = $1 AND (endpoint = $2 OR device_token = $2)`

	res, err := r.db.ExecContext(ctx, query, userID, address)
	if err != nil {
		return false, errors.Wrap(err, "delete push subscription")
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
