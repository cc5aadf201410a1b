package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"aide-sociale/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	CreateMany(ctx context.Context, ns []*domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	UpdateDelivery(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, filter domain.NotificationFilter, params domain.ListParams) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID, at time.Time, meta domain.InteractionMeta) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
	MarkAsClicked(ctx context.Context, id uuid.UUID, at time.Time, meta domain.InteractionMeta) (*domain.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID, now time.Time) (domain.FeedCounts, error)
	FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]domain.Notification, error)
	FindRetryable(ctx context.Context, now time.Time, maxRetries, limit int) ([]domain.Notification, error)
	SoftDeleteExpired(ctx context.Context, now time.Time) (int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	Stats(ctx context.Context, filter domain.NotificationFilter) (domain.StatsCounts, error)
	EngagementTrends(ctx context.Context, filter domain.NotificationFilter, granularity domain.TrendGranularity) ([]domain.TrendBucket, error)
	ChannelPerformance(ctx context.Context, filter domain.NotificationFilter) ([]domain.ChannelCounts, error)
	Breakdown(ctx context.Context, filter domain.NotificationFilter, field string) ([]domain.BreakdownEntry, error)
}

var breakdownFields = map[string]string{
	"type":     "type",
	"category": "category",
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

const insertNotification = `
	INSERT INTO notifications (notification_id, recipient_id, batch_id, title, message, language,
		type, category, priority, is_urgent, channels, delivery_status, related,
		action_required, action_type, action_url, action_data, scheduled_for, expires_at,
		status, retry_count, created_by, interaction)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	RETURNING number, created_at, updated_at`

func insertRow(ctx context.Context, q sqlx.QueryerContext, n *domain.Notification) error {
	return q.QueryRowxContext(ctx, insertNotification,
		n.ID, n.RecipientID, n.BatchID, n.Title, n.Message, n.Language,
		n.Type, n.Category, n.Priority, n.IsUrgent, n.Channels, n.DeliveryStatus, n.Related,
		n.ActionRequired, n.ActionType, n.ActionURL, n.ActionData, n.ScheduledFor, n.ExpiresAt,
		n.Status, n.RetryCount, n.CreatedBy, n.Interaction,
	).Scan(&n.Number, &n.CreatedAt, &n.UpdatedAt)
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return errors.Wrap(insertRow(ctx, r.db, n), "insert notification")
}

// CreateMany inserts every row or none.
func (r *notificationRepository) CreateMany(ctx context.Context, ns []*domain.Notification) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin notification insert")
	}
	defer tx.Rollback()

	for _, n := range ns {
		if err := insertRow(ctx, tx, n); err != nil {
			return errors.Wrapf(err, "insert notification for %s", n.RecipientID)
		}
	}
	return errors.Wrap(tx.Commit(), "commit notification insert")
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	w := newWhere()
	w.add("notification_id = ?", id)

	var n domain.Notification
	err := r.db.GetContext(ctx, &n, `SELECT * FROM notifications `+w.sql(), w.args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get notification")
	}
	return &n, nil
}

func (r *notificationRepository) UpdateDelivery(ctx context.Context, n *domain.Notification) error {
	query := `
		UPDATE notifications
		SET channels = $2, status = $3, sent_at = $4, delivery_status = $5,
			retry_count = $6, retry_after = $7, updated_at = NOW()
		WHERE notification_id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		n.ID, n.Channels, n.Status, n.SentAt, n.DeliveryStatus, n.RetryCount, n.RetryAfter,
	).Scan(&n.UpdatedAt)
	return errors.Wrap(err, "update notification delivery")
}

func (r *notificationRepository) List(ctx context.Context, filter domain.NotificationFilter, params domain.ListParams) ([]domain.Notification, int64, error) {
	params.PaginationParams.Validate()
	w := buildNotificationWhere(filter)

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications `+w.sql(), w.args...); err != nil {
		return nil, 0, errors.Wrap(err, "count notifications")
	}

	query := fmt.Sprintf(`SELECT * FROM notifications %s %s LIMIT %s OFFSET %s`,
		w.sql(), orderClause(params), w.next(params.PageSize), w.next(params.Offset()))

	notifications := []domain.Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query, w.args...); err != nil {
		return nil, 0, errors.Wrap(err, "list notifications")
	}
	return notifications, total, nil
}

// MarkAsRead returns the updated row, or nil when the notification was already read.
func (r *notificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID, at time.Time, meta domain.InteractionMeta) (*domain.Notification, error) {
	query := `
		UPDATE notifications
		SET is_read = true, read_at = $2,
			status = CASE WHEN status IN ('sent', 'delivered') THEN 'read' ELSE status END,
			interaction = $3::jsonb || interaction,
			updated_at = $2
		WHERE notification_id = $1 AND is_read = false AND is_deleted = false
		RETURNING *`

	var n domain.Notification
	err := r.db.GetContext(ctx, &n, query, id, at, meta)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "mark notification read")
	}
	return &n, nil
}

// MarkAllAsRead only touches what the feed shows, so rows still scheduled
// for later or already expired keep their unread state.
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	w := feedWhere(userID, at)
	w.add("is_read = false")
	at1 := w.next(at)

	query := fmt.Sprintf(`
		UPDATE notifications
		SET is_read = true, read_at = %[1]s, updated_at = %[1]s,
			status = CASE WHEN status IN ('sent', 'delivered') THEN 'read' ELSE status END
		%[2]s`, at1, w.sql())

	res, err := r.db.ExecContext(ctx, query, w.args...)
	if err != nil {
		return 0, errors.Wrap(err, "mark all notifications read")
	}
	return res.RowsAffected()
}

// MarkAsClicked also marks an unread notification read, keeping an existing readAt.
func (r *notificationRepository) MarkAsClicked(ctx context.Context, id uuid.UUID, at time.Time, meta domain.InteractionMeta) (*domain.Notification, error) {
	query := `
		UPDATE notifications
		SET is_clicked = true, clicked_at = $2,
			is_read = true, read_at = COALESCE(read_at, $2),
			status = CASE WHEN status IN ('sent', 'delivered', 'read') THEN 'clicked' ELSE status END,
			interaction = $3::jsonb || interaction,
			updated_at = $2
		WHERE notification_id = $1 AND is_clicked = false AND is_deleted = false
		RETURNING *`

	var n domain.Notification
	err := r.db.GetContext(ctx, &n, query, id, at, meta)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "mark notification clicked")
	}
	return &n, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID, now time.Time) (domain.FeedCounts, error) {
	w := feedWhere(userID, now)
	w.add("is_read = false")

	query := `
		SELECT COUNT(*) AS unread,
			COUNT(*) FILTER (WHERE action_required) AS unread_action_required
		FROM notifications ` + w.sql()

	var counts domain.FeedCounts
	err := r.db.GetContext(ctx, &counts, query, w.args...)
	return counts, errors.Wrap(err, "count unread notifications")
}

func (r *notificationRepository) FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]domain.Notification, error) {
	w := newWhere()
	w.add("status = ?", domain.StatusPending)
	w.add("scheduled_for IS NOT NULL")
	w.add("scheduled_for <= ?", now)
	w.add("(expires_at IS NULL OR expires_at >= ?)", now)

	query := fmt.Sprintf(`SELECT * FROM notifications %s ORDER BY scheduled_for ASC LIMIT %s`, w.sql(), w.next(limit))

	notifications := []domain.Notification{}
	err := r.db.SelectContext(ctx, &notifications, query, w.args...)
	return notifications, errors.Wrap(err, "find due scheduled notifications")
}

func (r *notificationRepository) FindRetryable(ctx context.Context, now time.Time, maxRetries, limit int) ([]domain.Notification, error) {
	w := newWhere()
	w.add("status = ?", domain.StatusFailed)
	w.add("retry_count < ?", maxRetries)
	w.add("(retry_after IS NULL OR retry_after <= ?)", now)
	w.add("(expires_at IS NULL OR expires_at >= ?)", now)

	query := fmt.Sprintf(`SELECT * FROM notifications %s ORDER BY created_at ASC LIMIT %s`, w.sql(), w.next(limit))

	notifications := []domain.Notification{}
	err := r.db.SelectContext(ctx, &notifications, query, w.args...)
	return notifications, errors.Wrap(err, "find retryable notifications")
}

func (r *notificationRepository) SoftDeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	w := newWhere()
	w.add("expires_at < ?", now)

	query := fmt.Sprintf(`UPDATE notifications SET is_deleted = true, deleted_at = $1, updated_at = $1 %s`, w.sql())

	res, err := r.db.ExecContext(ctx, query, w.args...)
	if err != nil {
		return 0, errors.Wrap(err, "soft delete expired notifications")
	}
	return res.RowsAffected()
}

func (r *notificationRepository) SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	query := `UPDATE notifications SET is_deleted = true, deleted_at = $2, updated_at = $2 WHERE notification_id = $1 AND is_deleted = false`

	res, err := r.db.ExecContext(ctx, query, id, now)
	if err != nil {
		return false, errors.Wrap(err, "soft delete notification")
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *notificationRepository) Stats(ctx context.Context, filter domain.NotificationFilter) (domain.StatsCounts, error) {
	w := buildNotificationWhere(filter)

	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE sent_at IS NOT NULL) AS sent,
			COUNT(*) FILTER (WHERE delivery_status = 'fully_delivered') AS delivered,
			COUNT(*) FILTER (WHERE is_read) AS "read",
			COUNT(*) FILTER (WHERE is_clicked) AS clicked,
			COUNT(*) FILTER (WHERE status = 'failed') AS failed,
			COUNT(*) FILTER (WHERE is_urgent) AS urgent,
			COUNT(*) FILTER (WHERE action_required) AS action_required,
			AVG(EXTRACT(EPOCH FROM (sent_at - created_at))) AS avg_delivery_seconds,
			AVG(EXTRACT(EPOCH FROM (read_at - sent_at))) AS avg_read_seconds
		FROM notifications ` + w.sql()

	var counts domain.StatsCounts
	err := r.db.GetContext(ctx, &counts, query, w.args...)
	return counts, errors.Wrap(err, "notification stats")
}

func (r *notificationRepository) EngagementTrends(ctx context.Context, filter domain.NotificationFilter, granularity domain.TrendGranularity) ([]domain.TrendBucket, error) {
	if !granularity.IsValid() {
		granularity = domain.GranularityDay
	}
	w := buildNotificationWhere(filter)
	unit := w.next(string(granularity))

	query := fmt.Sprintf(`
		SELECT
			date_trunc(%s::text, created_at) AS bucket,
			COUNT(*) FILTER (WHERE sent_at IS NOT NULL) AS sent,
			COUNT(*) FILTER (WHERE is_read) AS "read",
			COUNT(*) FILTER (WHERE is_clicked) AS clicked,
			COUNT(*) FILTER (WHERE status = 'failed') AS failed
		FROM notifications %s
		GROUP BY bucket
		ORDER BY bucket ASC`, unit, w.sql())

	buckets := []domain.TrendBucket{}
	if err := r.db.SelectContext(ctx, &buckets, query, w.args...); err != nil {
		return nil, errors.Wrap(err, "notification trends")
	}
	for i := range buckets {
		buckets[i].ComputeRates()
	}
	return buckets, nil
}

func (r *notificationRepository) ChannelPerformance(ctx context.Context, filter domain.NotificationFilter) ([]domain.ChannelCounts, error) {
	names := make([]string, 0, len(domain.AllChannels))
	for _, c := range domain.AllChannels {
		names = append(names, string(c))
	}

	w := buildNotificationWhere(filter)
	list := w.next(pq.Array(names))

	query := fmt.Sprintf(`
		SELECT
			ch.name AS channel,
			COUNT(*) FILTER (WHERE COALESCE((channels -> ch.name ->> 'enabled')::boolean, false)) AS enabled,
			COUNT(*) FILTER (WHERE COALESCE((channels -> ch.name ->> 'enabled')::boolean, false)
				AND COALESCE((channels -> ch.name ->> 'delivered')::boolean, false)) AS delivered
		FROM notifications CROSS JOIN unnest(%s::text[]) AS ch(name)
		%s
		GROUP BY ch.name`, list, w.sql())

	rows := []domain.ChannelCounts{}
	err := r.db.SelectContext(ctx, &rows, query, w.args...)
	return rows, errors.Wrap(err, "channel performance")
}

func (r *notificationRepository) Breakdown(ctx context.Context, filter domain.NotificationFilter, field string) ([]domain.BreakdownEntry, error) {
	col, ok := breakdownFields[field]
	if !ok {
		return nil, errors.Errorf("unsupported breakdown field %q", field)
	}
	w := buildNotificationWhere(filter)

	query := fmt.Sprintf(`
		SELECT %[1]s AS key, COUNT(*) AS count
		FROM notifications %[2]s
		GROUP BY %[1]s
		ORDER BY count DESC, key ASC`, col, w.sql())

	entries := []domain.BreakdownEntry{}
	err := r.db.SelectContext(ctx, &entries, query, w.args...)
	return entries, errors.Wrap(err, "notification breakdown")
}
