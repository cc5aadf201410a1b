package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"aide-sociale/internal/domain"
)

type whereBuilder struct {
	conds []string
	args  []interface{}
}

// newWhere seeds every notification read path with the soft-delete predicate.
func newWhere() *whereBuilder {
	return &whereBuilder{conds: []string{"is_deleted = false"}}
}

// add appends a condition; each "?" in cond is replaced by the next $n placeholder.
func (w *whereBuilder) add(cond string, args ...interface{}) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) sql() string {
	return "WHERE " + strings.Join(w.conds, " AND ")
}

// next returns the placeholder for an argument appended after the filter args.
func (w *whereBuilder) next(arg interface{}) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

func buildNotificationWhere(f domain.NotificationFilter) *whereBuilder {
	w := newWhere()

	if f.Type != nil {
		w.add("type = ?", *f.Type)
	}
	if f.Category != nil {
		w.add("category = ?", *f.Category)
	}
	if f.Priority != nil {
		w.add("priority = ?", *f.Priority)
	}
	if f.Status != nil {
		w.add("status = ?", *f.Status)
	}
	if f.RecipientID != nil {
		w.add("recipient_id = ?", *f.RecipientID)
	}
	if f.BatchID != nil {
		w.add("batch_id = ?", *f.BatchID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		w.add("(title ILIKE '%' || ? || '%' OR message ILIKE '%' || ? || '%' OR number ILIKE '%' || ? || '%')", s, s, s)
	}
	if f.IsRead != nil {
		w.add("is_read = ?", *f.IsRead)
	}
	if f.ActionRequired != nil {
		w.add("action_required = ?", *f.ActionRequired)
	}
	if f.CreatedFrom != nil {
		w.add("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		w.add("created_at <= ?", *f.CreatedTo)
	}
	if f.DeliveryStatus != nil {
		w.add("delivery_status = ?", *f.DeliveryStatus)
	}
	if f.NotExpiredAt != nil {
		w.add("(expires_at IS NULL OR expires_at >= ?)", *f.NotExpiredAt)
	}
	if f.ReleasedBy != nil {
		w.add("(scheduled_for IS NULL OR scheduled_for <= ?)", *f.ReleasedBy)
	}

	return w
}

// feedWhere selects the rows a recipient currently sees in their feed.
func feedWhere(userID uuid.UUID, now time.Time) *whereBuilder {
	return buildNotificationWhere(domain.NotificationFilter{
		RecipientID:  &userID,
		NotExpiredAt: &now,
		ReleasedBy:   &now,
	})
}

func orderClause(p domain.ListParams) string {
	col := p.SortBy
	if !domain.SortableFields[col] {
		col = "created_at"
	}
	dir := "DESC"
	if p.SortOrder == domain.SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s, notification_id %s", col, dir, dir)
}
