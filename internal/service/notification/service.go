package notification

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"aide-sociale/internal/config"
	"aide-sociale/internal/domain"
	"aide-sociale/internal/repository"
	"aide-sociale/internal/service/audit"
)

type Service interface {
	Create(ctx context.Context, caller domain.Caller, input domain.CreateNotificationInput) ([]domain.Notification, error)
	SendBulk(ctx context.Context, caller domain.Caller, input domain.BulkNotificationInput) (*domain.BulkResult, error)
	GetByID(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Notification, error)
	List(ctx context.Context, caller domain.Caller, filter domain.NotificationFilter, params domain.ListParams) (domain.PaginatedResponse[domain.Notification], error)
	GetUserFeed(ctx context.Context, caller domain.Caller, filter domain.NotificationFilter, params domain.ListParams) (*domain.UserFeed, error)
	GetUnreadCount(ctx context.Context, caller domain.Caller) (domain.FeedCounts, error)
	MarkAsRead(ctx context.Context, caller domain.Caller, id uuid.UUID, meta domain.InteractionMeta) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, caller domain.Caller) (int64, error)
	MarkAsClicked(ctx context.Context, caller domain.Caller, id uuid.UUID, meta domain.InteractionMeta) (*domain.Notification, error)
	Delete(ctx context.Context, caller domain.Caller, id uuid.UUID) error
	GetStats(ctx context.Context, caller domain.Caller, filter domain.NotificationFilter, granularity domain.TrendGranularity) (*domain.StatsReport, error)

	ProcessScheduled(ctx context.Context, caller domain.Caller) (domain.SweepResult, error)
	RetryFailed(ctx context.Context, caller domain.Caller, maxRetries int) (domain.SweepResult, error)
	CleanExpired(ctx context.Context, caller domain.Caller) (domain.CleanupResult, error)
}

type service struct {
	notifRepo  repository.NotificationRepository
	userRepo   repository.UserRepository
	dispatcher Dispatcher
	targeting  *Targeting
	audit      audit.Recorder
	redis      *redis.Client
	config     *config.Config
	now        func() time.Time
}

func NewService(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	dispatcher Dispatcher,
	recorder audit.Recorder,
	redis *redis.Client,
	cfg *config.Config,
) Service {
	return &service{
		notifRepo:  notifRepo,
		userRepo:   userRepo,
		dispatcher: dispatcher,
		targeting:  NewTargeting(userRepo),
		audit:      recorder,
		redis:      redis,
		config:     cfg,
		now:        time.Now,
	}
}

func (s *service) Create(ctx context.Context, caller domain.Caller, input domain.CreateNotificationInput) ([]domain.Notification, error) {
	if err := domain.Authorize(caller, domain.OpCreateNotification); err != nil {
		return nil, err
	}

	now := s.now()
	input.ApplyDefaults()
	if err := domain.Validate(input); err != nil {
		return nil, err
	}
	if err := input.ValidateSchedule(now); err != nil {
		return nil, err
	}

	ids := uniqueIDs(input.Recipients)
	recipients, err := s.userRepo.FindReachableByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipients: %w", err)
	}
	if missing := missingIDs(ids, recipients); len(missing) > 0 {
		return nil, domain.BadRequest("Invalid or inactive recipients: %s", strings.Join(missing, ", "))
	}

	requested := input.RequestedChannels()
	pending := make([]*domain.Notification, 0, len(recipients))
	for _, r := range recipients {
		pending = append(pending, s.build(&input.NotificationContent, requested, r, caller, nil))
	}

	// Nothing is delivered unless every row was stored.
	if err := s.notifRepo.CreateMany(ctx, pending); err != nil {
		return nil, fmt.Errorf("failed to create notifications: %w", err)
	}

	created := make([]domain.Notification, 0, len(pending))
	for _, n := range pending {
		if n.ScheduledFor == nil {
			s.dispatcher.Deliver(ctx, n)
		}
		created = append(created, *n)
	}

	logrus.WithFields(logrus.Fields{
		"created_by": caller.ID,
		"count":      len(created),
		"type":       input.Type,
	}).Info("notifications created")

	return created, nil
}

func (s *service) SendBulk(ctx context.Context, caller domain.Caller, input domain.BulkNotificationInput) (*domain.BulkResult, error) {
	if err := domain.Authorize(caller, domain.OpSendBulk); err != nil {
		return nil, err
	}

	now := s.now()
	input.ApplyDefaults()
	if err := domain.Validate(input); err != nil {
		return nil, err
	}
	if err := input.ValidateSchedule(now); err != nil {
		return nil, err
	}

	recipients, err := s.targeting.Resolve(ctx, input.TargetCriteria, now)
	if err != nil {
		return nil, err
	}

	batchID := uuid.New()
	result := &domain.BulkResult{BatchID: batchID, Targeted: len(recipients)}
	log := logrus.WithFields(logrus.Fields{"batch_id": batchID, "created_by": caller.ID})

	requested := input.RequestedChannels()
	chunkSize := s.config.BulkChunkSize
	if chunkSize <= 0 {
		chunkSize = 100
	}

	for start := 0; start < len(recipients); start += chunkSize {
		end := start + chunkSize
		if end > len(recipients) {
			end = len(recipients)
		}

		for _, r := range recipients[start:end] {
			n := s.build(&input.NotificationContent, requested, r, caller, &batchID)
			if err := s.notifRepo.Create(ctx, n); err != nil {
				result.Failed++
				log.WithField("recipient", r.ID).WithError(err).Error("failed to create bulk notification")
				continue
			}
			result.Created++

			if n.ScheduledFor != nil {
				result.Scheduled++
				continue
			}
			s.dispatcher.Deliver(ctx, n)
		}
	}

	log.WithFields(logrus.Fields{
		"targeted": result.Targeted,
		"created":  result.Created,
		"failed":   result.Failed,
	}).Info("bulk notifications sent")

	s.audit.Record(ctx, caller, domain.AuditBulkSent, &batchID, result)
	return result, nil
}

// build assembles one recipient's notification. requested is cloned, so the
// same value can be shared across a whole batch.
func (s *service) build(content *domain.NotificationContent, requested domain.Channels, r domain.Recipient, caller domain.Caller, batchID *uuid.UUID) *domain.Notification {
	language := content.Language
	if language == "" {
		language = r.Preferences.Language
	}
	if language == "" {
		language = s.config.DefaultLanguage
	}

	n := &domain.Notification{
		ID:             uuid.New(),
		RecipientID:    r.ID,
		BatchID:        batchID,
		Title:          ApplyTemplate(content.Title, content.Variables),
		Message:        ApplyTemplate(content.Message, content.Variables),
		Language:       language,
		Type:           content.Type,
		Category:       content.Category,
		Priority:       content.Priority,
		Channels:       ResolveChannels(requested, r.Preferences),
		Related:        content.Related,
		ActionRequired: content.ActionRequired,
		ActionType:     content.ActionType,
		ActionURL:      content.ActionURL,
		ActionData:     content.ActionData,
		ScheduledFor:   content.ScheduledFor,
		ExpiresAt:      content.ExpiresAt,
		Status:         domain.StatusPending,
	}
	if caller.ID != uuid.Nil {
		createdBy := caller.ID
		n.CreatedBy = &createdBy
	}
	n.RefreshDerived()
	return n
}

func (s *service) GetByID(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Notification, error) {
	if err := domain.Authorize(caller, domain.OpViewOwn); err != nil {
		return nil, err
	}

	n, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.RecipientID != caller.ID && !domain.Can(caller.Role, domain.OpListAll) {
		return nil, domain.ErrNotRecipient
	}
	return n, nil
}

func (s *service) List(ctx context.Context, caller domain.Caller, filter domain.NotificationFilter, params domain.ListParams) (domain.PaginatedResponse[domain.Notification], error) {
	if err := domain.Authorize(caller, domain.OpListAll); err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	if err := filter.ValidateFields(); err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	if err := params.Validate(); err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	notifications, total, err := s.notifRepo.List(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, fmt.Errorf("failed to list notifications: %w", err)
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) GetUserFeed(ctx context.Context, caller domain.Caller, filter domain.NotificationFilter, params domain.ListParams) (*domain.UserFeed, error) {
	if err := domain.Authorize(caller, domain.OpViewOwn); err != nil {
		return nil, err
	}
	if err := filter.ValidateFields(); err != nil {
		return nil, err
	}

	now := s.now()
	filter.RecipientID = &caller.ID
	filter.NotExpiredAt = &now
	filter.ReleasedBy = &now

	if err := params.Validate(); err != nil {
		return nil, err
	}
	notifications, total, err := s.notifRepo.List(ctx, filter, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list user notifications: %w", err)
	}

	counts, err := s.notifRepo.CountUnread(ctx, caller.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return &domain.UserFeed{
		PaginatedResponse: domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total),
		FeedCounts:        counts,
	}, nil
}

func (s *service) GetUnreadCount(ctx context.Context, caller domain.Caller) (domain.FeedCounts, error) {
	if err := domain.Authorize(caller, domain.OpViewOwn); err != nil {
		return domain.FeedCounts{}, err
	}

	counts, err := s.notifRepo.CountUnread(ctx, caller.ID, s.now())
	if err != nil {
		return domain.FeedCounts{}, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return counts, nil
}

func (s *service) MarkAsRead(ctx context.Context, caller domain.Caller, id uuid.UUID, meta domain.InteractionMeta) (*domain.Notification, error) {
	n, err := s.ownNotification(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}

	updated, err := s.notifRepo.MarkAsRead(ctx, id, s.now(), meta)
	if err != nil {
		return nil, fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if updated == nil {
		// read concurrently; the stored readAt stands
		return s.load(ctx, id)
	}
	return updated, nil
}

func (s *service) MarkAllAsRead(ctx context.Context, caller domain.Caller) (int64, error) {
	if err := domain.Authorize(caller, domain.OpInteract); err != nil {
		return 0, err
	}

	count, err := s.notifRepo.MarkAllAsRead(ctx, caller.ID, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return count, nil
}

func (s *service) MarkAsClicked(ctx context.Context, caller domain.Caller, id uuid.UUID, meta domain.InteractionMeta) (*domain.Notification, error) {
	n, err := s.ownNotification(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if n.IsClicked {
		return n, nil
	}

	updated, err := s.notifRepo.MarkAsClicked(ctx, id, s.now(), meta)
	if err != nil {
		return nil, fmt.Errorf("failed to mark notification as clicked: %w", err)
	}
	if updated == nil {
		return s.load(ctx, id)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	if err := domain.Authorize(caller, domain.OpDelete); err != nil {
		return err
	}

	deleted, err := s.notifRepo.SoftDelete(ctx, id, s.now())
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if !deleted {
		return domain.ErrNotificationNotFound
	}

	s.audit.Record(ctx, caller, domain.AuditNotificationDeleted, &id, nil)
	return nil
}

func (s *service) ownNotification(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Notification, error) {
	if err := domain.Authorize(caller, domain.OpInteract); err != nil {
		return nil, err
	}

	n, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.RecipientID != caller.ID {
		return nil, domain.ErrNotRecipient
	}
	return n, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	n, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	if n == nil {
		return nil, domain.ErrNotificationNotFound
	}
	return n, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(requested []uuid.UUID, found []domain.Recipient) []string {
	present := make(map[uuid.UUID]struct{}, len(found))
	for _, r := range found {
		present[r.ID] = struct{}{}
	}

	var missing []string
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	sort.Strings(missing)
	return missing
}
