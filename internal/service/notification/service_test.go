package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aide-sociale/internal/domain"
)

func content() domain.NotificationContent {
	return domain.NotificationContent{
		Title:   "Bonjour {{name}}",
		Message: "Votre dossier {{ref}} est complet.",
		Variables: map[string]interface{}{
			"name": "Aminata",
			"ref":  "AS-2026-0042",
		},
		Channels: map[domain.ChannelName]domain.ChannelRequest{
			domain.ChannelInApp: {Enabled: true},
			domain.ChannelEmail: {Enabled: true},
		},
	}
}

func TestService_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture()
		caller := caseWorker()
		r1 := domain.Recipient{ID: uuid.New(), Preferences: domain.NotificationPrefs{Language: "ar"}}
		r2 := domain.Recipient{ID: uuid.New(), Preferences: domain.NotificationPrefs{EmailNotifications: boolPtr(false)}}

		f.userRepo.On("FindReachableByIDs", mock.Anything, []uuid.UUID{r1.ID, r2.ID}).
			Return([]domain.Recipient{r1, r2}, nil).Once()
		f.notifRepo.On("CreateMany", mock.Anything, mock.MatchedBy(func(ns []*domain.Notification) bool {
			if len(ns) != 2 {
				return false
			}
			for _, n := range ns {
				if n.Title != "Bonjour Aminata" ||
					n.Message != "Votre dossier AS-2026-0042 est complet." ||
					n.Status != domain.StatusPending ||
					n.CreatedBy == nil || *n.CreatedBy != caller.ID ||
					n.BatchID != nil {
					return false
				}
			}
			return true
		})).Return(nil).Once()
		f.dispatcher.On("Deliver", mock.Anything, mock.Anything).Return(true).Twice()

		created, err := f.svc.Create(context.Background(), caller, domain.CreateNotificationInput{
			NotificationContent: content(),
			Recipients:          []uuid.UUID{r1.ID, r2.ID, r1.ID},
		})

		require.NoError(t, err)
		require.Len(t, created, 2)
		assert.Equal(t, "ar", created[0].Language)
		assert.Equal(t, "fr", created[1].Language)
		assert.True(t, created[0].Channels.Email.Enabled)
		assert.False(t, created[1].Channels.Email.Enabled)
		assert.Equal(t, domain.TypeSystem, created[0].Type)
		assert.NotEqual(t, created[0].ID, created[1].ID)
		f.assertExpectations(t)
	})

	t.Run("beneficiary is not allowed", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Create(context.Background(), beneficiary(), domain.CreateNotificationInput{
			NotificationContent: content(),
			Recipients:          []uuid.UUID{uuid.New()},
		})
		require.Error(t, err)
		assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
		f.userRepo.AssertNotCalled(t, "FindReachableByIDs", mock.Anything, mock.Anything)
	})

	t.Run("unknown or inactive recipient", func(t *testing.T) {
		f := newFixture()
		known, unknown := uuid.New(), uuid.New()
		f.userRepo.On("FindReachableByIDs", mock.Anything, mock.Anything).
			Return([]domain.Recipient{{ID: known}}, nil).Once()

		_, err := f.svc.Create(context.Background(), admin(), domain.CreateNotificationInput{
			NotificationContent: content(),
			Recipients:          []uuid.UUID{known, unknown},
		})
		require.Error(t, err)
		assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
		assert.Contains(t, err.Error(), unknown.String())
		f.notifRepo.AssertNotCalled(t, "CreateMany", mock.Anything, mock.Anything)
	})

	t.Run("storage failure delivers nothing", func(t *testing.T) {
		f := newFixture()
		recipients := []domain.Recipient{{ID: uuid.New()}, {ID: uuid.New()}}
		f.userRepo.On("FindReachableByIDs", mock.Anything, mock.Anything).Return(recipients, nil).Once()
		f.notifRepo.On("CreateMany", mock.Anything, mock.Anything).Return(errors.New("insert notification: unique violation")).Once()

		created, err := f.svc.Create(context.Background(), admin(), domain.CreateNotificationInput{
			NotificationContent: content(),
			Recipients:          []uuid.UUID{recipients[0].ID, recipients[1].ID},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create notifications")
		assert.Nil(t, created)
		f.dispatcher.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("schedule in the past", func(t *testing.T) {
		f := newFixture()
		past := fixedNow.Add(-time.Hour)
		c := content()
		c.ScheduledFor = &past

		_, err := f.svc.Create(context.Background(), admin(), domain.CreateNotificationInput{
			NotificationContent: c,
			Recipients:          []uuid.UUID{uuid.New()},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be in the future")
	})

	t.Run("scheduled notifications are not dispatched", func(t *testing.T) {
		f := newFixture()
		later := fixedNow.Add(time.Hour)
		c := content()
		c.ScheduledFor = &later
		r := domain.Recipient{ID: uuid.New()}

		f.userRepo.On("FindReachableByIDs", mock.Anything, mock.Anything).Return([]domain.Recipient{r}, nil).Once()
		f.notifRepo.On("CreateMany", mock.Anything, mock.Anything).Return(nil).Once()

		created, err := f.svc.Create(context.Background(), admin(), domain.CreateNotificationInput{
			NotificationContent: c,
			Recipients:          []uuid.UUID{r.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, created[0].Status)
		f.dispatcher.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
	})

	t.Run("urgent flag is derived", func(t *testing.T) {
		f := newFixture()
		c := content()
		c.Priority = domain.PriorityCritical
		r := domain.Recipient{ID: uuid.New()}

		f.userRepo.On("FindReachableByIDs", mock.Anything, mock.Anything).Return([]domain.Recipient{r}, nil).Once()
		f.notifRepo.On("CreateMany", mock.Anything, mock.MatchedBy(func(ns []*domain.Notification) bool {
			return len(ns) == 1 && ns[0].IsUrgent
		})).Return(nil).Once()
		f.dispatcher.On("Deliver", mock.Anything, mock.Anything).Return(true).Once()

		_, err := f.svc.Create(context.Background(), admin(), domain.CreateNotificationInput{
			NotificationContent: c,
			Recipients:          []uuid.UUID{r.ID},
		})
		require.NoError(t, err)
		f.assertExpectations(t)
	})
}

func TestService_SendBulk(t *testing.T) {
	t.Run("shared batch with independent channel state", func(t *testing.T) {
		f := newFixture()
		recipients := []domain.Recipient{{ID: uuid.New()}, {ID: uuid.New()}, {ID: uuid.New()}}
		criteria := domain.TargetCriteria{Roles: []domain.UserRole{domain.RoleUser}}

		var created []*domain.Notification
		f.userRepo.On("FindByCriteria", mock.Anything, criteria, fixedNow).Return(recipients, nil).Once()
		f.notifRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			created = append(created, args.Get(1).(*domain.Notification))
		}).Return(nil).Times(3)
		f.dispatcher.On("Deliver", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Notification).Channels.InApp.MarkDelivered(fixedNow)
		}).Return(true).Times(3)

		res, err := f.svc.SendBulk(context.Background(), caseWorker(), domain.BulkNotificationInput{
			NotificationContent: content(),
			TargetCriteria:      criteria,
		})

		require.NoError(t, err)
		assert.Equal(t, 3, res.Targeted)
		assert.Equal(t, 3, res.Created)
		assert.Zero(t, res.Failed)
		require.Len(t, created, 3)
		for _, n := range created {
			require.NotNil(t, n.BatchID)
			assert.Equal(t, res.BatchID, *n.BatchID)
		}
		created[0].Channels.Email.MarkFailed(fixedNow, "bounce")
		assert.Zero(t, created[1].Channels.Email.Attempts)
		f.audit.AssertCalled(t, "Record", mock.Anything, mock.Anything, domain.AuditBulkSent, &res.BatchID, res)
		f.assertExpectations(t)
	})

	t.Run("one failed insert does not abort the batch", func(t *testing.T) {
		f := newFixture()
		bad := domain.Recipient{ID: uuid.New()}
		good := domain.Recipient{ID: uuid.New()}

		f.userRepo.On("FindByCriteria", mock.Anything, mock.Anything, fixedNow).Return([]domain.Recipient{bad, good}, nil).Once()
		f.notifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.RecipientID == bad.ID
		})).Return(errors.New("unique violation")).Once()
		f.notifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.RecipientID == good.ID
		})).Return(nil).Once()
		f.dispatcher.On("Deliver", mock.Anything, mock.Anything).Return(true).Once()

		res, err := f.svc.SendBulk(context.Background(), admin(), domain.BulkNotificationInput{NotificationContent: content()})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Created)
		assert.Equal(t, 1, res.Failed)
		f.assertExpectations(t)
	})

	t.Run("no matching users", func(t *testing.T) {
		f := newFixture()
		criteria := domain.TargetCriteria{Roles: []domain.UserRole{domain.RoleAdmin}}
		f.userRepo.On("FindByCriteria", mock.Anything, criteria, fixedNow).Return([]domain.Recipient{}, nil).Once()

		_, err := f.svc.SendBulk(context.Background(), admin(), domain.BulkNotificationInput{
			NotificationContent: content(),
			TargetCriteria:      criteria,
		})
		require.Error(t, err)
		assert.Equal(t, "No users match the specified criteria", err.Error())
	})

	t.Run("finance manager cannot bulk send", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.SendBulk(context.Background(), domain.Caller{ID: uuid.New(), Role: domain.RoleFinanceManager},
			domain.BulkNotificationInput{NotificationContent: content()})
		assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
	})

	t.Run("scheduled bulk is counted and not dispatched", func(t *testing.T) {
		f := newFixture()
		later := fixedNow.Add(24 * time.Hour)
		c := content()
		c.ScheduledFor = &later

		f.userRepo.On("FindByCriteria", mock.Anything, mock.Anything, fixedNow).
			Return([]domain.Recipient{{ID: uuid.New()}, {ID: uuid.New()}}, nil).Once()
		f.notifRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Twice()

		res, err := f.svc.SendBulk(context.Background(), admin(), domain.BulkNotificationInput{NotificationContent: c})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Scheduled)
		f.dispatcher.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
	})
}

func TestService_GetByID(t *testing.T) {
	owner := beneficiary()
	n := &domain.Notification{ID: uuid.New(), RecipientID: owner.ID}

	t.Run("recipient", func(t *testing.T) {
		f := newFixture()
		f.notifRepo.On("GetByID", mock.Anything, n.ID).Return(n, nil).Once()
		got, err := f.svc.GetByID(context.Background(), owner, n.ID)
		require.NoError(t, err)
		assert.Equal(t, n, got)
	})

	t.Run("other beneficiary", func(t *testing.T) {
		f := newFixture()
		f.notifRepo.On("GetByID", mock.Anything, n.ID).Return(n, nil).Once()
		_, err := f.svc.GetByID(context.Background(), beneficiary(), n.ID)
		assert.Equal(t, domain.ErrNotRecipient, err)
	})

	t.Run("staff may read any", func(t *testing.T) {
		f := newFixture()
		f.notifRepo.On("GetByID", mock.Anything, n.ID).Return(n, nil).Once()
		_, err := f.svc.GetByID(context.Background(), caseWorker(), n.ID)
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.notifRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, nil).Once()
		_, err := f.svc.GetByID(context.Background(), owner, uuid.New())
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}

func TestService_GetUserFeed(t *testing.T) {
	f := newFixture()
	caller := beneficiary()
	unread := false
	items := []domain.Notification{{ID: uuid.New(), RecipientID: caller.ID}}

	f.notifRepo.On("List", mock.Anything, mock.MatchedBy(func(filter domain.NotificationFilter) bool {
		return filter.RecipientID != nil && *filter.RecipientID == caller.ID &&
			filter.NotExpiredAt != nil && filter.NotExpiredAt.Equal(fixedNow) &&
			filter.ReleasedBy != nil && filter.IsRead != nil && !*filter.IsRead
	}), mock.Anything).Return(items, int64(1), nil).Once()
	f.notifRepo.On("CountUnread", mock.Anything, caller.ID, fixedNow).
		Return(domain.FeedCounts{Unread: 4, UnreadActionRequired: 1}, nil).Once()

	other := uuid.New()
	feed, err := f.svc.GetUserFeed(context.Background(), caller, domain.NotificationFilter{
		RecipientID: &other,
		IsRead:      &unread,
	}, domain.ListParams{PaginationParams: domain.PaginationParams{Page: 0, PageSize: 500}})

	require.NoError(t, err)
	assert.Equal(t, int64(4), feed.Unread)
	assert.Equal(t, int64(1), feed.UnreadActionRequired)
	assert.Equal(t, 1, feed.Page)
	assert.Equal(t, 100, feed.PageSize)
	assert.Len(t, feed.Data, 1)
	f.assertExpectations(t)
}

func TestService_List(t *testing.T) {
	t.Run("beneficiary cannot list everything", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.List(context.Background(), beneficiary(), domain.NotificationFilter{}, domain.DefaultListParams())
		assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
	})

	t.Run("invalid filter", func(t *testing.T) {
		f := newFixture()
		bad := domain.Status("archived")
		_, err := f.svc.List(context.Background(), admin(), domain.NotificationFilter{Status: &bad}, domain.DefaultListParams())
		assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
	})

	t.Run("unknown sort field", func(t *testing.T) {
		f := newFixture()
		params := domain.DefaultListParams()
		params.SortBy = "email"

		_, err := f.svc.List(context.Background(), admin(), domain.NotificationFilter{}, params)
		assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
		f.notifRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("sorts by category", func(t *testing.T) {
		f := newFixture()
		f.notifRepo.On("List", mock.Anything, domain.NotificationFilter{}, mock.MatchedBy(func(p domain.ListParams) bool {
			return p.SortBy == "category" && p.SortOrder == domain.SortAsc
		})).Return([]domain.Notification{}, int64(0), nil).Once()

		params := domain.DefaultListParams()
		params.SortBy = "category"
		params.SortOrder = domain.SortAsc
		_, err := f.svc.List(context.Background(), admin(), domain.NotificationFilter{}, params)
		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("paginates", func(t *testing.T) {
		f := newFixture()
		f.notifRepo.On("List", mock.Anything, domain.NotificationFilter{}, mock.Anything).
			Return([]domain.Notification{}, int64(45), nil).Once()

		res, err := f.svc.List(context.Background(), admin(), domain.NotificationFilter{}, domain.DefaultListParams())
		require.NoError(t, err)
		assert.Equal(t, 3, res.TotalPages)
		assert.True(t, res.HasNext)
	})
}

func TestService_MarkAsRead(t *testing.T) {
	caller := beneficiary()

	t.Run("first read", func(t *testing.T) {
		f := newFixture()
		n := &domain.Notification{ID: uuid.New(), RecipientID: caller.ID, Status: domain.StatusSent}
		ua := "Mozilla/5.0"
		meta := domain.InteractionMeta{UserAgent: &ua}
		read := *n
		read.IsRead = true
		read.ReadAt = &fixedNow
		read.Status = domain.StatusRead

		f.notifRepo.On("GetByID", mock.Anything, n.ID).Return(n, nil).Once()
		f.notifRepo.On("MarkAsRead", mock.Anything, n.ID, fixedNow, meta).Return(&read, nil).Once()

		got, err := f.svc.MarkAsRead(context.Background(), caller, n.ID, meta)
		require.NoError(t, err)
		assert.True(t, got.IsRead)
		assert.Equal(t, domain.StatusRead, got.Status)
		f.assertExpectations(t)
	})

	t.Run("second read keeps the first timestamp", func(t *testing.T) {
		f := newFixture()
		firstRead := fixedNow.Add(-time.Hour)
		n := &domain.Notification{ID: uuid.New(), RecipientID: caller.ID, IsRead: true, ReadAt: &firstRead, Status: domain.StatusRead}
		f.notifRepo.On("GetByID", mock.Anything, n.ID).Return(n, nil).Once()

		got, err := f.svc.MarkAsRead(context.Background(), caller, n.ID, domain.InteractionMeta{})
		require.NoError(t, err)
		assert.Equal(t, firstRead, *got.ReadAt)
		f.notifRepo.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("concurrent read reloads", func(t *testing.T) {
		f := newFixture()
		n := &domain.Notification{ID: uuid.New(), RecipientID: caller.ID, Status: domain.StatusSent}
		reloaded := *n
		reloaded.IsRead = true

		f.notifRepo.On("GetByID", mock.Anything, n.ID).Return(n, nil).Once()
		f.notifRepo.On("MarkAsRead", mock.Anything, n.ID, fixedNow, mock.Anything).Return(nil, nil).Once()
		f.notifRepo.On("GetByID", mock.Anything, n.ID).Return(&reloaded, nil).Once()

		got, err := f.svc.MarkAsRead(context.Background(), caller, n.ID, domain.InteractionMeta{})
		require.NoError(t, err)
		assert.True(t, got.IsRead)
	})

	t.Run("not the recipient", func(t *testing.T) {
		f := newFixture()
		n := &domain.Notification{ID: uuid.New(), RecipientID: uuid.New()}
		f.notifRepo.On("GetByID", mock.Anything, n.ID).Return(n, nil).Once()

		_, err := f.svc.MarkAsRead(context.Background(), caller, n.ID, domain.InteractionMeta{})
		assert.Equal(t, domain.ErrNotRecipient, err)
	})

	t.Run("storage error", func(t *testing.T) {
		f := newFixture()
		f.notifRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

		_, err := f.svc.MarkAsRead(context.Background(), caller, uuid.New(), domain.InteractionMeta{})
		require.Error(t, err)
		assert.Zero(t, domain.KindOf(err))
	})
}

func TestService_MarkAsClicked(t *testing.T) {
	caller := beneficiary()

	t.Run("click implies read", func(t *testing.T) {
		f := newFixture()
		n := &domain.Notification{ID: uuid.New(), RecipientID: caller.ID, Status: domain.StatusSent}
		clicked := *n
		clicked.IsRead, clicked.IsClicked = true, true
		clicked.Status = domain.StatusClicked

		f.notifRepo.On("GetByID", mock.Anything, n.ID).Return(n, nil).Once()
		f.notifRepo.On("MarkAsClicked", mock.Anything, n.ID, fixedNow, mock.Anything).Return(&clicked, nil).Once()

		got, err := f.svc.MarkAsClicked(context.Background(), caller, n.ID, domain.InteractionMeta{})
		require.NoError(t, err)
		assert.True(t, got.IsRead)
		assert.Equal(t, domain.StatusClicked, got.Status)
	})

	t.Run("already clicked", func(t *testing.T) {
		f := newFixture()
		n := &domain.Notification{ID: uuid.New(), RecipientID: caller.ID, IsClicked: true}
		f.notifRepo.On("GetByID", mock.Anything, n.ID).Return(n, nil).Once()

		_, err := f.svc.MarkAsClicked(context.Background(), caller, n.ID, domain.InteractionMeta{})
		require.NoError(t, err)
		f.notifRepo.AssertNotCalled(t, "MarkAsClicked", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_MarkAllAsRead(t *testing.T) {
	f := newFixture()
	caller := beneficiary()
	f.notifRepo.On("MarkAllAsRead", mock.Anything, caller.ID, fixedNow).Return(int64(7), nil).Once()

	count, err := f.svc.MarkAllAsRead(context.Background(), caller)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestService_Delete(t *testing.T) {
	t.Run("admin", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		caller := admin()
		f.notifRepo.On("SoftDelete", mock.Anything, id, fixedNow).Return(true, nil).Once()

		assert.NoError(t, f.svc.Delete(context.Background(), caller, id))
		f.audit.AssertCalled(t, "Record", mock.Anything, caller, domain.AuditNotificationDeleted, &id, nil)
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture()
		f.notifRepo.On("SoftDelete", mock.Anything, mock.Anything, fixedNow).Return(false, nil).Once()
		err := f.svc.Delete(context.Background(), admin(), uuid.New())
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
		f.audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("case worker", func(t *testing.T) {
		f := newFixture()
		err := f.svc.Delete(context.Background(), caseWorker(), uuid.New())
		assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
	})
}
