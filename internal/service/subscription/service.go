package subscription

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"aide-sociale/internal/domain"
	"aide-sociale/internal/repository"
)

// Service manages the push endpoints a user registers from browsers and devices.
type Service interface {
	Subscribe(ctx context.Context, caller domain.Caller, input domain.PushSubscriptionInput) (*domain.PushSubscription, error)
	Unsubscribe(ctx context.Context, caller domain.Caller, address string) error
	List(ctx context.Context, caller domain.Caller) ([]domain.PushSubscription, error)
}

type service struct {
	subRepo repository.PushSubscriptionRepository
}

func NewService(subRepo repository.PushSubscriptionRepository) Service {
	return &service{subRepo: subRepo}
}

func (s *service) Subscribe(ctx context.Context, caller domain.Caller, input domain.PushSubscriptionInput) (*domain.PushSubscription, error) {
	if err := domain.Authorize(caller, domain.OpManageSubscriptions); err != nil {
		return nil, err
	}
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	sub := &domain.PushSubscription{
		ID:       uuid.New(),
		UserID:   caller.ID,
		Platform: input.Platform,
	}
	switch input.Platform {
	case domain.PlatformWeb:
		sub.Endpoint = &input.Endpoint
		sub.P256dh = &input.P256dh
		sub.Auth = &input.Auth
	case domain.PlatformIOS:
		sub.DeviceToken = &input.DeviceToken
	}

	if err := s.subRepo.Upsert(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save push subscription: %w", err)
	}
	return sub, nil
}

func (s *service) Unsubscribe(ctx context.Context, caller domain.Caller, address string) error {
	if err := domain.Authorize(caller, domain.OpManageSubscriptions); err != nil {
		return err
	}
	if address == "" {
		return domain.BadRequest("endpoint or device_token is required")
	}

	removed, err := s.subRepo.DeleteByAddress(ctx, caller.ID, address)
	if err != nil {
		return fmt.Errorf("failed to remove push subscription: %w", err)
	}
	if !removed {
		return domain.NotFound("Push subscription not found")
	}
	return nil
}

func (s *service) List(ctx context.Context, caller domain.Caller) ([]domain.PushSubscription, error) {
	if err := domain.Authorize(caller, domain.OpManageSubscriptions); err != nil {
		return nil, err
	}

	subs, err := s.subRepo.ListByUser(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list push subscriptions: %w", err)
	}
	return subs, nil
}
