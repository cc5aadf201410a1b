package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"aide-sociale/internal/domain"
)

const maxRetriesLimit = 10

// RetryBackoff is the wait before the next retry after the given number of
// attempts: 2^attempts minutes.
func RetryBackoff(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	return time.Duration(1<<uint(attempts)) * time.Minute
}

func (s *service) sweepBatchSize() int {
	if s.config.SweepBatchSize > 0 {
		return s.config.SweepBatchSize
	}
	return 100
}

// ProcessScheduled delivers pending notifications whose scheduled time has come.
func (s *service) ProcessScheduled(ctx context.Context, caller domain.Caller) (domain.SweepResult, error) {
	var result domain.SweepResult
	if err := domain.Authorize(caller, domain.OpProcessScheduled); err != nil {
		return result, err
	}

	due, err := s.notifRepo.FindDueScheduled(ctx, s.now(), s.sweepBatchSize())
	if err != nil {
		return result, fmt.Errorf("failed to find scheduled notifications: %w", err)
	}

	for i := range due {
		result.Attempted++
		if s.dispatcher.Deliver(ctx, &due[i]) {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	logrus.WithFields(logrus.Fields{
		"attempted": result.Attempted,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	}).Info("scheduled notifications processed")

	if result.Attempted > 0 {
		s.audit.Record(ctx, caller, domain.AuditScheduledProcessed, nil, result)
	}
	return result, nil
}

// RetryFailed re-dispatches failed notifications that are out of backoff and
// below maxRetries attempts. A zero maxRetries uses the configured default.
func (s *service) RetryFailed(ctx context.Context, caller domain.Caller, maxRetries int) (domain.SweepResult, error) {
	var result domain.SweepResult
	if err := domain.Authorize(caller, domain.OpRetryFailed); err != nil {
		return result, err
	}

	if maxRetries == 0 {
		maxRetries = s.config.DefaultMaxRetries
	}
	if maxRetries < 1 || maxRetries > maxRetriesLimit {
		return result, domain.BadRequest("max_retries must be between 1 and %d", maxRetriesLimit)
	}

	now := s.now()
	candidates, err := s.notifRepo.FindRetryable(ctx, now, maxRetries, s.sweepBatchSize())
	if err != nil {
		return result, fmt.Errorf("failed to find retryable notifications: %w", err)
	}

	for i := range candidates {
		n := &candidates[i]
		result.Attempted++

		n.RetryCount++
		// Only consulted if this attempt fails too.
		retryAfter := now.Add(RetryBackoff(n.RetryCount))
		n.RetryAfter = &retryAfter

		if s.dispatcher.Deliver(ctx, n) {
			result.Succeeded++
			continue
		}
		result.Failed++
		logrus.WithFields(logrus.Fields{
			"notification_id": n.ID,
			"retry_count":     n.RetryCount,
			"retry_after":     retryAfter,
		}).Warn("notification retry failed")
	}

	logrus.WithFields(logrus.Fields{
		"attempted": result.Attempted,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	}).Info("failed notifications retried")

	if result.Attempted > 0 {
		s.audit.Record(ctx, caller, domain.AuditFailedRetried, nil, struct {
			domain.SweepResult
			MaxRetries int `json:"max_retries"`
		}{result, maxRetries})
	}
	return result, nil
}

// CleanExpired soft-deletes every notification past its expiry.
func (s *service) CleanExpired(ctx context.Context, caller domain.Caller) (domain.CleanupResult, error) {
	if err := domain.Authorize(caller, domain.OpCleanExpired); err != nil {
		return domain.CleanupResult{}, err
	}

	cleaned, err := s.notifRepo.SoftDeleteExpired(ctx, s.now())
	if err != nil {
		return domain.CleanupResult{}, fmt.Errorf("failed to clean expired notifications: %w", err)
	}

	logrus.WithField("cleaned", cleaned).Info("expired notifications cleaned")

	result := domain.CleanupResult{Cleaned: cleaned}
	if cleaned > 0 {
		s.audit.Record(ctx, caller, domain.AuditExpiredCleaned, nil, result)
	}
	return result, nil
}
