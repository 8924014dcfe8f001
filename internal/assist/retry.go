package assist

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"selectsense/internal/models"
)

// RetryStrategy decides how long to wait before the next attempt.
type RetryStrategy interface {
	NextBackoff(attempt int) int64 // ms, negative to stop
}

// SimpleRetryStrategy provides basic exponential backoff.
type SimpleRetryStrategy struct {
	MaxAttempts int
	BaseDelayMs int64
}

// NextBackoff returns the delay in milliseconds after the given failed
// attempt (1-based), or -1 once MaxAttempts have been made.
func (s *SimpleRetryStrategy) NextBackoff(attempt int) int64 {
	if s.MaxAttempts <= 0 || attempt >= s.MaxAttempts {
		return -1
	}
	// BaseDelay * 2^(attempt-1), capped at 30 seconds
	backoff := s.BaseDelayMs << (attempt - 1)
	const maxDelay = int64(30000)
	if backoff > maxDelay || backoff <= 0 {
		backoff = maxDelay
	}
	return backoff
}

// retryAfterFailures makes one attempt plus up to retries more.
func retryAfterFailures(retries int) *SimpleRetryStrategy {
	return &SimpleRetryStrategy{MaxAttempts: max(retries, 0) + 1, BaseDelayMs: 300}
}

// withRetry calls fn until it succeeds, the strategy gives up or ctx ends.
// Final failures wrap models.ErrProviderFailed.
func withRetry(ctx context.Context, provider string, strategy RetryStrategy, fn func(context.Context) (Completion, error)) (Completion, error) {
	for attempt := 1; ; attempt++ {
		c, err := fn(ctx)
		if err == nil {
			return c, nil
		}
		if ctx.Err() != nil {
			return Completion{}, fmt.Errorf("%w: %s: %w", models.ErrProviderFailed, provider, ctx.Err())
		}

		wait := int64(-1)
		if strategy != nil {
			wait = strategy.NextBackoff(attempt)
		}
		if wait < 0 {
			return Completion{}, fmt.Errorf("%w: %s after %d attempt(s): %w", models.ErrProviderFailed, provider, attempt, err)
		}

		log.Warnf("%s completion attempt %d failed, retrying in %dms: %v", provider, attempt, wait, err)
		timer := time.NewTimer(time.Duration(wait) * time.Millisecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Completion{}, fmt.Errorf("%w: %s: %w", models.ErrProviderFailed, provider, ctx.Err())
		case <-timer.C:
		}
	}
}
