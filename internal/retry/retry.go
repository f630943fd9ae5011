// Package retry provides the single retry policy used for storage-layer
// operations: a bounded attempt count with a pluggable backoff curve and a
// retryable-error predicate.
package retry

import (
	"context"
	"fmt"
	"time"
)

type Policy struct {
	// MaxAttempts is the total number of tries, including the first one.
	MaxAttempts int
	// Backoff maps the 1-based attempt number that just failed to the delay
	// before the next try.
	Backoff func(attempt int) time.Duration
	// Retryable reports whether an error is worth another attempt. A nil
	// predicate retries everything.
	Retryable func(err error) bool
}

// Linear returns a backoff of step, 2*step, 3*step, ...
func Linear(step time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// Do runs op until it succeeds, the policy is exhausted, a non-retryable error
// occurs, or ctx is cancelled.
func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}

		var delay time.Duration
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
