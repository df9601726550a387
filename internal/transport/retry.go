package transport

import (
	"context"
	"time"

	"github.com/saarzint/bolgenie/domain"
)

// RetryOptions tunes WithRetry. Zero values take the defaults: 3 retries,
// 1s base delay, retry on IsRetryable.
type RetryOptions struct {
	MaxRetries  int
	Delay       time.Duration
	ShouldRetry func(*domain.APIError) bool
}

// WithRetry runs fn, retrying transient failures with exponential backoff
// (delay doubles per attempt). The last normalized error is returned once
// attempts are exhausted or the predicate declines.
func WithRetry(ctx context.Context, fn func() error, opts *RetryOptions) error {
	maxRetries := 3
	delay := time.Second
	shouldRetry := func(err *domain.APIError) bool { return err.IsRetryable() }
	if opts != nil {
		if opts.MaxRetries > 0 {
			maxRetries = opts.MaxRetries
		}
		if opts.Delay > 0 {
			delay = opts.Delay
		}
		if opts.ShouldRetry != nil {
			shouldRetry = opts.ShouldRetry
		}
	}

	var lastErr *domain.APIError
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = domain.Normalize(err)

		if attempt < maxRetries && shouldRetry(lastErr) {
			wait := delay << uint(attempt)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return domain.Normalize(ctx.Err())
			case <-timer.C:
			}
			continue
		}
		return lastErr
	}
	return lastErr
}
