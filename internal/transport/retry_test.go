package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saarzint/bolgenie/domain"
)

func TestWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return &domain.APIError{Code: domain.CodeExternalServiceError, StatusCode: 503}
		}
		return nil
	}, &RetryOptions{Delay: time.Millisecond})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_NonRetryableStopsImmediately(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return &domain.APIError{Code: domain.CodeValidationError, StatusCode: 422}
	}, &RetryOptions{Delay: time.Millisecond})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, domain.CodeValidationError, domain.Normalize(err).Code)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return &domain.APIError{Code: domain.CodeNetworkError}
	}, &RetryOptions{MaxRetries: 2, Delay: time.Millisecond})

	require.Error(t, err)
	assert.Equal(t, 3, attempts, "initial attempt plus two retries")
	assert.Equal(t, domain.CodeNetworkError, domain.Normalize(err).Code)
}

func TestWithRetry_CustomPredicate(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return &domain.APIError{Code: domain.CodeConflict, StatusCode: 409}
	}, &RetryOptions{
		MaxRetries:  1,
		Delay:       time.Millisecond,
		ShouldRetry: func(e *domain.APIError) bool { return e.Code == domain.CodeConflict },
	})

	require.Error(t, err)
	assert.Equal(t, 2, attempts)
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := WithRetry(ctx, func() error {
		attempts++
		return &domain.APIError{Code: domain.CodeNetworkError}
	}, &RetryOptions{Delay: time.Hour})

	require.Error(t, err)
	assert.Equal(t, 1, attempts, "backoff wait should abort on cancellation")
	assert.Equal(t, domain.CodeNetworkError, domain.Normalize(err).Code)
}

func TestWithRetry_NormalizesRawErrors(t *testing.T) {
	err := WithRetry(context.Background(), func() error {
		return assert.AnError
	}, &RetryOptions{Delay: time.Millisecond})

	require.Error(t, err)
	apiErr := domain.Normalize(err)
	assert.Equal(t, domain.CodeUnknownError, apiErr.Code)
}
