package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/storage"
)

func TestErrorClassification(t *testing.T) {
	t.Run("retryable_errors", func(t *testing.T) {
		assert.True(t, storage.IsRetryable(storage.ErrConnFailed))
		assert.True(t, storage.IsRetryable(storage.ErrTimeout))
		assert.False(t, storage.IsRetryable(storage.ErrAccessDenied))
		assert.False(t, storage.IsRetryable(storage.ErrNotFound))
		assert.False(t, storage.IsRetryable(storage.ErrDecode))
	})

	t.Run("critical_errors", func(t *testing.T) {
		assert.True(t, storage.IsCritical(storage.ErrAccessDenied))
		assert.True(t, storage.IsCritical(storage.ErrInvalidConfig))
		assert.False(t, storage.IsCritical(storage.ErrConnFailed))
	})

	t.Run("wrapped_errors_keep_their_kind", func(t *testing.T) {
		err := storage.WrapError("spaces_docs", "list", storage.ErrAccessDenied)
		assert.ErrorIs(t, err, storage.ErrAccessDenied)
		assert.Contains(t, err.Error(), "list (spaces_docs)")
	})
}

func TestWithRetry(t *testing.T) {
	cfg := storage.RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}

	t.Run("succeeds_after_transient_failure", func(t *testing.T) {
		attempts := 0
		err := storage.WithRetry(context.Background(), cfg, func() error {
			attempts++
			if attempts < 3 {
				return storage.ErrConnFailed
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("critical_errors_fail_immediately", func(t *testing.T) {
		attempts := 0
		err := storage.WithRetry(context.Background(), cfg, func() error {
			attempts++
			return storage.ErrAccessDenied
		})
		assert.ErrorIs(t, err, storage.ErrAccessDenied)
		assert.Equal(t, 1, attempts)
	})

	t.Run("non_retryable_errors_fail_immediately", func(t *testing.T) {
		attempts := 0
		sentinel := errors.New("boom")
		err := storage.WithRetry(context.Background(), cfg, func() error {
			attempts++
			return sentinel
		})
		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, 1, attempts)
	})

	t.Run("gives_up_after_max_attempts", func(t *testing.T) {
		attempts := 0
		err := storage.WithRetry(context.Background(), cfg, func() error {
			attempts++
			return storage.ErrTimeout
		})
		assert.ErrorIs(t, err, storage.ErrTimeout)
		assert.Equal(t, 3, attempts)
	})

	t.Run("cancelled_context_stops_retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := storage.WithRetry(ctx, cfg, func() error {
			return storage.ErrConnFailed
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
