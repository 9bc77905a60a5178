package retry

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "storefront-cache/internal/common/errors"
)

func newTestExecutor(maxRetries int, retryDelay, timeout time.Duration) *Executor {
	return New(maxRetries, retryDelay, timeout, nil)
}

func TestExecutor_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("returns result on first success", func(t *testing.T) {
		exec := newTestExecutor(3, 10*time.Millisecond, time.Second)

		attempts := 0
		result, err := exec.Execute(ctx, "get", func(ctx context.Context) (interface{}, error) {
			attempts++
			return "value", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "value", result)
		assert.Equal(t, 1, attempts)
	})

	t.Run("succeeds after transient failures", func(t *testing.T) {
		exec := newTestExecutor(3, time.Millisecond, time.Second)

		failures := 2
		attempts := 0
		result, err := exec.Execute(ctx, "get", func(ctx context.Context) (interface{}, error) {
			attempts++
			if attempts <= failures {
				return nil, fmt.Errorf("transient failure %d", attempts)
			}
			return "eventual", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "eventual", result)
		assert.Equal(t, failures+1, attempts)
	})

	t.Run("exhausts retries and wraps last error", func(t *testing.T) {
		exec := newTestExecutor(2, time.Millisecond, time.Second)

		attempts := 0
		lastErr := fmt.Errorf("permanent failure")
		result, err := exec.Execute(ctx, "set", func(ctx context.Context) (interface{}, error) {
			attempts++
			return nil, lastErr
		})

		require.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, 3, attempts)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeRetriesExhausted))
		assert.ErrorIs(t, err, lastErr)
		assert.Contains(t, err.Error(), "set failed after 3 attempts")
	})

	t.Run("zero retries means exactly one attempt", func(t *testing.T) {
		exec := newTestExecutor(0, time.Second, time.Second)

		attempts := 0
		start := time.Now()
		_, err := exec.Execute(ctx, "get", func(ctx context.Context) (interface{}, error) {
			attempts++
			return nil, fmt.Errorf("failure")
		})

		require.Error(t, err)
		assert.Equal(t, 1, attempts)
		// No backoff sleep must have happened.
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("linear backoff accumulates", func(t *testing.T) {
		exec := newTestExecutor(2, 100*time.Millisecond, time.Second)

		start := time.Now()
		_, err := exec.Execute(ctx, "get", func(ctx context.Context) (interface{}, error) {
			return nil, fmt.Errorf("failure")
		})
		elapsed := time.Since(start)

		require.Error(t, err)
		// Sleeps are 100ms then 200ms, so the whole sequence takes at
		// least 300ms of backoff.
		assert.GreaterOrEqual(t, elapsed, 300*time.Millisecond)
	})
}

func TestExecutor_Timeout(t *testing.T) {
	ctx := context.Background()

	t.Run("slow attempt counts as timeout failure", func(t *testing.T) {
		exec := newTestExecutor(0, 0, 20*time.Millisecond)

		_, err := exec.Execute(ctx, "get", func(ctx context.Context) (interface{}, error) {
			select {
			case <-time.After(time.Second):
				return "too late", nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeRetriesExhausted))

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.True(t, apperrors.IsType(appErr.Cause, apperrors.ErrTypeTimeout))
	})

	t.Run("late completion is discarded", func(t *testing.T) {
		exec := newTestExecutor(1, time.Millisecond, 10*time.Millisecond)

		var attempts int32
		result, err := exec.Execute(ctx, "get", func(ctx context.Context) (interface{}, error) {
			if atomic.AddInt32(&attempts, 1) == 1 {
				// Ignore the deadline to simulate a client with no
				// cancellation hook.
				time.Sleep(50 * time.Millisecond)
				return "stray", nil
			}
			return "retried", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "retried", result)
		assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
	})
}

func TestExecutor_Cancellation(t *testing.T) {
	t.Run("cancel short-circuits in-flight attempt", func(t *testing.T) {
		exec := newTestExecutor(5, time.Second, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		start := time.Now()
		_, err := exec.Execute(ctx, "get", func(ctx context.Context) (interface{}, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		// Remaining retries and their backoff sleeps must be skipped.
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("cancel during backoff skips remaining retries", func(t *testing.T) {
		exec := newTestExecutor(5, 500*time.Millisecond, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		attempts := 0

		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		_, err := exec.Execute(ctx, "get", func(ctx context.Context) (interface{}, error) {
			attempts++
			return nil, fmt.Errorf("failure")
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	})
}
