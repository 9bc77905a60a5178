// Package retry provides a timeout-bounded retry executor for remote
// operations. Each attempt races the operation against a per-attempt timer;
// failed attempts are retried with linearly increasing backoff until the
// configured attempt budget is exhausted.
package retry

import (
	"context"
	"errors"
	"time"

	apperrors "storefront-cache/internal/common/errors"
	"storefront-cache/internal/common/logging"
)

// Operation is a single unit of remote work. Implementations must respect
// the supplied context's deadline where possible; the executor discards the
// result of any attempt that outlives its deadline either way.
type Operation func(ctx context.Context) (interface{}, error)

// Executor runs operations with a per-attempt timeout and bounded retries.
//
// The timeout applies per attempt, not to the whole sequence: the worst-case
// latency of Execute is
//
//	(MaxRetries+1)*Timeout + RetryDelay*(1+2+...+MaxRetries)
//
// which for MaxRetries=3, Timeout=5s, RetryDelay=1s comes to 26s.
type Executor struct {
	// MaxRetries is the number of retries after the first failed attempt.
	// Zero means exactly one attempt and no backoff sleep.
	MaxRetries int

	// RetryDelay is the base backoff delay. The sleep before retry n
	// (1-based) is RetryDelay*n.
	RetryDelay time.Duration

	// Timeout bounds each individual attempt.
	Timeout time.Duration

	logger logging.Logger
}

// New creates an executor with the given attempt budget.
func New(maxRetries int, retryDelay, timeout time.Duration, logger logging.Logger) *Executor {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Executor{
		MaxRetries: maxRetries,
		RetryDelay: retryDelay,
		Timeout:    timeout,
		logger:     logger,
	}
}

// Execute runs fn until it succeeds or the attempt budget is exhausted.
// On success the attempt's result is returned immediately. On exhaustion the
// last attempt's error is returned wrapped in a retries_exhausted error.
//
// Cancelling ctx short-circuits both the in-flight attempt and any remaining
// retries; the context error is returned as-is in that case.
func (e *Executor) Execute(ctx context.Context, op string, fn Operation) (interface{}, error) {
	var lastErr error

	for attempt := 0; attempt <= e.MaxRetries; attempt++ {
		if attempt > 0 {
			// Linear backoff: delay*1 after the first failure, delay*2
			// after the second, and so on.
			delay := e.RetryDelay * time.Duration(attempt)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := e.attempt(ctx, op, fn)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		e.logger.Warn("operation attempt failed",
			logging.String("operation", op),
			logging.Int("attempt", attempt+1),
			logging.Int("max_attempts", e.MaxRetries+1),
			logging.Err(err),
		)
	}

	return nil, apperrors.RetriesExhaustedError(op, e.MaxRetries+1, lastErr)
}

// attempt runs fn once, racing it against the per-attempt timeout. A late
// completion after the timer fires is discarded; the buffered channel lets
// the stray goroutine finish without leaking.
func (e *Executor) attempt(ctx context.Context, op string, fn Operation) (interface{}, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	type outcome struct {
		value interface{}
		err   error
	}

	done := make(chan outcome, 1)
	go func() {
		value, err := fn(attemptCtx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		// An operation that honors the attempt deadline reports it as
		// context.DeadlineExceeded; normalize so timeouts look the same
		// whether or not the operation cooperates.
		if out.err != nil && errors.Is(out.err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, apperrors.TimeoutError(op, e.Timeout)
		}
		return out.value, out.err
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.TimeoutError(op, e.Timeout)
	}
}
