// Package retry runs operations again after transient failures.
//
// Only errors wrapped with [Retryable] are retried; anything else is
// returned at once, so callers decide per call site what counts as
// transient (a refused connection, a timed out PING) and what does not (bad
// credentials, a malformed address).
package retry

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err so that [Do] tries again. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is wrapped with [Retryable].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Do executes fn up to attempts times. The delay doubles after each failed
// attempt. It returns the last error if all attempts fail, or ctx.Err() if
// ctx is cancelled while waiting.
func Do(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// WithBackoff is [Do] with 3 attempts and a 500ms initial delay.
func WithBackoff(ctx context.Context, fn func() error) error {
	return Do(ctx, 3, 500*time.Millisecond, fn)
}
