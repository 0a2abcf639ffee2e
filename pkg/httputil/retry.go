package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Policy.Do] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy controls how often and how patiently an operation is retried.
type Policy struct {
	Attempts int           // total attempts, at least 1
	Delay    time.Duration // wait before the second attempt
	MaxDelay time.Duration // upper bound on the doubled delay; 0 means none
}

// DefaultPolicy is used when no retry settings are configured.
func DefaultPolicy() Policy {
	return Policy{Attempts: 3, Delay: 500 * time.Millisecond, MaxDelay: 5 * time.Second}
}

// Do executes fn until it succeeds, returns a non-retryable error, or the
// attempts are used up. The delay doubles after each failed attempt.
// fn receives the zero-based attempt number.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func (p Policy) Do(ctx context.Context, fn func(attempt int) error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		if err := fn(i); err == nil {
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
				if p.MaxDelay > 0 && delay > p.MaxDelay {
					delay = p.MaxDelay
				}
			}
		}
	}
	return lastErr
}

// Retry executes fn up to attempts times with exponential backoff.
// It is shorthand for a Policy without a delay cap.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Policy{Attempts: attempts, Delay: delay}.Do(ctx, func(int) error { return fn() })
}

// IsRetryable reports whether err is wrapped in a [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
