package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks an error as transient. Wrap network timeouts and 5xx
// responses with this type so [Retry] attempts the operation again; anything
// else fails fast.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// maxDelay caps the backoff so a long retry chain never stalls a page-facing
// call for more than a few seconds.
const maxDelay = 4 * time.Second

// Retry runs fn up to attempts times, doubling delay between tries. Only
// errors wrapped in [RetryableError] are retried. Returns the last error
// when every attempt fails, or ctx.Err() on cancellation.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !errors.As(err, new(*RetryableError)) {
			return err
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay = min(delay*2, maxDelay)
		}
	}
	return lastErr
}

// RetryWithBackoff applies the defaults used for storefront API calls:
// 3 attempts starting at 500ms.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, 500*time.Millisecond, fn)
}
