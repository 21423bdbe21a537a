package microsoft

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig bounds how transient Graph failures are retried.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts including the first.
	// A value of 0 or 1 means no retries.
	MaxAttempts int
	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration
	// MaxBackoff caps the exponential delay between retries.
	MaxBackoff time.Duration
	// BackoffMultiplier grows the delay after each retry.
	BackoffMultiplier float64
	// MaxRetryAfter caps a server-supplied Retry-After delay.
	MaxRetryAfter time.Duration
}

// DefaultRetryConfig returns the retry policy used for directory queries.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       4,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
		MaxRetryAfter:     30 * time.Second,
	}
}

// delay returns how long to wait before retry number attempt (1-based),
// preferring the server's Retry-After when it asks for longer.
func (c RetryConfig) delay(attempt int, retryAfter time.Duration) time.Duration {
	d := c.InitialBackoff
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * c.BackoffMultiplier)
		if d >= c.MaxBackoff {
			d = c.MaxBackoff
			break
		}
	}
	if c.MaxBackoff > 0 && d > c.MaxBackoff {
		d = c.MaxBackoff
	}

	if retryAfter > c.MaxRetryAfter && c.MaxRetryAfter > 0 {
		retryAfter = c.MaxRetryAfter
	}
	if retryAfter > d {
		return retryAfter
	}
	return d
}

// RetryExhaustedError is returned when every attempt failed transiently.
type RetryExhaustedError struct {
	// Attempts is the number of attempts made.
	Attempts int
	// LastError is the error from the last attempt.
	LastError error
}

// Error implements the error interface.
func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("retry exhausted after %d attempts: %v", e.Attempts, e.LastError)
}

// Unwrap returns the last attempt's error.
func (e *RetryExhaustedError) Unwrap() error {
	return e.LastError
}

// sleep waits for d or until ctx ends.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
