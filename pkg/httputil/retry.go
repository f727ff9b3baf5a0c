package httputil

import (
	"context"
	"errors"
	"time"
)

// Defaults for a zero Backoff.
const (
	DefaultAttempts = 3
	DefaultDelay    = 500 * time.Millisecond
	DefaultMaxDelay = 5 * time.Second
)

// Backoff describes how an operation is retried. Zero fields take the
// package defaults.
type Backoff struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration

	// OnRetry, if set, is called before each wait with the 1-based number
	// of the attempt that failed.
	OnRetry func(attempt int, wait time.Duration, err error)
}

func (b Backoff) withDefaults() Backoff {
	if b.Attempts <= 0 {
		b.Attempts = DefaultAttempts
	}
	if b.Delay <= 0 {
		b.Delay = DefaultDelay
	}
	if b.MaxDelay <= 0 {
		b.MaxDelay = max(DefaultMaxDelay, b.Delay)
	}
	return b
}

// wait returns the pause after the n-th failure (0-based): Delay doubled n
// times, capped at MaxDelay.
func (b Backoff) wait(n int) time.Duration {
	d := b.Delay
	for range n {
		if d >= b.MaxDelay/2 {
			return b.MaxDelay
		}
		d *= 2
	}
	return min(d, b.MaxDelay)
}

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// attempts are used up. It returns the last error, or ctx.Err() if the
// context ends while waiting.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	b = b.withDefaults()

	var err error
	for n := range b.Attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if n == b.Attempts-1 {
			break
		}

		d := b.wait(n)
		if b.OnRetry != nil {
			b.OnRetry(n+1, d, err)
		}
		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return err
}

// RetryableError marks a transient failure.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. It returns nil for nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}
