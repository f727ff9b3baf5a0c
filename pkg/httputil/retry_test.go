package httputil

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestBackoffDo(t *testing.T) {
	transient := errors.New("connection reset")
	fatal := errors.New("bad request")

	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   error
	}{
		{"first try", []error{nil}, 1, nil},
		{"after one retry", []error{Retryable(transient), nil}, 2, nil},
		{"fatal stops", []error{fatal, nil}, 1, fatal},
		{"out of attempts", []error{Retryable(transient), Retryable(transient), Retryable(transient)}, 3, transient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			b := Backoff{Attempts: 3, Delay: time.Millisecond}
			err := b.Do(context.Background(), func() error {
				err := tt.errs[calls]
				calls++
				return err
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackoffOnRetry(t *testing.T) {
	var waits []time.Duration
	b := Backoff{
		Attempts: 4,
		Delay:    time.Millisecond,
		MaxDelay: 3 * time.Millisecond,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			if attempt != len(waits)+1 {
				t.Errorf("attempt = %d, want %d", attempt, len(waits)+1)
			}
			waits = append(waits, wait)
		},
	}
	_ = b.Do(context.Background(), func() error {
		return Retryable(errors.New("down"))
	})

	want := []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond}
	if fmt.Sprint(waits) != fmt.Sprint(want) {
		t.Errorf("waits = %v, want %v", waits, want)
	}
}

func TestBackoffDefaults(t *testing.T) {
	b := Backoff{}.withDefaults()
	if b.Attempts != DefaultAttempts || b.Delay != DefaultDelay || b.MaxDelay != DefaultMaxDelay {
		t.Errorf("withDefaults() = %+v", b)
	}
	if got := b.wait(10); got != DefaultMaxDelay {
		t.Errorf("wait(10) = %v, want %v", got, DefaultMaxDelay)
	}

	long := Backoff{Delay: time.Minute}.withDefaults()
	if long.MaxDelay != time.Minute {
		t.Errorf("MaxDelay = %v, want the initial delay", long.MaxDelay)
	}
}

func TestBackoffCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	b := Backoff{Attempts: 5, Delay: time.Hour}
	err := b.Do(ctx, func() error {
		calls++
		cancel()
		return Retryable(errors.New("down"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	if IsRetryable(errors.New("x")) {
		t.Error("plain error is not retryable")
	}
	wrapped := fmt.Errorf("get: %w", Retryable(errors.New("reset")))
	if !IsRetryable(wrapped) {
		t.Error("wrapped RetryableError should be retryable")
	}
}
