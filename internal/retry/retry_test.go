package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo_Success(t *testing.T) {
	attempts := 0
	cfg := Config{
		MaxRetries:     3,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     100 * time.Millisecond,
		Multiplier:     2.0,
	}

	err := Do(context.Background(), cfg, nil, func(ctx context.Context) error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("Do() returned error = %v, want nil", err)
	}
	if attempts != 1 {
		t.Errorf("Do() made %d attempts, want 1", attempts)
	}
}

func TestDo_PermanentError(t *testing.T) {
	attempts := 0
	permanentErr := errors.New("permanent")
	cfg := Config{
		MaxRetries:     3,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     100 * time.Millisecond,
		Multiplier:     2.0,
	}

	// Classifier that marks this error as non-retryable
	classifier := func(err error) bool {
		return !errors.Is(err, permanentErr)
	}

	err := Do(context.Background(), cfg, classifier, func(ctx context.Context) error {
		attempts++
		return permanentErr
	})

	if !errors.Is(err, permanentErr) {
		t.Errorf("Do() returned error = %v, want %v", err, permanentErr)
	}
	if attempts != 1 {
		t.Errorf("Do() made %d attempts, want 1", attempts)
	}
}

func TestDo_RetryableError(t *testing.T) {
	attempts := 0
	tempErr := errors.New("temporary")
	successAfter := 2
	cfg := Config{
		MaxRetries:     5,
		InitialBackoff: 5 * time.Millisecond,
		MaxBackoff:     50 * time.Millisecond,
		Multiplier:     2.0,
	}

	err := Do(context.Background(), cfg, IsRetryable, func(ctx context.Context) error {
		attempts++
		if attempts < successAfter {
			return tempErr
		}
		return nil
	})

	if err != nil {
		t.Errorf("Do() returned error = %v, want nil", err)
	}
	if attempts != successAfter {
		t.Errorf("Do() made %d attempts, want %d", attempts, successAfter)
	}
}

func TestDo_MaxRetriesExceeded(t *testing.T) {
	attempts := 0
	tempErr := errors.New("temporary")
	maxRetries := 3
	cfg := Config{
		MaxRetries:     maxRetries,
		InitialBackoff: 5 * time.Millisecond,
		MaxBackoff:     50 * time.Millisecond,
		Multiplier:     2.0,
	}

	err := Do(context.Background(), cfg, IsRetryable, func(ctx context.Context) error {
		attempts++
		return tempErr
	})

	if err == nil {
		t.Error("Do() returned nil error, want error")
	}
	if attempts != maxRetries+1 {
		t.Errorf("Do() made %d attempts, want %d", attempts, maxRetries+1)
	}
}

func TestDo_ContextCanceled(t *testing.T) {
	attempts := 0
	cfg := Config{
		MaxRetries:     5,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     1 * time.Second,
		Multiplier:     2.0,
	}

	ctx, cancel := context.WithCancel(context.Background())
	tempErr := errors.New("temporary")

	err := Do(ctx, cfg, IsRetryable, func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			cancel()
		}
		return tempErr
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() returned error = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("Do() made %d attempts, want 1", attempts)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"generic error", errors.New("boom"), true},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
		{"wrapped cancellation", errors.Join(errors.New("outer"), context.Canceled), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
