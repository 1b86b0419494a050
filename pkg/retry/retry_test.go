package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", config.MaxRetries)
	}
	if config.InitialInterval != 1*time.Second {
		t.Errorf("InitialInterval = %v, want 1s", config.InitialInterval)
	}
	if config.MaxInterval != 30*time.Second {
		t.Errorf("MaxInterval = %v, want 30s", config.MaxInterval)
	}
	if config.Multiplier != 2.0 {
		t.Errorf("Multiplier = %f, want 2.0", config.Multiplier)
	}
}

func TestNew_WithNilConfig(t *testing.T) {
	retrier := New(nil)
	if retrier == nil {
		t.Fatal("New(nil) returned nil")
	}
	if retrier.config.InitialInterval != 1*time.Second {
		t.Errorf("Default InitialInterval = %v, want 1s", retrier.config.InitialInterval)
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	retrier := New(&Config{MaxRetries: 3, InitialInterval: time.Millisecond})

	calls := 0
	err := retrier.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Do() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	retrier := New(&Config{MaxRetries: 3, InitialInterval: time.Millisecond})

	calls := 0
	err := retrier.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Errorf("Do() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDo_ReturnsLastError(t *testing.T) {
	retrier := New(&Config{MaxRetries: 2, InitialInterval: time.Millisecond})

	lastErr := errors.New("still broken")
	calls := 0
	err := retrier.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return lastErr
	})
	if !errors.Is(err, lastErr) {
		t.Errorf("Do() error = %v, want %v", err, lastErr)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (initial + 2 retries)", calls)
	}
}

func TestDo_PermanentErrorShortCircuits(t *testing.T) {
	retrier := New(&Config{MaxRetries: 5, InitialInterval: time.Millisecond})

	permErr := errors.New("bad input")
	calls := 0
	err := retrier.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return Permanent(permErr)
	})
	if !errors.Is(err, permErr) {
		t.Errorf("Do() error = %v, want %v", err, permErr)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on permanent)", calls)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	retrier := New(&Config{MaxRetries: 10, InitialInterval: 50 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := retrier.Do(ctx, func(ctx context.Context) error {
		return errors.New("transient")
	})
	if !errors.Is(err, ErrContextCanceled) {
		t.Errorf("Do() error = %v, want %v", err, ErrContextCanceled)
	}
}

func TestCalculateInterval_Backoff(t *testing.T) {
	retrier := New(&Config{
		MaxRetries:      5,
		InitialInterval: time.Second,
		MaxInterval:     4 * time.Second,
		Multiplier:      2.0,
	})

	if got := retrier.calculateInterval(0); got != time.Second {
		t.Errorf("interval(0) = %v, want 1s", got)
	}
	if got := retrier.calculateInterval(1); got != 2*time.Second {
		t.Errorf("interval(1) = %v, want 2s", got)
	}
	// Capped at MaxInterval.
	if got := retrier.calculateInterval(4); got != 4*time.Second {
		t.Errorf("interval(4) = %v, want 4s (capped)", got)
	}
}
