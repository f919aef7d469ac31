package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestBackoff_SuccessAfterRetries(t *testing.T) {
	b := &Backoff{
		InitialDelay: time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
		Multiplier:   1.5,
		MaxAttempts:  10,
	}
	calls := 0

	err := b.Do(context.Background(), func(attempt int) error {
		calls++
		if attempt < 3 {
			return fmt.Errorf("transient")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestBackoff_ImmediateSuccess(t *testing.T) {
	b := Constant(time.Second, 10)
	calls := 0

	err := b.Do(context.Background(), func(_ int) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestBackoff_PermanentError(t *testing.T) {
	b := Constant(time.Second, 10)
	calls := 0

	err := b.Do(context.Background(), func(_ int) error {
		calls++
		return Permanent(fmt.Errorf("fatal"))
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "fatal" {
		t.Errorf("expected 'fatal', got %q", err.Error())
	}
	if calls != 1 {
		t.Errorf("permanent error should stop after 1 call, got %d", calls)
	}
}

func TestBackoff_MaxAttempts(t *testing.T) {
	b := Constant(time.Millisecond, 3)
	calls := 0
	last := fmt.Errorf("always fails")

	err := b.Do(context.Background(), func(_ int) error {
		calls++
		return last
	})

	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("expected *ExhaustedError, got %T: %v", err, err)
	}
	if ex.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", ex.Attempts)
	}
	if !errors.Is(err, last) {
		t.Error("exhausted error should unwrap to the last failure")
	}
}

func TestBackoff_OnRetry(t *testing.T) {
	b := Constant(2*time.Millisecond, 4)
	var seen []int
	b.OnRetry = func(attempt int, _ error, wait time.Duration) {
		seen = append(seen, attempt)
		if wait != 2*time.Millisecond {
			t.Errorf("wait = %v, want constant 2ms", wait)
		}
	}

	_ = b.Do(context.Background(), func(_ int) error { return fmt.Errorf("x") })

	// No callback after the final attempt: there is nothing to retry.
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Errorf("OnRetry attempts = %v, want [1 2 3]", seen)
	}
}

func TestBackoff_ContextCancelled(t *testing.T) {
	b := &Backoff{
		InitialDelay: 5 * time.Second,
		MaxAttempts:  100,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := b.Do(ctx, func(_ int) error {
		return fmt.Errorf("fail")
	})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestPermanent_Nil(t *testing.T) {
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}

func TestIsPermanent(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"permanent", Permanent(fmt.Errorf("x")), true},
		{"wrapped permanent", fmt.Errorf("op: %w", Permanent(fmt.Errorf("x"))), true},
		{"not permanent", fmt.Errorf("x"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPermanent(tt.err); got != tt.want {
				t.Errorf("IsPermanent() = %v, want %v", got, tt.want)
			}
		})
	}
}
