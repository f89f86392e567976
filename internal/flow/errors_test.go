package flow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestCategoryOf(t *testing.T) {
	err := New(CategoryCountMismatch, "four siblings expected", nil)
	if CategoryOf(err) != CategoryCountMismatch {
		t.Fatalf("got %s", CategoryOf(err))
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if CategoryOf(wrapped) != CategoryCountMismatch {
		t.Fatal("category should survive wrapping")
	}

	if CategoryOf(errors.New("plain")) != CategoryBrowser {
		t.Fatal("plain errors should default to browser category")
	}
}

func TestIsFatal(t *testing.T) {
	if !IsFatal(New(CategoryModalStuck, "stuck", nil)) {
		t.Fatal("modal_stuck must be fatal")
	}
	if IsFatal(New(CategoryActionFailed, "click", nil)) {
		t.Fatal("action_failed must not be fatal")
	}
}

func TestNewSetsRetryable(t *testing.T) {
	if !New(CategoryStaleReference, "", nil).Retryable {
		t.Fatal("stale_reference should be retryable")
	}
	if New(CategoryLocatorMissing, "", nil).Retryable {
		t.Fatal("locator_missing should not be retryable")
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), DefaultRetryConfig(), func() error {
		attempts++
		return New(CategoryLocatorMissing, "gone", nil)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("non-retryable error should stop after 1 attempt, got %d", attempts)
	}
}

func TestRetrySucceedsEventually(t *testing.T) {
	attempts := 0
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1}
	err := Retry(context.Background(), cfg, func() error {
		attempts++
		if attempts < 3 {
			return New(CategoryActionFailed, "flaky", nil)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if attempts != 3 {
		t.Fatalf("got %d attempts, want 3", attempts)
	}
}

func TestRetryExhausts(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1}
	err := Retry(context.Background(), cfg, func() error {
		return New(CategoryTimeout, "slow", nil)
	})
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if CategoryOf(err) != CategoryTimeout {
		t.Fatal("exhaustion error should wrap the last attempt's error")
	}
}
