// Package flow carries the error taxonomy and retry helper shared by the
// edit pipeline. Per-product failures are converted to skip decisions at the
// editor boundary; only an unrecoverable browser state escalates.
package flow

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Category classifies a pipeline error.
type Category string

const (
	// CategoryLocatorMissing means an element descriptor resolved nowhere.
	// This indicates SaaS DOM drift and requires a registry update.
	CategoryLocatorMissing Category = "locator_missing"
	// CategoryActionFailed means a click dispatched but the expected state
	// change never materialized
	CategoryActionFailed Category = "action_failed"
	// CategoryStaleReference means an element re-rendered mid-operation
	CategoryStaleReference Category = "stale_reference"
	// CategoryModalStuck means a modal would not close even under force;
	// the browser state is unrecoverable and the worker must terminate
	CategoryModalStuck Category = "modal_stuck"
	// CategoryCountMismatch means a post-mutation listing count differed
	// from the expected value (e.g. clone fan-out produced fewer rows)
	CategoryCountMismatch Category = "count_mismatch"
	// CategoryNameConflict means the duplicate-name retries were exhausted
	CategoryNameConflict Category = "name_conflict_unresolved"
	// CategoryBrowser covers driver-level failures
	CategoryBrowser Category = "browser"
	// CategoryTimeout covers bounded waits that expired
	CategoryTimeout Category = "timeout"
)

// Error wraps an error with its pipeline category.
type Error struct {
	Category  Category
	Original  error
	Retryable bool
	Message   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Message, e.Original)
}

// Unwrap implements error unwrapping.
func (e *Error) Unwrap() error {
	return e.Original
}

// New creates a categorized error.
func New(category Category, message string, err error) *Error {
	retryable := category == CategoryStaleReference ||
		category == CategoryActionFailed ||
		category == CategoryTimeout
	return &Error{Category: category, Original: err, Retryable: retryable, Message: message}
}

// CategoryOf extracts the category of err, or CategoryBrowser for plain errors.
func CategoryOf(err error) Category {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Category
	}
	return CategoryBrowser
}

// IsFatal reports whether err must escalate past the batch driver.
func IsFatal(err error) bool {
	return CategoryOf(err) == CategoryModalStuck
}

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns the defaults used across the pipeline.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2.0,
	}
}

// Retry executes fn with exponential backoff, honoring context cancellation.
func Retry(ctx context.Context, config RetryConfig, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		var fe *Error
		if errors.As(err, &fe) && !fe.Retryable {
			return err
		}

		if attempt < config.MaxAttempts-1 {
			select {
			case <-time.After(calculateDelay(attempt, config)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("max retry attempts (%d) exceeded: %w", config.MaxAttempts, lastErr)
}

// calculateDelay computes the backoff delay for the given attempt.
func calculateDelay(attempt int, config RetryConfig) time.Duration {
	delay := float64(config.InitialDelay)
	for i := 0; i < attempt; i++ {
		delay *= config.BackoffFactor
	}
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	return time.Duration(delay)
}
