package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_SuccessOnFirstTry(t *testing.T) {
	ctx := context.Background()
	retrier := NewDefaultRetrier()

	counter := 0
	var resultValue int
	operation := func() error {
		counter++
		resultValue = 42
		return nil
	}

	err := retrier.Do(ctx, operation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resultValue != 42 {
		t.Errorf("expected 42, got %d", resultValue)
	}
	if counter != 1 {
		t.Errorf("expected 1 attempt, got %d", counter)
	}
}

func TestRetry_SuccessAfterRetries(t *testing.T) {
	ctx := context.Background()
	retrier := NewDefaultRetrier()

	counter := 0
	var resultValue int
	operation := func() error {
		counter++
		if counter < 2 {
			return errors.New("temporary error")
		}
		resultValue = 42
		return nil
	}

	err := retrier.Do(ctx, operation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resultValue != 42 {
		t.Errorf("expected 42, got %d", resultValue)
	}
	if counter != 2 {
		t.Errorf("expected 2 attempts, got %d", counter)
	}
}

func TestRetry_MaxRetriesExceeded(t *testing.T) {
	ctx := context.Background()
	config := NewDefaultConfig()
	config.MaxRetries = 2
	retrier := NewRetrier(config)

	expectedErr := errors.New("permanent error")
	counter := 0
	operation := func() error {
		counter++
		return expectedErr
	}

	err := retrier.Do(ctx, operation)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) { // Use errors.Is for checking wrapped errors, though here it's direct.
		t.Errorf("expected %v, got %v", expectedErr, err)
	}
	if counter != 3 { // Initial try + 2 retries
		t.Errorf("expected 3 attempts, got %d", counter)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	retrier := NewDefaultRetrier()

	operation := func() error {
		cancel() // Cancel the context during the operation
		return errors.New("operation error after cancel")
	}

	err := retrier.Do(ctx, operation)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRetry_BackoffAndJitter(t *testing.T) {
	ctx := context.Background()
	config := &Config{
		MaxRetries:    2,
		BackoffFactor: 2.0,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      1 * time.Second,
		Jitter:        50 * time.Millisecond,
	}
	retrier := NewRetrier(config)

	start := time.Now()
	counter := 0
	operation := func() error {
		counter++
		return errors.New("error")
	}

	_ = retrier.Do(ctx, operation)
	elapsed := time.Since(start)

	// Minimum total delay: 100ms + 200ms
	minExpectedDelay := config.InitialDelay + time.Duration(float64(config.InitialDelay)*config.BackoffFactor)
	maxExpectedDelay := (config.InitialDelay + config.Jitter) + (time.Duration(float64(config.InitialDelay)*config.BackoffFactor) + config.Jitter)
	// Allow some scheduler slack on busy CI machines.
	maxExpectedDelay += 100 * time.Millisecond

	if elapsed < minExpectedDelay || elapsed > maxExpectedDelay {
		t.Errorf("expected total delay to be roughly between %v and %v, got %v", minExpectedDelay, maxExpectedDelay, elapsed)
	}
	if counter != 3 { // Initial try + 2 retries
		t.Errorf("expected 3 attempts, got %d", counter)
	}
}

func TestRetry_PermanentStopsImmediately(t *testing.T) {
	ctx := context.Background()
	retrier := NewDefaultRetrier()

	notFound := errors.New("status 404")
	counter := 0
	operation := func() error {
		counter++
		return Permanent(notFound)
	}

	err := retrier.Do(ctx, operation)
	if err != notFound {
		t.Errorf("expected unwrapped %v, got %v", notFound, err)
	}
	if counter != 1 {
		t.Errorf("expected 1 attempt, got %d", counter)
	}
}

func TestPermanent_Nil(t *testing.T) {
	if Permanent(nil) != nil {
		t.Error("expected nil for nil error")
	}
}
