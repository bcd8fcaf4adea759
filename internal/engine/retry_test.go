package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries:   maxRetries,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestRetrySucceedsAfterTransientError(t *testing.T) {
	calls := 0
	result, err := RetryWithPolicy(context.Background(), fastPolicy(3), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("503 service unavailable")
		}
		return "ok", nil
	}, nil)

	if err != nil {
		t.Fatalf("RetryWithPolicy failed: %v", err)
	}
	if result != "ok" || calls != 3 {
		t.Errorf("result=%q calls=%d", result, calls)
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	_, err := RetryWithPolicy(context.Background(), fastPolicy(3), func(context.Context) (int, error) {
		calls++
		return 0, errors.New("401 unauthorized")
	}, nil)

	if err == nil || calls != 1 {
		t.Errorf("err=%v calls=%d, want immediate failure", err, calls)
	}
}

func TestRetryExhaustion(t *testing.T) {
	calls := 0
	_, err := RetryWithPolicy(context.Background(), fastPolicy(2), func(context.Context) (int, error) {
		calls++
		return 0, errors.New("429 too many requests")
	}, nil)

	var exhausted *RetryExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("err = %v, want *RetryExhaustedError", err)
	}
	if calls != 3 { // initial attempt + 2 retries
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RetryWithPolicy(ctx, fastPolicy(5), func(context.Context) (int, error) {
		return 0, errors.New("503 service unavailable")
	}, nil)

	if err == nil || !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want wrapped context.Canceled", err)
	}
}

func TestRetryCallsHook(t *testing.T) {
	attempts := []int{}
	_, _ = RetryWithPolicy(context.Background(), fastPolicy(2), func(context.Context) (int, error) {
		return 0, errors.New("500 internal server error")
	}, func(attempt int, _ time.Duration, _ error) {
		attempts = append(attempts, attempt)
	})

	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("retry hook attempts = %v, want [1 2]", attempts)
	}
}
