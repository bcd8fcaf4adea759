package engine

import (
	"errors"
	"testing"
	"time"
)

func TestClassifyCategories(t *testing.T) {
	c := NewErrorClassifier()

	cases := []struct {
		err  error
		want ErrorCategory
	}{
		{errors.New("429 too many requests"), CategoryRateLimit},
		{errors.New("rate limit exceeded"), CategoryRateLimit},
		{errors.New("401 unauthorized"), CategoryAuth},
		{errors.New("invalid api key provided"), CategoryAuth},
		{errors.New("api error: status code 500"), CategoryAPI},
		{errors.New("dial tcp: connection refused"), CategoryAPI},
		{errors.New("something odd happened"), CategoryUnknown},
	}

	for _, tc := range cases {
		if got := c.Classify(tc.err); got != tc.want {
			t.Errorf("Classify(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}

func TestClassifyPrefersProviderMetadata(t *testing.T) {
	c := NewErrorClassifier()

	// The message alone would classify as unknown; the attached HTTP
	// status decides.
	err := WrapCollaboratorError(errors.New("request failed"), 429, "2")
	if got := c.Classify(err); got != CategoryRateLimit {
		t.Errorf("Classify = %s, want %s", got, CategoryRateLimit)
	}

	err = WrapCollaboratorError(errors.New("request failed"), 403, "")
	if got := c.Classify(err); got != CategoryAuth {
		t.Errorf("Classify = %s, want %s", got, CategoryAuth)
	}
}

func TestUserMessages(t *testing.T) {
	c := NewErrorClassifier()

	if msg := c.UserMessage(errors.New("rate limit exceeded")); msg != "Rate limit exceeded. Please wait a moment and try again." {
		t.Errorf("rate limit message = %q", msg)
	}
	if msg := c.UserMessage(errors.New("401 unauthorized")); msg != "Authentication failed. Please check your API key." {
		t.Errorf("auth message = %q", msg)
	}
	// Unknown errors keep the original text visible.
	if msg := c.UserMessage(errors.New("flux capacitor misaligned")); msg != "Unexpected error: flux capacitor misaligned" {
		t.Errorf("unknown message = %q", msg)
	}
}

func TestExtractRetryAfterSeconds(t *testing.T) {
	err := WrapCollaboratorError(errors.New("429"), 429, "7")
	if got := ExtractRetryAfter(err); got != 7*time.Second {
		t.Errorf("ExtractRetryAfter = %v, want 7s", got)
	}
}

func TestClassifyRetry(t *testing.T) {
	if got := ClassifyRetry(errors.New("503 service unavailable")); got != RetryClassRetryable {
		t.Errorf("5xx = %s, want retryable", got)
	}
	if got := ClassifyRetry(errors.New("context deadline exceeded")); got != RetryClassMaybe {
		t.Errorf("deadline = %s, want maybe", got)
	}
	if got := ClassifyRetry(errors.New("401 unauthorized")); got != RetryClassNonRetryable {
		t.Errorf("auth = %s, want non_retryable", got)
	}
}
