// This file contains error classification and handling.

package engine

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCategory identifies the user-facing failure class of a
// collaborator error.
type ErrorCategory string

const (
	CategoryRateLimit ErrorCategory = "rate_limit"
	CategoryAuth      ErrorCategory = "authentication"
	CategoryAPI       ErrorCategory = "api"
	CategoryUnknown   ErrorCategory = "unknown"
)

// RetryClass indicates whether an error should be retried.
type RetryClass string

const (
	RetryClassRetryable    RetryClass = "retryable"
	RetryClassMaybe        RetryClass = "maybe" // retry with caution (limited attempts)
	RetryClassNonRetryable RetryClass = "non_retryable"
)

// ValidationError indicates the user's input could not be turned into
// a canonical expression (fewer than two numbers found). Surfaced as
// guidance, not a crash; the request never advances past Processing.
type ValidationError struct {
	Input        string
	NumbersFound int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("please provide at least two numbers for calculation (found %d)", e.NumbersFound)
}

// InterpretationError indicates the collaborator responded but no
// numeric result could be extracted from the response text.
type InterpretationError struct {
	Response string
}

func (e *InterpretationError) Error() string {
	return "could not extract a numeric result from the model response"
}

// CollaboratorError wraps a collaborator failure with classification
// metadata. Providers attach HTTP status and Retry-After where known.
type CollaboratorError struct {
	Err         error
	Category    ErrorCategory
	Class       RetryClass
	HTTPStatus  int
	RetryAfter  string
	IsRateLimit bool
	IsAuth      bool
	IsTimeout   bool
}

func (e *CollaboratorError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("collaborator error: %s", e.Category)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// ErrorClassifier maps collaborator failures to categories and stable,
// user-safe messages. It never fails and never panics.
type ErrorClassifier struct{}

// NewErrorClassifier creates a classifier.
func NewErrorClassifier() *ErrorClassifier { return &ErrorClassifier{} }

// Classify determines the failure category of an error. Classification
// prefers metadata attached by the provider and falls back to string
// matching, the same way upstream SDK errors surface status codes in
// their messages.
func (c *ErrorClassifier) Classify(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}

	var collabErr *CollaboratorError
	if errors.As(err, &collabErr) {
		if collabErr.Category != "" {
			return collabErr.Category
		}
		if collabErr.IsRateLimit {
			return CategoryRateLimit
		}
		if collabErr.IsAuth {
			return CategoryAuth
		}
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") {
		return CategoryRateLimit
	}

	if strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "forbidden") ||
		strings.Contains(errStr, "invalid api key") ||
		strings.Contains(errStr, "authentication") {
		return CategoryAuth
	}

	if strings.Contains(errStr, "api error") ||
		strings.Contains(errStr, "status code") ||
		strings.Contains(errStr, "bad gateway") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") {
		return CategoryAPI
	}

	return CategoryUnknown
}

// UserMessage converts an error into a stable human-readable message.
// Unknown errors fall through to a generic message carrying the
// original error text.
func (c *ErrorClassifier) UserMessage(err error) string {
	switch c.Classify(err) {
	case CategoryRateLimit:
		return "Rate limit exceeded. Please wait a moment and try again."
	case CategoryAuth:
		return "Authentication failed. Please check your API key."
	case CategoryAPI:
		return fmt.Sprintf("API error occurred: %v", err)
	default:
		return fmt.Sprintf("Unexpected error: %v", err)
	}
}

// ClassifyRetry classifies an error for retry decision-making.
func ClassifyRetry(err error) RetryClass {
	if err == nil {
		return RetryClassNonRetryable
	}

	var collabErr *CollaboratorError
	if errors.As(err, &collabErr) && collabErr.Class != "" {
		return collabErr.Class
	}

	errStr := strings.ToLower(err.Error())

	// Rate limit (429) and server errors (5xx) - retryable
	if strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "bad gateway") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "gateway timeout") {
		return RetryClassRetryable
	}

	// Network errors - retryable
	if strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "temporary failure") {
		return RetryClassRetryable
	}

	// Context deadline exceeded - maybe (limited retries)
	if strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "timeout") {
		return RetryClassMaybe
	}

	// Auth (401/403), bad request (400), quota (402) - non-retryable
	return RetryClassNonRetryable
}

// WrapCollaboratorError wraps a provider error with classification
// metadata. Providers call this on every failed SDK call.
func WrapCollaboratorError(err error, httpStatus int, retryAfter string) error {
	if err == nil {
		return nil
	}

	collabErr := &CollaboratorError{
		Err:         err,
		Class:       ClassifyRetry(err),
		HTTPStatus:  httpStatus,
		RetryAfter:  retryAfter,
		IsRateLimit: httpStatus == http.StatusTooManyRequests,
		IsAuth:      httpStatus == http.StatusUnauthorized || httpStatus == http.StatusForbidden,
		IsTimeout:   httpStatus == http.StatusGatewayTimeout || httpStatus == http.StatusRequestTimeout,
	}

	switch {
	case collabErr.IsRateLimit:
		collabErr.Category = CategoryRateLimit
	case collabErr.IsAuth:
		collabErr.Category = CategoryAuth
	case httpStatus != 0:
		collabErr.Category = CategoryAPI
	}

	return collabErr
}

// ExtractRetryAfter extracts the Retry-After value from an error.
// Returns 0 if not found or invalid.
func ExtractRetryAfter(err error) time.Duration {
	var collabErr *CollaboratorError
	if errors.As(err, &collabErr) && collabErr.RetryAfter != "" {
		var seconds int
		if _, scanErr := fmt.Sscanf(collabErr.RetryAfter, "%d", &seconds); scanErr == nil {
			return time.Duration(seconds) * time.Second
		}
		if t, parseErr := time.Parse(time.RFC1123, collabErr.RetryAfter); parseErr == nil {
			if now := time.Now(); t.After(now) {
				return t.Sub(now)
			}
		}
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "retry after") {
		var seconds int
		if _, scanErr := fmt.Sscanf(errStr, "retry after %d", &seconds); scanErr == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	return 0
}

// PipelineError is what ProcessRequest returns for collaborator and
// interpretation failures: a stable user-safe message produced by the
// classifier, wrapping the underlying cause for errors.As checks.
type PipelineError struct {
	Message string
	Err     error
}

func (e *PipelineError) Error() string { return e.Message }

func (e *PipelineError) Unwrap() error { return e.Err }

// RetryExhaustedError indicates that all retry attempts were used up.
type RetryExhaustedError struct {
	Err      error
	Attempts int
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}
