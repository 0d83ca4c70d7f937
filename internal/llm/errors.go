package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
)

// AuthenticationError indicates the provider rejected our credentials.
// Fatal to the whole request chain, never retried.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// RateLimitedError indicates the provider returned a quota/rate failure.
// RetryAfter is the server-suggested wait; zero means no hint was given.
// This error is surfaced to the caller rather than retried internally.
type RateLimitedError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: %s (retry after %s)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited: %s", e.Message)
}

// ServiceError is any other failure of the external service. StatusCode 0
// means a transport-level failure (timeout, connection reset).
type ServiceError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *ServiceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("external service error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("external service error: %s", e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the failure is worth another attempt:
// transport failures and 5xx yes, other 4xx no.
func (e *ServiceError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}

// UnexpectedError wraps a failure that matched no known shape. Never retried.
type UnexpectedError struct {
	Cause error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error: %v", e.Cause)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Cause
}

// Classify maps a raw provider failure onto the typed error surface.
// Already-classified errors pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var authErr *AuthenticationError
	var rateErr *RateLimitedError
	var svcErr *ServiceError
	var unexpErr *UnexpectedError
	if errors.As(err, &authErr) || errors.As(err, &rateErr) ||
		errors.As(err, &svcErr) || errors.As(err, &unexpErr) {
		return err
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
			return &AuthenticationError{Message: gerr.Message}
		case gerr.Code == http.StatusTooManyRequests:
			retryAfter, _ := ParseRetryAfter(gerr.Header.Get("Retry-After"), time.Now())
			return &RateLimitedError{
				Message:    gerr.Message,
				RetryAfter: retryAfter,
			}
		default:
			return &ServiceError{
				StatusCode: gerr.Code,
				Message:    gerr.Message,
				Cause:      err,
			}
		}
	}

	// Transport-level failures: per-attempt timeout, connection reset, DNS.
	if errors.Is(err, context.DeadlineExceeded) {
		return &ServiceError{Message: "attempt timed out", Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &ServiceError{Message: "network failure", Cause: err}
	}
	if strings.Contains(err.Error(), "connection reset") {
		return &ServiceError{Message: "connection reset", Cause: err}
	}

	return &UnexpectedError{Cause: err}
}

// IsRetryable is the default retryability rule for classified errors.
// Rate limiting is deliberately not retryable here: it is surfaced so the
// request boundary can tell the caller when to come back.
func IsRetryable(err error) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Retryable()
	}
	return false
}

// ParseRetryAfter interprets a Retry-After header value. The integer-seconds
// form takes precedence; otherwise an HTTP date is converted to a delta from
// now. A missing value or non-positive delta yields (0, false): no hint.
func ParseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds <= 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}

	if at, err := http.ParseTime(value); err == nil {
		delta := at.Sub(now)
		if delta <= 0 {
			return 0, false
		}
		return delta, true
	}

	return 0, false
}
