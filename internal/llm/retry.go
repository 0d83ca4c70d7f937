package llm

import (
	"context"
	"errors"
	"time"
)

// Default retry settings for external generator calls.
const (
	DefaultMaxAttempts   = 3
	DefaultInitialDelay  = 2 * time.Second
	DefaultMaxDelay      = 10 * time.Second
	DefaultInvokeTimeout = 60 * time.Second
)

// RetryPolicy controls the retry loop around an external call.
// Policies are stateless and safe to reuse across calls.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	IsRetryable  func(error) bool
}

// DefaultRetryPolicy returns the standard policy for generator calls.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: DefaultInitialDelay,
		MaxDelay:     DefaultMaxDelay,
		IsRetryable:  IsRetryable,
	}
}

// Backoff returns the wait before the next attempt, counting attempts from 1:
// min(InitialDelay * 2^(attempt-1), MaxDelay).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	delay := p.InitialDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// Invoke runs op with a per-attempt timeout and the given retry policy.
// Every failure is classified first; a timeout counts as retryable. A
// RateLimitedError short-circuits the loop and is returned to the caller,
// which decides whether to reject or reschedule. The same wrapper serves
// profile synthesis, review generation, and review editing - they differ
// only in prompt and token budget, not in resilience behavior.
func Invoke[T any](ctx context.Context, op func(context.Context) (T, error), timeout time.Duration, policy RetryPolicy) (T, error) {
	var zero T
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultMaxAttempts
	}
	if policy.IsRetryable == nil {
		policy.IsRetryable = IsRetryable
	}
	if timeout <= 0 {
		timeout = DefaultInvokeTimeout
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		result, err := op(attemptCtx)
		cancel()
		if err == nil {
			return result, nil
		}

		// The parent context ending is a caller cancellation, not a
		// service failure.
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		classified := Classify(err)
		lastErr = classified

		var rateErr *RateLimitedError
		if errors.As(classified, &rateErr) {
			return zero, classified
		}

		if !policy.IsRetryable(classified) || attempt == policy.MaxAttempts {
			return zero, classified
		}

		select {
		case <-time.After(policy.Backoff(attempt)):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}
