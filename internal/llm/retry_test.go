package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func fastPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     4 * time.Millisecond,
	}
}

func TestBackoff_DoublesAndCaps(t *testing.T) {
	policy := DefaultRetryPolicy()

	assert.Equal(t, 2*time.Second, policy.Backoff(1))
	assert.Equal(t, 4*time.Second, policy.Backoff(2))
	assert.Equal(t, 8*time.Second, policy.Backoff(3))
	assert.Equal(t, 10*time.Second, policy.Backoff(4))
	assert.Equal(t, 10*time.Second, policy.Backoff(10))
}

func TestInvoke_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Invoke(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	}, time.Second, fastPolicy())

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestInvoke_RetriesRetryableThenSucceeds(t *testing.T) {
	calls := 0
	result, err := Invoke(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &ServiceError{StatusCode: 503, Message: "overloaded"}
		}
		return "recovered", nil
	}, time.Second, fastPolicy())

	require.NoError(t, err)
	assert.Equal(t, "recovered", result)
	assert.Equal(t, 3, calls)
}

func TestInvoke_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Invoke(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", &ServiceError{StatusCode: 500, Message: "still down"}
	}, time.Second, fastPolicy())

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 500, svcErr.StatusCode)
	assert.Equal(t, 3, calls)
}

func TestInvoke_NonRetryableFailsImmediately(t *testing.T) {
	calls := 0
	_, err := Invoke(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", &AuthenticationError{Message: "bad key"}
	}, time.Second, fastPolicy())

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 1, calls)
}

func TestInvoke_RateLimitShortCircuits(t *testing.T) {
	calls := 0
	_, err := Invoke(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", &RateLimitedError{Message: "quota", RetryAfter: 30 * time.Second}
	}, time.Second, fastPolicy())

	var rateErr *RateLimitedError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 30*time.Second, rateErr.RetryAfter)
	assert.Equal(t, 1, calls)
}

func TestInvoke_TimeoutIsRetryable(t *testing.T) {
	calls := 0
	result, err := Invoke(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			<-ctx.Done()
			return "", ctx.Err()
		}
		return "ok", nil
	}, 10*time.Millisecond, fastPolicy())

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 2, calls)
}

func TestInvoke_ParentCancellationWins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Invoke(ctx, func(ctx context.Context) (string, error) {
		return "", &ServiceError{StatusCode: 500}
	}, time.Second, fastPolicy())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassify_GoogleAPIStatuses(t *testing.T) {
	err := Classify(&googleapi.Error{Code: 401, Message: "invalid key"})
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)

	err = Classify(&googleapi.Error{Code: 403, Message: "forbidden"})
	require.ErrorAs(t, err, &authErr)

	err = Classify(&googleapi.Error{Code: 500, Message: "boom"})
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.True(t, svcErr.Retryable())

	err = Classify(&googleapi.Error{Code: 400, Message: "bad request"})
	require.ErrorAs(t, err, &svcErr)
	assert.False(t, svcErr.Retryable())
}

func TestClassify_RateLimitReadsRetryAfter(t *testing.T) {
	gerr := &googleapi.Error{Code: 429, Message: "quota exceeded"}
	gerr.Header = map[string][]string{"Retry-After": {"30"}}

	err := Classify(gerr)
	var rateErr *RateLimitedError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 30*time.Second, rateErr.RetryAfter)
}

func TestClassify_DeadlineExceededIsTransport(t *testing.T) {
	err := Classify(context.DeadlineExceeded)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Zero(t, svcErr.StatusCode)
	assert.True(t, svcErr.Retryable())
}

func TestClassify_PassesThroughClassified(t *testing.T) {
	orig := &RateLimitedError{Message: "quota"}
	assert.Same(t, error(orig), Classify(orig))
}

func TestClassify_UnknownIsUnexpected(t *testing.T) {
	err := Classify(errors.New("something odd"))
	var unexpErr *UnexpectedError
	require.ErrorAs(t, err, &unexpErr)
	assert.False(t, IsRetryable(err))
}

func TestParseRetryAfter_IntegerSeconds(t *testing.T) {
	d, ok := ParseRetryAfter("30", time.Now())
	assert.True(t, ok)
	assert.Equal(t, 30*time.Second, d)
}

func TestParseRetryAfter_HTTPDate(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	future := now.Add(10 * time.Second).Format(http.TimeFormat)

	d, ok := ParseRetryAfter(future, now)
	assert.True(t, ok)
	assert.Equal(t, 10*time.Second, d)
}

func TestParseRetryAfter_PastDateHasNoHint(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute).Format(http.TimeFormat)

	d, ok := ParseRetryAfter(past, now)
	assert.False(t, ok)
	assert.Zero(t, d)
}

func TestParseRetryAfter_NoValue(t *testing.T) {
	_, ok := ParseRetryAfter("", time.Now())
	assert.False(t, ok)

	_, ok = ParseRetryAfter("garbage", time.Now())
	assert.False(t, ok)

	_, ok = ParseRetryAfter("0", time.Now())
	assert.False(t, ok)

	_, ok = ParseRetryAfter("-5", time.Now())
	assert.False(t, ok)
}
