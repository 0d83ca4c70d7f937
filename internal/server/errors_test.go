package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/voicereview/internal/db"
	"github.com/jonathan/voicereview/internal/llm"
	"github.com/jonathan/voicereview/internal/review"
	"github.com/jonathan/voicereview/internal/stream"
)

func TestClassifyError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &review.ValidationError{}, http.StatusBadRequest},
		{"profile missing", &review.NotFoundError{Resource: "style profile"}, http.StatusNotFound},
		{"db not found", &db.NotFoundError{Resource: "user"}, http.StatusNotFound},
		{"auth", &llm.AuthenticationError{Message: "bad key"}, http.StatusUnauthorized},
		{"rate limited", &llm.RateLimitedError{Message: "quota"}, http.StatusTooManyRequests},
		{"upstream 5xx", &llm.ServiceError{StatusCode: 503}, http.StatusBadGateway},
		{"broken stream", &stream.ProtocolError{Message: "truncated"}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := classifyError(tc.err)
			assert.Equal(t, tc.status, status)
		})
	}
}

func TestWriteError_RateLimitSetsRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, &llm.RateLimitedError{Message: "quota", RetryAfter: 30 * time.Second})

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
}

func TestWriteError_RateLimitWithoutHintOmitsHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, &llm.RateLimitedError{Message: "quota"})

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Empty(t, rec.Header().Get("Retry-After"))
}

func TestWriteError_ValidationIncludesViolations(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, &review.ValidationError{Violations: []review.FieldViolation{
		{Field: "Location", Message: "is required"},
	}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, "Location", resp.Violations[0].Field)
}
