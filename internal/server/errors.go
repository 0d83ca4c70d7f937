package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/voicereview/internal/db"
	"github.com/jonathan/voicereview/internal/llm"
	"github.com/jonathan/voicereview/internal/review"
	"github.com/jonathan/voicereview/internal/stream"
)

// errorResponse is the JSON body returned for failed requests.
type errorResponse struct {
	Error      string                  `json:"error"`
	Violations []review.FieldViolation `json:"violations,omitempty"`
}

// classifyError maps a pipeline error to an HTTP status code and, for
// rate limiting, a Retry-After hint.
func classifyError(err error) (status int, retryAfter time.Duration) {
	var validationErr *review.ValidationError
	var notFoundErr *review.NotFoundError
	var dbNotFound *db.NotFoundError
	var authErr *llm.AuthenticationError
	var rateErr *llm.RateLimitedError
	var serviceErr *llm.ServiceError
	var protocolErr *stream.ProtocolError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, 0
	case errors.As(err, &notFoundErr), errors.As(err, &dbNotFound):
		return http.StatusNotFound, 0
	case errors.As(err, &authErr):
		return http.StatusUnauthorized, 0
	case errors.As(err, &rateErr):
		return http.StatusTooManyRequests, rateErr.RetryAfter
	case errors.As(err, &serviceErr), errors.As(err, &protocolErr):
		return http.StatusBadGateway, 0
	default:
		return http.StatusInternalServerError, 0
	}
}

// writeError renders err as a JSON error response with the mapped status.
func writeError(w http.ResponseWriter, err error) {
	status, retryAfter := classifyError(err)

	resp := errorResponse{Error: err.Error()}
	var validationErr *review.ValidationError
	if errors.As(err, &validationErr) {
		resp.Violations = validationErr.Violations
	}

	w.Header().Set("Content-Type", "application/json")
	if retryAfter > 0 {
		seconds := int(retryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// writeJSON renders v as a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
