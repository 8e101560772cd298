package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonathan/resumer/internal/parsing"
	"github.com/jonathan/resumer/internal/types"
)

// timestampFormat is RFC 3339 in UTC with millisecond precision
const timestampFormat = "2006-01-02T15:04:05.000Z"

const (
	msgRateLimited   = "Rate limit exceeded"
	msgUnexpected    = "An unexpected error occurred"
	msgUpstreamError = "Completion service request failed"
	msgUpstreamSlow  = "Completion service timed out"
)

// RateLimitError indicates the client exceeded its admission threshold
type RateLimitError struct {
	Limit      int
	RetryAfter int // seconds
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: limit %d, retry after %ds", e.Limit, e.RetryAfter)
}

// RequestError indicates a body that could not be read as a parse request
type RequestError struct {
	Status  int
	Kind    types.ErrorKind
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid request: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid request: %s", e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// NormalizeError maps any pipeline error to its status code and envelope.
// Unrecognized errors produce the generic internal error envelope.
func NormalizeError(err error, now time.Time) (int, types.ErrorEnvelope) {
	envelope := types.ErrorEnvelope{
		Error:     msgUnexpected,
		Type:      types.ErrorKindInternal,
		Timestamp: now.UTC().Format(timestampFormat),
	}

	var (
		validationErr *parsing.ValidationError
		requestErr    *RequestError
		rateLimitErr  *RateLimitError
		upstreamErr   *parsing.UpstreamError
		extractionErr *parsing.ExtractionError
	)

	switch {
	case errors.As(err, &validationErr):
		envelope.Error = validationErr.Message
		envelope.Type = types.ErrorKindValidation
		return http.StatusBadRequest, envelope

	case errors.As(err, &requestErr):
		envelope.Error = requestErr.Message
		envelope.Type = requestErr.Kind
		return requestErr.Status, envelope

	case errors.As(err, &rateLimitErr):
		retryAfter := rateLimitErr.RetryAfter
		envelope.Error = msgRateLimited
		envelope.Type = types.ErrorKindRateLimit
		envelope.RetryAfter = &retryAfter
		return http.StatusTooManyRequests, envelope

	case errors.As(err, &upstreamErr):
		envelope.Error = msgUpstreamError
		envelope.Type = types.ErrorKindUpstream
		if upstreamErr.Timeout {
			envelope.Error = msgUpstreamSlow
			envelope.Type = types.ErrorKindUpstreamTimeout
		}
		return http.StatusInternalServerError, envelope

	case errors.As(err, &extractionErr):
		envelope.Error = extractionErr.Message
		envelope.Details = extractionErr.Details
		envelope.RawContent = extractionErr.RawContent
		return http.StatusInternalServerError, envelope
	}

	return http.StatusInternalServerError, envelope
}
