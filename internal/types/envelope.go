package types

// ErrorKind classifies failures in an ErrorEnvelope
type ErrorKind string

// Error kinds reported to clients
const (
	ErrorKindValidation      ErrorKind = "VALIDATION_ERROR"
	ErrorKindInvalidRequest  ErrorKind = "INVALID_REQUEST"
	ErrorKindPayloadTooLarge ErrorKind = "PAYLOAD_TOO_LARGE"
	ErrorKindRateLimit       ErrorKind = "RATE_LIMIT_EXCEEDED"
	ErrorKindUpstream        ErrorKind = "UPSTREAM_ERROR"
	ErrorKindUpstreamTimeout ErrorKind = "UPSTREAM_TIMEOUT"
	ErrorKindInternal        ErrorKind = "INTERNAL_ERROR"
)

// ErrorEnvelope is the uniform body of every non-success response
type ErrorEnvelope struct {
	Error      string    `json:"error"`
	Type       ErrorKind `json:"type"`
	Timestamp  string    `json:"timestamp"`
	Details    string    `json:"details,omitempty"`
	RawContent string    `json:"rawContent,omitempty"`
	RetryAfter *int      `json:"retryAfter,omitempty"`
}
