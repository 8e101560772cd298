package parsing

import "fmt"

// ValidationError represents a request that is missing required input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// UpstreamError represents a failed completion call: transport failure,
// non-success status, empty content, or an expired deadline (Timeout).
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
	Timeout    bool
	Cause      error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if e.Provider != "" {
		msg = fmt.Sprintf("%s: %s", e.Provider, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("upstream error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("upstream error: %s", msg)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// ExtractionError represents model output that could not be reduced to a
// resume record. RawContent is the normalized text that failed.
type ExtractionError struct {
	Message    string
	Details    string
	RawContent string
	Cause      error
}

func (e *ExtractionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("extraction error: %s: %s", e.Message, e.Details)
	}
	return fmt.Sprintf("extraction error: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
