package parsing

import (
	"encoding/json"
	"errors"

	"github.com/jonathan/resumer/internal/schemas"
	"github.com/jonathan/resumer/internal/types"
)

const extractionFailedMessage = "Failed to parse AI response as JSON"

// ParseRecord decodes normalized model output. The text must be exactly one
// JSON document with an object root; member values are decoded leniently.
// The returned ParsedResume keeps the document unchanged.
func ParseRecord(normalized string) (*types.ParsedResume, error) {
	var document any
	if err := json.Unmarshal([]byte(normalized), &document); err != nil {
		return nil, &ExtractionError{
			Message:    extractionFailedMessage,
			Details:    err.Error(),
			RawContent: normalized,
			Cause:      err,
		}
	}

	if err := schemas.ValidateRecord(normalized); err != nil {
		details := err.Error()
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) && len(validationErr.Errors) > 0 {
			first := validationErr.Errors[0]
			details = first.Field + ": " + first.Message
		}
		return nil, &ExtractionError{
			Message:    extractionFailedMessage,
			Details:    details,
			RawContent: normalized,
			Cause:      err,
		}
	}

	parsed := &types.ParsedResume{Document: json.RawMessage(normalized)}
	if err := json.Unmarshal([]byte(normalized), &parsed.ResumeRecord); err != nil {
		return nil, &ExtractionError{
			Message:    extractionFailedMessage,
			Details:    err.Error(),
			RawContent: normalized,
			Cause:      err,
		}
	}

	return parsed, nil
}
