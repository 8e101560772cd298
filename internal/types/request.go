package types

import (
	"github.com/go-playground/validator/v10"
)

// ParseRequest is the body of a parse call. IsImage selects the OCR framing
// of the prompt and never affects validation.
type ParseRequest struct {
	RawText string `json:"rawText" validate:"required"`
	IsImage bool   `json:"isImage"`
}

var requestValidator = validator.New()

// Validate validates the ParseRequest using the validator.
func (r *ParseRequest) Validate() error {
	return requestValidator.Struct(r)
}
