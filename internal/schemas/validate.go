// Package schemas provides JSON Schema validation functionality for structured data artifacts.
package schemas

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/resumer/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

var (
	recordSchema     *gojsonschema.Schema
	recordSchemaErr  error
	recordSchemaOnce sync.Once
)

// loadRecordSchema compiles the embedded resume record schema once.
func loadRecordSchema() (*gojsonschema.Schema, error) {
	recordSchemaOnce.Do(func() {
		data, err := schemas.Files.ReadFile(schemas.ResumeRecordFile)
		if err != nil {
			recordSchemaErr = &SchemaLoadError{Path: schemas.ResumeRecordFile, Message: "embedded schema missing", Cause: err}
			return
		}
		recordSchema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			recordSchemaErr = &SchemaLoadError{Path: schemas.ResumeRecordFile, Message: "schema does not compile", Cause: err}
		}
	})
	return recordSchema, recordSchemaErr
}

// ValidateRecord validates JSON content against the resume record schema.
// The content must already be syntactically valid JSON.
func ValidateRecord(jsonContent string) error {
	schema, err := loadRecordSchema()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	return toValidationError(result)
}

// toValidationError converts a validation result into a *ValidationError, or nil when valid.
func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
