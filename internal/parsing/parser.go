// Package parsing turns raw resume text into a structured ResumeRecord using LLM extraction.
package parsing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/resumer/internal/llm"
	"github.com/jonathan/resumer/internal/types"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single completion call
const DefaultTimeout = 60 * time.Second

// Completer performs one completion call
type Completer interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (string, error)
}

// Parser runs the ingestion pipeline:
// validate -> compose prompt -> complete -> normalize -> parse record.
// It holds no per-request state and is safe for concurrent use.
type Parser struct {
	client   Completer
	provider string
	model    string
	timeout  time.Duration
}

// Option configures a Parser
type Option func(*Parser)

// WithTimeout sets the deadline applied to each completion call.
// Zero or negative disables the deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Parser) {
		p.timeout = timeout
	}
}

// WithProvider sets the provider name reported in upstream errors
func WithProvider(provider string) Option {
	return func(p *Parser) {
		p.provider = provider
	}
}

// NewParser creates a Parser around a completion client
func NewParser(client Completer, opts ...Option) *Parser {
	p := &Parser{
		client:  client,
		timeout: DefaultTimeout,
	}
	if c, ok := client.(llm.Client); ok {
		p.provider = string(c.Provider())
		p.model = c.Model()
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts a resume from the request. Failures are returned as
// *ValidationError, *UpstreamError or *ExtractionError.
func (p *Parser) Parse(ctx context.Context, req types.ParseRequest) (*types.ParsedResume, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Field: "rawText", Message: "Missing raw text"}
	}

	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("provider", p.provider).
		Str("model", p.model).
		Str("mode", inputMode(req.IsImage)).
		Int("text_length", len(req.RawText)).
		Msg("starting resume parse")

	prompt := ComposePrompt(req.RawText, req.IsImage)

	content, err := p.complete(ctx, prompt)
	if err != nil {
		logger.Error().Err(err).Msg("completion failed")
		return nil, err
	}

	normalized := NormalizeResponse(content)
	record, err := ParseRecord(normalized)
	if err != nil {
		logger.Error().Err(err).Msg("failed to parse completion as resume record")
		logger.Debug().Str("normalized_content", normalized).Msg("unparsable completion")
		return nil, err
	}

	logger.Info().
		Int("experience", len(record.Experience)).
		Int("education", len(record.Education)).
		Msg("resume parsed")
	return record, nil
}

// complete performs the single completion call under the configured deadline.
func (p *Parser) complete(ctx context.Context, prompt Prompt) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	content, err := p.client.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: prompt.System,
		UserPrompt:   prompt.User,
	})
	if err != nil {
		return "", p.upstreamError(err)
	}
	return content, nil
}

// upstreamError classifies a completion failure.
func (p *Parser) upstreamError(err error) *UpstreamError {
	upstream := &UpstreamError{
		Provider: p.provider,
		Message:  "completion request failed",
		Cause:    err,
	}

	var apiErr *llm.APIError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		upstream.Timeout = true
		upstream.Message = fmt.Sprintf("completion timed out after %s", p.timeout)
	case errors.Is(err, context.Canceled):
		upstream.Message = "completion canceled"
	case errors.Is(err, llm.ErrEmptyCompletion):
		upstream.Message = "completion returned no content"
	case errors.As(err, &apiErr):
		upstream.StatusCode = apiErr.StatusCode
		upstream.Message = fmt.Sprintf("completion service returned status %d", apiErr.StatusCode)
	}
	return upstream
}

func inputMode(isImage bool) string {
	if isImage {
		return "image"
	}
	return "text"
}
