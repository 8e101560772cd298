package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyCompletion is returned when the provider answers without any content
var ErrEmptyCompletion = errors.New("completion returned no content")

// CompletionRequest is a single system+user prompt pair
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete sends exactly one chat completion in JSON response mode and
	// returns the text of the first choice. It never retries.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// Provider returns the provider the client talks to
	Provider() Provider
	// Model returns the model identifier sent with every request
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// APIError is a non-success answer from the provider
type APIError struct {
	Provider   Provider
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error (status %d)", e.Provider, e.StatusCode)
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderGroq, ProviderOpenAI:
		return NewOpenAIClient(config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}
