package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIClient implements Client for OpenAI-compatible chat completion APIs (Groq, OpenAI)
type OpenAIClient struct {
	client openai.Client
	config *Config
}

// OpenAIOption customizes the underlying SDK client
type OpenAIOption func(*[]option.RequestOption)

// WithHTTPClient sets the HTTP client used for requests (tests)
func WithHTTPClient(hc *http.Client) OpenAIOption {
	return func(opts *[]option.RequestOption) {
		*opts = append(*opts, option.WithHTTPClient(hc))
	}
}

// NewOpenAIClient creates a new OpenAI-compatible client
func NewOpenAIClient(config *Config, apiKey string, extra ...OpenAIOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	for _, apply := range extra {
		apply(&opts)
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		config: config,
	}, nil
}

// Complete sends the system and user prompts, in that order, as one chat completion
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
		Model:       openai.ChatModel(c.config.GetModel()),
		Temperature: openai.Float(c.config.Temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", c.mapError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// Provider returns the configured provider
func (c *OpenAIClient) Provider() Provider {
	return c.config.Provider
}

// Model returns the configured model
func (c *OpenAIClient) Model() string {
	return c.config.GetModel()
}

// Close is a no-op; the SDK client holds no resources
func (c *OpenAIClient) Close() error {
	return nil
}

func (c *OpenAIClient) mapError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &APIError{
			Provider:   c.config.Provider,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
		}
	}
	return err
}
