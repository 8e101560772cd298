package parsing

import (
	"context"
	"fmt"

	"github.com/jonathan/resumer/internal/config"
	"github.com/jonathan/resumer/internal/llm"
)

// NewFromConfig creates the completion client described by cfg and a Parser
// around it. The caller closes the returned client.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Parser, llm.Client, error) {
	llmConfig, err := cfg.LLMClientConfig()
	if err != nil {
		return nil, nil, err
	}

	client, err := llm.NewClient(ctx, llmConfig, cfg.LLM.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	parser := NewParser(client,
		WithProvider(string(client.Provider())),
		WithTimeout(cfg.LLM.Timeout),
	)
	return parser, client, nil
}
