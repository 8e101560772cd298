// Package llm provides centralized LLM configuration and client abstractions.
// This package enables switching between completion providers behind one interface.
package llm

import (
	"fmt"
	"strings"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGroq is Groq's OpenAI-compatible endpoint
	ProviderGroq Provider = "groq"
	// ProviderOpenAI is the OpenAI provider
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultTemperature keeps extraction output as repeatable as the provider allows.
const DefaultTemperature = 0.1

const groqBaseURL = "https://api.groq.com/openai/v1/"

// Config holds the completion configuration for the application
type Config struct {
	Provider    Provider
	Model       string
	BaseURL     string // empty uses the provider default
	Temperature float64
}

// DefaultConfig returns the default configuration (Groq, Llama 3.3 70B)
func DefaultConfig() *Config {
	return DefaultConfigFor(ProviderGroq)
}

// DefaultConfigFor returns the default configuration for a provider
func DefaultConfigFor(provider Provider) *Config {
	return &Config{
		Provider:    provider,
		Model:       DefaultModel(provider),
		BaseURL:     DefaultBaseURL(provider),
		Temperature: DefaultTemperature,
	}
}

// DefaultModel returns the model used when none is configured
func DefaultModel(provider Provider) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderGemini:
		return "gemini-2.5-flash"
	default:
		return "llama-3.3-70b-versatile"
	}
}

// DefaultBaseURL returns the provider endpoint, or empty when the SDK default applies
func DefaultBaseURL(provider Provider) string {
	if provider == ProviderGroq {
		return groqBaseURL
	}
	return ""
}

// ParseProvider parses a provider name, case-insensitively
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(name))); p {
	case ProviderGroq, ProviderOpenAI, ProviderGemini:
		return p, nil
	case "":
		return ProviderGroq, nil
	default:
		return "", fmt.Errorf("unknown LLM provider %q", name)
	}
}

// GetModel returns the configured model, falling back to the provider default
func (c *Config) GetModel() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel(c.Provider)
}

// WithModel returns a new Config with a specific model
func (c *Config) WithModel(model string) *Config {
	newConfig := *c
	newConfig.Model = model
	return &newConfig
}
