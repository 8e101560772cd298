// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/resumer/internal/llm"
)

// Mode selects whether the process binds a listening socket
type Mode string

const (
	// ModeServer listens on Port
	ModeServer Mode = "server"
	// ModeServerless only exposes the request handler to a platform runtime
	ModeServerless Mode = "serverless"
)

// Rate limit backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Defaults
const (
	DefaultPort         = 3001
	DefaultMaxBodyBytes = 10 << 20
	DefaultLLMTimeout   = 60 * time.Second
	DefaultWindow       = time.Minute
	DefaultMaxRequests  = 100
	DefaultCleanup      = 5 * time.Minute
)

// Config represents the full service configuration.
type Config struct {
	Port         int
	Mode         Mode
	MaxBodyBytes int64

	LLM       LLMConfig
	RateLimit RateLimitConfig
	Log       LogConfig

	RedisURL    string // Redis connection URL for the redis backend
	DatabaseURL string // PostgreSQL connection URL for the postgres backend
}

// LLMConfig configures the completion service
type LLMConfig struct {
	Provider string
	APIKey   string
	Model    string // empty uses the provider default
	BaseURL  string // empty uses the provider default
	Timeout  time.Duration
}

// RateLimitConfig configures admission control
type RateLimitConfig struct {
	Enabled         bool
	Window          time.Duration
	MaxRequests     int
	Backend         string
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
}

// LogConfig configures the global logger
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables. Absent or unparsable
// values fall back to defaults; call Validate before use.
func Load() *Config {
	provider := strings.ToLower(getEnvString("LLM_PROVIDER", string(llm.ProviderGroq)))

	return &Config{
		Port:         getEnvInt("PORT", DefaultPort),
		Mode:         loadMode(),
		MaxBodyBytes: getEnvInt64("MAX_BODY_BYTES", DefaultMaxBodyBytes),
		LLM: LLMConfig{
			Provider: provider,
			APIKey:   loadAPIKey(provider),
			Model:    getEnvString("LLM_MODEL", ""),
			BaseURL:  getEnvString("LLM_BASE_URL", ""),
			Timeout:  getEnvDuration("LLM_TIMEOUT", DefaultLLMTimeout),
		},
		RateLimit: RateLimitConfig{
			Enabled:         getEnvBool("RATE_LIMIT_ENABLED", true),
			Window:          getEnvDuration("RATE_LIMIT_WINDOW", DefaultWindow),
			MaxRequests:     getEnvInt("RATE_LIMIT_MAX_REQUESTS", DefaultMaxRequests),
			Backend:         strings.ToLower(getEnvString("RATE_LIMIT_BACKEND", BackendMemory)),
			CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", DefaultCleanup),
			Whitelist:       parseList(getEnvString("RATE_LIMIT_WHITELIST", "")),
			Blacklist:       parseList(getEnvString("RATE_LIMIT_BLACKLIST", "")),
		},
		Log: LogConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "json"),
		},
		RedisURL:    getEnvString("REDIS_URL", ""),
		DatabaseURL: getEnvString("DATABASE_URL", ""),
	}
}

// loadMode resolves RESUMER_MODE, deriving it from the hosting platform when unset.
func loadMode() Mode {
	if mode := getEnvString("RESUMER_MODE", ""); mode != "" {
		return Mode(strings.ToLower(mode))
	}

	production := firstEnv("NODE_ENV", "APP_ENV") == "production"
	if production && getEnvString("VERCEL", "") != "" {
		return ModeServerless
	}
	return ModeServer
}

// loadAPIKey prefers LLM_API_KEY, then the provider's own variable.
func loadAPIKey(provider string) string {
	switch llm.Provider(provider) {
	case llm.ProviderOpenAI:
		return firstEnv("LLM_API_KEY", "OPENAI_API_KEY")
	case llm.ProviderGemini:
		return firstEnv("LLM_API_KEY", "GEMINI_API_KEY")
	default:
		return firstEnv("LLM_API_KEY", "GROQ_API_KEY")
	}
}

// Validate checks the settings needed to serve requests.
func (c *Config) Validate() error {
	if err := c.ValidateLLM(); err != nil {
		return err
	}

	switch c.Mode {
	case ModeServer, ModeServerless:
	default:
		return fmt.Errorf("config error: unknown mode %q", c.Mode)
	}

	if c.Mode == ModeServer && (c.Port <= 0 || c.Port > 65535) {
		return fmt.Errorf("config error: 'PORT' must be between 1 and 65535")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("config error: 'MAX_BODY_BYTES' must be positive")
	}

	if !c.RateLimit.Enabled {
		return nil
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("config error: 'RATE_LIMIT_WINDOW' must be positive")
	}
	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("config error: 'RATE_LIMIT_MAX_REQUESTS' must be positive")
	}

	switch c.RateLimit.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config error: 'REDIS_URL' is required for the redis rate limit backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'DATABASE_URL' is required for the postgres rate limit backend")
		}
	default:
		return fmt.Errorf("config error: unknown rate limit backend %q", c.RateLimit.Backend)
	}

	return nil
}

// ValidateLLM checks only the completion settings, for one-shot CLI runs.
func (c *Config) ValidateLLM() error {
	if _, err := llm.ParseProvider(c.LLM.Provider); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("config error: completion API key is required (set LLM_API_KEY or GROQ_API_KEY)")
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("config error: 'LLM_TIMEOUT' must not be negative")
	}
	return nil
}

// ListenEnabled reports whether the process should bind a listening socket.
func (c *Config) ListenEnabled() bool {
	return c.Mode == ModeServer
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LLMClientConfig converts the completion settings into an llm.Config.
func (c *Config) LLMClientConfig() (*llm.Config, error) {
	provider, err := llm.ParseProvider(c.LLM.Provider)
	if err != nil {
		return nil, err
	}

	cfg := llm.DefaultConfigFor(provider)
	if c.LLM.Model != "" {
		cfg = cfg.WithModel(c.LLM.Model)
	}
	if c.LLM.BaseURL != "" {
		cfg.BaseURL = c.LLM.BaseURL
	}
	return cfg, nil
}
