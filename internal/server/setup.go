package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/resumer/internal/config"
	"github.com/jonathan/resumer/internal/parsing"
	"github.com/jonathan/resumer/internal/server/ratelimit"
)

// NewFromConfig assembles the pipeline, admission control and server described
// by cfg. The returned close function releases the completion client and the
// rate limit store.
func NewFromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Server, func() error, error) {
	parser, client, err := parsing.NewFromConfig(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := NewStore(ctx, cfg)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	limiter := ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:      cfg.RateLimit.Enabled,
		MaxRequests:  cfg.RateLimit.MaxRequests,
		Window:       cfg.RateLimit.Window,
		Whitelist:    cfg.RateLimit.Whitelist,
		Blacklist:    cfg.RateLimit.Blacklist,
		ExemptRoutes: ratelimit.DefaultExemptRoutes(),
	}, store)

	srv := New(Config{
		Addr:         cfg.Addr(),
		MaxBodyBytes: cfg.MaxBodyBytes,
	}, parser, limiter, opts...)

	closeFn := func() error {
		return errors.Join(limiter.Stop(), client.Close())
	}
	return srv, closeFn, nil
}

// NewStore creates the rate limit store selected by cfg.RateLimit.Backend.
func NewStore(ctx context.Context, cfg *config.Config) (ratelimit.Store, error) {
	if !cfg.RateLimit.Enabled {
		return ratelimit.NewMemoryStore(0), nil
	}

	switch cfg.RateLimit.Backend {
	case config.BackendRedis:
		store, err := ratelimit.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
		}
		return store, nil
	case config.BackendPostgres:
		store, err := ratelimit.NewPostgresStore(ctx, cfg.DatabaseURL,
			cfg.RateLimit.CleanupInterval, cfg.RateLimit.Window)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres rate limit store: %w", err)
		}
		return store, nil
	case config.BackendMemory, "":
		return ratelimit.NewMemoryStore(cfg.RateLimit.CleanupInterval), nil
	default:
		return nil, fmt.Errorf("unknown rate limit backend %q", cfg.RateLimit.Backend)
	}
}
