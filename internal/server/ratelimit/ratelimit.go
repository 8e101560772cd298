// Package ratelimit provides fixed-window admission control per client key.
package ratelimit

import (
	"context"
	"math"
	"time"
)

// Window is the counter state of one client key
type Window struct {
	Count int
	Start time.Time
}

// Store keeps per-key windows. Implementations must apply Hit atomically so
// concurrent requests for the same key never lose an increment.
type Store interface {
	// Hit records one request for key at now. When the stored window started
	// more than window before now (or none exists) a fresh window with count 1
	// starting at now replaces it; otherwise the count is incremented.
	Hit(ctx context.Context, key string, now time.Time, window time.Duration) (Window, error)
	// Close releases the store's resources
	Close() error
}

// Decision contains the outcome of one admission check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// RetryAfterSeconds returns RetryAfter rounded up to whole seconds.
func (d Decision) RetryAfterSeconds() int {
	if d.RetryAfter <= 0 {
		return 0
	}
	return int(math.Ceil(d.RetryAfter.Seconds()))
}

// Config holds admission control configuration.
type Config struct {
	Enabled      bool
	MaxRequests  int
	Window       time.Duration
	Whitelist    map[string]bool
	Blacklist    map[string]bool
	ExemptRoutes []Route
}

// DefaultConfig returns the original service limits: 100 requests per minute.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		MaxRequests:  100,
		Window:       time.Minute,
		Whitelist:    make(map[string]bool),
		Blacklist:    make(map[string]bool),
		ExemptRoutes: DefaultExemptRoutes(),
	}
}

// Limiter decides whether a client key may proceed.
type Limiter struct {
	store  Store
	config *Config
}

// NewLimiter creates a limiter backed by store. A nil config uses DefaultConfig
// and a nil store an in-memory store without background cleanup.
func NewLimiter(config *Config, store Store) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	if store == nil {
		store = NewMemoryStore(0)
	}
	return &Limiter{
		store:  store,
		config: config,
	}
}

// Exempt reports whether the route bypasses admission control.
func (l *Limiter) Exempt(method, path string) bool {
	return !l.config.Enabled || MatchRoute(path, method, l.config.ExemptRoutes)
}

// Admit counts one request for key at now and reports whether it may proceed.
// A request is denied once the key's count within the current window exceeds
// MaxRequests. When the store fails the request is admitted and the store
// error is returned alongside the allowing decision.
func (l *Limiter) Admit(ctx context.Context, key string, now time.Time) (Decision, error) {
	if !l.config.Enabled || l.config.Whitelist[key] {
		return Decision{Allowed: true}, nil
	}

	if l.config.Blacklist[key] {
		return Decision{
			Allowed:    false,
			Limit:      l.config.MaxRequests,
			ResetTime:  now.Add(l.config.Window),
			RetryAfter: l.config.Window,
		}, nil
	}

	window, err := l.store.Hit(ctx, key, now, l.config.Window)
	if err != nil {
		return Decision{Allowed: true, Limit: l.config.MaxRequests}, err
	}

	decision := Decision{
		Allowed:   window.Count <= l.config.MaxRequests,
		Limit:     l.config.MaxRequests,
		Remaining: max(0, l.config.MaxRequests-window.Count),
		ResetTime: window.Start.Add(l.config.Window),
	}
	if !decision.Allowed {
		decision.RetryAfter = max(0, l.config.Window-now.Sub(window.Start))
	}
	return decision, nil
}

// Stop releases the underlying store.
func (l *Limiter) Stop() error {
	return l.store.Close()
}
