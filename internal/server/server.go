// Package server provides the HTTP surface of the resume parsing service.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/jonathan/resumer/internal/server/ratelimit"
	"github.com/jonathan/resumer/internal/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ResumeParser runs the ingestion pipeline for one request
type ResumeParser interface {
	Parse(ctx context.Context, req types.ParseRequest) (*types.ParsedResume, error)
}

// Admitter decides whether a client key may proceed
type Admitter interface {
	Admit(ctx context.Context, key string, now time.Time) (ratelimit.Decision, error)
	Exempt(method, path string) bool
}

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	handler      http.Handler
	parser       ResumeParser
	limiter      Admitter
	maxBodyBytes int64
	logger       zerolog.Logger
	now          func() time.Time
}

// Config holds server configuration
type Config struct {
	Addr         string
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultMaxBodyBytes caps request bodies at 10 MB
const DefaultMaxBodyBytes = 10 << 20

// Option configures a Server
type Option func(*Server)

// WithLogger sets the base logger for request-scoped loggers
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithClock replaces the clock used for admission and envelope timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New creates a new server instance. A nil limiter disables admission control.
func New(cfg Config, parser ResumeParser, limiter Admitter, opts ...Option) *Server {
	s := &Server{
		parser:       parser,
		limiter:      limiter,
		maxBodyBytes: cfg.MaxBodyBytes,
		logger:       log.Logger,
		now:          time.Now,
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = DefaultMaxBodyBytes
	}
	for _, opt := range opts {
		opt(s)
	}

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/parsing/parse", s.handleParse)
	mux.HandleFunc("POST /parse", s.handleParse)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.handler = s.withLogging(s.withRecover(s.withCORS(s.withRateLimit(mux))))

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  durationOr(cfg.ReadTimeout, 30*time.Second),
		WriteTimeout: durationOr(cfg.WriteTimeout, 120*time.Second), // outlasts the completion deadline
		IdleTimeout:  durationOr(cfg.IdleTimeout, 60*time.Second),
	}

	return s
}

// Handler returns the full middleware chain, for serverless runtimes and tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe binds the configured address and serves until Shutdown.
// It returns nil after a graceful shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down server")
	return s.httpServer.Shutdown(ctx)
}

func durationOr(value, fallback time.Duration) time.Duration {
	if value > 0 {
		return value
	}
	return fallback
}
