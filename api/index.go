// Package handler exposes the service to serverless platforms that invoke a
// single http.HandlerFunc per request.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/jonathan/resumer/internal/config"
	"github.com/jonathan/resumer/internal/logger"
	"github.com/jonathan/resumer/internal/server"
)

var (
	mu      sync.Mutex
	handler http.Handler

	buildHandler = build
)

// Handler serves one request. The server is assembled on first use and reused
// while the runtime keeps the instance warm; no socket is ever bound here.
// A failed assembly is retried by the next request.
func Handler(w http.ResponseWriter, r *http.Request) {
	h, err := current(r.Context())
	if err != nil {
		writeInitError(w, err)
		return
	}
	h.ServeHTTP(w, r)
}

// current returns the assembled handler, building it if no earlier attempt
// succeeded. Only success is cached.
func current(ctx context.Context) (http.Handler, error) {
	mu.Lock()
	defer mu.Unlock()

	if handler != nil {
		return handler, nil
	}
	h, err := buildHandler(ctx)
	if err != nil {
		return nil, err
	}
	handler = h
	return h, nil
}

func build(ctx context.Context) (http.Handler, error) {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("invalid configuration")
		return nil, err
	}

	// Store connections outlive the triggering request
	srv, _, err := server.NewFromConfig(context.WithoutCancel(ctx), cfg, server.WithLogger(logger.Logger))
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize server")
		return nil, err
	}
	return srv.Handler(), nil
}

func writeInitError(w http.ResponseWriter, err error) {
	status, envelope := server.NormalizeError(err, time.Now())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope)
}
