package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/resumer/internal/logger"
	"github.com/jonathan/resumer/internal/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

// errServerless is returned when serve is invoked in serverless mode
var errServerless = errors.New("serverless mode: the platform invokes api.Handler; refusing to bind a socket")

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long:  `Start an HTTP server exposing POST /api/parsing/parse and GET /api/health.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if !cfg.ListenEnabled() {
				return errServerless
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = logger.WithContext(ctx)
			return runServe(ctx, cfg.Addr(), func(ctx context.Context) (*server.Server, func() error, error) {
				return server.NewFromConfig(ctx, cfg, server.WithLogger(logger.Logger))
			})
		},
	}

	cmd.Flags().IntVar(&port, "port", 3001, "Port to listen on (overrides PORT)")
	return cmd
}

type serverFactory func(ctx context.Context) (*server.Server, func() error, error)

// runServe serves until ctx is canceled or the listener fails, then shuts down gracefully.
func runServe(ctx context.Context, addr string, build serverFactory) error {
	log := logger.Ctx(ctx)
	srv, closeFn, err := build(ctx)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer func() {
		if err := closeFn(); err != nil {
			log.Warn().Err(err).Msg("failed to release server resources")
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		log.Info().Msg("server stopped")
		return nil
	})

	return g.Wait()
}
