// Package main provides the entry point for the ResumeR parsing service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/resumer/internal/config"
	"github.com/jonathan/resumer/internal/logger"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "resumer",
		Short:         "ResumeR resume parsing service",
		Long:          "ResumeR converts raw or OCR-extracted resume text into structured JSON using an LLM completion service.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCmd(), newParseCmd(), newNormalizeCmd())
	return rootCmd
}

// loadConfig reads the environment and installs the global logger.
func loadConfig() *config.Config {
	cfg := config.Load()
	logger.Init(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	return cfg
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
