package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/jonathan/resumer/internal/logger"
	"github.com/jonathan/resumer/internal/observability"
	"github.com/jonathan/resumer/internal/parsing"
	"github.com/jonathan/resumer/internal/server"
	"github.com/jonathan/resumer/internal/types"
	"github.com/spf13/cobra"
)

type parseOptions struct {
	file      string
	out       string
	isImage   bool
	verbose   bool
	fullShape bool
}

func newParseCmd() *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a resume text file into structured JSON",
		Long:  "Run the parsing pipeline once on a text file and print the ResumeRecord JSON, or the error envelope on failure.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runParse(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Path to the resume text file (required)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write the JSON result to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.isImage, "image", false, "Treat the text as OCR output from an image or PDF")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print a readable summary to stderr")
	cmd.Flags().BoolVar(&opts.fullShape, "full-shape", false, "Fill every absent field with an empty value instead of printing the model output as returned")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runParse(cmd *cobra.Command, opts *parseOptions) error {
	cfg := loadConfig()
	if err := cfg.ValidateLLM(); err != nil {
		return err
	}

	content, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx = logger.WithContext(ctx)

	parser, client, err := parsing.NewFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	printer := observability.NewPrinter(cmd.ErrOrStderr())

	record, err := parser.Parse(ctx, types.ParseRequest{RawText: string(content), IsImage: opts.isImage})
	if err != nil {
		_, envelope := server.NormalizeError(err, time.Now())
		if opts.verbose {
			printer.PrintErrorEnvelope(envelope)
		}
		if writeErr := writeJSON(cmd, opts.out, envelope); writeErr != nil {
			return writeErr
		}
		return fmt.Errorf("parse failed: %w", err)
	}

	if opts.verbose {
		printer.PrintResumeRecord(&record.ResumeRecord)
	}
	if opts.fullShape {
		return writeJSON(cmd, opts.out, record.FullShape())
	}
	return writeJSON(cmd, opts.out, record)
}

// writeJSON writes indented JSON to path, or to the command's stdout when path is empty.
func writeJSON(cmd *cobra.Command, path string, data any) error {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonBytes = append(jsonBytes, '\n')

	if path == "" {
		_, err = cmd.OutOrStdout().Write(jsonBytes)
		return err
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Output: %s\n", path)
	return nil
}
