package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonathan/resumer/internal/observability"
	"github.com/jonathan/resumer/internal/parsing"
	"github.com/jonathan/resumer/internal/server"
	"github.com/spf13/cobra"
)

type normalizeOptions struct {
	file   string
	decode bool
}

func newNormalizeCmd() *cobra.Command {
	opts := &normalizeOptions{}

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize a captured model response",
		Long:  "Strip code fences and surrounding prose from a captured model response and print the JSON candidate. Use --file - to read stdin.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNormalize(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Path to the captured response, or - for stdin (required)")
	cmd.Flags().BoolVar(&opts.decode, "decode", false, "Also decode the result as a resume record and print it")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runNormalize(cmd *cobra.Command, opts *normalizeOptions) error {
	var (
		content []byte
		err     error
	)
	if opts.file == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		content, err = os.ReadFile(opts.file)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	normalized := parsing.NormalizeResponse(string(content))
	if !opts.decode {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), normalized)
		return err
	}

	record, err := parsing.ParseRecord(normalized)
	if err != nil {
		_, envelope := server.NormalizeError(err, time.Now())
		observability.NewPrinter(cmd.ErrOrStderr()).PrintErrorEnvelope(envelope)
		return fmt.Errorf("normalized response is not a resume record: %w", err)
	}
	return writeJSON(cmd, "", record.FullShape())
}
