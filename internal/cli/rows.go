package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csvtok/internal/logging"
	"github.com/shapestone/shape-csvtok/pkg/csv"
)

// ErrTokenizeFailed is returned when at least one input failed to
// tokenize. The individual failures have already been logged.
var ErrTokenizeFailed = errors.New("tokenizing failed")

const (
	formatText = "text"
	formatYAML = "yaml"
)

type rowsOptions struct {
	dialect dialectFlags
	jobs    int
	format  string
}

func newRowsCommand(global *globalOptions) *cobra.Command {
	opts := &rowsOptions{}

	cmd := &cobra.Command{
		Use:   "rows [files...]",
		Short: "Tokenize CSV input and print its rows",
		Long: `Tokenize CSV files, or standard input when no file is given, and print
every row with the physical line it started on.

Files are tokenized concurrently, one independent session per file.`,
		Example: `  csvtok rows data.csv
  csvtok rows --header --delimiter ';' export.csv
  csvtok rows --sniff --format yaml *.csv
  cat data.tsv | csvtok rows --delimiter tab --quote none`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRows(cmd, global, opts, args)
		},
	}

	opts.dialect.register(cmd.Flags())
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "number of files tokenized in parallel (default: number of CPUs)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: text, yaml")

	return cmd
}

func runRows(cmd *cobra.Command, global *globalOptions, opts *rowsOptions, args []string) error {
	if opts.format != formatText && opts.format != formatYAML {
		return fmt.Errorf("unknown format %q (want %s or %s)", opts.format, formatText, formatYAML)
	}

	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	in := openInputs(global.fs, cmd.InOrStdin(), args)
	d, err := opts.dialect.resolve(cmd.Flags(), global.fs, in.sample)
	if err != nil {
		return err
	}
	logger.Debug("dialect resolved",
		"delimiter", string(d.Delimiter),
		"header", d.HeaderPresent,
		"skip_lines", d.SkipLines,
	)

	results, err := csv.TokenizeAll(ctx, in.sources, d, opts.jobs, csv.WithLogger(logger))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch opts.format {
	case formatYAML:
		err = writeYAML(out, results)
	default:
		err = writeText(out, results, newStyles(colorEnabled(global.color, out)))
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			logger.Error("tokenizing failed", logging.FieldPath, res.Name, logging.FieldError, res.Err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d inputs", ErrTokenizeFailed, failed, len(results))
	}
	return nil
}
