// Package cli provides the Cobra command structure for csvtok.
package cli

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csvtok/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	debug bool
	quiet bool
	color string
	fs    afero.Fs
}

// NewRootCommand creates the root csvtok command with all subcommands,
// reading files from the operating system.
func NewRootCommand(info BuildInfo) *cobra.Command {
	return newRootCommand(info, afero.NewOsFs())
}

func newRootCommand(info BuildInfo, fs afero.Fs) *cobra.Command {
	opts := &globalOptions{fs: fs}

	rootCmd := &cobra.Command{
		Use:   "csvtok",
		Short: "A streaming, dialect-aware CSV tokenizer",
		Long: `csvtok splits CSV input into rows and cells.

Every aspect of the format is configurable: delimiter, quote, escape and
comment characters, blank line handling, whitespace trimming, header rows and
leading lines to skip. Dialects can be given as flags, loaded from a YAML
file, or sniffed from the input itself.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if opts.debug {
				level = "debug"
				logging.SetLevel(level)
			}
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)
			if opts.quiet {
				logger = logging.Discard()
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress log output")
	rootCmd.PersistentFlags().StringVar(&opts.color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newRowsCommand(opts))
	rootCmd.AddCommand(newSniffCommand(opts))
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}
