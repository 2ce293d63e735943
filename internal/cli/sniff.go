package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csvtok/pkg/csv"
)

func newSniffCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sniff [file]",
		Short: "Detect the dialect of CSV input",
		Long: `Detect the delimiter, header row and comment marker of a CSV file, or of
standard input when no file is given, and print the dialect as YAML.

The output can be saved and passed back with "csvtok rows --dialect".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := openInputs(global.fs, cmd.InOrStdin(), args)
			sample, err := in.sample()
			if err != nil {
				return err
			}
			if err := csv.WriteDialect(cmd.OutOrStdout(), csv.Sniff(sample)); err != nil {
				return fmt.Errorf("failed to write dialect: %w", err)
			}
			return nil
		},
	}
}
