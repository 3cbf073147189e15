package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pixie79/data-modelling-sdk-sub000/pkg/exporter"
)

// ConvertOptions holds options for the convert command.
type ConvertOptions struct {
	To         string // Target format name
	OutputFile string // Destination path; stdout when empty
}

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	opts := &ConvertOptions{}
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a contract document to another format",
		Long: `Import a document in any supported dialect and write it back out
through a registered exporter. The converted document goes to stdout
unless --output-file is given.`,
		Example: `  # Legacy simple tabular form to ODCS
  dmsdk convert users.yaml --to odcs

  # ODCS to the legacy simple form, written to a file
  dmsdk convert orders.odcs.yaml --to simple -w users_simple.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "", "Target format (default: configured default_format)")
	cmd.Flags().StringVarP(&opts.OutputFile, "output-file", "w", "", "Write the converted document to a file instead of stdout")

	_ = cmd.RegisterFlagCompletionFunc("to", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return exporter.Names(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runConvert(cmd *cobra.Command, opts *ConvertOptions, path string) error {
	cmdCtx := NewCommandContext(cmd)

	target := opts.To
	if target == "" {
		target = cmdCtx.Cfg.DefaultFormat
	}

	tbl, _, err := loadTable(path, cmdCtx.Logger)
	if err != nil {
		return err
	}

	out, err := exporter.Export(tbl, target)
	if err != nil {
		return err
	}

	if opts.OutputFile != "" {
		if err := os.WriteFile(opts.OutputFile, out, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.OutputFile, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %d bytes)\n", opts.OutputFile, target, len(out))
		return nil
	}

	_, err = cmd.OutOrStdout().Write(out)
	return err
}
