package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Strict bool // Fail on soft diagnostics, not just hard errors
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check contract documents and report diagnostics",
		Long: `Parse each document and list every diagnostic found.

Documents that cannot be parsed at all always fail the run. Soft
diagnostics (a bad field inside an otherwise usable document) are
reported but only fail the run with --strict.`,
		Example: `  # Report diagnostics without failing on them
  dmsdk validate orders.yaml customers.yaml

  # Gate a CI pipeline on clean contracts
  dmsdk validate contracts/*.yaml --strict`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Treat soft diagnostics as failures")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	strict := opts.Strict || cmdCtx.Cfg.Strict

	w := cmd.OutOrStdout()
	var hardFailures, softTotal int

	for _, path := range args {
		tbl, _, err := loadTable(path, cmdCtx.Logger)
		if err != nil {
			hardFailures++
			fmt.Fprintf(w, "error: %v\n", err)
			continue
		}

		diags := tbl.AllErrors()
		softTotal += len(diags)
		if len(diags) == 0 {
			fmt.Fprintf(w, "%s: ok\n", path)
			continue
		}

		fmt.Fprintf(w, "%s: %d diagnostics\n", path, len(diags))
		for _, d := range diags {
			field := d.Field
			if field == "" {
				field = "-"
			}
			fmt.Fprintf(w, "  %-15s %-24s %s\n", d.Type, field, d.Message)
		}
	}

	fmt.Fprintf(w, "\nChecked %d documents: %d failed, %d diagnostics\n",
		len(args), hardFailures, softTotal)

	if hardFailures > 0 {
		return fmt.Errorf("%d of %d documents failed to parse", hardFailures, len(args))
	}
	if strict && softTotal > 0 {
		return fmt.Errorf("%d diagnostics found (strict mode)", softTotal)
	}
	return nil
}
