package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentImports caps the parse workers for a batch import.
const maxConcurrentImports = 8

// importResult is the per-file outcome of an import run.
type importResult struct {
	File        string             `json:"file"`
	Format      string             `json:"format,omitempty"`
	Name        string             `json:"name,omitempty"`
	ID          string             `json:"id,omitempty"`
	IDDerived   bool               `json:"id_derived,omitempty"`
	Columns     int                `json:"columns"`
	Diagnostics []importDiagnostic `json:"diagnostics,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// importDiagnostic is the JSON shape of one soft diagnostic.
type importDiagnostic struct {
	Type    string `json:"type"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import contract documents into the canonical model",
		Long: `Parse one or more data contract documents and report what each one
contains. The source dialect is detected automatically and files parse
concurrently.

A file that fails to parse is reported and does not stop the others;
the command exits nonzero if any file failed.`,
		Example: `  # Import a single contract
  dmsdk import orders.yaml

  # Import a batch as JSON
  dmsdk import contracts/*.yaml -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args)
		},
	}
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)

	results := importFiles(cmd.Context(), cmdCtx, args)

	if cmdCtx.Cfg.Output == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		renderImportResults(cmd, results)
	}

	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(results))
	}
	return nil
}

// importFiles parses every file concurrently and returns results in
// argument order.
func importFiles(ctx context.Context, cmdCtx *CommandContext, paths []string) []importResult {
	results := make([]importResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentImports)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = importResult{File: path, Error: err.Error()}
				return nil
			}
			results[i] = importOne(path, cmdCtx)
			return nil
		})
	}
	// Workers never return errors; per-file failures land in results.
	_ = g.Wait()

	return results
}

func importOne(path string, cmdCtx *CommandContext) importResult {
	res := importResult{File: path}

	tbl, format, err := loadTable(path, cmdCtx.Logger)
	res.Format = string(format)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Name = tbl.Name
	res.ID = tbl.ID.String()
	res.IDDerived = tbl.IDDerived
	res.Columns = len(tbl.Columns)
	for _, d := range tbl.AllErrors() {
		res.Diagnostics = append(res.Diagnostics, importDiagnostic{
			Type:    string(d.Type),
			Field:   d.Field,
			Message: d.Message,
		})
	}
	return res
}

// renderImportResults prints one summary line per file, with diagnostics
// indented beneath it.
func renderImportResults(cmd *cobra.Command, results []importResult) {
	w := cmd.OutOrStdout()

	imported := 0
	for _, res := range results {
		if res.Error != "" {
			fmt.Fprintf(w, "FAIL %s: %s\n", res.File, res.Error)
			continue
		}
		imported++

		fmt.Fprintf(w, "ok   %s: table %q [%s] %d columns", res.File, res.Name, res.Format, res.Columns)
		if res.IDDerived {
			fmt.Fprint(w, " (derived id)")
		}
		fmt.Fprintln(w)

		for _, d := range res.Diagnostics {
			if d.Field != "" {
				fmt.Fprintf(w, "       %s: %s: %s\n", d.Type, d.Field, d.Message)
			} else {
				fmt.Fprintf(w, "       %s: %s\n", d.Type, d.Message)
			}
		}
	}

	fmt.Fprintf(w, "\nImported %d of %d files\n", imported, len(results))
}
