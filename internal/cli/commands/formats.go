package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pixie79/data-modelling-sdk-sub000/pkg/exporter"
	"github.com/pixie79/data-modelling-sdk-sub000/pkg/importer"
)

// NewFormatsCommand creates the formats command.
func NewFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported dialects and export formats",
		Long: `List the source dialects the importer detects and the export formats
registered with the writer registry. Import dialects are shown in
detection priority order.`,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()

			fmt.Fprintln(w, "Import dialects (detected automatically, in priority order):")
			for _, format := range importer.Formats() {
				fmt.Fprintf(w, "  %s\n", format)
			}

			fmt.Fprintln(w)
			fmt.Fprintln(w, "Export formats:")
			for _, name := range exporter.Names() {
				fmt.Fprintf(w, "  %s\n", name)
			}
		},
	}
}
