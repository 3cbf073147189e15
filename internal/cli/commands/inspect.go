package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pixie79/data-modelling-sdk-sub000/pkg/contract"
	"github.com/pixie79/data-modelling-sdk-sub000/pkg/importer"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show a contract document's table structure",
		Long: `Import one contract document and display the canonical table it
produces: identity, physical location, modelling attributes, and every
column with its type and key markers.`,
		Example: `  # Inspect a contract
  dmsdk inspect orders.yaml

  # Machine-readable structure
  dmsdk inspect orders.yaml -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0])
		},
	}
	return cmd
}

func runInspect(cmd *cobra.Command, path string) error {
	cmdCtx := NewCommandContext(cmd)

	tbl, format, err := loadTable(path, cmdCtx.Logger)
	if err != nil {
		return err
	}

	if cmdCtx.Cfg.Output == "json" {
		return inspectJSON(cmd.OutOrStdout(), path, format, tbl)
	}

	inspectText(cmd.OutOrStdout(), format, tbl)
	return nil
}

// inspectText renders the table header block followed by a column grid.
func inspectText(w io.Writer, format importer.Format, tbl *contract.Table) {
	fmt.Fprintf(w, "Table:  %s\n", tbl.Name)
	fmt.Fprintf(w, "ID:     %s", tbl.ID)
	if tbl.IDDerived {
		fmt.Fprint(w, " (derived from name)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Source: %s\n", format)

	if tbl.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", tbl.Description)
	}
	if loc := physicalLocation(tbl); loc != "" {
		fmt.Fprintf(w, "Location: %s\n", loc)
	}
	if tbl.Domain != "" {
		fmt.Fprintf(w, "Domain: %s\n", tbl.Domain)
	}
	if tbl.DataProduct != "" {
		fmt.Fprintf(w, "Data Product: %s\n", tbl.DataProduct)
	}

	titleCaser := cases.Title(language.English)
	if len(tbl.MedallionLayers) > 0 {
		labels := make([]string, len(tbl.MedallionLayers))
		for i, layer := range tbl.MedallionLayers {
			labels[i] = titleCaser.String(string(layer))
		}
		fmt.Fprintf(w, "Medallion: %s\n", strings.Join(labels, ", "))
	}
	if tbl.SCDPattern != "" {
		fmt.Fprintf(w, "SCD Pattern: %s\n", strings.ToUpper(string(tbl.SCDPattern)))
	}
	if tbl.DataVaultClass != "" {
		fmt.Fprintf(w, "Data Vault: %s\n", titleCaser.String(string(tbl.DataVaultClass)))
	}
	if len(tbl.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(tbl.Tags, ", "))
	}
	fmt.Fprintln(w)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Type", "Nullable", "Key", "Description"})
	for _, col := range tbl.Columns {
		t.AppendRow(table.Row{col.Name, col.DataType, yesNo(col.Nullable), columnKeys(&col), col.Description})
	}
	t.Render()
	fmt.Fprintf(w, "(%d columns)\n", len(tbl.Columns))

	if diags := tbl.AllErrors(); len(diags) > 0 {
		fmt.Fprintf(w, "\nDiagnostics (%d):\n", len(diags))
		for _, d := range diags {
			fmt.Fprintf(w, "  %s\n", d.Error())
		}
	}
}

// physicalLocation joins database type, catalog, and schema into one label.
func physicalLocation(tbl *contract.Table) string {
	parts := make([]string, 0, 3)
	if tbl.DatabaseType != "" {
		parts = append(parts, tbl.DatabaseType)
	}
	if tbl.CatalogName != "" {
		parts = append(parts, tbl.CatalogName)
	}
	if tbl.SchemaName != "" {
		parts = append(parts, tbl.SchemaName)
	}
	return strings.Join(parts, ".")
}

// columnKeys renders the key membership markers for a column.
func columnKeys(col *contract.Column) string {
	var keys []string
	if col.PrimaryKey {
		keys = append(keys, "PK")
	}
	if col.ForeignKey != nil || len(col.Relationships) > 0 {
		keys = append(keys, "FK")
	}
	if col.Unique {
		keys = append(keys, "UQ")
	}
	return strings.Join(keys, ",")
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

// inspectOutput is the JSON shape of an inspected document.
type inspectOutput struct {
	File        string          `json:"file"`
	Format      string          `json:"format"`
	Name        string          `json:"name"`
	ID          string          `json:"id"`
	IDDerived   bool            `json:"id_derived,omitempty"`
	Description string          `json:"description,omitempty"`
	Database    string          `json:"database_type,omitempty"`
	Catalog     string          `json:"catalog_name,omitempty"`
	Schema      string          `json:"schema_name,omitempty"`
	Medallion   []string        `json:"medallion_layers,omitempty"`
	SCDPattern  string          `json:"scd_pattern,omitempty"`
	DataVault   string          `json:"data_vault_classification,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Columns     []inspectColumn `json:"columns"`
	Diagnostics int             `json:"diagnostics"`
}

// inspectColumn is one column row in JSON output.
type inspectColumn struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Nullable    bool   `json:"nullable"`
	Key         string `json:"key,omitempty"`
	Description string `json:"description,omitempty"`
}

func inspectJSON(w io.Writer, path string, format importer.Format, tbl *contract.Table) error {
	out := inspectOutput{
		File:        path,
		Format:      string(format),
		Name:        tbl.Name,
		ID:          tbl.ID.String(),
		IDDerived:   tbl.IDDerived,
		Description: tbl.Description,
		Database:    tbl.DatabaseType,
		Catalog:     tbl.CatalogName,
		Schema:      tbl.SchemaName,
		SCDPattern:  string(tbl.SCDPattern),
		DataVault:   string(tbl.DataVaultClass),
		Tags:        tbl.Tags,
		Columns:     make([]inspectColumn, 0, len(tbl.Columns)),
		Diagnostics: len(tbl.AllErrors()),
	}
	for _, layer := range tbl.MedallionLayers {
		out.Medallion = append(out.Medallion, string(layer))
	}
	for i := range tbl.Columns {
		col := &tbl.Columns[i]
		out.Columns = append(out.Columns, inspectColumn{
			Name:        col.Name,
			Type:        col.DataType,
			Nullable:    col.Nullable,
			Key:         columnKeys(col),
			Description: col.Description,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
