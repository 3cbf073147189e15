package exporter

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pixie79/data-modelling-sdk-sub000/pkg/contract"
	"github.com/pixie79/data-modelling-sdk-sub000/pkg/importer"
)

func init() {
	Register("simple", WriterFunc(writeSimple))
}

type simpleDocument struct {
	Name             string                    `yaml:"name"`
	Description      string                    `yaml:"description,omitempty"`
	DatabaseType     string                    `yaml:"database_type,omitempty"`
	CatalogName      string                    `yaml:"catalog_name,omitempty"`
	SchemaName       string                    `yaml:"schema_name,omitempty"`
	MedallionLayers  []string                  `yaml:"medallion_layers,omitempty"`
	SCDPattern       string                    `yaml:"scd_pattern,omitempty"`
	DataVaultClass   string                    `yaml:"data_vault_classification,omitempty"`
	Tags             []string                  `yaml:"tags,omitempty"`
	CustomProperties []contract.CustomProperty `yaml:"custom_properties,omitempty"`
	Columns          []simpleColumn            `yaml:"columns"`
	Quality          []contract.QualityRule    `yaml:"quality,omitempty"`
	Metadata         map[string]any            `yaml:"odcl_metadata,omitempty"`
}

type simpleColumn struct {
	Name             string                 `yaml:"name"`
	DataType         string                 `yaml:"data_type,omitempty"`
	PhysicalType     string                 `yaml:"physical_type,omitempty"`
	BusinessName     string                 `yaml:"business_name,omitempty"`
	Description      string                 `yaml:"description,omitempty"`
	Nullable         *bool                  `yaml:"nullable,omitempty"`
	PrimaryKey       bool                   `yaml:"primary_key,omitempty"`
	Unique           bool                   `yaml:"unique,omitempty"`
	Partitioned      bool                   `yaml:"partitioned,omitempty"`
	Clustered        bool                   `yaml:"clustered,omitempty"`
	Classification   string                 `yaml:"classification,omitempty"`
	Enum             []string               `yaml:"enum,omitempty"`
	Quality          []contract.QualityRule `yaml:"quality,omitempty"`
	CustomProperties map[string]any         `yaml:"custom_properties,omitempty"`
	ForeignKey       *simpleForeignKey      `yaml:"foreign_key,omitempty"`
}

type simpleForeignKey struct {
	Table  string `yaml:"table"`
	Column string `yaml:"column,omitempty"`
}

// writeSimple renders t in the legacy simple tabular form. The dialect has
// no reference syntax, so only legacy foreign-key pointers survive; the
// table UUID rides in odcl_metadata so identity is stable across a
// round trip.
func writeSimple(t *contract.Table) ([]byte, error) {
	doc := simpleDocument{
		Name:             t.Name,
		Description:      t.Description,
		DatabaseType:     t.DatabaseType,
		CatalogName:      t.CatalogName,
		SchemaName:       t.SchemaName,
		SCDPattern:       string(t.SCDPattern),
		DataVaultClass:   string(t.DataVaultClass),
		Tags:             t.Tags,
		CustomProperties: t.CustomProperties,
		Quality:          t.Quality,
	}
	for _, l := range t.MedallionLayers {
		doc.MedallionLayers = append(doc.MedallionLayers, string(l))
	}

	doc.Metadata = map[string]any{"tableUuid": t.ID.String()}
	for k, v := range t.Metadata {
		doc.Metadata[k] = v
	}

	cols := t.Columns
	for i := 0; i < len(cols); i++ {
		col := cols[i]
		doc.Columns = append(doc.Columns, simpleColumnFrom(col))
		if importer.IsNestedTypeString(col.DataType) {
			prefix := col.Name + "."
			for i+1 < len(cols) && strings.HasPrefix(cols[i+1].Name, prefix) {
				i++
			}
		}
	}
	return yaml.Marshal(doc)
}

func simpleColumnFrom(col contract.Column) simpleColumn {
	out := simpleColumn{
		Name:             col.Name,
		DataType:         col.DataType,
		PhysicalType:     col.PhysicalType,
		BusinessName:     col.BusinessName,
		Description:      col.Description,
		PrimaryKey:       col.PrimaryKey,
		Unique:           col.Unique,
		Partitioned:      col.Partitioned,
		Clustered:        col.Clustered,
		Classification:   col.Classification,
		Enum:             col.EnumValues,
		Quality:          col.Quality,
		CustomProperties: col.CustomProperties,
	}
	if !col.Nullable {
		f := false
		out.Nullable = &f
	}
	if col.ForeignKey != nil {
		out.ForeignKey = &simpleForeignKey{
			Table:  col.ForeignKey.Table,
			Column: col.ForeignKey.Column,
		}
	}
	return out
}
