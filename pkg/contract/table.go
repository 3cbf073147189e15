// Package contract defines the canonical table model that every importer
// produces and every exporter consumes. The model is dialect-neutral:
// whichever source format a document arrived in, downstream code only ever
// sees a Table.
package contract

import (
	"slices"

	"github.com/google/uuid"
)

// Table is the canonical representation of one table parsed from a data
// contract document. A Table is built once per parse call and is not
// mutated afterwards; the caller owns it.
type Table struct {
	// ID uniquely identifies the table across documents.
	ID uuid.UUID
	// IDDerived is true when no explicit identity was found and ID was
	// derived from the table name. Cross-document relationships
	// referencing a derived identity may be orphaned; callers surface
	// this as a warning.
	IDDerived bool
	// Name is the table name as declared by the source document.
	Name string
	// Description is a human-readable description of the table.
	Description string
	// DatabaseType is the source database technology (e.g. "postgres", "databricks").
	DatabaseType string
	// CatalogName is the physical catalog holding the table, when known.
	CatalogName string
	// SchemaName is the physical schema holding the table, when known.
	SchemaName string
	// Domain is the business domain that owns the table.
	Domain string
	// DataProduct is the data product the table belongs to.
	DataProduct string
	// MedallionLayers are the warehouse layers the table participates in.
	MedallionLayers []MedallionLayer
	// SCDPattern is the slowly-changing-dimension pattern, if modelled.
	SCDPattern SCDPattern
	// DataVaultClass is the Data Vault classification, if modelled.
	// Mutually exclusive with SCDPattern.
	DataVaultClass DataVaultClass
	// Tags are ordered, de-duplicated metadata labels.
	Tags []string
	// Columns are the table's columns in declaration order. Flattened
	// nested fields carry dot paths ("parent.child", "items.[].id").
	Columns []Column
	// Quality holds table-scope quality rules in declaration order.
	Quality []QualityRule
	// CustomProperties holds contract-scope entries followed by this
	// table's schema-scope entries, in declaration order.
	CustomProperties []CustomProperty
	// Metadata preserves source fields not promoted to first-class attributes.
	Metadata map[string]any
	// Errors are soft diagnostics accumulated while parsing. A non-empty
	// list still describes a usable table.
	Errors []ParserError
}

// Column is one column of a Table. Flattened nested fields appear as
// ordinary columns whose Name encodes the path.
type Column struct {
	// Name is the column name. Nested fields use dot paths and the
	// ".[]." marker for array elements (e.g. "addr.city", "items.[].sku").
	Name string
	// BusinessName is the business-facing name, when declared.
	BusinessName string
	// Description is a human-readable description of the column.
	Description string
	// DataType is the canonical logical type. Scalars are uppercased;
	// container types keep their bracketed inner text verbatim.
	DataType string
	// PhysicalType is the source-system concrete type (e.g. "VARCHAR(100)").
	PhysicalType string
	// Nullable is false only when the source marks the column required.
	Nullable bool
	// Unique marks a uniqueness constraint.
	Unique bool
	// PrimaryKey marks primary-key membership.
	PrimaryKey bool
	// PrimaryKeyPosition is the 1-based key position; 0 when unset.
	PrimaryKeyPosition int
	// Partitioned marks partition-key membership.
	Partitioned bool
	// PartitionKeyPosition is the 1-based partition position; 0 when unset.
	PartitionKeyPosition int
	// Clustered marks cluster-key membership.
	Clustered bool
	// ClusterKeyPosition is the 1-based cluster position; 0 when unset.
	ClusterKeyPosition int
	// Classification is the data-sensitivity label, when declared.
	Classification string
	// CriticalDataElement marks the column as a critical data element.
	CriticalDataElement bool
	// EnumValues are the permitted values, in declaration order.
	EnumValues []string
	// Examples are sample values carried through from the source.
	Examples []any
	// Tags are ordered, de-duplicated metadata labels.
	Tags []string
	// Relationships are edges to other tables or to local definitions.
	Relationships []Relationship
	// ForeignKey is the legacy single table/column pointer.
	ForeignKey *ForeignKey
	// Quality holds column-scope quality rules in declaration order.
	Quality []QualityRule
	// CustomProperties merges column-scope entries; last write wins.
	CustomProperties map[string]any
	// Errors are soft diagnostics scoped to this column.
	Errors []ParserError
}

// Relationship is an edge from a column to another table or to a reusable
// definition in the same document.
type Relationship struct {
	// Type is the edge kind; currently always RelationshipForeignKey.
	Type RelationshipType
	// To is the target path, e.g. "definitions/order_id" or "orders.order_id".
	To string
}

// ForeignKey is the legacy table/column pointer used by the simple tabular
// dialect.
type ForeignKey struct {
	Table  string
	Column string
}

// QualityRule is one structured data-quality assertion. Rules are carried
// through as-is; the engine never interprets them.
type QualityRule map[string]any

// CustomProperty is one {property, value} escape-hatch metadata entry.
// Order of declaration is preserved.
type CustomProperty struct {
	Property string `yaml:"property"`
	Value    any    `yaml:"value"`
}

// AddTags appends tags in order, dropping empties and duplicates.
func (t *Table) AddTags(tags ...string) {
	for _, tag := range tags {
		if tag == "" || slices.Contains(t.Tags, tag) {
			continue
		}
		t.Tags = append(t.Tags, tag)
	}
}

// Column returns the first column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// Validate checks cross-field invariants and returns diagnostics for any
// violations. Violations never make the table unusable.
func (t *Table) Validate() []ParserError {
	var errs []ParserError
	if t.SCDPattern != "" && t.DataVaultClass != "" {
		errs = append(errs, ParserError{
			Type:    ErrorValidation,
			Field:   "scd_pattern",
			Message: "scd_pattern and data_vault_classification are mutually exclusive; both are set",
		})
	}
	if t.Name == "" {
		errs = append(errs, ParserError{
			Type:    ErrorValidation,
			Field:   "name",
			Message: "table has no name",
		})
	}
	return errs
}

// AllErrors returns table-level diagnostics followed by every column's
// embedded diagnostics, in column order.
func (t *Table) AllErrors() []ParserError {
	out := slices.Clone(t.Errors)
	for i := range t.Columns {
		out = append(out, t.Columns[i].Errors...)
	}
	return out
}

// SetCustomProperty records a column-scope custom property. Writing a key
// twice keeps the later value.
func (c *Column) SetCustomProperty(key string, value any) {
	if key == "" {
		return
	}
	if c.CustomProperties == nil {
		c.CustomProperties = make(map[string]any)
	}
	c.CustomProperties[key] = value
}

// AddTags appends tags in order, dropping empties and duplicates.
func (c *Column) AddTags(tags ...string) {
	for _, tag := range tags {
		if tag == "" || slices.Contains(c.Tags, tag) {
			continue
		}
		c.Tags = append(c.Tags, tag)
	}
}
