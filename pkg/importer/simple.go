package importer

import (
	"fmt"

	"github.com/pixie79/data-modelling-sdk-sub000/pkg/contract"
)

// simpleColumn is the shape of one entry in the legacy simple tabular
// columns list.
type simpleColumn struct {
	Name             string            `mapstructure:"name"`
	DataType         string            `mapstructure:"data_type"`
	Type             string            `mapstructure:"type"`
	PhysicalType     string            `mapstructure:"physical_type"`
	BusinessName     string            `mapstructure:"business_name"`
	Description      string            `mapstructure:"description"`
	Nullable         *bool             `mapstructure:"nullable"`
	PrimaryKey       bool              `mapstructure:"primary_key"`
	Unique           bool              `mapstructure:"unique"`
	Partitioned      bool              `mapstructure:"partitioned"`
	Clustered        bool              `mapstructure:"clustered"`
	Classification   string            `mapstructure:"classification"`
	ForeignKey       *simpleForeignKey `mapstructure:"foreign_key"`
	Constraints      any               `mapstructure:"constraints"`
	Quality          any               `mapstructure:"quality"`
	Enum             any               `mapstructure:"enum"`
	EnumValues       any               `mapstructure:"enum_values"`
	CustomProperties map[string]any    `mapstructure:"custom_properties"`
}

type simpleForeignKey struct {
	Table  string `mapstructure:"table"`
	Column string `mapstructure:"column"`
}

// parseSimple parses the legacy simple tabular form, the detector's
// fallback. name and columns are the dialect's required shape; a document
// missing them matched no dialect at all, which is a hard failure.
func parseSimple(root map[string]any) (*contract.Table, []contract.ParserError, error) {
	name := stringField(root, "name")
	colsRaw, hasCols := asSlice(root["columns"])
	if name == "" || !hasCols {
		return nil, nil, &FormatError{
			Format:  FormatSimpleTabular,
			Message: "name and columns are required",
		}
	}
	var diags []contract.ParserError

	t := &contract.Table{Name: name}
	t.Description = stringField(root, "description")
	t.DatabaseType = stringField(root, "database_type")
	t.SchemaName = stringField(root, "schema_name")
	t.CatalogName = stringField(root, "catalog_name")
	t.AddTags(stringsOf(root["tags"])...)

	for _, v := range stringsOf(firstPresent(root, "medallion_layers", "medallion_layer")) {
		layer, ok := contract.ParseMedallionLayer(v)
		if !ok {
			diags = append(diags, invalidEnumDiag("medallion_layer", v, "medallion layer"))
			continue
		}
		addMedallionLayer(t, layer)
	}
	if v := stringField(root, "scd_pattern"); v != "" {
		pattern, ok := contract.ParseSCDPattern(v)
		if !ok {
			diags = append(diags, invalidEnumDiag("scd_pattern", v, "SCD pattern"))
		} else {
			t.SCDPattern = pattern
		}
	}
	if v := stringField(root, "data_vault_classification"); v != "" {
		class, ok := contract.ParseDataVaultClass(v)
		if !ok {
			diags = append(diags, invalidEnumDiag("data_vault_classification", v, "Data Vault classification"))
		} else {
			t.DataVaultClass = class
		}
	}

	props, propDiags := parseCustomProperties(root["custom_properties"], "custom_properties")
	diags = append(diags, propDiags...)
	rest, promoDiags := promoteTableProperties(t, props)
	t.CustomProperties = rest
	diags = append(diags, promoDiags...)

	for i, raw := range colsRaw {
		cols, colDiags, ok := parseSimpleColumn(i, raw)
		diags = append(diags, colDiags...)
		if ok {
			t.Columns = append(t.Columns, cols...)
		}
	}

	metadata, _ := asMap(root["odcl_metadata"])
	t.Quality = tableQuality(root["quality"], metadata)
	stashMetadataRest(t, metadata)

	t.ID, t.IDDerived = resolveTableID(root, metadata, name)
	return t, diags, nil
}

// parseSimpleColumn decodes one column entry. The data_type may carry the
// inline STRUCT / ARRAY<STRUCT> grammar, in which case the entry expands
// into a parent summary column plus flattened children.
func parseSimpleColumn(i int, raw any) ([]contract.Column, []contract.ParserError, bool) {
	field := fmt.Sprintf("columns[%d]", i)
	entry, ok := asMap(raw)
	if !ok {
		return nil, []contract.ParserError{{
			Type:    contract.ErrorInvalidField,
			Field:   field,
			Message: "column entry must be a mapping",
		}}, false
	}
	var doc simpleColumn
	if err := decodeLoose(entry, &doc); err != nil {
		return nil, []contract.ParserError{{
			Type:    contract.ErrorInvalidField,
			Field:   field,
			Message: fmt.Sprintf("cannot decode column entry: %v", err),
		}}, false
	}
	if doc.Name == "" {
		return nil, []contract.ParserError{{
			Type:    contract.ErrorMissingField,
			Field:   field,
			Message: "column has no name",
		}}, false
	}

	rawType := doc.DataType
	if rawType == "" {
		rawType = doc.Type
	}

	col := contract.Column{
		Name:           doc.Name,
		DataType:       NormalizeType(rawType),
		PhysicalType:   doc.PhysicalType,
		BusinessName:   doc.BusinessName,
		Description:    doc.Description,
		Nullable:       doc.Nullable == nil || *doc.Nullable,
		PrimaryKey:     doc.PrimaryKey,
		Unique:         doc.Unique,
		Partitioned:    doc.Partitioned,
		Clustered:      doc.Clustered,
		Classification: doc.Classification,
	}
	col.EnumValues = stringsOf(doc.Enum)
	col.EnumValues = append(col.EnumValues, stringsOf(doc.EnumValues)...)
	col.Quality = parseQuality(doc.Quality)
	for _, k := range sortedKeys(doc.CustomProperties) {
		col.SetCustomProperty(k, doc.CustomProperties[k])
	}
	applySimpleConstraints(&col, doc.Constraints)
	if doc.ForeignKey != nil && doc.ForeignKey.Table != "" {
		col.ForeignKey = &contract.ForeignKey{
			Table:  doc.ForeignKey.Table,
			Column: doc.ForeignKey.Column,
		}
		to := doc.ForeignKey.Table
		if doc.ForeignKey.Column != "" {
			to += "." + doc.ForeignKey.Column
		}
		col.Relationships = append(col.Relationships, contract.Relationship{
			Type: contract.RelationshipForeignKey,
			To:   to,
		})
	}

	if exp, ok := expandTypeString(doc.Name, rawType); ok {
		col.Errors = append(col.Errors, exp.errs...)
		if exp.parentType == "" {
			col.DataType = rawType
			return []contract.Column{col}, nil, true
		}
		col.DataType = exp.parentType
		return append([]contract.Column{col}, exp.children...), nil, true
	}
	return []contract.Column{col}, nil, true
}

// applySimpleConstraints folds a constraints section into the column. Both
// spellings are accepted: a list of names ("not_null", "unique",
// "primary_key") or a mapping with boolean values.
func applySimpleConstraints(col *contract.Column, v any) {
	if v == nil {
		return
	}
	if names, ok := asSlice(v); ok {
		for _, n := range names {
			switch normalizePropertyKey(anyString(n)) {
			case "notnull":
				col.Nullable = false
			case "unique":
				col.Unique = true
			case "primarykey":
				col.PrimaryKey = true
			}
		}
		return
	}
	if m, ok := asMap(v); ok {
		if b, ok := boolField(m, "nullable"); ok {
			col.Nullable = b
		}
		if b, ok := boolField(m, "not_null"); ok {
			col.Nullable = !b
		}
		if b, ok := boolField(m, "primaryKey"); ok {
			col.PrimaryKey = b
		} else if b, ok := boolField(m, "primary_key"); ok {
			col.PrimaryKey = b
		}
		if b, ok := boolField(m, "unique"); ok {
			col.Unique = b
		}
	}
}

// stashMetadataRest preserves odcl_metadata keys not consumed by quality
// merging or identity resolution.
func stashMetadataRest(t *contract.Table, metadata map[string]any) {
	for _, k := range sortedKeys(metadata) {
		switch k {
		case "quality", "tblproperties", "tableUuid":
			continue
		}
		setMetadata(t, k, metadata[k])
	}
}
