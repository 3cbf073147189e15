package importer

import (
	"fmt"
	"strings"

	"github.com/pixie79/data-modelling-sdk-sub000/pkg/contract"
)

// liquibaseColumn is the shape of one column entry inside a createTable
// change.
type liquibaseColumn struct {
	Name          string         `mapstructure:"name"`
	Type          string         `mapstructure:"type"`
	Remarks       string         `mapstructure:"remarks"`
	DefaultValue  any            `mapstructure:"defaultValue"`
	AutoIncrement bool           `mapstructure:"autoIncrement"`
	Constraints   map[string]any `mapstructure:"constraints"`
}

// parseLiquibase walks a database changelog and produces the first created
// table. Later createTable changes describe further tables and are left to
// repeated calls. A document with no createTable anywhere is a hard
// failure: there is no table to produce.
func parseLiquibase(root map[string]any) (*contract.Table, []contract.ParserError, error) {
	log, ok := asSlice(root["databaseChangeLog"])
	if !ok {
		// bare changeSet fragment without the changelog wrapper
		log = []any{root}
	}
	for _, entry := range log {
		em, ok := asMap(entry)
		if !ok {
			continue
		}
		for _, change := range changeSetChanges(em["changeSet"]) {
			cm, ok := asMap(change)
			if !ok {
				continue
			}
			ct, ok := asMap(cm["createTable"])
			if !ok {
				ct, ok = asMap(cm["create_table"])
			}
			if ok {
				return parseCreateTable(root, ct)
			}
		}
	}
	return nil, nil, &FormatError{
		Format:  FormatLiquibase,
		Message: "no createTable change found in any changeSet",
	}
}

// changeSetChanges normalizes the two changeSet spellings: a list of
// changes, or a mapping holding a changes list. A mapping that is itself a
// change is accepted too.
func changeSetChanges(v any) []any {
	if changes, ok := asSlice(v); ok {
		return changes
	}
	m, ok := asMap(v)
	if !ok {
		return nil
	}
	if changes, ok := asSlice(m["changes"]); ok {
		return changes
	}
	if _, ok := m["createTable"]; ok {
		return []any{m}
	}
	if _, ok := m["create_table"]; ok {
		return []any{m}
	}
	return nil
}

func parseCreateTable(root, ct map[string]any) (*contract.Table, []contract.ParserError, error) {
	var diags []contract.ParserError

	t := &contract.Table{Name: stringField(ct, "tableName")}
	if t.Name == "" {
		t.Name = stringField(ct, "table_name")
	}
	t.Description = stringField(ct, "remarks")
	t.SchemaName = stringField(ct, "schemaName")
	t.CatalogName = stringField(ct, "catalogName")

	cols, ok := asSlice(ct["columns"])
	if !ok || len(cols) == 0 {
		diags = append(diags, contract.ParserError{
			Type:    contract.ErrorEmptySchema,
			Field:   "columns",
			Message: "createTable change has no columns",
		})
	}
	for i, raw := range cols {
		col, colDiags, ok := parseLiquibaseColumn(i, raw)
		diags = append(diags, colDiags...)
		if ok {
			t.Columns = append(t.Columns, col)
		}
	}

	t.ID, t.IDDerived = resolveTableID(root, nil, t.Name)
	return t, diags, nil
}

// parseLiquibaseColumn decodes one column entry. A missing name is a soft
// failure: the entry is reported and skipped, siblings still parse.
func parseLiquibaseColumn(i int, raw any) (contract.Column, []contract.ParserError, bool) {
	field := fmt.Sprintf("columns[%d]", i)
	entry, ok := asMap(raw)
	if !ok {
		return contract.Column{}, []contract.ParserError{{
			Type:    contract.ErrorInvalidField,
			Field:   field,
			Message: "column entry must be a mapping",
		}}, false
	}
	inner, ok := asMap(entry["column"])
	if !ok {
		inner = entry // flat form without the column wrapper
	}

	var doc liquibaseColumn
	if err := decodeLoose(inner, &doc); err != nil {
		return contract.Column{}, []contract.ParserError{{
			Type:    contract.ErrorInvalidField,
			Field:   field,
			Message: fmt.Sprintf("cannot decode column entry: %v", err),
		}}, false
	}
	if doc.Name == "" {
		return contract.Column{}, []contract.ParserError{{
			Type:    contract.ErrorMissingField,
			Field:   field,
			Message: "column has no name",
		}}, false
	}

	col := contract.Column{
		Name:         doc.Name,
		DataType:     NormalizeType(doc.Type),
		PhysicalType: doc.Type,
		Description:  doc.Remarks,
		Nullable:     true,
	}
	if doc.DefaultValue != nil {
		col.SetCustomProperty("defaultValue", doc.DefaultValue)
	}
	if doc.AutoIncrement {
		col.SetCustomProperty("autoIncrement", true)
	}
	applyLiquibaseConstraints(&col, doc.Constraints)
	return col, nil, true
}

// applyLiquibaseConstraints maps a constraints block onto the column. A
// references value of the form "table(column)" becomes both the legacy
// foreign-key pointer and a relationship edge.
func applyLiquibaseConstraints(col *contract.Column, constraints map[string]any) {
	if constraints == nil {
		return
	}
	if v, ok := boolField(constraints, "primaryKey"); ok {
		col.PrimaryKey = v
	} else if v, ok := boolField(constraints, "primary_key"); ok {
		col.PrimaryKey = v
	}
	if v, ok := boolField(constraints, "nullable"); ok {
		col.Nullable = v
	}
	if v, ok := boolField(constraints, "unique"); ok {
		col.Unique = v
	}
	if ref := stringField(constraints, "references"); ref != "" {
		fk := parseReferencesClause(ref)
		col.ForeignKey = &fk
		to := fk.Table
		if fk.Column != "" {
			to = fk.Table + "." + fk.Column
		}
		col.Relationships = append(col.Relationships, contract.Relationship{
			Type: contract.RelationshipForeignKey,
			To:   to,
		})
	}
}

// parseReferencesClause splits "orders(order_id)" into its table and
// column parts; a bare table name is accepted.
func parseReferencesClause(ref string) contract.ForeignKey {
	ref = strings.TrimSpace(ref)
	open := strings.IndexByte(ref, '(')
	if open < 0 {
		return contract.ForeignKey{Table: ref}
	}
	return contract.ForeignKey{
		Table:  strings.TrimSpace(ref[:open]),
		Column: strings.TrimSpace(strings.TrimSuffix(ref[open+1:], ")")),
	}
}
