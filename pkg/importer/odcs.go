package importer

import (
	"fmt"

	"github.com/pixie79/data-modelling-sdk-sub000/pkg/contract"
)

// parseODCS parses a current-standard data contract (apiVersion v3.0.x or
// v3.1.0). Only the first schema object is parsed; iterating a multi-table
// contract is the caller's job.
//
// Properties may arrive map-form keyed by field name (v3.0.x) or
// array-form with each entry naming itself (v3.1.0); both shapes produce
// the same columns.
func parseODCS(root map[string]any) (*contract.Table, []contract.ParserError, error) {
	var diags []contract.ParserError

	t := &contract.Table{
		Name:        stringField(root, "name"),
		Domain:      stringField(root, "domain"),
		DataProduct: stringField(root, "dataProduct"),
	}
	t.Description = odcsDescription(root["description"])
	t.AddTags(stringsOf(root["tags"])...)

	schema, _ := asSlice(root["schema"])
	var schemaObj map[string]any
	if len(schema) > 0 {
		m, ok := asMap(schema[0])
		if !ok {
			diags = append(diags, contract.ParserError{
				Type:    contract.ErrorInvalidField,
				Field:   "schema[0]",
				Message: "schema entry must be a mapping",
			})
		}
		schemaObj = m
		if len(schema) > 1 {
			diags = append(diags, contract.ParserError{
				Type:    contract.ErrorValidation,
				Field:   "schema",
				Message: fmt.Sprintf("document declares %d schema objects; only the first is parsed", len(schema)),
			})
		}
	}
	if schemaObj == nil && t.Name == "" {
		return nil, nil, &FormatError{
			Format:  FormatODCS,
			Message: "schema section is missing or empty and no table name is present",
		}
	}

	contractProps, propDiags := parseCustomProperties(root["customProperties"], "customProperties")
	diags = append(diags, propDiags...)

	var schemaProps []contract.CustomProperty
	if schemaObj != nil {
		if t.Name == "" {
			t.Name = stringField(schemaObj, "name")
		}
		if v := stringField(schemaObj, "description"); v != "" {
			t.Description = v
		}
		if v := stringField(schemaObj, "physicalName"); v != "" {
			setMetadata(t, "physicalName", v)
		}
		if v := stringField(schemaObj, "dataGranularityDescription"); v != "" {
			setMetadata(t, "dataGranularityDescription", v)
		}
		schemaProps, propDiags = parseCustomProperties(schemaObj["customProperties"], "schema.customProperties")
		diags = append(diags, propDiags...)
		t.Quality = parseQuality(schemaObj["quality"])
		t.Quality = append(t.Quality, qualityFromTblproperties(schemaObj["tblproperties"])...)
		t.AddTags(stringsOf(schemaObj["tags"])...)
	}

	rest, promoDiags := promoteTableProperties(t, mergeTableCustomProperties(contractProps, schemaProps))
	t.CustomProperties = rest
	diags = append(diags, promoDiags...)

	parseODCSServers(t, root)
	if v := stringField(root, "status"); v != "" {
		setMetadata(t, "status", v)
	}
	if v := stringField(root, "tenant"); v != "" {
		setMetadata(t, "tenant", v)
	}
	if v := anyString(root["version"]); v != "" {
		setMetadata(t, "version", v)
	}

	if schemaObj != nil {
		fs := newFieldScope(root)
		t.Columns = fs.childColumns("", schemaObj["properties"])
		diags = append(diags, fs.diags...)
		if len(t.Columns) == 0 {
			diags = append(diags, contract.ParserError{
				Type:    contract.ErrorEmptySchema,
				Field:   "schema",
				Message: fmt.Sprintf("schema object %q has no parseable properties", t.Name),
			})
		}
	} else {
		diags = append(diags, contract.ParserError{
			Type:    contract.ErrorEmptySchema,
			Field:   "schema",
			Message: "schema section is missing or empty; table has no columns",
		})
	}

	t.ID, t.IDDerived = resolveTableID(root, nil, t.Name)
	return t, diags, nil
}

// odcsDescription extracts a description from the standard's root
// description field, which may be a plain string or a {purpose, usage,
// limitations} object.
func odcsDescription(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if m, ok := asMap(v); ok {
		if s := stringField(m, "purpose"); s != "" {
			return s
		}
		return stringField(m, "usage")
	}
	return ""
}

// parseODCSServers lifts the physical location out of the first server
// entry. Later entries describe replicas of the same contract and are not
// modelled on the table.
func parseODCSServers(t *contract.Table, root map[string]any) {
	servers, ok := asSlice(root["servers"])
	if !ok || len(servers) == 0 {
		return
	}
	server, ok := asMap(servers[0])
	if !ok {
		return
	}
	t.DatabaseType = stringField(server, "type")
	if v := stringField(server, "catalog"); v != "" {
		t.CatalogName = v
	} else if v := stringField(server, "database"); v != "" {
		t.CatalogName = v
	}
	t.SchemaName = stringField(server, "schema")
}
