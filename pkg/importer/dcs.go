package importer

import (
	"fmt"

	"github.com/pixie79/data-modelling-sdk-sub000/pkg/contract"
)

// parseDCS parses a legacy Data Contract Specification document. Exactly
// one model is parsed — the lowest model key in sort order, since the
// decoded mapping has no declaration order. Callers wanting every model
// invoke the importer once per model.
func parseDCS(root map[string]any) (*contract.Table, []contract.ParserError, error) {
	models, ok := asMap(root["models"])
	if !ok || len(models) == 0 {
		return nil, nil, &FormatError{
			Format:  FormatDataContractSpec,
			Message: "models object is required",
		}
	}
	var diags []contract.ParserError

	modelName := sortedKeys(models)[0]
	model, ok := asMap(models[modelName])
	if !ok {
		return nil, nil, &FormatError{
			Format:  FormatDataContractSpec,
			Message: fmt.Sprintf("model %q must be a mapping", modelName),
		}
	}
	if len(models) > 1 {
		diags = append(diags, contract.ParserError{
			Type:    contract.ErrorValidation,
			Field:   "models",
			Message: fmt.Sprintf("document declares %d models; only %q is parsed", len(models), modelName),
		})
	}

	t := &contract.Table{Name: modelName}
	t.Description = stringField(model, "description")
	if v := stringField(model, "type"); v != "" {
		setMetadata(t, "modelType", v)
	}
	if v := stringField(model, "title"); v != "" {
		setMetadata(t, "title", v)
	}
	if info, ok := asMap(root["info"]); ok {
		if t.Description == "" {
			t.Description = stringField(info, "description")
		}
		if v := stringField(info, "owner"); v != "" {
			setMetadata(t, "owner", v)
		}
	}

	fields, _ := asMap(model["fields"])
	fs := newFieldScope(root)
	for _, name := range sortedKeys(fields) {
		spec, ok := asMap(fields[name])
		if !ok {
			diags = append(diags, contract.ParserError{
				Type:    contract.ErrorInvalidField,
				Field:   name,
				Message: "field must be a mapping",
			})
			continue
		}
		t.Columns = append(t.Columns, fs.parseField(name, spec)...)
	}
	diags = append(diags, fs.diags...)
	if len(fields) == 0 {
		diags = append(diags, contract.ParserError{
			Type:    contract.ErrorEmptySchema,
			Field:   "models." + modelName,
			Message: "model has no fields",
		})
	}

	t.Quality = parseQuality(model["quality"])
	t.Quality = append(t.Quality, parseQuality(root["quality"])...)
	t.Quality = append(t.Quality, qualityFromTblproperties(model["tblproperties"])...)
	t.AddTags(stringsOf(root["tags"])...)
	parseDCSServers(t, root)
	if v, ok := root["servicelevels"]; ok {
		setMetadata(t, "servicelevels", v)
	}
	if v, ok := root["terms"]; ok {
		setMetadata(t, "terms", v)
	}

	t.ID, t.IDDerived = resolveTableID(root, nil, t.Name)
	return t, diags, nil
}

// parseDCSServers lifts the physical location from the servers mapping.
// Keys are walked sorted; the first entry wins.
func parseDCSServers(t *contract.Table, root map[string]any) {
	servers, ok := asMap(root["servers"])
	if !ok || len(servers) == 0 {
		return
	}
	server, ok := asMap(servers[sortedKeys(servers)[0]])
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
