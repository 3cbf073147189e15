package importer

import (
	"fmt"
	"strings"

	"github.com/pixie79/data-modelling-sdk-sub000/pkg/contract"
)

// fieldScope carries the document-wide state a field walk needs: the
// document root for $ref resolution, the set of references on the current
// resolution path (cycle guard), and the soft diagnostics collected along
// the way. The root travels here as an explicit argument; nothing is
// stashed on shared parser state, so concurrent parses of different
// documents never interfere.
type fieldScope struct {
	root    map[string]any
	visited map[string]bool
	diags   []contract.ParserError
}

func newFieldScope(root map[string]any) *fieldScope {
	return &fieldScope{root: root, visited: make(map[string]bool)}
}

func (fs *fieldScope) report(typ contract.ErrorType, field, message string) {
	fs.diags = append(fs.diags, contract.ParserError{Type: typ, Field: field, Message: message})
}

// objectTypes are the logical type names that mark a structured nested field.
var objectTypes = map[string]bool{
	"object": true,
	"record": true,
	"struct": true,
}

// expansion is the outcome of flattening one nested field. An empty
// parentType means the field looked nested but nothing could be expanded;
// the caller then keeps the field as an opaque column carrying the
// original type string untouched.
type expansion struct {
	parentType string
	children   []contract.Column
	rels       []contract.Relationship
	errs       []contract.ParserError
}

// parseField turns one named field spec into columns: scalar fields yield
// a single column; nested fields yield a parent summary column immediately
// followed by its flattened children. A field is never silently dropped.
func (fs *fieldScope) parseField(name string, spec map[string]any) []contract.Column {
	if ref := stringField(spec, "$ref"); ref != "" {
		return fs.parseRefField(name, ref, spec)
	}

	col := contract.Column{Name: name, Nullable: true}
	rawType := fieldType(spec)
	col.DataType = NormalizeType(rawType)
	fs.applyFieldAttrs(&col, spec)

	exp, isNested := fs.expandNested(name, rawType, spec)
	if !isNested {
		return []contract.Column{col}
	}
	col.Errors = append(col.Errors, exp.errs...)
	col.Relationships = append(col.Relationships, exp.rels...)
	if exp.parentType == "" {
		col.DataType = rawType
		return []contract.Column{col}
	}
	col.DataType = exp.parentType
	return append([]contract.Column{col}, exp.children...)
}

// parseRefField resolves a $ref-bearing field. The relationship edge is
// recorded whether or not the target resolves, so a broken reference still
// survives an export round trip. Local attributes win over the referenced
// definition; the visited set breaks self-referential chains.
func (fs *fieldScope) parseRefField(name, ref string, spec map[string]any) []contract.Column {
	rel := contract.Relationship{Type: contract.RelationshipForeignKey, To: refToRelationship(ref)}

	target, resolved := resolveRef(ref, fs.root)
	if !resolved || fs.visited[ref] {
		msg := fmt.Sprintf("reference %q does not resolve to a definition", ref)
		if fs.visited[ref] {
			msg = fmt.Sprintf("reference %q is part of a reference cycle", ref)
		}
		col := contract.Column{Name: name, DataType: "OBJECT", Nullable: true}
		fs.applyFieldAttrs(&col, spec)
		col.Relationships = append(col.Relationships, rel)
		col.Errors = append(col.Errors, contract.ParserError{
			Type:    contract.ErrorUnresolvedRef,
			Field:   name,
			Message: msg,
		})
		return []contract.Column{col}
	}

	fs.visited[ref] = true
	defer delete(fs.visited, ref)

	cols := fs.parseField(name, mergeRefSpec(spec, target))
	if len(cols) > 0 {
		cols[0].Relationships = append(cols[0].Relationships, rel)
	}
	return cols
}

// expandNested flattens a nested field into a parent type plus children.
// The inline textual grammar is tried first, then the structured shapes
// (object with nested properties, array of objects). ok=false means the
// field is an ordinary scalar.
func (fs *fieldScope) expandNested(name, rawType string, spec map[string]any) (expansion, bool) {
	if exp, ok := expandTypeString(name, rawType); ok {
		return exp, true
	}

	lower := strings.ToLower(strings.TrimSpace(rawType))
	switch {
	case objectTypes[lower]:
		children := fs.childColumns(name+".", fieldProperties(spec))
		if len(children) == 0 {
			return expansion{}, true
		}
		return expansion{parentType: "OBJECT", children: children}, true
	case lower == "array":
		return fs.expandArray(name, spec)
	}
	return expansion{}, false
}

// expandArray flattens an array field. Arrays of objects produce an
// ARRAY<OBJECT> parent plus ".[]." children; arrays of scalars collapse to
// a single ARRAY<TYPE> column; an items $ref is resolved like any other
// reference, keeping the edge even when broken.
func (fs *fieldScope) expandArray(name string, spec map[string]any) (expansion, bool) {
	items, ok := asMap(spec["items"])
	if !ok {
		return expansion{}, false
	}

	var exp expansion
	if ref := stringField(items, "$ref"); ref != "" {
		exp.rels = append(exp.rels, contract.Relationship{
			Type: contract.RelationshipForeignKey,
			To:   refToRelationship(ref),
		})
		target, resolved := resolveRef(ref, fs.root)
		if !resolved || fs.visited[ref] {
			exp.parentType = "ARRAY<OBJECT>"
			exp.errs = append(exp.errs, contract.ParserError{
				Type:    contract.ErrorUnresolvedRef,
				Field:   name,
				Message: fmt.Sprintf("array items reference %q does not resolve to a definition", ref),
			})
			return exp, true
		}
		fs.visited[ref] = true
		defer delete(fs.visited, ref)
		items = mergeRefSpec(items, target)
	}

	itemType := fieldType(items)
	lower := strings.ToLower(strings.TrimSpace(itemType))
	if objectTypes[lower] || (itemType == "" && fieldProperties(items) != nil) {
		exp.children = fs.childColumns(name+".[].", fieldProperties(items))
		if len(exp.children) == 0 && len(exp.rels) == 0 {
			return expansion{}, true
		}
		exp.parentType = "ARRAY<OBJECT>"
		return exp, true
	}
	if inner, ok := typePayload(itemType, "STRUCT"); ok {
		children, errs := structFieldColumns(name+".[].", inner)
		exp.parentType = "ARRAY<" + NormalizeType(itemType) + ">"
		exp.children = children
		exp.errs = append(exp.errs, errs...)
		return exp, true
	}
	if itemType != "" {
		exp.parentType = "ARRAY<" + NormalizeType(itemType) + ">"
		return exp, true
	}
	return exp, len(exp.rels) > 0
}

// expandTypeString flattens an inline textual container type. Supported
// shapes: STRUCT<field: TYPE, ...> and ARRAY<STRUCT<...>>. Anything else —
// including an ARRAY of scalars, which normalizes fine as a plain type
// string — is not an inline nested type.
func expandTypeString(name, raw string) (expansion, bool) {
	if payload, ok := typePayload(raw, "ARRAY"); ok {
		inner, ok := typePayload(payload, "STRUCT")
		if !ok {
			return expansion{}, false
		}
		children, errs := structFieldColumns(name+".[].", inner)
		if len(children) == 0 {
			return expansion{errs: errs}, true
		}
		return expansion{parentType: NormalizeType(raw), children: children, errs: errs}, true
	}
	if inner, ok := typePayload(raw, "STRUCT"); ok {
		children, errs := structFieldColumns(name+".", inner)
		if len(children) == 0 {
			return expansion{errs: errs}, true
		}
		return expansion{parentType: NormalizeType(raw), children: children, errs: errs}, true
	}
	return expansion{}, false
}

// structFieldColumns parses the comma-separated field list of a STRUCT
// payload into flattened columns under prefix. Nested STRUCT and
// ARRAY<STRUCT> member types recurse, each emitting its own parent summary
// column immediately before its children.
func structFieldColumns(prefix, payload string) ([]contract.Column, []contract.ParserError) {
	var cols []contract.Column
	var errs []contract.ParserError
	for _, def := range splitTopLevel(payload) {
		fieldName, memberType, ok := splitFieldDef(def)
		if !ok {
			errs = append(errs, contract.ParserError{
				Type:    contract.ErrorInvalidType,
				Field:   strings.TrimSuffix(prefix, "."),
				Message: fmt.Sprintf("cannot parse struct field definition %q", def),
			})
			continue
		}
		name := prefix + fieldName
		if exp, ok := expandTypeString(name, memberType); ok {
			parent := contract.Column{Name: name, DataType: exp.parentType, Nullable: true, Errors: exp.errs}
			if exp.parentType == "" {
				parent.DataType = memberType
			}
			cols = append(cols, parent)
			cols = append(cols, exp.children...)
			continue
		}
		cols = append(cols, contract.Column{Name: name, DataType: NormalizeType(memberType), Nullable: true})
	}
	return cols, errs
}

// childColumns parses a nested property set into flattened columns under
// prefix. Map-form sets are walked in sorted key order — the decoded map
// carries no declaration order — while array-form sets keep document order.
func (fs *fieldScope) childColumns(prefix string, props any) []contract.Column {
	if props == nil {
		return nil
	}
	var cols []contract.Column
	if m, ok := asMap(props); ok {
		for _, key := range sortedKeys(m) {
			spec, ok := asMap(m[key])
			if !ok {
				fs.report(contract.ErrorInvalidField, prefix+key, "property must be a mapping")
				continue
			}
			cols = append(cols, fs.parseField(prefix+key, spec)...)
		}
		return cols
	}
	entries, ok := asSlice(props)
	if !ok {
		fs.report(contract.ErrorInvalidField, strings.TrimSuffix(prefix, "."), "properties must be a mapping or a list")
		return nil
	}
	for i, entry := range entries {
		spec, ok := asMap(entry)
		if !ok {
			fs.report(contract.ErrorInvalidField, fmt.Sprintf("%sproperties[%d]", prefix, i), "property entry must be a mapping")
			continue
		}
		name := stringField(spec, "name")
		if name == "" {
			name = stringField(spec, "id")
		}
		if name == "" {
			fs.report(contract.ErrorMissingField, fmt.Sprintf("%sproperties[%d]", prefix, i), "property has no name")
			continue
		}
		cols = append(cols, fs.parseField(prefix+name, spec)...)
	}
	return cols
}

// fieldType returns the declared logical type, preferring the current
// standard's "logicalType" over the legacy "type".
func fieldType(spec map[string]any) string {
	if v := stringField(spec, "logicalType"); v != "" {
		return v
	}
	return stringField(spec, "type")
}

// fieldProperties returns a field's nested property set: the current
// standard nests under "properties", the legacy spec under "fields".
func fieldProperties(spec map[string]any) any {
	if v, ok := spec["properties"]; ok {
		return v
	}
	if v, ok := spec["fields"]; ok {
		return v
	}
	return nil
}

// applyFieldAttrs copies the dialect-shared field attributes onto a
// column. Key spellings cover the current standard and the legacy specs so
// every dialect parser funnels through one path.
func (fs *fieldScope) applyFieldAttrs(col *contract.Column, spec map[string]any) {
	if v := stringField(spec, "description"); v != "" {
		col.Description = v
	}
	if v := stringField(spec, "businessName"); v != "" {
		col.BusinessName = v
	}
	if v := stringField(spec, "physicalType"); v != "" {
		col.PhysicalType = v
	}
	if v := stringField(spec, "classification"); v != "" {
		col.Classification = v
	}
	if required, ok := boolField(spec, "required"); ok {
		col.Nullable = !required
	}
	if nullable, ok := boolField(spec, "nullable"); ok {
		col.Nullable = nullable
	}
	if v, ok := boolField(spec, "unique"); ok {
		col.Unique = v
	}
	if v, ok := boolField(spec, "primaryKey"); ok {
		col.PrimaryKey = v
	} else if v, ok := boolField(spec, "primary"); ok {
		col.PrimaryKey = v
	}
	if v, ok := intField(spec, "primaryKeyPosition"); ok {
		col.PrimaryKeyPosition = v
	}
	if v, ok := boolField(spec, "partitioned"); ok {
		col.Partitioned = v
	}
	if v, ok := intField(spec, "partitionKeyPosition"); ok {
		col.PartitionKeyPosition = v
	}
	if v, ok := boolField(spec, "clustered"); ok {
		col.Clustered = v
	}
	if v, ok := intField(spec, "clusterKeyPosition"); ok {
		col.ClusterKeyPosition = v
	}
	if v, ok := boolField(spec, "criticalDataElement"); ok {
		col.CriticalDataElement = v
	}
	if enum := stringsOf(spec["enum"]); len(enum) > 0 {
		col.EnumValues = append(col.EnumValues, enum...)
	}
	if examples, ok := asSlice(spec["examples"]); ok {
		col.Examples = append(col.Examples, examples...)
	}
	col.AddTags(stringsOf(spec["tags"])...)
	col.Quality = append(col.Quality, parseQuality(spec["quality"])...)
	if v := stringField(spec, "references"); v != "" {
		col.Relationships = append(col.Relationships, contract.Relationship{
			Type: contract.RelationshipForeignKey,
			To:   v,
		})
	}
	props, diags := parseCustomProperties(spec["customProperties"], col.Name+".customProperties")
	fs.diags = append(fs.diags, diags...)
	for _, p := range props {
		col.SetCustomProperty(p.Property, p.Value)
	}
}
