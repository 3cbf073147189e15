package importer

import (
	"testing"
)

func TestExpandTypeString_ArrayOfStruct(t *testing.T) {
	exp, ok := expandTypeString("field", "ARRAY<STRUCT<ID: STRING, NAME: STRING>>")
	if !ok {
		t.Fatal("expected the type string to expand")
	}
	if exp.parentType != "ARRAY<STRUCT<ID: STRING, NAME: STRING>>" {
		t.Errorf("unexpected parent type %q", exp.parentType)
	}
	if len(exp.children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(exp.children))
	}
	if exp.children[0].Name != "field.[].ID" || exp.children[0].DataType != "STRING" {
		t.Errorf("unexpected first child %q %q", exp.children[0].Name, exp.children[0].DataType)
	}
	if exp.children[1].Name != "field.[].NAME" || exp.children[1].DataType != "STRING" {
		t.Errorf("unexpected second child %q %q", exp.children[1].Name, exp.children[1].DataType)
	}
}

func TestExpandTypeString_NestedStruct(t *testing.T) {
	exp, ok := expandTypeString("person", "STRUCT<NAME: STRING, ADDR: STRUCT<CITY: STRING>>")
	if !ok {
		t.Fatal("expected the type string to expand")
	}
	names := []string{"person.NAME", "person.ADDR", "person.ADDR.CITY"}
	if len(exp.children) != len(names) {
		t.Fatalf("expected %d children, got %d", len(names), len(exp.children))
	}
	for i, want := range names {
		if exp.children[i].Name != want {
			t.Errorf("child[%d]: expected %q, got %q", i, want, exp.children[i].Name)
		}
	}
	// the nested struct parent sits immediately before its child
	if exp.children[1].DataType != "STRUCT<CITY: STRING>" {
		t.Errorf("nested parent type: got %q", exp.children[1].DataType)
	}
	if exp.children[2].DataType != "STRING" {
		t.Errorf("leaf type: got %q", exp.children[2].DataType)
	}
}

func TestExpandTypeString_LowercaseKeywords(t *testing.T) {
	exp, ok := expandTypeString("x", "struct<a: int, b: string>")
	if !ok {
		t.Fatal("expected lowercase struct to expand")
	}
	if exp.parentType != "STRUCT<a: int, b: string>" {
		t.Errorf("parent should normalize keyword only, got %q", exp.parentType)
	}
	if len(exp.children) != 2 || exp.children[0].DataType != "INT" {
		t.Fatalf("unexpected children: %+v", exp.children)
	}
}

func TestExpandTypeString_NotNested(t *testing.T) {
	for _, in := range []string{"INT", "ARRAY<STRING>", "MAP<STRING, INT>", ""} {
		if _, ok := expandTypeString("x", in); ok {
			t.Errorf("expected %q not to expand", in)
		}
	}
}

func TestExpandTypeString_EmptyStructFallsBack(t *testing.T) {
	exp, ok := expandTypeString("x", "STRUCT<>")
	if !ok {
		t.Fatal("an empty struct is still nested-shaped")
	}
	if exp.parentType != "" || len(exp.children) != 0 {
		t.Errorf("expected empty expansion signalling fallback, got %+v", exp)
	}
}

func TestParseField_ObjectExpansion(t *testing.T) {
	fs := newFieldScope(nil)
	cols := fs.parseField("addr", map[string]any{
		"type":        "object",
		"description": "postal address",
		"properties": map[string]any{
			"city": map[string]any{"type": "string"},
			"zip":  map[string]any{"type": "string", "required": true},
		},
	})

	if len(cols) != 3 {
		t.Fatalf("expected parent + 2 children, got %d", len(cols))
	}
	if cols[0].Name != "addr" || cols[0].DataType != "OBJECT" {
		t.Errorf("unexpected parent %q %q", cols[0].Name, cols[0].DataType)
	}
	if cols[0].Description != "postal address" {
		t.Errorf("parent lost its description: %q", cols[0].Description)
	}
	// map-form children walk in sorted key order
	if cols[1].Name != "addr.city" || cols[2].Name != "addr.zip" {
		t.Errorf("unexpected child order: %q, %q", cols[1].Name, cols[2].Name)
	}
	if cols[2].Nullable {
		t.Error("required child should not be nullable")
	}
}

func TestParseField_ArrayOfObjects(t *testing.T) {
	fs := newFieldScope(nil)
	cols := fs.parseField("items", map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"sku": map[string]any{"type": "string"},
			},
		},
	})

	if len(cols) != 2 {
		t.Fatalf("expected parent + 1 child, got %d", len(cols))
	}
	if cols[0].DataType != "ARRAY<OBJECT>" {
		t.Errorf("expected ARRAY<OBJECT> parent, got %q", cols[0].DataType)
	}
	if cols[1].Name != "items.[].sku" {
		t.Errorf("expected array marker in child name, got %q", cols[1].Name)
	}
}

func TestParseField_ArrayOfScalars(t *testing.T) {
	fs := newFieldScope(nil)
	cols := fs.parseField("codes", map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	})

	if len(cols) != 1 {
		t.Fatalf("expected a single column, got %d", len(cols))
	}
	if cols[0].DataType != "ARRAY<STRING>" {
		t.Errorf("expected ARRAY<STRING>, got %q", cols[0].DataType)
	}
}

func TestParseField_EmptyObjectFallsBackVerbatim(t *testing.T) {
	fs := newFieldScope(nil)
	cols := fs.parseField("blob", map[string]any{"type": "object"})

	if len(cols) != 1 {
		t.Fatalf("expected the field to survive as one column, got %d", len(cols))
	}
	if cols[0].DataType != "object" {
		t.Errorf("fallback must keep the original type string verbatim, got %q", cols[0].DataType)
	}
}

func TestParseField_RefResolved(t *testing.T) {
	root := map[string]any{
		"definitions": map[string]any{
			"order_id": map[string]any{
				"logicalType": "string",
				"description": "canonical order key",
				"quality": []any{
					map[string]any{"rule": "pattern", "pattern": "^ORD"},
				},
			},
		},
	}
	fs := newFieldScope(root)
	cols := fs.parseField("order_id", map[string]any{
		"$ref":        "#/definitions/order_id",
		"description": "local description wins",
	})

	if len(cols) != 1 {
		t.Fatalf("expected one column, got %d", len(cols))
	}
	col := cols[0]
	if col.DataType != "STRING" {
		t.Errorf("referenced type should fill the gap, got %q", col.DataType)
	}
	if col.Description != "local description wins" {
		t.Errorf("local description must win, got %q", col.Description)
	}
	if len(col.Relationships) != 1 || col.Relationships[0].To != "definitions/order_id" {
		t.Errorf("expected a definitions/order_id edge, got %+v", col.Relationships)
	}
	if len(col.Quality) != 1 {
		t.Errorf("referenced quality should append, got %+v", col.Quality)
	}
	if len(col.Errors) != 0 {
		t.Errorf("resolved ref should carry no errors, got %+v", col.Errors)
	}
}

func TestParseField_RefUnresolvedPlaceholder(t *testing.T) {
	fs := newFieldScope(map[string]any{})
	cols := fs.parseField("owner", map[string]any{"$ref": "#/definitions/missing"})

	if len(cols) != 1 {
		t.Fatalf("expected a placeholder column, got %d", len(cols))
	}
	col := cols[0]
	if col.DataType != "OBJECT" {
		t.Errorf("placeholder must be OBJECT, got %q", col.DataType)
	}
	if len(col.Relationships) != 1 || col.Relationships[0].To != "definitions/missing" {
		t.Errorf("broken edge must still be recorded, got %+v", col.Relationships)
	}
	if len(col.Errors) != 1 {
		t.Fatalf("expected one embedded error, got %+v", col.Errors)
	}
}

func TestParseField_RefCycleTerminates(t *testing.T) {
	root := map[string]any{
		"definitions": map[string]any{
			"a": map[string]any{"$ref": "#/definitions/b"},
			"b": map[string]any{"$ref": "#/definitions/a"},
		},
	}
	fs := newFieldScope(root)
	cols := fs.parseField("looped", map[string]any{"$ref": "#/definitions/a"})

	if len(cols) != 1 {
		t.Fatalf("expected one column, got %d", len(cols))
	}
	found := false
	for _, e := range cols[0].Errors {
		if e.Type == "unresolved_ref" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a cycle diagnostic, got %+v", cols[0].Errors)
	}
}

func TestParseField_SharedDefinitionParsesTwice(t *testing.T) {
	// the cycle guard tracks the current path only: two sibling fields may
	// reference the same definition
	root := map[string]any{
		"definitions": map[string]any{
			"key": map[string]any{"logicalType": "string"},
		},
	}
	fs := newFieldScope(root)

	first := fs.parseField("a", map[string]any{"$ref": "#/definitions/key"})
	second := fs.parseField("b", map[string]any{"$ref": "#/definitions/key"})

	if first[0].DataType != "STRING" || second[0].DataType != "STRING" {
		t.Errorf("both fields should resolve: %q, %q", first[0].DataType, second[0].DataType)
	}
	if len(second[0].Errors) != 0 {
		t.Errorf("second resolution must not be blocked: %+v", second[0].Errors)
	}
}
