package importer

import "testing"

func TestResolveRef(t *testing.T) {
	root := map[string]any{
		"definitions": map[string]any{
			"order_id": map[string]any{"logicalType": "string"},
			"scalar":   "not a mapping",
		},
	}

	tests := []struct {
		name   string
		ref    string
		wantOK bool
	}{
		{"resolves", "#/definitions/order_id", true},
		{"missing segment", "#/definitions/unknown", false},
		{"final node not a mapping", "#/definitions/scalar", false},
		{"non-local pointer", "https://example.com/schema#/definitions/order_id", false},
		{"bare fragment", "#/", false},
		{"not a pointer", "order_id", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, ok := resolveRef(tt.ref, root)
			if ok != tt.wantOK {
				t.Fatalf("resolveRef(%q) ok = %v, want %v", tt.ref, ok, tt.wantOK)
			}
			if ok && target == nil {
				t.Error("resolved target must not be nil")
			}
		})
	}
}

func TestResolveRef_DeepPath(t *testing.T) {
	root := map[string]any{
		"a": map[string]any{
			"b": map[string]any{
				"c": map[string]any{"type": "int"},
			},
		},
	}
	target, ok := resolveRef("#/a/b/c", root)
	if !ok {
		t.Fatal("expected deep pointer to resolve")
	}
	if stringField(target, "type") != "int" {
		t.Errorf("wrong target: %v", target)
	}
}

func TestRefToRelationship(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#/definitions/order_id", "definitions/order_id"},
		{"#/models/orders/fields/id", "models/orders/fields/id"},
		{"orders.order_id", "orders.order_id"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := refToRelationship(tt.in); got != tt.want {
			t.Errorf("refToRelationship(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMergeRefSpec_LocalWins(t *testing.T) {
	local := map[string]any{
		"$ref":        "#/definitions/x",
		"description": "local",
		"required":    true,
	}
	target := map[string]any{
		"logicalType": "string",
		"description": "referenced",
	}

	merged := mergeRefSpec(local, target)
	if merged["description"] != "local" {
		t.Errorf("local description must win, got %v", merged["description"])
	}
	if merged["logicalType"] != "string" {
		t.Errorf("referenced type must fill the gap, got %v", merged["logicalType"])
	}
	if merged["required"] != true {
		t.Errorf("local-only keys must survive, got %v", merged["required"])
	}
	if _, ok := merged["$ref"]; ok {
		t.Error("the consumed $ref must not survive the merge")
	}
}

func TestMergeRefSpec_EmptyLocalStringDefers(t *testing.T) {
	merged := mergeRefSpec(
		map[string]any{"description": ""},
		map[string]any{"description": "referenced"},
	)
	if merged["description"] != "referenced" {
		t.Errorf("empty local string must defer, got %v", merged["description"])
	}
}

func TestMergeRefSpec_QualityAppendsLocalFirst(t *testing.T) {
	local := map[string]any{
		"quality": []any{map[string]any{"rule": "local"}},
	}
	target := map[string]any{
		"quality": []any{map[string]any{"rule": "referenced"}},
	}

	merged := mergeRefSpec(local, target)
	quality, ok := asSlice(merged["quality"])
	if !ok || len(quality) != 2 {
		t.Fatalf("expected 2 quality rules, got %v", merged["quality"])
	}
	first, _ := asMap(quality[0])
	second, _ := asMap(quality[1])
	if stringField(first, "rule") != "local" || stringField(second, "rule") != "referenced" {
		t.Errorf("quality order must be local then referenced: %v", quality)
	}
}

func TestMergeRefSpec_BareQualityEntryAppends(t *testing.T) {
	local := map[string]any{
		"quality": map[string]any{"rule": "local"},
	}
	target := map[string]any{
		"quality": []any{map[string]any{"rule": "referenced"}},
	}

	merged := mergeRefSpec(local, target)
	quality, ok := asSlice(merged["quality"])
	if !ok || len(quality) != 2 {
		t.Fatalf("expected 2 quality rules, got %v", merged["quality"])
	}
	first, _ := asMap(quality[0])
	if stringField(first, "rule") != "local" {
		t.Errorf("bare local entry must appear first: %v", quality)
	}
}

func TestMergeRefSpec_ChainedRefSurvives(t *testing.T) {
	merged := mergeRefSpec(
		map[string]any{"$ref": "#/definitions/a"},
		map[string]any{"$ref": "#/definitions/b"},
	)
	if merged["$ref"] != "#/definitions/b" {
		t.Errorf("a $ref on the referenced definition must keep resolving, got %v", merged["$ref"])
	}
}
