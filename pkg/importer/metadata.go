package importer

import (
	"fmt"
	"strings"

	"github.com/pixie79/data-modelling-sdk-sub000/pkg/contract"
)

// parseCustomProperties decodes a customProperties section. The canonical
// shape is a list of {property, value} entries; a plain key/value mapping
// is accepted too and walked in sorted key order. Malformed entries are
// reported and skipped.
func parseCustomProperties(v any, field string) ([]contract.CustomProperty, []contract.ParserError) {
	if v == nil {
		return nil, nil
	}
	if entries, ok := asSlice(v); ok {
		var props []contract.CustomProperty
		var diags []contract.ParserError
		for i, entry := range entries {
			var p contract.CustomProperty
			if err := decodeLoose(entry, &p); err != nil || p.Property == "" {
				diags = append(diags, contract.ParserError{
					Type:    contract.ErrorInvalidField,
					Field:   fmt.Sprintf("%s[%d]", field, i),
					Message: "custom property entry must be a {property, value} mapping",
				})
				continue
			}
			props = append(props, p)
		}
		return props, diags
	}
	if m, ok := asMap(v); ok {
		props := make([]contract.CustomProperty, 0, len(m))
		for _, k := range sortedKeys(m) {
			props = append(props, contract.CustomProperty{Property: k, Value: m[k]})
		}
		return props, nil
	}
	return nil, []contract.ParserError{{
		Type:    contract.ErrorInvalidField,
		Field:   field,
		Message: "customProperties must be a list or a mapping",
	}}
}

// mergeTableCustomProperties builds the effective table-level list:
// contract-scope entries first, then this table's own schema-scope
// entries, in declaration order. Entries declared under another table in a
// multi-table document never reach here.
func mergeTableCustomProperties(contractScope, schemaScope []contract.CustomProperty) []contract.CustomProperty {
	if len(contractScope) == 0 && len(schemaScope) == 0 {
		return nil
	}
	merged := make([]contract.CustomProperty, 0, len(contractScope)+len(schemaScope))
	merged = append(merged, contractScope...)
	merged = append(merged, schemaScope...)
	return merged
}

// parseQuality decodes a quality section. A list contributes one rule per
// entry; a single mapping is one rule; a bare scalar wraps into a
// {rule: value} record. Rules are carried through uninterpreted.
func parseQuality(v any) []contract.QualityRule {
	if v == nil {
		return nil
	}
	if entries, ok := asSlice(v); ok {
		var rules []contract.QualityRule
		for _, entry := range entries {
			if m, ok := asMap(entry); ok {
				rules = append(rules, contract.QualityRule(m))
				continue
			}
			if s := anyString(entry); s != "" {
				rules = append(rules, contract.QualityRule{"rule": s})
			}
		}
		return rules
	}
	if m, ok := asMap(v); ok {
		return []contract.QualityRule{contract.QualityRule(m)}
	}
	if s := anyString(v); s != "" {
		return []contract.QualityRule{{"rule": s}}
	}
	return nil
}

// qualityFromTblproperties converts a tblproperties mapping into synthetic
// {property, value} rules, one per key, in sorted key order.
func qualityFromTblproperties(v any) []contract.QualityRule {
	m, ok := asMap(v)
	if !ok || len(m) == 0 {
		return nil
	}
	rules := make([]contract.QualityRule, 0, len(m))
	for _, k := range sortedKeys(m) {
		rules = append(rules, contract.QualityRule{"property": k, "value": m[k]})
	}
	return rules
}

// tableQuality merges table-scope quality sources in order: the table's
// own quality section, legacy metadata.quality, then synthetic rules from
// a metadata tblproperties mapping. Nothing is de-duplicated; a rule
// is never synthesized from a required or nullable flag.
func tableQuality(own any, metadata map[string]any) []contract.QualityRule {
	rules := parseQuality(own)
	if metadata != nil {
		rules = append(rules, parseQuality(metadata["quality"])...)
		rules = append(rules, qualityFromTblproperties(metadata["tblproperties"])...)
	}
	return rules
}

// promoteTableProperties lifts well-known custom properties onto their
// first-class Table fields and returns the remaining escape-hatch entries.
// The tableUuid entry is consumed by identity resolution and dropped here:
// exports carry the identity in the explicit id field instead.
func promoteTableProperties(t *contract.Table, props []contract.CustomProperty) ([]contract.CustomProperty, []contract.ParserError) {
	var rest []contract.CustomProperty
	var diags []contract.ParserError

	for _, p := range props {
		switch normalizePropertyKey(p.Property) {
		case "medallionlayer", "medallionlayers":
			for _, s := range stringsOf(p.Value) {
				layer, ok := contract.ParseMedallionLayer(s)
				if !ok {
					diags = append(diags, invalidEnumDiag(p.Property, s, "medallion layer"))
					continue
				}
				addMedallionLayer(t, layer)
			}
		case "scdpattern":
			pattern, ok := contract.ParseSCDPattern(anyString(p.Value))
			if !ok {
				diags = append(diags, invalidEnumDiag(p.Property, anyString(p.Value), "SCD pattern"))
				continue
			}
			t.SCDPattern = pattern
		case "datavaultclassification":
			class, ok := contract.ParseDataVaultClass(anyString(p.Value))
			if !ok {
				diags = append(diags, invalidEnumDiag(p.Property, anyString(p.Value), "Data Vault classification"))
				continue
			}
			t.DataVaultClass = class
		case "tableuuid":
			// consumed by resolveTableID
		default:
			rest = append(rest, p)
		}
	}
	return rest, diags
}

// setMetadata stashes a source field that has no first-class Table slot so
// it survives into the canonical model.
func setMetadata(t *contract.Table, key string, value any) {
	if t.Metadata == nil {
		t.Metadata = make(map[string]any)
	}
	t.Metadata[key] = value
}

// normalizePropertyKey folds the snake_case and camelCase spellings of a
// property name together.
func normalizePropertyKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "_", ""))
}

// addMedallionLayer appends a layer unless already present.
func addMedallionLayer(t *contract.Table, layer contract.MedallionLayer) {
	for _, l := range t.MedallionLayers {
		if l == layer {
			return
		}
	}
	t.MedallionLayers = append(t.MedallionLayers, layer)
}

func invalidEnumDiag(field, value, kind string) contract.ParserError {
	return contract.ParserError{
		Type:    contract.ErrorInvalidField,
		Field:   field,
		Message: fmt.Sprintf("%q is not a known %s", value, kind),
	}
}
