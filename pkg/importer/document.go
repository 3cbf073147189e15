package importer

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// decodeDocument turns raw UTF-8 text into a generic document tree. YAML is
// a superset of JSON, so one decoder covers both serializations.
func decodeDocument(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &EmptyDocumentError{}
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if doc == nil {
		return nil, &EmptyDocumentError{}
	}
	root, ok := asMap(doc)
	if !ok {
		return nil, &DecodeError{Err: fmt.Errorf("document root must be a mapping, got %T", doc)}
	}
	return root, nil
}

// asMap coerces a tree node to a string-keyed map. yaml.v3 decodes
// mappings as map[string]any, but trees built by other tooling may arrive
// as map[any]any, so both are accepted.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// stringField returns the string value of key in m, or "" when the key is
// absent or not a string.
func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// anyString renders a scalar tree node as a string. Nil renders as "".
func anyString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}

// boolField reads a boolean field, accepting YAML booleans and their
// common string spellings.
func boolField(m map[string]any, key string) (bool, bool) {
	switch v := m[key].(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "y", "1":
			return true, true
		case "false", "no", "n", "0":
			return false, true
		}
	}
	return false, false
}

// intField reads an integer field, accepting the numeric shapes the YAML
// decoder produces plus decimal strings.
func intField(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, true
		}
	}
	return 0, false
}

// stringsOf renders a tree node as a string list: a scalar becomes a
// one-element list, a sequence renders each element.
func stringsOf(v any) []string {
	switch vv := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s := anyString(e); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := anyString(vv); s != "" {
			return []string{s}
		}
		return nil
	}
}

// sortedKeys pins iteration order for map-form sections: the decoded map
// carries no declaration order, so keys are walked lexicographically.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// firstPresent returns the value of the first key present in m.
func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}

// decodeLoose maps a tree node onto a typed struct, converting weakly
// typed scalars ("true" to bool, "3" to int) the way hand-authored YAML
// tends to need. Unknown keys are ignored.
func decodeLoose(input, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
