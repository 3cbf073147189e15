package importer

import "strings"

// resolveRef walks a local "#/a/b/c" pointer through the document tree.
// Only local pointers are supported; a missing segment or a final node
// that is not a mapping yields ok=false.
func resolveRef(ref string, root map[string]any) (map[string]any, bool) {
	path, ok := strings.CutPrefix(ref, "#/")
	if !ok || path == "" || root == nil {
		return nil, false
	}
	node := any(root)
	for _, seg := range strings.Split(path, "/") {
		m, ok := asMap(node)
		if !ok {
			return nil, false
		}
		node, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return asMap(node)
}

// refToRelationship converts a $ref pointer into a relationship target
// path: "#/definitions/order_id" becomes "definitions/order_id". Pointers
// without the local "#/" prefix pass through unchanged.
func refToRelationship(ref string) string {
	if rest, ok := strings.CutPrefix(ref, "#/"); ok {
		return rest
	}
	return ref
}

// mergeRefSpec overlays a referenced definition under a local field spec.
// Local values win; referenced values fill gaps (an empty local string
// defers to the referenced one). Quality rules concatenate, local first,
// with no de-duplication. The $ref key itself is consumed, but a $ref
// carried by the referenced definition survives so chained references keep
// resolving.
func mergeRefSpec(local, target map[string]any) map[string]any {
	merged := make(map[string]any, len(local)+len(target))
	for k, v := range target {
		if k == "quality" {
			continue
		}
		merged[k] = v
	}
	for k, v := range local {
		if k == "$ref" {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		merged[k] = v
	}
	var quality []any
	quality = appendQuality(quality, local["quality"])
	quality = appendQuality(quality, target["quality"])
	if len(quality) > 0 {
		merged["quality"] = quality
	}
	return merged
}

// appendQuality flattens a quality value onto dst. Rules appear either as
// a list of entries or as a single bare entry; both shapes concatenate.
func appendQuality(dst []any, v any) []any {
	if v == nil {
		return dst
	}
	if entries, ok := asSlice(v); ok {
		return append(dst, entries...)
	}
	return append(dst, v)
}
