package importer

import "strings"

// containerKeywords are the type constructors whose bracketed payload is
// preserved verbatim by NormalizeType.
var containerKeywords = map[string]bool{
	"STRUCT": true,
	"ARRAY":  true,
	"MAP":    true,
}

// NormalizeType canonicalizes a logical type string. Scalar types are
// uppercased ("int" -> "INT"). Container types keep their bracketed inner
// text exactly as written and only the keyword is uppercased
// ("struct<a: int>" -> "STRUCT<a: int>"). The empty string passes through.
// NormalizeType is idempotent.
func NormalizeType(s string) string {
	if s == "" {
		return s
	}
	if idx := strings.IndexByte(s, '<'); idx > 0 {
		head := strings.ToUpper(strings.TrimSpace(s[:idx]))
		if containerKeywords[head] {
			return head + s[idx:]
		}
	}
	return strings.ToUpper(s)
}
