package importer

import "strings"

// typeScanner walks a type string byte by byte, tracking angle-bracket
// depth, parenthesis depth, and quote state so callers can recognise
// separators that sit at the top level of the string. A comma inside
// "STRUCT<a: INT, b: INT>", "DECIMAL(10,2)" or a quoted literal is never
// a top-level separator.
type typeScanner struct {
	input string
	pos   int
	depth int  // '<' minus '>'
	paren int  // '(' minus ')'
	quote byte // active quote byte, or 0
}

func newTypeScanner(input string) *typeScanner {
	return &typeScanner{input: input}
}

func (s *typeScanner) done() bool {
	return s.pos >= len(s.input)
}

// topLevel reports whether the scanner sits outside all nesting and quotes.
func (s *typeScanner) topLevel() bool {
	return s.depth == 0 && s.paren == 0 && s.quote == 0
}

// scan consumes one byte and updates nesting and quote state. Inside a
// quoted literal a doubled quote escapes itself.
func (s *typeScanner) scan() byte {
	ch := s.input[s.pos]
	s.pos++
	if s.quote != 0 {
		if ch == s.quote {
			if s.pos < len(s.input) && s.input[s.pos] == s.quote {
				s.pos++
			} else {
				s.quote = 0
			}
		}
		return ch
	}
	switch ch {
	case '\'', '"':
		s.quote = ch
	case '<':
		s.depth++
	case '>':
		if s.depth > 0 {
			s.depth--
		}
	case '(':
		s.paren++
	case ')':
		if s.paren > 0 {
			s.paren--
		}
	}
	return ch
}

// splitTopLevel splits s on commas that sit at the top level. Segments are
// trimmed; empty segments are dropped.
func splitTopLevel(s string) []string {
	var parts []string
	sc := newTypeScanner(s)
	start := 0
	for !sc.done() {
		pos := sc.pos
		if sc.scan() == ',' && sc.topLevel() {
			if part := strings.TrimSpace(s[start:pos]); part != "" {
				parts = append(parts, part)
			}
			start = sc.pos
		}
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		parts = append(parts, part)
	}
	return parts
}

// splitFieldDef splits one "name: TYPE" field definition at the first
// top-level colon.
func splitFieldDef(s string) (name, typ string, ok bool) {
	sc := newTypeScanner(s)
	for !sc.done() {
		pos := sc.pos
		if sc.scan() == ':' && sc.topLevel() {
			name = strings.TrimSpace(s[:pos])
			typ = strings.TrimSpace(s[pos+1:])
			return name, typ, name != "" && typ != ""
		}
	}
	return "", "", false
}

// hasFoldPrefix reports whether s starts with prefix, ignoring case.
func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// IsNestedTypeString reports whether s is an inline container type that the
// importer expands into child columns: STRUCT<...> or ARRAY<STRUCT<...>>.
// Writers use this to skip flattened children the next import re-derives.
func IsNestedTypeString(s string) bool {
	if payload, ok := typePayload(s, "ARRAY"); ok {
		_, ok = typePayload(payload, "STRUCT")
		return ok
	}
	_, ok := typePayload(s, "STRUCT")
	return ok
}

// typePayload extracts the bracketed payload of a container type string:
// typePayload("ARRAY<STRUCT<a: INT>>", "ARRAY") yields "STRUCT<a: INT>".
// The keyword match ignores case. The payload must be opened immediately
// after the keyword and closed by the matching '>' at the end of the
// string; anything else is not a container type.
func typePayload(s, keyword string) (string, bool) {
	s = strings.TrimSpace(s)
	if !hasFoldPrefix(s, keyword) {
		return "", false
	}
	rest := strings.TrimSpace(s[len(keyword):])
	if rest == "" || rest[0] != '<' {
		return "", false
	}
	depth := 0
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				if strings.TrimSpace(rest[i+1:]) != "" {
					return "", false
				}
				return rest[1:i], true
			}
		}
	}
	return "", false
}
