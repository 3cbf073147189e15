// Package importer turns data-contract schema documents into the canonical
// contract.Table model. Four source dialects are understood: Liquibase
// changelogs, the current tabular-contract standard (apiVersion v3.x), the
// legacy Data Contract Specification, and a legacy simple tabular form.
// One call parses one document into one table; iterating multi-table
// documents is the caller's job.
//
// Error handling is two-tier. Hard failures — malformed text, an empty
// document, a dialect missing its fundamental shape — abort with an error.
// Everything else is a soft diagnostic accumulated on the success path: a
// defect in one field never prevents the rest of the document from being
// usable.
package importer

import "github.com/pixie79/data-modelling-sdk-sub000/pkg/contract"

// Import parses one document held in data and returns the canonical table
// plus the soft diagnostics gathered along the way. The error is non-nil
// only when no table could be produced at all.
func Import(data []byte) (*contract.Table, []contract.ParserError, error) {
	root, err := decodeDocument(data)
	if err != nil {
		return nil, nil, err
	}
	return ImportDocument(root)
}

// ImportDocument parses an already-decoded document tree. The tree is
// treated as read-only; calls with distinct documents are safe to run
// concurrently.
func ImportDocument(root map[string]any) (*contract.Table, []contract.ParserError, error) {
	t, diags, err := parseAs(DetectFormat(root), root)
	if err != nil {
		return nil, nil, err
	}
	diags = append(diags, t.Validate()...)
	t.Errors = diags
	return t, t.AllErrors(), nil
}

// Detect decodes data just far enough to name its dialect.
func Detect(data []byte) (Format, error) {
	root, err := decodeDocument(data)
	if err != nil {
		return "", err
	}
	return DetectFormat(root), nil
}

func parseAs(format Format, root map[string]any) (*contract.Table, []contract.ParserError, error) {
	switch format {
	case FormatLiquibase:
		return parseLiquibase(root)
	case FormatODCS:
		return parseODCS(root)
	case FormatDataContractSpec:
		return parseDCS(root)
	default:
		return parseSimple(root)
	}
}
