package importer

import "fmt"

// Hard failures below abort a parse entirely. Soft diagnostics are
// contract.ParserError values accumulated on the success path instead.

// EmptyDocumentError is the hard failure for input that contains no
// document at all.
type EmptyDocumentError struct{}

func (e *EmptyDocumentError) Error() string { return "empty document" }

// DecodeError is the hard failure for text that is not valid YAML/JSON or
// whose root is not a mapping.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("invalid document: %v", e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }

// FormatError is the hard failure for a document whose detected dialect is
// missing its fundamentally required top-level shape (no models map, no
// columns array, no createTable anywhere). Nothing useful can be parsed
// past it.
type FormatError struct {
	Format  Format
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Format, e.Message)
}
