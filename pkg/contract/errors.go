package contract

import "fmt"

// ErrorType classifies a soft parse diagnostic.
type ErrorType string

// Diagnostic classifications.
const (
	// ErrorMissingField reports a field the dialect expects but the
	// document omits (e.g. a column entry with no name).
	ErrorMissingField ErrorType = "missing_field"
	// ErrorInvalidField reports a field whose value could not be used
	// (wrong shape, unknown enum value).
	ErrorInvalidField ErrorType = "invalid_field"
	// ErrorInvalidType reports a type string that could not be interpreted.
	ErrorInvalidType ErrorType = "invalid_type"
	// ErrorUnresolvedRef reports a $ref whose target does not exist in
	// the document; the column degrades to a placeholder.
	ErrorUnresolvedRef ErrorType = "unresolved_ref"
	// ErrorEmptySchema reports a present-but-empty schema section; the
	// table is returned with no columns.
	ErrorEmptySchema ErrorType = "empty_schema"
	// ErrorValidation reports a cross-field invariant violation.
	ErrorValidation ErrorType = "validation"
)

// ParserError is a soft diagnostic produced while parsing. It never aborts
// a parse: the parser records it and keeps going.
type ParserError struct {
	// Type classifies the problem.
	Type ErrorType
	// Field names the document field or column the problem concerns.
	Field string
	// Message is a human-readable description.
	Message string
}

// Error implements the error interface so diagnostics can flow through
// error-aware plumbing, though they are ordinarily carried as values.
func (e ParserError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Type, e.Field, e.Message)
}
