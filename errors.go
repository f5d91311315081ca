package xgrammar

import (
	"errors"
	"fmt"
)

// === Schema Compilation Related Errors ===
var (
	// ErrInvalidSchema is returned for malformed JSON, an unknown keyword
	// under strict mode, or an invalid $ref target.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrUnsupportedSchema is the sentinel UnsupportedSchemaError unwraps
	// to. The compiler does not return it: keywords outside the recognized
	// subset are ignored, or rejected with ErrInvalidSchema in strict mode.
	ErrUnsupportedSchema = errors.New("unsupported schema construct")

	// ErrReferenceResolution is returned when a $ref cannot be resolved
	// against the root schema.
	ErrReferenceResolution = errors.New("reference resolution failed")

	// ErrJSONPointerSegmentNotFound is returned when a JSON Pointer
	// segment has no corresponding subschema.
	ErrJSONPointerSegmentNotFound = errors.New("json pointer segment not found")
)

// === Grammar Loading Related Errors ===
var (
	// ErrGrammarParse is returned when EBNF text cannot be parsed back
	// into the rule table.
	ErrGrammarParse = errors.New("grammar parse error")

	// ErrUndefinedRule is returned when a rule reference has no matching
	// definition in the grammar.
	ErrUndefinedRule = errors.New("undefined rule reference")

	// ErrNoRootRule is returned when a grammar has no "root" rule.
	ErrNoRootRule = errors.New("grammar has no root rule")
)

// UnsupportedSchemaError names the offending keyword and its location
// (a JSON Pointer into the schema document) for diagnostics.
type UnsupportedSchemaError struct {
	Keyword  string
	Location string
}

func (e *UnsupportedSchemaError) Error() string {
	return fmt.Sprintf("unsupported schema construct %q at %s", e.Keyword, e.Location)
}

func (e *UnsupportedSchemaError) Unwrap() error { return ErrUnsupportedSchema }

// GrammarParseError carries the byte offset and a message describing why
// EBNF text failed to parse.
type GrammarParseError struct {
	Offset  int
	Message string
}

func (e *GrammarParseError) Error() string {
	return fmt.Sprintf("grammar parse error at byte %d: %s", e.Offset, e.Message)
}

func (e *GrammarParseError) Unwrap() error { return ErrGrammarParse }
