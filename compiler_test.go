package xgrammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileToEBNFRequiredIntegerProperty(t *testing.T) {
	schema := `{"type":"object","properties":{"a":{"type":"integer"}},"required":["a"]}`
	text, err := CompileToEBNF([]byte(schema), Options{StrictMode: true})
	require.NoError(t, err)

	var root string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "root ::= ") {
			root = strings.TrimPrefix(line, "root ::= ")
		}
	}
	require.NotEmpty(t, root)
	assert.Equal(t, `"{" "\"a\"" ": " basic_integer "}"`, root)
	assert.NotContains(t, text, "root_prop_0 ::=", "a bare-type property must inline, not get its own rule")
}

func TestCompileToEBNFSelfReferentialSchemaTerminates(t *testing.T) {
	schema := `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"children": {"type": "array", "items": {"$ref": "#"}}
		},
		"required": ["name"]
	}`
	text, err := CompileToEBNF([]byte(schema), Options{})
	require.NoError(t, err)
	assert.Contains(t, text, "root ::=")
	// the $ref "#" cycle must resolve back to "root" rather than spinning
	// off an unbounded chain of fresh rule names.
	assert.NotContains(t, text, "root_2")
}

func TestCompileToEBNFNonStrictEmptyObject(t *testing.T) {
	schema := `{"type":"object"}`
	text, err := CompileToEBNF([]byte(schema), Options{StrictMode: false})
	require.NoError(t, err)
	assert.Contains(t, text, `"{" "}"`)
}

func TestCompileToEBNFFalseSchemaIsUnsatisfiable(t *testing.T) {
	text, err := CompileToEBNF([]byte(`false`), Options{})
	require.NoError(t, err)
	assert.Contains(t, text, "root ::= ()")
}

func TestCompileToEBNFEnum(t *testing.T) {
	text, err := CompileToEBNF([]byte(`{"enum":[1,"two",null]}`), Options{})
	require.NoError(t, err)
	assert.Contains(t, text, `"1"`)
	assert.Contains(t, text, `"\"two\""`)
	assert.Contains(t, text, `"null"`)
}

func TestCompileToEBNFAnyOfUsesNamedCases(t *testing.T) {
	schema := `{"anyOf":[{"type":"integer"},{"type":"string"}]}`
	text, err := CompileToEBNF([]byte(schema), Options{})
	require.NoError(t, err)
	assert.Contains(t, text, "root_case_0")
	assert.Contains(t, text, "root_case_1")
}

func TestCheckKnownKeywordsRejectsUnknown(t *testing.T) {
	_, err := CompileToEBNF([]byte(`{"type":"object","notAKeyword":true}`), Options{StrictMode: true})
	assert.ErrorIs(t, err, ErrInvalidSchema)
}
