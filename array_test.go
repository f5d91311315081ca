package xgrammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileArrayNoItemsFallsBackToBasicArray(t *testing.T) {
	text, err := CompileToEBNF([]byte(`{"type":"array"}`), Options{})
	require.NoError(t, err)
	assert.Contains(t, text, "root ::= basic_array")
}

func TestCompileArrayTupleWithHomogeneousTail(t *testing.T) {
	schema := `{
		"type": "array",
		"prefixItems": [{"type": "integer"}, {"type": "string"}],
		"items": {"type": "boolean"}
	}`
	text, err := CompileToEBNF([]byte(schema), Options{})
	require.NoError(t, err)
	root := ruleBodyOf(t, text, "root")
	assert.Contains(t, root, "basic_integer")
	assert.Contains(t, root, "basic_string")
	assert.Contains(t, root, "basic_boolean")
	assert.Contains(t, root, "*")
}

func TestCompileArrayHomogeneousMinItemsRequiresAtLeastOne(t *testing.T) {
	schema := `{"type": "array", "items": {"type": "integer"}, "minItems": 2}`
	text, err := CompileToEBNF([]byte(schema), Options{})
	require.NoError(t, err)
	root := ruleBodyOf(t, text, "root")
	assert.NotContains(t, root, `"[" "]"`, "minItems>0 must not admit the empty array")
}

func TestCompileArrayHomogeneousMinItemsZeroAllowsEmpty(t *testing.T) {
	schema := `{"type": "array", "items": {"type": "integer"}}`
	text, err := CompileToEBNF([]byte(schema), Options{})
	require.NoError(t, err)
	root := ruleBodyOf(t, text, "root")
	assert.Contains(t, root, `"[" "]"`)
}

func TestCompileArrayHomogeneousMaxItemsBoundsTail(t *testing.T) {
	schema := `{"type": "array", "items": {"type": "integer"}, "minItems": 1, "maxItems": 2}`
	text, err := CompileToEBNF([]byte(schema), Options{})
	require.NoError(t, err)
	root := ruleBodyOf(t, text, "root")
	assert.Contains(t, root, "?")
	assert.NotContains(t, root, "*", "a bounded maxItems tail must not use unbounded Star")
}
