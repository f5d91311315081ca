package xgrammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ruleBodyOf(t *testing.T, text, name string) string {
	t.Helper()
	prefix := name + " ::= "
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimPrefix(line, prefix)
		}
	}
	t.Fatalf("rule %q not found in:\n%s", name, text)
	return ""
}

func TestCompileObjectMixedRequiredAndOptionalUsesPartChain(t *testing.T) {
	schema := `{
		"type": "object",
		"properties": {
			"a": {"type": "integer"},
			"b": {"type": "string"}
		},
		"required": ["a"]
	}`
	text, err := CompileToEBNF([]byte(schema), Options{StrictMode: true})
	require.NoError(t, err)
	assert.Contains(t, text, "root_part_1 ::=")
	assert.Contains(t, ruleBodyOf(t, text, "root_part_1"), `"\"b\""`)
}

func TestCompileObjectAllOptionalAlternatesFirstKey(t *testing.T) {
	schema := `{
		"type": "object",
		"properties": {
			"a": {"type": "integer"},
			"b": {"type": "string"}
		}
	}`
	text, err := CompileToEBNF([]byte(schema), Options{StrictMode: true})
	require.NoError(t, err)
	root := ruleBodyOf(t, text, "root")
	assert.Contains(t, root, `"\"a\""`)
	assert.Contains(t, root, `"\"b\""`)
}

// TestCompileObjectAllOptionalBranchReachesSecondDistinctKey guards the
// part-chain tail wiring: the branch that emits the first declared optional
// key must continue into the chain covering the *remaining* keys, not
// loop back into a rule that re-emits the key just written. With three
// optional properties, a branch starting with the first key must still be
// able to reach the last one.
func TestCompileObjectAllOptionalBranchReachesSecondDistinctKey(t *testing.T) {
	schema := `{
		"type": "object",
		"properties": {
			"a": {"type": "integer"},
			"b": {"type": "integer"},
			"c": {"type": "integer"}
		}
	}`
	text, err := CompileToEBNF([]byte(schema), Options{StrictMode: true})
	require.NoError(t, err)

	root := ruleBodyOf(t, text, "root")
	assert.Contains(t, root, "root_part_2",
		`the branch that emits "a" first must continue with the chain for the remaining keys (part_2), not loop back into part_1`)
	assert.NotContains(t, root, "root_part_1",
		`part_1 re-emits "a" and must only be reachable via the non-strict lead-in, not right after "a" itself`)

	tailAfterA := ruleBodyOf(t, text, "root_part_2")
	assert.NotContains(t, tailAfterA, `"\"a\""`,
		`the chain reached after emitting "a" must not re-emit "a"`)
	assert.Contains(t, tailAfterA, `"\"b\""`)
	assert.Contains(t, tailAfterA, "root_part_3",
		`the chain reached after emitting "a" must still be able to reach "c" via part_3`)
	assert.Contains(t, ruleBodyOf(t, text, "root_part_3"), `"\"c\""`)
}

func TestCompileObjectAdditionalPropertiesFalseRejectsExtraKeys(t *testing.T) {
	schema := `{
		"type": "object",
		"properties": {"a": {"type": "integer"}},
		"required": ["a"],
		"additionalProperties": false
	}`
	text, err := CompileToEBNF([]byte(schema), Options{})
	require.NoError(t, err)
	root := ruleBodyOf(t, text, "root")
	assert.NotContains(t, root, "basic_string")
}

func TestCompileObjectAdditionalPropertiesSchemaGetsNamedRule(t *testing.T) {
	schema := `{
		"type": "object",
		"properties": {"a": {"type": "integer"}},
		"required": ["a"],
		"additionalProperties": {"type": "boolean"}
	}`
	text, err := CompileToEBNF([]byte(schema), Options{})
	require.NoError(t, err)
	assert.Contains(t, text, "root_addl ::= basic_boolean")
}

func TestCompileObjectNonStrictEmptyPropertiesAllowsEmptyObject(t *testing.T) {
	schema := `{"type": "object", "properties": {"a": {"type": "integer"}}}`
	text, err := CompileToEBNF([]byte(schema), Options{StrictMode: false})
	require.NoError(t, err)
	// every declared property is optional here, so the non-strict
	// "any extra key" lead-in and bare "{}" alternatives should appear.
	assert.Contains(t, text, `"{" "}"`)
}
