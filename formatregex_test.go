package xgrammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaptinlin/xgrammar/ebnf"
)

func TestFormatRegexesAllParseAsFragments(t *testing.T) {
	for name, re := range formatRegexes {
		_, err := ebnf.ParseRegexFragment(re)
		assert.NoError(t, err, "format %q should parse as a regex fragment", name)
	}
}

func TestCompileToEBNFIPv4FormatProducesMatchableGrammar(t *testing.T) {
	schema := `{"type":"string","format":"ipv4"}`
	text, err := CompileToEBNF([]byte(schema), Options{})
	require.NoError(t, err)
	assert.Contains(t, text, "root ::=")
	// the generated body should reference digit/dot structure, not the
	// basic_string fallback, since "ipv4" is a supported format.
	assert.NotContains(t, text, "root ::= basic_string")
}

func TestCompileToEBNFUnsupportedFormatFallsBackToBasicString(t *testing.T) {
	schema := `{"type":"string","format":"made-up-format"}`
	text, err := CompileToEBNF([]byte(schema), Options{})
	require.NoError(t, err)
	assert.Contains(t, text, "root ::= basic_string")
}
