package xgrammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaptinlin/xgrammar/ebnf"
)

func TestCompileEnumProducesOneLiteralPerValue(t *testing.T) {
	c := &compiler{}
	e, err := c.compileEnum([]any{float64(1), "two", nil})
	require.NoError(t, err)

	alt, ok := e.(*ebnf.Alt)
	require.True(t, ok)
	require.Len(t, alt.Items, 3)
	assert.Equal(t, `"1"`, alt.Items[0].String())
	assert.Equal(t, `"\"two\""`, alt.Items[1].String())
	assert.Equal(t, `"null"`, alt.Items[2].String())
}

func TestCompileConstProducesSingleLiteral(t *testing.T) {
	c := &compiler{}
	e, err := c.compileConst(map[string]any{"a": float64(1)})
	require.NoError(t, err)
	lit, ok := e.(*ebnf.Literal)
	require.True(t, ok)
	assert.Equal(t, `{"a":1}`, lit.Value)
}

func TestCompileAllOfRecordsNoteAndUsesFirstArm(t *testing.T) {
	c := &compiler{g: &ebnf.Grammar{}, names: map[*Schema]string{}, used: map[string]bool{}}
	for name := range ebnf.PreludeNames() {
		c.used[name] = true
	}
	arms := []*Schema{
		{Type: SchemaType{"integer"}},
		{Type: SchemaType{"string"}},
	}
	e, err := c.compileAllOf(arms, "root", 0)
	require.NoError(t, err)
	ref, ok := e.(*ebnf.RuleRef)
	require.True(t, ok)
	assert.Equal(t, "basic_integer", ref.Name)

	require.Len(t, c.notes, 1)
	assert.Equal(t, "root", c.notes[0].Path)
}

func TestCompileAnyOfAllocatesOneNamedRulePerArm(t *testing.T) {
	c := &compiler{g: &ebnf.Grammar{}, names: map[*Schema]string{}, used: map[string]bool{}}
	for name := range ebnf.PreludeNames() {
		c.used[name] = true
	}
	arms := []*Schema{
		{Type: SchemaType{"integer"}},
		{Type: SchemaType{"string"}},
	}
	e, err := c.compileAnyOf(arms, "root", 0)
	require.NoError(t, err)

	alt, ok := e.(*ebnf.Alt)
	require.True(t, ok)
	require.Len(t, alt.Items, 2)

	assert.True(t, c.g.HasRule("root_case_0"))
	assert.True(t, c.g.HasRule("root_case_1"))
}
