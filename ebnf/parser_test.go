package ebnf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGrammarRoundTripsThroughString(t *testing.T) {
	g := &Grammar{}
	g.AddRule("root", &Seq{Items: []Expr{
		&Literal{Value: "{"},
		&RuleRef{Name: "basic_string"},
		&Opt{Inner: &RuleRef{Name: "tail"}},
		&Literal{Value: "}"},
	}})
	g.AddRule("tail", &Alt{Items: []Expr{&Literal{Value: "a"}, &CharClass{Body: "0-9"}}})

	text := g.String()
	parsed, err := ParseGrammar(text)
	require.NoError(t, err)
	assert.Equal(t, text, parsed.String())
}

func TestParseGrammarHandlesQuantifiersAndLookahead(t *testing.T) {
	text := "root ::= (= \"a\") [0-9]+ \"x\"*\n"
	g, err := ParseGrammar(text)
	require.NoError(t, err)
	require.Len(t, g.Rules, 1)

	seq, ok := g.Rules[0].Body.(*Seq)
	require.True(t, ok)
	require.Len(t, seq.Items, 3)
	_, ok = seq.Items[0].(*Lookahead)
	assert.True(t, ok)
	_, ok = seq.Items[1].(*Plus)
	assert.True(t, ok)
	_, ok = seq.Items[2].(*Star)
	assert.True(t, ok)
}

func TestParseGrammarRejectsMissingDelimiter(t *testing.T) {
	_, err := ParseGrammar("root \"a\"\n")
	assert.Error(t, err)
}

func TestParseGrammarRejectsUndefinedTrailingGarbage(t *testing.T) {
	_, err := ParseGrammar("root ::= \"a\" )\n")
	assert.Error(t, err)
}

func TestParseGrammarEscapesRoundTrip(t *testing.T) {
	g := &Grammar{}
	g.AddRule("root", &Literal{Value: "line\nbreak\t\"quote\""})
	text := g.String()

	parsed, err := ParseGrammar(text)
	require.NoError(t, err)
	lit, ok := parsed.Rules[0].Body.(*Literal)
	require.True(t, ok)
	assert.Equal(t, "line\nbreak\t\"quote\"", lit.Value)
}
