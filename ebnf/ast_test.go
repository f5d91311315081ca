package ebnf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrammarStringRendersOneRulePerLine(t *testing.T) {
	g := &Grammar{}
	g.AddRule("root", &Seq{Items: []Expr{&Literal{Value: "a"}, &RuleRef{Name: "tail"}}})
	g.AddRule("tail", &Literal{Value: "b"})

	assert.Equal(t, "root ::= \"a\" tail\ntail ::= \"b\"\n", g.String())
}

func TestHasRule(t *testing.T) {
	g := &Grammar{}
	g.AddRule("root", &Literal{Value: ""})
	assert.True(t, g.HasRule("root"))
	assert.False(t, g.HasRule("missing"))
}

func TestAltStringWrapsNestedSeq(t *testing.T) {
	alt := &Alt{Items: []Expr{
		&Seq{Items: []Expr{&Literal{Value: "a"}, &Literal{Value: "b"}}},
		&Literal{Value: "c"},
	}}
	assert.Equal(t, `("a" "b") | "c"`, alt.String())
}

func TestEmptyAltPrintsAsUnmatchable(t *testing.T) {
	assert.Equal(t, "()", Empty().String())
}

func TestQuoteLiteralEscapesControlCharacters(t *testing.T) {
	assert.Equal(t, `"a\nb\tc"`, QuoteLiteral("a\nb\tc"))
	assert.Equal(t, `"\u0001"`, QuoteLiteral("\x01"))
}

func TestOptStarPlusPrintParens(t *testing.T) {
	alt := &Alt{Items: []Expr{&Literal{Value: "a"}, &Literal{Value: "b"}}}
	assert.Equal(t, `("a" | "b")?`, (&Opt{Inner: alt}).String())
	assert.Equal(t, `"a"*`, (&Star{Inner: &Literal{Value: "a"}}).String())
	assert.Equal(t, `"a"+`, (&Plus{Inner: &Literal{Value: "a"}}).String())
}
