package ebnf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegexFragmentLiteralSequence(t *testing.T) {
	e, err := ParseRegexFragment("abc")
	require.NoError(t, err)
	assert.Equal(t, `"a" "b" "c"`, e.String())
}

func TestParseRegexFragmentDigitShorthand(t *testing.T) {
	e, err := ParseRegexFragment(`\d+`)
	require.NoError(t, err)
	plus, ok := e.(*Plus)
	require.True(t, ok)
	cc, ok := plus.Inner.(*CharClass)
	require.True(t, ok)
	assert.Equal(t, "0-9", cc.Body)
	assert.False(t, cc.Negated)
}

func TestParseRegexFragmentAlternationAndGroup(t *testing.T) {
	e, err := ParseRegexFragment("(cat|dog)")
	require.NoError(t, err)
	alt, ok := e.(*Alt)
	require.True(t, ok)
	require.Len(t, alt.Items, 2)
}

func TestParseRegexFragmentBraceQuantifierExact(t *testing.T) {
	e, err := ParseRegexFragment(`a{3}`)
	require.NoError(t, err)
	seq, ok := e.(*Seq)
	require.True(t, ok)
	assert.Len(t, seq.Items, 3)
	for _, it := range seq.Items {
		lit, ok := it.(*Literal)
		require.True(t, ok)
		assert.Equal(t, "a", lit.Value)
	}
}

func TestParseRegexFragmentBraceQuantifierRange(t *testing.T) {
	e, err := ParseRegexFragment(`a{1,3}`)
	require.NoError(t, err)
	seq, ok := e.(*Seq)
	require.True(t, ok)
	// one mandatory copy plus two optional copies
	require.Len(t, seq.Items, 3)
	_, ok = seq.Items[0].(*Literal)
	assert.True(t, ok)
	_, ok = seq.Items[1].(*Opt)
	assert.True(t, ok)
	_, ok = seq.Items[2].(*Opt)
	assert.True(t, ok)
}

func TestParseRegexFragmentBraceQuantifierUnbounded(t *testing.T) {
	e, err := ParseRegexFragment(`a{2,}`)
	require.NoError(t, err)
	seq, ok := e.(*Seq)
	require.True(t, ok)
	require.Len(t, seq.Items, 3)
	_, ok = seq.Items[0].(*Literal)
	assert.True(t, ok)
	_, ok = seq.Items[1].(*Literal)
	assert.True(t, ok)
	_, ok = seq.Items[2].(*Star)
	assert.True(t, ok)
}

func TestParseRegexFragmentStripsAnchors(t *testing.T) {
	// ^ and $ are parsed as zero-width literals, so the anchors themselves
	// disappear from the matched text without changing what the fragment
	// matches.
	e, err := ParseRegexFragment("^abc$")
	require.NoError(t, err)
	assert.Equal(t, `"" "a" "b" "c" ""`, e.String())
}

func TestParseRegexFragmentRejectsUnterminatedGroup(t *testing.T) {
	_, err := ParseRegexFragment("(abc")
	assert.Error(t, err)
}
