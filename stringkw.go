package xgrammar

import (
	"github.com/kaptinlin/xgrammar/ebnf"
)

// compileString implements the string node-compilation rules: a plain
// string falls back to basic_string; a pattern and/or format keyword is
// parsed into a character-level expression via ebnf.ParseRegexFragment,
// and when both are present the two are combined so the value must
// satisfy both constraints simultaneously.
func (c *compiler) compileString(s *Schema) (ebnf.Expr, error) {
	if s.Pattern == nil && s.Format == nil {
		return &ebnf.RuleRef{Name: "basic_string"}, nil
	}

	var patternExpr, formatExpr ebnf.Expr
	if s.Pattern != nil {
		e, err := ebnf.ParseRegexFragment(*s.Pattern)
		if err != nil {
			return nil, err
		}
		patternExpr = e
	}
	if s.Format != nil {
		re, ok := formatRegexes[*s.Format]
		if !ok {
			return &ebnf.RuleRef{Name: "basic_string"}, nil
		}
		e, err := ebnf.ParseRegexFragment(re)
		if err != nil {
			return nil, err
		}
		formatExpr = e
	}

	var body ebnf.Expr
	switch {
	case patternExpr != nil && formatExpr != nil:
		// Both constraints must hold over the same character run: assert the
		// pattern via a non-consuming lookahead, then consume the
		// characters that satisfy the format.
		body = &ebnf.Seq{Items: []ebnf.Expr{&ebnf.Lookahead{Inner: patternExpr}, formatExpr}}
	case patternExpr != nil:
		body = patternExpr
	default:
		body = formatExpr
	}

	return &ebnf.Seq{Items: []ebnf.Expr{lit(`"`), body, lit(`"`)}}, nil
}
