package xgrammar

import (
	"math"

	"github.com/kaptinlin/xgrammar/ebnf"
)

// compileInteger implements integer bound compilation: minimum/maximum and
// their exclusive variants are folded into an inclusive [lo,hi] pair and
// handed to generateRangeRegex; an unbounded integer falls back to
// basic_integer, and an empty range (hi < lo) compiles to ebnf.Empty().
func (c *compiler) compileInteger(s *Schema) (ebnf.Expr, error) {
	lo, hi := integerBounds(s)
	if lo == nil && hi == nil {
		return &ebnf.RuleRef{Name: "basic_integer"}, nil
	}
	if lo != nil && hi != nil && *hi < *lo {
		return ebnf.Empty(), nil
	}
	re := generateRangeRegex(lo, hi)
	return ebnf.ParseRegexFragment(re)
}

// compileNumber always falls back to basic_number: range constraints on a
// number (as opposed to an integer) are not represented as a closed-form
// regex, per the decision recorded in the design document.
func (c *compiler) compileNumber(s *Schema) (ebnf.Expr, error) {
	return &ebnf.RuleRef{Name: "basic_number"}, nil
}

func integerBounds(s *Schema) (*int64, *int64) {
	var lo, hi *int64
	if s.Minimum != nil {
		v := int64(math.Ceil(*s.Minimum))
		lo = &v
	}
	if s.ExclusiveMinimum != nil {
		v := int64(math.Floor(*s.ExclusiveMinimum)) + 1
		if float64(v) <= *s.ExclusiveMinimum {
			v++
		}
		if lo == nil || v > *lo {
			lo = &v
		}
	}
	if s.Maximum != nil {
		v := int64(math.Floor(*s.Maximum))
		hi = &v
	}
	if s.ExclusiveMaximum != nil {
		v := int64(math.Ceil(*s.ExclusiveMaximum)) - 1
		if float64(v) >= *s.ExclusiveMaximum {
			v--
		}
		if hi == nil || v < *hi {
			hi = &v
		}
	}
	return lo, hi
}
