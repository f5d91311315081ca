package xgrammar

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/kaptinlin/xgrammar/ebnf"
)

// compileEnum compiles a JSON Schema "enum" into an alternation of the
// literal JSON encodings of its values.
func (c *compiler) compileEnum(values []any) (ebnf.Expr, error) {
	items := make([]ebnf.Expr, len(values))
	for i, v := range values {
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: enum value %d: %v", ErrInvalidSchema, i, err)
		}
		items[i] = lit(string(encoded))
	}
	return &ebnf.Alt{Items: items}, nil
}

// compileConst compiles a JSON Schema "const" into a single literal
// matching exactly the value's JSON encoding.
func (c *compiler) compileConst(v any) (ebnf.Expr, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: const value: %v", ErrInvalidSchema, err)
	}
	return lit(string(encoded)), nil
}

// compileAnyOf compiles anyOf/oneOf into an alternation over one named
// sub-rule per arm (<path>_case_<k>), per the naming discipline's rule that
// combinator arms always get their own rule regardless of simplicity.
func (c *compiler) compileAnyOf(arms []*Schema, path string, depth int) (ebnf.Expr, error) {
	items := make([]ebnf.Expr, len(arms))
	for i, arm := range arms {
		ref, err := c.compileNamed(arm, fmt.Sprintf("%s_case_%d", path, i), depth)
		if err != nil {
			return nil, err
		}
		items[i] = ref
	}
	return &ebnf.Alt{Items: items}, nil
}

// compileAllOf compiles allOf by taking only its first arm and recording a
// diagnostic note: a grammar cannot, in general, represent the intersection
// of several schemas exactly, so the first arm stands in as the closest
// sound (if not complete) approximation.
func (c *compiler) compileAllOf(arms []*Schema, path string, depth int) (ebnf.Expr, error) {
	c.notes = append(c.notes, GrammarNote{
		Path:    path,
		Message: "allOf compiled from its first arm only; remaining arms were not intersected",
	})
	return c.compileNode(arms[0], path, depth)
}
