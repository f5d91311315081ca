package xgrammar

import (
	"strings"

	"github.com/kaptinlin/xgrammar/ebnf"
)

// compileRef implements $ref compilation. The resolved target schema is
// looked up in c.names first: if present, the reference is either a repeat
// visit or part of a cycle, and the existing rule name is reused directly.
// Otherwise a name is reserved and registered in c.names *before* the
// target's body is compiled, so a cycle reached while compiling that body
// resolves back to this same name instead of recursing forever.
func (c *compiler) compileRef(s *Schema, depth int) (ebnf.Expr, error) {
	target, err := resolveRef(c.root, s.Ref)
	if err != nil {
		return nil, err
	}

	if name, ok := c.names[target]; ok {
		return &ebnf.RuleRef{Name: name}, nil
	}

	name := c.freshName(nameForRef(s.Ref))
	idx := c.reserveRule(name)
	c.names[target] = name

	body, err := c.compileNode(target, name, depth)
	if err != nil {
		return nil, err
	}
	c.g.Rules[idx].Body = body
	return &ebnf.RuleRef{Name: name}, nil
}

// nameForRef derives a rule name from a $ref pointer, preferring the final
// path segment (e.g. "#/$defs/Node" -> "defs_Node") and falling back to a
// generic name for pointers with no usable tail segment (e.g. "#").
func nameForRef(ref string) string {
	ref = strings.TrimPrefix(ref, "#")
	ref = strings.TrimPrefix(ref, "/")
	if ref == "" {
		return "root"
	}
	segments := strings.Split(ref, "/")
	if len(segments) >= 2 {
		container, leaf := segments[len(segments)-2], segments[len(segments)-1]
		if container == "$defs" || container == "definitions" {
			return "defs_" + leaf
		}
	}
	return "ref_" + segments[len(segments)-1]
}
