package xgrammar

import (
	"fmt"
	"strconv"

	"github.com/go-json-experiment/json"
	"github.com/kaptinlin/xgrammar/ebnf"
)

// Options configures a single compile: the whitespace/separator policy and
// whether unknown keywords are a hard error.
type Options struct {
	AnyWhitespace bool
	Indent        *int
	Separators    Separators
	StrictMode    bool
}

// GrammarNote is a non-fatal diagnostic emitted alongside a compiled
// grammar, e.g. when an allOf intersection could not be represented
// exactly and the compiler fell back to its first arm.
type GrammarNote struct {
	Path    string
	Message string
}

// compiler holds the state threaded through one schema-to-grammar compile:
// the rule table under construction, the $ref/cycle memo, and the resolved
// whitespace policy.
type compiler struct {
	root   *Schema
	g      *ebnf.Grammar
	names  map[*Schema]string
	used   map[string]bool
	ws     wsPolicy
	strict bool
	notes  []GrammarNote
}

// CompileToEBNF translates schemaJSON into EBNF text under opts.
func CompileToEBNF(schemaJSON []byte, opts Options) (string, error) {
	g, _, err := compileGrammar(schemaJSON, opts)
	if err != nil {
		return "", err
	}
	return g.String(), nil
}

func compileGrammar(schemaJSON []byte, opts Options) (*ebnf.Grammar, []GrammarNote, error) {
	var root Schema
	if err := json.Unmarshal(schemaJSON, &root); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if opts.StrictMode {
		if err := checkKnownKeywords(&root); err != nil {
			return nil, nil, err
		}
	}

	c := &compiler{
		root:   &root,
		g:      &ebnf.Grammar{},
		names:  map[*Schema]string{},
		used:   map[string]bool{},
		ws:     newWsPolicy(opts),
		strict: opts.StrictMode,
	}
	for name := range ebnf.PreludeNames() {
		c.used[name] = true
	}
	c.g.Rules = append(c.g.Rules, ebnf.Prelude(opts.StrictMode)...)

	c.names[&root] = "root"
	c.used["root"] = true
	idx := c.reserveRule("root")
	body, err := c.compileNode(&root, "root", 0)
	if err != nil {
		return nil, nil, err
	}
	c.g.Rules[idx].Body = body

	return c.g, c.notes, nil
}

// checkKnownKeywords walks s and its subschemas, returning InvalidSchema if
// any node carries an unrecognized keyword.
func checkKnownKeywords(s *Schema) error {
	if s == nil || s.Boolean != nil {
		return nil
	}
	if len(s.Extra) > 0 {
		for k := range s.Extra {
			return fmt.Errorf("%w: unknown keyword %q", ErrInvalidSchema, k)
		}
	}
	var children []*Schema
	if s.Properties != nil {
		for _, v := range *s.Properties {
			children = append(children, v)
		}
	}
	children = append(children, s.Items, s.AdditionalProperties, s.UnevaluatedProperties, s.UnevaluatedItems)
	children = append(children, s.PrefixItems...)
	children = append(children, s.AnyOf...)
	children = append(children, s.OneOf...)
	children = append(children, s.AllOf...)
	for _, d := range s.Defs {
		children = append(children, d)
	}
	for _, child := range children {
		if err := checkKnownKeywords(child); err != nil {
			return err
		}
	}
	return nil
}

// reserveRule appends a placeholder rule named name and returns its index,
// so a cyclic reference encountered while compiling its body can resolve
// to name immediately, before the body itself is known.
func (c *compiler) reserveRule(name string) int {
	c.g.Rules = append(c.g.Rules, ebnf.Rule{Name: name})
	return len(c.g.Rules) - 1
}

// freshName returns base if unused, otherwise base suffixed with an
// incrementing counter, preserving the rule-name-uniqueness invariant.
func (c *compiler) freshName(base string) string {
	if !c.used[base] {
		c.used[base] = true
		return base
	}
	for i := 2; ; i++ {
		candidate := base + "_" + strconv.Itoa(i)
		if !c.used[candidate] {
			c.used[candidate] = true
			return candidate
		}
	}
}

// compileNode compiles s into an inline expression. path is this node's
// naming-discipline path, used only if s turns out to need its own rule
// (objects, arrays, combinator arms, $ref targets); depth is the nesting
// depth for indent-mode whitespace.
func (c *compiler) compileNode(s *Schema, path string, depth int) (ebnf.Expr, error) {
	if s.IsFalse() {
		return ebnf.Empty(), nil
	}
	if s.Ref != "" {
		return c.compileRef(s, depth)
	}
	if len(s.Enum) > 0 {
		return c.compileEnum(s.Enum)
	}
	if s.Const != nil && s.Const.IsSet {
		return c.compileConst(s.Const.Value)
	}
	if len(s.AnyOf) > 0 {
		return c.compileAnyOf(s.AnyOf, path, depth)
	}
	if len(s.OneOf) > 0 {
		return c.compileAnyOf(s.OneOf, path, depth)
	}
	if len(s.AllOf) > 0 {
		return c.compileAllOf(s.AllOf, path, depth)
	}
	if s.IsTrue() {
		return &ebnf.RuleRef{Name: "basic_any"}, nil
	}

	// SchemaType.Has is true for every name when "type" is absent, so the
	// cases below test it only for an explicit type; an untyped schema is
	// classified by its structural keywords alone.
	typed := func(name string) bool { return len(s.Type) > 0 && s.Type.Has(name) }
	switch {
	case typed("object") || s.Properties != nil || s.Required != nil:
		return c.compileObject(s, path, depth)
	case typed("array") || s.Items != nil || s.PrefixItems != nil:
		return c.compileArray(s, path, depth)
	case typed("string"):
		return c.compileString(s)
	case typed("integer"):
		return c.compileInteger(s)
	case typed("number"):
		return c.compileNumber(s)
	case typed("boolean"):
		return &ebnf.RuleRef{Name: "basic_boolean"}, nil
	case typed("null"):
		return &ebnf.RuleRef{Name: "basic_null"}, nil
	default:
		return &ebnf.RuleRef{Name: "basic_any"}, nil
	}
}

// compileNamed compiles s as the body of a fresh rule named path and
// returns a reference to it, used wherever the naming discipline always
// allocates a sub-rule (combinator arms, additional-property value schemas)
// regardless of how simple the body turns out to be.
func (c *compiler) compileNamed(s *Schema, path string, depth int) (*ebnf.RuleRef, error) {
	name := c.freshName(path)
	idx := c.reserveRule(name)
	body, err := c.compileNode(s, name, depth)
	if err != nil {
		return nil, err
	}
	c.g.Rules[idx].Body = body
	return &ebnf.RuleRef{Name: name}, nil
}

// compileInline compiles s for use as a property value or array item: if
// the result is already a bare reference or literal it is spliced in
// directly (as in "a": integer -> basic_integer with no extra rule);
// otherwise it is promoted to its own named rule.
func (c *compiler) compileInline(s *Schema, path string, depth int) (ebnf.Expr, error) {
	body, err := c.compileNode(s, path, depth)
	if err != nil {
		return nil, err
	}
	switch body.(type) {
	case *ebnf.RuleRef, *ebnf.Literal:
		return body, nil
	default:
		name := c.freshName(path)
		idx := c.reserveRule(name)
		c.g.Rules[idx].Body = body
		return &ebnf.RuleRef{Name: name}, nil
	}
}

func quoteKey(key string) string {
	return ebnf.QuoteLiteral(key)
}

func lit(s string) *ebnf.Literal { return &ebnf.Literal{Value: s} }
