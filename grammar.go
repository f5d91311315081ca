package xgrammar

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/kaptinlin/xgrammar/ebnf"
)

// Grammar is the compiled-from-schema facade: the EBNF text plus any
// diagnostic notes produced along the way (e.g. an allOf arm that could
// only be approximated).
type Grammar struct {
	Text  string
	Notes []GrammarNote
}

// FromJSONSchema compiles schemaJSON under opts and returns g populated
// with the resulting grammar text, for callers that want the Grammar value
// itself rather than a bare string.
func (g *Grammar) FromJSONSchema(schemaJSON []byte, opts Options) (*Grammar, error) {
	compiled, notes, err := compileGrammar(schemaJSON, opts)
	if err != nil {
		return nil, err
	}
	g.Text = compiled.String()
	g.Notes = notes
	return g, nil
}

// CompiledGrammar is a parsed, validated grammar ready for matching: its
// rule table plus a name index and precomputed nullability, so the matcher
// never has to walk rule names at match time.
type CompiledGrammar struct {
	ID        string
	Grammar   *ebnf.Grammar
	ruleIndex map[string]int
	nullable  map[string]bool
	info      *TokenizerInfo
}

// TokenizerInfo returns the vocabulary this grammar's GrammarCompiler was
// constructed with, which a GrammarMatcher consults for AcceptToken and
// FillNextTokenBitmask.
func (cg *CompiledGrammar) TokenizerInfo() *TokenizerInfo { return cg.info }

// RuleIndex returns the position of the named rule in Grammar.Rules.
func (cg *CompiledGrammar) RuleIndex(name string) (int, bool) {
	idx, ok := cg.ruleIndex[name]
	return idx, ok
}

// IsNullable reports whether the named rule can match the empty string.
func (cg *CompiledGrammar) IsNullable(name string) bool { return cg.nullable[name] }

// GrammarCompiler turns EBNF text into CompiledGrammar values, memoizing
// results by source text when cacheEnabled so a repeatedly-used grammar
// (e.g. one schema shared across a batch of requests) is parsed once.
type GrammarCompiler struct {
	info         *TokenizerInfo
	cacheEnabled bool

	mu    sync.Mutex
	cache map[string]*CompiledGrammar
}

// NewGrammarCompiler returns a GrammarCompiler bound to info, the
// vocabulary the resulting matchers will project bitmasks over.
func NewGrammarCompiler(info *TokenizerInfo, cacheEnabled bool) *GrammarCompiler {
	c := &GrammarCompiler{info: info, cacheEnabled: cacheEnabled}
	if cacheEnabled {
		c.cache = make(map[string]*CompiledGrammar)
	}
	return c
}

// CompileGrammar parses ebnfText, validates every rule reference resolves
// and a "root" rule exists, and returns the resulting CompiledGrammar.
func (c *GrammarCompiler) CompileGrammar(ebnfText string) (*CompiledGrammar, error) {
	if c.cacheEnabled {
		c.mu.Lock()
		if cg, ok := c.cache[ebnfText]; ok {
			c.mu.Unlock()
			return cg, nil
		}
		c.mu.Unlock()
	}

	g, err := ebnf.ParseGrammar(ebnfText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGrammarParse, err)
	}

	index := make(map[string]int, len(g.Rules))
	for i, r := range g.Rules {
		index[r.Name] = i
	}
	if _, ok := index["root"]; !ok {
		return nil, ErrNoRootRule
	}
	if err := validateRuleRefs(g, index); err != nil {
		return nil, err
	}

	nullable := computeNullable(g, index)

	cg := &CompiledGrammar{
		ID:        uuid.NewString(),
		Grammar:   g,
		ruleIndex: index,
		nullable:  nullable,
		info:      c.info,
	}
	if c.cacheEnabled {
		c.mu.Lock()
		c.cache[ebnfText] = cg
		c.mu.Unlock()
	}
	return cg, nil
}

func validateRuleRefs(g *ebnf.Grammar, index map[string]int) error {
	var walk func(e ebnf.Expr) error
	walk = func(e ebnf.Expr) error {
		switch v := e.(type) {
		case *ebnf.RuleRef:
			if _, ok := index[v.Name]; !ok {
				return fmt.Errorf("%w: %q", ErrUndefinedRule, v.Name)
			}
		case *ebnf.Seq:
			for _, it := range v.Items {
				if err := walk(it); err != nil {
					return err
				}
			}
		case *ebnf.Alt:
			for _, it := range v.Items {
				if err := walk(it); err != nil {
					return err
				}
			}
		case *ebnf.Opt:
			return walk(v.Inner)
		case *ebnf.Star:
			return walk(v.Inner)
		case *ebnf.Plus:
			return walk(v.Inner)
		case *ebnf.Lookahead:
			return walk(v.Inner)
		}
		return nil
	}
	for _, r := range g.Rules {
		if r.Body == nil {
			return fmt.Errorf("%w: rule %q has no body", ErrGrammarParse, r.Name)
		}
		if err := walk(r.Body); err != nil {
			return err
		}
	}
	return nil
}

// computeNullable runs the textbook fixed-point iteration over the rule
// graph until no rule's nullability changes.
func computeNullable(g *ebnf.Grammar, index map[string]int) map[string]bool {
	nullable := make(map[string]bool, len(g.Rules))
	var exprNullable func(e ebnf.Expr) bool
	exprNullable = func(e ebnf.Expr) bool {
		switch v := e.(type) {
		case *ebnf.Literal:
			return v.Value == ""
		case *ebnf.CharClass:
			return false
		case *ebnf.RuleRef:
			return nullable[v.Name]
		case *ebnf.Seq:
			for _, it := range v.Items {
				if !exprNullable(it) {
					return false
				}
			}
			return true
		case *ebnf.Alt:
			for _, it := range v.Items {
				if exprNullable(it) {
					return true
				}
			}
			return false
		case *ebnf.Opt, *ebnf.Star:
			return true
		case *ebnf.Plus:
			return exprNullable(v.Inner)
		case *ebnf.Lookahead:
			return true
		default:
			return false
		}
	}

	for changed := true; changed; {
		changed = false
		for _, r := range g.Rules {
			if nullable[r.Name] {
				continue
			}
			if exprNullable(r.Body) {
				nullable[r.Name] = true
				changed = true
			}
		}
	}
	return nullable
}
