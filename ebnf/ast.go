// Package ebnf holds the in-memory grammar representation shared by the
// schema compiler, the grammar loader, and the matcher: rules, terminals,
// repetitions, sequences, alternations, and their canonical text form.
package ebnf

import (
	"strconv"
	"strings"
)

// Expr is a node in an EBNF expression tree. The concrete types below are
// the only implementations; callers may type-switch exhaustively.
type Expr interface {
	ebnfExpr()
	String() string
}

// Literal is a fixed byte string, printed as a double-quoted JSON string.
type Literal struct {
	Value string
}

// CharClass is a `[...]` or negated `[^...]` character class. Ranges are
// stored as literal text between the brackets, already escaped.
type CharClass struct {
	Negated bool
	Body    string // e.g. `a-zA-Z0-9`
}

// RuleRef refers to another rule by name.
type RuleRef struct {
	Name string
}

// Seq is a concatenation of sub-expressions, in order.
type Seq struct {
	Items []Expr
}

// Alt is an alternation of sub-expressions.
type Alt struct {
	Items []Expr
}

// Opt makes its inner expression optional (`expr?`).
type Opt struct {
	Inner Expr
}

// Star is zero-or-more repetition (`expr*`).
type Star struct {
	Inner Expr
}

// Plus is one-or-more repetition (`expr+`).
type Plus struct {
	Inner Expr
}

// Lookahead is a non-consuming assertion `(= expr)`.
type Lookahead struct {
	Inner Expr
}

func (*Literal) ebnfExpr()   {}
func (*CharClass) ebnfExpr() {}
func (*RuleRef) ebnfExpr()   {}
func (*Seq) ebnfExpr()       {}
func (*Alt) ebnfExpr()       {}
func (*Opt) ebnfExpr()       {}
func (*Star) ebnfExpr()      {}
func (*Plus) ebnfExpr()      {}
func (*Lookahead) ebnfExpr() {}

// Rule is a single named production `name ::= body`.
type Rule struct {
	Name string
	Body Expr
}

// Grammar is an ordered list of rules, printed one per line in declaration
// order. By convention rule "root" is the entry point.
type Grammar struct {
	Rules []Rule
}

// AddRule appends a rule, returning its RuleRef for convenient chaining.
func (g *Grammar) AddRule(name string, body Expr) *RuleRef {
	g.Rules = append(g.Rules, Rule{Name: name, Body: body})
	return &RuleRef{Name: name}
}

// HasRule reports whether a rule with the given name already exists.
func (g *Grammar) HasRule(name string) bool {
	for _, r := range g.Rules {
		if r.Name == name {
			return true
		}
	}
	return false
}

// String renders the grammar in canonical text form: one rule per line,
// "name ::= expr\n".
func (g *Grammar) String() string {
	var b strings.Builder
	for _, r := range g.Rules {
		b.WriteString(r.Name)
		b.WriteString(" ::= ")
		b.WriteString(r.Body.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// QuoteLiteral renders s as a double-quoted EBNF string literal using the
// standard JSON escapes, the same escaping the basic_escape prelude rule
// recognizes on the way back in.
func QuoteLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				b.WriteString(`\u`)
				hex := strconv.FormatInt(int64(r), 16)
				for i := len(hex); i < 4; i++ {
					b.WriteByte('0')
				}
				b.WriteString(hex)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (l *Literal) String() string { return QuoteLiteral(l.Value) }

func (c *CharClass) String() string {
	if c.Negated {
		return "[^" + c.Body + "]"
	}
	return "[" + c.Body + "]"
}

func (r *RuleRef) String() string { return r.Name }

func (s *Seq) String() string {
	parts := make([]string, len(s.Items))
	for i, it := range s.Items {
		parts[i] = wrapIfNeeded(it)
	}
	return strings.Join(parts, " ")
}

func (a *Alt) String() string {
	if len(a.Items) == 0 {
		return "()"
	}
	parts := make([]string, len(a.Items))
	for i, it := range a.Items {
		parts[i] = wrapIfNeeded(it)
	}
	return strings.Join(parts, " | ")
}

func (o *Opt) String() string { return wrapIfNeeded(o.Inner) + "?" }
func (s *Star) String() string { return wrapIfNeeded(s.Inner) + "*" }
func (p *Plus) String() string { return wrapIfNeeded(p.Inner) + "+" }

func (l *Lookahead) String() string { return "(= " + l.Inner.String() + ")" }

// wrapIfNeeded parenthesizes sub-expressions whose top-level operator binds
// looser than the context they're printed in (Alt inside Seq, any compound
// expression as the operand of ?, *, +).
func wrapIfNeeded(e Expr) string {
	switch v := e.(type) {
	case *Alt:
		return "(" + v.String() + ")"
	case *Seq:
		if len(v.Items) > 1 {
			return "(" + v.String() + ")"
		}
		return v.String()
	default:
		return e.String()
	}
}

// Empty is the never-matching expression `()`: an alternation with zero
// alternatives. It is used for JSON Schema's `false` boolean schema and for
// rejected ranges.
func Empty() Expr { return &Alt{Items: nil} }

func (a *Alt) IsEmpty() bool { return len(a.Items) == 0 }

// EmptyString is the literal that always matches, consuming nothing.
func EmptyString() Expr { return &Literal{Value: ""} }
