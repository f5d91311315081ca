// Package matcher implements incremental, byte-level recognition against a
// compiled grammar: a nondeterministic pushdown automaton whose state is a
// set of parse-stack threads, each advanced one input byte at a time.
package matcher

import (
	"strconv"
	"strings"

	"github.com/kaptinlin/xgrammar"
	"github.com/kaptinlin/xgrammar/ebnf"
)

// cont is a continuation frame: "match Expr, then continue with Next".
// Threads are linked lists of these, built and consumed like a call stack
// that never recurses on the Go stack itself.
type cont struct {
	expr ebnf.Expr
	next *cont
}

// GrammarMatcher tracks every live parse thread for one input stream
// against a single CompiledGrammar.
type GrammarMatcher struct {
	cg       *xgrammar.CompiledGrammar
	frontier []*cont // unresolved continuations, each starting at a byte-consuming or terminal position
}

// NewGrammarMatcher returns a matcher positioned at the start of cg's root
// rule.
func NewGrammarMatcher(cg *xgrammar.CompiledGrammar) *GrammarMatcher {
	m := &GrammarMatcher{cg: cg}
	m.Reset()
	return m
}

// Reset returns the matcher to its initial state, as if no input had been
// consumed.
func (m *GrammarMatcher) Reset() {
	root := m.ruleBody("root")
	m.frontier = closure([]*cont{{expr: root, next: nil}}, m.cg)
}

func (m *GrammarMatcher) ruleBody(name string) ebnf.Expr {
	idx, ok := m.cg.RuleIndex(name)
	if !ok {
		return ebnf.Empty()
	}
	return m.cg.Grammar.Rules[idx].Body
}

// closure expands every continuation in work through non-consuming steps
// (rule references, alternation, optional/star/plus unrolling, lookahead)
// until only byte-consuming or fully-matched ("accept") continuations
// remain. Accept states are represented by a nil expr.
func closure(work []*cont, cg *xgrammar.CompiledGrammar) []*cont {
	var out []*cont
	seen := map[string]bool{}
	var push func(c *cont)
	var visit func(c *cont)

	key := func(c *cont) string {
		var b strings.Builder
		for n := c; n != nil; n = n.next {
			if n.expr == nil {
				b.WriteString("<nil>;")
				continue
			}
			b.WriteString(n.expr.String())
			b.WriteByte(';')
		}
		return b.String()
	}

	push = func(c *cont) {
		k := key(c)
		if seen[k] {
			return
		}
		seen[k] = true
		visit(c)
	}

	visit = func(c *cont) {
		if c == nil || c.expr == nil {
			out = append(out, &cont{expr: nil, next: nil})
			return
		}
		switch v := c.expr.(type) {
		case *ebnf.Literal:
			if v.Value == "" {
				push(c.next)
				return
			}
			out = append(out, c)
		case *ebnf.CharClass:
			out = append(out, c)
		case *ebnf.RuleRef:
			idx, ok := cg.RuleIndex(v.Name)
			if !ok {
				return
			}
			push(&cont{expr: cg.Grammar.Rules[idx].Body, next: c.next})
		case *ebnf.Seq:
			push(chain(v.Items, c.next))
		case *ebnf.Alt:
			for _, it := range v.Items {
				push(&cont{expr: it, next: c.next})
			}
		case *ebnf.Opt:
			push(c.next)
			push(&cont{expr: v.Inner, next: c.next})
		case *ebnf.Star:
			push(c.next)
			push(&cont{expr: v.Inner, next: &cont{expr: v, next: c.next}})
		case *ebnf.Plus:
			push(&cont{expr: v.Inner, next: &cont{expr: &ebnf.Star{Inner: v.Inner}, next: c.next}})
		case *ebnf.Lookahead:
			if lookaheadAdmitsEmptyInput(v.Inner, cg) {
				push(c.next)
			}
		default:
			push(c.next)
		}
	}

	for _, c := range work {
		push(c)
	}
	return out
}

// chain builds a continuation for items followed by tail, right to left.
func chain(items []ebnf.Expr, tail *cont) *cont {
	c := tail
	for i := len(items) - 1; i >= 0; i-- {
		c = &cont{expr: items[i], next: c}
	}
	if c == nil {
		return &cont{expr: &ebnf.Literal{Value: ""}, next: nil}
	}
	return c
}

// lookaheadAdmitsEmptyInput decides whether a (= expr) lookahead lets
// matching continue. It admits every expr without consuming input, so a
// lookahead never rejects anything: the matcher has no backtracking buffer
// to run a true unbounded assertion against. This
// is the one place string pattern+format fusion trades completeness for
// incrementality; see the design notes.
func lookaheadAdmitsEmptyInput(e ebnf.Expr, cg *xgrammar.CompiledGrammar) bool {
	switch v := e.(type) {
	case *ebnf.Literal:
		return true
	case *ebnf.CharClass:
		return true
	case *ebnf.RuleRef:
		// A rule reference inside a lookahead is almost always a compiled
		// pattern/format rule that requires at least one byte, so nullability
		// is not a useful signal here; there is no backtracking buffer to
		// actually replay the referenced rule against what follows, so admit
		// unconditionally like the other leaf cases above.
		return true
	case *ebnf.Seq:
		if len(v.Items) == 0 {
			return true
		}
		return lookaheadAdmitsEmptyInput(v.Items[0], cg)
	case *ebnf.Alt:
		for _, it := range v.Items {
			if lookaheadAdmitsEmptyInput(it, cg) {
				return true
			}
		}
		return len(v.Items) == 0
	default:
		return true
	}
}

// acceptsByte reports whether the byte-consuming expr at the head of c
// matches b, and if so returns the continuation after consuming it.
func acceptsByte(c *cont, b byte) (*cont, bool) {
	switch v := c.expr.(type) {
	case *ebnf.Literal:
		if len(v.Value) == 0 || v.Value[0] != b {
			return nil, false
		}
		if len(v.Value) == 1 {
			return c.next, true
		}
		return &cont{expr: &ebnf.Literal{Value: v.Value[1:]}, next: c.next}, true
	case *ebnf.CharClass:
		if classMatches(v, b) {
			return c.next, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// decodeClassByte decodes one class-body character starting at body[i],
// which may be a bare byte or one of the escapes the compiler emits into
// CharClass bodies (\n, \t, \r, \\, \", \xNN). It returns the decoded byte
// value and the index of the first unconsumed byte after it.
func decodeClassByte(body string, i int) (byte, int) {
	if body[i] != '\\' || i+1 >= len(body) {
		return body[i], i + 1
	}
	switch body[i+1] {
	case 'n':
		return '\n', i + 2
	case 't':
		return '\t', i + 2
	case 'r':
		return '\r', i + 2
	case '\\':
		return '\\', i + 2
	case '"':
		return '"', i + 2
	case 'x':
		if i+4 <= len(body) {
			if v, err := strconv.ParseUint(body[i+2:i+4], 16, 8); err == nil {
				return byte(v), i + 4
			}
		}
		return 'x', i + 2
	default:
		return body[i+1], i + 2
	}
}

// classMatches interprets a CharClass body in the small dialect the
// compiler emits: escaped or bare characters, and ranges "lo-hi" where
// either endpoint may itself be escaped.
func classMatches(cc *ebnf.CharClass, b byte) bool {
	body := cc.Body
	matched := false
	for i := 0; i < len(body); {
		lo, next := decodeClassByte(body, i)
		if next < len(body) && body[next] == '-' && next+1 < len(body) {
			hi, after := decodeClassByte(body, next+1)
			if lo <= b && b <= hi {
				matched = true
			}
			i = after
			continue
		}
		if lo == b {
			matched = true
		}
		i = next
	}
	if cc.Negated {
		return !matched
	}
	return matched
}

// AcceptByte advances every live thread by one byte, replacing the
// frontier with the closure of the survivors. It reports whether at least
// one thread survived.
func (m *GrammarMatcher) AcceptByte(b byte) bool {
	var next []*cont
	for _, c := range m.frontier {
		if c.expr == nil {
			continue // terminal threads don't consume further input
		}
		if nc, ok := acceptsByte(c, b); ok {
			next = append(next, nc)
		}
	}
	if len(next) == 0 {
		return false
	}
	m.frontier = closure(next, m.cg)
	return true
}

// AcceptString feeds s one byte at a time, stopping at the first byte that
// no live thread accepts.
func (m *GrammarMatcher) AcceptString(s []byte) bool {
	for _, b := range s {
		if !m.AcceptByte(b) {
			return false
		}
	}
	return true
}

// AcceptToken feeds the byte string the compiled grammar's TokenizerInfo
// associates with id.
func (m *GrammarMatcher) AcceptToken(id int32) bool {
	info := m.cg.TokenizerInfo()
	if info == nil || int(id) < 0 || int(id) >= len(info.Vocab) {
		return false
	}
	return m.AcceptString(info.Vocab[id])
}

// IsTerminated reports whether the input so far fully matches the root
// rule on some thread, so end-of-sequence is acceptable here. Other threads
// may still accept further input (e.g. inside a trailing repetition).
func (m *GrammarMatcher) IsTerminated() bool {
	for _, c := range m.frontier {
		if c.expr == nil {
			return true
		}
	}
	return false
}

// nextByteSet returns the set of bytes that would keep at least one thread
// alive, used by bitmask projection to prune whole tokens in one check
// instead of replaying AcceptByte per candidate.
func (m *GrammarMatcher) nextByteSet() map[byte]bool {
	set := map[byte]bool{}
	for _, c := range m.frontier {
		switch v := c.expr.(type) {
		case *ebnf.Literal:
			if len(v.Value) > 0 {
				set[v.Value[0]] = true
			}
		case *ebnf.CharClass:
			for b := 0; b < 256; b++ {
				if classMatches(v, byte(b)) {
					set[byte(b)] = true
				}
			}
		}
	}
	return set
}

// snapshot and restore let the bitmask pass speculatively walk a token's
// bytes and back out without losing the matcher's real position.
func (m *GrammarMatcher) snapshot() []*cont { return append([]*cont(nil), m.frontier...) }
func (m *GrammarMatcher) restore(s []*cont) { m.frontier = s }
