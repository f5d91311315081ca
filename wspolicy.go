package xgrammar

import (
	"strings"

	"github.com/kaptinlin/xgrammar/ebnf"
)

// Separators overrides the default item and key/value separator strings.
// A zero value means "use the compact defaults".
type Separators struct {
	Item string // between array/object elements, e.g. ", "
	KV   string // between an object key and its value, e.g. ": "
}

func (s Separators) isZero() bool { return s.Item == "" && s.KV == "" }

// wsPolicy is the resolved whitespace/separator configuration for one
// compile, derived once from Options and consulted by every array/object
// production the compiler emits.
type wsPolicy struct {
	anyWhitespace bool
	indent        *int
	separators    Separators
}

func newWsPolicy(opts Options) wsPolicy {
	return wsPolicy{
		anyWhitespace: opts.AnyWhitespace,
		indent:        opts.Indent,
		separators:    opts.Separators,
	}
}

// anyWhitespaceClassBody is the inter-token whitespace run used whenever
// anyWhitespace is set: zero or more of space, newline, or tab.
const anyWhitespaceClassBody = ` \n\t`

// wsRun is the grammar node for "zero or more whitespace characters",
// spliced wherever anyWhitespace mode allows arbitrary padding.
func wsRun() ebnf.Expr {
	return &ebnf.Star{Inner: &ebnf.CharClass{Body: anyWhitespaceClassBody}}
}

// openWs returns the expression inserted between an opening bracket and the
// first element at the given nesting depth.
func (p wsPolicy) openWs(depth int) ebnf.Expr {
	switch {
	case p.anyWhitespace:
		return wsRun()
	case !p.separators.isZero():
		return lit("")
	case p.indent != nil:
		return lit("\n" + strings.Repeat(" ", *p.indent*(depth+1)))
	default:
		return lit("")
	}
}

// closeWs returns the expression inserted between the last element and the
// closing bracket at the given nesting depth.
func (p wsPolicy) closeWs(depth int) ebnf.Expr {
	switch {
	case p.anyWhitespace:
		return wsRun()
	case !p.separators.isZero():
		return lit("")
	case p.indent != nil:
		return lit("\n" + strings.Repeat(" ", *p.indent*depth))
	default:
		return lit("")
	}
}

// itemSep returns the separator expression between successive elements at
// the given nesting depth, including the comma itself: under anyWhitespace
// the comma is still mandatory, only the padding around it is arbitrary.
// depth is the depth of the elements, one more than that of their container,
// so in indent mode the padding equals the container's openWs.
func (p wsPolicy) itemSep(depth int) ebnf.Expr {
	switch {
	case p.anyWhitespace:
		return &ebnf.Seq{Items: []ebnf.Expr{wsRun(), lit(","), wsRun()}}
	case !p.separators.isZero():
		return lit(p.separators.Item)
	case p.indent != nil:
		return &ebnf.Seq{Items: []ebnf.Expr{lit(","), lit("\n" + strings.Repeat(" ", *p.indent*depth))}}
	default:
		return lit(", ")
	}
}

// kvSep returns the separator expression between an object key and its
// value, including the colon itself.
func (p wsPolicy) kvSep() ebnf.Expr {
	switch {
	case p.anyWhitespace:
		return &ebnf.Seq{Items: []ebnf.Expr{wsRun(), lit(":"), wsRun()}}
	case !p.separators.isZero():
		return lit(p.separators.KV)
	default:
		return lit(": ")
	}
}
