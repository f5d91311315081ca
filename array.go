package xgrammar

import (
	"strconv"

	"github.com/kaptinlin/xgrammar/ebnf"
)

// compileArray implements the three array forms: a tuple with prefixItems
// (and an optional homogeneous tail via items), a homogeneous array
// constrained only by items, and an unrestricted array that falls back to
// basic_array when neither items nor prefixItems is present.
func (c *compiler) compileArray(s *Schema, path string, depth int) (ebnf.Expr, error) {
	if len(s.PrefixItems) > 0 {
		return c.compileTupleArray(s, path, depth)
	}
	if s.Items != nil {
		return c.compileHomogeneousArray(s, path, depth)
	}
	return &ebnf.RuleRef{Name: "basic_array"}, nil
}

func (c *compiler) compileTupleArray(s *Schema, path string, depth int) (ebnf.Expr, error) {
	items := []ebnf.Expr{lit("["), c.ws.openWs(depth)}
	for i, sub := range s.PrefixItems {
		if i > 0 {
			items = append(items, c.ws.itemSep(depth+1))
		}
		v, err := c.compileInline(sub, path+"_item_"+strconv.Itoa(i), depth+1)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	if s.Items != nil {
		tailVal, err := c.compileInline(s.Items, path+"_item_"+strconv.Itoa(len(s.PrefixItems)), depth+1)
		if err != nil {
			return nil, err
		}
		items = append(items, &ebnf.Star{Inner: &ebnf.Seq{Items: []ebnf.Expr{
			c.ws.itemSep(depth + 1), tailVal,
		}}})
	}
	items = append(items, c.ws.closeWs(depth), lit("]"))
	return &ebnf.Seq{Items: items}, nil
}

func (c *compiler) compileHomogeneousArray(s *Schema, path string, depth int) (ebnf.Expr, error) {
	itemRef, err := c.compileInline(s.Items, path+"_item", depth+1)
	if err != nil {
		return nil, err
	}

	min := 0
	if s.MinItems != nil {
		min = *s.MinItems
	}
	var max *int
	if s.MaxItems != nil {
		max = s.MaxItems
	}
	tailCount := -1
	if max != nil {
		tailCount = *max - min
		if tailCount < 0 {
			tailCount = 0
		}
	}

	if min > 0 {
		body := []ebnf.Expr{itemRef}
		for i := 1; i < min; i++ {
			body = append(body, c.ws.itemSep(depth+1), itemRef)
		}
		if tailCount != 0 {
			body = append(body, optionalTail(c, itemRef, depth, tailCount))
		}
		return &ebnf.Seq{Items: []ebnf.Expr{
			lit("["), c.ws.openWs(depth), &ebnf.Seq{Items: body}, c.ws.closeWs(depth), lit("]"),
		}}, nil
	}

	// minItems == 0: either the empty array, or one mandatory item followed
	// by at most maxItems-1 further items (any number without maxItems).
	if tailCount == 0 {
		return &ebnf.Seq{Items: []ebnf.Expr{lit("["), lit("]")}}, nil
	}
	if tailCount > 0 {
		tailCount--
	}
	return &ebnf.Alt{Items: []ebnf.Expr{
		&ebnf.Seq{Items: []ebnf.Expr{lit("["), lit("]")}},
		&ebnf.Seq{Items: []ebnf.Expr{
			lit("["), c.ws.openWs(depth), itemRef, optionalTail(c, itemRef, depth, tailCount), c.ws.closeWs(depth), lit("]"),
		}},
	}}, nil
}

// optionalTail builds the continuation of separator-prefixed items that
// follows the mandatory items of a homogeneous array: zero or more items
// when tailCount is negative, otherwise at most tailCount items.
func optionalTail(c *compiler, itemRef ebnf.Expr, depth, tailCount int) ebnf.Expr {
	item := &ebnf.Seq{Items: []ebnf.Expr{c.ws.itemSep(depth + 1), itemRef}}
	if tailCount < 0 {
		return &ebnf.Star{Inner: item}
	}
	var opts []ebnf.Expr
	for i := 0; i < tailCount; i++ {
		opts = append(opts, &ebnf.Opt{Inner: item})
	}
	if len(opts) == 0 {
		return lit("")
	}
	if len(opts) == 1 {
		return opts[0]
	}
	return &ebnf.Seq{Items: opts}
}
