package xgrammar

import (
	"sort"
	"strconv"

	"github.com/kaptinlin/xgrammar/ebnf"
)

// compileObject implements the object node-compilation rules: an
// all-required layout, a mixed required/optional layout using part_k
// continuation chains, and an all-optional layout that alternates over
// which declared key appears first.
func (c *compiler) compileObject(s *Schema, path string, depth int) (ebnf.Expr, error) {
	required := map[string]bool{}
	for _, r := range s.Required {
		required[r] = true
	}

	var keys []string
	if s.Properties != nil {
		for k := range *s.Properties {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys) // Go maps don't preserve declaration order, so keys go in sorted order.

	var reqKeys, optKeys []string
	for _, k := range keys {
		if required[k] {
			reqKeys = append(reqKeys, k)
		} else {
			optKeys = append(optKeys, k)
		}
	}

	allowAdditional, addlSchema := c.additionalPolicy(s)

	valExpr := func(key string, idx int) (ebnf.Expr, error) {
		sub := (*s.Properties)[key]
		return c.compileInline(sub, path+"_prop_"+strconv.Itoa(idx), depth+1)
	}

	addlLoop := func() ebnf.Expr {
		if !allowAdditional {
			return nil
		}
		var valueExpr ebnf.Expr = &ebnf.RuleRef{Name: "basic_any"}
		if addlSchema != nil {
			ref, err := c.compileNamed(addlSchema, path+"_addl", depth+1)
			if err == nil {
				valueExpr = ref
			}
		}
		return &ebnf.Star{Inner: &ebnf.Seq{Items: []ebnf.Expr{
			c.ws.itemSep(depth + 1),
			&ebnf.RuleRef{Name: "basic_string"}, c.ws.kvSep(), valueExpr,
		}}}
	}

	switch {
	case len(optKeys) == 0:
		items := []ebnf.Expr{lit("{"), c.ws.openWs(depth)}
		for i, k := range reqKeys {
			if i > 0 {
				items = append(items, c.ws.itemSep(depth+1))
			}
			v, err := valExpr(k, indexOf(keys, k))
			if err != nil {
				return nil, err
			}
			items = append(items, lit(quoteKey(k)), c.ws.kvSep(), v)
		}
		if loop := addlLoop(); loop != nil {
			if len(reqKeys) == 0 {
				// No declared key precedes the additional ones, so the first
				// additional pair takes no leading separator.
				pair := loop.(*ebnf.Star).Inner.(*ebnf.Seq).Items[1:]
				first := append(append([]ebnf.Expr{}, pair...), loop)
				loop = &ebnf.Opt{Inner: &ebnf.Seq{Items: first}}
			}
			items = append(items, loop)
		}
		items = append(items, c.ws.closeWs(depth), lit("}"))
		alts := []ebnf.Expr{&ebnf.Seq{Items: items}}
		if !c.strict && len(reqKeys) == 0 {
			alts = append(alts, &ebnf.Seq{Items: []ebnf.Expr{lit("{"), lit("}")}})
		}
		return orSingle(alts), nil

	case len(reqKeys) > 0:
		partChain, err := c.buildPartChain(s, optKeys, keys, path, depth, addlLoop())
		if err != nil {
			return nil, err
		}
		items := []ebnf.Expr{lit("{"), c.ws.openWs(depth)}
		for i, k := range reqKeys {
			if i > 0 {
				items = append(items, c.ws.itemSep(depth+1))
			}
			v, err := valExpr(k, indexOf(keys, k))
			if err != nil {
				return nil, err
			}
			items = append(items, lit(quoteKey(k)), c.ws.kvSep(), v)
		}
		items = append(items, partChain, c.ws.closeWs(depth), lit("}"))
		return &ebnf.Seq{Items: items}, nil

	default:
		return c.compileAllOptionalObject(s, optKeys, keys, path, depth, allowAdditional, addlSchema)
	}
}

// buildPartChain builds the part_1..part_n rule chain threading the
// optional keys (in sorted key order; the schema's declaration order is not
// kept) after the required keys, and returns a
// reference to the head of the chain (or an empty literal if there are no
// optional keys). addl, if non-nil, is spliced into the terminal "stop"
// branch so additional properties remain reachable after every optional
// key subset.
func (c *compiler) buildPartChain(s *Schema, optKeys, allKeys []string, path string, depth int, addl ebnf.Expr) (ebnf.Expr, error) {
	if len(optKeys) == 0 {
		if addl != nil {
			return addl, nil
		}
		return lit(""), nil
	}

	names := make([]string, len(optKeys))
	for i := range optKeys {
		names[i] = c.freshName(path + "_part_" + strconv.Itoa(i+1))
	}
	indices := make([]int, len(optKeys))
	for i, k := range optKeys {
		indices[i] = c.reserveRule(names[i])
	}

	for i := len(optKeys) - 1; i >= 0; i-- {
		k := optKeys[i]
		v, err := c.compileInline((*s.Properties)[k], path+"_prop_"+strconv.Itoa(indexOf(allKeys, k)), depth+1)
		if err != nil {
			return nil, err
		}
		var stop ebnf.Expr = lit("")
		if addl != nil {
			stop = addl
		}
		cont := ebnf.Expr(&ebnf.Seq{Items: []ebnf.Expr{
			c.ws.itemSep(depth + 1), lit(quoteKey(k)), c.ws.kvSep(), v,
		}})
		if i < len(optKeys)-1 {
			cont = &ebnf.Seq{Items: []ebnf.Expr{cont, &ebnf.RuleRef{Name: names[i+1]}}}
		} else if addl != nil {
			cont = &ebnf.Seq{Items: []ebnf.Expr{cont, addl}}
		}
		c.g.Rules[indices[i]].Body = &ebnf.Alt{Items: []ebnf.Expr{stop, cont}}
	}

	return &ebnf.RuleRef{Name: names[0]}, nil
}

// compileAllOptionalObject handles the case where every declared property
// is optional: alternate over every property as the possible first key,
// each branch followed by the continuation chain for the remaining keys.
func (c *compiler) compileAllOptionalObject(s *Schema, optKeys, allKeys []string, path string, depth int, allowAdditional bool, addlSchema *Schema) (ebnf.Expr, error) {
	var valueExpr ebnf.Expr = &ebnf.RuleRef{Name: "basic_any"}
	if addlSchema != nil {
		ref, err := c.compileNamed(addlSchema, path+"_addl", depth+1)
		if err != nil {
			return nil, err
		}
		valueExpr = ref
	}
	var addl ebnf.Expr
	if allowAdditional {
		addl = &ebnf.Star{Inner: &ebnf.Seq{Items: []ebnf.Expr{
			c.ws.itemSep(depth + 1), &ebnf.RuleRef{Name: "basic_string"}, c.ws.kvSep(), valueExpr,
		}}}
	}

	chainHead, err := c.buildPartChain(s, optKeys, allKeys, path, depth, addl)
	if err != nil {
		return nil, err
	}
	// buildPartChain already allocated part_1..part_n, where part_m emits
	// optKeys[m-1]. A branch's own Seq already emits optKeys[j] directly, so
	// it must continue with whatever comes *after* optKeys[j]: the chain
	// starting at optKeys[j+1], i.e. part_{j+2}. chainHead (part_1, which
	// emits optKeys[0]) is not reusable here even for j==0 - it would
	// re-emit the key just written - and is only used below, in the
	// non-strict lead-in branch where no declared key has been emitted yet.
	// The last key has no further keys to chain to; only additional
	// properties, if allowed, may still follow it.
	tailRefs := map[int]ebnf.Expr{}
	for i := 0; i < len(optKeys)-1; i++ {
		tailRefs[i] = &ebnf.RuleRef{Name: c.freshNameNoAlloc(path + "_part_" + strconv.Itoa(i+2))}
	}
	if addl != nil {
		tailRefs[len(optKeys)-1] = addl
	}

	var alts []ebnf.Expr
	for j, k := range optKeys {
		v, err := c.compileInline((*s.Properties)[k], path+"_prop_"+strconv.Itoa(indexOf(allKeys, k)), depth+1)
		if err != nil {
			return nil, err
		}
		items := []ebnf.Expr{lit("{"), c.ws.openWs(depth), lit(quoteKey(k)), c.ws.kvSep(), v}
		if tail, ok := tailRefs[j]; ok {
			items = append(items, tail)
		}
		items = append(items, c.ws.closeWs(depth), lit("}"))
		alts = append(alts, &ebnf.Seq{Items: items})
	}

	if !c.strict {
		leadItems := []ebnf.Expr{lit("{"), c.ws.openWs(depth), &ebnf.RuleRef{Name: "basic_string"}, c.ws.kvSep(), &ebnf.RuleRef{Name: "basic_any"}}
		leadItems = append(leadItems, chainHead, c.ws.closeWs(depth), lit("}"))
		alts = append(alts, &ebnf.Seq{Items: leadItems})
		alts = append(alts, &ebnf.Seq{Items: []ebnf.Expr{lit("{"), lit("}")}})
	}

	return &ebnf.Alt{Items: alts}, nil
}

// freshNameNoAlloc returns the name buildPartChain already allocated for
// base without allocating a new one; it exists so compileAllOptionalObject
// can reference part_k rules built by an earlier buildPartChain call.
func (c *compiler) freshNameNoAlloc(base string) string { return base }

// additionalPolicy resolves additionalProperties into (allowed, valueSchema).
func (c *compiler) additionalPolicy(s *Schema) (bool, *Schema) {
	switch {
	case s.AdditionalProperties != nil && s.AdditionalProperties.IsFalse():
		return false, nil
	case s.AdditionalProperties != nil && !s.AdditionalProperties.IsTrue():
		return true, s.AdditionalProperties
	default:
		return !c.strict, nil
	}
}

func orSingle(alts []ebnf.Expr) ebnf.Expr {
	if len(alts) == 1 {
		return alts[0]
	}
	return &ebnf.Alt{Items: alts}
}

func indexOf(keys []string, k string) int {
	for i, v := range keys {
		if v == k {
			return i
		}
	}
	return -1
}
