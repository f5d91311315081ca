package ebnf

// Prelude returns the fixed basic_* rules every compiled grammar starts
// with. strict selects whether basic_array/basic_object admit an
// empty-container shortcut — mirrors the reference grammar's non-strict
// leniency for arrays and objects with no declared structure.
func Prelude(strict bool) []Rule {
	rules := []Rule{
		{"basic_escape", &Alt{Items: []Expr{
			&Literal{`"`}, &Literal{`\`}, &Literal{`/`},
			&Literal{"b"}, &Literal{"f"}, &Literal{"n"}, &Literal{"r"}, &Literal{"t"},
			&Seq{Items: []Expr{&Literal{"u"}, &CharClass{Body: "0-9a-fA-F"}, &CharClass{Body: "0-9a-fA-F"}, &CharClass{Body: "0-9a-fA-F"}, &CharClass{Body: "0-9a-fA-F"}}},
		}}},
		{"basic_string_sub", &Alt{Items: []Expr{
			&Literal{`"`},
			&Seq{Items: []Expr{
				&CharClass{Negated: true, Body: `"\\\x00-\x1F`},
				&RuleRef{"basic_string_sub"},
			}},
			&Seq{Items: []Expr{
				&Literal{`\`}, &RuleRef{"basic_escape"}, &RuleRef{"basic_string_sub"},
			}},
		}}},
		{"basic_string", &Seq{Items: []Expr{&Literal{`"`}, &RuleRef{"basic_string_sub"}}}},
		{"basic_integer", &Alt{Items: []Expr{
			&Literal{"0"},
			&Seq{Items: []Expr{&Opt{&Literal{"-"}}, &CharClass{Body: "1-9"}, &Star{&CharClass{Body: "0-9"}}}},
		}}},
		{"basic_number", &Seq{Items: []Expr{
			&RuleRef{"basic_integer"},
			&Opt{&Seq{Items: []Expr{&Literal{"."}, &Plus{&CharClass{Body: "0-9"}}}}},
			&Opt{&Seq{Items: []Expr{&CharClass{Body: "eE"}, &Opt{&CharClass{Body: "+-"}}, &Plus{&CharClass{Body: "0-9"}}}}},
		}}},
		{"basic_boolean", &Alt{Items: []Expr{&Literal{"true"}, &Literal{"false"}}}},
		{"basic_null", &Literal{"null"}},
	}

	arrayAlts := []Expr{&Seq{Items: []Expr{
		&Literal{"["}, &Literal{Value: ""}, &RuleRef{"basic_any"},
		&Star{&Seq{Items: []Expr{&Literal{", "}, &RuleRef{"basic_any"}}}},
		&Literal{Value: ""}, &Literal{"]"},
	}}}
	objectAlts := []Expr{&Seq{Items: []Expr{
		&Literal{"{"}, &Literal{Value: ""}, &RuleRef{"basic_string"}, &Literal{": "}, &RuleRef{"basic_any"},
		&Star{&Seq{Items: []Expr{&Literal{", "}, &RuleRef{"basic_string"}, &Literal{": "}, &RuleRef{"basic_any"}}}},
		&Literal{Value: ""}, &Literal{"}"},
	}}}
	if !strict {
		arrayAlts = append(arrayAlts, &Seq{Items: []Expr{&Literal{"["}, &Literal{Value: ""}, &Literal{"]"}}})
		objectAlts = append(objectAlts, &Seq{Items: []Expr{&Literal{"{"}, &Literal{Value: ""}, &Literal{"}"}}})
	}
	rules = append(rules,
		Rule{"basic_array", &Alt{Items: arrayAlts}},
		Rule{"basic_object", &Alt{Items: objectAlts}},
		Rule{"basic_any", &Alt{Items: []Expr{
			&RuleRef{"basic_number"}, &RuleRef{"basic_string"}, &RuleRef{"basic_boolean"},
			&RuleRef{"basic_null"}, &RuleRef{"basic_array"}, &RuleRef{"basic_object"},
		}}},
	)
	return rules
}

// EmptyLiteral is a convenience constructor for an always-matching,
// zero-width literal, returned by value so it can appear inline in a
// composite-literal slice.
func EmptyLiteral() Literal { return Literal{Value: ""} }

// PreludeNames lists the reserved prelude rule names, used by the compiler
// to avoid colliding schema-derived names with the prelude.
func PreludeNames() map[string]bool {
	return map[string]bool{
		"basic_escape": true, "basic_string_sub": true, "basic_string": true,
		"basic_integer": true, "basic_number": true, "basic_boolean": true,
		"basic_null": true, "basic_array": true, "basic_object": true, "basic_any": true,
	}
}
