// Package xgrammar compiles JSON Schema documents into EBNF grammars and
// matches byte streams against them incrementally, projecting the set of
// admissible next tokens for a given vocabulary as a bitmask suitable for
// constraining a language model's sampling distribution.
package xgrammar
