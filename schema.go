package xgrammar

import (
	"bytes"

	"github.com/go-json-experiment/json"
)

// Schema is a JSON Schema node restricted to the keyword subset this
// compiler recognizes (see the External Interfaces section of the design
// document). Unknown keywords are ignored in non-strict mode and rejected
// in strict mode by the compiler, not by this type's decoder.
type Schema struct {
	// Boolean schema forms: {"type":...} is nil, true/false schemas set
	// this and leave every other field zero.
	Boolean *bool `json:"-"`

	Type SchemaType `json:"type,omitempty"`

	// Object keywords.
	Properties            *SchemaMap `json:"properties,omitempty"`
	Required              []string   `json:"required,omitempty"`
	AdditionalProperties  *Schema    `json:"additionalProperties,omitempty"`
	UnevaluatedProperties *Schema    `json:"unevaluatedProperties,omitempty"`

	// Array keywords.
	Items            *Schema  `json:"items,omitempty"`
	PrefixItems      []*Schema `json:"prefixItems,omitempty"`
	UnevaluatedItems *Schema  `json:"unevaluatedItems,omitempty"`
	MinItems         *int     `json:"minItems,omitempty"`
	MaxItems         *int     `json:"maxItems,omitempty"`

	// Numeric keywords.
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`

	// String keywords.
	Pattern *string `json:"pattern,omitempty"`
	Format  *string `json:"format,omitempty"`

	// Reference keywords.
	Ref         string             `json:"$ref,omitempty"`
	Defs        map[string]*Schema `json:"$defs,omitempty"`
	Definitions map[string]*Schema `json:"definitions,omitempty"` // Draft-7 compatibility alias for $defs

	// Combinators.
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`
	AllOf []*Schema `json:"allOf,omitempty"`

	// Value constraints.
	Enum  []any       `json:"enum,omitempty"`
	Const *ConstValue `json:"const,omitempty"`

	// Metadata, carried through but never consulted by the compiler.
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Extra holds any keyword not recognized above, so that strict mode
	// can report exactly which key triggered the error.
	Extra map[string]any `json:"-"`
}

// knownSchemaFields lists every keyword this decoder understands, used to
// detect "unknown keyword" in strict mode without a second decode pass.
var knownSchemaFields = map[string]struct{}{
	"type": {}, "properties": {}, "required": {}, "additionalProperties": {},
	"unevaluatedProperties": {}, "items": {}, "prefixItems": {}, "unevaluatedItems": {},
	"minItems": {}, "maxItems": {}, "minimum": {}, "maximum": {},
	"exclusiveMinimum": {}, "exclusiveMaximum": {}, "pattern": {}, "format": {},
	"$ref": {}, "$defs": {}, "definitions": {}, "anyOf": {}, "oneOf": {}, "allOf": {},
	"enum": {}, "const": {}, "title": {}, "description": {},
}

// UnmarshalJSON probes for the boolean-schema form before falling back to
// the object form, and folds Draft-7 "definitions" into "$defs".
func (s *Schema) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == 't' || trimmed[0] == 'f') {
		var b bool
		if err := json.Unmarshal(data, &b); err == nil {
			s.Boolean = &b
			return nil
		}
	}

	type alias Schema
	aux := (*alias)(s)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	if s.Defs == nil && s.Definitions != nil {
		s.Defs = s.Definitions
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err == nil {
		extra := map[string]any{}
		for k, v := range raw {
			if _, known := knownSchemaFields[k]; known {
				continue
			}
			var val any
			_ = json.Unmarshal(v, &val)
			extra[k] = val
		}
		if len(extra) > 0 {
			s.Extra = extra
		}
	}

	return nil
}

// SchemaMap is a map of property name to subschema, keeping JSON object key
// order out of scope (Go maps are unordered; compileObject in object.go
// emits properties in the map's sorted key order, and the schema's
// "required" list only decides which of them are mandatory).
type SchemaMap map[string]*Schema

// SchemaType accepts both the single-string and array forms of "type".
type SchemaType []string

func (t SchemaType) Has(name string) bool {
	for _, v := range t {
		if v == name {
			return true
		}
	}
	return len(t) == 0 // an absent "type" constrains nothing
}

func (t *SchemaType) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = SchemaType{single}
		return nil
	}
	var multi []string
	if err := json.Unmarshal(data, &multi); err != nil {
		return err
	}
	*t = SchemaType(multi)
	return nil
}

// ConstValue wraps an arbitrary JSON value together with whether "const"
// was present at all, distinguishing "const": null from no const keyword.
type ConstValue struct {
	Value any
	IsSet bool
}

func (c *ConstValue) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	c.Value = v
	c.IsSet = true
	return nil
}

// IsTrue reports whether this is the boolean schema "true" (or the empty
// schema {}), which accepts any JSON value.
func (s *Schema) IsTrue() bool {
	if s == nil {
		return true
	}
	if s.Boolean != nil {
		return *s.Boolean
	}
	return s.isEmpty()
}

// IsFalse reports whether this is the boolean schema "false", which
// accepts nothing.
func (s *Schema) IsFalse() bool {
	return s != nil && s.Boolean != nil && !*s.Boolean
}

func (s *Schema) isEmpty() bool {
	return len(s.Type) == 0 && s.Properties == nil && s.Required == nil &&
		s.AdditionalProperties == nil && s.UnevaluatedProperties == nil &&
		s.Items == nil && s.PrefixItems == nil && s.UnevaluatedItems == nil &&
		s.MinItems == nil && s.MaxItems == nil && s.Minimum == nil && s.Maximum == nil &&
		s.ExclusiveMinimum == nil && s.ExclusiveMaximum == nil && s.Pattern == nil &&
		s.Format == nil && s.Ref == "" && s.Defs == nil && s.AnyOf == nil &&
		s.OneOf == nil && s.AllOf == nil && s.Enum == nil && s.Const == nil
}
