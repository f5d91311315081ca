package xgrammar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonpointer"
)

// resolveRef resolves ref against root, the schema document's root node.
// Supported forms: "#" (the root itself), "#/$defs/Name", "#/definitions/Name"
// (Draft-7 alias), and arbitrary multi-segment JSON Pointers rooted at "#".
// Only local (same-document) references are supported; anything else is an
// InvalidSchema error, since this compiler has no notion of a schema
// registry spanning multiple documents.
func resolveRef(root *Schema, ref string) (*Schema, error) {
	if ref == "#" {
		return root, nil
	}
	if !strings.HasPrefix(ref, "#/") {
		return nil, fmt.Errorf("%w: %w: unsupported $ref target %q", ErrInvalidSchema, ErrReferenceResolution, ref)
	}
	return resolveJSONPointer(root, ref[1:])
}

// resolveJSONPointer walks pointer (e.g. "/$defs/Node/properties/name")
// through root's subschema tree, one segment at a time.
func resolveJSONPointer(root *Schema, pointer string) (*Schema, error) {
	if pointer == "" || pointer == "/" {
		return root, nil
	}

	segments := jsonpointer.Parse(pointer)
	current := root
	prev := ""

	for i, raw := range segments {
		next, ok := stepSegment(current, prev, raw)
		if !ok {
			if i == len(segments)-1 {
				return nil, fmt.Errorf("%w: %w: %q", ErrInvalidSchema, ErrJSONPointerSegmentNotFound, pointer)
			}
			return nil, fmt.Errorf("%w: %w: %q", ErrInvalidSchema, ErrJSONPointerSegmentNotFound, pointer)
		}
		current = next
		prev = raw
	}
	return current, nil
}

// stepSegment looks up raw within current, given that prev was the segment
// immediately before it (e.g. prev=="properties" means raw is a property
// name, prev=="$defs" means raw is a definition name).
func stepSegment(current *Schema, prev, raw string) (*Schema, bool) {
	switch prev {
	case "properties":
		if current.Properties != nil {
			if s, ok := (*current.Properties)[raw]; ok {
				return s, true
			}
		}
		return nil, false
	case "$defs", "definitions":
		if s, ok := current.Defs[raw]; ok {
			return s, true
		}
		return nil, false
	case "prefixItems":
		idx, err := strconv.Atoi(raw)
		if err != nil || idx < 0 || idx >= len(current.PrefixItems) {
			return nil, false
		}
		return current.PrefixItems[idx], true
	case "items":
		if current.Items != nil {
			return current.Items, true
		}
		return nil, false
	case "anyOf":
		return indexInto(current.AnyOf, raw)
	case "oneOf":
		return indexInto(current.OneOf, raw)
	case "allOf":
		return indexInto(current.AllOf, raw)
	default:
		// raw is itself a top-level-keyword segment (e.g. "$defs",
		// "properties"); descending into it happens on the *next* call
		// once we know what kind of container it names. Treat it as a
		// pass-through by staying on the same schema.
		return current, raw == "$defs" || raw == "definitions" || raw == "properties" ||
			raw == "prefixItems" || raw == "items" || raw == "anyOf" || raw == "oneOf" || raw == "allOf"
	}
}

func indexInto(list []*Schema, raw string) (*Schema, bool) {
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 || idx >= len(list) {
		return nil, false
	}
	return list[idx], true
}
