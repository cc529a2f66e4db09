package keyshape

import (
	"fmt"
	"regexp"
	"strings"
)

// Schema documents are the text representation used at boundaries where a
// schema arrives as decoded YAML/JSON rather than as Go values: type-name
// strings, lists as choices, nested maps as nested schemas, and
// $-directives for the variants that have no literal form. Predicates are
// deliberately not expressible in documents.

// ParseSchemaDoc builds a Schema from a decoded schema document.
// Example document (YAML form):
//
//	name: string
//	retries: [optional, int]
//	level:
//	  $enum: [debug, info, warn]
//	port:
//	  $range: {min: 1, max: 65535}
//	tags:
//	  $array: string
func ParseSchemaDoc(doc map[string]any) (Schema, error) {
	s := make(Schema, len(doc))
	for key, raw := range doc {
		c, err := ParseConstraintDoc(raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		s[key] = c
	}
	return s, nil
}

// ParseConstraintDoc builds one constraint from a decoded document node.
func ParseConstraintDoc(raw any) (Constraint, error) {
	switch v := raw.(type) {
	case string:
		return ParseType(v)
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("choice list must not be empty")
		}
		choice := make(Choice, 0, len(v))
		for i, member := range v {
			c, err := ParseConstraintDoc(member)
			if err != nil {
				return nil, fmt.Errorf("choice member %d: %w", i, err)
			}
			choice = append(choice, c)
		}
		return choice, nil
	case map[string]any:
		if directive := directiveKey(v); directive != "" {
			return parseDirective(directive, v)
		}
		return ParseSchemaDoc(v)
	default:
		return nil, fmt.Errorf("unsupported schema document node of type %T", raw)
	}
}

// ParseType converts a type-name string to a constraint. Supports the
// built-in type tags, the "optional" marker, and "[elem, ...]" array
// shorthand ("[int]", "[string, int]").
func ParseType(name string) (Constraint, error) {
	if len(name) > 2 && name[0] == '[' && name[len(name)-1] == ']' {
		var elems Array
		for _, part := range strings.Split(name[1:len(name)-1], ",") {
			elem, err := ParseType(strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
		return elems, nil
	}

	switch name {
	case "string":
		return String, nil
	case "int", "integer":
		return Int, nil
	case "float":
		return Float, nil
	case "number":
		return Number, nil
	case "bool", "boolean":
		return Bool, nil
	case "nil", "null":
		return Nil, nil
	case "map":
		return Map, nil
	case "array":
		return List, nil
	case "any":
		return Any, nil
	case "optional":
		return Optional, nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", name)
	}
}

func directiveKey(m map[string]any) string {
	for k := range m {
		if strings.HasPrefix(k, "$") {
			return k
		}
	}
	return ""
}

func parseDirective(directive string, m map[string]any) (Constraint, error) {
	if len(m) != 1 {
		return nil, fmt.Errorf("%s must be the only key of its map", directive)
	}
	raw := m[directive]

	switch directive {
	case "$type":
		name, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("$type expects a string, got %T", raw)
		}
		return ParseType(name)
	case "$enum":
		members, ok := raw.([]any)
		if !ok || len(members) == 0 {
			return nil, fmt.Errorf("$enum expects a non-empty list")
		}
		return Enum(members), nil
	case "$range":
		return parseRangeDoc(raw)
	case "$pattern":
		expr, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("$pattern expects a string, got %T", raw)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("$pattern: %w", err)
		}
		return re, nil
	case "$array":
		members, err := parseConstraintList(raw)
		if err != nil {
			return nil, fmt.Errorf("$array: %w", err)
		}
		return Array(members), nil
	case "$all":
		members, err := parseConstraintList(raw)
		if err != nil {
			return nil, fmt.Errorf("$all: %w", err)
		}
		return Group{Constraints: members}, nil
	case "$not":
		members, err := parseConstraintList(raw)
		if err != nil {
			return nil, fmt.Errorf("$not: %w", err)
		}
		return Group{Constraints: members, Negate: true}, nil
	default:
		return nil, fmt.Errorf("unsupported directive: %s", directive)
	}
}

// parseConstraintList accepts either a single constraint document or a
// list of them.
func parseConstraintList(raw any) ([]Constraint, error) {
	list, ok := raw.([]any)
	if !ok {
		list = []any{raw}
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("list must not be empty")
	}
	members := make([]Constraint, 0, len(list))
	for i, member := range list {
		c, err := ParseConstraintDoc(member)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		members = append(members, c)
	}
	return members, nil
}

func parseRangeDoc(raw any) (Constraint, error) {
	switch v := raw.(type) {
	case map[string]any:
		lo, okLo := v["min"]
		hi, okHi := v["max"]
		if !okLo || !okHi || len(v) != 2 {
			return nil, fmt.Errorf("$range expects exactly min and max")
		}
		return Range{Low: lo, High: hi}, nil
	case []any:
		if len(v) != 2 {
			return nil, fmt.Errorf("$range list form expects exactly two endpoints")
		}
		return Range{Low: v[0], High: v[1]}, nil
	default:
		return nil, fmt.Errorf("$range expects a {min, max} map or a two-element list, got %T", raw)
	}
}
