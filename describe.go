package keyshape

import (
	"fmt"
	"regexp"
	"strings"
)

// describe renders a constraint as the expectation half of a violation
// message ("a string", "one of a string, an int in range 1..10", ...).
// It deliberately takes no value parameter: descriptions depend on the
// constraint shape alone.
func describe(c Constraint) string {
	switch c := c.(type) {
	case Kind:
		return describeKind(c)
	case Schema:
		return "a map matching a nested schema"
	case Choice:
		return "one of " + describeList([]Constraint(c))
	case Array:
		return "an array of " + describeList([]Constraint(c))
	case *regexp.Regexp:
		return "a string matching /" + c.String() + "/"
	case CheckFunc, func(any) Verdict:
		return "accepted by check function"
	case Range:
		return describeRange(c)
	case Enum:
		return "an element of [" + describeMembers([]any(c)) + "]"
	case Group:
		if c.Negate {
			return "none of [" + describeList(c.Constraints) + "]"
		}
		return "all of [" + describeList(c.Constraints) + "]"
	case optionalMarker:
		return "anything"
	default:
		return "a valid schema constraint"
	}
}

func describeKind(k Kind) string {
	switch k {
	case String:
		return "a string"
	case Int:
		return "an integer"
	case Float:
		return "a float"
	case Number:
		return "a number"
	case Bool, True, False:
		return "true or false"
	case Nil:
		return "nil"
	case Map:
		return "a map"
	case List:
		return "an array"
	case Any:
		return "anything"
	default:
		return "a valid type tag"
	}
}

func describeList(cs []Constraint) string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		if _, ok := c.(optionalMarker); ok {
			continue
		}
		parts = append(parts, describe(c))
	}
	return strings.Join(parts, ", ")
}

func describeMembers(members []any) string {
	parts := make([]string, len(members))
	for i, m := range members {
		switch m := m.(type) {
		case string:
			parts[i] = fmt.Sprintf("%q", m)
		default:
			parts[i] = fmt.Sprintf("%v", m)
		}
	}
	return strings.Join(parts, ", ")
}

func describeRange(r Range) string {
	bounds := func() string {
		if lo, ok := r.Low.(string); ok {
			return fmt.Sprintf("%q..%q", lo, r.High)
		}
		return fmt.Sprintf("%v..%v", r.Low, r.High)
	}
	switch classifyRange(r) {
	case rangeInt:
		return "an integer in range " + bounds()
	case rangeNumber:
		return "a number in range " + bounds()
	case rangeString:
		return "a string in range " + bounds()
	default:
		return "a valid range constraint"
	}
}
