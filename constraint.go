package keyshape

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Constraint is one schema node describing what a value must satisfy.
//
// Recognized variants are Kind, Schema, Choice, Array, *regexp.Regexp,
// CheckFunc, Range, Enum, Group and the Optional marker. Any other value
// placed in a schema is reported as "not a valid schema constraint" at
// validation time, so a malformed schema surfaces through the same channel
// as malformed data.
type Constraint any

// Schema maps keys to the constraint their values must satisfy.
// Example: Schema{"api_key": String, "retries": Int}
type Schema map[string]Constraint

// Kind is a type-tag constraint: the value must be an instance of the
// named primitive/composite type.
type Kind int

const (
	// String accepts string values.
	String Kind = iota
	// Int accepts integer values (any Go int/uint kind, or a json.Number
	// holding an integer). Floats are rejected even when whole.
	Int
	// Float accepts floating-point values.
	Float
	// Number accepts any numeric value, integer or float.
	Number
	// Bool accepts true or false.
	Bool
	// True and False exist for schemas ported from systems that split the
	// boolean type in two. Both accept any bool, exactly like Bool.
	True
	False
	// Nil accepts only nil.
	Nil
	// Map accepts any mapping, regardless of its contents.
	Map
	// List accepts any sequence, regardless of its elements.
	List
	// Any accepts everything.
	Any
)

// Choice accepts a value when at least one member constraint accepts it.
// The Optional marker inside a Choice used as a map value constraint means
// the key may be absent; it does not count as a satisfiable alternative.
type Choice []Constraint

// Array accepts sequences whose every element satisfies at least one of
// the member constraints. Empty sequences always pass.
type Array []Constraint

// Enum accepts a value equal to one of its members.
type Enum []any

// Range accepts values within the inclusive interval [Low, High].
// Integer endpoints additionally constrain the value to be an integer,
// numeric endpoints to be numeric, string endpoints to be a string.
type Range struct {
	Low  any
	High any
}

// InRange builds a Range constraint.
func InRange(low, high any) Range {
	return Range{Low: low, High: high}
}

// Group combines constraints: with Negate unset the value must satisfy
// all of them, with Negate set it must satisfy none of them.
type Group struct {
	Constraints []Constraint
	Negate      bool
}

// All accepts a value satisfying every given constraint.
func All(cs ...Constraint) Group {
	if len(cs) == 0 {
		panic("keyshape: All requires at least one constraint")
	}
	return Group{Constraints: cs}
}

// Not accepts a value satisfying none of the given constraints.
func Not(cs ...Constraint) Group {
	if len(cs) == 0 {
		panic("keyshape: Not requires at least one constraint")
	}
	return Group{Constraints: cs, Negate: true}
}

// Verdict is the three-way outcome of a CheckFunc: pass, fail with a
// caller-supplied message, or fail generically.
type Verdict struct {
	ok      bool
	message string
}

// Pass reports that the value was accepted.
func Pass() Verdict { return Verdict{ok: true} }

// Fail reports rejection with a message used verbatim in the violation.
func Fail(message string) Verdict { return Verdict{message: message} }

// Reject reports rejection with the generic check-function message.
func Reject() Verdict { return Verdict{} }

// CheckFunc is a user-supplied predicate constraint. It must be fast and
// side-effect free: choice and composite evaluation may invoke it more
// than once for the same value.
type CheckFunc func(value any) Verdict

// Check wraps a predicate so it carries the CheckFunc type inside a
// schema literal.
func Check(fn func(value any) Verdict) CheckFunc { return fn }

type optionalMarker struct{}

// Optional marks a map key as allowed to be absent when it appears inside
// a Choice. Used as a raw constraint it accepts any value.
var Optional = optionalMarker{}

// --- runtime type helpers ---

func isOptionalChoice(c Constraint) bool {
	ch, ok := c.(Choice)
	if !ok {
		return false
	}
	for _, alt := range ch {
		if _, ok := alt.(optionalMarker); ok {
			return true
		}
	}
	return false
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	if i, ok := asInt64(v); ok {
		return float64(i), true
	}
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func isFloat(v any) bool {
	switch n := v.(type) {
	case float32, float64:
		return true
	case json.Number:
		if _, err := n.Int64(); err == nil {
			return false
		}
		_, err := n.Float64()
		return err == nil
	default:
		return false
	}
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// asSequence returns the elements of any slice or array value.
// Reflection keeps typed slices ([]string, []int) working alongside the
// []any produced by generic decoders.
func asSequence(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func kindAccepts(k Kind, v any) bool {
	switch k {
	case String:
		_, ok := v.(string)
		return ok
	case Int:
		_, ok := asInt64(v)
		return ok
	case Float:
		return isFloat(v)
	case Number:
		_, ok := asFloat64(v)
		return ok
	case Bool, True, False:
		_, ok := v.(bool)
		return ok
	case Nil:
		return v == nil
	case Map:
		_, ok := asMap(v)
		return ok
	case List:
		_, ok := asSequence(v)
		return ok
	case Any:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Number:
		return "number"
	case Bool, True, False:
		return "bool"
	case Nil:
		return "nil"
	case Map:
		return "map"
	case List:
		return "array"
	case Any:
		return "any"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}
