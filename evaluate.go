package keyshape

import (
	"reflect"
	"regexp"
	"sort"
	"strings"
)

// Schema definition errors share the violation channel with data errors
// (the engine cannot tell them apart structurally) but keep distinctive
// text so tooling can.
const (
	msgNotPresent     = "is not present"
	msgExtraMembers   = "contains members not specified in schema"
	msgBadConstraint  = "is not a valid schema constraint"
	msgEmptyChoice    = "is not a valid multiple choice constraint (list must not be empty)"
	msgEmptyGroup     = "is not a valid composite constraint (list must not be empty)"
	msgBadRange       = "is not a valid range constraint (endpoints must be integers, numbers, or strings)"
	msgCheckRejected  = "is not accepted by check function"
	msgTopLevelNotMap = "is not a map"
)

type options struct {
	strict  bool // reject undeclared keys at every nesting level
	shallow bool // reject undeclared keys at the top level only
	full    bool // keep walking after a violation
	verbose bool // name the offending keys in extra-member violations
}

// sink owns the violations of one Validate call. A collector, when set,
// observes each entry as it is recorded.
type sink struct {
	violations []Violation
	collector  func(Violation)
}

func (s *sink) add(path, message string) {
	s.record(Violation{Path: path, Message: message})
}

func (s *sink) record(v Violation) {
	s.violations = append(s.violations, v)
	if s.collector != nil {
		s.collector(v)
	}
}

// walker carries the per-call state: immutable options plus the owned
// sink. Schemas themselves are treated as read-only shared data.
type walker struct {
	opts options
	sink *sink
}

// walkMap validates data against a schema mapping. strictHere decides
// whether undeclared keys are rejected at this level.
func (w *walker) walkMap(path string, data map[string]any, s Schema, strictHere bool) bool {
	ok := true

	if strictHere {
		var extras []string
		for k := range data {
			if _, declared := s[k]; !declared {
				extras = append(extras, k)
			}
		}
		if len(extras) > 0 {
			msg := msgExtraMembers
			if w.opts.verbose {
				sort.Strings(extras)
				msg += ": " + strings.Join(extras, ", ")
			}
			w.sink.add(path, msg)
			ok = false
			if !w.opts.full {
				return false
			}
		}
	}

	// Go maps carry no declaration order; sorted keys keep traversal (and
	// therefore violation order) deterministic across calls.
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		keyPath := joinPath(path, k)
		value, present := data[k]
		if !present {
			if isOptionalChoice(s[k]) {
				continue
			}
			w.sink.add(keyPath, msgNotPresent)
			ok = false
		} else if !w.walkNode(keyPath, value, s[k]) {
			ok = false
		}
		if !ok && !w.opts.full {
			return false
		}
	}
	return ok
}

// walkNode validates one value against one constraint, dispatching on the
// constraint variant. Unrecognized variants are schema bugs and fail.
func (w *walker) walkNode(path string, value any, c Constraint) bool {
	switch c := c.(type) {
	case Kind:
		if kindAccepts(c, value) {
			return true
		}
		w.sink.add(path, "is not "+describeKind(c))
		return false
	case Schema:
		m, isMap := asMap(value)
		if !isMap {
			w.sink.add(path, "is not a map")
			return false
		}
		return w.walkMap(path, m, c, w.opts.strict)
	case Choice:
		return w.walkChoice(path, value, []Constraint(c))
	case Array:
		return w.walkArray(path, value, c)
	case *regexp.Regexp:
		if s, isString := value.(string); isString && c.MatchString(s) {
			return true
		}
		w.sink.add(path, "is not "+describe(c))
		return false
	case CheckFunc:
		return w.runCheck(path, value, c)
	case func(any) Verdict:
		return w.runCheck(path, value, c)
	case Range:
		return w.walkRange(path, value, c)
	case Enum:
		if enumContains(c, value) {
			return true
		}
		w.sink.add(path, "is not "+describe(c))
		return false
	case Group:
		return w.walkGroup(path, value, c)
	case optionalMarker:
		// Escape hatch: a bare Optional accepts anything.
		return true
	default:
		w.sink.add(path, msgBadConstraint)
		return false
	}
}

// walkChoice tries each alternative in order and accepts on the first
// match. When every alternative fails, a structurally matching
// alternative's nested violations are propagated in preference to the
// generic "is not one of" message: nested errors are far more diagnostic.
func (w *walker) walkChoice(path string, value any, alts []Constraint) bool {
	effective := make([]Constraint, 0, len(alts))
	for _, alt := range alts {
		if _, isOpt := alt.(optionalMarker); isOpt {
			continue
		}
		effective = append(effective, alt)
	}
	if len(effective) == 0 {
		w.sink.add(path, msgEmptyChoice)
		return false
	}

	// Fast path: type tags are cheap to test and need no trial sink.
	for _, alt := range effective {
		if k, isKind := alt.(Kind); isKind && kindAccepts(k, value) {
			return true
		}
	}

	type failure struct {
		c  Constraint
		vs []Violation
	}
	var failures []failure
	for _, alt := range effective {
		if _, isKind := alt.(Kind); isKind {
			continue // already tested above
		}
		local := &sink{}
		trial := &walker{opts: w.opts, sink: local}
		if trial.walkNode(path, value, alt) {
			return true
		}
		failures = append(failures, failure{c: alt, vs: local.violations})
	}

	// Structural preference. For a map value, surface the schema
	// alternative whose key set is closest to the value's (best-effort
	// heuristic, smallest symmetric difference). For a sequence value,
	// surface the first array-shaped alternative.
	if m, isMap := asMap(value); isMap {
		best := -1
		bestScore := 0
		for i, f := range failures {
			s, isSchema := f.c.(Schema)
			if !isSchema {
				continue
			}
			score := keyDistance(m, s)
			if best < 0 || score < bestScore {
				best, bestScore = i, score
			}
		}
		if best >= 0 {
			w.replay(failures[best].vs)
			return false
		}
	}
	if _, isSeq := asSequence(value); isSeq {
		for _, f := range failures {
			if _, isArray := f.c.(Array); isArray {
				w.replay(f.vs)
				return false
			}
		}
	}

	if len(effective) == 1 {
		w.sink.add(path, "is not "+describe(effective[0]))
	} else {
		w.sink.add(path, "is not one of "+describeList(effective))
	}
	return false
}

func (w *walker) walkArray(path string, value any, c Array) bool {
	seq, isSeq := asSequence(value)
	if !isSeq {
		w.sink.add(path, "is not "+describe(c))
		return false
	}
	ok := true
	for i, elem := range seq {
		if !w.walkChoice(indexPath(path, i), elem, []Constraint(c)) {
			ok = false
			if !w.opts.full {
				return false
			}
		}
	}
	return ok
}

func (w *walker) walkRange(path string, value any, r Range) bool {
	switch classifyRange(r) {
	case rangeInt:
		v, isInt := asInt64(value)
		lo, _ := asInt64(r.Low)
		hi, _ := asInt64(r.High)
		if isInt && lo <= v && v <= hi {
			return true
		}
	case rangeNumber:
		v, isNum := asFloat64(value)
		lo, _ := asFloat64(r.Low)
		hi, _ := asFloat64(r.High)
		if isNum && lo <= v && v <= hi {
			return true
		}
	case rangeString:
		v, isString := value.(string)
		lo := r.Low.(string)
		hi := r.High.(string)
		if isString && lo <= v && v <= hi {
			return true
		}
	default:
		w.sink.add(path, msgBadRange)
		return false
	}
	w.sink.add(path, "is not "+describeRange(r))
	return false
}

// walkGroup evaluates a composite. Sub-constraints run against a local,
// discarded sink: only their pass/fail outcome matters, and the one
// aggregate message describes the whole composite.
func (w *walker) walkGroup(path string, value any, g Group) bool {
	if len(g.Constraints) == 0 {
		w.sink.add(path, msgEmptyGroup)
		return false
	}
	for _, sub := range g.Constraints {
		local := &sink{}
		trial := &walker{opts: w.opts, sink: local}
		passed := trial.walkNode(path, value, sub)
		if g.Negate && passed {
			w.sink.add(path, "is not "+describe(g))
			return false
		}
		if !g.Negate && !passed {
			w.sink.add(path, "is not "+describe(g))
			return false
		}
	}
	return true
}

func (w *walker) runCheck(path string, value any, fn func(any) Verdict) bool {
	v := fn(value)
	if v.ok {
		return true
	}
	if v.message != "" {
		w.sink.add(path, v.message)
	} else {
		w.sink.add(path, msgCheckRejected)
	}
	return false
}

func (w *walker) replay(vs []Violation) {
	for _, v := range vs {
		w.sink.record(v)
	}
}

// keyDistance is the size of the symmetric difference between a value's
// key set and a schema's declared key set.
func keyDistance(data map[string]any, s Schema) int {
	d := 0
	for k := range data {
		if _, ok := s[k]; !ok {
			d++
		}
	}
	for k := range s {
		if _, ok := data[k]; !ok {
			d++
		}
	}
	return d
}

func enumContains(e Enum, value any) bool {
	for _, member := range e {
		if equalValue(member, value) {
			return true
		}
	}
	return false
}

func equalValue(a, b any) bool {
	// Numbers compare by magnitude so an int member matches an int64 or
	// json.Number value produced by a decoder.
	if af, aok := asFloat64(a); aok {
		bf, bok := asFloat64(b)
		return bok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

type rangeClass int

const (
	rangeInvalid rangeClass = iota
	rangeInt
	rangeNumber
	rangeString
)

func classifyRange(r Range) rangeClass {
	if _, lo := asInt64(r.Low); lo {
		if _, hi := asInt64(r.High); hi {
			return rangeInt
		}
	}
	if _, lo := asFloat64(r.Low); lo {
		if _, hi := asFloat64(r.High); hi {
			return rangeNumber
		}
	}
	if _, lo := r.Low.(string); lo {
		if _, hi := r.High.(string); hi {
			return rangeString
		}
	}
	return rangeInvalid
}
