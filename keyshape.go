package keyshape

// Validator is the configured entry point for validation. The zero value
// is permissive and fail-fast; options adjust behavior uniformly at every
// recursion level. A Validator is safe for concurrent use: each call
// allocates its own traversal state and schemas are never mutated.
type Validator struct {
	strict    bool
	shallow   bool
	full      bool
	verbose   bool
	collector func(Violation)
}

// Option configures a Validator.
type Option func(*Validator)

// WithStrict rejects keys not declared in the schema, at every nested
// mapping.
func WithStrict() Option {
	return func(v *Validator) {
		v.strict = true
		v.shallow = false
	}
}

// WithStrictShallow rejects undeclared keys at the top level only. This is
// the historical strict behavior, kept as a distinct named mode.
func WithStrictShallow() Option {
	return func(v *Validator) {
		v.shallow = true
	}
}

// WithFull keeps walking after a violation and reports every violation in
// the tree instead of stopping at the first.
func WithFull() Option {
	return func(v *Validator) {
		v.full = true
	}
}

// WithVerbose names the offending keys in extra-member violations.
// Only meaningful together with a strict mode; note that it reflects key
// names from the input into error text, which may be unwanted for
// untrusted input.
func WithVerbose() Option {
	return func(v *Validator) {
		v.verbose = true
	}
}

// WithCollector routes every recorded violation to fn as it is found, in
// addition to the returned error or violation list.
func WithCollector(fn func(Violation)) Option {
	return func(v *Validator) {
		v.collector = fn
	}
}

// New builds a Validator from options.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks data against the schema and returns a *ValidationError
// on failure: the first violation by default, all of them in full mode.
func (v *Validator) Validate(data map[string]any, s Schema) error {
	ok, violations := v.run(data, s)
	if ok {
		return nil
	}
	return &ValidationError{Violations: violations}
}

// Check is the non-error form of Validate: it reports success plus the
// structured violations, so callers can inspect failures without
// unwrapping an error. The two forms carry identical information.
func (v *Validator) Check(data map[string]any, s Schema) (bool, []Violation) {
	return v.run(data, s)
}

func (v *Validator) run(data map[string]any, s Schema) (bool, []Violation) {
	snk := &sink{collector: v.collector}

	// A nil top level is a hard precondition failure: there is nothing to
	// traverse, so full mode does not apply.
	if data == nil {
		snk.add("", msgTopLevelNotMap)
		return false, snk.violations
	}

	w := &walker{
		opts: options{
			strict:  v.strict,
			shallow: v.shallow,
			full:    v.full,
			verbose: v.verbose,
		},
		sink: snk,
	}
	ok := w.walkMap("", data, s, v.strict || v.shallow)
	return ok, snk.violations
}

// Validate checks data against the schema with the given options.
func Validate(data map[string]any, s Schema, opts ...Option) error {
	return New(opts...).Validate(data, s)
}

// ValidateStrict is Validate with recursive strictness: undeclared keys
// are rejected in every nested mapping.
func ValidateStrict(data map[string]any, s Schema, opts ...Option) error {
	return New(append(opts, WithStrict())...).Validate(data, s)
}

// ValidateStrictShallow is Validate with the legacy top-level-only
// strictness.
func ValidateStrictShallow(data map[string]any, s Schema, opts ...Option) error {
	return New(append(opts, WithStrictShallow())...).Validate(data, s)
}

// CheckData is the package-level form of (*Validator).Check.
func CheckData(data map[string]any, s Schema, opts ...Option) (bool, []Violation) {
	return New(opts...).Check(data, s)
}
