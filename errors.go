package keyshape

import "strings"

// Violation is a single schema violation: where it happened and what was
// expected there. Messages describe the constraint shape only; the value
// under validation is never echoed back.
type Violation struct {
	Path    string
	Message string
}

// String renders the violation. An empty path marks a top-level rejection.
func (v Violation) String() string {
	if v.Path == "" {
		return "Top level " + v.Message
	}
	return v.Path + " " + v.Message
}

// ValidationError aggregates every violation found during one Validate
// call: a single entry in fail-fast mode, the whole tree in full mode.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// Violations returns the structured entries of err if it is a
// *ValidationError, nil otherwise.
func Violations(err error) []Violation {
	if ve, ok := err.(*ValidationError); ok {
		return ve.Violations
	}
	return nil
}
