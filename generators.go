package keyshape

import "fmt"

// Opt wraps constraints into a Choice carrying the Optional marker, so a
// map key may be absent: Schema{"note": Opt(String)}.
func Opt(cs ...Constraint) Choice {
	return append(Choice{Optional}, cs...)
}

// Length accepts any string, sequence, or map whose length lies in
// [lo, hi]. Bounds must be non-negative; like regexp.MustCompile, invalid
// bounds are a programmer error and panic at construction.
func Length(lo, hi int) CheckFunc {
	mustBounds("Length", lo, hi)
	msg := fmt.Sprintf("is not a value with length in %d..%d", lo, hi)
	return func(value any) Verdict {
		n, ok := lengthOf(value)
		if !ok || n < lo || n > hi {
			return Fail(msg)
		}
		return Pass()
	}
}

// StringLength accepts strings whose length lies in [lo, hi].
func StringLength(lo, hi int) CheckFunc {
	mustBounds("StringLength", lo, hi)
	msg := fmt.Sprintf("is not a string with length in %d..%d", lo, hi)
	return func(value any) Verdict {
		s, ok := value.(string)
		if !ok || len(s) < lo || len(s) > hi {
			return Fail(msg)
		}
		return Pass()
	}
}

// ArrayLength accepts sequences whose length lies in [lo, hi].
func ArrayLength(lo, hi int) CheckFunc {
	mustBounds("ArrayLength", lo, hi)
	msg := fmt.Sprintf("is not an array with length in %d..%d", lo, hi)
	return func(value any) Verdict {
		seq, ok := asSequence(value)
		if !ok || len(seq) < lo || len(seq) > hi {
			return Fail(msg)
		}
		return Pass()
	}
}

// NonEmptyString accepts strings with at least one character.
func NonEmptyString() CheckFunc {
	return func(value any) Verdict {
		if s, ok := value.(string); ok && len(s) > 0 {
			return Pass()
		}
		return Fail("is not a non-empty string")
	}
}

func lengthOf(value any) (int, bool) {
	switch v := value.(type) {
	case string:
		return len(v), true
	case map[string]any:
		return len(v), true
	}
	if seq, ok := asSequence(value); ok {
		return len(seq), true
	}
	return 0, false
}

func mustBounds(name string, lo, hi int) {
	if lo < 0 || hi < lo {
		panic(fmt.Sprintf("keyshape: %s bounds must satisfy 0 <= lo <= hi, got %d..%d", name, lo, hi))
	}
}
