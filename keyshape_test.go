package keyshape_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keyshape"
)

func TestValidate_StrictRecursive(t *testing.T) {
	s := keyshape.Schema{
		"name": keyshape.String,
		"inner": keyshape.Schema{
			"x": keyshape.Int,
		},
	}
	data := map[string]any{
		"name": "api",
		"inner": map[string]any{
			"x":     1,
			"spare": true,
		},
	}

	// Permissive by default: undeclared keys are ignored.
	assert.NoError(t, keyshape.Validate(data, s))

	err := keyshape.ValidateStrict(data, s)
	require.Error(t, err)
	assert.Equal(t, "inner contains members not specified in schema", err.Error())
}

func TestValidate_StrictShallow(t *testing.T) {
	s := keyshape.Schema{
		"name":  keyshape.String,
		"inner": keyshape.Schema{"x": keyshape.Int},
	}
	nestedExtra := map[string]any{
		"name":  "api",
		"inner": map[string]any{"x": 1, "spare": true},
	}
	topExtra := map[string]any{
		"name":  "api",
		"inner": map[string]any{"x": 1},
		"spare": true,
	}

	// Legacy mode: only the top level is strict.
	assert.NoError(t, keyshape.ValidateStrictShallow(nestedExtra, s))

	err := keyshape.ValidateStrictShallow(topExtra, s)
	require.Error(t, err)
	assert.Equal(t, "Top level contains members not specified in schema", err.Error())
}

func TestValidate_StrictVerbose(t *testing.T) {
	s := keyshape.Schema{"name": keyshape.String}
	data := map[string]any{"name": "api", "zz": 1, "aa": 2}

	err := keyshape.ValidateStrict(data, s, keyshape.WithVerbose())
	require.Error(t, err)
	// Offending keys are listed, sorted for determinism.
	assert.Equal(t, "Top level contains members not specified in schema: aa, zz", err.Error())
}

func TestValidate_EmptySchemaStrict(t *testing.T) {
	s := keyshape.Schema{}

	// Empty schema accepts any map when permissive, only an empty map when
	// strict.
	assert.NoError(t, keyshape.Validate(map[string]any{"a": 1}, s))
	assert.NoError(t, keyshape.ValidateStrict(map[string]any{}, s))
	assert.Error(t, keyshape.ValidateStrict(map[string]any{"a": 1}, s))
}

func TestValidate_FullMode(t *testing.T) {
	s := keyshape.Schema{
		"a": keyshape.Int,
		"b": keyshape.String,
		"c": keyshape.Bool,
	}
	data := map[string]any{"a": "x", "b": 1, "c": true}

	// Fail-fast by default: a single violation.
	err := keyshape.Validate(data, s)
	require.Error(t, err)
	var ve *keyshape.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Violations, 1)

	// Full mode: one entry per failing key, in traversal order.
	err = keyshape.Validate(data, s, keyshape.WithFull())
	require.Error(t, err)
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Violations, 2)
	assert.Equal(t, "a", ve.Violations[0].Path)
	assert.Equal(t, "b", ve.Violations[1].Path)
	assert.Equal(t, "a is not an integer, b is not a string", err.Error())
}

func TestValidate_FullModeArray(t *testing.T) {
	s := keyshape.Schema{"a": keyshape.Array{keyshape.Int}}
	data := map[string]any{"a": []any{"x", 2, "y"}}

	_, violations := keyshape.CheckData(data, s, keyshape.WithFull())
	require.Len(t, violations, 2)
	assert.Equal(t, "a[0]", violations[0].Path)
	assert.Equal(t, "a[2]", violations[1].Path)
}

func TestValidator_Check(t *testing.T) {
	s := keyshape.Schema{"a": keyshape.Int}

	ok, violations := keyshape.New().Check(map[string]any{"a": 1}, s)
	assert.True(t, ok)
	assert.Empty(t, violations)

	ok, violations = keyshape.New().Check(map[string]any{"a": "x"}, s)
	assert.False(t, ok)
	require.Len(t, violations, 1)
	assert.Equal(t, "a", violations[0].Path)
	assert.Equal(t, "is not an integer", violations[0].Message)
}

func TestValidate_Collector(t *testing.T) {
	s := keyshape.Schema{
		"a": keyshape.Int,
		"b": keyshape.String,
	}
	data := map[string]any{"a": "x", "b": 1}

	var seen []keyshape.Violation
	err := keyshape.Validate(data, s,
		keyshape.WithFull(),
		keyshape.WithCollector(func(v keyshape.Violation) {
			seen = append(seen, v)
		}),
	)
	require.Error(t, err)

	var ve *keyshape.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, ve.Violations, seen)
}

func TestValidator_Reusable(t *testing.T) {
	v := keyshape.New(keyshape.WithStrict(), keyshape.WithFull())
	s := keyshape.Schema{"a": keyshape.Int}

	assert.NoError(t, v.Validate(map[string]any{"a": 1}, s))
	assert.Error(t, v.Validate(map[string]any{"a": 1, "b": 2}, s))
	// State does not leak between calls.
	assert.NoError(t, v.Validate(map[string]any{"a": 1}, s))
}
