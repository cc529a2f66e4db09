// Package keyshape validates nested key-value data against a declarative
// schema, producing precise, path-qualified violations.
//
// A schema maps keys to constraints; constraints compose into an algebra
// of type tags, nested schemas, multi-choice unions, array-element
// constraints, patterns, ranges, enumerations, predicates, and AND/NOT
// combinators:
//
//	s := keyshape.Schema{
//	    "name":    keyshape.String,
//	    "port":    keyshape.InRange(1, 65535),
//	    "level":   keyshape.Enum{"debug", "info", "warn"},
//	    "retries": keyshape.Opt(keyshape.Int),
//	    "tags":    keyshape.Array{keyshape.String},
//	    "extra": keyshape.Schema{
//	        "note": keyshape.Choice{keyshape.String, keyshape.Nil},
//	    },
//	}
//
//	err := keyshape.Validate(data, s)
//
// Validation never mutates the input and never echoes input values into
// error text. By default the first violation stops the walk; WithFull
// collects every violation in the tree, WithStrict rejects undeclared
// keys, and (*Validator).Check reports violations without an error value:
//
//	ok, violations := keyshape.New(keyshape.WithStrict(), keyshape.WithFull()).Check(data, s)
//
// Schemas arriving as decoded YAML/JSON documents can be compiled with
// ParseSchemaDoc; see the cmd/keyshape CLI and internal/server for the
// file and HTTP boundaries built on it.
package keyshape
