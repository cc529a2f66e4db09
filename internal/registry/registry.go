// Package registry stores named schema documents so callers can validate
// payloads against a schema registered once, by name. Documents are kept
// as their decoded map form and compiled with keyshape.ParseSchemaDoc on
// the way in, so a registered schema is always parseable.
package registry

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no schema is registered under a name.
var ErrNotFound = errors.New("schema not found")

// Store persists schema documents by name.
type Store interface {
	// Put registers a schema document under name, replacing any previous
	// one.
	Put(ctx context.Context, name string, doc map[string]any) error
	// Get returns the document registered under name, or ErrNotFound.
	Get(ctx context.Context, name string) (map[string]any, error)
	// List returns the registered names, sorted.
	List(ctx context.Context) ([]string, error)
	// Delete removes the schema registered under name, or ErrNotFound.
	Delete(ctx context.Context, name string) error
}
