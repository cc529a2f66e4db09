package registry_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keyshape/internal/registry"
)

// runStoreContract exercises the Store behavior every implementation must
// share.
func runStoreContract(t *testing.T, store registry.Store) {
	t.Helper()
	ctx := context.Background()

	doc := map[string]any{
		"name": "string",
		"port": map[string]any{"$range": map[string]any{"min": 1, "max": 65535}},
	}

	// Missing schema
	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, registry.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "missing"), registry.ErrNotFound)

	// Put / Get
	require.NoError(t, store.Put(ctx, "service", doc))
	got, err := store.Get(ctx, "service")
	require.NoError(t, err)
	assert.Contains(t, got, "name")
	assert.Contains(t, got, "port")

	// Replace
	require.NoError(t, store.Put(ctx, "service", map[string]any{"name": "string"}))
	got, err = store.Get(ctx, "service")
	require.NoError(t, err)
	assert.NotContains(t, got, "port")

	// List is sorted
	require.NoError(t, store.Put(ctx, "beta", doc))
	require.NoError(t, store.Put(ctx, "alpha", doc))
	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "service"}, names)

	// Delete
	require.NoError(t, store.Delete(ctx, "service"))
	_, err = store.Get(ctx, "service")
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, registry.NewMemoryStore())
}

func TestRedisStore_Contract(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := registry.NewRedisStoreFromClient(client)
	defer store.Close()

	runStoreContract(t, store)
}

func TestRedisStore_PreservesIntegerEndpoints(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := registry.NewRedisStoreFromClient(client)
	defer store.Close()

	ctx := context.Background()
	doc := map[string]any{
		"port": map[string]any{"$range": map[string]any{"min": 1, "max": 65535}},
	}
	require.NoError(t, store.Put(ctx, "net", doc))

	got, err := store.Get(ctx, "net")
	require.NoError(t, err)

	// The round trip must not widen the endpoints to float64: a float
	// port would then pass an integer range.
	rangeDoc := got["port"].(map[string]any)["$range"].(map[string]any)
	assert.IsType(t, json.Number(""), rangeDoc["min"])
	assert.IsType(t, json.Number(""), rangeDoc["max"])
}
