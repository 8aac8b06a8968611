package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objectql/actionflow/pkg/adapters/redis"
	"github.com/objectql/actionflow/pkg/ports"
)

func newTestStore(t *testing.T, opts ...redis.Option) *redis.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewFromClient(client, opts...)
}

func fixedID(id string) ports.IDGenerator {
	return ports.IDGeneratorFunc(func() string { return id })
}

func TestStore_CRUD(t *testing.T) {
	store := newTestStore(t, redis.WithIDGenerator(fixedID("r1")))
	ctx := context.Background()

	created, err := store.Create(ctx, "tickets", map[string]any{"title": "first"})
	require.NoError(t, err)
	assert.Equal(t, "r1", created["id"])

	got, err := store.Get(ctx, "tickets", "r1")
	require.NoError(t, err)
	assert.Equal(t, "first", got["title"])

	updated, err := store.Update(ctx, "tickets", "r1", map[string]any{"status": "open"})
	require.NoError(t, err)
	assert.Equal(t, "first", updated["title"], "update merges into the existing record")
	assert.Equal(t, "open", updated["status"])

	require.NoError(t, store.Delete(ctx, "tickets", "r1"))
	_, err = store.Get(ctx, "tickets", "r1")
	assert.Error(t, err)
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(context.Background(), "tickets", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStore_DeleteMissing(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.Delete(context.Background(), "tickets", "ghost"))
}

func TestStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "tickets", map[string]any{"id": "a"})
	require.NoError(t, err)
	_, err = store.Create(ctx, "tickets", map[string]any{"id": "b"})
	require.NoError(t, err)
	_, err = store.Create(ctx, "orders", map[string]any{"id": "c"})
	require.NoError(t, err)

	ids, err := store.List(ctx, "tickets")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	require.NoError(t, store.Delete(ctx, "tickets", "a"))
	ids, err = store.List(ctx, "tickets")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}

func TestStore_PrefixIsolation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	first := redis.NewFromClient(client, redis.WithPrefix("one:"))
	second := redis.NewFromClient(client, redis.WithPrefix("two:"))
	ctx := context.Background()

	_, err := first.Create(ctx, "tickets", map[string]any{"id": "x", "owner": "first"})
	require.NoError(t, err)

	_, err = second.Get(ctx, "tickets", "x")
	assert.Error(t, err, "stores with different prefixes must not see each other")

	got, err := first.Get(ctx, "tickets", "x")
	require.NoError(t, err)
	assert.Equal(t, "first", got["owner"])
}

func TestStore_UpdateMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Update(context.Background(), "tickets", "ghost", map[string]any{"x": 1})
	assert.Error(t, err)
}
