package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/jobledger/internal/usecase"
)

func TestIdempotencyStore_CheckAndSetExisting(t *testing.T) {
	client, _ := newTestRedisClient(t)

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, store.prefix+"key", "cached", time.Minute).Err())

	exists, resp, err := store.CheckAndSet(ctx, "key", nil, time.Minute)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "cached", string(resp))
}

func TestIdempotencyStore_CheckAndSetLocksNewKey(t *testing.T) {
	client, mr := newTestRedisClient(t)

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, resp, err := store.CheckAndSet(ctx, "pending", nil, time.Minute)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, resp)

	val, err := mr.Get(store.prefix + "pending")
	require.NoError(t, err)
	assert.Equal(t, usecase.IdempotencyPending, val)
	assert.Equal(t, time.Minute, mr.TTL(store.prefix+"pending"))

	// a second caller sees the in-flight marker
	exists, resp, err = store.CheckAndSet(ctx, "pending", nil, time.Minute)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, usecase.IdempotencyPending, string(resp))
}

func TestIdempotencyStore_CheckAndSetWithResponse(t *testing.T) {
	client, mr := newTestRedisClient(t)

	store := NewIdempotencyStore(client)

	exists, _, err := store.CheckAndSet(context.Background(), "direct", []byte("done"), time.Minute)
	require.NoError(t, err)
	assert.False(t, exists)

	val, err := mr.Get(store.prefix + "direct")
	require.NoError(t, err)
	assert.Equal(t, "done", val)
}

func TestIdempotencyStore_UpdateAndExpire(t *testing.T) {
	client, mr := newTestRedisClient(t)

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	_, _, err := store.CheckAndSet(ctx, "complete", nil, time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Update(ctx, "complete", []byte(`{"profile_id":1}`), time.Minute))

	exists, resp, err := store.CheckAndSet(ctx, "complete", nil, time.Minute)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.JSONEq(t, `{"profile_id":1}`, string(resp))

	mr.FastForward(2 * time.Minute)

	exists, _, err = store.CheckAndSet(ctx, "complete", nil, time.Minute)
	require.NoError(t, err)
	assert.False(t, exists, "expired keys can be claimed again")
}

func TestIdempotencyStore_Release(t *testing.T) {
	client, mr := newTestRedisClient(t)

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	_, _, err := store.CheckAndSet(ctx, "failed", nil, time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "failed"))
	assert.False(t, mr.Exists(store.prefix+"failed"))

	// completed responses survive a stray release
	require.NoError(t, store.Update(ctx, "done", []byte("result"), time.Minute))
	require.NoError(t, store.Release(ctx, "done"))

	val, err := mr.Get(store.prefix + "done")
	require.NoError(t, err)
	assert.Equal(t, "result", val)
}

func TestIdempotencyStore_ServerDown(t *testing.T) {
	client, mr := newTestRedisClient(t)
	mr.Close()

	_, _, err := NewIdempotencyStore(client).CheckAndSet(context.Background(), "k", nil, time.Minute)
	require.Error(t, err)
}
