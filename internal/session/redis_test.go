package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ljcl79/shophub/internal/domain"
)

// setupTestRedis creates a miniredis server and a store on top of it.
func setupTestRedis(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisSessionStore(client, ""), mr
}

func TestRedisStore_SaveAndLoad(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	sess := domain.Session{UserID: 1, Email: "a@x.com", Name: "Alice"}
	require.NoError(t, store.Save(ctx, sess))

	// Stored as JSON under the single session key, no expiry.
	raw, err := mr.Get(defaultSessionKey)
	require.NoError(t, err)
	var stored domain.Session
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, sess, stored)
	assert.Zero(t, mr.TTL(defaultSessionKey))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess, *loaded)
}

func TestRedisStore_LoadMissing(t *testing.T) {
	store, _ := setupTestRedis(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRedisStore_LoadInvalidJSON(t *testing.T) {
	store, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(defaultSessionKey, "{not json"))

	_, err := store.Load(context.Background())
	require.ErrorContains(t, err, "unmarshal session failed")
}

func TestRedisStore_Clear(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Session{UserID: 1}))
	require.True(t, mr.Exists(defaultSessionKey))

	require.NoError(t, store.Clear(ctx))
	assert.False(t, mr.Exists(defaultSessionKey))

	// Clearing an absent session is fine.
	assert.NoError(t, store.Clear(ctx))
}

func TestRedisStore_CustomKey(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisSessionStore(client, "session:visitor-7")
	require.NoError(t, store.Save(context.Background(), domain.Session{UserID: 7}))

	assert.True(t, mr.Exists("session:visitor-7"))
	assert.False(t, mr.Exists(defaultSessionKey))
}
