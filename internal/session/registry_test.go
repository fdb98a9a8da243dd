package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRegistry_InsertAndFind(t *testing.T) {
	registry := NewMemoryRegistry()
	ctx := context.Background()

	rec, err := registry.Insert(ctx, "a@x.com", "hash-a", "Alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.UserID)

	found, err := registry.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, rec, found)

	_, err = registry.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMemoryRegistry_DuplicateEmail(t *testing.T) {
	registry := NewMemoryRegistry()
	ctx := context.Background()

	_, err := registry.Insert(ctx, "a@x.com", "hash-a", "Alice")
	require.NoError(t, err)

	_, err = registry.Insert(ctx, "a@x.com", "hash-b", "Impostor")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestMemoryRegistry_EmailMatchIsCaseSensitive(t *testing.T) {
	registry := NewMemoryRegistry()
	ctx := context.Background()

	_, err := registry.Insert(ctx, "a@x.com", "h", "A")
	require.NoError(t, err)

	_, err = registry.FindByEmail(ctx, "A@x.com")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	// Different casing is a different registration.
	rec, err := registry.Insert(ctx, "A@x.com", "h", "A2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.UserID)
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	hasher := NewBcryptHasher()

	hash, err := hasher.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.NoError(t, hasher.Compare(hash, "secret"))
	assert.Error(t, hasher.Compare(hash, "wrong"))
}
