package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLiteRegistry(t *testing.T) *SQLiteRegistry {
	t.Helper()
	registry, err := NewSQLiteRegistry(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { registry.Close() })

	require.NoError(t, registry.RunMigrations("migrations"))
	return registry
}

func TestSQLiteRegistry_InsertAndFind(t *testing.T) {
	registry := setupSQLiteRegistry(t)
	ctx := context.Background()

	rec, err := registry.Insert(ctx, "a@x.com", "hash-a", "Alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.UserID)

	found, err := registry.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, rec, found)
}

func TestSQLiteRegistry_FindUnknownEmail(t *testing.T) {
	registry := setupSQLiteRegistry(t)

	_, err := registry.FindByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestSQLiteRegistry_DuplicateEmail(t *testing.T) {
	registry := setupSQLiteRegistry(t)
	ctx := context.Background()

	_, err := registry.Insert(ctx, "a@x.com", "hash-a", "Alice")
	require.NoError(t, err)

	_, err = registry.Insert(ctx, "a@x.com", "hash-b", "Impostor")
	assert.ErrorIs(t, err, ErrEmailTaken)

	// The original record is untouched.
	found, err := registry.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "hash-a", found.PasswordHash)
	assert.Equal(t, "Alice", found.Name)
}

func TestSQLiteRegistry_SequentialIDs(t *testing.T) {
	registry := setupSQLiteRegistry(t)
	ctx := context.Background()

	a, err := registry.Insert(ctx, "a@x.com", "h", "A")
	require.NoError(t, err)
	b, err := registry.Insert(ctx, "b@x.com", "h", "B")
	require.NoError(t, err)
	c, err := registry.Insert(ctx, "c@x.com", "h", "C")
	require.NoError(t, err)

	assert.Equal(t, a.UserID+1, b.UserID)
	assert.Equal(t, b.UserID+1, c.UserID)
}

func TestSQLiteRegistry_EmailMatchIsCaseSensitive(t *testing.T) {
	registry := setupSQLiteRegistry(t)
	ctx := context.Background()

	_, err := registry.Insert(ctx, "a@x.com", "h", "A")
	require.NoError(t, err)

	_, err = registry.FindByEmail(ctx, "A@X.COM")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
