package credentials

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := OpenDatabase(context.Background(), "file:credstest?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := NewSQLiteStore(db)
	require.NoError(t, store.Clear(context.Background()))
	return store
}

func TestStoreMissingTokenIsNotAnError(t *testing.T) {
	store := setupStore(t)

	token, err := store.Get(context.Background())
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestStoreRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tok-1"))
	token, err := store.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok-1", token)

	// Set replaces, never appends.
	require.NoError(t, store.Set(ctx, "tok-2"))
	token, err = store.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok-2", token)
}

func TestStoreClear(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tok-1"))
	require.NoError(t, store.Clear(ctx))

	token, err := store.Get(ctx)
	require.NoError(t, err)
	require.Empty(t, token)

	// Clearing an empty store is fine.
	require.NoError(t, store.Clear(ctx))
}
