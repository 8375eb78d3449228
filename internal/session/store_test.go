package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	return store
}

func TestStoreSaveLoad(t *testing.T) {
	store := newTestStore(t)

	cred := &Credential{Access: "access-token", Refresh: "refresh-token"}
	require.NoError(t, store.Save(cred))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, cred, loaded)

	t.Run("file is owner-only", func(t *testing.T) {
		info, err := os.Stat(store.Path())
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("save replaces prior credential", func(t *testing.T) {
		require.NoError(t, store.Save(&Credential{Access: "newer", Refresh: "newer-refresh"}))

		loaded, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, "newer", loaded.Access)
	})
}

func TestStoreLoadFailures(t *testing.T) {
	t.Run("absent credential", func(t *testing.T) {
		store := newTestStore(t)

		cred, err := store.Load()
		require.ErrorIs(t, err, ErrNoCredential)
		require.Nil(t, cred)
	})

	t.Run("corrupt file", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0600))

		cred, err := store.Load()
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrNoCredential)
		require.Nil(t, cred)
	})

	t.Run("missing access token", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, os.WriteFile(store.Path(), []byte(`{"refresh":"only"}`), 0600))

		cred, err := store.Load()
		require.Error(t, err)
		require.Nil(t, cred)
	})
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(&Credential{Access: "access-token", Refresh: "refresh-token"}))
	require.NoError(t, store.Clear())

	_, err := store.Load()
	require.ErrorIs(t, err, ErrNoCredential)

	// Clearing again is a no-op.
	require.NoError(t, store.Clear())
}

func TestStoreAccessToken(t *testing.T) {
	t.Run("returns stored token", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Save(&Credential{Access: "access-token", Refresh: "refresh-token"}))

		token, ok := store.AccessToken()
		require.True(t, ok)
		assert.Equal(t, "access-token", token)
	})

	t.Run("logged out", func(t *testing.T) {
		store := newTestStore(t)

		token, ok := store.AccessToken()
		require.False(t, ok)
		assert.Empty(t, token)
	})

	t.Run("unreadable credential", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, os.WriteFile(store.Path(), []byte("garbage"), 0600))

		_, ok := store.AccessToken()
		require.False(t, ok)
	})
}
