package filestore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Tabo-ecom/grandline-go/session/filestore"
	"github.com/stretchr/testify/require"
)

func TestMissingFileReadsAsAbsent(t *testing.T) {
	store := filestore.New(filepath.Join(t.TempDir(), "gl_token"))

	token, err := store.Get()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gl_token")
	store := filestore.New(path)

	require.NoError(t, store.Set("token-1"))
	token, err := store.Get()
	require.NoError(t, err)
	require.Equal(t, "token-1", token)

	require.NoError(t, store.Clear())
	token, err = store.Get()
	require.NoError(t, err)
	require.Empty(t, token)

	// Clearing an already-absent token is not an error.
	require.NoError(t, store.Clear())
}

func TestTokenSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "gl_token")

	require.NoError(t, filestore.New(path).Set("persisted-token"))

	// A fresh store on the same path sees the previous session.
	token, err := filestore.New(path).Get()
	require.NoError(t, err)
	require.Equal(t, "persisted-token", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
