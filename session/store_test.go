package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/misexecutive/minda-corp/session"
)

func TestFileStore(t *testing.T) {
	t.Run("missing file means logged out", func(t *testing.T) {
		store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
		s, err := store.Load()
		require.NoError(t, err)
		require.Nil(t, s)
	})

	t.Run("save then load round trips", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "session.json")
		store := session.NewFileStore(path)

		saved := &session.Session{
			Token:    "tok-1",
			Role:     session.RoleAdmin,
			UserID:   "u-1",
			Username: "asha",
		}
		require.NoError(t, store.Save(saved))

		loaded, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, saved, loaded)
	})

	t.Run("corrupt file is discarded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		store := session.NewFileStore(path)
		s, err := store.Load()
		require.NoError(t, err)
		require.Nil(t, s)

		_, statErr := os.Stat(path)
		require.True(t, os.IsNotExist(statErr))
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
		require.NoError(t, store.Clear())
		require.NoError(t, store.Clear())
	})
}

func TestSession_IsAuthenticated(t *testing.T) {
	var s *session.Session
	require.False(t, s.IsAuthenticated())
	require.False(t, (&session.Session{}).IsAuthenticated())
	require.True(t, (&session.Session{Token: "tok"}).IsAuthenticated())
}

func TestParseRole(t *testing.T) {
	role, err := session.ParseRole("ADMIN")
	require.NoError(t, err)
	require.Equal(t, session.RoleAdmin, role)

	role, err = session.ParseRole("USER")
	require.NoError(t, err)
	require.Equal(t, session.RoleUser, role)

	_, err = session.ParseRole("ROOT")
	require.Error(t, err)
}

func TestRole_Home(t *testing.T) {
	require.Equal(t, "/admin", session.RoleAdmin.Home())
	require.Equal(t, "/dashboard", session.RoleUser.Home())
}
