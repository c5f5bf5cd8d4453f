package sessioncache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoralabs/aora/internal/common"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := New(t.TempDir())
	sess := Session{Email: "a@b.c", UserID: "u1", Secret: "tok-123"}

	require.NoError(t, store.Save(sess, []byte("password")))

	got, err := store.Load([]byte("password"))
	require.NoError(t, err)
	assert.Equal(t, sess, *got)
}

func TestLoad_WrongPassword(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Save(Session{Secret: "tok"}, []byte("password")))

	_, err := store.Load([]byte("wrong"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestLoad_NoCache(t *testing.T) {
	store := New(t.TempDir())

	_, err := store.Load([]byte("password"))
	assert.True(t, errors.Is(err, common.ErrNoSavedSession))
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("not json"), 0o600))

	_, err := store.Load([]byte("password"))
	assert.Error(t, err)
}

func TestClear(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Save(Session{Secret: "tok"}, []byte("pw")))

	require.NoError(t, store.Clear())
	_, err := store.Load([]byte("pw"))
	assert.True(t, errors.Is(err, common.ErrNoSavedSession))

	// clearing twice is fine
	assert.NoError(t, store.Clear())
}

func TestSave_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	store := New(dir)

	require.NoError(t, store.Save(Session{Secret: "tok"}, []byte("pw")))
	_, err := os.Stat(filepath.Join(dir, fileName))
	assert.NoError(t, err)
}
