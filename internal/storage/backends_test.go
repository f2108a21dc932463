package storage

import (
	"context"
	"kickoff/internal/storage/interfaces"
	"kickoff/internal/testutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func init() {
	// keep tests away from the real OS keyring
	keyring.MockInit()
}

func openBackends(t *testing.T) map[string]interfaces.BackendInterface {
	t.Helper()
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(comp.Close)

	file, err := OpenFileBackend(filepath.Join(t.TempDir(), "kv"), comp)
	require.NoError(t, err)

	sqlite, err := OpenSqliteBackend(filepath.Join(t.TempDir(), "db", "kickoff.db"), comp)
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	kr, err := OpenKeyringBackend("kickoff-test-" + t.Name())
	require.NoError(t, err)

	return map[string]interfaces.BackendInterface{
		BackendFile:    file,
		BackendSqlite:  sqlite,
		BackendKeyring: kr,
	}
}

func TestBackends_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	for name, b := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, name, b.Name())

			_, err := b.Get(ctx, "user-preferences")
			assert.ErrorIs(t, err, interfaces.ErrNotFound)

			require.NoError(t, b.Set(ctx, "user-preferences", []byte(`{"a":1}`)))
			require.NoError(t, b.Set(ctx, "user-preferences", []byte(`{"a":2}`)))

			val, err := b.Get(ctx, "user-preferences")
			require.NoError(t, err)
			assert.Equal(t, `{"a":2}`, string(val))

			require.NoError(t, b.Remove(ctx, "user-preferences"))
			_, err = b.Get(ctx, "user-preferences")
			assert.ErrorIs(t, err, interfaces.ErrNotFound)

			// removing twice is not an error
			assert.NoError(t, b.Remove(ctx, "user-preferences"))
		})
	}
}

func TestFileBackend_AtomicWriteLeavesNoTmp(t *testing.T) {
	dir := t.TempDir()
	b, err := OpenFileBackend(dir, &testutil.MockCompressor{})
	require.NoError(t, err)

	require.NoError(t, b.Set(context.Background(), "auth_tokens", []byte("x")))

	_, err = os.Stat(b.path("auth_tokens"))
	assert.NoError(t, err)
	_, err = os.Stat(b.path("auth_tokens") + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileBackend_EscapesKeys(t *testing.T) {
	dir := t.TempDir()
	b, err := OpenFileBackend(dir, &testutil.MockCompressor{})
	require.NoError(t, err)

	require.NoError(t, b.Set(context.Background(), "../escape/attempt", []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Dir(b.path("../escape/attempt")), dir)
}

func TestOpenFileBackend_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := OpenFileBackend(filepath.Join(file, "kv"), &testutil.MockCompressor{})
	assert.Error(t, err)
}

func TestSqliteBackend_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kickoff.db")
	comp := &testutil.MockCompressor{}

	b, err := OpenSqliteBackend(path, comp)
	require.NoError(t, err)
	require.NoError(t, b.Set(context.Background(), "notifications", []byte("[]")))
	require.NoError(t, b.Close())

	b, err = OpenSqliteBackend(path, comp)
	require.NoError(t, err)
	defer b.Close()

	val, err := b.Get(context.Background(), "notifications")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(val))
}

func TestOpenKeyringBackend_EmptyService(t *testing.T) {
	_, err := OpenKeyringBackend("")
	assert.Error(t, err)
}

func TestUnavailableBackend_SoftMiss(t *testing.T) {
	b := &unavailableBackend{name: "file"}
	ctx := context.Background()

	assert.NoError(t, b.Set(ctx, "k", []byte("v")))
	_, err := b.Get(ctx, "k")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
	assert.NoError(t, b.Remove(ctx, "k"))
	assert.Equal(t, "file(unavailable)", b.Name())
}
